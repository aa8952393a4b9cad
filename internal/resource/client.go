package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "lawfirm-cms/pkg/errors"
	"lawfirm-cms/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TokenSource yields the current bearer token. It is consulted on every call.
type TokenSource interface {
	Token() (string, bool)
}

// Client issues authenticated requests against {base}/api/v1/{resource}.
// It holds no entity state.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	log        logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

type noTokens struct{}

func (noTokens) Token() (string, bool) { return "", false }

func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf(errInvalidBaseURLFmt, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf(errInvalidBaseURLFmt, baseURL, errMissingSchemeHost)
	}

	if tokens == nil {
		tokens = noTokens{}
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		log:        logger.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do sends call and decodes the envelope's data into out when out is non-nil.
// When requireData is set a success response without data is a server error.
func (c *Client) Do(ctx context.Context, call Call, out any, requireData bool) (Envelope, error) {
	token, hasToken := c.tokens.Token()
	if call.Access == AccessRequired && !hasToken {
		return Envelope{}, apperrors.NotAuthenticated(call.Path)
	}

	req, err := c.BuildRequest(ctx, call, token)
	if err != nil {
		return Envelope{}, err
	}

	fields := logrus.Fields{"method": call.Method, "resource": call.Path}
	if call.ID != "" {
		fields["id"] = call.ID
	}
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(fields).WithField(logrus.ErrorKey, logger.SanitizeLogMessage(err.Error())).Warn("request failed")
		return Envelope{}, apperrors.Network(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("response read failed")
		return Envelope{}, apperrors.Network(err)
	}

	fields["status"] = resp.StatusCode
	fields["took"] = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := classify(resp.StatusCode, body, call.mutating())
		c.log.WithFields(fields).WithField(logrus.ErrorKey, cerr.Error()).Warn("request rejected")
		return Envelope{}, cerr
	}
	c.log.WithFields(fields).Debug("request completed")

	env, ok := decodeEnvelope(body)
	if !ok {
		return Envelope{}, apperrors.Server(resp.StatusCode, msgInvalidResponseBody)
	}

	if !env.HasData() {
		if requireData {
			return env, apperrors.Server(resp.StatusCode, msgMissingData)
		}
		return env, nil
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			serr := apperrors.Server(resp.StatusCode, msgInvalidResponseBody)
			serr.Err = fmt.Errorf(errDecodeDataFmt, call.Path, err)
			return env, serr
		}
	}

	return env, nil
}

// List fetches every entity of path into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, path string, access Access, out any) error {
	_, err := c.Do(ctx, Call{Method: http.MethodGet, Path: path, Access: access}, out, false)
	return err
}

// Get fetches one entity.
func (c *Client) Get(ctx context.Context, path, id string, access Access, out any) error {
	if id == "" {
		return errMissingID
	}
	_, err := c.Do(ctx, Call{Method: http.MethodGet, Path: path, ID: id, Access: access}, out, true)
	return err
}

// Create posts fields (and file, if any) and decodes the created entity into out.
func (c *Client) Create(ctx context.Context, path string, access Access, fields Fields, file *Upload, out any) (string, error) {
	if fields == nil {
		fields = Fields{}
	}
	env, err := c.Do(ctx, Call{Method: http.MethodPost, Path: path, Access: access, Fields: fields, File: file}, out, out != nil)
	return env.Message, err
}

// Update sends fields to path/id with method (PATCH or PUT).
func (c *Client) Update(ctx context.Context, path, id, method string, fields Fields, file *Upload, out any) (string, error) {
	if id == "" {
		return "", errMissingID
	}
	if method == "" {
		method = http.MethodPatch
	}
	if fields == nil {
		fields = Fields{}
	}
	env, err := c.Do(ctx, Call{Method: method, Path: path, ID: id, Access: AccessRequired, Fields: fields, File: file}, out, out != nil)
	return env.Message, err
}

// Remove deletes path/id.
func (c *Client) Remove(ctx context.Context, path, id string) (string, error) {
	if id == "" {
		return "", errMissingID
	}
	env, err := c.Do(ctx, Call{Method: http.MethodDelete, Path: path, ID: id, Access: AccessRequired}, nil, false)
	return env.Message, err
}
