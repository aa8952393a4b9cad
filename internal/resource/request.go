package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Access states whether a call may go out without a bearer token.
type Access int

const (
	// AccessPublic attaches the token when present and sends anyway when not.
	AccessPublic Access = iota
	// AccessRequired refuses to send without a token.
	AccessRequired
)

// Call describes one request against a resource path.
type Call struct {
	Method string
	Path   string
	ID     string
	Access Access
	Fields Fields
	File   *Upload
	// Query is appended to the URL, e.g. filters on a list.
	Query url.Values
}

func (c Call) mutating() bool {
	switch c.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (c Call) hasBody() bool {
	return c.Fields != nil || c.File != nil
}

// endpoint joins base, the API prefix, the resource path and the optional id.
func (c *Client) endpoint(path, id string) string {
	u := *c.baseURL
	base := strings.TrimRight(u.EscapedPath(), "/")

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if id != "" {
		segments = append(segments, id)
	}
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, base, strings.Trim(apiPrefix, "/"))
	for _, seg := range segments {
		escaped = append(escaped, url.PathEscape(seg))
	}

	raw := strings.Join(escaped, "/")
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path = p
		u.RawPath = raw
	}
	return u.String()
}

// BuildRequest constructs the outbound request for call without sending it.
// A nil File produces a JSON body; a non-nil File produces multipart form data
// with the file under ImageField and every other field flattened to a string.
func (c *Client) BuildRequest(ctx context.Context, call Call, token string) (*http.Request, error) {
	if strings.Trim(call.Path, "/") == "" {
		return nil, errMissingPath
	}

	var (
		body        io.Reader
		contentType string
	)

	if call.hasBody() {
		var err error
		if call.File != nil {
			body, contentType, err = encodeMultipart(call.Fields, call.File)
		} else {
			body, contentType, err = encodeJSON(call.Fields)
		}
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.endpoint(call.Path, call.ID), body)
	if err != nil {
		return nil, fmt.Errorf(errBuildRequestFmt, err)
	}
	if len(call.Query) > 0 {
		req.URL.RawQuery = call.Query.Encode()
	}

	req.Header.Set(headerAccept, contentTypeJSON)
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	if token != "" {
		req.Header.Set(headerAuthorization, bearerPrefix+token)
	}

	return req, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeJSON(fields Fields) (io.Reader, string, error) {
	if fields == nil {
		fields = Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, "", fmt.Errorf(errEncodeBodyFmt, err)
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

func encodeMultipart(fields Fields, file *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range fields.Without(ImageField) {
		value, ok, err := multipartValue(field.Value)
		if err != nil {
			return nil, "", fmt.Errorf(errWriteMultipartFmt, field.Name, err)
		}
		if !ok {
			continue
		}
		if err := w.WriteField(field.Name, value); err != nil {
			return nil, "", fmt.Errorf(errWriteMultipartFmt, field.Name, err)
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultFileType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ImageField, quoteEscaper.Replace(file.Filename)))
	header.Set(headerContentType, contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf(errWriteMultipartFmt, ImageField, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf(errWriteMultipartFmt, ImageField, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf(errEncodeBodyFmt, err)
	}

	return &buf, w.FormDataContentType(), nil
}
