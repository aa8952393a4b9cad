package resource

import (
	"errors"
	"time"
)

const (
	apiPrefix = "/api/v1"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	bearerPrefix        = "Bearer "
	contentTypeJSON     = "application/json"
	defaultFileType     = "application/octet-stream"

	// ImageField is the only multipart file field the backend accepts.
	ImageField = "image"

	defaultTimeout       = 30 * time.Second
	maxResponseBodyBytes = 10 << 20
	maxErrorMessageLen   = 300

	pathLogin  = "user/login"
	pathSignup = "user/signup"

	errInvalidBaseURLFmt   = "invalid base URL %q: %w"
	errEncodeBodyFmt       = "failed to encode request body: %w"
	errBuildRequestFmt     = "failed to build request: %w"
	errWriteMultipartFmt   = "failed to write multipart field %s: %w"
	errDecodeDataFmt       = "failed to decode %s response data: %w"
	errReadFileFmt         = "failed to read upload %s: %w"
	msgInvalidResponseBody = "backend returned an unreadable response"
	msgMissingData         = "backend response is missing data"
)

var (
	errBaseURLRequired   = errors.New("base URL is required")
	errMissingID         = errors.New("entity id is required")
	errMissingPath       = errors.New("resource path is required")
	errMissingSchemeHost = errors.New("scheme and host are required")
)
