package credentials

import (
	"errors"
	"os"
)

const (
	credentialsFileMode os.FileMode = 0o600
	credentialsDirMode  os.FileMode = 0o700

	errReadCredentialsFmt   = "failed to read credentials file: %w"
	errDecodeCredentialsFmt = "failed to decode credentials file: %w"
	errWriteCredentialsFmt  = "failed to write credentials file: %w"
	errRemoveCredentialsFmt = "failed to remove credentials file: %w"
)

var errEmptyToken = errors.New("token cannot be empty")
