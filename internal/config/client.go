package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	envClientAPIURL      = "LAWCMS_API_URL"
	envClientTimeout     = "LAWCMS_TIMEOUT"
	envClientCredentials = "LAWCMS_CREDENTIALS_FILE"

	defaultClientAPIURL   = "http://localhost:8080"
	defaultClientTimeout  = 30 * time.Second
	defaultCredentialsDir = ".lawcms"
	credentialsFileName   = "credentials.json"

	errInvalidAPIURLFmt = "LAWCMS_API_URL %q must be an absolute http(s) URL"
	errHomeDirFmt       = "cannot locate home directory for credentials: %w"
)

// ClientConfig configures the admin CLI.
type ClientConfig struct {
	APIURL          string
	Timeout         time.Duration
	CredentialsFile string
}

func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIURL:          getEnv(envClientAPIURL, defaultClientAPIURL),
		Timeout:         getDurationEnv(envClientTimeout, defaultClientTimeout),
		CredentialsFile: os.Getenv(envClientCredentials),
	}

	if cfg.CredentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf(errInvalidConfigurationFmt, fmt.Errorf(errHomeDirFmt, err))
		}
		cfg.CredentialsFile = filepath.Join(home, defaultCredentialsDir, credentialsFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}
	return cfg, nil
}

func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf(errInvalidAPIURLFmt, c.APIURL)
	}
	return nil
}
