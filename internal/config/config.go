package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envCORSOrigins           = "CORS_ALLOWED_ORIGINS"
	envPublicURL             = "PUBLIC_URL"
	envStoreDriver           = "STORE_DRIVER"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envImageStore            = "IMAGE_STORE"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envAWSBucket             = "S3_BUCKET"
	envAWSEndpoint           = "S3_ENDPOINT"
	envAWSPublicBaseURL      = "S3_PUBLIC_BASE_URL"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envAuthRateLimitRPS      = "AUTH_RATE_LIMIT_RPS"
	envAuthRateLimitBurst    = "AUTH_RATE_LIMIT_BURST"
	envSignupEnabled         = "SIGNUP_ENABLED"
	envEnableProfiling       = "ENABLE_PROFILING"
	envAuditCapacity         = "AUDIT_MEMORY_CAPACITY"
	envMailProviders         = "MAIL_PROVIDERS"
	envMailStrategy          = "MAIL_STRATEGY"
	envMailFrom              = "MAIL_FROM"
	envMailNotifyTo          = "MAIL_NOTIFY_TO"
	envMailAdminURL          = "MAIL_ADMIN_URL"
	envResendAPIKey          = "RESEND_API_KEY"
	envSendGridAPIKey        = "SENDGRID_API_KEY"
	envFirmName              = "FIRM_NAME"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	ImageStoreS3   = "s3"

	MailProviderResend   = "resend"
	MailProviderSendGrid = "sendgrid"
)

const (
	defaultServerPort          = "8080"
	defaultServerReadTimeout   = 10 * time.Second
	defaultServerWriteTimeout  = 30 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultCORSOrigins         = "*"
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "lawfirm_cms"
	defaultDBUser              = "lawfirm_cms"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 10
	defaultDBMinConns          = 2
	defaultJWTExpiry           = 24 * time.Hour
	defaultMaxUploadSize       = int64(10 * 1024 * 1024)
	defaultRateLimitRPS        = 20
	defaultRateLimitBurst      = 40
	defaultAuthRateLimitRPS    = 5
	defaultAuthRateLimitBurst  = 10
	defaultAuditCapacity       = 1000
	defaultFirmName            = "Law Firm"
	minJWTSecretLength         = 32
	minUniqueCharsInSecret     = 16
	minRepeatedCharThreshold   = 4
	maxRepeatedChars           = 2
	errPortRequiredFmt         = "PORT must be set"
	errUnknownDriverFmt        = "STORE_DRIVER must be %q or %q, got %q"
	errUnknownImageStoreFmt    = "IMAGE_STORE must be %q or %q, got %q"
	errBucketRequiredFmt       = "S3_BUCKET must be set when IMAGE_STORE=s3"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errUploadSizeFmt           = "MAX_UPLOAD_SIZE must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errMissingEnvFmt           = "%w: %s"
	errMailAPIKeyFmt           = "%s must be set when MAIL_PROVIDERS includes %q"
	errUnknownMailProviderFmt  = "MAIL_PROVIDERS entry %q must be %q or %q"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	JWT      JWTConfig
	App      AppConfig
	Mail     MailConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	// PublicURL is where clients reach this server; memory-stored image
	// URLs are built on it.
	PublicURL string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type AWSConfig struct {
	ImageStore      string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

type AppConfig struct {
	MaxUploadSize  int64
	RateLimitRPS   float64
	RateLimitBurst int
	// AuthRateLimit* throttle signup and login per client IP.
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	SignupEnabled      bool
	// EnableProfiling mounts /debug/pprof and /debug/memory.
	EnableProfiling bool
	// AuditCapacity bounds the in-memory activity log.
	AuditCapacity int
}

// MailConfig drives inquiry notifications. With no providers, none are sent.
type MailConfig struct {
	Providers      []string
	Strategy       string
	From           string
	NotifyTo       []string
	AdminURL       string
	FirmName       string
	ResendAPIKey   string
	SendGridAPIKey string
}

// Enabled reports whether inquiry notifications are configured.
func (m *MailConfig) Enabled() bool {
	return len(m.Providers) > 0
}

// APIKey returns the key for the named provider.
func (m *MailConfig) APIKey(provider string) string {
	switch provider {
	case MailProviderResend:
		return m.ResendAPIKey
	case MailProviderSendGrid:
		return m.SendGridAPIKey
	default:
		return ""
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			CORSOrigins:     splitList(getEnv(envCORSOrigins, defaultCORSOrigins)),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv(envStoreDriver, DriverMemory)),
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		AWS: AWSConfig{
			ImageStore:      strings.ToLower(getEnv(envImageStore, DriverMemory)),
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envAWSBucket),
			Endpoint:        os.Getenv(envAWSEndpoint),
			PublicBaseURL:   os.Getenv(envAWSPublicBaseURL),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		App: AppConfig{
			MaxUploadSize:      getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			RateLimitRPS:       float64(getIntEnv(envRateLimitRPS, defaultRateLimitRPS)),
			RateLimitBurst:     getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
			AuthRateLimitRPS:   float64(getIntEnv(envAuthRateLimitRPS, defaultAuthRateLimitRPS)),
			AuthRateLimitBurst: getIntEnv(envAuthRateLimitBurst, defaultAuthRateLimitBurst),
			SignupEnabled:      getBoolEnv(envSignupEnabled, true),
			EnableProfiling:    getBoolEnv(envEnableProfiling, false),
			AuditCapacity:      getIntEnv(envAuditCapacity, defaultAuditCapacity),
		},
		Mail: MailConfig{
			Providers:      splitList(strings.ToLower(os.Getenv(envMailProviders))),
			Strategy:       strings.ToLower(os.Getenv(envMailStrategy)),
			From:           os.Getenv(envMailFrom),
			NotifyTo:       splitList(os.Getenv(envMailNotifyTo)),
			AdminURL:       os.Getenv(envMailAdminURL),
			FirmName:       getEnv(envFirmName, defaultFirmName),
			ResendAPIKey:   os.Getenv(envResendAPIKey),
			SendGridAPIKey: os.Getenv(envSendGridAPIKey),
		},
	}

	cfg.Server.PublicURL = getEnv(envPublicURL, "http://localhost:"+cfg.Server.Port)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Password == "" {
			return missingEnv(envDBPassword)
		}
	default:
		return fmt.Errorf(errUnknownDriverFmt, DriverMemory, DriverPostgres, c.Database.Driver)
	}

	switch c.AWS.ImageStore {
	case DriverMemory:
	case ImageStoreS3:
		for key, value := range map[string]string{
			envAWSRegion:          c.AWS.Region,
			envAWSAccessKeyID:     c.AWS.AccessKeyID,
			envAWSSecretAccessKey: c.AWS.SecretAccessKey,
		} {
			if value == "" {
				return missingEnv(key)
			}
		}
		if c.AWS.Bucket == "" {
			return fmt.Errorf(errBucketRequiredFmt)
		}
	default:
		return fmt.Errorf(errUnknownImageStoreFmt, DriverMemory, ImageStoreS3, c.AWS.ImageStore)
	}

	if c.JWT.Secret == "" {
		return missingEnv(envJWTSecret)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf(errUploadSizeFmt)
	}

	return c.Mail.Validate()
}

// ErrMissingEnv marks a required setting that is absent.
var ErrMissingEnv = errors.New("required environment variable is not set")

func missingEnv(key string) error {
	return fmt.Errorf(errMissingEnvFmt, ErrMissingEnv, key)
}

func (m *MailConfig) Validate() error {
	if !m.Enabled() {
		return nil
	}
	for _, p := range m.Providers {
		var keyEnv string
		switch p {
		case MailProviderResend:
			keyEnv = envResendAPIKey
		case MailProviderSendGrid:
			keyEnv = envSendGridAPIKey
		default:
			return fmt.Errorf(errUnknownMailProviderFmt, p, MailProviderResend, MailProviderSendGrid)
		}
		if m.APIKey(p) == "" {
			return fmt.Errorf(errMailAPIKeyFmt, keyEnv, p)
		}
	}
	if m.From == "" {
		return missingEnv(envMailFrom)
	}
	if len(m.NotifyTo) == 0 {
		return missingEnv(envMailNotifyTo)
	}
	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

// DSN is the libpq keyword string pgxpool accepts.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, c.MaxConns, c.MinConns,
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s") or bare minutes ("15").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
