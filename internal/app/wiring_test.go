package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lawfirm-cms/internal/config"
	"lawfirm-cms/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", PublicURL: "http://localhost"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		AWS:      config.AWSConfig{ImageStore: config.DriverMemory},
		JWT:      config.JWTConfig{Secret: "k9#Qv2!mZ7@xL4$wR8^tY1&pB6*nC3(s"},
		App: config.AppConfig{
			MaxUploadSize:      1 << 20,
			RateLimitRPS:       100,
			RateLimitBurst:     100,
			AuthRateLimitRPS:   100,
			AuthRateLimitBurst: 100,
			AuditCapacity:      10,
		},
	}
}

func TestInitializeService_Memory(t *testing.T) {
	svc, err := InitializeService(context.Background(), memoryConfig(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	rec := httptest.NewRecorder()
	svc.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	svc.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	svc.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/memory", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "profiling is off by default")
}

func TestNewNotifier_DisabledWithoutProviders(t *testing.T) {
	n, err := newNotifier(context.Background(), &config.MailConfig{}, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNewNotifier_RejectsUnknownStrategy(t *testing.T) {
	cfg := &config.MailConfig{
		Providers:    []string{config.MailProviderResend},
		ResendAPIKey: "re_test",
		Strategy:     "priority",
		From:         "site@firm.test",
		NotifyTo:     []string{"desk@firm.test"},
	}
	_, err := newNotifier(context.Background(), cfg, logger.Discard())
	assert.ErrorContains(t, err, "mail strategy")
}
