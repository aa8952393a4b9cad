// Package testbackend runs the reference backend in process with memory
// stores, for tests that exercise the resource client end to end.
package testbackend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/credentials"
	apphttp "lawfirm-cms/internal/http"
	repomemory "lawfirm-cms/internal/repository/memory"
	"lawfirm-cms/internal/resource"
	storagememory "lawfirm-cms/internal/storage/memory"
	"lawfirm-cms/pkg/logger"
	"lawfirm-cms/pkg/password"

	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-secret-0123456789-abcdefghijklmnop"
	AdminEmail    = "admin@firm.test"
	AdminPassword = "correct horse battery"
	MaxUpload     = 1 << 20
)

type Backend struct {
	Server *httptest.Server
	Docs   *repomemory.Store
	Images *storagememory.Store
	JWT    *auth.JWTService
	Audit  *audit.Logger
	Tokens *credentials.MemoryStore
	Client *resource.Client
}

// Start serves a fresh backend for the duration of t and returns a client
// bound to it with an empty credential store.
func Start(t testing.TB) *Backend {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		App: config.AppConfig{
			MaxUploadSize:      MaxUpload,
			RateLimitRPS:       1000,
			RateLimitBurst:     1000,
			AuthRateLimitRPS:   1000,
			AuthRateLimitBurst: 1000,
			SignupEnabled:      true,
		},
	}

	docs := repomemory.New()
	images := storagememory.New("")
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	auditLog := audit.NewLogger(audit.NewMemoryStore(0), logger.Discard())

	srv := apphttp.NewServer(&apphttp.ServerDependencies{
		Config:     cfg,
		Documents:  docs,
		Users:      docs.Users(),
		Images:     images,
		Hasher:     password.NewHasher(password.MinCost),
		JWTService: jwtService,
		Logger:     logger.Discard(),
		Uploads:    images.Handler,
		Audit:      auditLog,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tokens := credentials.NewMemoryStore()
	client, err := resource.New(ts.URL, tokens, resource.WithLogger(logger.Discard()))
	require.NoError(t, err)

	return &Backend{Server: ts, Docs: docs, Images: images, JWT: jwtService, Audit: auditLog, Tokens: tokens, Client: client}
}

// SignIn registers the admin account if needed, logs in through the client
// and stores the token.
func (b *Backend) SignIn(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	creds := resource.Credentials{Email: AdminEmail, Password: AdminPassword}

	if n, err := b.Docs.Users().Count(ctx); err == nil && n == 0 {
		_, err := b.Client.Signup(ctx, creds)
		require.NoError(t, err)
	}

	result, err := b.Client.Login(ctx, creds)
	require.NoError(t, err)
	require.NoError(t, b.Tokens.Set(result.Token))
}

// SignOut clears the stored token.
func (b *Backend) SignOut(t testing.TB) {
	t.Helper()
	require.NoError(t, b.Tokens.Clear())
}
