package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k9#Qv2!mZ7@xL4$wR8^tY1&pB6*nC3(s"

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact", nil)
	if header != "" {
		req.Header.Set(headerAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var authed bool
	err := mw(func(c echo.Context) error {
		authed = IsAuthenticated(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, authed
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	id := uuid.New()

	token, err := svc.Generate(id, "admin@firm.test")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin@firm.test", claims.Email)
}

func TestJWTService_RejectsExpiredAndForeign(t *testing.T) {
	svc := NewJWTService(testSecret, time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := svc.Generate(uuid.New(), "a@firm.test")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(expired)
	assert.Error(t, err)

	other := NewJWTService("another-secret-with-enough-length-123", time.Hour)
	foreign, err := other.Generate(uuid.New(), "a@firm.test")
	require.NoError(t, err)
	_, err = svc.Verify(foreign)
	assert.Error(t, err)
}

func TestRequireJWT(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	mw := NewMiddleware(svc).RequireJWT()
	token, err := svc.Generate(uuid.New(), "a@firm.test")
	require.NoError(t, err)

	rec, _ := serve(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"missing authorization token"}`, rec.Body.String())

	rec, _ = serve(t, mw, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, mw, "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, authed := serve(t, mw, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, authed)
}

func TestOptionalJWT(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	mw := NewMiddleware(svc).OptionalJWT()
	token, err := svc.Generate(uuid.New(), "a@firm.test")
	require.NoError(t, err)

	rec, authed := serve(t, mw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authed)

	rec, authed = serve(t, mw, "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authed)

	_, authed = serve(t, mw, "bearer "+token)
	assert.True(t, authed)
}
