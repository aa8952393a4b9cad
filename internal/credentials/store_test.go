package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestMemoryStore_SetClear(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Token()
	assert.False(t, ok)

	require.NoError(t, s.Set(" abc "))
	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	require.NoError(t, s.Clear())
	_, ok = s.Token()
	assert.False(t, ok)
}

func TestMemoryStore_RejectsEmptyToken(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Set("   "))
}

func TestMemoryStore_Subscribe(t *testing.T) {
	s := NewMemoryStore()
	var seen []string

	unsubscribe := s.Subscribe(func(token string) { seen = append(seen, token) })

	require.NoError(t, s.Set("one"))
	require.NoError(t, s.Clear())
	unsubscribe()
	require.NoError(t, s.Set("two"))

	assert.Equal(t, []string{"one", ""}, seen)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")

	first := NewFileStore(path)
	require.NoError(t, first.Set("persisted"))

	second := NewFileStore(path)
	token, ok := second.Token()
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, credentialsFileMode, info.Mode().Perm())
}

func TestFileStore_ClearIsVisibleToOtherInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	a := NewFileStore(path)
	b := NewFileStore(path)

	require.NoError(t, a.Set("shared"))
	_, ok := b.Token()
	require.True(t, ok)

	require.NoError(t, a.Clear())
	_, ok = b.Token()
	assert.False(t, ok)

	assert.NoError(t, a.Clear(), "clearing twice is not an error")
}

func TestExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, Expired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, Expired(signedToken(t, now.Add(time.Hour)), now))
	assert.False(t, Expired("opaque-session-token", now))
}

func TestWithExpiry(t *testing.T) {
	s := NewMemoryStore()
	guard := WithExpiry(s)

	require.NoError(t, s.Set(signedToken(t, time.Now().Add(-time.Second))))
	_, ok := guard.Token()
	assert.False(t, ok)

	fresh := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Set(fresh))
	token, ok := guard.Token()
	assert.True(t, ok)
	assert.Equal(t, fresh, token)
}
