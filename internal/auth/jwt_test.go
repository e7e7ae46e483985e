// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/config"
	"github.com/carterperez-dev/reviewboard/internal/core"
)

func newTestJWTManager(
	t *testing.T,
	expire time.Duration,
) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.TokenConfig{
		PrivateKeyPath:    privatePath,
		PublicKeyPath:     publicPath,
		AccessTokenExpire: expire,
		Issuer:            "reviewboard-test",
		Audience:          "reviewboard-test-api",
	})
	require.NoError(t, err)
	return manager
}

func TestJWT_RoundTrip(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	token, expiresAt, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:    "u1",
		Username:  "alice",
		Role:      "moderator",
		Superuser: false,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.False(t, claims.Superuser)
}

func TestJWT_SuperuserClaim(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	token, _, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:    "u1",
		Username:  "root",
		Role:      "user",
		Superuser: true,
	})
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, claims.Superuser)
}

func TestJWT_ExpiredToken(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	token, _, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:   "u1",
		Username: "alice",
		Role:     "user",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWT_GarbageToken(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	_, err := manager.VerifyAccessToken(
		context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_ForeignKeyRejected(t *testing.T) {
	issuing := newTestJWTManager(t, time.Hour)
	verifying := newTestJWTManager(t, time.Hour)

	token, _, err := issuing.CreateAccessToken(AccessTokenClaims{
		UserID:   "u1",
		Username: "alice",
		Role:     "user",
	})
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSHandler(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/.well-known/jwks.json", nil)

	manager.GetJWKSHandler()(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"keys"`)
	assert.NotContains(t, rec.Body.String(), `"d"`,
		"jwks must not leak the private component")
}
