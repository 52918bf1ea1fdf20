package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"duet-server/configs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, sub string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddleware(t *testing.T) {
	configs.Configs.Secrets.JwtSecret = "test-secret"

	handler := JWTMiddleware(func(c echo.Context) error {
		userID, err := GetUserIDFromContext(c)
		require.NoError(t, err)
		return c.String(http.StatusOK, userID)
	})

	run := func(authHeader string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authHeader != "" {
			req.Header.Set(echo.HeaderAuthorization, authHeader)
		}
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))
		require.NoError(t, err)
		return rec
	}

	t.Run("valid token passes and exposes the user id", func(t *testing.T) {
		token := signToken(t, "test-secret", "US01OWNER0001", jwt.SigningMethodHS256)
		rec := run("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "US01OWNER0001", rec.Body.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := run("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec := run("Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		token := signToken(t, "other-secret", "US01OWNER0001", jwt.SigningMethodHS256)
		rec := run("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "US01OWNER0001",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		rec := run("Bearer " + signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing sub claim is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		rec := run("Bearer " + signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
