package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.True(t, VerifyPassword("hunter2", hash))
	require.False(t, VerifyPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken(42, "alice", testSecret)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, int32(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	token, err := SignToken(42, "alice", testSecret)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestMiddleware_AllowsValidBearer(t *testing.T) {
	e := echo.New()
	handler := Middleware(testSecret)(func(c echo.Context) error {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		return c.String(http.StatusOK, claims.Username)
	})

	token, err := SignToken(7, "bob", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, "bob", rec.Body.String())
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	e := echo.New()
	handler := Middleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestMiddleware_AcceptsQueryParamForWebsocket(t *testing.T) {
	e := echo.New()
	handler := Middleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	token, err := SignToken(7, "bob", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?access_token="+token, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
}
