package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chakai/reservation-api/internal/utils"
)

const testSecret = "test-secret"

func runWith(t *testing.T, mw echo.MiddlewareFunc, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/events", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(next)(c))
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "ADMIN", 5)
	require.NoError(t, err)

	called := false
	runWith(t, JWTAuth(testSecret), "Bearer "+tok.Token, func(c echo.Context) error {
		called = true
		// Numeric claims come back as float64 from the JSON decoder.
		assert.EqualValues(t, 42, c.Get("user_id"))
		assert.Equal(t, "ADMIN", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	assert.True(t, called)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := runWith(t, JWTAuth(testSecret), "", func(c echo.Context) error {
		t.Fatal("handler must not run without a token")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 42, "ADMIN", 5)
	require.NoError(t, err)

	rec := runWith(t, JWTAuth(testSecret), "Bearer "+tok.Token, func(c echo.Context) error {
		t.Fatal("handler must not run with a forged token")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     interface{}
		wantCode int
	}{
		{"admin allowed", "ADMIN", http.StatusOK},
		{"other role rejected", "GUEST", http.StatusForbidden},
		{"missing role rejected", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			require.NoError(t, RequireRole("ADMIN")(next)(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
