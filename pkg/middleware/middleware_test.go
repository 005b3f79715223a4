package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/pkg/auth"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type checker bool

func (c checker) Connected() bool { return bool(c) }

func whoami(c echo.Context) error {
	u, err := auth.GetUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, u.ID+":"+u.Role)
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()
	iss := auth.NewIssuer(auth.Config{Secret: "s", TTL: time.Hour})
	userToken, _, err := iss.Issue("u-1", auth.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := iss.Issue("a-1", auth.RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/me", whoami, md.JwtAuthentication(iss))
	e.GET("/admin", whoami, md.JwtAuthentication(iss), md.RequireRole(auth.RoleAdmin))

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "no header", path: "/me", wantCode: http.StatusUnauthorized, wantBody: `{"message":"No Authorization Header"}`},
		{name: "not bearer", path: "/me", header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: `{"message":"Invalid Authorization Header"}`},
		{name: "bad token", path: "/me", header: "Bearer abc", wantCode: http.StatusUnauthorized, wantBody: `{"message":"Invalid or expired token"}`},
		{name: "ok", path: "/me", header: "Bearer " + userToken, wantCode: http.StatusOK, wantBody: "u-1:user"},
		{name: "user on admin route", path: "/admin", header: "Bearer " + userToken, wantCode: http.StatusForbidden, wantBody: `{"message":"Access denied"}`},
		{name: "admin", path: "/admin", header: "Bearer " + adminToken, wantCode: http.StatusOK, wantBody: "a-1:admin"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				r.Header.Set(md.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestRequireStore(t *testing.T) {
	t.Parallel()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	e := echo.New()
	e.GET("/down", ok, md.RequireStore(checker(false)))
	e.GET("/up", ok, md.RequireStore(checker(true)))

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", http.NoBody))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"error":"DATABASE_DISCONNECTED"`)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/up", http.NoBody))
	require.Equal(t, http.StatusNoContent, w.Code)
}
