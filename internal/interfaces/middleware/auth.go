package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/auth"
)

// エラーレスポンスの形式
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// RequireAuth lets a request through only with a valid session cookie.
// Browser requests without one are sent to the sign-in challenge and return
// to the same URL afterwards. Requests under apiPrefix get a 401 instead.
func RequireAuth(sessions *auth.SessionManager, pathBase, apiPrefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
				if id, err := sessions.ParseSession(cookie.Value); err == nil {
					c.Set(auth.IdentityContextKey, id)
					return next(c)
				}
			}

			if apiPrefix != "" && strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: domainErrors.ErrUnauthenticated.Error(),
				})
			}

			signIn := pathBase + "/account/signin?returnUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, signIn)
		}
	}
}
