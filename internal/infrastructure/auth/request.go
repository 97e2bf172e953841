package auth

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequestBaseURL is scheme://host followed by pathBase for the current request.
func RequestBaseURL(c echo.Context, pathBase string) string {
	return c.Scheme() + "://" + c.Request().Host + pathBase
}

// CallbackURL is where the identity provider sends the browser back to.
func CallbackURL(c echo.Context, pathBase, callbackPath string) string {
	return RequestBaseURL(c, pathBase) + callbackPath
}

// LocalReturnURL keeps only same-site absolute paths, falling back to def.
func LocalReturnURL(raw, def string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return def
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return def
	}
	return raw
}

// CurrentIdentity returns the operator set by the session middleware, or nil.
func CurrentIdentity(c echo.Context) *Identity {
	id, _ := c.Get(IdentityContextKey).(*Identity)
	return id
}
