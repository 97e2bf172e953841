package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/auth"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

// AccountHandler drives the OpenID Connect sign-in: the challenge, the
// provider callback and sign-out.
type AccountHandler struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	log           logger.Logger
	pathBase      string
	callbackPath  string
}

func NewAccountHandler(authenticator auth.Authenticator, sessions *auth.SessionManager, log logger.Logger, pathBase, callbackPath string) *AccountHandler {
	return &AccountHandler{
		authenticator: authenticator,
		sessions:      sessions,
		log:           log,
		pathBase:      pathBase,
		callbackPath:  callbackPath,
	}
}

func (h *AccountHandler) homeURL() string {
	return h.pathBase + "/"
}

// cookiePath covers pathBase itself as well as everything below it.
func (h *AccountHandler) cookiePath() string {
	if h.pathBase == "" {
		return "/"
	}
	return h.pathBase
}

// SignIn redirects to the identity provider.
// GET /account/signin?returnUrl=/orders
func (h *AccountHandler) SignIn(c echo.Context) error {
	challenge := auth.Challenge{
		State:     uuid.NewString(),
		Nonce:     uuid.NewString(),
		ReturnURL: auth.LocalReturnURL(c.QueryParam("returnUrl"), h.homeURL()),
	}

	token, err := h.sessions.IssueChallenge(challenge)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start sign-in").SetInternal(err)
	}
	h.setCookie(c, auth.ChallengeCookieName, token, auth.ChallengeTTL)

	redirectURI := auth.CallbackURL(c, h.pathBase, h.callbackPath)
	return c.Redirect(http.StatusFound, h.authenticator.AuthCodeURL(challenge.State, challenge.Nonce, redirectURI))
}

// Callback completes the sign-in started by SignIn.
// GET {callbackPath}?code=...&state=...
func (h *AccountHandler) Callback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.log.Warn("identity provider rejected sign-in",
			logger.String("error", providerErr),
			logger.String("description", c.QueryParam("error_description")),
		)
		return echo.NewHTTPError(http.StatusUnauthorized, "sign-in was rejected")
	}

	cookie, err := c.Cookie(auth.ChallengeCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "sign-in was not started")
	}
	challenge, err := h.sessions.ParseChallenge(cookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "sign-in expired").SetInternal(err)
	}
	if c.QueryParam("state") != challenge.State {
		return echo.NewHTTPError(http.StatusBadRequest, "sign-in state mismatch")
	}
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	redirectURI := auth.CallbackURL(c, h.pathBase, h.callbackPath)
	identity, err := h.authenticator.Exchange(c.Request().Context(), code, challenge.Nonce, redirectURI)
	if err != nil {
		h.log.Warn("sign-in failed", logger.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "sign-in failed").SetInternal(err)
	}

	session, err := h.sessions.IssueSession(identity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session").SetInternal(err)
	}

	h.clearCookie(c, auth.ChallengeCookieName)
	h.setCookie(c, auth.SessionCookieName, session, h.sessions.TTL())
	h.log.Info("operator signed in", logger.String("subject", identity.Subject))

	return c.Redirect(http.StatusFound, auth.LocalReturnURL(challenge.ReturnURL, h.homeURL()))
}

// SignOut drops the session and, when the provider supports it, ends the
// provider session too. Either way the browser lands on the app base URL.
func (h *AccountHandler) SignOut(c echo.Context) error {
	h.clearCookie(c, auth.SessionCookieName)

	appBaseURL := auth.RequestBaseURL(c, h.pathBase)
	if endSession := h.authenticator.EndSessionURL(appBaseURL); endSession != "" {
		return c.Redirect(http.StatusFound, endSession)
	}
	return c.Redirect(http.StatusFound, h.homeURL())
}

func (h *AccountHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cookiePath(),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AccountHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     h.cookiePath(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}
