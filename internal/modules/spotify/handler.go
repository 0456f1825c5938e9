package spotify

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/httpx"
	ctxlogger "github.com/lucasvilela/portfolio-api/internal/modules/pkg/logger/context"
)

// Redirect flags carried back to the app root after a login attempt. Every
// terminal transition of the auth flow is a redirect with one of these; raw
// error pages never reach the browser
const (
	flagSuccess      = "success"
	flagDenied       = "denied"
	flagError        = "error"
	flagInvalidState = "invalid_state"
	flagTokenError   = "token_error"
)

// Handler holds dependencies for the Spotify auth-flow and resource endpoints
type Handler struct {
	tokens   *TokenService
	service  *Service
	sessions *SessionStore
	owner    CredentialSource // nil when no owner refresh token is configured
}

// NewHandler creates a new instance of Handler. owner may be nil, in which
// case the owner-identity routes are not registered
func NewHandler(tokens *TokenService, service *Service, sessions *SessionStore, owner CredentialSource) *Handler {
	return &Handler{
		tokens:   tokens,
		service:  service,
		sessions: sessions,
		owner:    owner,
	}
}

// RegisterRoutes sets up the auth-flow and resource-proxy routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	authGroup := e.Group("/auth")
	authGroup.GET("/login", h.loginHandler)
	authGroup.GET("/callback", h.callbackHandler)
	authGroup.POST("/logout", h.logoutHandler)

	resourceGroup := e.Group("/resource")
	resourceGroup.GET("/profile", h.profileHandler)
	resourceGroup.GET("/now-playing", h.nowPlayingHandler)

	if h.owner != nil {
		ownerGroup := resourceGroup.Group("/owner")
		ownerGroup.GET("/profile", h.ownerProfileHandler)
		ownerGroup.GET("/now-playing", h.ownerNowPlayingHandler)
	}
}

// loginHandler starts a login attempt: issue the CSRF nonce, store it in the
// short-lived state cookie and redirect the browser to the provider
func (h *Handler) loginHandler(c echo.Context) error {
	nonce, err := newStateNonce()
	if err != nil {
		return err
	}

	h.sessions.IssueState(c, nonce)
	return c.Redirect(http.StatusFound, h.tokens.AuthorizeURL(nonce))
}

// callbackHandler validates the provider callback and issues the session
// cookies. Validation order: consent denial, missing parameters, nonce
// mismatch, then the code exchange. No cookies are written on any failure path
func (h *Handler) callbackHandler(c echo.Context) error {
	if c.QueryParam("error") != "" {
		return redirectWithFlag(c, flagDenied)
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return redirectWithFlag(c, flagError)
	}

	nonce, ok := h.sessions.ConsumeState(c)
	if !ok || state != nonce {
		return redirectWithFlag(c, flagInvalidState)
	}

	pair, err := h.tokens.Exchange(c.Request().Context(), code)
	if err != nil {
		ctxlogger.GetLogger(c.Request().Context()).Error("token exchange failed",
			slog.String("error", err.Error()),
		)
		return redirectWithFlag(c, flagTokenError)
	}

	h.sessions.WriteAccessToken(c, pair.AccessToken, pair.TTL)
	h.sessions.WriteRefreshToken(c, pair.RefreshToken)
	return redirectWithFlag(c, flagSuccess)
}

// logoutHandler clears both session cookies. No provider call is made; Spotify
// exposes no revocation endpoint for these tokens
func (h *Handler) logoutHandler(c echo.Context) error {
	h.sessions.Clear(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) profileHandler(c echo.Context) error {
	profile, err := h.service.Profile(c.Request().Context(), CookieCredentials(c, h.sessions))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) nowPlayingHandler(c echo.Context) error {
	playing, err := h.service.NowPlaying(c.Request().Context(), CookieCredentials(c, h.sessions))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, playing)
}

func (h *Handler) ownerProfileHandler(c echo.Context) error {
	profile, err := h.service.Profile(c.Request().Context(), h.owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) ownerNowPlayingHandler(c echo.Context) error {
	playing, err := h.service.NowPlaying(c.Request().Context(), h.owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, playing)
}

// ErrorHandler is the centralized echo error handler for the API. It maps
// domain errors to standardized JSON error responses; auth-flow failures never
// reach it because they are always redirects
func ErrorHandler(err error, c echo.Context) {
	log := ctxlogger.GetLogger(c.Request().Context())
	if c.Response().Committed {
		return
	}

	if errors.Is(err, ErrNotAuthenticated) {
		httpx.SendAPIError(c, http.StatusUnauthorized,
			httpx.NewAPIError("NOT_AUTHENTICATED", "No usable Spotify credential, please reconnect", nil))
		return
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		httpx.SendAPIError(c, upstreamErr.Status,
			httpx.NewAPIError("UPSTREAM_ERROR", err.Error(), nil))
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		httpx.SendAPIError(c, httpErr.Code,
			httpx.NewAPIError("HTTP_ERROR", fmt.Sprintf("%v", httpErr.Message), nil))
		return
	}

	log.Error("unhandled internal error", slog.String("error", err.Error()))
	httpx.SendAPIError(c, http.StatusInternalServerError,
		httpx.NewAPIError("INTERNAL_SERVER_ERROR", "An unexpected error occurred", nil))
}

// redirectWithFlag sends the browser back to the app root with a
// machine-readable status flag in the query string
func redirectWithFlag(c echo.Context, flag string) error {
	return c.Redirect(http.StatusFound, "/?spotify="+flag)
}

// newStateNonce generates the random nonce binding a login attempt to its
// callback
func newStateNonce() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
