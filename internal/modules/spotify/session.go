package spotify

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	accessTokenCookie  = "spotify_access_token"
	refreshTokenCookie = "spotify_refresh_token"
	oauthStateCookie   = "spotify_oauth_state"

	refreshTokenTTL = 30 * 24 * time.Hour
	oauthStateTTL   = 5 * time.Minute
)

// SessionStore reads and writes the visitor's tokens as scoped, time-limited
// cookies on the current request/response pair. Cookies are the only
// persistence layer; every write rides on the response that issues it
type SessionStore struct {
	secure bool
}

// NewSessionStore creates a SessionStore. secure toggles the Secure cookie
// attribute and should be on in production
func NewSessionStore(secure bool) *SessionStore {
	return &SessionStore{secure: secure}
}

// AccessToken returns the visitor's access token, if present
func (s *SessionStore) AccessToken(c echo.Context) (string, bool) {
	return s.read(c, accessTokenCookie)
}

// RefreshToken returns the visitor's refresh token, if present
func (s *SessionStore) RefreshToken(c echo.Context) (string, bool) {
	return s.read(c, refreshTokenCookie)
}

// WriteAccessToken stores the access token with a TTL matching the provider's
// expires_in
func (s *SessionStore) WriteAccessToken(c echo.Context, token string, ttl time.Duration) {
	s.write(c, accessTokenCookie, token, ttl)
}

// WriteRefreshToken stores the refresh token with a fixed 30-day TTL
func (s *SessionStore) WriteRefreshToken(c echo.Context, token string) {
	s.write(c, refreshTokenCookie, token, refreshTokenTTL)
}

// Clear deletes both session cookies (logout)
func (s *SessionStore) Clear(c echo.Context) {
	s.expire(c, accessTokenCookie)
	s.expire(c, refreshTokenCookie)
}

// IssueState writes the short-lived CSRF nonce cookie for a login attempt
func (s *SessionStore) IssueState(c echo.Context, nonce string) {
	s.write(c, oauthStateCookie, nonce, oauthStateTTL)
}

// ConsumeState returns the stored nonce and deletes its cookie. The nonce is
// single-use: it is consumed on every callback regardless of whether the
// state comparison later succeeds
func (s *SessionStore) ConsumeState(c echo.Context) (string, bool) {
	nonce, ok := s.read(c, oauthStateCookie)
	if ok {
		s.expire(c, oauthStateCookie)
	}
	return nonce, ok
}

func (s *SessionStore) read(c echo.Context, name string) (string, bool) {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *SessionStore) write(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionStore) expire(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
