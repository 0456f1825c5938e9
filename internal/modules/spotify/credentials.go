package spotify

import (
	"time"

	"github.com/labstack/echo/v4"
)

// CredentialSource abstracts where the tokens for an identity come from, so
// the resource proxy shares one refresh-and-retry path between the visitor's
// cookie session and the owner's pre-provisioned secret
type CredentialSource interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	StoreAccessToken(token string, ttl time.Duration)
}

type cookieCredentials struct {
	c     echo.Context
	store *SessionStore
}

// CookieCredentials binds a CredentialSource to the visitor's session cookies
// on the given request. Freshly minted access tokens are written back to the
// access-token cookie on the response
func CookieCredentials(c echo.Context, store *SessionStore) CredentialSource {
	return &cookieCredentials{c: c, store: store}
}

func (cc *cookieCredentials) AccessToken() (string, bool) {
	return cc.store.AccessToken(cc.c)
}

func (cc *cookieCredentials) RefreshToken() (string, bool) {
	return cc.store.RefreshToken(cc.c)
}

func (cc *cookieCredentials) StoreAccessToken(token string, ttl time.Duration) {
	cc.store.WriteAccessToken(cc.c, token, ttl)
}

type staticCredentials struct {
	refreshToken string
}

// StaticCredentials is the owner-identity CredentialSource: a single
// long-lived refresh token supplied out-of-band. It never reports an access
// token, so every request mints a fresh one, and minted tokens are not kept
// beyond the request
func StaticCredentials(refreshToken string) CredentialSource {
	return staticCredentials{refreshToken: refreshToken}
}

func (sc staticCredentials) AccessToken() (string, bool) {
	return "", false
}

func (sc staticCredentials) RefreshToken() (string, bool) {
	return sc.refreshToken, sc.refreshToken != ""
}

func (sc staticCredentials) StoreAccessToken(string, time.Duration) {}
