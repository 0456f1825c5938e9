package spotify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/clock"
	"github.com/lucasvilela/portfolio-api/internal/platform/config"
	"golang.org/x/oauth2"
)

// TokenService performs the OAuth2 grant exchanges against the provider's
// token endpoint: authorization-code exchange and refresh. It holds no mutable
// state and never retries; retry policy belongs to callers
type TokenService struct {
	oauth  *oauth2.Config
	client *http.Client
	clock  clock.Clock
}

// NewTokenService creates a TokenService from the loaded configuration.
// Client credentials are sent as HTTP Basic auth, which is what the Spotify
// accounts service expects
func NewTokenService(cfg config.SpotifyConfig, clk clock.Clock) *TokenService {
	return &TokenService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Fields(cfg.Scopes),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		clock:  clk,
	}
}

// AuthorizeURL builds the provider authorization URL for the given state.
// Deterministic, no side effects
func (s *TokenService) AuthorizeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access/refresh token pair
func (s *TokenService) Exchange(ctx context.Context, code string) (TokenPair, error) {
	tok, err := s.oauth.Exchange(s.httpContext(ctx), code)
	if err != nil {
		return TokenPair{}, tokenError("exchange", err)
	}
	return s.pair(tok), nil
}

// Refresh mints a new access token from a refresh token. The provider may
// omit the refresh token on the response, in which case the original one is
// retained in the returned pair
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	src := s.oauth.TokenSource(s.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return TokenPair{}, tokenError("refresh", err)
	}

	p := s.pair(tok)
	if p.RefreshToken == "" {
		p.RefreshToken = refreshToken
	}
	return p, nil
}

// httpContext injects the timeout-bounded HTTP client into the context so the
// oauth2 transport uses it for token endpoint calls
func (s *TokenService) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

func (s *TokenService) pair(tok *oauth2.Token) TokenPair {
	p := TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		p.TTL = tok.Expiry.Sub(s.clock.Now())
	}
	return p
}

func tokenError(op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return &TokenError{Op: op, Status: re.Response.StatusCode, Err: err}
	}
	return &TokenError{Op: op, Err: err}
}
