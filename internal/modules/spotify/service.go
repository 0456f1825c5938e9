package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	ctxlogger "github.com/lucasvilela/portfolio-api/internal/modules/pkg/logger/context"
	"github.com/lucasvilela/portfolio-api/internal/platform/config"
)

// Service is the authenticated passthrough to the Spotify Web API. For each
// protected resource it resolves an access token from the CredentialSource,
// issues the upstream request, and on a 401 refreshes the token and retries
// exactly once before giving up
type Service struct {
	tokens  *TokenService
	client  *http.Client
	baseURL string
}

// NewService creates the resource proxy service
func NewService(tokens *TokenService, cfg config.SpotifyConfig) *Service {
	return &Service{
		tokens:  tokens,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: cfg.APIBaseURL,
	}
}

// Profile retrieves the account profile narrowed to the whitelisted field set
func (s *Service) Profile(ctx context.Context, creds CredentialSource) (*Profile, error) {
	var profile Profile
	if _, err := s.fetch(ctx, creds, "/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// NowPlaying retrieves the account's playback state. An upstream 204 or 202
// means nothing is playing and maps to the NowPlaying zero value, not an error
func (s *Service) NowPlaying(ctx context.Context, creds CredentialSource) (*NowPlaying, error) {
	var playing NowPlaying
	status, err := s.fetch(ctx, creds, "/me/player/currently-playing", &playing)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || status == http.StatusAccepted {
		return &NowPlaying{}, nil
	}
	return &playing, nil
}

// fetch performs the authenticated upstream GET with the single
// refresh-and-retry policy. The response body is decoded into out only for a
// 200; other 2xx statuses carry no body worth decoding
func (s *Service) fetch(ctx context.Context, creds CredentialSource, path string, out any) (int, error) {
	token, hasAccess := creds.AccessToken()
	refreshToken, hasRefresh := creds.RefreshToken()
	if !hasAccess && !hasRefresh {
		return 0, ErrNotAuthenticated
	}

	refreshed := false
	if !hasAccess {
		var err error
		if token, err = s.mint(ctx, creds, refreshToken); err != nil {
			return 0, err
		}
		refreshed = true
	}

	resp, err := s.get(ctx, path, token)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode == http.StatusUnauthorized && hasRefresh && !refreshed {
		resp.Body.Close()
		if token, err = s.mint(ctx, creds, refreshToken); err != nil {
			return 0, err
		}
		if resp, err = s.get(ctx, path, token); err != nil {
			return 0, err
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, ErrNotAuthenticated
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return resp.StatusCode, &UpstreamError{Status: resp.StatusCode}
	}

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode spotify response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// mint refreshes the access token and hands it to the CredentialSource. A
// rejected refresh means the credential is unusable, so the caller sees
// ErrNotAuthenticated; the underlying cause is logged without token values
func (s *Service) mint(ctx context.Context, creds CredentialSource, refreshToken string) (string, error) {
	pair, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		ctxlogger.GetLogger(ctx).Warn("access token refresh failed",
			slog.String("error", err.Error()),
		)
		return "", ErrNotAuthenticated
	}

	creds.StoreAccessToken(pair.AccessToken, pair.TTL)
	return pair.AccessToken, nil
}

func (s *Service) get(ctx context.Context, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify request failed: %w", err)
	}
	return resp, nil
}
