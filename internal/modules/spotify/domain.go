package spotify

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors surfaced by the auth flow and the resource proxy
var (
	// ErrNotAuthenticated means no usable credential exists for the request;
	// the UI should prompt the visitor to reconnect
	ErrNotAuthenticated = errors.New("spotify: not authenticated")

	// ErrOwnerNotConfigured means the owner refresh token is missing from the
	// configuration; the owner endpoints cannot be served
	ErrOwnerNotConfigured = errors.New("spotify: owner refresh token not configured")
)

// TokenError reports a rejected request to the provider's token endpoint.
// Status is the provider's HTTP status when one was received. The wrapped
// error never contains token values or the client secret
type TokenError struct {
	Op     string // "exchange" or "refresh"
	Status int
	Err    error
}

func (e *TokenError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("spotify: token %s rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("spotify: token %s failed", e.Op)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a provider resource API failure unrelated to auth
// (rate limiting, 5xx). It is surfaced with the upstream status and never
// retried beyond the single refresh-retry
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify: upstream responded with status %d", e.Status)
}

// TokenPair is the result of an authorization-code exchange or a refresh.
// RefreshToken carries the original token when the provider omits it on a
// refresh response
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TTL          time.Duration
}

// Image represents an image resource as returned by the Spotify Web API
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followers struct {
	Total int `json:"total"`
}

// Profile is the whitelisted subset of the Spotify user profile exposed to the
// frontend: display name, images, id, followers and subscription tier. Email
// and other PII fields are deliberately not part of this type
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
	Product     string    `json:"product"`
}

// Artist represents a Spotify artist in a playback context
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album in a playback context
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
	URI    string  `json:"uri"`
}

// Track represents the currently playing Spotify track
type Track struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []Artist          `json:"artists"`
	Album        Album             `json:"album"`
	DurationMS   int               `json:"duration_ms"`
	ExternalURLs map[string]string `json:"external_urls"`
	URI          string            `json:"uri"`
}

// NowPlaying represents the playback state of an account. The zero value is
// the "nothing playing" sentinel ({"is_playing":false,"item":null}) returned
// when the provider answers 204 or 202
type NowPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Item       *Track `json:"item"`
}
