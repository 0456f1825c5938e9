package spotify_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lucasvilela/portfolio-api/internal/platform/config"
)

const (
	testClientID     = "test-client-id"
	testClientSecret = "test-client-secret"
	testRedirectURI  = "http://localhost:3000/auth/callback"
	testScopes       = "user-read-email user-read-private"
)

// newTestSpotifyConfig points the token endpoint and the resource API at the
// given fake servers. The authorize URL is never called in tests
func newTestSpotifyConfig(tokenURL, apiBaseURL string) config.SpotifyConfig {
	return config.SpotifyConfig{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
		Scopes:       testScopes,
		AuthURL:      "https://accounts.spotify.com/authorize",
		TokenURL:     tokenURL,
		APIBaseURL:   apiBaseURL,
		HTTPTimeout:  5 * time.Second,
	}
}

// fakeTokenEndpoint is a fake provider token endpoint counting the requests it
// serves
type fakeTokenEndpoint struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls int
	fn    http.HandlerFunc
}

func newFakeTokenEndpoint(t *testing.T, fn http.HandlerFunc) *fakeTokenEndpoint {
	t.Helper()

	f := &fakeTokenEndpoint{fn: fn}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		f.fn(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTokenEndpoint) URL() string {
	return f.srv.URL
}

func (f *fakeTokenEndpoint) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// serveTokenJSON writes a provider token response. refreshToken may be empty
// to simulate a refresh response that omits it
func serveTokenJSON(w http.ResponseWriter, accessToken, refreshToken string, expiresIn int) {
	w.Header().Set("Content-Type", "application/json")
	if refreshToken != "" {
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":%q,"token_type":"Bearer","expires_in":%d}`,
			accessToken, refreshToken, expiresIn)
		return
	}
	fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, accessToken, expiresIn)
}

func serveTokenRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprint(w, `{"error":"invalid_grant"}`)
}

// fakeAPI is a fake Spotify Web API server counting its requests
type fakeAPI struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls int
	fn    http.HandlerFunc
}

func newFakeAPI(t *testing.T, fn http.HandlerFunc) *fakeAPI {
	t.Helper()

	f := &fakeAPI{fn: fn}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		f.fn(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) URL() string {
	return f.srv.URL
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
