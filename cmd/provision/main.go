// Command provision performs the one-time operational bootstrap for the owner
// identity: it runs the full authorization flow against a temporary localhost
// callback server and prints the resulting refresh token so the operator can
// place it in SPOTIFY_OWNER_REFRESH_TOKEN. This step is manual on purpose and
// is never part of the request path
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/clock"
	"github.com/lucasvilela/portfolio-api/internal/modules/spotify"
	"github.com/lucasvilela/portfolio-api/internal/platform/config"
)

type flowResult struct {
	pair spotify.TokenPair
	err  error
}

// callbackHandler handles exactly one provider callback and sends the outcome
// through the result channel
type callbackHandler struct {
	tokens  *spotify.TokenService
	state   string
	results chan flowResult
	once    sync.Once
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.send(flowResult{err: fmt.Errorf("authorization denied: %s", errParam)})
		http.Error(w, "Authorization denied", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != h.state {
		h.send(flowResult{err: fmt.Errorf("state mismatch on callback")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.send(flowResult{err: fmt.Errorf("missing authorization code")})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	pair, err := h.tokens.Exchange(r.Context(), code)
	if err != nil {
		h.send(flowResult{err: err})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(flowResult{pair: pair})
	fmt.Fprintln(w, "Authorization complete. You can close this window and return to the terminal.")
}

func (h *callbackHandler) send(result flowResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	redirect, err := url.Parse(cfg.Spotify.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}

	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	state := hex.EncodeToString(nonce)

	tokens := spotify.NewTokenService(cfg.Spotify, clock.SystemClock{})

	handler := &callbackHandler{
		tokens:  tokens,
		state:   state,
		results: make(chan flowResult, 1),
	}

	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	mux := http.NewServeMux()
	mux.Handle(callbackPath, handler)
	srv := &http.Server{Addr: redirect.Host, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			handler.send(flowResult{err: fmt.Errorf("callback server failed: %w", err)})
		}
	}()

	fmt.Println("Open this URL in your browser and approve access:")
	fmt.Println()
	fmt.Println("  " + tokens.AuthorizeURL(state))
	fmt.Println()

	result := <-handler.results

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if result.err != nil {
		return result.err
	}

	fmt.Println("Add this to the server environment:")
	fmt.Printf("SPOTIFY_OWNER_REFRESH_TOKEN=%s\n", result.pair.RefreshToken)
	return nil
}
