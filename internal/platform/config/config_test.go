package config_test

import (
	"testing"
	"time"

	"github.com/lucasvilela/portfolio-api/internal/platform/config"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:3333/auth/callback")
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := config.Load()
		require.NoError(t, err)

		require.Equal(t, "3333", cfg.Server.Port)
		require.False(t, cfg.IsProduction())
		require.Equal(t, "user-read-email user-read-private", cfg.Spotify.Scopes)
		require.Equal(t, "https://accounts.spotify.com/authorize", cfg.Spotify.AuthURL)
		require.Equal(t, "https://accounts.spotify.com/api/token", cfg.Spotify.TokenURL)
		require.Equal(t, "https://api.spotify.com/v1", cfg.Spotify.APIBaseURL)
		require.Equal(t, 5*time.Second, cfg.Spotify.HTTPTimeout)
		require.Empty(t, cfg.Spotify.OwnerRefreshToken)
	})

	t.Run("Production Toggle", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_ENV", "production")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.True(t, cfg.IsProduction())
	})

	t.Run("Owner Refresh Token Is Optional", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SPOTIFY_OWNER_REFRESH_TOKEN", "owner-refresh")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Equal(t, "owner-refresh", cfg.Spotify.OwnerRefreshToken)
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
		t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:3333/auth/callback")

		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("Invalid Redirect URI", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SPOTIFY_REDIRECT_URI", "not a url")

		_, err := config.Load()
		require.Error(t, err)
	})
}
