package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/validatorx"
)

// SpotifyConfig holds every value the Spotify auth subsystem needs. It is
// loaded once at startup and passed explicitly into constructors so business
// logic never reads the environment ad hoc
type SpotifyConfig struct {
	ClientID     string `envconfig:"SPOTIFY_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET" required:"true"`
	RedirectURI  string `envconfig:"SPOTIFY_REDIRECT_URI" required:"true" validate:"url"`
	Scopes       string `envconfig:"SPOTIFY_SCOPES" default:"user-read-email user-read-private"`

	// OwnerRefreshToken is the operator-provisioned long-lived refresh token
	// for the site owner's account (see cmd/provision). Optional: when empty
	// the owner endpoints are not registered
	OwnerRefreshToken string `envconfig:"SPOTIFY_OWNER_REFRESH_TOKEN"`

	AuthURL     string        `envconfig:"SPOTIFY_AUTH_URL" default:"https://accounts.spotify.com/authorize" validate:"url"`
	TokenURL    string        `envconfig:"SPOTIFY_TOKEN_URL" default:"https://accounts.spotify.com/api/token" validate:"url"`
	APIBaseURL  string        `envconfig:"SPOTIFY_API_BASE_URL" default:"https://api.spotify.com/v1" validate:"url"`
	HTTPTimeout time.Duration `envconfig:"SPOTIFY_HTTP_TIMEOUT" default:"5s"`
}

type Config struct {
	Server struct {
		Port         string        `envconfig:"SERVER_PORT" default:"3333"`
		Env          string        `envconfig:"APP_ENV" default:"development"`
		ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
		WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
		IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	}
	Spotify SpotifyConfig
}

// IsProduction reports whether the app runs in production, which toggles the
// Secure attribute on session cookies
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config from environment: %w", err)
	}

	if err := validatorx.NewValidator().Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
