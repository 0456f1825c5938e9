package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/clock"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/httpx"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/logger"
	ctxlogger "github.com/lucasvilela/portfolio-api/internal/modules/pkg/logger/context"
	"github.com/lucasvilela/portfolio-api/internal/modules/pkg/validatorx"
	"github.com/lucasvilela/portfolio-api/internal/modules/spotify"
	"github.com/lucasvilela/portfolio-api/internal/platform/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config to api: %s\n", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logCfg := logger.SlogConfig{
		Level:     logger.LevelDebug,
		Format:    logger.FormatJSON,
		AddSource: true,
	}
	baseLogger := logger.NewSlogConfig(logCfg)
	slog.SetDefault(baseLogger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validatorx.NewValidator()
	e.HTTPErrorHandler = spotify.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	e.Use(middleware.BodyLimit("2MB"))
	e.Use(ContextualLoggerMiddleware(baseLogger))
	e.Use(RequestLoggerMiddleware())

	clk := clock.SystemClock{}

	// ----- Spotify module dependencies ----- //

	tokenSvc := spotify.NewTokenService(cfg.Spotify, clk)
	proxySvc := spotify.NewService(tokenSvc, cfg.Spotify)
	sessions := spotify.NewSessionStore(cfg.IsProduction())

	var owner spotify.CredentialSource
	if cfg.Spotify.OwnerRefreshToken != "" {
		owner = spotify.StaticCredentials(cfg.Spotify.OwnerRefreshToken)
	} else {
		baseLogger.Warn("SPOTIFY_OWNER_REFRESH_TOKEN is not set, owner endpoints disabled")
	}

	spotifyHandler := spotify.NewHandler(tokenSvc, proxySvc, sessions, owner)
	spotifyHandler.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return httpx.SendSuccess(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
	return nil
}

// ContextualLoggerMiddleware creates a request-scoped logger containing the request ID
// and injects it into the standard `context.Context` for use in downstream handlers and services
func ContextualLoggerMiddleware(baseLogger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			requestLogger := baseLogger.With(slog.String("request_id", requestID))

			ctx := c.Request().Context()
			ctxWithLogger := ctxlogger.SetLogger(ctx, requestLogger)
			c.SetRequest(c.Request().WithContext(ctxWithLogger))

			return next(c)
		}
	}
}

// RequestLoggerMiddleware configures and returns Echo's built-in request logger middleware
// It uses the contextual logger (injected by ContextualLoggerMiddleware) to ensure
// that every access log automatically includes the corresponding request ID
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := ctxlogger.GetLogger(c.Request().Context())

			if v.Error == nil {
				logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "HTTP_REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("latency", v.Latency.String()),
				)
			} else {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, "HTTP_REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("latency", v.Latency.String()),
					slog.String("error", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
