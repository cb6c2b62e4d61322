// @title         accounts API
// @version       1.0
// @description   Signup, login, logout, profile update and session check backed by JWT cookies.
// @BasePath      /api
// @schemes       http https
// @host          localhost:8080
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session JWT set by /auth/signup and /auth/login.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/accounts/docs"

	// internal imports
	apphttp "github.com/artem13815/accounts/api/http"
	"github.com/artem13815/accounts/api/http/handlers"
	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/config"
	"github.com/artem13815/accounts/pkg/health"
	"github.com/artem13815/accounts/pkg/logging"
	"github.com/artem13815/accounts/pkg/media/s3store"
	"github.com/artem13815/accounts/pkg/security/jwt"
)

func main() {
	// Load configuration from env/.env; missing required values stop startup.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "open user store", "error", err)
		os.Exit(1)
	}
	defer store.close()

	var images auth.ImageUploader
	if cfg.ImageHostEnabled() {
		client, err := s3store.NewClient(ctx, s3store.Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logger.Error(ctx, "init image host", "error", err)
			os.Exit(1)
		}
		images = s3store.NewUploader(client, cfg.S3Bucket, cfg.S3PublicBaseURL)
	} else {
		logger.Warn(ctx, "image host not configured; profile image updates will be rejected")
	}

	// Wire dependencies
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer)
	cookies := jwt.NewCookies(cfg.IsProduction())
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	authUC := auth.NewAuthService(store.users, hasher, tokens, images, logger, cfg.UploadTimeout)
	authHandler := handlers.NewAuthHandler(authUC, cookies, logger, cfg.IsDevelopment())
	healthHandler := handlers.NewHealthHandler(health.NewService(store.checker))
	sessionMW := jwt.NewAuthMiddleware(auth.NewGate(tokens, store.users), cookies, logger)

	app := apphttp.NewApp(cfg)
	apphttp.Register(app, authHandler, healthHandler, sessionMW)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error(context.Background(), "shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "HTTP server listening", "port", cfg.Port, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
	}
}
