package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"notescatalog/config"
	_ "notescatalog/docs"
	"notescatalog/internal/adapters/auth"
	"notescatalog/internal/adapters/cache"
	"notescatalog/internal/adapters/storage"
	delivery "notescatalog/internal/delivery/http"
	"notescatalog/internal/delivery/http/controllers"
	"notescatalog/internal/delivery/http/middleware"
	"notescatalog/internal/domain"
	"notescatalog/internal/repository/postgres"
	"notescatalog/internal/services"
)

const shutdownTimeout = 15 * time.Second

// @title Notes Catalog API
// @version 1.0
// @description Notes with tags and images.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return err
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		URLExpiry:       cfg.ImageURLExpiry,
	})
	if err != nil {
		return err
	}

	var (
		resolver domain.ImageResolver = store
		urlCache domain.URLCache
	)
	if client := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger); client != nil {
		defer client.Close()
		urlCache = cache.NewRedisURLCache(client)
		resolver = services.NewCachedResolver(store, urlCache, cfg.ImageURLExpiry, logger)
	}

	tx := postgres.NewTransactor(db)
	tagRepo := postgres.NewTagRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret)
	noteSvc := services.NewNoteService(noteRepo, tagRepo, tx, resolver, logger, cfg.RequestTimeout)
	tagSvc := services.NewTagService(tagRepo, noteRepo, tx, logger, cfg.RequestTimeout)
	imageSvc := services.NewImageService(store, resolver, urlCache, logger, cfg.RequestTimeout)
	authSvc := services.NewAuthService(userRepo, refreshRepo, auth.NewBcryptHasher(0), jwt,
		cfg.JWTExpiry, cfg.RefreshTokenTTL, logger, cfg.RequestTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Notes:  controllers.NewNoteController(logger, noteSvc),
		Tags:   controllers.NewTagController(logger, tagSvc),
		Images: controllers.NewImageController(logger, imageSvc),
		Auth:   controllers.NewAuthController(logger, authSvc),
	}, jwt, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
