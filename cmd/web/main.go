package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/tournament-registry/internal/assets"
	"github.com/courtside/tournament-registry/internal/config"
	"github.com/courtside/tournament-registry/internal/db"
	"github.com/courtside/tournament-registry/internal/logging"
	"github.com/courtside/tournament-registry/internal/service"
	"github.com/courtside/tournament-registry/internal/store"
	"github.com/courtside/tournament-registry/internal/token"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, foundDotenv, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if !foundDotenv {
		logger.Info("no .env file found, using environment variables")
	}

	database, err := db.Open(db.DSN(cfg.DatabasePath))
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokenStore := store.NewTokenStore(database)
	if purged, err := tokenStore.PurgeExpired(ctx, time.Now()); err != nil {
		logger.Warn("purge revoked tokens", zap.Error(err))
	} else if purged > 0 {
		logger.Info("purged expired revoked tokens", zap.Int64("count", purged))
	}

	assetStore, mediaDir, err := newAssetStore(ctx, cfg)
	if err != nil {
		return err
	}

	cal := service.SystemCalendar(cfg.Location())
	tokens := token.NewManager(token.Config{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, tokenStore)

	tournamentStore := store.NewTournamentStore(database)
	statsStore := store.NewStatsStore(database)

	app := &application{
		log:          logger,
		tokens:       tokens,
		accounts:     service.NewAccountService(store.NewUserStore(database), tokens, cal, logger),
		tournaments:  service.NewTournamentService(tournamentStore, statsStore, cal, logger),
		registration: service.NewRegistrationService(database, store.NewTeamStore(database), tournamentStore, cal, logger).ReservePendingSlots(cfg.ReservePendingSlots),
		stats:        service.NewStatsService(statsStore, cal),
		assets:       assetStore,

		maxUploadBytes: cfg.MaxUploadBytes,
		mediaDir:       mediaDir,
		mediaURL:       cfg.MediaURL,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.Bool("reserve_pending_slots", cfg.ReservePendingSlots))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// newAssetStore builds the configured backend. For local storage it also returns the
// directory to serve under MEDIA_URL.
func newAssetStore(ctx context.Context, cfg *config.Config) (assets.Store, string, error) {
	if cfg.AssetBackend == "s3" {
		s, err := assets.NewS3Store(ctx, assets.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 asset store: %w", err)
		}
		return s, "", nil
	}

	s, err := assets.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return nil, "", fmt.Errorf("local asset store: %w", err)
	}
	return s, cfg.MediaRoot, nil
}
