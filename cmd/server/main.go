// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/velora/docs" // Registers the generated swagger spec
	"github.com/tomtom215/velora/internal/api"
	"github.com/tomtom215/velora/internal/auth"
	"github.com/tomtom215/velora/internal/classifier"
	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/supervisor"
	"github.com/tomtom215/velora/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Sequential startup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage_backend", cfg.Media.Backend).
		Bool("classifier_remote", cfg.Classifier.URL != "").
		Msg("Starting Velora")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Authentication
	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	hasher, err := auth.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}
	denylist := auth.NewDenylist(&cfg.Security)
	authMiddleware := auth.NewMiddleware(tokens, db.Accounts, denylist)

	// Risk classification. Without a model URL every request uses the
	// local fallback rules.
	var remote classifier.Predictor
	if cfg.Classifier.URL != "" {
		remote = classifier.NewRemoteClient(&cfg.Classifier)
	}
	risk := classifier.NewService(remote, db.Predictions, cfg.Classifier.PersistTimeout)
	defer risk.Wait()

	// Image storage
	backend, err := media.NewBackend(ctx, &cfg.Media, &cfg.S3)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize image storage")
	}
	pipeline := media.NewPipeline(&cfg.Media, backend)
	reconciler := media.NewReconciler(backend, cfg.Media.ReconcileGrace, cfg.Media.ReconcileInterval).
		Watch(pipeline.GalleryPrefix(), db.Photos.ReferencedPaths).
		Watch(pipeline.AvatarPrefix(), db.Accounts.ReferencedAvatarPaths)
	logging.Info().
		Str("backend", backend.Name()).
		Str("bucket", backend.Bucket()).
		Bool("reconcile", reconciler.Enabled()).
		Msg("Image storage initialized")

	handler := api.NewHandler(api.HandlerDeps{
		Config:      cfg,
		Accounts:    db.Accounts,
		Predictions: db.Predictions,
		Photos:      db.Photos,
		Timeline:    db.Timeline,
		Articles:    db.Articles,
		Classifier:  risk,
		Media:       pipeline,
		Tokens:      tokens,
		Hasher:      hasher,
		Denylist:    denylist,
		DB:          db,
		Version:     version,
	})
	router := api.NewRouter(handler, authMiddleware, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// sutureslog only accepts *slog.Logger.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddBackgroundService(services.NewReconcilerService(reconciler))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	cancel()

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Velora stopped")
}
