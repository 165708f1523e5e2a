// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Command server runs the Courseatlas recommendation API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/courseatlas/courseatlas/internal/api"
	"github.com/courseatlas/courseatlas/internal/auth"
	"github.com/courseatlas/courseatlas/internal/config"
	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/ratingstore"
	"github.com/courseatlas/courseatlas/internal/recommend"
	"github.com/courseatlas/courseatlas/internal/recommend/storage"
	"github.com/courseatlas/courseatlas/internal/trainer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("loading configuration failed")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	log := logging.With().Str("component", "main").Logger()

	engine, err := recommend.NewEngine(cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Msg("creating engine failed")
	}

	ratings, err := ratingstore.Open(cfg.Data.RatingStorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening rating store failed")
	}
	defer ratings.Close() //nolint:errcheck // process is exiting

	store := storage.NewStore(cfg.Model.SnapshotPath)
	tr := trainer.New(cfg, engine, ratings, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prefer a persisted snapshot for fast startup; fall back to a full
	// training run from the datasets unless the config requires a snapshot.
	loaded, err := tr.LoadSnapshot()
	if err != nil {
		if cfg.Model.RequireLoaded {
			log.Fatal().Err(err).Msg("snapshot load failed and model.require_loaded is set")
		}
		log.Warn().Err(err).Msg("snapshot load failed, retraining from datasets")
	}
	if !loaded {
		if cfg.Model.RequireLoaded {
			log.Fatal().Str("path", cfg.Model.SnapshotPath).Msg("no model snapshot and model.require_loaded is set")
		}
		if _, err := tr.Train(ctx); err != nil {
			log.Fatal().Err(err).Msg("initial training failed")
		}
	}

	var (
		jwtManager *auth.JWTManager
		creds      *auth.Credentials
	)
	if !cfg.Security.AllowAnonymous {
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenLifetime)
		if err != nil {
			log.Fatal().Err(err).Msg("initializing token manager failed")
		}
		creds, err = auth.NewCredentials(cfg.Security.AdminUsername, cfg.Security.AdminPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("initializing admin credentials failed")
		}
	}

	handler := api.NewHandler(engine, tr, ratings, jwtManager, creds)
	router := api.NewRouter(handler, jwtManager, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		AllowAnonymous:  cfg.Security.AllowAnonymous,
	})

	supervisor := suture.New("courseatlas", suture.Spec{
		Timeout: cfg.Server.ShutdownTimeout,
	})
	supervisor.Add(&httpService{
		addr:    cfg.Addr(),
		handler: router,
		cfg:     cfg.Server,
	})
	if cfg.Model.RetrainInterval > 0 {
		supervisor.Add(trainer.NewRetrainService(tr, cfg.Model.RetrainInterval))
	}

	log.Info().Str("addr", cfg.Addr()).Msg("starting")
	if err := supervisor.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("supervisor exited")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}

// httpService runs the HTTP server under the supervisor, shutting down
// gracefully when the context is cancelled.
type httpService struct {
	addr    string
	handler http.Handler
	cfg     config.ServerConfig
}

func (s *httpService) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *httpService) String() string {
	return "http-server"
}
