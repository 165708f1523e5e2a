// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package trainer assembles training runs: it loads the CSV datasets, merges
// API-submitted ratings, cleans and prunes the data, fits the engine and
// persists a snapshot of the resulting model.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/config"
	"github.com/courseatlas/courseatlas/internal/eval"
	"github.com/courseatlas/courseatlas/internal/features"
	"github.com/courseatlas/courseatlas/internal/ingest"
	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/metrics"
	"github.com/courseatlas/courseatlas/internal/ratingstore"
	"github.com/courseatlas/courseatlas/internal/recommend"
	"github.com/courseatlas/courseatlas/internal/recommend/storage"
)

// ErrTrainingInProgress is returned when a training run is already underway.
var ErrTrainingInProgress = errors.New("training already in progress")

// Trainer runs training end to end. Runs never overlap; a Train call while
// another run is underway fails fast with ErrTrainingInProgress.
type Trainer struct {
	cfg     *config.Config
	engine  *recommend.Engine
	ratings *ratingstore.Store
	store   *storage.Store
	loader  *ingest.Loader
	log     zerolog.Logger

	mu sync.Mutex
}

// New creates a trainer. ratings may be nil when no rating intake is wired.
func New(cfg *config.Config, engine *recommend.Engine, ratings *ratingstore.Store, store *storage.Store) *Trainer {
	return &Trainer{
		cfg:     cfg,
		engine:  engine,
		ratings: ratings,
		store:   store,
		loader:  ingest.NewLoader(),
		log:     logging.With().Str("component", "trainer").Logger(),
	}
}

// Train performs one full training run and publishes the fitted model.
func (t *Trainer) Train(ctx context.Context) (recommend.FitStats, error) {
	if !t.mu.TryLock() {
		return recommend.FitStats{}, ErrTrainingInProgress
	}
	defer t.mu.Unlock()
	started := time.Now()

	courses, err := t.loader.LoadCourses(t.cfg.Data.CoursesPath)
	if err != nil {
		metrics.RecordFit(time.Since(started), 0, 0, err)
		return recommend.FitStats{}, err
	}
	courses = ingest.CleanCourses(courses)

	ratings, err := t.loadRatings(courses)
	if err != nil {
		metrics.RecordFit(time.Since(started), 0, 0, err)
		return recommend.FitStats{}, err
	}

	items := features.BuildItemFeatures(courses, ratings)

	stats, err := t.engine.Fit(ctx, courses, ratings, items)
	metrics.RecordFit(time.Since(started), stats.VocabSize, stats.CourseCount, err)
	if err != nil {
		return recommend.FitStats{}, err
	}

	if t.store != nil {
		if err := t.store.Save(t.engine.CurrentModel()); err != nil {
			// The fitted model is already serving; a failed snapshot only
			// costs the next restart a retrain.
			t.log.Error().Err(err).Msg("snapshot save failed")
		}
	}

	if t.cfg.Model.EvalFraction > 0 {
		t.evaluate(ctx, courses, ratings)
	}
	return stats, nil
}

// evalSplitSeed fixes the held-out split so evaluation runs are comparable
// across retrains of the same dataset.
const evalSplitSeed = 42

// evaluate scores a scratch engine fitted on a per-user train split against
// the held-out ratings and logs RMSE, MAE and coverage. The published model
// is never touched; a failed evaluation only costs the metrics line.
func (t *Trainer) evaluate(ctx context.Context, courses []recommend.Course, ratings []recommend.Rating) {
	trainSet, testSet := eval.Split(ratings, t.cfg.Model.EvalFraction, evalSplitSeed)
	if len(testSet) == 0 {
		t.log.Debug().Msg("evaluation skipped, no ratings to hold out")
		return
	}

	scratch, err := recommend.NewEngine(t.cfg.Engine)
	if err != nil {
		t.log.Error().Err(err).Msg("evaluation engine setup failed")
		return
	}
	items := features.BuildItemFeatures(courses, trainSet)
	if _, err := scratch.Fit(ctx, courses, trainSet, items); err != nil {
		t.log.Error().Err(err).Msg("evaluation fit failed")
		return
	}

	m, err := eval.NewEvaluator(scratch).Evaluate(ctx, testSet)
	if err != nil {
		t.log.Error().Err(err).Msg("evaluation failed")
		return
	}
	t.log.Info().
		Int("held_out", len(testSet)).
		Float64("rmse", m.RMSE).
		Float64("mae", m.MAE).
		Float64("coverage", m.Coverage).
		Msg("held-out evaluation")
}

// loadRatings merges the CSV history with API-submitted ratings, cleans the
// union and prunes cold-start users and items. API ratings win over CSV rows
// for the same (user, course) pair because CleanRatings keeps the last
// occurrence.
func (t *Trainer) loadRatings(courses []recommend.Course) ([]recommend.Rating, error) {
	var ratings []recommend.Rating
	if t.cfg.Data.RatingsPath != "" {
		loaded, err := t.loader.LoadRatings(t.cfg.Data.RatingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading rating history: %w", err)
		}
		ratings = loaded
	}

	if t.ratings != nil {
		submitted, err := t.ratings.All()
		if err != nil {
			return nil, fmt.Errorf("reading submitted ratings: %w", err)
		}
		ratings = append(ratings, submitted...)
	}

	ratings = ingest.CleanRatings(ratings, courses)
	ratings = ingest.PruneColdStart(ratings, t.cfg.Data.MinRatings)
	return ratings, nil
}

// LoadSnapshot publishes a previously saved model, if one exists. Returns
// false when there is no snapshot to load.
func (t *Trainer) LoadSnapshot() (bool, error) {
	if t.store == nil || !t.store.Exists() {
		return false, nil
	}
	m, err := t.store.Load()
	if err != nil {
		return false, err
	}
	t.engine.SetModel(m)
	return true, nil
}

// RetrainService periodically retrains the model. It implements
// suture.Service; a run failure is logged and the next tick tries again.
type RetrainService struct {
	trainer  *Trainer
	interval time.Duration
	log      zerolog.Logger
}

// NewRetrainService creates the periodic retraining service.
func NewRetrainService(trainer *Trainer, interval time.Duration) *RetrainService {
	return &RetrainService{
		trainer:  trainer,
		interval: interval,
		log:      logging.With().Str("component", "retrain").Logger(),
	}
}

// Serve runs the retrain loop until the context is cancelled.
func (s *RetrainService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats, err := s.trainer.Train(ctx)
			if errors.Is(err, ErrTrainingInProgress) {
				s.log.Debug().Msg("retrain skipped, run already underway")
				continue
			}
			if err != nil {
				s.log.Error().Err(err).Msg("scheduled retrain failed")
				continue
			}
			s.log.Info().
				Int("courses", stats.CourseCount).
				Int("ratings", stats.RatingCount).
				Msg("scheduled retrain complete")
		}
	}
}

// String names the service in supervisor logs.
func (s *RetrainService) String() string {
	return "retrain-service"
}
