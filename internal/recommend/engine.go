// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package recommend implements the hybrid course recommendation engine:
// a TF-IDF content matcher for cold-start student profiles, a user-user
// collaborative scorer for known users, and a popularity fallback for
// everyone else.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/logging"
)

// Engine serves recommendations from the most recently fitted model. Fit
// publishes a complete model atomically, so queries observe either the old
// model or the new one, never a partial state.
type Engine struct {
	cfg    Config
	policy RankingPolicy
	model  atomic.Pointer[Model]
	log    zerolog.Logger
}

// NewEngine creates an engine with no model. Queries fail with ErrNotFitted
// until Fit or SetModel.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		cfg: cfg,
		policy: RankingPolicy{
			OverFetchFactor: cfg.OverFetchFactor,
			SimWeight:       0.7,
			QualityWeight:   0.3,
		},
		log: logging.With().Str("component", "engine").Logger(),
	}, nil
}

// Fit trains a new model from the catalog, observed ratings and per-item
// aggregates, then publishes it. The previous model keeps serving queries
// until the swap.
func (e *Engine) Fit(ctx context.Context, courses []Course, ratings []Rating, items []ItemFeatures) (FitStats, error) {
	if err := ctx.Err(); err != nil {
		return FitStats{}, err
	}
	if len(courses) == 0 {
		return FitStats{}, ErrEmptyCorpus
	}
	start := time.Now()

	corpus := make([]string, len(courses))
	for i, c := range courses {
		corpus[i] = c.Title + " " + c.Description + " " + c.Category
	}

	vec := NewVectorizer(e.cfg.vectorizerConfig())
	if err := vec.Fit(corpus); err != nil {
		return FitStats{}, fmt.Errorf("fitting vector space: %w", err)
	}
	vectors, err := vec.TransformAll(corpus)
	if err != nil {
		return FitStats{}, fmt.Errorf("vectorizing catalog: %w", err)
	}

	var scorer *HybridScorer
	if len(ratings) > 0 {
		scorer = FitHybridScorer(ratings, items, e.cfg.TopKUsers, e.cfg.Alpha, e.cfg.Workers)
	}

	m := &Model{
		Config:        e.cfg,
		Vectorizer:    vec,
		Courses:       courses,
		CourseVectors: vectors,
		Scorer:        scorer,
		Items:         items,
		Stats: FitStats{
			CourseCount:   len(courses),
			RatingCount:   len(ratings),
			VocabSize:     vec.Dims(),
			FittedAt:      time.Now().UTC(),
			FitDurationMS: time.Since(start).Milliseconds(),
		},
	}
	if scorer != nil {
		m.Stats.UserCount = len(scorer.UserIDs)
	}
	m.buildIndex()
	e.model.Store(m)

	e.log.Info().
		Int("courses", m.Stats.CourseCount).
		Int("users", m.Stats.UserCount).
		Int("ratings", m.Stats.RatingCount).
		Int("vocab", m.Stats.VocabSize).
		Int64("duration_ms", m.Stats.FitDurationMS).
		Msg("model fitted")
	return m.Stats, nil
}

// SetModel publishes a model loaded from a snapshot.
func (e *Engine) SetModel(m *Model) {
	m.buildIndex()
	if m.Scorer != nil {
		m.Scorer.RebuildIndexes()
	}
	e.model.Store(m)
}

// CurrentModel returns the published model, or nil before the first fit.
func (e *Engine) CurrentModel() *Model {
	return e.model.Load()
}

// Recommend produces content-based recommendations for a student profile.
// This path needs no rating history; it matches the profile query text
// against the catalog and applies the difficulty ranking policy.
func (e *Engine) Recommend(ctx context.Context, profile StudentProfile, topN int) ([]Recommendation, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	if strings.TrimSpace(profile.Major) == "" {
		return nil, &ValidationError{Field: "major", Reason: "must not be empty"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := EncodeProfile(profile)
	qvec, err := m.Vectorizer.Transform(query)
	if err != nil {
		return nil, err
	}

	sims := make([]float64, len(m.CourseVectors))
	for i, cv := range m.CourseVectors {
		sims[i] = Cosine(qvec, cv)
	}

	recs := e.policy.Rank(m.Courses, sims, profile, topN)
	e.log.Debug().
		Str("major", profile.Major).
		Int("year", profile.Year).
		Int("results", len(recs)).
		Msg("content recommendation served")
	return recs, nil
}

// Predict produces collaborative recommendations for a known user using the
// fitted blend weight. Unknown users, and models fitted without ratings,
// degrade to the popularity ranking rather than failing.
func (e *Engine) Predict(ctx context.Context, userID string, topN int) ([]Recommendation, error) {
	return e.PredictWithAlpha(ctx, userID, topN, -1)
}

// PredictWithAlpha is Predict with a per-request blend weight in [0, 1].
// A negative alpha selects the weight the model was fitted with.
func (e *Engine) PredictWithAlpha(ctx context.Context, userID string, topN int, alpha float64) ([]Recommendation, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.Scorer == nil || !m.Scorer.HasUser(userID) {
		e.log.Debug().Str("user_id", userID).Msg("unknown user, serving popularity fallback")
		return PopularCourses(m.Courses, "", topN), nil
	}

	if alpha < 0 {
		alpha = m.Scorer.Alpha
	}
	scored, _ := m.Scorer.PredictBlend(userID, topN, alpha)
	recs := make([]Recommendation, 0, len(scored))
	for _, s := range scored {
		course, ok := m.CourseByID(s.CourseID)
		if !ok {
			// Rated item missing from the catalog, surface the ID alone.
			course = Course{ID: s.CourseID}
		}
		recs = append(recs, Recommendation{
			Course:          course,
			PredictedRating: round2(s.PredictedRating),
			Confidence:      round2(s.Confidence),
		})
	}
	return recs, nil
}

// Popular returns the popularity ranking, optionally restricted to a
// category.
func (e *Engine) Popular(category string, topN int) ([]Recommendation, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	return PopularCourses(m.Courses, category, topN), nil
}

// Health reports readiness for the serving layer.
func (e *Engine) Health() Health {
	m := e.model.Load()
	if m == nil {
		return Health{Status: "degraded", ModelLoaded: false}
	}
	return Health{Status: "healthy", ModelLoaded: true, TotalItems: len(m.Courses)}
}

// Stats returns the fit statistics of the published model.
func (e *Engine) Stats() (FitStats, error) {
	m := e.model.Load()
	if m == nil {
		return FitStats{}, ErrNotFitted
	}
	return m.Stats, nil
}
