// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package eval measures recommendation accuracy against held-out ratings.
// It exercises the engine only through its public prediction surface, so the
// metrics reflect exactly what the serving path would return.
package eval

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

// probeDepth is how many ranked predictions are fetched when searching for a
// specific held-out item.
const probeDepth = 100

// Metrics summarizes prediction accuracy on a held-out set. Coverage is the
// fraction of held-out ratings the model produced a prediction for.
type Metrics struct {
	RMSE           float64 `json:"rmse"`
	MAE            float64 `json:"mae"`
	Coverage       float64 `json:"coverage"`
	NumPredictions int     `json:"num_predictions"`
}

// Split partitions ratings per user into train and test sets. Users with a
// single rating go entirely to train so the fitted model knows every user.
// The seed fixes the shuffle, making splits reproducible.
func Split(ratings []recommend.Rating, testFraction float64, seed int64) (train, test []recommend.Rating) {
	byUser := make(map[string][]recommend.Rating)
	var userOrder []string
	for _, r := range ratings {
		if _, ok := byUser[r.UserID]; !ok {
			userOrder = append(userOrder, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	sort.Strings(userOrder)

	rng := rand.New(rand.NewSource(seed))
	for _, userID := range userOrder {
		userRatings := byUser[userID]
		if len(userRatings) == 1 {
			train = append(train, userRatings...)
			continue
		}
		shuffled := make([]recommend.Rating, len(userRatings))
		copy(shuffled, userRatings)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		nTest := int(float64(len(shuffled)) * testFraction)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(shuffled) {
			nTest = len(shuffled) - 1
		}
		test = append(test, shuffled[:nTest]...)
		train = append(train, shuffled[nTest:]...)
	}
	return train, test
}

// Evaluator scores an engine against held-out ratings.
type Evaluator struct {
	engine *recommend.Engine
	log    zerolog.Logger
}

// NewEvaluator wraps a fitted engine for evaluation.
func NewEvaluator(engine *recommend.Engine) *Evaluator {
	return &Evaluator{
		engine: engine,
		log:    logging.With().Str("component", "eval").Logger(),
	}
}

// Evaluate computes RMSE, MAE and coverage over the held-out set. A held-out
// rating counts toward coverage only when its item appears in the user's
// ranked predictions within the probe depth.
func (e *Evaluator) Evaluate(ctx context.Context, test []recommend.Rating) (Metrics, error) {
	var (
		sqErrSum, absErrSum float64
		n                   int
	)

	// Predictions are per user; group first so each user is ranked once.
	byUser := make(map[string][]recommend.Rating)
	var userOrder []string
	for _, r := range test {
		if _, ok := byUser[r.UserID]; !ok {
			userOrder = append(userOrder, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	sort.Strings(userOrder)

	for _, userID := range userOrder {
		if err := ctx.Err(); err != nil {
			return Metrics{}, err
		}
		recs, err := e.engine.Predict(ctx, userID, probeDepth)
		if err != nil {
			return Metrics{}, err
		}
		predicted := make(map[string]float64, len(recs))
		for _, rec := range recs {
			predicted[rec.ID] = rec.PredictedRating
		}
		for _, held := range byUser[userID] {
			p, ok := predicted[held.CourseID]
			if !ok {
				continue
			}
			d := p - held.Value
			sqErrSum += d * d
			absErrSum += math.Abs(d)
			n++
		}
	}

	if n == 0 {
		e.log.Warn().Int("held_out", len(test)).Msg("no overlapping predictions, metrics are zero")
		return Metrics{}, nil
	}

	m := Metrics{
		RMSE:           math.Sqrt(sqErrSum / float64(n)),
		MAE:            absErrSum / float64(n),
		Coverage:       float64(n) / float64(len(test)),
		NumPredictions: n,
	}
	e.log.Info().
		Float64("rmse", m.RMSE).
		Float64("mae", m.MAE).
		Float64("coverage", m.Coverage).
		Msg("evaluation complete")
	return m, nil
}
