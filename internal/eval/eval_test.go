// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package eval

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/courseatlas/courseatlas/internal/features"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

func splitFixture() []recommend.Rating {
	return []recommend.Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u1", CourseID: "c2", Value: 4},
		{UserID: "u1", CourseID: "c3", Value: 3},
		{UserID: "u1", CourseID: "c4", Value: 2},
		{UserID: "u2", CourseID: "c1", Value: 4},
		{UserID: "u2", CourseID: "c2", Value: 5},
		{UserID: "solo", CourseID: "c3", Value: 4},
	}
}

func TestSplit(t *testing.T) {
	ratings := splitFixture()

	t.Run("partition is complete and disjoint", func(t *testing.T) {
		train, test := Split(ratings, 0.25, 42)
		if len(train)+len(test) != len(ratings) {
			t.Fatalf("train %d + test %d != %d", len(train), len(test), len(ratings))
		}
		type key struct{ user, course string }
		seen := make(map[key]struct{})
		for _, r := range train {
			seen[key{r.UserID, r.CourseID}] = struct{}{}
		}
		for _, r := range test {
			if _, dup := seen[key{r.UserID, r.CourseID}]; dup {
				t.Errorf("rating %s/%s in both train and test", r.UserID, r.CourseID)
			}
		}
	})

	t.Run("every test user keeps training ratings", func(t *testing.T) {
		train, test := Split(ratings, 0.5, 7)
		trainUsers := make(map[string]bool)
		for _, r := range train {
			trainUsers[r.UserID] = true
		}
		for _, r := range test {
			if !trainUsers[r.UserID] {
				t.Errorf("user %s has held-out ratings but no training history", r.UserID)
			}
		}
	})

	t.Run("single-rating users stay in train", func(t *testing.T) {
		_, test := Split(ratings, 0.5, 3)
		for _, r := range test {
			if r.UserID == "solo" {
				t.Error("single-rating user leaked into the test set")
			}
		}
	})

	t.Run("same seed reproduces the split", func(t *testing.T) {
		trainA, testA := Split(ratings, 0.25, 99)
		trainB, testB := Split(ratings, 0.25, 99)
		if !reflect.DeepEqual(trainA, trainB) || !reflect.DeepEqual(testA, testB) {
			t.Error("identical seeds produced different splits")
		}
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	courses := []recommend.Course{
		{ID: "c1", Title: "Calculus One", Description: "calculus limits derivatives math", Category: "Math", Difficulty: "Beginner", Rating: 4.0, NumRatings: 50},
		{ID: "c2", Title: "Calculus Two", Description: "calculus integrals series math", Category: "Math", Difficulty: "Intermediate", Rating: 4.2, NumRatings: 40},
		{ID: "c3", Title: "Linear Algebra", Description: "vectors matrices math calculus", Category: "Math", Difficulty: "Intermediate", Rating: 4.4, NumRatings: 60},
	}
	train := []recommend.Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u1", CourseID: "c2", Value: 4},
		{UserID: "u2", CourseID: "c1", Value: 4},
		{UserID: "u2", CourseID: "c3", Value: 5},
		{UserID: "u3", CourseID: "c2", Value: 3},
		{UserID: "u3", CourseID: "c3", Value: 4},
	}
	test := []recommend.Rating{{UserID: "u1", CourseID: "c3", Value: 4}}

	engine, err := recommend.NewEngine(recommend.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	items := features.BuildItemFeatures(courses, train)
	if _, err := engine.Fit(ctx, courses, train, items); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	t.Run("held-out item is covered", func(t *testing.T) {
		m, err := NewEvaluator(engine).Evaluate(ctx, test)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if m.NumPredictions != 1 {
			t.Fatalf("NumPredictions = %d, want 1", m.NumPredictions)
		}
		if m.Coverage != 1.0 {
			t.Errorf("Coverage = %v, want 1.0", m.Coverage)
		}
		// With one prediction both error metrics collapse to the same value.
		if math.Abs(m.RMSE-m.MAE) > 1e-9 {
			t.Errorf("RMSE %v != MAE %v for a single prediction", m.RMSE, m.MAE)
		}
		if m.RMSE < 0 || m.RMSE > 5 {
			t.Errorf("RMSE = %v, outside the rating scale", m.RMSE)
		}
	})

	t.Run("empty test set yields zero metrics", func(t *testing.T) {
		m, err := NewEvaluator(engine).Evaluate(ctx, nil)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if m != (Metrics{}) {
			t.Errorf("metrics = %+v, want zero value", m)
		}
	})

	t.Run("unfitted engine fails", func(t *testing.T) {
		bare, _ := recommend.NewEngine(recommend.DefaultConfig())
		_, err := NewEvaluator(bare).Evaluate(ctx, test)
		if !errors.Is(err, recommend.ErrNotFitted) {
			t.Errorf("Evaluate() error = %v, want ErrNotFitted", err)
		}
	})
}
