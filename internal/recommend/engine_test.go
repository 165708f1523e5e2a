// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testCatalog() []Course {
	return []Course{
		{
			ID: "ml1", Title: "Machine Learning Fundamentals",
			Description: "machine learning python statistics predictive models",
			Category:    "Data Science", Difficulty: DifficultyIntermediate,
			Rating: 4.5, NumRatings: 200,
		},
		{
			ID: "ml2", Title: "Applied Data Analysis",
			Description: "data analysis statistics python machine learning practice",
			Category:    "Data Science", Difficulty: DifficultyBeginner,
			Rating: 4.2, NumRatings: 150,
		},
		{
			ID: "dl1", Title: "Deep Learning Systems",
			Description: "deep machine learning neural networks python at scale",
			Category:    "Data Science", Difficulty: DifficultyAdvanced,
			Rating: 4.7, NumRatings: 120,
		},
		{
			ID: "po1", Title: "Poetry Workshop",
			Description: "poetry writing creative verse and reading aloud",
			Category:    "Humanities", Difficulty: DifficultyBeginner,
			Rating: 3.0, NumRatings: 40,
		},
		{
			ID: "po2", Title: "Creative Writing Seminar",
			Description: "creative writing poetry essays and short fiction",
			Category:    "Humanities", Difficulty: DifficultyIntermediate,
			Rating: 3.8, NumRatings: 60,
		},
	}
}

func testRatings() []Rating {
	return []Rating{
		{UserID: "alice", CourseID: "ml1", Value: 5},
		{UserID: "alice", CourseID: "ml2", Value: 4},
		{UserID: "bob", CourseID: "ml1", Value: 5},
		{UserID: "bob", CourseID: "dl1", Value: 5},
		{UserID: "carol", CourseID: "po1", Value: 3},
		{UserID: "carol", CourseID: "po2", Value: 4},
	}
}

func newFittedEngine(t *testing.T, ratings []Rating) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	courses := testCatalog()
	items := make([]ItemFeatures, len(courses))
	for i, c := range courses {
		items[i] = ItemFeatures{
			CourseID:        c.ID,
			AvgRating:       c.Rating,
			RatingStd:       0.4,
			NumRatings:      c.NumRatings,
			PopularityScore: c.Rating * float64(c.NumRatings),
			CombinedRating:  c.Rating,
		}
	}
	if _, err := e.Fit(context.Background(), courses, ratings, items); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return e
}

func TestEngineUnfitted(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()

	if _, err := e.Recommend(ctx, StudentProfile{Major: "Biology"}, 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Recommend() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.Predict(ctx, "alice", 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.Popular("", 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Popular() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.Stats(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Stats() error = %v, want ErrNotFitted", err)
	}
	if h := e.Health(); h.Status != "degraded" || h.ModelLoaded {
		t.Errorf("Health() = %+v, want degraded without model", h)
	}
}

func TestEngineFit(t *testing.T) {
	t.Run("empty catalog rejected", func(t *testing.T) {
		e, _ := NewEngine(DefaultConfig())
		if _, err := e.Fit(context.Background(), nil, nil, nil); !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("Fit() error = %v, want ErrEmptyCorpus", err)
		}
	})

	t.Run("stats reflect the fitted model", func(t *testing.T) {
		e := newFittedEngine(t, testRatings())
		stats, err := e.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.CourseCount != 5 {
			t.Errorf("CourseCount = %d, want 5", stats.CourseCount)
		}
		if stats.UserCount != 3 {
			t.Errorf("UserCount = %d, want 3", stats.UserCount)
		}
		if stats.RatingCount != 6 {
			t.Errorf("RatingCount = %d, want 6", stats.RatingCount)
		}
		if stats.VocabSize == 0 {
			t.Error("VocabSize = 0, want a nonempty vocabulary")
		}
		if h := e.Health(); h.Status != "healthy" || !h.ModelLoaded || h.TotalItems != 5 {
			t.Errorf("Health() = %+v, want healthy with 5 items", h)
		}
	})
}

func TestEngineRecommend(t *testing.T) {
	e := newFittedEngine(t, testRatings())
	ctx := context.Background()

	t.Run("empty major is a validation error", func(t *testing.T) {
		_, err := e.Recommend(ctx, StudentProfile{Major: "  "}, 5)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Recommend() error = %v, want *ValidationError", err)
		}
		if verr.Field != "major" {
			t.Errorf("ValidationError.Field = %q, want major", verr.Field)
		}
	})

	t.Run("data science profile ranks course material above poetry", func(t *testing.T) {
		recs, err := e.Recommend(ctx, StudentProfile{Major: "Data Science", Year: 2, GPA: 3.2}, 5)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(recs) == 0 {
			t.Fatal("no recommendations returned")
		}
		pos := map[string]int{}
		for i, r := range recs {
			pos[r.ID] = i
		}
		mlPos, mlOK := pos["ml1"]
		poPos, poOK := pos["po1"]
		if !mlOK {
			t.Fatal("ml1 missing from recommendations")
		}
		if poOK && poPos < mlPos {
			t.Errorf("Poetry Workshop ranked at %d above Machine Learning at %d", poPos, mlPos)
		}
	})

	t.Run("results are bounded and sorted by confidence", func(t *testing.T) {
		recs, err := e.Recommend(ctx, StudentProfile{Major: "Data Science", Year: 2, GPA: 3.2}, 3)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(recs) > 3 {
			t.Errorf("got %d recommendations, want at most 3", len(recs))
		}
		for i, r := range recs {
			if r.Confidence < 0 || r.Confidence > 1 {
				t.Errorf("confidence %v out of [0, 1]", r.Confidence)
			}
			if r.PredictedRating > 5 {
				t.Errorf("predicted rating %v exceeds 5", r.PredictedRating)
			}
			if i > 0 && r.Confidence > recs[i-1].Confidence {
				t.Errorf("confidence not sorted at %d: %v after %v", i, r.Confidence, recs[i-1].Confidence)
			}
		}
	})

	t.Run("freshmen never see advanced courses", func(t *testing.T) {
		recs, err := e.Recommend(ctx, StudentProfile{Major: "Data Science", Year: 1, GPA: 3.0}, 5)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for _, r := range recs {
			if r.Difficulty == DifficultyAdvanced {
				t.Errorf("advanced course %s served to a first-year student", r.ID)
			}
		}
	})

	t.Run("strong seniors never see beginner courses", func(t *testing.T) {
		recs, err := e.Recommend(ctx, StudentProfile{Major: "Data Science", Year: 4, GPA: 3.9}, 5)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for _, r := range recs {
			if r.Difficulty == DifficultyBeginner {
				t.Errorf("beginner course %s served to a high-GPA senior", r.ID)
			}
		}
	})
}

func TestEnginePredict(t *testing.T) {
	ctx := context.Background()

	t.Run("known user gets unrated courses", func(t *testing.T) {
		e := newFittedEngine(t, testRatings())
		recs, err := e.Predict(ctx, "alice", 5)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		for _, r := range recs {
			if r.ID == "ml1" || r.ID == "ml2" {
				t.Errorf("already rated course %s recommended to alice", r.ID)
			}
		}
	})

	t.Run("unknown user falls back to popularity", func(t *testing.T) {
		e := newFittedEngine(t, testRatings())
		recs, err := e.Predict(ctx, "nobody", 5)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		popular, err := e.Popular("", 5)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if !reflect.DeepEqual(recs, popular) {
			t.Errorf("fallback = %+v, want popularity ranking %+v", recs, popular)
		}
	})

	t.Run("model without ratings always falls back", func(t *testing.T) {
		e := newFittedEngine(t, nil)
		recs, err := e.Predict(ctx, "alice", 5)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		popular, _ := e.Popular("", 5)
		if !reflect.DeepEqual(recs, popular) {
			t.Errorf("fallback = %+v, want popularity ranking %+v", recs, popular)
		}
	})

	t.Run("per-request blend weight", func(t *testing.T) {
		e := newFittedEngine(t, testRatings())
		want, err := e.Predict(ctx, "alice", 5)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		got, err := e.PredictWithAlpha(ctx, "alice", 5, -1)
		if err != nil {
			t.Fatalf("PredictWithAlpha() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("negative alpha = %+v, want fitted-alpha result %+v", got, want)
		}

		for _, alpha := range []float64{0, 1} {
			recs, err := e.PredictWithAlpha(ctx, "alice", 5, alpha)
			if err != nil {
				t.Fatalf("PredictWithAlpha(alpha=%v) error = %v", alpha, err)
			}
			for _, r := range recs {
				if r.ID == "ml1" || r.ID == "ml2" {
					t.Errorf("alpha=%v served already rated course %s", alpha, r.ID)
				}
			}
		}
	})
}

func TestEnginePopular(t *testing.T) {
	e := newFittedEngine(t, testRatings())

	t.Run("ordered by rating then volume", func(t *testing.T) {
		recs, err := e.Popular("", 3)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		want := []string{"dl1", "ml1", "ml2"}
		if len(recs) != len(want) {
			t.Fatalf("got %d results, want %d", len(recs), len(want))
		}
		for i, id := range want {
			if recs[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, recs[i].ID, id)
			}
		}
	})

	t.Run("category filter applies", func(t *testing.T) {
		recs, err := e.Popular("Humanities", 5)
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		for _, r := range recs {
			if r.Category != "Humanities" {
				t.Errorf("course %s has category %s", r.ID, r.Category)
			}
		}
		if len(recs) != 2 {
			t.Errorf("got %d humanities courses, want 2", len(recs))
		}
	})
}
