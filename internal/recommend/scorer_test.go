// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"reflect"
	"testing"
)

func testItemFeatures(ids ...string) []ItemFeatures {
	items := make([]ItemFeatures, len(ids))
	for i, id := range ids {
		items[i] = ItemFeatures{
			CourseID:        id,
			AvgRating:       3.5 + 0.1*float64(i),
			RatingStd:       0.5,
			NumRatings:      10 + i,
			PopularityScore: float64(35 + i),
			CombinedRating:  3.5 + 0.1*float64(i),
		}
	}
	return items
}

func TestFitHybridScorer(t *testing.T) {
	ratings := []Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u1", CourseID: "c2", Value: 4},
		{UserID: "u2", CourseID: "c1", Value: 5},
		{UserID: "u2", CourseID: "c3", Value: 3},
	}
	s := FitHybridScorer(ratings, testItemFeatures("c1", "c2", "c3"), 50, 0.7, 1)

	if len(s.UserIDs) != 2 {
		t.Errorf("UserIDs = %d, want 2", len(s.UserIDs))
	}
	if len(s.ItemIDs) != 3 {
		t.Errorf("ItemIDs = %d, want 3", len(s.ItemIDs))
	}
	if !s.HasUser("u1") || s.HasUser("ghost") {
		t.Error("HasUser() misreports membership")
	}
	if got := len(s.Ratings); got != 6 {
		t.Errorf("interaction matrix has %d cells, want 6", got)
	}
}

func TestHybridScorerPredict(t *testing.T) {
	// u1 and u2 agree on c1; u2 also liked c3, so c3 should reach u1
	// through the neighbourhood.
	ratings := []Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u1", CourseID: "c2", Value: 4},
		{UserID: "u2", CourseID: "c1", Value: 5},
		{UserID: "u2", CourseID: "c3", Value: 5},
		{UserID: "u3", CourseID: "c2", Value: 2},
		{UserID: "u3", CourseID: "c4", Value: 4},
	}
	items := testItemFeatures("c1", "c2", "c3", "c4")
	s := FitHybridScorer(ratings, items, 50, 0.7, 1)

	t.Run("unknown user signals fallback", func(t *testing.T) {
		if _, ok := s.Predict("ghost", 5); ok {
			t.Error("Predict() ok = true for unknown user")
		}
	})

	t.Run("rated items never recommended", func(t *testing.T) {
		scored, ok := s.Predict("u1", 10)
		if !ok {
			t.Fatal("Predict() ok = false for known user")
		}
		for _, item := range scored {
			if item.CourseID == "c1" || item.CourseID == "c2" {
				t.Errorf("already rated item %s recommended", item.CourseID)
			}
		}
	})

	t.Run("neighbour evidence ranks c3 first for u1", func(t *testing.T) {
		scored, ok := s.Predict("u1", 2)
		if !ok {
			t.Fatal("Predict() ok = false for known user")
		}
		if len(scored) == 0 {
			t.Fatal("no predictions returned")
		}
		if scored[0].CourseID != "c3" {
			t.Errorf("top prediction = %s, want c3", scored[0].CourseID)
		}
	})

	t.Run("scores are sorted descending with id tiebreak", func(t *testing.T) {
		scored, ok := s.Predict("u3", 10)
		if !ok {
			t.Fatal("Predict() ok = false for known user")
		}
		for i := 1; i < len(scored); i++ {
			prev, cur := scored[i-1], scored[i]
			if cur.PredictedRating > prev.PredictedRating {
				t.Errorf("scores not sorted: %v before %v", prev.PredictedRating, cur.PredictedRating)
			}
			if cur.PredictedRating == prev.PredictedRating && cur.CourseID < prev.CourseID {
				t.Errorf("tie not broken by ascending id: %s before %s", prev.CourseID, cur.CourseID)
			}
		}
	})

	t.Run("confidence is capped at one", func(t *testing.T) {
		scored, _ := s.Predict("u1", 10)
		for _, item := range scored {
			if item.Confidence > 1.0 {
				t.Errorf("confidence %v exceeds 1.0", item.Confidence)
			}
		}
	})

	t.Run("blend weight override", func(t *testing.T) {
		want, _ := s.Predict("u1", 10)
		got, ok := s.PredictBlend("u1", 10, s.Alpha)
		if !ok {
			t.Fatal("PredictBlend() ok = false for known user")
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("PredictBlend(fitted alpha) = %+v, want %+v", got, want)
		}

		for _, alpha := range []float64{0, 1} {
			scored, ok := s.PredictBlend("u1", 10, alpha)
			if !ok {
				t.Fatalf("PredictBlend(alpha=%v) ok = false", alpha)
			}
			for _, item := range scored {
				if item.CourseID == "c1" || item.CourseID == "c2" {
					t.Errorf("PredictBlend(alpha=%v) returned rated item %s", alpha, item.CourseID)
				}
			}
		}
	})
}

func TestHybridScorerPredictClampsToRatingScale(t *testing.T) {
	// Disjoint histories give zero user similarity, so the CF term is 0.
	// With exactly two items every varying z-scored feature column is
	// opposite, the item similarity is -1, and the raw blend for the
	// unrated item is negative. Emitted scores must stay in [0, 5] and
	// confidence in [0, 1].
	ratings := []Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u2", CourseID: "c2", Value: 5},
	}
	s := FitHybridScorer(ratings, testItemFeatures("c1", "c2"), 50, 0.7, 1)

	scored, ok := s.Predict("u1", 5)
	if !ok {
		t.Fatal("Predict() ok = false for known user")
	}
	if len(scored) != 1 || scored[0].CourseID != "c2" {
		t.Fatalf("scored = %+v, want exactly the unrated item c2", scored)
	}
	if got := scored[0].PredictedRating; got < 0 || got > 5 {
		t.Errorf("PredictedRating = %v, want within [0, 5]", got)
	}
	if got := scored[0].Confidence; got < 0 || got > 1 {
		t.Errorf("Confidence = %v, want within [0, 1]", got)
	}
	if scored[0].PredictedRating != 0 {
		t.Errorf("PredictedRating = %v, want the negative blend clamped to 0", scored[0].PredictedRating)
	}
}

func TestHybridScorerRebuildIndexes(t *testing.T) {
	ratings := []Rating{
		{UserID: "u1", CourseID: "c1", Value: 5},
		{UserID: "u2", CourseID: "c1", Value: 4},
		{UserID: "u1", CourseID: "c2", Value: 3},
		{UserID: "u2", CourseID: "c2", Value: 4},
	}
	s := FitHybridScorer(ratings, testItemFeatures("c1", "c2"), 50, 0.7, 1)

	// Simulate a snapshot round trip: wipe the unexported maps.
	clone := &HybridScorer{
		UserIDs:   s.UserIDs,
		ItemIDs:   s.ItemIDs,
		Ratings:   s.Ratings,
		UserSim:   s.UserSim,
		ItemSim:   s.ItemSim,
		TopKUsers: s.TopKUsers,
		Alpha:     s.Alpha,
	}
	clone.RebuildIndexes()

	if !clone.HasUser("u1") || !clone.HasUser("u2") {
		t.Error("rebuilt indexes lost users")
	}
	want, _ := s.Predict("u1", 2)
	got, ok := clone.Predict("u1", 2)
	if !ok {
		t.Fatal("Predict() ok = false after rebuild")
	}
	if len(got) != len(want) {
		t.Fatalf("prediction count changed after rebuild: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("prediction %d changed after rebuild: %+v vs %+v", i, got[i], want[i])
		}
	}
}
