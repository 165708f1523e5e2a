// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"math"
	"testing"
)

func TestRankingPolicyAdmits(t *testing.T) {
	p := DefaultRankingPolicy()

	tests := []struct {
		name       string
		profile    StudentProfile
		difficulty string
		want       bool
	}{
		{"freshman blocked from advanced", StudentProfile{Year: 1}, DifficultyAdvanced, false},
		{"freshman allowed intermediate", StudentProfile{Year: 1}, DifficultyIntermediate, true},
		{"sophomore allowed advanced", StudentProfile{Year: 2}, DifficultyAdvanced, true},
		{"high gpa senior blocked from beginner", StudentProfile{Year: 4, GPA: 3.8}, DifficultyBeginner, false},
		{"average senior allowed beginner", StudentProfile{Year: 4, GPA: 3.2}, DifficultyBeginner, true},
		{"gpa boundary 3.5 is allowed", StudentProfile{Year: 4, GPA: 3.5}, DifficultyBeginner, true},
		{"fifth year high gpa blocked from beginner", StudentProfile{Year: 5, GPA: 3.9}, DifficultyBeginner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Admits(tt.profile, tt.difficulty); got != tt.want {
				t.Errorf("Admits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankingPolicyRank(t *testing.T) {
	p := DefaultRankingPolicy()
	courses := []Course{
		{ID: "c1", Title: "A", Difficulty: DifficultyAdvanced, Rating: 5.0},
		{ID: "c2", Title: "B", Difficulty: DifficultyBeginner, Rating: 4.0},
		{ID: "c3", Title: "C", Difficulty: DifficultyIntermediate, Rating: 3.0},
	}

	t.Run("filters advanced for freshmen then fills from over-fetch", func(t *testing.T) {
		sims := []float64{0.9, 0.5, 0.3}
		recs := p.Rank(courses, sims, StudentProfile{Year: 1}, 2)
		if len(recs) != 2 {
			t.Fatalf("got %d recommendations, want 2", len(recs))
		}
		for _, r := range recs {
			if r.ID == "c1" {
				t.Error("advanced course served to a freshman")
			}
		}
	})

	t.Run("confidence blends similarity and quality", func(t *testing.T) {
		sims := []float64{0, 0.8, 0}
		recs := p.Rank(courses, sims, StudentProfile{Year: 2}, 1)
		if len(recs) != 1 {
			t.Fatalf("got %d recommendations, want 1", len(recs))
		}
		want := 0.8*0.7 + (4.0/5.0)*0.3
		if math.Abs(recs[0].Confidence-math.Round(want*100)/100) > 1e-9 {
			t.Errorf("confidence = %v, want %v", recs[0].Confidence, want)
		}
	})

	t.Run("predicted rating capped at five", func(t *testing.T) {
		sims := []float64{1.0, 1.0, 1.0}
		recs := p.Rank(courses, sims, StudentProfile{Year: 2}, 3)
		for _, r := range recs {
			if r.PredictedRating > 5.0 {
				t.Errorf("predicted rating %v exceeds 5.0", r.PredictedRating)
			}
		}
	})

	t.Run("results sorted by confidence descending", func(t *testing.T) {
		sims := []float64{0.2, 0.9, 0.6}
		recs := p.Rank(courses, sims, StudentProfile{Year: 2}, 3)
		for i := 1; i < len(recs); i++ {
			if recs[i].Confidence > recs[i-1].Confidence {
				t.Errorf("results not sorted by confidence: %v before %v", recs[i-1].Confidence, recs[i].Confidence)
			}
		}
	})

	t.Run("missing difficulty and rating default", func(t *testing.T) {
		bare := []Course{{ID: "x", Title: "X"}}
		recs := p.Rank(bare, []float64{0.5}, StudentProfile{Year: 2}, 1)
		if len(recs) != 1 {
			t.Fatalf("got %d recommendations, want 1", len(recs))
		}
		if recs[0].Difficulty != DefaultDifficulty {
			t.Errorf("difficulty = %q, want %q", recs[0].Difficulty, DefaultDifficulty)
		}
		if recs[0].Rating != DefaultRating {
			t.Errorf("rating = %v, want %v", recs[0].Rating, DefaultRating)
		}
	})

	t.Run("zero topN yields nothing", func(t *testing.T) {
		if recs := p.Rank(courses, []float64{1, 1, 1}, StudentProfile{Year: 2}, 0); recs != nil {
			t.Errorf("got %d recommendations, want nil", len(recs))
		}
	})
}

func TestPopularCourses(t *testing.T) {
	courses := []Course{
		{ID: "c1", Title: "Mid", Category: "Data Science", Rating: 4.0, NumRatings: 50},
		{ID: "c2", Title: "Top", Category: "Business", Rating: 4.8, NumRatings: 10},
		{ID: "c3", Title: "Tie", Category: "Data Science", Rating: 4.0, NumRatings: 100},
		{ID: "c0", Title: "TieSame", Category: "Arts", Rating: 4.0, NumRatings: 100},
	}

	t.Run("orders by rating then volume then id", func(t *testing.T) {
		recs := PopularCourses(courses, "", 4)
		wantOrder := []string{"c2", "c0", "c3", "c1"}
		if len(recs) != len(wantOrder) {
			t.Fatalf("got %d results, want %d", len(recs), len(wantOrder))
		}
		for i, id := range wantOrder {
			if recs[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, recs[i].ID, id)
			}
		}
	})

	t.Run("category filter is case insensitive substring", func(t *testing.T) {
		recs := PopularCourses(courses, "data", 10)
		if len(recs) != 2 {
			t.Fatalf("got %d results, want 2", len(recs))
		}
		for _, r := range recs {
			if r.Category != "Data Science" {
				t.Errorf("unexpected category %q", r.Category)
			}
		}
	})

	t.Run("fallback confidence is fixed", func(t *testing.T) {
		for _, r := range PopularCourses(courses, "", 4) {
			if r.Confidence != FallbackConfidence {
				t.Errorf("confidence = %v, want %v", r.Confidence, FallbackConfidence)
			}
		}
	})

	t.Run("no category match yields empty", func(t *testing.T) {
		if recs := PopularCourses(courses, "nonexistent", 10); len(recs) != 0 {
			t.Errorf("got %d results, want 0", len(recs))
		}
	})
}
