// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"math"
	"sort"
)

// RankingPolicy governs how similarity scores become a final recommendation
// list: candidate over-fetch, difficulty filtering by student standing, and
// the confidence blend between text match and course quality.
type RankingPolicy struct {
	// OverFetchFactor multiplies topN when selecting candidates so that
	// difficulty filtering still leaves a full page.
	OverFetchFactor int

	// SimWeight and QualityWeight blend text similarity with normalized
	// course rating into the confidence score. They should sum to 1.
	SimWeight     float64
	QualityWeight float64
}

// DefaultRankingPolicy returns the standard policy.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		OverFetchFactor: 3,
		SimWeight:       0.7,
		QualityWeight:   0.3,
	}
}

// Admits reports whether a course difficulty is appropriate for the student.
// First-year students are kept out of advanced material; high-GPA seniors
// are kept out of beginner material.
func (p RankingPolicy) Admits(profile StudentProfile, difficulty string) bool {
	if profile.Year <= 1 && difficulty == DifficultyAdvanced {
		return false
	}
	if profile.Year >= 4 && difficulty == DifficultyBeginner && profile.GPA > 3.5 {
		return false
	}
	return true
}

// Rank turns per-course similarities into up to topN recommendations.
// Candidates are taken in similarity order with over-fetch, difficulty
// filtered, scored, then re-sorted by confidence. Courses with missing
// difficulty or rating score with the catalog defaults.
func (p RankingPolicy) Rank(courses []Course, sims []float64, profile StudentProfile, topN int) []Recommendation {
	if topN <= 0 {
		return nil
	}
	overFetch := p.OverFetchFactor
	if overFetch < 1 {
		overFetch = 1
	}

	order := make([]int, len(courses))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if sims[ia] != sims[ib] {
			return sims[ia] > sims[ib]
		}
		return courses[ia].ID < courses[ib].ID
	})
	if limit := topN * overFetch; len(order) > limit {
		order = order[:limit]
	}

	recs := make([]Recommendation, 0, topN)
	for _, idx := range order {
		course := courses[idx]
		difficulty := course.Difficulty
		if difficulty == "" {
			difficulty = DefaultDifficulty
		}
		if !p.Admits(profile, difficulty) {
			continue
		}

		rating := course.Rating
		if rating == 0 {
			rating = DefaultRating
		}
		sim := sims[idx]
		confidence := sim*p.SimWeight + (rating/5.0)*p.QualityWeight
		predicted := math.Min(3.0+confidence*2.0, 5.0)

		course.Difficulty = difficulty
		course.Rating = rating
		recs = append(recs, Recommendation{
			Course:          course,
			PredictedRating: round2(predicted),
			Confidence:      round2(confidence),
			MatchScore:      round2(sim),
		})
		if len(recs) >= topN {
			break
		}
	}

	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Confidence > recs[b].Confidence
	})
	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
