// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"sort"
	"strings"
)

// FallbackConfidence is assigned to popularity-ranked results, which carry no
// personalization signal.
const FallbackConfidence = 0.5

// PopularCourses ranks the catalog by rating, then number of ratings, then
// course ID for determinism. A non-empty category restricts results to
// courses whose category contains it, case-insensitively. The same ordering
// backs both the public popular endpoint and the unknown-user fallback.
func PopularCourses(courses []Course, category string, topN int) []Recommendation {
	if topN <= 0 {
		return nil
	}

	var pool []Course
	if category == "" {
		pool = courses
	} else {
		needle := strings.ToLower(category)
		pool = make([]Course, 0, len(courses))
		for _, c := range courses {
			if strings.Contains(strings.ToLower(c.Category), needle) {
				pool = append(pool, c)
			}
		}
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := pool[order[a]], pool[order[b]]
		if ca.Rating != cb.Rating {
			return ca.Rating > cb.Rating
		}
		if ca.NumRatings != cb.NumRatings {
			return ca.NumRatings > cb.NumRatings
		}
		return ca.ID < cb.ID
	})
	if len(order) > topN {
		order = order[:topN]
	}

	recs := make([]Recommendation, 0, len(order))
	for _, idx := range order {
		c := pool[idx]
		recs = append(recs, Recommendation{
			Course:          c,
			PredictedRating: round2(c.Rating),
			Confidence:      FallbackConfidence,
			MatchScore:      0,
		})
	}
	return recs
}
