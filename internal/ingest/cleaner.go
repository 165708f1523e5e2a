// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package ingest

import (
	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

// CleanCourses deduplicates the catalog by course ID (first occurrence wins),
// backfills empty descriptions from titles, and applies catalog defaults for
// difficulty, rating, source and URL.
func CleanCourses(courses []recommend.Course) []recommend.Course {
	seen := make(map[string]struct{}, len(courses))
	out := make([]recommend.Course, 0, len(courses))
	for _, c := range courses {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		if c.Description == "" {
			c.Description = c.Title
		}
		if c.Difficulty == "" {
			c.Difficulty = recommend.DefaultDifficulty
		}
		if c.Rating == 0 {
			c.Rating = recommend.DefaultRating
		}
		if c.Source == "" {
			c.Source = recommend.DefaultSource
		}
		if c.URL == "" {
			c.URL = recommend.DefaultURL
		}
		out = append(out, c)
	}
	return out
}

// CleanRatings drops non-positive ratings, clips values to [1, 5], removes
// orphans referencing courses outside the catalog, and collapses duplicate
// (user, course) pairs keeping the last occurrence.
func CleanRatings(ratings []recommend.Rating, courses []recommend.Course) []recommend.Rating {
	catalog := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		catalog[c.ID] = struct{}{}
	}

	type key struct{ user, course string }
	lastIdx := make(map[key]int, len(ratings))
	order := make([]key, 0, len(ratings))
	kept := make(map[key]recommend.Rating, len(ratings))

	for _, r := range ratings {
		if r.Value <= 0 {
			continue
		}
		if _, ok := catalog[r.CourseID]; !ok {
			continue
		}
		if r.Value < 1 {
			r.Value = 1
		}
		if r.Value > 5 {
			r.Value = 5
		}
		k := key{r.UserID, r.CourseID}
		if _, dup := lastIdx[k]; !dup {
			lastIdx[k] = len(order)
			order = append(order, k)
		}
		kept[k] = r
	}

	out := make([]recommend.Rating, 0, len(order))
	for _, k := range order {
		out = append(out, kept[k])
	}
	return out
}

// PruneColdStart iteratively removes users and courses with fewer than
// minRatings interactions, up to five passes. Removing a sparse user can push
// a course under the floor and vice versa, hence the iteration.
func PruneColdStart(ratings []recommend.Rating, minRatings int) []recommend.Rating {
	log := logging.With().Str("component", "ingest").Logger()
	if minRatings <= 1 {
		return ratings
	}

	for pass := 0; pass < 5; pass++ {
		userCounts := make(map[string]int)
		itemCounts := make(map[string]int)
		for _, r := range ratings {
			userCounts[r.UserID]++
			itemCounts[r.CourseID]++
		}

		filtered := ratings[:0:0]
		for _, r := range ratings {
			if userCounts[r.UserID] >= minRatings && itemCounts[r.CourseID] >= minRatings {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == len(ratings) {
			break
		}
		ratings = filtered
	}

	log.Debug().Int("ratings", len(ratings)).Int("min_ratings", minRatings).Msg("cold start pruning complete")
	return ratings
}
