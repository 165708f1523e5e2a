// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package features derives per-user and per-course aggregate statistics from
// rating histories. The item aggregates feed the hybrid scorer's item-item
// similarity; the user aggregates back the evaluation tooling.
package features

import (
	"math"
	"sort"

	"github.com/courseatlas/courseatlas/internal/recommend"
)

// neutralRating is assumed for users and courses with no history.
const neutralRating = 3.0

// BuildItemFeatures aggregates ratings per course. Courses never rated still
// get a row with neutral defaults so the catalog and feature set stay
// aligned. Output is sorted by course ID.
func BuildItemFeatures(courses []recommend.Course, ratings []recommend.Rating) []recommend.ItemFeatures {
	byCourse := make(map[string][]float64)
	for _, r := range ratings {
		byCourse[r.CourseID] = append(byCourse[r.CourseID], r.Value)
	}

	out := make([]recommend.ItemFeatures, 0, len(courses))
	for _, c := range courses {
		values := byCourse[c.ID]
		f := recommend.ItemFeatures{CourseID: c.ID}
		if len(values) == 0 {
			f.AvgRating = neutralRating
			f.CombinedRating = neutralRating
		} else {
			f.AvgRating = mean(values)
			f.RatingStd = sampleStd(values, f.AvgRating)
			f.NumRatings = len(values)
			f.PopularityScore = float64(f.NumRatings) * f.AvgRating
			// Without an external review source the combined rating is
			// just the interaction average.
			f.CombinedRating = f.AvgRating
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}

// BuildUserFeatures aggregates ratings per user, sorted by user ID.
func BuildUserFeatures(ratings []recommend.Rating) []recommend.UserFeatures {
	byUser := make(map[string][]float64)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r.Value)
	}

	out := make([]recommend.UserFeatures, 0, len(byUser))
	for userID, values := range byUser {
		avg := mean(values)
		out = append(out, recommend.UserFeatures{
			UserID:     userID,
			AvgRating:  avg,
			RatingStd:  sampleStd(values, avg),
			NumRatings: len(values),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd returns the sample standard deviation, 0 for fewer than two
// observations.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
