// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import "time"

// Difficulty levels recognized by the ranking policy.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Defaults applied to optional course fields at ingestion time.
const (
	DefaultDifficulty = DifficultyIntermediate
	DefaultRating     = 4.0
	DefaultSource     = "Coursera"
	DefaultURL        = "#"
)

// Course is a catalog item. Courses are immutable after Fit; changing the
// catalog requires a full re-fit.
type Course struct {
	// ID is the unique course identifier.
	ID string `json:"course_id"`

	// Title is the course title.
	Title string `json:"title"`

	// Description is the free-text course description.
	Description string `json:"description"`

	// Category is the subject category (e.g. "Data Science").
	Category string `json:"category"`

	// Difficulty is one of Beginner, Intermediate, Advanced.
	Difficulty string `json:"difficulty"`

	// Rating is the average catalog rating in [0, 5].
	Rating float64 `json:"rating"`

	// NumRatings is the number of ratings behind Rating.
	NumRatings int `json:"num_ratings"`

	// Source is the course provider.
	Source string `json:"source"`

	// URL points at the course page.
	URL string `json:"url"`
}

// Rating is a single user-course interaction. Values are clipped to [1, 5]
// upstream; a stored value of 0 in the interaction matrix means "unrated".
type Rating struct {
	UserID   string  `json:"user_id"`
	CourseID string  `json:"item_id"`
	Value    float64 `json:"rating"`
}

// StudentProfile is the query-time description of a student. It exists only
// for the duration of one Recommend call and is never persisted.
type StudentProfile struct {
	// Major is the declared major. Required.
	Major string `json:"major"`

	// Interests is free text describing the student's interests.
	Interests string `json:"interests"`

	// Year is the academic year (1 = freshman).
	Year int `json:"year"`

	// GPA is the grade point average in [0, 4].
	GPA float64 `json:"gpa"`
}

// ItemFeatures holds per-course aggregate statistics computed by the feature
// layer. AvgRating, RatingStd, NumRatings, PopularityScore and CombinedRating
// feed the item-item similarity computation.
type ItemFeatures struct {
	CourseID        string  `json:"item_id"`
	AvgRating       float64 `json:"avg_rating"`
	RatingStd       float64 `json:"rating_std"`
	NumRatings      int     `json:"num_ratings"`
	PopularityScore float64 `json:"popularity_score"`
	CombinedRating  float64 `json:"combined_rating"`
}

// UserFeatures holds per-user aggregate statistics. The hybrid scorer does
// not consume these directly; they are part of the feature layer contract.
type UserFeatures struct {
	UserID     string  `json:"user_id"`
	AvgRating  float64 `json:"avg_rating"`
	RatingStd  float64 `json:"rating_std"`
	NumRatings int     `json:"num_ratings"`
}

// Recommendation is a scored course returned by the engine.
type Recommendation struct {
	Course

	// PredictedRating is the predicted user rating in [0, 5].
	PredictedRating float64 `json:"predicted_rating"`

	// Confidence blends similarity and catalog quality in [0, 1].
	Confidence float64 `json:"confidence"`

	// MatchScore is the raw content similarity in [0, 1], when applicable.
	MatchScore float64 `json:"match_score"`
}

// FitStats describes the data a model was fitted on.
type FitStats struct {
	// CourseCount is the number of catalog items indexed.
	CourseCount int `json:"course_count"`

	// UserCount is the number of users in the interaction matrix.
	UserCount int `json:"user_count"`

	// RatingCount is the number of ratings in the interaction matrix.
	RatingCount int `json:"rating_count"`

	// VocabSize is the fitted vocabulary dimension count.
	VocabSize int `json:"vocab_size"`

	// FittedAt is when the fit completed.
	FittedAt time.Time `json:"fitted_at"`

	// FitDurationMS is how long the fit took.
	FitDurationMS int64 `json:"fit_duration_ms"`
}

// Health reports engine readiness for the serving shell.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	TotalItems  int    `json:"total_items"`
}
