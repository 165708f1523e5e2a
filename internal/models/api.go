// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package models defines the HTTP request and response shapes shared by the
// API layer. Validation tags on request types are enforced by the validation
// package before a handler touches the payload.
package models

import "time"

// APIResponse wraps every endpoint response in a consistent envelope.
//
// Status is "success" or "error"; Error is populated only on error.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error body.
//
// Codes used by this service: VALIDATION_ERROR, MODEL_NOT_READY,
// AUTHENTICATION_ERROR, NOT_FOUND, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendRequest is the content-based recommendation query. Year and GPA
// may be omitted; the handler fills in year 2 and GPA 3.0. GPA is a pointer
// so an explicit 0.0 is distinguishable from an absent field.
type RecommendRequest struct {
	Major     string   `json:"major" validate:"required,min=2,max=100"`
	Interests string   `json:"interests" validate:"max=500"`
	Year      int      `json:"year" validate:"omitempty,min=1,max=8"`
	GPA       *float64 `json:"gpa,omitempty" validate:"omitempty,min=0,max=4"`
	TopN      int      `json:"top_n" validate:"omitempty,min=1,max=100"`
}

// RatingRequest records one user-course rating.
type RatingRequest struct {
	UserID   string  `json:"user_id" validate:"required,max=100"`
	CourseID string  `json:"item_id" validate:"required,max=100"`
	Rating   float64 `json:"rating" validate:"required,min=1,max=5"`
}

// LoginRequest exchanges admin credentials for a JWT.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TrainResponse reports the outcome of a training run.
type TrainResponse struct {
	CourseCount   int   `json:"course_count"`
	UserCount     int   `json:"user_count"`
	RatingCount   int   `json:"rating_count"`
	VocabSize     int   `json:"vocab_size"`
	FitDurationMS int64 `json:"fit_duration_ms"`
}
