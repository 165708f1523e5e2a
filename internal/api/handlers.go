// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package api provides the HTTP serving surface of the recommendation
// service: recommendation queries, popularity listings, rating intake,
// authentication and model management.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courseatlas/courseatlas/internal/auth"
	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/metrics"
	"github.com/courseatlas/courseatlas/internal/models"
	"github.com/courseatlas/courseatlas/internal/ratingstore"
	"github.com/courseatlas/courseatlas/internal/recommend"
	"github.com/courseatlas/courseatlas/internal/trainer"
)

const (
	// defaultTopN is used when a request does not specify a result count.
	defaultTopN = 10
	// defaultPopularTopN is the larger default for the popularity listing.
	defaultPopularTopN = 20

	// Profile fields filled in when a recommend request omits them.
	defaultYear = 2
	defaultGPA  = 3.0
)

// Trainer retrains the model from the current datasets and publishes the
// result. The API layer triggers it but does not know how training works.
type Trainer interface {
	Train(ctx context.Context) (recommend.FitStats, error)
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	engine  *recommend.Engine
	trainer Trainer
	ratings *ratingstore.Store
	jwt     *auth.JWTManager
	creds   *auth.Credentials
}

// NewHandler wires the handler dependencies. trainer, ratings, jwt and creds
// may be nil when the corresponding endpoint group is not mounted.
func NewHandler(engine *recommend.Engine, trainer Trainer, ratings *ratingstore.Store, jwt *auth.JWTManager, creds *auth.Credentials) *Handler {
	return &Handler{
		engine:  engine,
		trainer: trainer,
		ratings: ratings,
		jwt:     jwt,
		creds:   creds,
	}
}

// Health reports engine readiness. It returns 200 even when the model is
// missing so orchestrators can distinguish "down" from "warming up"; the
// body carries the model state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondJSON(w, http.StatusOK, success(h.engine.Health(), started))
}

// Recommend serves content-based recommendations for a student profile.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.RecommendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	topN := req.TopN
	if topN == 0 {
		topN = defaultTopN
	}
	recs, err := h.engine.Recommend(r.Context(), profileFromRequest(req), topN)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues("content").Inc()
	respondJSON(w, http.StatusOK, success(map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	}, started))
}

// profileFromRequest fills in the profile defaults for omitted fields. GPA
// is a pointer on the request so an explicit 0.0 is not mistaken for an
// omitted field.
func profileFromRequest(req models.RecommendRequest) recommend.StudentProfile {
	year := req.Year
	if year == 0 {
		year = defaultYear
	}
	gpa := defaultGPA
	if req.GPA != nil {
		gpa = *req.GPA
	}
	return recommend.StudentProfile{
		Major:     req.Major,
		Interests: req.Interests,
		Year:      year,
		GPA:       gpa,
	}
}

// Predict serves collaborative recommendations for a known user, degrading
// to the popularity ranking for unknown users.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}
	topN := getIntQuery(r, "top_n", defaultTopN)
	if topN < 1 || topN > 100 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "top_n must be between 1 and 100", nil)
		return
	}
	// Without an alpha parameter the blend weight the model was fitted
	// with applies; -1 signals that downstream.
	alpha := -1.0
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v >= 0 && v <= 1) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "alpha must be between 0 and 1", nil)
			return
		}
		alpha = v
	}

	recs, err := h.engine.PredictWithAlpha(r.Context(), userID, topN, alpha)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues("collaborative").Inc()
	respondJSON(w, http.StatusOK, success(map[string]interface{}{
		"user_id":         userID,
		"recommendations": recs,
		"count":           len(recs),
	}, started))
}

// Popular serves the popularity ranking, optionally filtered by category.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	topN := getIntQuery(r, "top_n", defaultPopularTopN)
	if topN < 1 || topN > 100 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "top_n must be between 1 and 100", nil)
		return
	}
	category := r.URL.Query().Get("category")

	recs, err := h.engine.Popular(category, topN)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues("popularity").Inc()
	respondJSON(w, http.StatusOK, success(map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	}, started))
}

// Majors lists the majors the profile encoder has keyword expansions for.
func (h *Handler) Majors(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	majors := recommend.KnownMajors()
	respondJSON(w, http.StatusOK, success(map[string]interface{}{
		"majors": majors,
		"count":  len(majors),
	}, started))
}

// SubmitRating records one user-course rating in the durable store. The
// rating takes effect on the next training run.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.RatingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.ratings.Put(recommend.Rating{
		UserID:   req.UserID,
		CourseID: req.CourseID,
		Value:    req.Rating,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "storing rating failed", err)
		return
	}

	metrics.RatingsIngested.Inc()
	respondJSON(w, http.StatusAccepted, success(map[string]interface{}{
		"user_id": req.UserID,
		"item_id": req.CourseID,
	}, started))
}

// Login exchanges admin credentials for a JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		logger := logging.Ctx(r.Context())
		logger.Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("login failed")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid credentials", nil)
		return
	}

	token, expires, err := h.jwt.GenerateToken(req.Username, "admin")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "issuing token failed", err)
		return
	}
	respondJSON(w, http.StatusOK, success(models.LoginResponse{
		Token:     token,
		ExpiresAt: expires,
	}, started))
}

// Train triggers a synchronous retraining run.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	stats, err := h.trainer.Train(r.Context())
	if errors.Is(err, trainer.ErrTrainingInProgress) {
		respondError(w, http.StatusConflict, "TRAINING_IN_PROGRESS", "a training run is already underway", nil)
		return
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, success(models.TrainResponse{
		CourseCount:   stats.CourseCount,
		UserCount:     stats.UserCount,
		RatingCount:   stats.RatingCount,
		VocabSize:     stats.VocabSize,
		FitDurationMS: stats.FitDurationMS,
	}, started))
}

// ModelInfo reports the fit statistics of the published model.
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	stats, err := h.engine.Stats()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, success(stats, started))
}
