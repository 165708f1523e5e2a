// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courseatlas/courseatlas/internal/auth"
)

// RouterConfig carries the serving knobs the router needs.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
	AllowAnonymous  bool
}

// NewRouter builds the full route tree. Read endpoints are public; rating
// intake and model management require a valid token unless anonymous access
// is configured.
func NewRouter(h *Handler, jwt *auth.JWTManager, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Instrument)
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		}

		r.Post("/recommend", h.Recommend)
		r.Get("/popular", h.Popular)
		r.Get("/predict/{userID}", h.Predict)
		r.Get("/majors", h.Majors)

		// Login gets its own tighter limit against brute force.
		r.With(httprate.LimitByIP(5, 5*time.Minute)).Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwt, cfg.AllowAnonymous))
			r.Post("/ratings", h.SubmitRating)
			r.Post("/model/train", h.Train)
			r.Get("/model", h.ModelInfo)
		})
	})

	return r
}
