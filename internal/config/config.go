// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package config loads layered application configuration: struct defaults,
// then an optional YAML file, then environment variables, highest layer
// winning.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/courseatlas/courseatlas/internal/recommend"
)

// DefaultConfigPaths lists config file locations checked in order; the first
// file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/courseatlas/config.yaml",
	"/etc/courseatlas/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Data     DataConfig       `koanf:"data"`
	Engine   recommend.Config `koanf:"engine"`
	Model    ModelConfig      `koanf:"model"`
	Security SecurityConfig   `koanf:"security"`
	Logging  LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// DataConfig points at the input datasets and the rating store.
type DataConfig struct {
	CoursesPath     string `koanf:"courses_path"`
	RatingsPath     string `koanf:"ratings_path"`
	RatingStorePath string `koanf:"rating_store_path"`
	MinRatings      int    `koanf:"min_ratings"`
}

// ModelConfig controls snapshot persistence, periodic retraining and the
// post-fit evaluation pass. RequireLoaded makes startup fail when no snapshot
// can be loaded instead of falling back to an initial training run.
// EvalFraction is the per-user held-out share scored after each fit; 0
// disables evaluation.
type ModelConfig struct {
	SnapshotPath    string        `koanf:"snapshot_path"`
	RetrainInterval time.Duration `koanf:"retrain_interval"`
	RequireLoaded   bool          `koanf:"require_loaded"`
	EvalFraction    float64       `koanf:"eval_fraction"`
}

// SecurityConfig configures API authentication for mutating endpoints.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenLifetime  time.Duration `koanf:"token_lifetime"`
	AdminUsername  string        `koanf:"admin_username"`
	AdminPassword  string        `koanf:"admin_password"`
	BCryptCost     int           `koanf:"bcrypt_cost"`
	AllowAnonymous bool          `koanf:"allow_anonymous"`
}

// LoggingConfig mirrors the logging package configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the defaults applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Data: DataConfig{
			CoursesPath:     "data/courses.csv",
			RatingsPath:     "data/ratings.csv",
			RatingStorePath: "data/ratings.badger",
			MinRatings:      2,
		},
		Engine: recommend.DefaultConfig(),
		Model: ModelConfig{
			SnapshotPath:    "data/model.snapshot",
			RetrainInterval: 0, // disabled unless configured
		},
		Security: SecurityConfig{
			TokenLifetime:  24 * time.Hour,
			BCryptCost:     10,
			AllowAnonymous: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, file and environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, honoring the
// CONFIG_PATH override.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings translates environment variable names to config paths.
// Unmapped variables are ignored so unrelated environment noise cannot
// reach the config tree.
var envMappings = map[string]string{
	"server_host":              "server.host",
	"server_port":              "server.port",
	"server_read_timeout":      "server.read_timeout",
	"server_write_timeout":     "server.write_timeout",
	"server_shutdown_timeout":  "server.shutdown_timeout",
	"server_rate_limit_reqs":   "server.rate_limit_reqs",
	"server_rate_limit_window": "server.rate_limit_window",

	"data_courses_path":      "data.courses_path",
	"data_ratings_path":      "data.ratings_path",
	"data_rating_store_path": "data.rating_store_path",
	"data_min_ratings":       "data.min_ratings",

	"engine_max_features":      "engine.max_features",
	"engine_ngram_min":         "engine.ngram_min",
	"engine_ngram_max":         "engine.ngram_max",
	"engine_min_doc_freq":      "engine.min_doc_freq",
	"engine_top_k_users":       "engine.top_k_users",
	"engine_alpha":             "engine.alpha",
	"engine_over_fetch_factor": "engine.over_fetch_factor",
	"engine_workers":           "engine.workers",

	"model_snapshot_path":    "model.snapshot_path",
	"model_retrain_interval": "model.retrain_interval",
	"model_require_loaded":   "model.require_loaded",
	"model_eval_fraction":    "model.eval_fraction",

	"jwt_secret":      "security.jwt_secret",
	"token_lifetime":  "security.token_lifetime",
	"admin_username":  "security.admin_username",
	"admin_password":  "security.admin_password",
	"allow_anonymous": "security.allow_anonymous",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransform(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

// Validate checks cross-field constraints before the config is used.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Data.MinRatings < 1 {
		return fmt.Errorf("data.min_ratings must be at least 1, got %d", c.Data.MinRatings)
	}
	if c.Model.EvalFraction < 0 || c.Model.EvalFraction >= 1 {
		return fmt.Errorf("model.eval_fraction %v out of range [0, 1)", c.Model.EvalFraction)
	}
	if !c.Security.AllowAnonymous && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required unless allow_anonymous is set")
	}
	if c.Security.BCryptCost < 4 || c.Security.BCryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost %d out of range", c.Security.BCryptCost)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
