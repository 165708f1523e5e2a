// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import "fmt"

// Config controls engine fitting and scoring behaviour.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `koanf:"max_features" json:"max_features"`

	// NGramMin and NGramMax bound the token span lengths in the vocabulary.
	NGramMin int `koanf:"ngram_min" json:"ngram_min"`
	NGramMax int `koanf:"ngram_max" json:"ngram_max"`

	// MinDocFreq excludes vocabulary terms rarer than this many documents.
	MinDocFreq int `koanf:"min_doc_freq" json:"min_doc_freq"`

	// TopKUsers is the neighbourhood size for collaborative filtering.
	TopKUsers int `koanf:"top_k_users" json:"top_k_users"`

	// Alpha weights collaborative against content scores in [0, 1].
	Alpha float64 `koanf:"alpha" json:"alpha"`

	// OverFetchFactor multiplies topN during candidate selection so
	// difficulty filtering still fills a page.
	OverFetchFactor int `koanf:"over_fetch_factor" json:"over_fetch_factor"`

	// Workers bounds similarity-computation parallelism. Zero means one
	// worker per CPU.
	Workers int `koanf:"workers" json:"workers"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxFeatures:     2000,
		NGramMin:        1,
		NGramMax:        3,
		MinDocFreq:      2,
		TopKUsers:       50,
		Alpha:           0.7,
		OverFetchFactor: 3,
		Workers:         0,
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c Config) Validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.NGramMin < 1 {
		return fmt.Errorf("ngram_min must be at least 1, got %d", c.NGramMin)
	}
	if c.NGramMax < c.NGramMin {
		return fmt.Errorf("ngram_max %d is below ngram_min %d", c.NGramMax, c.NGramMin)
	}
	if c.MinDocFreq < 1 {
		return fmt.Errorf("min_doc_freq must be at least 1, got %d", c.MinDocFreq)
	}
	if c.TopKUsers < 1 {
		return fmt.Errorf("top_k_users must be at least 1, got %d", c.TopKUsers)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1], got %g", c.Alpha)
	}
	if c.OverFetchFactor < 1 {
		return fmt.Errorf("over_fetch_factor must be at least 1, got %d", c.OverFetchFactor)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// vectorizerConfig projects the engine configuration onto the vector space.
func (c Config) vectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: c.MaxFeatures,
		NGramMin:    c.NGramMin,
		NGramMax:    c.NGramMax,
		MinDocFreq:  c.MinDocFreq,
	}
}
