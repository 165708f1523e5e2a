// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package storage persists fitted recommendation models as compressed,
// checksummed snapshot files. A snapshot either loads completely or not at
// all; a partially populated model is never returned.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

// snapshotVersion increments whenever the snapshot layout changes. Older
// versions are rejected rather than migrated.
const snapshotVersion = 1

// envelope is the outer on-disk structure: a versioned, checksummed wrapper
// around the compressed model payload.
type envelope struct {
	Version   int
	CreatedAt time.Time
	Checksum  string
	Payload   []byte
}

// snapshot is the gob-encoded model state inside the payload.
type snapshot struct {
	Config        recommend.Config
	Vectorizer    *recommend.Vectorizer
	Courses       []recommend.Course
	CourseVectors []recommend.SparseVector
	Scorer        *recommend.HybridScorer
	Items         []recommend.ItemFeatures
	Stats         recommend.FitStats
}

// Store reads and writes model snapshots under a fixed path.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a store for the given snapshot file path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logging.With().Str("component", "model_store").Logger(),
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the model atomically: the snapshot is written to a temp file
// in the same directory and renamed into place, so a crash mid-write never
// corrupts an existing snapshot.
func (s *Store) Save(m *recommend.Model) error {
	if m == nil || m.Vectorizer == nil || !m.Vectorizer.IsFitted() {
		return recommend.ErrNotFitted
	}

	var payload bytes.Buffer
	gz := gzip.NewWriter(&payload)
	if err := gob.NewEncoder(gz).Encode(snapshot{
		Config:        m.Config,
		Vectorizer:    m.Vectorizer,
		Courses:       m.Courses,
		CourseVectors: m.CourseVectors,
		Scorer:        m.Scorer,
		Items:         m.Items,
		Stats:         m.Stats,
	}); err != nil {
		gz.Close() //nolint:errcheck // encode already failed
		return fmt.Errorf("encoding model snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing model snapshot: %w", err)
	}

	sum := sha256.Sum256(payload.Bytes())
	env := envelope{
		Version:   snapshotVersion,
		CreatedAt: time.Now().UTC(),
		Checksum:  hex.EncodeToString(sum[:]),
		Payload:   payload.Bytes(),
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if err := gob.NewEncoder(tmp).Encode(env); err != nil {
		tmp.Close() //nolint:errcheck // best effort cleanup
		return fmt.Errorf("writing snapshot envelope: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}

	s.log.Info().
		Str("path", s.path).
		Int("bytes", payload.Len()).
		Int("courses", len(m.Courses)).
		Msg("model snapshot saved")
	return nil
}

// Load reads, verifies and decodes a snapshot. Corruption, version skew and
// internally inconsistent shapes all fail loudly.
func (s *Store) Load() (*recommend.Model, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var env envelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding snapshot envelope: %w", err)
	}
	if env.Version != snapshotVersion {
		return nil, &recommend.IncompatibleModelError{
			Field:    "snapshot_version",
			Expected: snapshotVersion,
			Got:      env.Version,
		}
	}

	sum := sha256.Sum256(env.Payload)
	if hex.EncodeToString(sum[:]) != env.Checksum {
		return nil, fmt.Errorf("snapshot checksum mismatch at %s", s.path)
	}

	gz, err := gzip.NewReader(bytes.NewReader(env.Payload))
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	defer gz.Close() //nolint:errcheck // read-only stream

	var snap snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding model snapshot: %w", err)
	}

	if err := validate(&snap); err != nil {
		return nil, err
	}

	m := &recommend.Model{
		Config:        snap.Config,
		Vectorizer:    snap.Vectorizer,
		Courses:       snap.Courses,
		CourseVectors: snap.CourseVectors,
		Scorer:        snap.Scorer,
		Items:         snap.Items,
		Stats:         snap.Stats,
	}
	s.log.Info().
		Str("path", s.path).
		Time("fitted_at", m.Stats.FittedAt).
		Int("courses", len(m.Courses)).
		Msg("model snapshot loaded")
	return m, nil
}

// validate checks internal shape consistency before the model is published.
func validate(snap *snapshot) error {
	if snap.Vectorizer == nil || !snap.Vectorizer.IsFitted() {
		return &recommend.IncompatibleModelError{Field: "vocab_size", Expected: 1, Got: 0}
	}
	if got, want := len(snap.Vectorizer.IDF), snap.Vectorizer.Dims(); got != want {
		return &recommend.IncompatibleModelError{Field: "idf_size", Expected: want, Got: got}
	}
	if got, want := len(snap.CourseVectors), len(snap.Courses); got != want {
		return &recommend.IncompatibleModelError{Field: "course_vectors", Expected: want, Got: got}
	}
	if sc := snap.Scorer; sc != nil {
		if got, want := len(sc.Ratings), len(sc.UserIDs)*len(sc.ItemIDs); got != want {
			return &recommend.IncompatibleModelError{Field: "interaction_matrix", Expected: want, Got: got}
		}
	}
	return nil
}
