// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package ratingstore persists ratings submitted through the API in
// BadgerDB. Stored ratings survive restarts and are merged with the CSV
// history on every training run, with a later submission for the same
// (user, course) pair replacing the earlier one.
package ratingstore

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

const ratingKeyPrefix = "rating:"

// storedRating is the on-disk record; the timestamp is kept for audit even
// though training only consumes the latest value per pair.
type storedRating struct {
	UserID    string    `json:"user_id"`
	CourseID  string    `json:"item_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a BadgerDB-backed rating log.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening rating store at %s: %w", path, err)
	}
	return &Store{
		db:  db,
		log: logging.With().Str("component", "rating_store").Logger(),
	}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts one rating. The key is the (user, course) pair, so repeated
// submissions overwrite.
func (s *Store) Put(r recommend.Rating) error {
	rec := storedRating{
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		Rating:    r.Value,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling rating: %w", err)
	}

	key := []byte(ratingKeyPrefix + r.UserID + ":" + r.CourseID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("storing rating: %w", err)
	}
	return nil
}

// All returns every stored rating in key order.
func (s *Store) All() ([]recommend.Rating, error) {
	var out []recommend.Rating
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ratingKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec storedRating
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("unmarshaling rating: %w", err)
				}
				out = append(out, recommend.Rating{
					UserID:   rec.UserID,
					CourseID: rec.CourseID,
					Value:    rec.Rating,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int("ratings", len(out)).Msg("rating store read")
	return out, nil
}

// Count returns the number of stored ratings.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ratingKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
