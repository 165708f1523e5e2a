// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package ingest loads and cleans course catalogs and rating histories from
// CSV files. Header names are matched case-insensitively with a small alias
// table so exports from different tools load without preprocessing.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/courseatlas/courseatlas/internal/logging"
	"github.com/courseatlas/courseatlas/internal/recommend"
)

// columnAliases maps accepted header spellings to canonical column names.
var columnAliases = map[string]string{
	"userid":      "user_id",
	"user_id":     "user_id",
	"user":        "user_id",
	"item":        "item_id",
	"item_id":     "item_id",
	"courseid":    "item_id",
	"course_id":   "item_id",
	"rating":      "rating",
	"title":       "title",
	"name":        "title",
	"course_name": "title",
	"description": "description",
	"category":    "category",
	"subject":     "category",
	"difficulty":  "difficulty",
	"level":       "difficulty",
	"num_ratings": "num_ratings",
	"reviews":     "num_ratings",
	"source":      "source",
	"provider":    "source",
	"url":         "url",
	"link":        "url",
}

// Loader reads catalog and rating CSV files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a CSV loader.
func NewLoader() *Loader {
	return &Loader{log: logging.With().Str("component", "ingest").Logger()}
}

// LoadCourses reads a course catalog CSV. Required columns are an item ID
// and a title; everything else falls back to catalog defaults.
func (l *Loader) LoadCourses(path string) ([]recommend.Course, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if _, ok := header["item_id"]; !ok {
		return nil, fmt.Errorf("courses file %s: missing item id column", path)
	}
	if _, ok := header["title"]; !ok {
		return nil, fmt.Errorf("courses file %s: missing title column", path)
	}

	courses := make([]recommend.Course, 0, len(rows))
	for _, row := range rows {
		c := recommend.Course{
			ID:          field(row, header, "item_id"),
			Title:       field(row, header, "title"),
			Description: field(row, header, "description"),
			Category:    field(row, header, "category"),
			Difficulty:  field(row, header, "difficulty"),
			Source:      field(row, header, "source"),
			URL:         field(row, header, "url"),
		}
		if c.ID == "" || c.Title == "" {
			continue
		}
		if v, err := strconv.ParseFloat(field(row, header, "rating"), 64); err == nil {
			c.Rating = v
		}
		if v, err := strconv.Atoi(field(row, header, "num_ratings")); err == nil {
			c.NumRatings = v
		}
		courses = append(courses, c)
	}

	l.log.Info().Str("path", path).Int("courses", len(courses)).Msg("catalog loaded")
	return courses, nil
}

// LoadRatings reads a ratings CSV with user ID, item ID and rating columns.
// Rows with unparseable ratings are skipped, not fatal.
func (l *Loader) LoadRatings(path string) ([]recommend.Rating, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"user_id", "item_id", "rating"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("ratings file %s: missing %s column", path, col)
		}
	}

	ratings := make([]recommend.Rating, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		v, err := strconv.ParseFloat(field(row, header, "rating"), 64)
		if err != nil {
			skipped++
			continue
		}
		r := recommend.Rating{
			UserID:   field(row, header, "user_id"),
			CourseID: field(row, header, "item_id"),
			Value:    v,
		}
		if r.UserID == "" || r.CourseID == "" {
			skipped++
			continue
		}
		ratings = append(ratings, r)
	}

	l.log.Info().
		Str("path", path).
		Int("ratings", len(ratings)).
		Int("skipped", skipped).
		Msg("ratings loaded")
	return ratings, nil
}

// readCSV reads all records and returns the canonicalized header index.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	header := make(map[string]int, len(headerRow))
	for i, raw := range headerRow {
		key := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := header[canonical]; !dup {
				header[canonical] = i
			}
		}
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func field(row []string, header map[string]int, col string) string {
	idx, ok := header[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
