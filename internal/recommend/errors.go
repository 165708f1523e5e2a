// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when a prediction or transform is attempted on an
// unfit model. It maps to a 5xx at the API boundary and never silently
// degrades to an empty result.
var ErrNotFitted = errors.New("model not fitted")

// ErrEmptyCorpus is returned when Fit is given no usable training data.
// An empty-but-"successful" model is never produced.
var ErrEmptyCorpus = errors.New("empty training corpus")

// ValidationError reports a missing or malformed request field. It maps to a
// 4xx at the API boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IncompatibleModelError reports a persisted snapshot whose shape does not
// match what the current build expects. Loading must not proceed with a
// partially populated model.
type IncompatibleModelError struct {
	Field    string
	Expected int
	Got      int
}

func (e *IncompatibleModelError) Error() string {
	return fmt.Sprintf("incompatible model snapshot: %s expected %d, got %d", e.Field, e.Expected, e.Got)
}

// An unknown user or item ID is not an error anywhere in this package;
// lookups for unseen IDs degrade to the popularity fallback.
