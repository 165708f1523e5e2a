// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

// Model is the immutable result of one Fit: the fitted vector space, the
// vectorized catalog, and the hybrid scorer. A model is never mutated after
// construction, so readers need no locking.
type Model struct {
	Config Config

	// Vectorizer is the fitted text vector space.
	Vectorizer *Vectorizer

	// Courses is the catalog, in ingest order.
	Courses []Course

	// CourseVectors holds one TF-IDF vector per catalog course, aligned
	// with Courses.
	CourseVectors []SparseVector

	// Scorer is the fitted hybrid collaborative scorer, nil when the fit
	// had no ratings.
	Scorer *HybridScorer

	// Items holds per-course aggregates, aligned with the feature layer
	// output rather than with Courses.
	Items []ItemFeatures

	Stats FitStats

	courseByID map[string]Course
}

// buildIndex populates the catalog lookup. Called after Fit and after a
// snapshot load.
func (m *Model) buildIndex() {
	m.courseByID = make(map[string]Course, len(m.Courses))
	for _, c := range m.Courses {
		m.courseByID[c.ID] = c
	}
}

// CourseByID looks up a catalog course.
func (m *Model) CourseByID(id string) (Course, bool) {
	c, ok := m.courseByID[id]
	return c, ok
}
