// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import "strings"

// EncodeProfile turns a student profile into the query text fed to the
// vectorizer. The major name is always included alongside its keyword
// expansion so exact category matches still score even when the lexicon
// misses. Year and GPA do not contribute to the text; they only drive
// difficulty filtering downstream.
func EncodeProfile(p StudentProfile) string {
	keywords, ok := majorKeywords[p.Major]
	if !ok {
		keywords = strings.ToLower(p.Major)
	}
	return strings.ToLower(p.Major + " " + keywords + " " + p.Interests)
}
