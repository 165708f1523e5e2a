// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"math"
	"sort"
)

// ScoredItem is a single ranked prediction from the hybrid scorer.
type ScoredItem struct {
	CourseID        string  `json:"item_id"`
	PredictedRating float64 `json:"predicted_rating"`
	Confidence      float64 `json:"confidence"`
}

// HybridScorer blends user-user collaborative filtering with item-feature
// content similarity over an interaction matrix. Build it once with
// FitHybridScorer; it is read-only afterwards and safe for concurrent use.
type HybridScorer struct {
	// UserIDs and ItemIDs give dense index -> external ID, in first-seen
	// order over the ratings slice. Exported for snapshotting.
	UserIDs []string
	ItemIDs []string

	// Ratings is the dense user-item matrix, row-major, 0 meaning unrated.
	Ratings []float64

	// UserSim and ItemSim are the fitted similarity structures.
	UserSim *SimilarityMatrix
	ItemSim *SimilarityMatrix

	// TopKUsers and Alpha freeze the scoring parameters used at fit time.
	TopKUsers int
	Alpha     float64

	userIndex map[string]int
	itemIndex map[string]int
}

// FitHybridScorer builds the interaction matrix and both similarity
// structures from observed ratings and per-item features. Items present in
// features but never rated get no interaction column; they are reachable only
// through the popularity path.
func FitHybridScorer(ratings []Rating, items []ItemFeatures, topKUsers int, alpha float64, workers int) *HybridScorer {
	s := &HybridScorer{
		userIndex: make(map[string]int),
		itemIndex: make(map[string]int),
		TopKUsers: topKUsers,
		Alpha:     alpha,
	}
	if s.TopKUsers <= 0 {
		s.TopKUsers = 50
	}

	for _, r := range ratings {
		if _, ok := s.userIndex[r.UserID]; !ok {
			s.userIndex[r.UserID] = len(s.UserIDs)
			s.UserIDs = append(s.UserIDs, r.UserID)
		}
		if _, ok := s.itemIndex[r.CourseID]; !ok {
			s.itemIndex[r.CourseID] = len(s.ItemIDs)
			s.ItemIDs = append(s.ItemIDs, r.CourseID)
		}
	}

	nu, ni := len(s.UserIDs), len(s.ItemIDs)
	s.Ratings = make([]float64, nu*ni)
	for _, r := range ratings {
		s.Ratings[s.userIndex[r.UserID]*ni+s.itemIndex[r.CourseID]] = r.Value
	}

	// User-user similarity over interaction rows
	userRows := make([]SparseVector, nu)
	for u := 0; u < nu; u++ {
		row := make(SparseVector)
		for i := 0; i < ni; i++ {
			if v := s.Ratings[u*ni+i]; v > 0 {
				row[i] = v
			}
		}
		userRows[u] = row
	}
	s.UserSim = SelfSimilarity(userRows, workers)

	// Item-item similarity over standardized feature columns. Only items
	// that appear in the interaction matrix participate; the scorer never
	// ranks unrated items.
	featByID := make(map[string]ItemFeatures, len(items))
	for _, f := range items {
		featByID[f.CourseID] = f
	}
	itemRows := make([][]float64, ni)
	for i, id := range s.ItemIDs {
		f := featByID[id]
		itemRows[i] = []float64{f.AvgRating, f.RatingStd, float64(f.NumRatings), f.PopularityScore, f.CombinedRating}
	}
	standardize(itemRows)
	s.ItemSim = selfSimilarityDense(itemRows, workers)

	return s
}

// HasUser reports whether the user appears in the interaction matrix.
func (s *HybridScorer) HasUser(userID string) bool {
	_, ok := s.userIndex[userID]
	return ok
}

// RebuildIndexes restores the internal lookup maps after a snapshot load.
func (s *HybridScorer) RebuildIndexes() {
	s.userIndex = make(map[string]int, len(s.UserIDs))
	for i, id := range s.UserIDs {
		s.userIndex[id] = i
	}
	s.itemIndex = make(map[string]int, len(s.ItemIDs))
	for i, id := range s.ItemIDs {
		s.itemIndex[id] = i
	}
}

// Predict ranks unrated items for a known user by the blended score
// alpha*CF + (1-alpha)*CB using the fitted alpha. Already-rated items never
// appear. The second return is false when the user is unknown, signalling the
// caller to fall back to popularity.
func (s *HybridScorer) Predict(userID string, topN int) ([]ScoredItem, bool) {
	return s.PredictBlend(userID, topN, s.Alpha)
}

// PredictBlend is Predict with a caller-supplied blend weight, allowing a
// per-query alpha without refitting.
func (s *HybridScorer) PredictBlend(userID string, topN int, alpha float64) ([]ScoredItem, bool) {
	uidx, ok := s.userIndex[userID]
	if !ok {
		return nil, false
	}

	ni := len(s.ItemIDs)
	rated := make([]int, 0, 8)
	for i := 0; i < ni; i++ {
		if s.Ratings[uidx*ni+i] > 0 {
			rated = append(rated, i)
		}
	}

	cf := s.collaborativeScores(uidx, rated)
	cb := s.contentScores(rated)

	final := make([]float64, ni)
	for i := 0; i < ni; i++ {
		final[i] = alpha*cf[i] + (1-alpha)*cb[i]
	}
	for _, i := range rated {
		final[i] = math.Inf(-1)
	}

	order := make([]int, ni)
	for i := range order {
		order[i] = i
	}
	// Score descending, item ID ascending on ties for stable output
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if final[ia] != final[ib] {
			return final[ia] > final[ib]
		}
		return s.ItemIDs[ia] < s.ItemIDs[ib]
	})

	if topN > ni {
		topN = ni
	}
	out := make([]ScoredItem, 0, topN)
	for _, i := range order[:topN] {
		if math.IsInf(final[i], -1) {
			break
		}
		// The content term averages cosines over z-scored features and
		// can go negative; emitted scores stay on the rating scale.
		score := math.Max(0, math.Min(final[i], 5.0))
		out = append(out, ScoredItem{
			CourseID:        s.ItemIDs[i],
			PredictedRating: score,
			Confidence:      math.Min(score/5.0, 1.0),
		})
	}
	return out, true
}

// collaborativeScores computes similarity-weighted average ratings from the
// user's nearest neighbours. Neighbours with non-positive similarity
// contribute nothing, and the normalizer counts only neighbours that
// contributed.
func (s *HybridScorer) collaborativeScores(uidx int, rated []int) []float64 {
	ni := len(s.ItemIDs)
	scores := make([]float64, ni)
	if len(rated) == 0 {
		return scores
	}

	nu := len(s.UserIDs)
	neighbours := make([]int, 0, nu-1)
	for u := 0; u < nu; u++ {
		if u != uidx {
			neighbours = append(neighbours, u)
		}
	}
	sort.Slice(neighbours, func(a, b int) bool {
		sa := s.UserSim.At(uidx, neighbours[a])
		sb := s.UserSim.At(uidx, neighbours[b])
		if sa != sb {
			return sa > sb
		}
		return neighbours[a] < neighbours[b]
	})
	if len(neighbours) > s.TopKUsers {
		neighbours = neighbours[:s.TopKUsers]
	}

	var simSum float64
	for _, nb := range neighbours {
		sim := s.UserSim.At(uidx, nb)
		if sim <= 0 {
			continue
		}
		for i := 0; i < ni; i++ {
			scores[i] += sim * s.Ratings[nb*ni+i]
		}
		simSum += sim
	}
	if simSum > 0 {
		for i := range scores {
			scores[i] /= simSum
		}
	}
	return scores
}

// contentScores averages item-item similarity against the user's rated items.
func (s *HybridScorer) contentScores(rated []int) []float64 {
	ni := len(s.ItemIDs)
	scores := make([]float64, ni)
	if len(rated) == 0 {
		return scores
	}
	for _, r := range rated {
		for i := 0; i < ni; i++ {
			scores[i] += s.ItemSim.At(r, i)
		}
	}
	inv := 1 / float64(len(rated))
	for i := range scores {
		scores[i] *= inv
	}
	return scores
}
