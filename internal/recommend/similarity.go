// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"math"
	"runtime"
	"sync"
)

// Cosine returns the cosine similarity between two sparse vectors. If either
// vector is zero the similarity is 0, not NaN.
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// cosineDense computes cosine similarity between two dense rows of equal
// length, returning 0 when either row has zero norm.
func cosineDense(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// SimilarityMatrix holds pairwise cosine similarities for n rows. The matrix
// is symmetric with unit diagonal for nonzero rows.
type SimilarityMatrix struct {
	N    int
	Data []float64
}

// At returns the similarity between rows i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.Data[i*m.N+j]
}

func (m *SimilarityMatrix) set(i, j int, v float64) {
	m.Data[i*m.N+j] = v
	m.Data[j*m.N+i] = v
}

// SelfSimilarity computes the pairwise cosine similarity matrix for the
// given sparse rows, chunking the upper triangle across workers.
func SelfSimilarity(rows []SparseVector, workers int) *SimilarityMatrix {
	n := len(rows)
	m := &SimilarityMatrix{N: n, Data: make([]float64, n*n)}
	if n == 0 {
		return m
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if rows[i].Norm() > 0 {
					m.Data[i*n+i] = 1
				}
				for j := i + 1; j < n; j++ {
					s := Cosine(rows[i], rows[j])
					// Rows from disjoint chunks only ever write
					// cells owned by i or j, never the same cell.
					m.Data[i*n+j] = s
					m.Data[j*n+i] = s
				}
			}
		}(start, end)
	}
	wg.Wait()
	return m
}

// selfSimilarityDense computes the pairwise cosine matrix for dense rows,
// used for item feature columns after standardization.
func selfSimilarityDense(rows [][]float64, workers int) *SimilarityMatrix {
	n := len(rows)
	m := &SimilarityMatrix{N: n, Data: make([]float64, n*n)}
	if n == 0 {
		return m
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				m.Data[i*n+i] = cosineDense(rows[i], rows[i])
				for j := i + 1; j < n; j++ {
					s := cosineDense(rows[i], rows[j])
					m.Data[i*n+j] = s
					m.Data[j*n+i] = s
				}
			}
		}(start, end)
	}
	wg.Wait()
	return m
}

// standardize z-scores each column of the matrix in place. Columns with zero
// standard deviation collapse to zero rather than dividing by zero.
func standardize(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	cols := len(rows[0])
	n := float64(len(rows))
	for c := 0; c < cols; c++ {
		var sum float64
		for _, row := range rows {
			sum += row[c]
		}
		mean := sum / n

		var variance float64
		for _, row := range rows {
			d := row[c] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)

		for _, row := range rows {
			if std == 0 {
				row[c] = 0
			} else {
				row[c] = (row[c] - mean) / std
			}
		}
	}
}
