// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// VectorizerConfig contains configuration for the TF-IDF vector space.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary size. Terms are ranked by document
	// frequency; ties break lexicographically for determinism.
	MaxFeatures int `json:"max_features"`

	// NGramMin and NGramMax bound the contiguous token span lengths
	// admitted into the vocabulary.
	NGramMin int `json:"ngram_min"`
	NGramMax int `json:"ngram_max"`

	// MinDocFreq excludes terms appearing in fewer documents than this.
	MinDocFreq int `json:"min_doc_freq"`
}

// DefaultVectorizerConfig returns the defaults used for the course corpus.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 2000,
		NGramMin:    1,
		NGramMax:    3,
		MinDocFreq:  2,
	}
}

// SparseVector is a term-weight vector over a fixed vocabulary, keyed by
// dimension index. Absent dimensions are zero.
type SparseVector map[int]float64

// Norm returns the L2 norm of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product with another sparse vector.
func (v SparseVector) Dot(other SparseVector) float64 {
	// Iterate the smaller map
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for i, w := range a {
		if ow, ok := b[i]; ok {
			dot += w * ow
		}
	}
	return dot
}

// Vectorizer builds a fixed vocabulary and inverse-document-frequency table
// from a corpus, then transforms arbitrary text into L2-normalized TF-IDF
// vectors over that vocabulary. The vocabulary is frozen after Fit.
type Vectorizer struct {
	Config VectorizerConfig

	// Vocab maps term -> dimension index. Exported for snapshotting.
	Vocab map[string]int

	// IDF holds the inverse-document-frequency weight per dimension.
	IDF []float64
}

// NewVectorizer creates an unfit vectorizer with the given configuration.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = 2000
	}
	if cfg.NGramMin <= 0 {
		cfg.NGramMin = 1
	}
	if cfg.NGramMax < cfg.NGramMin {
		cfg.NGramMax = cfg.NGramMin
	}
	if cfg.MinDocFreq <= 0 {
		cfg.MinDocFreq = 1
	}
	return &Vectorizer{Config: cfg}
}

// IsFitted reports whether Fit has completed. Fitness is carried entirely by
// the vocabulary so a snapshot round trip preserves it.
func (v *Vectorizer) IsFitted() bool {
	return v.Vocab != nil
}

// Dims returns the fixed vocabulary dimension count.
func (v *Vectorizer) Dims() int {
	return len(v.Vocab)
}

// Fit builds the vocabulary and IDF table from the corpus. The corpus must
// contain at least one document with at least one admissible term.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	// Document frequency per term
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range extractTerms(doc, v.Config.NGramMin, v.Config.NGramMax) {
			if _, ok := seen[term]; !ok {
				df[term]++
				seen[term] = struct{}{}
			}
		}
	}

	// Admit terms meeting the document-frequency floor
	type termDF struct {
		term string
		df   int
	}
	admitted := make([]termDF, 0, len(df))
	for term, n := range df {
		if n >= v.Config.MinDocFreq {
			admitted = append(admitted, termDF{term, n})
		}
	}
	if len(admitted) == 0 {
		return ErrEmptyCorpus
	}

	// Rank by document frequency descending, then lexicographically so the
	// vocabulary is deterministic across runs.
	sort.Slice(admitted, func(i, j int) bool {
		if admitted[i].df != admitted[j].df {
			return admitted[i].df > admitted[j].df
		}
		return admitted[i].term < admitted[j].term
	})
	if len(admitted) > v.Config.MaxFeatures {
		admitted = admitted[:v.Config.MaxFeatures]
	}

	v.Vocab = make(map[string]int, len(admitted))
	v.IDF = make([]float64, len(admitted))
	n := float64(len(corpus))
	for i, t := range admitted {
		v.Vocab[t.term] = i
		// Smoothed IDF keeps weights finite even when a term appears in
		// every document.
		v.IDF[i] = math.Log((1+n)/(1+float64(t.df))) + 1
	}

	return nil
}

// Transform converts text into an L2-normalized TF-IDF vector over the fixed
// vocabulary. Out-of-vocabulary terms are ignored; text sharing no vocabulary
// terms with the corpus yields the zero vector, which is a defined degenerate
// case (cosine 0 against everything), not an error.
func (v *Vectorizer) Transform(text string) (SparseVector, error) {
	if !v.IsFitted() {
		return nil, ErrNotFitted
	}

	vec := make(SparseVector)
	for _, term := range extractTerms(text, v.Config.NGramMin, v.Config.NGramMax) {
		if idx, ok := v.Vocab[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}

	if norm := vec.Norm(); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// TransformAll vectorizes a batch of documents.
func (v *Vectorizer) TransformAll(texts []string) ([]SparseVector, error) {
	if !v.IsFitted() {
		return nil, ErrNotFitted
	}
	vecs := make([]SparseVector, len(texts))
	for i, text := range texts {
		vec, err := v.Transform(text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// extractTerms tokenizes text and emits all n-grams of the configured span
// lengths, with stop words removed before n-gram construction.
func extractTerms(text string, nMin, nMax int) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var terms []string
	for n := nMin; n <= nMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// tokenize lowercases text, splits on non-alphanumeric runes, and drops
// single-character tokens and stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// stopWords is the fixed English stop-word set excluded from the vocabulary.
var stopWords = func() map[string]struct{} {
	words := []string{
		"about", "above", "after", "again", "against", "all", "also", "am",
		"an", "and", "any", "are", "aren", "as", "at", "be", "because",
		"been", "before", "being", "below", "between", "both", "but", "by",
		"can", "cannot", "could", "did", "do", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "he", "her", "here", "hers", "herself", "him",
		"himself", "his", "how", "if", "in", "into", "is", "it", "its",
		"itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other",
		"our", "ours", "ourselves", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "themselves", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which",
		"while", "who", "whom", "why", "will", "with", "would", "you",
		"your", "yours", "yourself", "yourselves",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
