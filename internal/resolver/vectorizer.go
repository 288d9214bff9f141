package resolver

import (
	"math"
	"sort"

	"asistan/internal/textnorm"
)

const defaultMaxFeatures = 500

// Vectorizer builds a bag-of-unigram-and-bigram TF-IDF representation over
// normalized pattern text. The vocabulary is capped; when more terms exist
// than the cap allows, the most frequent terms win (alphabetical on ties) so
// fitting stays deterministic.
type Vectorizer struct {
	MaxFeatures int            `json:"max_features"`
	Vocab       map[string]int `json:"vocab"`
	IDF         []float64      `json:"idf"`
}

func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// ngrams returns the unigrams and bigrams of an already-normalized document.
func ngrams(doc string) []string {
	tokens := textnorm.Tokens(doc)
	grams := make([]string, 0, 2*len(tokens))
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

// Fit learns the vocabulary and inverse document frequencies from docs.
func (v *Vectorizer) Fit(docs []string) {
	totalCount := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, g := range ngrams(doc) {
			totalCount[g]++
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				docFreq[g]++
			}
		}
	}

	terms := make([]string, 0, len(totalCount))
	for term := range totalCount {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totalCount[terms[i]] != totalCount[terms[j]] {
			return totalCount[terms[i]] > totalCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	// Index assignment is alphabetical over the selected terms.
	sort.Strings(terms)

	n := float64(len(docs))
	v.Vocab = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocab[term] = i
		// Smoothed IDF, keeps unseen-document terms finite.
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
}

// Transform vectorizes one document with the fitted vocabulary: term counts
// scaled by IDF, then L2-normalized. Unknown terms are ignored.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.IDF))
	for _, g := range ngrams(doc) {
		if idx, ok := v.Vocab[g]; ok {
			vec[idx] += v.IDF[idx]
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Dims is the fitted feature count.
func (v *Vectorizer) Dims() int {
	return len(v.IDF)
}
