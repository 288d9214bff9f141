package resolver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizerFitBuildsUnigramsAndBigrams(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"saat kaç", "saat kaç oldu"})

	assert.Contains(t, v.Vocab, "saat")
	assert.Contains(t, v.Vocab, "kaç")
	assert.Contains(t, v.Vocab, "saat kaç")
	assert.Contains(t, v.Vocab, "kaç oldu")
	assert.Equal(t, len(v.Vocab), v.Dims())
}

func TestVectorizerVocabularyCap(t *testing.T) {
	v := NewVectorizer(3)
	v.Fit([]string{"bir iki üç dört beş", "bir iki üç", "bir iki"})

	require.Equal(t, 3, v.Dims())
	// The most frequent terms survive the cap.
	assert.Contains(t, v.Vocab, "bir")
	assert.Contains(t, v.Vocab, "iki")
}

func TestVectorizerTransformL2Normalized(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"saat kaç", "bugün ne günü", "merhaba nasılsın"})

	vec := v.Transform("saat kaç")
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestVectorizerUnknownTermsIgnored(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"saat kaç"})

	vec := v.Transform("tamamen alakasız kelimeler")
	for i, x := range vec {
		require.Zero(t, x, "feature %d should be zero", i)
	}
}

func TestVectorizerDeterministicFit(t *testing.T) {
	docs := []string{"saat kaç", "bugün ne günü", "bunu not al", "merhaba nasılsın"}
	a := NewVectorizer(0)
	a.Fit(docs)
	b := NewVectorizer(0)
	b.Fit(docs)

	require.Equal(t, a.Vocab, b.Vocab)
	require.Equal(t, a.IDF, b.IDF)
}
