package resolver

import (
	"asistan/internal/catalog"
	"asistan/internal/domain"
	"asistan/internal/textnorm"
)

// ruleMinScore is the minimum token-set Jaccard similarity for a rule match.
// Anything below resolves to unknown.
const ruleMinScore = 0.2

// RuleMatcher is the guaranteed-available fallback resolver. It depends only
// on the catalog, never on trained state, and never fails.
type RuleMatcher struct {
	catalog *catalog.Catalog
}

func NewRuleMatcher(cat *catalog.Catalog) *RuleMatcher {
	return &RuleMatcher{catalog: cat}
}

// Match scores every catalog intent against text and returns the best one.
// An intent's score is the maximum Jaccard similarity over its own patterns;
// ties across intents break toward catalog order. A best score below 0.2
// resolves to ("unknown", 0).
func (m *RuleMatcher) Match(text string) (domain.Intent, float64) {
	inputWords := textnorm.WordSet(text)

	best := domain.IntentUnknown
	bestScore := 0.0
	for _, intent := range m.catalog.Intents() {
		score := 0.0
		for _, pattern := range intent.Patterns {
			if sim := jaccard(textnorm.WordSet(pattern), inputWords); sim > score {
				score = sim
			}
		}
		// Strictly greater, so the first-seen intent wins exact ties.
		if score > bestScore {
			bestScore = score
			best = domain.Intent(intent.Tag)
		}
	}

	if bestScore < ruleMinScore {
		return domain.IntentUnknown, 0.0
	}
	return best, bestScore
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if _, ok := b[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	union := len(a) + len(b) - common
	return float64(common) / float64(union)
}
