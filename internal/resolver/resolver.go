// Package resolver turns normalized utterances into intents. Resolution runs
// an ordered list of strategies, first success wins: the statistical
// classifier when a trained model is loaded and confident enough, otherwise
// the rule-based matcher, which always answers.
package resolver

import (
	"log/slog"
	"sync"

	"asistan/internal/catalog"
	"asistan/internal/domain"
)

// DefaultThreshold is the minimum classifier probability for the statistical
// path to keep its own answer. The boundary is inclusive: a confidence equal
// to the threshold is accepted.
const DefaultThreshold = 0.3

// Strategy is one resolution attempt. ok=false hands over to the next
// strategy in the chain.
type Strategy interface {
	Name() string
	Resolve(text string) (domain.Resolution, bool)
}

type Resolver struct {
	catalog    *catalog.Catalog
	modelStore *ModelStore
	threshold  float64
	logger     *slog.Logger

	mu         sync.RWMutex
	classifier *Classifier
	strategies []Strategy

	maxFeatures int
}

type Option func(*Resolver)

// WithThreshold overrides the statistical confidence threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Resolver) { r.threshold = threshold }
}

// WithMaxFeatures caps the TF-IDF vocabulary used when training.
func WithMaxFeatures(maxFeatures int) Option {
	return func(r *Resolver) { r.maxFeatures = maxFeatures }
}

func New(cat *catalog.Catalog, modelStore *ModelStore, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:     cat,
		modelStore:  modelStore,
		threshold:   DefaultThreshold,
		logger:      logger,
		maxFeatures: defaultMaxFeatures,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.strategies = []Strategy{
		&statisticalStrategy{resolver: r},
		&ruleStrategy{matcher: NewRuleMatcher(cat)},
	}
	return r
}

// Strategies exposes the resolution chain in order, so the fallback path can
// be exercised in isolation.
func (r *Resolver) Strategies() []Strategy {
	return r.strategies
}

// Resolve never mutates state and always produces a result; the rule strategy
// at the end of the chain cannot fail.
func (r *Resolver) Resolve(text string) domain.Resolution {
	for _, s := range r.strategies {
		if res, ok := s.Resolve(text); ok {
			return res
		}
	}
	return domain.Resolution{Intent: domain.IntentUnknown, Confidence: 0, Path: domain.PathRules}
}

// EnsureModel loads the persisted model, or trains and saves a fresh one when
// loading fails.
func (r *Resolver) EnsureModel() error {
	if c, ok := r.modelStore.Load(); ok {
		r.mu.Lock()
		r.classifier = c
		r.mu.Unlock()
		r.logger.Info("intent model loaded", "classes", len(c.Classes), "features", c.Vectorizer.Dims())
		return nil
	}

	r.logger.Info("intent model unavailable, training from catalog")
	_, err := r.Train()
	return err
}

// Train fits a new classifier from the catalog, swaps it in, and persists it.
// A persistence failure keeps the freshly trained in-memory model.
func (r *Resolver) Train() (float64, error) {
	c := NewClassifier(r.maxFeatures)
	accuracy, err := c.Train(r.catalog)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.classifier = c
	r.mu.Unlock()

	if err := r.modelStore.Save(c); err != nil {
		r.logger.Warn("model save failed, keeping in-memory model", "error", err)
	} else {
		r.logger.Info("intent model trained and saved", "accuracy", accuracy, "classes", len(c.Classes))
	}
	return accuracy, nil
}

func (r *Resolver) loadedClassifier() *Classifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classifier
}

type statisticalStrategy struct {
	resolver *Resolver
}

func (s *statisticalStrategy) Name() string { return string(domain.PathStatistical) }

func (s *statisticalStrategy) Resolve(text string) (domain.Resolution, bool) {
	c := s.resolver.loadedClassifier()
	if c == nil || !c.Fitted() {
		return domain.Resolution{}, false
	}
	tag, confidence := c.Predict(text)
	if confidence < s.resolver.threshold {
		return domain.Resolution{}, false
	}
	intent, known := domain.ParseIntent(tag)
	if !known {
		// A trained class outside the closed intent set means the model
		// and catalog drifted apart; treat as unresolved.
		return domain.Resolution{}, false
	}
	return domain.Resolution{Intent: intent, Confidence: confidence, Path: domain.PathStatistical}, true
}

type ruleStrategy struct {
	matcher *RuleMatcher
}

func (s *ruleStrategy) Name() string { return string(domain.PathRules) }

func (s *ruleStrategy) Resolve(text string) (domain.Resolution, bool) {
	intent, score := s.matcher.Match(text)
	return domain.Resolution{Intent: intent, Confidence: score, Path: domain.PathRules}, true
}
