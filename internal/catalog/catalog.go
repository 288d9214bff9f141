// Package catalog loads the static intent catalog consumed by both the
// resolver and the dispatcher. The catalog is immutable after construction.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"asistan/internal/domain"
	"asistan/internal/textnorm"
)

// TrainingExample is one flattened (normalized pattern, tag) pair. It exists
// only while training.
type TrainingExample struct {
	Text string
	Tag  string
}

type Catalog struct {
	intents []domain.IntentDefinition
}

type fileDoc struct {
	Intents []domain.IntentDefinition `json:"intents"`
}

// Load reads the catalog JSON from path. A missing or malformed file is not
// fatal: the resolver still functions, the rule matcher just always answers
// unknown. A duplicate tag inside a well-formed catalog is a hard error.
func Load(fsys afero.Fs, path string, logger *slog.Logger) (*Catalog, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		logger.Warn("catalog file unavailable, starting with empty catalog", "path", path, "error", err)
		return &Catalog{}, nil
	}

	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("catalog file malformed, starting with empty catalog", "path", path, "error", err)
		return &Catalog{}, nil
	}

	seen := make(map[string]struct{}, len(doc.Intents))
	for _, intent := range doc.Intents {
		if intent.Tag == "" {
			return nil, fmt.Errorf("catalog entry with empty tag")
		}
		if _, dup := seen[intent.Tag]; dup {
			return nil, fmt.Errorf("duplicate intent tag: %s", intent.Tag)
		}
		seen[intent.Tag] = struct{}{}
	}

	logger.Info("intent catalog loaded", "path", path, "intents", len(doc.Intents))
	return &Catalog{intents: doc.Intents}, nil
}

// New builds a catalog directly from definitions, mainly for tests.
func New(intents []domain.IntentDefinition) *Catalog {
	return &Catalog{intents: intents}
}

// Intents returns the definitions in catalog order. Callers must not mutate.
func (c *Catalog) Intents() []domain.IntentDefinition {
	return c.intents
}

func (c *Catalog) Len() int {
	return len(c.intents)
}

func (c *Catalog) Empty() bool {
	return len(c.intents) == 0
}

// Examples flattens every pattern of every intent into normalized training
// examples, preserving catalog order.
func (c *Catalog) Examples() []TrainingExample {
	var out []TrainingExample
	for _, intent := range c.intents {
		for _, pattern := range intent.Patterns {
			out = append(out, TrainingExample{
				Text: textnorm.Normalize(pattern),
				Tag:  intent.Tag,
			})
		}
	}
	return out
}
