package resolver

import (
	"encoding/json"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

// modelFormat marks the persisted blob layout. A blob with a different
// marker is treated as absent, never partially loaded.
const modelFormat = "asistan-intent-model/v1"

type modelBlob struct {
	Format     string      `json:"format"`
	Classifier *Classifier `json:"classifier"`
}

// ModelStore persists the fitted vectorizer+classifier pair as one blob.
type ModelStore struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

func NewModelStore(fsys afero.Fs, path string, logger *slog.Logger) *ModelStore {
	return &ModelStore{fs: fsys, path: path, logger: logger}
}

func (s *ModelStore) Save(c *Classifier) error {
	raw, err := json.Marshal(modelBlob{Format: modelFormat, Classifier: c})
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0o644); err != nil {
		return err
	}
	return s.fs.Rename(tmp, s.path)
}

// Load restores a previously saved classifier. Any failure (missing file,
// corrupt JSON, wrong format marker, inconsistent shapes) reports false so
// the caller retrains instead of running a stale model.
func (s *ModelStore) Load() (*Classifier, bool) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		s.logger.Warn("model blob unavailable", "path", s.path, "error", err)
		return nil, false
	}

	var blob modelBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		s.logger.Warn("model blob corrupt", "path", s.path, "error", err)
		return nil, false
	}
	if blob.Format != modelFormat {
		s.logger.Warn("model blob has incompatible format", "path", s.path, "format", blob.Format)
		return nil, false
	}

	c := blob.Classifier
	if c == nil || !c.Fitted() || len(c.Bias) != len(c.Classes) {
		s.logger.Warn("model blob inconsistent, ignoring", "path", s.path)
		return nil, false
	}
	for _, row := range c.Weights {
		if len(row) != c.Vectorizer.Dims() {
			s.logger.Warn("model blob dimension mismatch, ignoring", "path", s.path)
			return nil, false
		}
	}
	return c, true
}
