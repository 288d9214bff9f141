package resolver

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestModelStoreRoundTrip(t *testing.T) {
	c := NewClassifier(0)
	_, err := c.Train(fixtureCatalog())
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	store := NewModelStore(fs, "models/intent.json", testLogger())
	require.NoError(t, store.Save(c))

	loaded, ok := store.Load()
	require.True(t, ok)

	// A reloaded model must predict identically on a fixed input set.
	inputs := []string{"saat kaç oldu", "merhaba", "bunu not al", "bugün ne günü", "alakasız bir cümle"}
	for _, in := range inputs {
		wantTag, wantConf := c.Predict(in)
		gotTag, gotConf := loaded.Predict(in)
		assert.Equal(t, wantTag, gotTag, "input %q", in)
		assert.Equal(t, wantConf, gotConf, "input %q", in)
	}
}

func TestModelStoreLoadMissingFile(t *testing.T) {
	store := NewModelStore(afero.NewMemMapFs(), "models/intent.json", testLogger())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestModelStoreLoadCorruptBlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "models/intent.json", []byte("{broken"), 0o644))

	store := NewModelStore(fs, "models/intent.json", testLogger())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestModelStoreLoadIncompatibleFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	blob := `{"format":"something-else/v9","classifier":null}`
	require.NoError(t, afero.WriteFile(fs, "models/intent.json", []byte(blob), 0o644))

	store := NewModelStore(fs, "models/intent.json", testLogger())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestModelStoreLoadInconsistentShapes(t *testing.T) {
	fs := afero.NewMemMapFs()
	blob := `{"format":"asistan-intent-model/v1","classifier":{
		"vectorizer":{"max_features":500,"vocab":{"saat":0},"idf":[1.0]},
		"classes":["time","date"],
		"weights":[[0.1],[0.2,0.3]],
		"bias":[0.0,0.0]}}`
	require.NoError(t, afero.WriteFile(fs, "models/intent.json", []byte(blob), 0o644))

	store := NewModelStore(fs, "models/intent.json", testLogger())
	_, ok := store.Load()
	assert.False(t, ok)
}
