package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"

	"asistan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadValidCatalog(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{"intents":[
		{"tag":"time","patterns":["saat kaç","Saat KAÇ oldu"],"responses":[]},
		{"tag":"greeting","patterns":["merhaba"],"responses":["Merhaba!"]}
	]}`
	if err := afero.WriteFile(fs, "data/commands.json", []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cat, err := Load(fs, "data/commands.json", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 intents, got %d", cat.Len())
	}

	examples := cat.Examples()
	if len(examples) != 3 {
		t.Fatalf("expected 3 training examples, got %d", len(examples))
	}
	if examples[1].Text != "saat kaç oldu" || examples[1].Tag != "time" {
		t.Fatalf("examples must be normalized, got %+v", examples[1])
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	cat, err := Load(afero.NewMemMapFs(), "data/commands.json", testLogger())
	if err != nil {
		t.Fatalf("missing file must not be fatal: %v", err)
	}
	if !cat.Empty() {
		t.Fatalf("expected empty catalog")
	}
}

func TestLoadMalformedFileYieldsEmptyCatalog(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "data/commands.json", []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cat, err := Load(fs, "data/commands.json", testLogger())
	if err != nil {
		t.Fatalf("malformed file must not be fatal: %v", err)
	}
	if !cat.Empty() {
		t.Fatalf("expected empty catalog")
	}
}

func TestLoadRejectsDuplicateTags(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{"intents":[{"tag":"time","patterns":["saat kaç"]},{"tag":"time","patterns":["kaç oldu"]}]}`
	if err := afero.WriteFile(fs, "data/commands.json", []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(fs, "data/commands.json", testLogger()); err == nil {
		t.Fatalf("expected duplicate tag error")
	}
}

func TestNewCatalogOrderPreserved(t *testing.T) {
	cat := New([]domain.IntentDefinition{
		{Tag: "a", Patterns: []string{"x"}},
		{Tag: "b", Patterns: []string{"y"}},
	})
	intents := cat.Intents()
	if intents[0].Tag != "a" || intents[1].Tag != "b" {
		t.Fatalf("catalog order must be stable, got %+v", intents)
	}
}
