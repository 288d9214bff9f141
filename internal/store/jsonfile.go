// Package store holds the file-backed note and reminder collections. Each
// collection is one JSON array file, rewritten in full on every mutation via
// write-to-temp-then-rename so a crash mid-write cannot corrupt the store.
package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"
)

func readJSONFile(fsys afero.Fs, path string, v any) error {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func writeJSONFile(fsys afero.Fs, path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, raw, 0o644); err != nil {
		return err
	}
	return fsys.Rename(tmp, path)
}
