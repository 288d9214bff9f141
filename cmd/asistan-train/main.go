// Command asistan-train trains the intent classifier from a command catalog
// and writes the model blob the server loads at startup.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"asistan/internal/catalog"
	"asistan/internal/resolver"
)

func main() {
	catalogPath := flag.String("catalog", "data/commands.json", "command catalog path")
	modelPath := flag.String("model", "data/model.json", "output model path")
	maxFeatures := flag.Int("max-features", 500, "vocabulary size cap")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fsys := afero.NewOsFs()

	cat, err := catalog.Load(fsys, *catalogPath, logger)
	if err != nil {
		logger.Error("load catalog failed", "path", *catalogPath, "error", err)
		os.Exit(1)
	}
	if cat.Empty() {
		logger.Error("catalog is empty, nothing to train", "path", *catalogPath)
		os.Exit(1)
	}

	fmt.Printf("catalog: %d intents\n", cat.Len())
	for _, intent := range cat.Intents() {
		fmt.Printf("  %-16s %d examples\n", intent.Tag, len(intent.Patterns))
	}

	clf := resolver.NewClassifier(*maxFeatures)
	accuracy, err := clf.Train(cat)
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}

	if err := resolver.NewModelStore(fsys, *modelPath, logger).Save(clf); err != nil {
		logger.Error("save model failed", "path", *modelPath, "error", err)
		os.Exit(1)
	}

	fmt.Printf("accuracy: %.4f\n", accuracy)
	fmt.Printf("model written to %s\n", *modelPath)
}
