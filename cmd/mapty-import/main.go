package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/importer"
	"github.com/claude/mapty/internal/storage"
)

// mapty-import merges a browser storage dump into the configured slot.
// The server keeps its own copy of the workouts and rewrites the slot on
// every change, so stop it before importing.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dumpPath := flag.String("path", "", "path to a browser storage dump, optionally .gz (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to storage")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dumpPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-import -config config.yaml -path workouts.json [-dry-run]\n\n")
		fmt.Fprintf(os.Stderr, "Stop the mapty server first: its next save overwrites imported workouts.\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := importer.ReadDump(*dumpPath)
	if err != nil {
		log.Error("failed to read dump", "error", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written to storage")
	}

	slot, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer slot.Close()
	log.Info("storage ready", "driver", cfg.Storage.Driver)

	// Run import
	imp := importer.New(storage.NewAdapter(slot, cfg.Storage.Key, log), cfg.Storage.Key, log, *dryRun)
	stats, err := imp.Import(ctx, data)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"records_read", stats.RecordsRead,
		"existing", stats.Existing,
		"imported", stats.Imported,
		"duplicated", stats.Duplicated,
		"rejected", stats.Rejected,
	)
}
