// Package importer merges workouts exported from a browser into the
// configured storage slot.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/storage"
)

// ErrNoWorkouts is returned when a dump holds no workouts value.
var ErrNoWorkouts = errors.New("dump has no workouts")

// Stats tracks import progress.
type Stats struct {
	RecordsRead int
	Existing    int
	Imported    int
	Duplicated  int
	Rejected    int
}

// Importer reads browser storage dumps and merges them into a slot.
type Importer struct {
	adapter *storage.Adapter
	key     string
	log     *slog.Logger
	dryRun  bool
	stats   Stats
}

// New creates a new Importer. key is the storage key the browser used,
// normally "workouts".
func New(adapter *storage.Adapter, key string, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{adapter: adapter, key: key, log: log, dryRun: dryRun}
}

// ParseDump extracts the raw workout records from a dump. Two shapes are
// accepted: the stored value itself (a JSON array), or a whole storage
// object whose key entry holds that array, either inline or as the JSON
// text the browser keeps.
func ParseDump(data []byte, key string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var whole map[string]json.RawMessage
	if err := json.Unmarshal(data, &whole); err != nil {
		return nil, fmt.Errorf("parsing dump: %w", err)
	}
	value, ok := whole[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNoWorkouts, key)
	}

	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		value = json.RawMessage(text)
	}
	if err := json.Unmarshal(value, &records); err != nil {
		return nil, fmt.Errorf("parsing %q value: %w", key, err)
	}
	return records, nil
}

// Import merges the workouts in data after the ones already stored.
// Records that are not valid workouts are rejected; ids already present
// are skipped. Nothing is written in dry-run mode, and nothing is written
// when the stored workouts cannot be read.
func (imp *Importer) Import(ctx context.Context, data []byte) (*Stats, error) {
	raw, err := ParseDump(data, imp.key)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.RecordsRead = len(raw)

	existing, _, err := imp.adapter.Read(ctx)
	if err != nil {
		return &imp.stats, err
	}
	merged := models.FromRecords(existing, func(r models.Record, err error) {
		imp.log.Warn("dropping invalid stored workout", "id", r.ID, "error", err)
	})
	imp.stats.Existing = len(merged)

	seen := make(map[string]bool, len(merged))
	for _, w := range merged {
		seen[w.ID] = true
	}

	for i, msg := range raw {
		var r models.Record
		if err := json.Unmarshal(msg, &r); err != nil {
			imp.stats.Rejected++
			imp.log.Warn("rejecting malformed record", "index", i, "error", err)
			continue
		}
		w, err := models.FromRecord(r)
		if err != nil {
			imp.stats.Rejected++
			imp.log.Warn("rejecting invalid workout", "index", i, "id", r.ID, "error", err)
			continue
		}
		if seen[w.ID] {
			imp.stats.Duplicated++
			continue
		}
		seen[w.ID] = true
		merged = append(merged, w)
		imp.stats.Imported++
	}

	if imp.dryRun {
		return &imp.stats, nil
	}
	if err := imp.adapter.Save(ctx, slices.Values(merged)); err != nil {
		return &imp.stats, err
	}
	return &imp.stats, nil
}
