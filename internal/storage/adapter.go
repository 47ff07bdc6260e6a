package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
)

// Adapter serializes the whole workout collection into one slot key as a
// JSON array of records.
type Adapter struct {
	slot Slot
	key  string
	log  *slog.Logger
}

// NewAdapter creates an Adapter writing to key in slot.
func NewAdapter(slot Slot, key string, log *slog.Logger) *Adapter {
	return &Adapter{slot: slot, key: key, log: log}
}

// Save overwrites the slot with every workout in order. A failure is logged
// as a warning and returned; the in-memory collection stays authoritative.
func (a *Adapter) Save(ctx context.Context, workouts iter.Seq[*models.Workout]) error {
	records := []models.Record{}
	for w := range workouts {
		records = append(records, w.Record())
	}

	data, err := json.Marshal(records)
	if err != nil {
		observability.RecordStorageFailure("encode")
		a.log.Warn("encoding workouts failed, continuing in memory", "key", a.key, "error", err)
		return fmt.Errorf("encoding workouts: %w", err)
	}

	if err := a.slot.Set(ctx, a.key, string(data)); err != nil {
		observability.RecordStorageFailure("save")
		a.log.Warn("storage unavailable, continuing in memory", "key", a.key, "error", err)
		return fmt.Errorf("saving workouts: %w", err)
	}
	return nil
}

// Load returns the stored records in order. ok is false when the slot is
// absent, unreadable or does not hold a JSON array; those cases are
// treated as an empty collection. Individual records that do not decode
// are skipped.
func (a *Adapter) Load(ctx context.Context) (records []models.Record, ok bool) {
	records, ok, err := a.Read(ctx)
	if err != nil {
		a.log.Warn("storage unavailable, starting empty", "key", a.key, "error", err)
		return nil, false
	}
	return records, ok
}

// Read is Load for callers that must not mistake a failed read for an
// empty slot, such as a merge that rewrites the slot afterwards. err is
// set only when the slot itself could not be read.
func (a *Adapter) Read(ctx context.Context) (records []models.Record, ok bool, err error) {
	value, found, err := a.slot.Get(ctx, a.key)
	if err != nil {
		observability.RecordStorageFailure("load")
		return nil, false, fmt.Errorf("loading workouts: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		a.log.Warn("stored workouts are malformed, starting empty", "key", a.key, "error", err)
		return nil, false, nil
	}
	if raw == nil {
		return nil, false, nil
	}

	records = make([]models.Record, 0, len(raw))
	for i, msg := range raw {
		var r models.Record
		if err := json.Unmarshal(msg, &r); err != nil {
			a.log.Warn("skipping malformed workout record", "index", i, "error", err)
			continue
		}
		records = append(records, r)
	}
	return records, true, nil
}

// Clear removes the slot key.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.slot.Delete(ctx, a.key); err != nil {
		observability.RecordStorageFailure("clear")
		a.log.Warn("clearing stored workouts failed", "key", a.key, "error", err)
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}
