package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/claude/mapty/internal/geo"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/present"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/view"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var home = models.Coords{Lat: 39, Lng: -12}

type harness struct {
	app   *App
	slot  *storage.MemorySlot
	clock time.Time
	seq   int
}

func newHarness(t *testing.T, slot *storage.MemorySlot, locator geo.Locator) *harness {
	t.Helper()
	h := &harness{slot: slot, clock: time.Date(2024, time.April, 14, 9, 0, 0, 0, time.Local)}
	h.app = New(Deps{
		Adapter: storage.NewAdapter(slot, "workouts", discard),
		List:    view.NewList(),
		Locator: locator,
		Zoom:    13,
		Now:     func() time.Time { return h.clock },
		NewID: func() string {
			h.seq++
			return fmt.Sprintf("id-%d", h.seq)
		},
	}, discard)
	return h
}

func atHome() geo.Locator {
	return geo.LocatorFunc(func(context.Context) (models.Coords, error) { return home, nil })
}

func denied() geo.Locator {
	return geo.LocatorFunc(func(context.Context) (models.Coords, error) { return models.Coords{}, geo.ErrPositionUnavailable })
}

func runForm() models.Form {
	return models.Form{Type: "running", Distance: "5.2", Duration: "24", Cadence: "178"}
}

func rideForm() models.Form {
	return models.Form{Type: "cycling", Distance: "27", Duration: "95", Elevation: "523"}
}

// TestCreateRunning covers scenario A end to end: derived pace, label, a
// placed marker, a list entry and a saved slot.
func TestCreateRunning(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	w, err := h.app.Create(ctx, home, runForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pace := w.Detail.(models.Running).Pace; math.Abs(pace-4.615) > 1e-3 {
		t.Errorf("pace = %v, want ~4.615", pace)
	}
	if w.Description != "Running on April 14" {
		t.Errorf("description = %q", w.Description)
	}

	mv := h.app.Map()
	if mv.State != "map_ready" || mv.Map == nil || len(mv.Map.Markers) != 1 {
		t.Fatalf("map view = %+v, want one marker on a ready map", mv)
	}
	if !strings.HasSuffix(mv.Map.Markers[0].Popup.Content, "Running on April 14") {
		t.Errorf("popup = %q", mv.Map.Markers[0].Popup.Content)
	}
	if len(h.app.List()) != 1 {
		t.Errorf("list entries = %d, want 1", len(h.app.List()))
	}
	if v, ok, _ := h.slot.Get(ctx, "workouts"); !ok || !strings.Contains(v, `"pace":`) {
		t.Errorf("slot = %q, want saved running workout", v)
	}
}

// TestCreateCycling covers scenario B.
func TestCreateCycling(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	w, err := h.app.Create(ctx, home, rideForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if speed := w.Detail.(models.Cycling).Speed; math.Abs(speed-17.05) > 1e-2 {
		t.Errorf("speed = %v, want ~17.05", speed)
	}
}

// TestDeleteFirst covers scenario C through the session.
func TestDeleteFirst(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	first, _ := h.app.Create(ctx, home, runForm())
	second, _ := h.app.Create(ctx, models.Coords{Lat: 41, Lng: -8}, rideForm())

	if !h.app.Delete(ctx, first.ID) {
		t.Fatal("delete reported missing workout")
	}
	ws := h.app.Workouts()
	if len(ws) != 1 || ws[0].ID != second.ID {
		t.Fatalf("workouts = %+v, want only the second", ws)
	}
	mv := h.app.Map()
	if len(mv.Markers) != 1 || len(mv.Map.Markers) != 1 {
		t.Fatalf("markers = %d/%d, want 1", len(mv.Markers), len(mv.Map.Markers))
	}
	if mv.Map.Markers[0].Coords != second.Coords {
		t.Errorf("remaining marker at %+v, want %+v", mv.Map.Markers[0].Coords, second.Coords)
	}

	stored := storage.NewAdapter(h.slot, "workouts", discard)
	records, _ := stored.Load(ctx)
	if len(records) != 1 || records[0].ID != second.ID {
		t.Errorf("stored = %+v, want only the second", records)
	}
}

// TestCreateInvalid covers scenario D: no workout, no mutation, a notice.
func TestCreateInvalid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	form := runForm()
	form.Cadence = "0"
	_, err := h.app.Create(ctx, home, form)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if h.app.Len() != 0 || len(h.app.Map().Markers) != 0 {
		t.Error("store or markers changed on validation failure")
	}
	if _, ok, _ := h.slot.Get(ctx, "workouts"); ok {
		t.Error("slot written on validation failure")
	}

	n, ok := h.app.Notice()
	if !ok || n.Message != MsgInvalidInput {
		t.Errorf("notice = %+v, %v, want %q", n, ok, MsgInvalidInput)
	}
	h.clock = h.clock.Add(3 * time.Second)
	if _, ok := h.app.Notice(); ok {
		t.Error("validation notice should expire")
	}
}

// TestStartWithBadStorage covers scenario E: corrupt or absent slot
// values start an empty session.
func TestStartWithBadStorage(t *testing.T) {
	ctx := context.Background()
	for _, value := range []string{"", "{{{", "null", `"workouts"`} {
		slot := storage.NewMemorySlot()
		if value != "" {
			_ = slot.Set(ctx, "workouts", value)
		}
		h := newHarness(t, slot, atHome())
		h.app.Start(ctx)
		if h.app.Len() != 0 {
			t.Errorf("value %q: len = %d, want 0", value, h.app.Len())
		}
	}
}

// TestReloadRestoresSession verifies a second session over the same slot
// sees the same workouts, list and markers once the map loads.
func TestReloadRestoresSession(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	h := newHarness(t, slot, atHome())
	h.app.Start(ctx)
	a, _ := h.app.Create(ctx, home, runForm())
	b, _ := h.app.Create(ctx, models.Coords{Lat: 40, Lng: -9}, rideForm())
	h.app.Click(ctx, a.ID)

	h2 := newHarness(t, slot, atHome())
	h2.app.Hydrate(ctx)
	if h2.app.State() != present.Uninitialized {
		t.Errorf("state = %v before locate", h2.app.State())
	}
	for _, mk := range h2.app.Map().Markers {
		if mk.Placed {
			t.Errorf("marker %s placed before the map loaded", mk.ID)
		}
	}
	if err := h2.app.Locate(ctx); err != nil {
		t.Fatal(err)
	}

	ws := h2.app.Workouts()
	if len(ws) != 2 || ws[0].ID != a.ID || ws[1].ID != b.ID {
		t.Fatalf("workouts = %+v, want a then b", ws)
	}
	if ws[0].Clicks != 1 {
		t.Errorf("clicks = %d, want 1", ws[0].Clicks)
	}
	if *ws[1].Speed != b.Detail.(models.Cycling).Speed {
		t.Errorf("speed = %v, want %v", *ws[1].Speed, b.Detail.(models.Cycling).Speed)
	}
	list := h2.app.List()
	if len(list) != 2 || list[0].ID != b.ID {
		t.Errorf("list = %+v, want newest first", list)
	}
	if got := len(h2.app.Map().Map.Markers); got != 2 {
		t.Errorf("map markers = %d, want 2", got)
	}
}

// TestHydrateSkipsUntaggableRecords verifies records that are not valid
// running or cycling workouts are left out.
func TestHydrateSkipsUntaggableRecords(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	_ = slot.Set(ctx, "workouts", `[
		{"date":"2024-01-01T00:00:00Z","id":"ok","clicks":0,"coords":[1,2],"distance":5,"duration":25,"type":"running","cadence":170,"pace":5,"description":"Running on January 1"},
		{"date":"2024-01-01T00:00:00Z","id":"bad","clicks":0,"coords":[1,2],"distance":5,"duration":25,"type":"rowing","description":"Rowing on January 1"}
	]`)
	h := newHarness(t, slot, atHome())
	h.app.Hydrate(ctx)

	ws := h.app.Workouts()
	if len(ws) != 1 || ws[0].ID != "ok" {
		t.Errorf("workouts = %+v, want only ok", ws)
	}
}

// TestGeolocationDenied verifies the degraded map-less session: list-only
// rendering, a sticky notice, and no markers placed.
func TestGeolocationDenied(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), denied())
	h.app.Start(ctx)

	if h.app.State() != present.Uninitialized {
		t.Errorf("state = %v, want uninitialized", h.app.State())
	}
	n, ok := h.app.Notice()
	if !ok || n.Message != MsgNoPosition {
		t.Errorf("notice = %+v, %v", n, ok)
	}
	h.clock = h.clock.Add(time.Hour)
	if _, ok := h.app.Notice(); !ok {
		t.Error("position notice should stay until dismissed")
	}
	h.app.DismissNotice()
	if _, ok := h.app.Notice(); ok {
		t.Error("notice still showing after dismiss")
	}

	w, err := h.app.Create(ctx, home, runForm())
	if err != nil {
		t.Fatal(err)
	}
	mv := h.app.Map()
	if mv.Map != nil || len(mv.Markers) != 1 || mv.Markers[0].Placed {
		t.Errorf("map view = %+v, want one pending marker and no map", mv)
	}
	if h.app.Select(w.ID) {
		t.Error("select should be a no-op without a map")
	}
	if !h.app.Delete(ctx, w.ID) || len(h.app.Map().Markers) != 0 {
		t.Error("delete without map should remove the pending marker")
	}
}

// TestSelect verifies selecting pans the map and an unknown id does not.
func TestSelect(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)
	w, _ := h.app.Create(ctx, models.Coords{Lat: 45, Lng: 7}, rideForm())

	if !h.app.Select(w.ID) {
		t.Fatal("select failed")
	}
	if c := h.app.Map().Map.Center; c != w.Coords {
		t.Errorf("center = %+v, want %+v", c, w.Coords)
	}
	if h.app.Select("unknown") {
		t.Error("select of unknown id should report false")
	}
}

// TestDeleteUnknown verifies deleting an absent id changes nothing.
func TestDeleteUnknown(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)
	h.app.Create(ctx, home, runForm())

	if h.app.Delete(ctx, "unknown") {
		t.Error("delete of unknown id reported true")
	}
	if h.app.Len() != 1 || len(h.app.Map().Markers) != 1 {
		t.Error("store or markers changed")
	}
}

// TestReset verifies reset clears storage, store, list and markers.
func TestReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)
	h.app.Create(ctx, home, runForm())
	h.app.Create(ctx, home, rideForm())

	h.app.Reset(ctx)
	if h.app.Len() != 0 || len(h.app.List()) != 0 || len(h.app.Map().Map.Markers) != 0 {
		t.Error("reset left state behind")
	}
	if _, ok, _ := h.slot.Get(ctx, "workouts"); ok {
		t.Error("slot still present after reset")
	}
}

// TestIDsAreUnique verifies the default id generator.
func TestIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	app := New(Deps{
		Adapter: storage.NewAdapter(storage.NewMemorySlot(), "workouts", discard),
		List:    view.NewList(),
		Locator: atHome(),
		Zoom:    13,
	}, discard)
	seen := map[string]bool{}
	for range 50 {
		w, err := app.Create(ctx, home, runForm())
		if err != nil {
			t.Fatal(err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %s", w.ID)
		}
		seen[w.ID] = true
	}
}

// TestCreateOverflowingMetric verifies a workout whose derived speed is not
// finite is refused, so later saves keep working.
func TestCreateOverflowingMetric(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	_, err := h.app.Create(ctx, home, models.Form{Type: "cycling", Distance: "1e308", Duration: "1e-300", Elevation: "0"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if n, ok := h.app.Notice(); !ok || n.Message != MsgInvalidInput {
		t.Errorf("notice = %+v, %v, want %q", n, ok, MsgInvalidInput)
	}

	run, err := h.app.Create(ctx, home, runForm())
	if err != nil {
		t.Fatal(err)
	}
	if h.app.Len() != 1 {
		t.Errorf("len = %d, want 1", h.app.Len())
	}
	if v, ok, _ := h.slot.Get(ctx, "workouts"); !ok || !strings.Contains(v, run.ID) {
		t.Errorf("slot = %q, want the running workout saved", v)
	}
}

// TestDeleteRecoversFromDrift verifies a delete that finds the presentation
// out of step with the store re-renders it from the store.
func TestDeleteRecoversFromDrift(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, storage.NewMemorySlot(), atHome())
	h.app.Start(ctx)

	a, _ := h.app.Create(ctx, home, runForm())
	b, _ := h.app.Create(ctx, models.Coords{Lat: 41, Lng: -8}, rideForm())

	// Drop a's entry behind the store's back.
	if err := h.app.sync.OnDelete(0, a.ID); err != nil {
		t.Fatal(err)
	}

	if !h.app.Delete(ctx, b.ID) {
		t.Fatal("delete reported missing workout")
	}
	mv := h.app.Map()
	if len(mv.Markers) != 1 || mv.Markers[0].ID != a.ID || !mv.Markers[0].Placed {
		t.Fatalf("markers = %+v, want only a, placed", mv.Markers)
	}
	if len(mv.Map.Markers) != 1 || mv.Map.Markers[0].Coords != a.Coords {
		t.Errorf("map markers = %+v, want one at %+v", mv.Map.Markers, a.Coords)
	}
	if list := h.app.List(); len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("list = %+v, want only a", list)
	}
	if ws := h.app.Workouts(); len(ws) != 1 || ws[0].ID != a.ID {
		t.Errorf("workouts = %+v, want only a", ws)
	}
}
