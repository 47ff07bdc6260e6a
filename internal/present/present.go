// Package present keeps the rendered list and the map markers in step with
// the workout store.
//
// The synchronizer holds one marker entry per stored workout, in store
// order. Before the map exists the entries are unplaced; AttachMap places
// them all. Callers must pair every store mutation with the matching call
// here before handling the next event.
package present

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/claude/mapty/internal/models"
)

// ErrOutOfSync is returned by OnDelete when the marker at the given index
// does not belong to the workout being deleted.
var ErrOutOfSync = errors.New("marker collection out of sync with store")

// State is the map lifecycle of a session.
type State int

const (
	// Uninitialized: no map yet. Lists render, markers wait.
	Uninitialized State = iota
	// MapReady: the map exists and every workout has a placed marker.
	MapReady
)

func (s State) String() string {
	if s == MapReady {
		return "map_ready"
	}
	return "uninitialized"
}

// Handle identifies a marker issued by a Map.
type Handle int64

// Popup describes the popup bound to a marker.
type Popup struct {
	Content      string `json:"content"`
	ClassName    string `json:"class_name"`
	MaxWidth     int    `json:"max_width"`
	MinWidth     int    `json:"min_width"`
	AutoClose    bool   `json:"auto_close"`
	CloseOnClick bool   `json:"close_on_click"`
}

// ViewOptions controls how the map moves to a new view.
type ViewOptions struct {
	Animate     bool          `json:"animate"`
	PanDuration time.Duration `json:"pan_duration"`
}

// Map is the map collaborator after it has been initialized.
type Map interface {
	AddMarker(at models.Coords, popup Popup) Handle
	RemoveMarker(h Handle)
	SetView(at models.Coords, zoom int, opts ViewOptions)
}

// Entry is what the list collaborator renders for one workout.
type Entry struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Icon       string  `json:"icon"`
	Label      string  `json:"label"`
	Distance   float64 `json:"distance"`
	Duration   float64 `json:"duration"`
	Metric     float64 `json:"metric"`
	MetricText string  `json:"metric_text"`
	MetricUnit string  `json:"metric_unit"`
	Extra      float64 `json:"extra"`
	ExtraUnit  string  `json:"extra_unit"`
}

// List is the list-rendering collaborator. InsertAfterForm places the entry
// directly below the input form, so the newest workout is shown first.
type List interface {
	InsertAfterForm(e Entry)
	Remove(id string)
	Clear()
}

// Finder looks workouts up by id.
type Finder interface {
	Find(id string) (*models.Workout, bool)
}

// PopupFor builds the popup shown on a workout's marker.
func PopupFor(w *models.Workout) Popup {
	return Popup{
		Content:   fmt.Sprintf("%s %s", w.Kind().Icon(), w.Description),
		ClassName: string(w.Kind()) + "-popup",
		MaxWidth:  350,
		MinWidth:  100,
	}
}

// EntryFor builds the list entry for a workout from its stored fields.
func EntryFor(w *models.Workout) Entry {
	metric, extra := w.Metric(), w.Extra()
	return Entry{
		ID:         w.ID,
		Type:       string(w.Kind()),
		Icon:       w.Kind().Icon(),
		Label:      w.Description,
		Distance:   w.Distance,
		Duration:   w.Duration,
		Metric:     metric.Value,
		MetricText: strconv.FormatFloat(metric.Value, 'f', 1, 64),
		MetricUnit: metric.Unit,
		Extra:      extra.Value,
		ExtraUnit:  extra.Unit,
	}
}

// Marker is a read-only view of one marker entry.
type Marker struct {
	ID     string        `json:"id"`
	Coords models.Coords `json:"coords"`
	Placed bool          `json:"placed"`
	Handle Handle        `json:"handle"`
}

type marker struct {
	id     string
	at     models.Coords
	popup  Popup
	handle Handle
	placed bool
}

// Synchronizer mirrors the store into the list and map collaborators.
type Synchronizer struct {
	list    List
	finder  Finder
	zoom    int
	m       Map
	markers []marker
}

// NewSynchronizer creates a synchronizer in the Uninitialized state.
func NewSynchronizer(list List, finder Finder, zoom int) *Synchronizer {
	return &Synchronizer{list: list, finder: finder, zoom: zoom}
}

// State reports whether the map has been attached.
func (s *Synchronizer) State() State {
	if s.m == nil {
		return Uninitialized
	}
	return MapReady
}

// OnCreate renders a workout just appended to the store.
func (s *Synchronizer) OnCreate(w *models.Workout) {
	mk := marker{id: w.ID, at: w.Coords, popup: PopupFor(w)}
	if s.m != nil {
		mk.handle = s.m.AddMarker(mk.at, mk.popup)
		mk.placed = true
	}
	s.markers = append(s.markers, mk)
	s.list.InsertAfterForm(EntryFor(w))
}

// RenderAll renders hydrated workouts in store order. Markers are placed
// only once a map is attached.
func (s *Synchronizer) RenderAll(workouts iter.Seq[*models.Workout]) {
	for w := range workouts {
		s.OnCreate(w)
	}
}

// OnDelete removes the list entry and marker of the workout that the store
// reported at index. id must be the removed workout's id.
func (s *Synchronizer) OnDelete(index int, id string) error {
	if index < 0 || index >= len(s.markers) {
		return fmt.Errorf("%w: index %d of %d", ErrOutOfSync, index, len(s.markers))
	}
	mk := s.markers[index]
	if mk.id != id {
		return fmt.Errorf("%w: index %d holds %q, not %q", ErrOutOfSync, index, mk.id, id)
	}

	s.list.Remove(id)
	if mk.placed {
		s.m.RemoveMarker(mk.handle)
	}
	s.markers = append(s.markers[:index], s.markers[index+1:]...)
	return nil
}

// OnSelect pans the map to the workout. It reports false when there is no
// map or the id is no longer stored.
func (s *Synchronizer) OnSelect(id string) bool {
	if s.m == nil {
		return false
	}
	w, ok := s.finder.Find(id)
	if !ok {
		return false
	}
	s.m.SetView(w.Coords, s.zoom, ViewOptions{Animate: true, PanDuration: time.Second})
	return true
}

// AttachMap moves the session to MapReady and places every pending marker
// in store order. It reports false if a map was already attached.
func (s *Synchronizer) AttachMap(m Map) bool {
	if s.m != nil {
		return false
	}
	s.m = m
	for i := range s.markers {
		mk := &s.markers[i]
		mk.handle = m.AddMarker(mk.at, mk.popup)
		mk.placed = true
	}
	return true
}

// Clear removes every list entry and placed marker. The map stays attached.
func (s *Synchronizer) Clear() {
	for _, mk := range s.markers {
		if mk.placed {
			s.m.RemoveMarker(mk.handle)
		}
	}
	s.markers = nil
	s.list.Clear()
}

// Len returns the number of marker entries.
func (s *Synchronizer) Len() int {
	return len(s.markers)
}

// Markers returns the marker entries in store order.
func (s *Synchronizer) Markers() []Marker {
	out := make([]Marker, len(s.markers))
	for i, mk := range s.markers {
		out[i] = Marker{ID: mk.id, Coords: mk.at, Placed: mk.placed, Handle: mk.handle}
	}
	return out
}
