package tracker

import (
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/present"
	"github.com/claude/mapty/internal/view"
)

// MapView is what the session knows about the map.
type MapView struct {
	State   string           `json:"state"`
	Map     *view.MapState   `json:"map,omitempty"`
	Markers []present.Marker `json:"markers"`
}

// Workouts returns every workout in store order as plain records.
func (a *App) Workouts() []models.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Record, 0, a.store.Len())
	for w := range a.store.All() {
		out = append(out, w.Record())
	}
	return out
}

// Workout returns one workout as a plain record.
func (a *App) Workout(id string) (models.Record, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, ok := a.store.Find(id)
	if !ok {
		return models.Record{}, false
	}
	return w.Record(), true
}

// Len returns the number of stored workouts.
func (a *App) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Len()
}

// State returns the map lifecycle state.
func (a *App) State() present.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sync.State()
}

// List returns the rendered list entries in visual order, when the list
// collaborator can report them.
func (a *App) List() []present.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.list.(interface{ Entries() []present.Entry }); ok {
		return r.Entries()
	}
	return nil
}

// Map returns the map state and the synchronizer's marker entries.
func (a *App) Map() MapView {
	a.mu.Lock()
	defer a.mu.Unlock()

	mv := MapView{State: a.sync.State().String(), Markers: a.sync.Markers()}
	if r, ok := a.m.(interface{ State() view.MapState }); ok {
		st := r.State()
		mv.Map = &st
	}
	return mv
}

// Notice returns the current notice, if one is showing.
func (a *App) Notice() (Notice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.notice == nil {
		return Notice{}, false
	}
	if !a.notice.Expires.IsZero() && !a.now().Before(a.notice.Expires) {
		a.notice = nil
		return Notice{}, false
	}
	return *a.notice, true
}

// DismissNotice hides the current notice.
func (a *App) DismissNotice() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notice = nil
}
