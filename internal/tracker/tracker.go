// Package tracker wires the workout store, the presentation synchronizer,
// the persistence adapter and the geolocation source into one session.
//
// App serializes every event under a single lock, so a store mutation and
// its synchronizer call are never observed half done.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/mapty/internal/geo"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
	"github.com/claude/mapty/internal/present"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/store"
	"github.com/claude/mapty/internal/view"
	"github.com/google/uuid"
)

// User-facing notices.
const (
	MsgInvalidInput = "Inputs Have To Be Numbers!"
	MsgNoPosition   = "Could not get your position"
)

// validationNoticeTTL is how long a validation notice stays visible.
// Position notices stay until dismissed.
const validationNoticeTTL = 2 * time.Second

// MapFactory initializes the map collaborator at center.
type MapFactory func(center models.Coords, zoom int) present.Map

// Notice is a transient message for the user.
type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
	Expires time.Time `json:"expires,omitzero"`
}

// Deps are the collaborators of an App. Now and NewID default to
// time.Now and uuid.NewString.
type Deps struct {
	Adapter *storage.Adapter
	List    present.List
	Locator geo.Locator
	NewMap  MapFactory
	Zoom    int
	Now     func() time.Time
	NewID   func() string
}

// App is one workout-tracking session.
type App struct {
	mu      sync.Mutex
	store   *store.Store
	sync    *present.Synchronizer
	list    present.List
	m       present.Map
	persist *storage.Adapter
	locator geo.Locator
	newMap  MapFactory
	zoom    int
	now     func() time.Time
	newID   func() string
	notice  *Notice
	log     *slog.Logger
}

// New creates an App with an empty store in the Uninitialized state.
func New(deps Deps, log *slog.Logger) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.NewMap == nil {
		deps.NewMap = func(center models.Coords, zoom int) present.Map { return view.NewMap(center, zoom) }
	}
	s := store.New()
	return &App{
		store:   s,
		sync:    present.NewSynchronizer(deps.List, s, deps.Zoom),
		list:    deps.List,
		persist: deps.Adapter,
		locator: deps.Locator,
		newMap:  deps.NewMap,
		zoom:    deps.Zoom,
		now:     deps.Now,
		newID:   deps.NewID,
		log:     log,
	}
}

// Start hydrates the store and then requests the position. A position
// failure leaves the session map-less for good; it is reported as a notice
// and is not an error.
func (a *App) Start(ctx context.Context) {
	a.Hydrate(ctx)
	if err := a.Locate(ctx); err != nil {
		a.log.Warn("continuing without map", "error", err)
	}
}

// Hydrate replaces the store with the stored workouts and renders the list.
// Records that cannot be re-tagged as a running or cycling workout are
// skipped.
func (a *App) Hydrate(ctx context.Context) {
	records, ok := a.persist.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.store.ReplaceAll(nil)
	a.sync.Clear()
	if ok {
		ws := models.FromRecords(records, func(r models.Record, err error) {
			a.log.Warn("skipping stored workout", "id", r.ID, "error", err)
		})
		a.store.ReplaceAll(ws)
		a.sync.RenderAll(a.store.All())
	}
	observability.SetWorkoutsStored(a.store.Len())
	a.log.Info("workouts loaded", "count", a.store.Len())
}

// Locate asks for the position and, on success, initializes the map and
// places every marker. The lock is not held while waiting.
func (a *App) Locate(ctx context.Context) error {
	pos, err := a.locator.Locate(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.setNotice(MsgNoPosition, 0)
		return err
	}
	if a.sync.State() == present.MapReady {
		return nil
	}
	m := a.newMap(pos, a.zoom)
	a.sync.AttachMap(m)
	a.m = m
	a.log.Info("map ready", "lat", pos.Lat, "lng", pos.Lng, "markers", a.sync.Len())
	return nil
}

// Create validates a form submission for a map click at point, adds the
// workout, renders it and saves the collection. On a validation failure
// nothing changes and a notice is raised.
func (a *App) Create(ctx context.Context, point models.Coords, form models.Form) (*models.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, err := models.Build(form, a.newID(), a.now(), point)
	if err != nil {
		observability.RecordValidationFailure()
		a.setNotice(MsgInvalidInput, validationNoticeTTL)
		return nil, err
	}

	a.store.Add(w)
	a.sync.OnCreate(w)
	a.save(ctx)

	observability.RecordWorkoutCreated(string(w.Kind()))
	observability.SetWorkoutsStored(a.store.Len())
	return w, nil
}

// Delete removes a workout with its list entry and marker. An unknown id is
// a no-op and reports false.
func (a *App) Delete(ctx context.Context, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, ok := a.store.Remove(id)
	if !ok {
		return false
	}
	if err := a.sync.OnDelete(idx, id); err != nil {
		a.log.Error("presentation out of sync, re-rendering", "id", id, "error", err)
		a.sync.Clear()
		a.sync.RenderAll(a.store.All())
	}
	a.save(ctx)

	observability.RecordWorkoutDeleted()
	observability.SetWorkoutsStored(a.store.Len())
	return true
}

// Select pans the map to a workout. It reports false without a map or for
// an unknown id.
func (a *App) Select(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sync.OnSelect(id)
}

// Click increments the interaction count of a workout and saves.
func (a *App) Click(ctx context.Context, id string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, ok := a.store.Find(id)
	if !ok {
		return 0, false
	}
	w.Click()
	a.save(ctx)
	return w.Clicks, true
}

// Reset clears durable storage and every in-memory collection.
func (a *App) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_ = a.persist.Clear(ctx)
	a.store.ReplaceAll(nil)
	a.sync.Clear()
	observability.SetWorkoutsStored(0)
}

// save writes the whole store. Failures are logged by the adapter and the
// session continues in memory.
func (a *App) save(ctx context.Context) {
	_ = a.persist.Save(ctx, a.store.All())
}

func (a *App) setNotice(msg string, ttl time.Duration) {
	now := a.now()
	n := &Notice{Message: msg, At: now}
	if ttl > 0 {
		n.Expires = now.Add(ttl)
	}
	a.notice = n
}
