package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/present"
	"github.com/claude/mapty/internal/tracker"
)

var (
	// ErrNotFound is returned when no workout has the requested id.
	ErrNotFound = errors.New("workout not found")
	// ErrMapNotReady is returned when selecting a workout before the map exists.
	ErrMapNotReady = errors.New("map not ready")
)

// DataSource abstracts the workout session for MCP tools. Both Local (an
// in-process tracker) and HTTPClient (a remote server over its REST API)
// satisfy this interface.
type DataSource interface {
	Workouts(ctx context.Context) ([]models.Record, error)
	Workout(ctx context.Context, id string) (models.Record, error)
	Create(ctx context.Context, at models.Coords, form models.Form) (models.Record, error)
	Delete(ctx context.Context, id string) error
	Select(ctx context.Context, id string) error
	List(ctx context.Context) ([]present.Entry, error)
}

// Local serves tools from a tracker session in the same process.
type Local struct {
	App *tracker.App
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) Workouts(_ context.Context) ([]models.Record, error) {
	return l.App.Workouts(), nil
}

func (l Local) Workout(_ context.Context, id string) (models.Record, error) {
	rec, ok := l.App.Workout(id)
	if !ok {
		return models.Record{}, ErrNotFound
	}
	return rec, nil
}

func (l Local) Create(ctx context.Context, at models.Coords, form models.Form) (models.Record, error) {
	w, err := l.App.Create(ctx, at, form)
	if err != nil {
		return models.Record{}, err
	}
	return w.Record(), nil
}

func (l Local) Delete(ctx context.Context, id string) error {
	if !l.App.Delete(ctx, id) {
		return ErrNotFound
	}
	return nil
}

func (l Local) Select(_ context.Context, id string) error {
	if _, ok := l.App.Workout(id); !ok {
		return ErrNotFound
	}
	if !l.App.Select(id) {
		return ErrMapNotReady
	}
	return nil
}

func (l Local) List(_ context.Context) ([]present.Entry, error) {
	return l.App.List(), nil
}
