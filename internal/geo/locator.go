package geo

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/models"
)

// ErrPositionUnavailable is returned when no position can be determined.
var ErrPositionUnavailable = errors.New("could not get position")

// Locator yields the user's current position. Locate may block; it is
// cancelled only through ctx.
type Locator interface {
	Locate(ctx context.Context) (models.Coords, error)
}

// Static reports a fixed position, or ErrPositionUnavailable when none is
// configured.
type Static struct {
	pos *models.Coords
}

// NewStatic builds a Static locator. Either coordinate being nil means
// the position is unknown.
func NewStatic(lat, lng *float64) Static {
	if lat == nil || lng == nil {
		return Static{}
	}
	return Static{pos: &models.Coords{Lat: *lat, Lng: *lng}}
}

func (s Static) Locate(ctx context.Context) (models.Coords, error) {
	if err := ctx.Err(); err != nil {
		return models.Coords{}, err
	}
	if s.pos == nil {
		return models.Coords{}, ErrPositionUnavailable
	}
	return *s.pos, nil
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (models.Coords, error)

func (f LocatorFunc) Locate(ctx context.Context) (models.Coords, error) {
	return f(ctx)
}
