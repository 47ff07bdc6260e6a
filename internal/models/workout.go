package models

import (
	"fmt"
	"time"
)

// Kind tags the workout variant.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// Title returns the capitalized kind, e.g. "Running".
func (k Kind) Title() string {
	switch k {
	case KindRunning:
		return "Running"
	case KindCycling:
		return "Cycling"
	}
	return string(k)
}

// Icon returns the emoji shown next to the workout in popups and lists.
func (k Kind) Icon() string {
	if k == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coords is a geographic point.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Detail holds the variant-specific fields of a workout. The set of
// implementations is closed: Running and Cycling.
type Detail interface {
	Kind() Kind
	sealed()
}

// Running carries cadence (steps/min) and the derived pace (min/km).
type Running struct {
	Cadence int
	Pace    float64
}

// Cycling carries elevation gain (m) and the derived speed (km/h).
type Cycling struct {
	ElevationGain float64
	Speed         float64
}

func (Running) Kind() Kind { return KindRunning }
func (Cycling) Kind() Kind { return KindCycling }
func (Running) sealed()    {}
func (Cycling) sealed()    {}

// Metric is the derived value shown for a workout.
type Metric struct {
	Value float64
	Unit  string
}

// Workout is a recorded exercise session. Every field except Clicks is
// fixed at construction.
type Workout struct {
	ID          string
	CreatedAt   time.Time
	Coords      Coords
	Distance    float64 // km
	Duration    float64 // min
	Description string
	Clicks      int
	Detail      Detail
}

// Kind returns the variant tag.
func (w *Workout) Kind() Kind {
	return w.Detail.Kind()
}

// Metric returns the stored derived metric: pace for running, speed for cycling.
func (w *Workout) Metric() Metric {
	switch d := w.Detail.(type) {
	case Running:
		return Metric{Value: d.Pace, Unit: "min/km"}
	case Cycling:
		return Metric{Value: d.Speed, Unit: "km/h"}
	}
	return Metric{}
}

// Extra returns the variant input field: cadence or elevation gain.
func (w *Workout) Extra() Metric {
	switch d := w.Detail.(type) {
	case Running:
		return Metric{Value: float64(d.Cadence), Unit: "spm"}
	case Cycling:
		return Metric{Value: d.ElevationGain, Unit: "m"}
	}
	return Metric{}
}

// Click records one interaction with the rendered workout.
func (w *Workout) Click() {
	w.Clicks++
}

// Pace is duration over distance, in minutes per km.
func Pace(distance, duration float64) float64 {
	return duration / distance
}

// Speed is distance over duration in hours, in km/h.
func Speed(distance, duration float64) float64 {
	return distance / (duration / 60)
}

// Describe builds the display label, e.g. "Running on April 14".
func Describe(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), at.Month(), at.Day())
}

// NewRunning constructs a running workout and derives its pace and label.
// Inputs must already be validated.
func NewRunning(id string, at time.Time, coords Coords, distance, duration float64, cadence int) *Workout {
	return &Workout{
		ID:          id,
		CreatedAt:   at,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Description: Describe(KindRunning, at),
		Detail:      Running{Cadence: cadence, Pace: Pace(distance, duration)},
	}
}

// NewCycling constructs a cycling workout and derives its speed and label.
// Inputs must already be validated.
func NewCycling(id string, at time.Time, coords Coords, distance, duration, elevationGain float64) *Workout {
	return &Workout{
		ID:          id,
		CreatedAt:   at,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Description: Describe(KindCycling, at),
		Detail:      Cycling{ElevationGain: elevationGain, Speed: Speed(distance, duration)},
	}
}
