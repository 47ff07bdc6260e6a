package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidInput is wrapped by every ValidationError.
	ErrInvalidInput = errors.New("invalid workout input")
	// ErrUnknownKind is returned for a type tag other than running or cycling.
	ErrUnknownKind = errors.New("unknown workout type")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Form is a raw form submission. Only the extra field matching Type is read.
type Form struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// ParseKind maps a type tag to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRunning:
		return KindRunning, nil
	case KindCycling:
		return KindCycling, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseNumber converts field text to a number. Blank text is zero and
// unparsable text is NaN, so both fail the positivity and finiteness checks.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkPositive(field string, v float64) error {
	if !finite(v) {
		return &ValidationError{Field: field, Reason: "must be a number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}

// checkMetric rejects a workout whose derived pace or speed overflowed,
// which happens when distance and duration are far apart in magnitude.
func checkMetric(w *Workout) error {
	if finite(w.Metric().Value) {
		return nil
	}
	field := "pace"
	if w.Kind() == KindCycling {
		field = "speed"
	}
	return &ValidationError{Field: field, Reason: "is out of range"}
}

// maxCadence bounds cadence so it always fits an int.
const maxCadence = math.MaxInt32

// Build validates a form submission and constructs the workout at coords.
// Running requires cadence > 0. Cycling only requires a finite elevation
// gain; zero and negative gains are accepted. The derived metric must be
// finite as well.
func Build(f Form, id string, at time.Time, coords Coords) (*Workout, error) {
	kind, err := ParseKind(f.Type)
	if err != nil {
		return nil, err
	}

	distance := ParseNumber(f.Distance)
	duration := ParseNumber(f.Duration)
	if err := checkPositive("distance", distance); err != nil {
		return nil, err
	}
	if err := checkPositive("duration", duration); err != nil {
		return nil, err
	}

	var w *Workout
	switch kind {
	case KindRunning:
		cadence := ParseNumber(f.Cadence)
		if err := checkPositive("cadence", cadence); err != nil {
			return nil, err
		}
		if cadence != math.Trunc(cadence) || cadence > maxCadence {
			return nil, &ValidationError{Field: "cadence", Reason: "must be a whole number"}
		}
		w = NewRunning(id, at, coords, distance, duration, int(cadence))
	default:
		elevation := ParseNumber(f.Elevation)
		if !finite(elevation) {
			return nil, &ValidationError{Field: "elevation", Reason: "must be a number"}
		}
		w = NewCycling(id, at, coords, distance, duration, elevation)
	}
	if err := checkMetric(w); err != nil {
		return nil, err
	}
	return w, nil
}
