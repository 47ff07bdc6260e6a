package models

import (
	"fmt"
	"math"
	"time"
)

// Record is the plain-data form of a workout as it sits in durable storage.
// The field names and order match the browser localStorage format, so an
// exported "workouts" value can be read back unchanged.
type Record struct {
	Date          time.Time  `json:"date"`
	ID            string     `json:"id"`
	Clicks        int        `json:"clicks"`
	Coords        [2]float64 `json:"coords"`
	Distance      float64    `json:"distance"`
	Duration      float64    `json:"duration"`
	Type          Kind       `json:"type"`
	Cadence       *float64   `json:"cadence,omitempty"`
	Pace          *float64   `json:"pace,omitempty"`
	ElevationGain *float64   `json:"elevationGain,omitempty"`
	Speed         *float64   `json:"speed,omitempty"`
	Description   string     `json:"description"`
}

// Record converts the workout to its storage form.
func (w *Workout) Record() Record {
	r := Record{
		Date:        w.CreatedAt,
		ID:          w.ID,
		Clicks:      w.Clicks,
		Coords:      [2]float64{w.Coords.Lat, w.Coords.Lng},
		Distance:    w.Distance,
		Duration:    w.Duration,
		Type:        w.Kind(),
		Description: w.Description,
	}
	switch d := w.Detail.(type) {
	case Running:
		cadence, pace := float64(d.Cadence), d.Pace
		r.Cadence, r.Pace = &cadence, &pace
	case Cycling:
		gain, speed := d.ElevationGain, d.Speed
		r.ElevationGain, r.Speed = &gain, &speed
	}
	return r
}

// FromRecord re-tags a stored record as a typed workout. Stored derived
// values and the label are kept as stored; a derived value is only
// computed when the record lacks it.
func FromRecord(r Record) (*Workout, error) {
	kind, err := ParseKind(string(r.Type))
	if err != nil {
		return nil, err
	}
	if r.ID == "" {
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	}
	if !finite(r.Coords[0]) || !finite(r.Coords[1]) {
		return nil, &ValidationError{Field: "coords", Reason: "must be numbers"}
	}
	if err := checkPositive("distance", r.Distance); err != nil {
		return nil, err
	}
	if err := checkPositive("duration", r.Duration); err != nil {
		return nil, err
	}

	w := &Workout{
		ID:          r.ID,
		CreatedAt:   r.Date,
		Coords:      Coords{Lat: r.Coords[0], Lng: r.Coords[1]},
		Distance:    r.Distance,
		Duration:    r.Duration,
		Description: r.Description,
		Clicks:      r.Clicks,
	}
	if w.Description == "" {
		w.Description = Describe(kind, r.Date)
	}

	switch kind {
	case KindRunning:
		if r.Cadence == nil {
			return nil, &ValidationError{Field: "cadence", Reason: "is required"}
		}
		if err := checkPositive("cadence", *r.Cadence); err != nil {
			return nil, err
		}
		if *r.Cadence != math.Trunc(*r.Cadence) || *r.Cadence > maxCadence {
			return nil, &ValidationError{Field: "cadence", Reason: "must be a whole number"}
		}
		pace := Pace(r.Distance, r.Duration)
		if r.Pace != nil {
			pace = *r.Pace
		}
		w.Detail = Running{Cadence: int(*r.Cadence), Pace: pace}
	default:
		if r.ElevationGain == nil || !finite(*r.ElevationGain) {
			return nil, &ValidationError{Field: "elevationGain", Reason: "must be a number"}
		}
		speed := Speed(r.Distance, r.Duration)
		if r.Speed != nil {
			speed = *r.Speed
		}
		w.Detail = Cycling{ElevationGain: *r.ElevationGain, Speed: speed}
	}
	if err := checkMetric(w); err != nil {
		return nil, err
	}
	return w, nil
}

// FromRecords re-tags each record in order. Records that fail are
// reported through skip and left out.
func FromRecords(records []Record, skip func(Record, error)) []*Workout {
	out := make([]*Workout, 0, len(records))
	for _, r := range records {
		w, err := FromRecord(r)
		if err != nil {
			if skip != nil {
				skip(r, fmt.Errorf("record %q: %w", r.ID, err))
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
