package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

var testTime = time.Date(2024, time.April, 14, 10, 22, 31, 0, time.UTC)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

// TestBuildRunning verifies pace and label derivation for a valid run.
func TestBuildRunning(t *testing.T) {
	w, err := Build(Form{Type: "running", Distance: "5.2", Duration: "24", Cadence: "178"},
		"r1", testTime, Coords{Lat: 39, Lng: -12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	run, ok := w.Detail.(Running)
	if !ok {
		t.Fatalf("detail = %T, want Running", w.Detail)
	}
	if !near(run.Pace, 4.615) {
		t.Errorf("pace = %v, want ~4.615", run.Pace)
	}
	if run.Pace != 24/5.2 {
		t.Errorf("pace = %v, want exactly duration/distance", run.Pace)
	}
	if run.Cadence != 178 {
		t.Errorf("cadence = %d, want 178", run.Cadence)
	}
	if w.Description != "Running on April 14" {
		t.Errorf("description = %q, want %q", w.Description, "Running on April 14")
	}
	if m := w.Metric(); m.Unit != "min/km" || m.Value != run.Pace {
		t.Errorf("metric = %+v, want pace in min/km", m)
	}
}

// TestBuildCycling verifies speed derivation for a valid ride.
func TestBuildCycling(t *testing.T) {
	w, err := Build(Form{Type: "cycling", Distance: "27", Duration: "95", Elevation: "523"},
		"c1", testTime, Coords{Lat: 39, Lng: -12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ride := w.Detail.(Cycling)
	if !near(ride.Speed, 17.05) {
		t.Errorf("speed = %v, want ~17.05", ride.Speed)
	}
	if ride.Speed != 27/(95.0/60) {
		t.Errorf("speed = %v, want exactly distance/(duration/60)", ride.Speed)
	}
	if w.Description != "Cycling on April 14" {
		t.Errorf("description = %q", w.Description)
	}
	if w.Kind() != KindCycling {
		t.Errorf("kind = %q, want cycling", w.Kind())
	}
}

// TestBuildRejects covers the validation failures of the form path.
func TestBuildRejects(t *testing.T) {
	cases := []struct {
		name string
		form Form
	}{
		{"zero cadence", Form{Type: "running", Distance: "5", Duration: "20", Cadence: "0"}},
		{"blank cadence", Form{Type: "running", Distance: "5", Duration: "20"}},
		{"fractional cadence", Form{Type: "running", Distance: "5", Duration: "20", Cadence: "170.5"}},
		{"text distance", Form{Type: "running", Distance: "five", Duration: "20", Cadence: "170"}},
		{"negative duration", Form{Type: "cycling", Distance: "5", Duration: "-1", Elevation: "10"}},
		{"infinite distance", Form{Type: "cycling", Distance: "Inf", Duration: "10", Elevation: "10"}},
		{"NaN elevation", Form{Type: "cycling", Distance: "5", Duration: "10", Elevation: "NaN"}},
		{"huge cadence", Form{Type: "running", Distance: "5", Duration: "20", Cadence: "1e30"}},
		{"speed overflows", Form{Type: "cycling", Distance: "1e308", Duration: "1e-300", Elevation: "0"}},
		{"pace overflows", Form{Type: "running", Distance: "1e-300", Duration: "1e308", Cadence: "170"}},
	}
	for _, tc := range cases {
		w, err := Build(tc.form, "x", testTime, Coords{})
		if err == nil {
			t.Errorf("%s: expected error, got workout %+v", tc.name, w)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: error %v does not wrap ErrInvalidInput", tc.name, err)
		}
	}
}

// TestBuildCyclingAcceptsNonPositiveElevation keeps the asymmetry with
// cadence: elevation gain only has to be a finite number.
func TestBuildCyclingAcceptsNonPositiveElevation(t *testing.T) {
	for _, elev := range []string{"0", "-40", ""} {
		w, err := Build(Form{Type: "cycling", Distance: "10", Duration: "30", Elevation: elev}, "c", testTime, Coords{})
		if err != nil {
			t.Errorf("elevation %q: unexpected error %v", elev, err)
			continue
		}
		if got := w.Extra(); got.Unit != "m" {
			t.Errorf("extra unit = %q, want m", got.Unit)
		}
	}
}

// TestBuildUnknownKind verifies an unknown type tag is rejected.
func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(Form{Type: "swimming", Distance: "1", Duration: "1"}, "s", testTime, Coords{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

// TestClick verifies the interaction counter.
func TestClick(t *testing.T) {
	w := NewRunning("r", testTime, Coords{}, 1, 5, 160)
	w.Click()
	w.Click()
	if w.Clicks != 2 {
		t.Errorf("clicks = %d, want 2", w.Clicks)
	}
}

// TestRecordRoundTrip verifies that a workout survives JSON through its
// record form with every field intact.
func TestRecordRoundTrip(t *testing.T) {
	in := []*Workout{
		NewRunning("r1", testTime, Coords{Lat: 39.123456789, Lng: -12.5}, 5.2, 24, 178),
		NewCycling("c1", testTime.Add(time.Hour), Coords{Lat: 39, Lng: -12}, 27, 95, 0),
	}
	in[0].Clicks = 3

	records := make([]Record, len(in))
	for i, w := range in {
		records[i] = w.Record()
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	out := FromRecords(decoded, func(r Record, err error) { t.Errorf("skipped %s: %v", r.ID, err) })
	if len(out) != len(in) {
		t.Fatalf("got %d workouts, want %d", len(out), len(in))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.ID != b.ID || !a.CreatedAt.Equal(b.CreatedAt) || a.Coords != b.Coords ||
			a.Distance != b.Distance || a.Duration != b.Duration ||
			a.Description != b.Description || a.Clicks != b.Clicks || a.Detail != b.Detail {
			t.Errorf("workout %d: got %+v, want %+v", i, b, a)
		}
	}
}

// TestRecordJSONShape checks the browser-compatible field names.
func TestRecordJSONShape(t *testing.T) {
	data, err := json.Marshal(NewCycling("c1", testTime, Coords{Lat: 1, Lng: 2}, 10, 60, 0).Record())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2024-04-14T10:22:31Z","id":"c1","clicks":0,"coords":[1,2],"distance":10,"duration":60,"type":"cycling","elevationGain":0,"speed":10,"description":"Cycling on April 14"}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

// TestFromRecordKeepsStoredValues verifies that hydration does not
// recompute pace or the label.
func TestFromRecordKeepsStoredValues(t *testing.T) {
	raw := `{"date":"2023-01-02T08:00:00.000Z","id":"1672646400","clicks":0,"coords":[39,-12],"distance":5,"duration":25,"type":"running","cadence":170,"pace":4.9,"description":"Running on January 2"}`
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}
	w, err := FromRecord(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pace := w.Detail.(Running).Pace; pace != 4.9 {
		t.Errorf("pace = %v, want stored 4.9", pace)
	}
	if w.Description != "Running on January 2" {
		t.Errorf("description = %q", w.Description)
	}
}

// TestFromRecordRejects verifies that records that cannot be re-tagged are
// reported and skipped.
func TestFromRecordRejects(t *testing.T) {
	cadence, hugeCadence, gain := 0.0, 1e30, 10.0
	records := []Record{
		{ID: "a", Type: "running", Distance: 5, Duration: 20},
		{ID: "b", Type: "running", Distance: 5, Duration: 20, Cadence: &cadence},
		{ID: "b2", Type: "running", Distance: 5, Duration: 20, Cadence: &hugeCadence},
		{ID: "c2", Type: "cycling", Distance: 1e308, Duration: 1e-300, ElevationGain: &gain},
		{ID: "c", Type: "cycling", Distance: 5, Duration: 20},
		{ID: "d", Type: "walking", Distance: 5, Duration: 20},
		{ID: "", Type: "cycling", Distance: 5, Duration: 20},
	}
	var skipped int
	out := FromRecords(records, func(Record, error) { skipped++ })
	if len(out) != 0 {
		t.Errorf("got %d workouts, want 0", len(out))
	}
	if skipped != len(records) {
		t.Errorf("skipped = %d, want %d", skipped, len(records))
	}
}
