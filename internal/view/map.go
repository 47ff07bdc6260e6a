// Package view provides headless map and list collaborators. They record
// what a browser would draw so the HTTP and MCP surfaces can report it.
package view

import (
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/present"
)

// Marker is a marker currently on the map.
type Marker struct {
	Handle present.Handle `json:"handle"`
	Coords models.Coords  `json:"coords"`
	Popup  present.Popup  `json:"popup"`
}

// MapState is a snapshot of the map.
type MapState struct {
	Center  models.Coords       `json:"center"`
	Zoom    int                 `json:"zoom"`
	LastPan present.ViewOptions `json:"last_pan"`
	Markers []Marker            `json:"markers"`
}

// Map is an in-memory map. Markers are kept in the order they were added.
type Map struct {
	center  models.Coords
	zoom    int
	lastPan present.ViewOptions
	next    present.Handle
	markers []Marker
}

// NewMap initializes a map centered on center.
func NewMap(center models.Coords, zoom int) *Map {
	return &Map{center: center, zoom: zoom}
}

func (m *Map) AddMarker(at models.Coords, popup present.Popup) present.Handle {
	m.next++
	m.markers = append(m.markers, Marker{Handle: m.next, Coords: at, Popup: popup})
	return m.next
}

// RemoveMarker removes the marker with handle h. Unknown handles are ignored.
func (m *Map) RemoveMarker(h present.Handle) {
	for i, mk := range m.markers {
		if mk.Handle == h {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			return
		}
	}
}

func (m *Map) SetView(at models.Coords, zoom int, opts present.ViewOptions) {
	m.center = at
	m.zoom = zoom
	m.lastPan = opts
}

// State returns a copy of the map's current state.
func (m *Map) State() MapState {
	return MapState{
		Center:  m.center,
		Zoom:    m.zoom,
		LastPan: m.lastPan,
		Markers: append([]Marker{}, m.markers...),
	}
}
