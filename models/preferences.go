package models

import (
	"fmt"
	"time"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from latitude/longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lat returns the latitude, or 0 when coordinates are missing.
func (g GeoPoint) Lat() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// Lng returns the longitude, or 0 when coordinates are missing.
func (g GeoPoint) Lng() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

// HasCoordinates reports whether the point carries a usable lat/lng pair.
func (g GeoPoint) HasCoordinates() bool {
	return len(g.Coordinates) >= 2
}

// TimeWindow is the half-open interval [Start, End) a user wants the
// appointment to fall in.
type TimeWindow struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether [start, end) fits inside the window.
func (w TimeWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Preferences captures a user's appointment request. Immutable once a
// request begins: the orchestrator only ever reads it.
type Preferences struct {
	Specialty     string     `json:"specialty" binding:"required"`
	Insurance     string     `json:"insurance,omitempty"`
	Language      string     `json:"language,omitempty"`
	TimeWindow    TimeWindow `json:"timeWindow" binding:"required"`
	MaxDistanceKm float64    `json:"maxDistanceKm,omitempty"`
	Location      GeoPoint   `json:"location,omitzero"`
	Address       string     `json:"address,omitempty"`
}

// Validate checks the fields a request cannot proceed without.
func (p Preferences) Validate() error {
	if p.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	if p.TimeWindow.Start.IsZero() || p.TimeWindow.End.IsZero() {
		return fmt.Errorf("time window start and end are required")
	}
	if !p.TimeWindow.End.After(p.TimeWindow.Start) {
		return fmt.Errorf("time window end must be after start")
	}
	if p.MaxDistanceKm < 0 {
		return fmt.Errorf("max distance must be non-negative")
	}
	if !p.Location.HasCoordinates() && p.Address == "" {
		return fmt.Errorf("a location or address is required")
	}
	return nil
}
