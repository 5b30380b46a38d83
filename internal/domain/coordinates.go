package domain

import (
	"math"
	"time"
)

// Immutable geographic coordinate captured from a device or a map click.
// Accuracy is in meters; zero means unknown.
type Coordinate struct {
	Lat        float64    `json:"latitude"`
	Lon        float64    `json:"longitude"`
	Accuracy   float64    `json:"accuracy,omitempty"`
	CapturedAt *time.Time `json:"timestamp,omitempty"`
}

// Validate reports the first out-of-range or non-finite field.
func (c Coordinate) Validate() error {
	if !isFinite(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "latitude", Reason: "must be a finite number between -90 and 90"}
	}
	if !isFinite(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "longitude", Reason: "must be a finite number between -180 and 180"}
	}
	if !isFinite(c.Accuracy) || c.Accuracy < 0 {
		return &ValidationError{Field: "accuracy", Reason: "must be a finite number >= 0"}
	}
	return nil
}

// Axis-aligned lat/lon rectangle describing a territory of interest.
// Static reference data; never mutated at runtime.
type CountyBounds struct {
	MinLat float64 `json:"minLat" yaml:"min_lat"`
	MaxLat float64 `json:"maxLat" yaml:"max_lat"`
	MinLon float64 `json:"minLon" yaml:"min_lon"`
	MaxLon float64 `json:"maxLon" yaml:"max_lon"`
}

// Ordered vertex ring, implicitly closed (last vertex connects to first).
type Polygon []Coordinate

// Ordered sequence of vertices traversed in order.
type Path []Coordinate

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
