package county

import (
	"fmt"
	"os"
	"strings"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"

	"gopkg.in/yaml.v3"
)

// Point is a named reference location in a county profile.
type Point struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"latitude" yaml:"lat"`
	Lon  float64 `json:"longitude" yaml:"lon"`
}

func (p Point) Coordinate() domain.Coordinate {
	return domain.Coordinate{Lat: p.Lat, Lon: p.Lon}
}

// Profile is static reference data for the county being evaluated.
type Profile struct {
	Name           string              `json:"name" yaml:"name"`
	Utility        string              `json:"utility" yaml:"utility"`
	Bounds         domain.CountyBounds `json:"bounds" yaml:"bounds"`
	Center         Point               `json:"center" yaml:"center"`
	RiverReference Point               `json:"riverReference" yaml:"river_reference"`
}

// Bosque returns the built-in Bosque County, Texas profile.
func Bosque() Profile {
	return Profile{
		Name:    "Bosque County",
		Utility: "Oncor",
		Bounds: domain.CountyBounds{
			MinLat: 31.65,
			MaxLat: 32.10,
			MinLon: -98.00,
			MaxLon: -97.40,
		},
		Center:         Point{Name: "Meridian", Lat: 31.8749, Lon: -97.6428},
		RiverReference: Point{Name: "Brazos River", Lat: 31.85, Lon: -97.60},
	}
}

// LoadProfile reads a YAML profile from path. Missing fields keep the
// Bosque defaults.
func LoadProfile(path string) (Profile, error) {
	p := Bosque()

	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("load county profile: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("load county profile: parse %q: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("load county profile: %w", err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	b := p.Bounds
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return &domain.ValidationError{Field: "bounds", Reason: "min must not exceed max"}
	}
	if err := p.Center.Coordinate().Validate(); err != nil {
		return err
	}
	return p.RiverReference.Coordinate().Validate()
}

// Water access rating derived from river distance.
const (
	WaterAccessExcellent = "excellent"
	WaterAccessGood      = "good"
	WaterAccessLimited   = "limited"
)

// LocationContext describes where a coordinate sits relative to the county.
type LocationContext struct {
	Coordinate           domain.Coordinate `json:"coordinate"`
	InCounty             bool              `json:"inCounty"`
	Territory            string            `json:"territory"`
	DistanceToCenter     float64           `json:"distanceToCenterMiles"`
	DistanceToRiverMiles float64           `json:"distanceToRiverMiles"`
	WaterAccess          string            `json:"waterAccess"`
}

// Territory labels a coordinate as inside or outside the county.
func (p Profile) Territory(c domain.Coordinate) string {
	if geo.ContainsPoint(p.Bounds, c) {
		if p.Utility == "" {
			return p.Name
		}
		return fmt.Sprintf("%s (%s Territory)", p.Name, p.Utility)
	}
	return "Outside " + p.Name
}

// Locate builds the LocationContext for c.
func (p Profile) Locate(c domain.Coordinate) (LocationContext, error) {
	if err := c.Validate(); err != nil {
		return LocationContext{}, err
	}

	river := geo.Distance(c, p.RiverReference.Coordinate())
	return LocationContext{
		Coordinate:           c,
		InCounty:             geo.ContainsPoint(p.Bounds, c),
		Territory:            p.Territory(c),
		DistanceToCenter:     geo.Distance(c, p.Center.Coordinate()),
		DistanceToRiverMiles: river,
		WaterAccess:          waterAccess(river),
	}, nil
}

func waterAccess(miles float64) string {
	switch {
	case miles < 5:
		return WaterAccessExcellent
	case miles < 15:
		return WaterAccessGood
	default:
		return WaterAccessLimited
	}
}
