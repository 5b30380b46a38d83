package geo

import (
	"encoding/json"
	"fmt"

	"site-intel-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// PolygonFromGeoJSON extracts the outer ring of a Polygon given as a bare
// geometry, a Feature, or the first feature of a FeatureCollection.
func PolygonFromGeoJSON(data []byte) (domain.Polygon, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &domain.ValidationError{Field: "geojson", Reason: "must be a JSON object"}
	}

	var g orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, &domain.ValidationError{Field: "geojson", Reason: err.Error()}
		}
		if len(fc.Features) == 0 {
			return nil, &domain.ValidationError{Field: "geojson", Reason: "feature collection is empty"}
		}
		g = fc.Features[0].Geometry
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, &domain.ValidationError{Field: "geojson", Reason: err.Error()}
		}
		g = f.Geometry
	default:
		geom, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, &domain.ValidationError{Field: "geojson", Reason: err.Error()}
		}
		g = geom.Geometry()
	}

	poly, ok := g.(orb.Polygon)
	if !ok {
		return nil, &domain.ValidationError{Field: "geojson", Reason: fmt.Sprintf("geometry must be Polygon, got %T", g)}
	}
	if len(poly) == 0 {
		return nil, domain.ErrDegeneratePolygon
	}
	return RingToPolygon(poly[0]), nil
}

// RingToPolygon converts an orb ring to vertices, dropping the repeated
// closing point GeoJSON requires.
func RingToPolygon(r orb.Ring) domain.Polygon {
	out := make(domain.Polygon, 0, len(r))
	for _, p := range r {
		out = append(out, domain.Coordinate{Lat: p.Lat(), Lon: p.Lon()})
	}
	return trimClosing(out)
}

// PolygonToRing converts vertices into a closed orb ring.
func PolygonToRing(poly domain.Polygon) orb.Ring {
	r := make(orb.Ring, 0, len(poly)+1)
	for _, c := range poly {
		r = append(r, orb.Point{c.Lon, c.Lat})
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}
