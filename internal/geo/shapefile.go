package geo

import (
	"fmt"
	"math"
	"strings"

	"site-intel-service/internal/domain"

	shp "github.com/jonas-p/go-shp"
)

// nameFields are attribute columns tried, in order, to label a parcel.
var nameFields = []string{"NAME", "PARCEL_ID", "PROP_ID", "OWNER"}

// Parcel is one polygon record read from a parcel shapefile.
type Parcel struct {
	Index int
	Name  string
	Rings []domain.Polygon
	Attrs map[string]string
	Acres float64
}

// LoadParcels reads every polygon record of the shapefile at path.
// Non-polygon shapes are skipped. Outer rings (clockwise) add to the acreage
// and holes (counter-clockwise) subtract from it. Coordinates must be WGS84
// lon/lat; projected files and malformed part ranges are rejected.
func LoadParcels(path string) ([]Parcel, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load parcels: open %q: %w", path, err)
	}
	defer r.Close()

	fields := r.Fields()

	var parcels []Parcel
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		numParts := len(poly.Parts)
		rings := make([]domain.Polygon, 0, numParts)
		var signed float64
		for partIdx := 0; partIdx < numParts; partIdx++ {
			start, end, err := partBounds(poly.Parts, partIdx, len(poly.Points))
			if err != nil {
				return nil, fmt.Errorf("load parcels: record %d: %w", idx, err)
			}
			ring := make(domain.Polygon, 0, end-start)
			for _, pt := range poly.Points[start:end] {
				c := domain.Coordinate{Lat: pt.Y, Lon: pt.X}
				if err := c.Validate(); err != nil {
					return nil, fmt.Errorf("load parcels: record %d: not WGS84 lon/lat: %w", idx, err)
				}
				ring = append(ring, c)
			}
			ring = trimClosing(ring)
			if len(ring) < 3 {
				continue
			}
			rings = append(rings, ring)
			signed += signedAreaSqFt(ring)
		}
		if len(rings) == 0 {
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[f.String()] = strings.TrimSpace(r.ReadAttribute(idx, i))
		}

		parcels = append(parcels, Parcel{
			Index: idx,
			Name:  parcelName(idx, attrs),
			Rings: rings,
			Attrs: attrs,
			Acres: math.Abs(signed) / SqFtPerAcre,
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("load parcels: read %q: %w", path, err)
	}
	return parcels, nil
}

// partBounds returns the point range of part i.
func partBounds(parts []int32, i, numPoints int) (int, int, error) {
	start := int(parts[i])
	end := numPoints
	if i+1 < len(parts) {
		end = int(parts[i+1])
	}
	if start < 0 || end < start || end > numPoints {
		return 0, 0, fmt.Errorf("part %d: invalid point range %d..%d of %d", i, start, end, numPoints)
	}
	return start, end, nil
}

func parcelName(idx int, attrs map[string]string) string {
	for _, f := range nameFields {
		if v := attrs[f]; v != "" {
			return v
		}
	}
	return fmt.Sprintf("parcel-%d", idx)
}
