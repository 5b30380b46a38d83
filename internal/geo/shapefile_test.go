package geo

import (
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"

	"site-intel-service/internal/domain"
)

func writeParcelShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}

	// clockwise outer ring, closed as shapefiles store it
	ring := []shp.Point{
		{X: -97.65, Y: 31.87},
		{X: -97.65, Y: 31.88},
		{X: -97.64, Y: 31.88},
		{X: -97.64, Y: 31.87},
		{X: -97.65, Y: 31.87},
	}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	w.Write(&poly)

	w.SetFields([]shp.Field{shp.StringField("NAME", 20)})
	w.WriteAttribute(0, 0, "Hico Road Tract")
	w.Close()

	return path
}

func TestLoadParcels(t *testing.T) {
	path := writeParcelShapefile(t)

	parcels, err := LoadParcels(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parcels) != 1 {
		t.Fatalf("parcels = %d, want 1", len(parcels))
	}

	p := parcels[0]
	if p.Name != "Hico Road Tract" {
		t.Fatalf("name = %q, want %q", p.Name, "Hico Road Tract")
	}
	if len(p.Rings) != 1 || len(p.Rings[0]) != 4 {
		t.Fatalf("rings = %v, want one ring of 4 vertices", p.Rings)
	}

	want, _ := PolygonAreaAcres(smallSquare())
	if !approxEqual(p.Acres, want, 1e-9) {
		t.Fatalf("acres = %v, want %v", p.Acres, want)
	}
}

func TestLoadParcelsMissingFile(t *testing.T) {
	if _, err := LoadParcels(filepath.Join(t.TempDir(), "missing.shp")); err == nil {
		t.Fatalf("expected error for missing shapefile")
	}
}

func writePolygon(t *testing.T, poly *shp.Polygon) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}
	w.Write(poly)
	w.SetFields([]shp.Field{shp.StringField("NAME", 20)})
	w.WriteAttribute(0, 0, "Bad Tract")
	w.Close()

	return path
}

func TestLoadParcelsRejectsProjectedCoordinates(t *testing.T) {
	// Texas State Plane feet, not lon/lat
	ring := []shp.Point{
		{X: 2300000, Y: 7000000},
		{X: 2300000, Y: 7000500},
		{X: 2300500, Y: 7000500},
		{X: 2300500, Y: 7000000},
		{X: 2300000, Y: 7000000},
	}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))

	_, err := LoadParcels(writePolygon(t, &poly))
	if err == nil {
		t.Fatalf("expected error for projected coordinates")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLoadParcelsRejectsBadPartRange(t *testing.T) {
	poly := shp.Polygon{
		Box:       shp.Box{MinX: -97.65, MinY: 31.87, MaxX: -97.64, MaxY: 31.88},
		NumParts:  2,
		NumPoints: 4,
		Parts:     []int32{3, 1},
		Points: []shp.Point{
			{X: -97.65, Y: 31.87},
			{X: -97.65, Y: 31.88},
			{X: -97.64, Y: 31.88},
			{X: -97.64, Y: 31.87},
		},
	}

	if _, err := LoadParcels(writePolygon(t, &poly)); err == nil {
		t.Fatalf("expected error for descending part offsets")
	}
}

func TestPartBounds(t *testing.T) {
	tests := []struct {
		name      string
		parts     []int32
		i         int
		numPoints int
		start     int
		end       int
		wantErr   bool
	}{
		{"single part", []int32{0}, 0, 5, 0, 5, false},
		{"first of two", []int32{0, 5}, 0, 9, 0, 5, false},
		{"last of two", []int32{0, 5}, 1, 9, 5, 9, false},
		{"descending", []int32{3, 1}, 0, 4, 0, 0, true},
		{"negative start", []int32{-1}, 0, 4, 0, 0, true},
		{"past end", []int32{0, 7}, 1, 4, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := partBounds(tt.parts, tt.i, tt.numPoints)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if start != tt.start || end != tt.end {
				t.Fatalf("bounds = %d..%d, want %d..%d", start, end, tt.start, tt.end)
			}
		})
	}
}
