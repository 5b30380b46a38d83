package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"site-intel-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CSVHeader is the fixed column set shared by solar and data center rows.
// Columns that do not apply to a row's type are left empty.
var CSVHeader = []string{
	"id", "type", "name", "savedAt",
	"acres", "capacityMW", "annualEnergyMWh", "homesPowered", "capitalCost", "annualRevenue", "revenuePerAcre",
	"servers", "itLoadKW", "totalFacilityLoadMW", "annualEnergyCost", "estimatedCapitalCost", "buildingAreaSqFt", "totalSiteAcres", "racksRequired",
	"latitude", "longitude", "accuracy", "inCounty", "territory", "notes",
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// WriteCSV writes one row per site under CSVHeader.
func WriteCSV(w io.Writer, sites []*domain.Site) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("export csv: header: %w", err)
	}

	for _, s := range sites {
		if err := cw.Write(csvRow(s)); err != nil {
			return fmt.Errorf("export csv: site %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}
	return nil
}

func csvRow(s *domain.Site) []string {
	row := make([]string, 0, len(CSVHeader))
	row = append(row, s.ID, string(s.Type), s.Name(), s.SavedAt.UTC().Format(time.RFC3339))

	if r := s.Solar; r != nil {
		row = append(row,
			num(r.Acres), num(r.CapacityMW), num(r.AnnualEnergyMWh), strconv.Itoa(r.HomesPowered),
			num(r.CapitalCost), num(r.AnnualRevenue), num(r.RevenuePerAcre),
			"", "", "", "", "", "", "", "",
		)
	} else if r := s.DataCenter; r != nil {
		row = append(row,
			"", num(r.TotalFacilityLoadMW), num(r.AnnualEnergyMWh), "", "", "", "",
			strconv.Itoa(r.Servers), num(r.ITLoadKW), num(r.TotalFacilityLoadMW), num(r.AnnualEnergyCost),
			num(r.EstimatedCapitalCost), num(r.BuildingAreaSqFt), num(r.TotalSiteAcres), strconv.Itoa(r.RacksRequired),
		)
	} else {
		row = append(row, make([]string, 15)...)
	}

	if c := s.Coordinate(); c != nil {
		row = append(row, num(c.Lat), num(c.Lon), optNum(c.Accuracy))
	} else {
		row = append(row, "", "", "")
	}

	row = append(row, inCounty(s), s.Territory, s.Notes())
	return row
}

// SitesFeatureCollection builds a GeoJSON point layer of geotagged sites.
// Sites without a coordinate are omitted.
func SitesFeatureCollection(sites []*domain.Site) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range sites {
		c := s.Coordinate()
		if c == nil {
			continue
		}

		f := geojson.NewFeature(orb.Point{c.Lon, c.Lat})
		f.ID = s.ID
		f.Properties["id"] = s.ID
		f.Properties["type"] = string(s.Type)
		f.Properties["name"] = s.Name()
		f.Properties["savedAt"] = s.SavedAt.UTC().Format(time.RFC3339)
		f.Properties["capacityMW"] = s.CapacityMW()
		f.Properties["acres"] = s.Acres()
		if s.Territory != "" {
			f.Properties["territory"] = s.Territory
		}
		if v := inCounty(s); v != "" {
			f.Properties["inCounty"] = v == "true"
		}
		if n := s.Notes(); n != "" {
			f.Properties["notes"] = n
		}
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes the sites feature collection.
func WriteGeoJSON(w io.Writer, sites []*domain.Site) error {
	b, err := SitesFeatureCollection(sites).MarshalJSON()
	if err != nil {
		return fmt.Errorf("export geojson: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("export geojson: write: %w", err)
	}
	return nil
}

func inCounty(s *domain.Site) string {
	var p *bool
	switch {
	case s.Solar != nil:
		p = s.Solar.InCounty
	case s.DataCenter != nil:
		p = s.DataCenter.InCounty
	}
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optNum(f float64) string {
	if f == 0 {
		return ""
	}
	return num(f)
}
