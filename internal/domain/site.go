package domain

import (
	"fmt"
	"time"
)

type SiteType string

const (
	SiteTypeSolar      SiteType = "solar"
	SiteTypeDataCenter SiteType = "datacenter"
)

// ParseSiteType accepts the two stored type names; empty means "any".
func ParseSiteType(s string) (SiteType, error) {
	switch SiteType(s) {
	case "", SiteTypeSolar, SiteTypeDataCenter:
		return SiteType(s), nil
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("must be %q or %q", SiteTypeSolar, SiteTypeDataCenter)}
}

// A saved estimate. Exactly one of Solar or DataCenter is set, matching Type.
// The ID is assigned by the store on save.
type Site struct {
	ID         string            `json:"id"`
	Type       SiteType          `json:"type"`
	SavedAt    time.Time         `json:"savedAt"`
	Territory  string            `json:"territory,omitempty"`
	Solar      *SolarResult      `json:"solar,omitempty"`
	DataCenter *DataCenterResult `json:"datacenter,omitempty"`
}

func NewSolarSite(r SolarResult, territory string) *Site {
	return &Site{Type: SiteTypeSolar, Solar: &r, Territory: territory}
}

func NewDataCenterSite(r DataCenterResult, territory string) *Site {
	return &Site{Type: SiteTypeDataCenter, DataCenter: &r, Territory: territory}
}

// Validate checks that the payload matches the declared type.
func (s *Site) Validate() error {
	switch s.Type {
	case SiteTypeSolar:
		if s.Solar == nil || s.DataCenter != nil {
			return &ValidationError{Field: "solar", Reason: "payload required for solar site"}
		}
	case SiteTypeDataCenter:
		if s.DataCenter == nil || s.Solar != nil {
			return &ValidationError{Field: "datacenter", Reason: "payload required for datacenter site"}
		}
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown site type %q", s.Type)}
	}
	if s.Name() == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func (s *Site) Name() string {
	switch {
	case s.Solar != nil:
		return s.Solar.Name
	case s.DataCenter != nil:
		return s.DataCenter.Name
	}
	return ""
}

func (s *Site) Notes() string {
	switch {
	case s.Solar != nil:
		return s.Solar.Notes
	case s.DataCenter != nil:
		return s.DataCenter.Notes
	}
	return ""
}

func (s *Site) Coordinate() *Coordinate {
	switch {
	case s.Solar != nil:
		return s.Solar.Coordinate
	case s.DataCenter != nil:
		return s.DataCenter.Coordinate
	}
	return nil
}

// Acres is the parcel acreage for solar sites and the estimated site
// acreage for data centers.
func (s *Site) Acres() float64 {
	switch {
	case s.Solar != nil:
		return s.Solar.Acres
	case s.DataCenter != nil:
		return s.DataCenter.TotalSiteAcres
	}
	return 0
}

// CapacityMW is generation capacity for solar and facility load for data centers.
func (s *Site) CapacityMW() float64 {
	switch {
	case s.Solar != nil:
		return s.Solar.CapacityMW
	case s.DataCenter != nil:
		return s.DataCenter.TotalFacilityLoadMW
	}
	return 0
}

// Aggregate figures over the saved sites.
type SiteStats struct {
	TotalSites      int              `json:"totalSites"`
	ByType          map[SiteType]int `json:"byType"`
	TotalAcres      float64          `json:"totalAcres"`
	TotalCapacityMW float64          `json:"totalCapacityMW"`
}

// ComputeStats folds a site list into SiteStats.
func ComputeStats(sites []*Site) SiteStats {
	st := SiteStats{ByType: map[SiteType]int{}}
	for _, s := range sites {
		st.TotalSites++
		st.ByType[s.Type]++
		if s.Type == SiteTypeSolar {
			st.TotalAcres += s.Acres()
		}
		st.TotalCapacityMW += s.CapacityMW()
	}
	return st
}
