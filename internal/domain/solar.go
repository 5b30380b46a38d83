package domain

import "time"

// User-entered description of a candidate solar farm parcel.
type SolarInputs struct {
	Name  string  `json:"name" validate:"required"`
	Acres float64 `json:"acres" validate:"gt=0"`
	Notes string  `json:"notes,omitempty"`
}

// Derived solar farm estimate. Created once per estimate and never mutated;
// a caller that needs an updated estimate computes a new result.
type SolarResult struct {
	Name  string  `json:"name"`
	Acres float64 `json:"acres"`
	Notes string  `json:"notes,omitempty"`

	CapacityMW          float64 `json:"capacityMW"`
	AnnualEnergyMWh     float64 `json:"annualEnergyMWh"`
	HomesPowered        int     `json:"homesPowered"`
	CapitalCost         float64 `json:"capitalCost"`
	AnnualOperatingCost float64 `json:"annualOperatingCost"`
	AnnualRevenue       float64 `json:"annualRevenue"`
	RevenuePerAcre      float64 `json:"revenuePerAcre"`
	RevenuePerMW        float64 `json:"revenuePerMW"`

	CalculatedAt time.Time   `json:"calculatedAt"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`
	InCounty     *bool       `json:"inCounty,omitempty"`
}
