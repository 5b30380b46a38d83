package domain

import "time"

// User-entered description of a candidate data center.
// Zero WattsPerServer and PUE select the defaults (500 W, 1.5).
type DataCenterInputs struct {
	Name           string  `json:"name" validate:"required"`
	Servers        int     `json:"servers" validate:"gt=0"`
	WattsPerServer float64 `json:"wattsPerServer,omitempty" validate:"gte=0"`
	PUE            float64 `json:"pue,omitempty" validate:"omitempty,gte=1"`
	Notes          string  `json:"notes,omitempty"`
}

// Derived data center load, cost and footprint estimate.
// OverheadKW is total minus IT minus cooling and is negative when PUE < 1.4.
type DataCenterResult struct {
	Name           string  `json:"name"`
	Servers        int     `json:"servers"`
	WattsPerServer float64 `json:"wattsPerServer"`
	PUE            float64 `json:"pue"`
	Notes          string  `json:"notes,omitempty"`

	ITLoadKW             float64 `json:"itLoadKW"`
	CoolingLoadKW        float64 `json:"coolingLoadKW"`
	OverheadKW           float64 `json:"overheadKW"`
	TotalFacilityLoadKW  float64 `json:"totalFacilityLoadKW"`
	TotalFacilityLoadMW  float64 `json:"totalFacilityLoadMW"`
	AnnualEnergyMWh      float64 `json:"annualEnergyMWh"`
	AnnualEnergyCost     float64 `json:"annualEnergyCost"`
	EstimatedCapitalCost float64 `json:"estimatedCapitalCost"`
	BuildingAreaSqFt     float64 `json:"buildingAreaSqFt"`
	TotalSiteSqFt        float64 `json:"totalSiteSqFt"`
	TotalSiteAcres       float64 `json:"totalSiteAcres"`
	ParkingSpaces        int     `json:"parkingSpaces"`
	RacksRequired        int     `json:"racksRequired"`

	CalculatedAt time.Time   `json:"calculatedAt"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`
	InCounty     *bool       `json:"inCounty,omitempty"`
}

// Cooling water estimate for a water-cooled design.
type WaterCooling struct {
	GallonsPerMinute float64 `json:"coolingWaterGPM"`
	AnnualGallons    float64 `json:"annualGallons"`
	AnnualAcreFeet   float64 `json:"annualAcreFeet"`
}
