package services

import (
	"context"
	"strings"
	"time"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"
)

// DataCenterEstimator sizes facility load, cost and footprint from a server
// count. Overhead is reported as computed and goes negative when PUE is
// below 1 + CoolingLoadMultiplier.
type DataCenterEstimator struct {
	Bounds domain.CountyBounds
	Now    func() time.Time
}

func NewDataCenterEstimator(bounds domain.CountyBounds) *DataCenterEstimator {
	return &DataCenterEstimator{Bounds: bounds, Now: time.Now}
}

func (e *DataCenterEstimator) Estimate(in domain.DataCenterInputs, at *domain.Coordinate) (domain.DataCenterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := requireFinite("wattsPerServer", in.WattsPerServer); err != nil {
		return domain.DataCenterResult{}, err
	}
	if err := requireFinite("pue", in.PUE); err != nil {
		return domain.DataCenterResult{}, err
	}
	if err := validateStruct(in); err != nil {
		return domain.DataCenterResult{}, err
	}
	if in.WattsPerServer == 0 {
		in.WattsPerServer = DefaultWattsPerServer
	}
	if in.PUE == 0 {
		in.PUE = DefaultPUE
	}

	itKW := float64(in.Servers) * in.WattsPerServer / 1000
	totalKW := itKW * in.PUE
	coolingKW := itKW * CoolingLoadMultiplier
	annualMWh := totalKW * HoursPerYear / 1000
	land, err := LandFor(totalKW)
	if err != nil {
		return domain.DataCenterResult{}, err
	}

	res := domain.DataCenterResult{
		Name:                 in.Name,
		Servers:              in.Servers,
		WattsPerServer:       in.WattsPerServer,
		PUE:                  in.PUE,
		Notes:                in.Notes,
		ITLoadKW:             itKW,
		CoolingLoadKW:        coolingKW,
		OverheadKW:           totalKW - itKW - coolingKW,
		TotalFacilityLoadKW:  totalKW,
		TotalFacilityLoadMW:  totalKW / 1000,
		AnnualEnergyMWh:      annualMWh,
		AnnualEnergyCost:     annualMWh * 1000 * ElectricityRatePerKWh,
		EstimatedCapitalCost: itKW * DCCapexPerKW,
		BuildingAreaSqFt:     land.BuildingSqFt,
		TotalSiteSqFt:        land.TotalSiteSqFt,
		TotalSiteAcres:       land.TotalSiteAcres,
		ParkingSpaces:        land.ParkingSpaces,
		RacksRequired:        racksFor(in.Servers),
		CalculatedAt:         e.now(),
	}
	if err := requireFiniteResult("servers",
		res.ITLoadKW, res.CoolingLoadKW, res.OverheadKW, res.TotalFacilityLoadKW,
		res.AnnualEnergyMWh, res.AnnualEnergyCost, res.EstimatedCapitalCost,
		res.BuildingAreaSqFt, res.TotalSiteSqFt, res.TotalSiteAcres,
	); err != nil {
		return domain.DataCenterResult{}, err
	}

	if at != nil {
		if err := at.Validate(); err != nil {
			return domain.DataCenterResult{}, err
		}
		c := *at
		inCounty := geo.ContainsPoint(e.Bounds, c)
		res.Coordinate = &c
		res.InCounty = &inCounty
	}

	return res, nil
}

// EstimateFromCapacity works backwards from a target facility load to a
// server count at the default per-server draw, then estimates as usual.
// A zero pue selects DefaultPUE.
func (e *DataCenterEstimator) EstimateFromCapacity(name string, targetMW, pue float64, at *domain.Coordinate) (domain.DataCenterResult, error) {
	if err := requireFinite("targetMW", targetMW, pue); err != nil {
		return domain.DataCenterResult{}, err
	}
	if targetMW <= 0 {
		return domain.DataCenterResult{}, &domain.ValidationError{Field: "targetMW", Reason: "must be greater than 0"}
	}
	if pue == 0 {
		pue = DefaultPUE
	}
	if pue < 1 {
		return domain.DataCenterResult{}, &domain.ValidationError{Field: "pue", Reason: "must be at least 1"}
	}

	itKW := targetMW * 1000 / pue
	servers, err := floorInt("targetMW", itKW*1000/DefaultWattsPerServer)
	if err != nil {
		return domain.DataCenterResult{}, err
	}
	if servers <= 0 {
		return domain.DataCenterResult{}, &domain.ValidationError{Field: "targetMW", Reason: "too small for a single server"}
	}

	return e.Estimate(domain.DataCenterInputs{
		Name:           name,
		Servers:        servers,
		WattsPerServer: DefaultWattsPerServer,
		PUE:            pue,
	}, at)
}

// LandRequirement is the facility footprint for a given facility load.
type LandRequirement struct {
	BuildingSqFt   float64 `json:"buildingSqFt"`
	TotalSiteSqFt  float64 `json:"totalSiteSqFt"`
	TotalSiteAcres float64 `json:"totalSiteAcres"`
	ParkingSpaces  int     `json:"parkingSpaces"`
}

func LandFor(totalKW float64) (LandRequirement, error) {
	building := totalKW * SqFtPerKW
	site := building * SiteToBuilding
	parking, err := floorInt("servers", totalKW/KWPerParkingSpace)
	if err != nil {
		return LandRequirement{}, err
	}
	return LandRequirement{
		BuildingSqFt:   building,
		TotalSiteSqFt:  site,
		TotalSiteAcres: site / sqFtPerAcre,
		ParkingSpaces:  parking,
	}, nil
}

// racksFor rounds servers up to whole racks without overflowing.
func racksFor(servers int) int {
	racks := servers / ServersPerRack
	if servers%ServersPerRack != 0 {
		racks++
	}
	return racks
}

// WaterCoolingFor estimates evaporative cooling water demand for an IT load.
func WaterCoolingFor(itKW float64) (domain.WaterCooling, error) {
	if err := requireFinite("itLoadKW", itKW); err != nil {
		return domain.WaterCooling{}, err
	}
	if itKW < 0 {
		return domain.WaterCooling{}, &domain.ValidationError{Field: "itLoadKW", Reason: "must be at least 0"}
	}
	gpm := itKW / 100 * GPMPer100KW
	gallons := gpm * 60 * 24 * 365
	return domain.WaterCooling{
		GallonsPerMinute: gpm,
		AnnualGallons:    gallons,
		AnnualAcreFeet:   gallons / GallonsPerAcreFt,
	}, nil
}

// PUETier names the efficiency band a PUE falls into.
func PUETier(pue float64) string {
	switch {
	case pue <= PUEExcellent:
		return "excellent"
	case pue <= PUEGood:
		return "good"
	case pue <= PUEAverage:
		return "average"
	default:
		return "poor"
	}
}

// DataCenterJob is one facility in a batch estimate.
type DataCenterJob struct {
	Inputs     domain.DataCenterInputs
	Coordinate *domain.Coordinate
}

type DataCenterOutcome struct {
	Result domain.DataCenterResult
	Err    error
}

// EstimateBatch runs Estimate for every job on a bounded worker pool.
func (e *DataCenterEstimator) EstimateBatch(ctx context.Context, jobs []DataCenterJob, workers int) ([]DataCenterOutcome, error) {
	out := make([]DataCenterOutcome, len(jobs))
	err := fanOut(ctx, len(jobs), workers, func(i int) {
		r, err := e.Estimate(jobs[i].Inputs, jobs[i].Coordinate)
		out[i] = DataCenterOutcome{Result: r, Err: err}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *DataCenterEstimator) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}
