package services

import (
	"context"
	"math"
	"strings"
	"time"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"
)

// SolarEstimator sizes a solar farm from parcel acreage.
// It holds only reference data and is safe for concurrent use.
type SolarEstimator struct {
	Bounds domain.CountyBounds
	Now    func() time.Time
}

func NewSolarEstimator(bounds domain.CountyBounds) *SolarEstimator {
	return &SolarEstimator{Bounds: bounds, Now: time.Now}
}

// Estimate computes capacity, generation and financials for in.
// When at is non-nil the result carries the coordinate and whether it falls
// inside the county bounds.
func (e *SolarEstimator) Estimate(in domain.SolarInputs, at *domain.Coordinate) (domain.SolarResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := requireFinite("acres", in.Acres); err != nil {
		return domain.SolarResult{}, err
	}
	if err := validateStruct(in); err != nil {
		return domain.SolarResult{}, err
	}

	capacityMW := in.Acres * MWPerAcre
	if capacityMW <= 0 {
		return domain.SolarResult{}, &domain.ValidationError{Field: "acres", Reason: "is too small to estimate"}
	}
	annualMWh := capacityMW * HoursPerYear * CapacityFactor * (1 - SystemLosses)
	revenue := annualMWh * 1000 * PPARatePerKWh
	homes, err := floorInt("acres", annualMWh/MWhPerHomeYear)
	if err != nil {
		return domain.SolarResult{}, err
	}

	res := domain.SolarResult{
		Name:                in.Name,
		Acres:               in.Acres,
		Notes:               in.Notes,
		CapacityMW:          capacityMW,
		AnnualEnergyMWh:     annualMWh,
		HomesPowered:        homes,
		CapitalCost:         capacityMW * SolarCapexPerMW,
		AnnualOperatingCost: capacityMW * OAndMPerMWYear,
		AnnualRevenue:       revenue,
		RevenuePerAcre:      revenue / in.Acres,
		RevenuePerMW:        revenue / capacityMW,
		CalculatedAt:        e.now(),
	}
	if err := requireFiniteResult("acres",
		res.AnnualEnergyMWh, res.CapitalCost, res.AnnualOperatingCost,
		res.AnnualRevenue, res.RevenuePerAcre, res.RevenuePerMW,
	); err != nil {
		return domain.SolarResult{}, err
	}

	if at != nil {
		if err := at.Validate(); err != nil {
			return domain.SolarResult{}, err
		}
		c := *at
		inCounty := geo.ContainsPoint(e.Bounds, c)
		res.Coordinate = &c
		res.InCounty = &inCounty
	}

	return res, nil
}

// MinimumViableAcres returns the acreage needed to reach minMW of capacity.
func (e *SolarEstimator) MinimumViableAcres(minMW float64) (float64, error) {
	if err := requireFinite("min_mw", minMW); err != nil {
		return 0, err
	}
	if minMW <= 0 {
		return 0, &domain.ValidationError{Field: "min_mw", Reason: "must be greater than 0"}
	}
	return minMW / MWPerAcre, nil
}

// CompareSiteSizes estimates name at each positive acreage, in order.
// Non-positive and non-finite acreages are skipped.
func (e *SolarEstimator) CompareSiteSizes(name string, acres []float64) ([]domain.SolarResult, error) {
	out := make([]domain.SolarResult, 0, len(acres))
	for _, a := range acres {
		if !(a > 0) || math.IsInf(a, 1) {
			continue
		}
		r, err := e.Estimate(domain.SolarInputs{Name: name, Acres: a}, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// SolarJob is one parcel in a batch estimate.
type SolarJob struct {
	Inputs     domain.SolarInputs
	Coordinate *domain.Coordinate
}

// SolarOutcome pairs a batch job with its result or error.
type SolarOutcome struct {
	Result domain.SolarResult
	Err    error
}

// EstimateBatch runs Estimate for every job on a bounded worker pool.
// Outcomes are returned in job order; a failing job does not stop the others.
func (e *SolarEstimator) EstimateBatch(ctx context.Context, jobs []SolarJob, workers int) ([]SolarOutcome, error) {
	out := make([]SolarOutcome, len(jobs))
	err := fanOut(ctx, len(jobs), workers, func(i int) {
		r, err := e.Estimate(jobs[i].Inputs, jobs[i].Coordinate)
		out[i] = SolarOutcome{Result: r, Err: err}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *SolarEstimator) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}
