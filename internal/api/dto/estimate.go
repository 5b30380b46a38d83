package dto

import "site-intel-service/internal/domain"

type SolarEstimateRequest struct {
	Name       string             `json:"name"`
	Acres      float64            `json:"acres"`
	Notes      string             `json:"notes"`
	Coordinate *domain.Coordinate `json:"coordinate"`
}

func (r SolarEstimateRequest) Inputs() domain.SolarInputs {
	return domain.SolarInputs{Name: r.Name, Acres: r.Acres, Notes: r.Notes}
}

type DataCenterEstimateRequest struct {
	Name           string             `json:"name"`
	Servers        int                `json:"servers"`
	WattsPerServer float64            `json:"wattsPerServer"`
	PUE            float64            `json:"pue"`
	Notes          string             `json:"notes"`
	Coordinate     *domain.Coordinate `json:"coordinate"`
}

func (r DataCenterEstimateRequest) Inputs() domain.DataCenterInputs {
	return domain.DataCenterInputs{
		Name:           r.Name,
		Servers:        r.Servers,
		WattsPerServer: r.WattsPerServer,
		PUE:            r.PUE,
		Notes:          r.Notes,
	}
}

type DataCenterCapacityRequest struct {
	Name       string             `json:"name"`
	TargetMW   float64            `json:"targetMW"`
	PUE        float64            `json:"pue"`
	Coordinate *domain.Coordinate `json:"coordinate"`
}

// DataCenterEstimateResponse is the estimate plus efficiency and cooling detail.
type DataCenterEstimateResponse struct {
	domain.DataCenterResult
	PUETier      string              `json:"pueTier"`
	WaterCooling domain.WaterCooling `json:"waterCooling"`
}

type MinimumAcresResponse struct {
	MinMW float64 `json:"minMW"`
	Acres float64 `json:"acres"`
}

type CompareSizesRequest struct {
	Name  string    `json:"name"`
	Acres []float64 `json:"acres"`
}

type CompareSizesResponse struct {
	Results []domain.SolarResult `json:"results"`
}

// BatchEstimateRequest holds solar parcels, data center facilities, or both.
type BatchEstimateRequest struct {
	Parcels    []SolarEstimateRequest      `json:"parcels"`
	Facilities []DataCenterEstimateRequest `json:"facilities"`
}

// BatchItem carries either a result or the reason the entry was rejected.
type BatchItem struct {
	Index  int    `json:"index"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type BatchEstimateResponse struct {
	Results    []BatchItem `json:"results"`
	Facilities []BatchItem `json:"facilities"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
}
