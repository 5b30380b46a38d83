package dto

import (
	"encoding/json"

	"site-intel-service/internal/domain"
)

type DistanceRequest struct {
	From domain.Coordinate `json:"from"`
	To   domain.Coordinate `json:"to"`
}

type DistanceResponse struct {
	Miles float64 `json:"miles"`
}

// AreaRequest takes either a vertex list or a GeoJSON polygon, not both.
type AreaRequest struct {
	Vertices []domain.Coordinate `json:"vertices"`
	GeoJSON  json.RawMessage     `json:"geojson"`
}

type AreaResponse struct {
	Acres            float64 `json:"acres"`
	Vertices         int     `json:"vertices"`
	SelfIntersecting bool    `json:"selfIntersecting"`
}

type PathLengthRequest struct {
	Points []domain.Coordinate `json:"points"`
}

type PathLengthResponse struct {
	Miles  float64 `json:"miles"`
	Points int     `json:"points"`
}
