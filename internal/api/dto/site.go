package dto

import "site-intel-service/internal/domain"

// CreateSiteRequest saves a freshly computed estimate. The payload matching
// Type must be set; the server recomputes the result from it.
type CreateSiteRequest struct {
	Type       string                     `json:"type"`
	Solar      *SolarEstimateRequest      `json:"solar"`
	DataCenter *DataCenterEstimateRequest `json:"datacenter"`
}

type ListSitesResponse struct {
	Sites []*domain.Site `json:"sites"`
}

type ClearSitesResponse struct {
	Deleted int `json:"deleted"`
}
