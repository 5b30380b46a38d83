package dto

import "site-intel-service/internal/ports"

type ListRecordsResponse struct {
	Records []ports.Record `json:"records"`
}

type RecordTypesResponse struct {
	Types []string `json:"types"`
}
