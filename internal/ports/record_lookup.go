package ports

import (
	"context"
	"time"
)

// A public record returned by the county clerk or appraisal district.
type Record struct {
	ID               string `json:"id"`
	DocumentType     string `json:"documentType"`
	InstrumentNumber string `json:"instrumentNumber,omitempty"`
	FiledDate        string `json:"filedDate,omitempty"`
	Grantor          string `json:"grantor,omitempty"`
	Grantee          string `json:"grantee,omitempty"`
	LegalDescription string `json:"legalDescription,omitempty"`
	Volume           string `json:"volume,omitempty"`
	Page             string `json:"page,omitempty"`
	PropertyID       string `json:"propertyId,omitempty"`
	Address          string `json:"address,omitempty"`
	Source           string `json:"source"`
	County           string `json:"county,omitempty"`
}

// Full document detail for a single record.
type Document struct {
	ID       string            `json:"id"`
	Source   string            `json:"source"`
	FullText string            `json:"fullText,omitempty"`
	Images   []string          `json:"images,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Contract for searching external public records. Implementations report
// failures without retrying.
type RecordLookup interface {
	SearchByName(ctx context.Context, name, recordType string) ([]Record, error)
	SearchByProperty(ctx context.Context, propertyID, address string) ([]Record, error)
	SearchByDateRange(ctx context.Context, start, end time.Time, recordType string) ([]Record, error)
	GetDocument(ctx context.Context, id, source string) (*Document, error)
	RecordTypes(ctx context.Context) ([]string, error)
}
