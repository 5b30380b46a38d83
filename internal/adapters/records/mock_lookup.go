package records

import (
	"context"
	"strings"
	"sync"
	"time"

	"site-intel-service/internal/ports"
)

// MockLookup is an in-memory RecordLookup for tests and offline runs.
// Err, when set, is returned by every call.
type MockLookup struct {
	mu        sync.Mutex
	Records   []ports.Record
	Documents map[string]*ports.Document
	Types     []string
	Err       error
	Calls     int
}

func (m *MockLookup) hit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}

func (m *MockLookup) SearchByName(ctx context.Context, name, recordType string) ([]ports.Record, error) {
	if err := m.hit(); err != nil {
		return nil, err
	}
	name = strings.ToLower(name)
	out := []ports.Record{}
	for _, r := range m.Records {
		if !matchesType(r, recordType) {
			continue
		}
		if strings.Contains(strings.ToLower(r.Grantor), name) || strings.Contains(strings.ToLower(r.Grantee), name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockLookup) SearchByProperty(ctx context.Context, propertyID, address string) ([]ports.Record, error) {
	if err := m.hit(); err != nil {
		return nil, err
	}
	out := []ports.Record{}
	for _, r := range m.Records {
		if (propertyID != "" && r.PropertyID == propertyID) ||
			(address != "" && strings.Contains(strings.ToLower(r.Address), strings.ToLower(address))) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockLookup) SearchByDateRange(ctx context.Context, start, end time.Time, recordType string) ([]ports.Record, error) {
	if err := m.hit(); err != nil {
		return nil, err
	}
	out := []ports.Record{}
	for _, r := range m.Records {
		filed, err := time.Parse(dateLayout, r.FiledDate)
		if err != nil || !matchesType(r, recordType) {
			continue
		}
		if !filed.Before(start) && !filed.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockLookup) GetDocument(ctx context.Context, id, source string) (*ports.Document, error) {
	if err := m.hit(); err != nil {
		return nil, err
	}
	d, ok := m.Documents[id]
	if !ok {
		return nil, &LookupError{Op: "get document", Status: 404, Err: ErrNotFound}
	}
	return d, nil
}

func (m *MockLookup) RecordTypes(ctx context.Context) ([]string, error) {
	if err := m.hit(); err != nil {
		return nil, err
	}
	return m.Types, nil
}

func matchesType(r ports.Record, t string) bool {
	return t == "" || t == "all" || strings.EqualFold(r.DocumentType, t)
}
