package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"site-intel-service/internal/platform/obs"
	"site-intel-service/internal/ports"
)

const dateLayout = "2006-01-02"

// HTTPClient implements RecordLookup against a JSON records API.
//
// Endpoints, relative to BaseURL:
//   - GET /search/name?name=&type=
//   - GET /search/property?property_id=&address=
//   - GET /search/date?start_date=&end_date=&type=
//   - GET /documents/{id}?source=
//   - GET /types
//
// The client is safe for concurrent use.
type HTTPClient struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("records base url is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("records base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

type searchResponse struct {
	Results []ports.Record `json:"results"`
}

type documentResponse struct {
	Document *ports.Document `json:"document"`
}

type typesResponse struct {
	RecordTypes []string `json:"record_types"`
}

func (c *HTTPClient) SearchByName(ctx context.Context, name, recordType string) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.SearchByName")(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &LookupError{Op: "search by name", Err: errors.New("name is required")}
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("type", typeOrAll(recordType))

	var out searchResponse
	if err := c.getJSON(ctx, "search by name", "/search/name", q, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Results), nil
}

func (c *HTTPClient) SearchByProperty(ctx context.Context, propertyID, address string) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.SearchByProperty")(&err)

	propertyID = strings.TrimSpace(propertyID)
	address = strings.TrimSpace(address)
	if propertyID == "" && address == "" {
		return nil, &LookupError{Op: "search by property", Err: errors.New("property id or address is required")}
	}

	q := url.Values{}
	if propertyID != "" {
		q.Set("property_id", propertyID)
	}
	if address != "" {
		q.Set("address", address)
	}

	var out searchResponse
	if err := c.getJSON(ctx, "search by property", "/search/property", q, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Results), nil
}

func (c *HTTPClient) SearchByDateRange(ctx context.Context, start, end time.Time, recordType string) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.SearchByDateRange")(&err)

	if end.Before(start) {
		return nil, &LookupError{Op: "search by date", Err: errors.New("end date before start date")}
	}

	q := url.Values{}
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	q.Set("type", typeOrAll(recordType))

	var out searchResponse
	if err := c.getJSON(ctx, "search by date", "/search/date", q, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Results), nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, id, source string) (_ *ports.Document, err error) {
	defer obs.Time(ctx, "records.GetDocument")(&err)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &LookupError{Op: "get document", Err: errors.New("document id is required")}
	}

	q := url.Values{}
	if s := strings.TrimSpace(source); s != "" {
		q.Set("source", s)
	}

	var out documentResponse
	if err := c.getJSON(ctx, "get document", "/documents/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	if out.Document == nil {
		return nil, &LookupError{Op: "get document", Err: ErrNotFound}
	}
	return out.Document, nil
}

func (c *HTTPClient) RecordTypes(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, "records.RecordTypes")(&err)

	var out typesResponse
	if err := c.getJSON(ctx, "record types", "/types", nil, &out); err != nil {
		return nil, err
	}
	if out.RecordTypes == nil {
		return []string{}, nil
	}
	return out.RecordTypes, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	return req, nil
}

// do sends req once. Responses with status >= 400 become *httpStatusError.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, op, path string, q url.Values, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, q)
	if err != nil {
		return &LookupError{Op: op, Err: err}
	}

	resp, err := c.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			if he.Code == http.StatusNotFound {
				return &LookupError{Op: op, Status: he.Code, Err: ErrNotFound}
			}
			return &LookupError{Op: op, Status: he.Code, Err: he}
		}
		return &LookupError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &LookupError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func typeOrAll(t string) string {
	if t = strings.TrimSpace(t); t == "" {
		return "all"
	}
	return t
}

func nonNil(rs []ports.Record) []ports.Record {
	if rs == nil {
		return []ports.Record{}
	}
	return rs
}
