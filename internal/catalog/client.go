package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the university open-data API. It returns raw JSON
// records in whichever shape the API serves; normalization is the
// schedule package's job.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	cache      *Cache
}

// NewClient creates a catalog client. cache may be nil to disable
// caching (useful in tests).
func NewClient(baseURL, username, password string, cache *Cache) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}
}

// Records fetches all raw records for one course: the catalog listing
// plus the per-meeting schedule feed. A course the API does not know
// yields (nil, nil); that nil is distinct from a course that
// normalizes to zero valid sections.
func (c *Client) Records(ctx context.Context, subject, catalog string) ([]json.RawMessage, error) {
	key := strings.ToUpper(subject) + " " + strings.ToUpper(catalog)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	catalogRecords, err := c.fetch(ctx, fmt.Sprintf("/course/catalog/filter/%s/%s/UGRD", subject, catalog))
	if err != nil {
		return nil, fmt.Errorf("fetching catalog records: %w", err)
	}
	scheduleRecords, err := c.fetch(ctx, fmt.Sprintf("/course/schedule/filter/%s/%s", subject, catalog))
	if err != nil {
		return nil, fmt.Errorf("fetching schedule records: %w", err)
	}

	if catalogRecords == nil && scheduleRecords == nil {
		return nil, nil
	}

	records := make([]json.RawMessage, 0, len(catalogRecords)+len(scheduleRecords))
	records = append(records, catalogRecords...)
	records = append(records, scheduleRecords...)

	if c.cache != nil {
		c.cache.Set(key, records)
	}
	return records, nil
}

// fetch performs one authenticated GET and decodes the JSON array
// response. A 404 or an empty array reports not-found as nil.
func (c *Client) fetch(ctx context.Context, path string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d for %s", resp.StatusCode, path)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding response for %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}
