// Package cloudflare is a thin client for the Cloudflare v4 REST API,
// covering the zone and DNS record operations the synchronizer needs.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Client calls the Cloudflare API with bearer authentication. Every call
// distinguishes transport failures, provider rejections (*APIError), and
// empty results (not found, not an error).
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     logr.Logger
}

// New creates a Client. An empty baseURL selects the production endpoint.
func New(log logr.Logger, token, baseURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("cloudflare: missing API token")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}, nil
}

// doRequest executes one API call and decodes the response envelope,
// returning the raw result payload on success.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cloudflare: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		envelope
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("cloudflare: %s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if !env.Success {
		messages := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			messages = append(messages, e.Message)
		}
		if len(messages) == 0 {
			messages = append(messages, fmt.Sprintf("request failed with status %d", resp.StatusCode))
		}
		return nil, &APIError{Messages: messages}
	}

	return env.Result, nil
}

// ListZones returns the active zones matching the given name. An empty slice
// means no such zone exists.
func (c *Client) ListZones(ctx context.Context, name string) ([]Zone, error) {
	query := url.Values{
		"name":   {name},
		"status": {"active"},
	}
	raw, err := c.doRequest(ctx, http.MethodGet, "/zones", query, nil)
	if err != nil {
		return nil, err
	}

	var zones []Zone
	if err := unmarshalResult(raw, &zones); err != nil {
		return nil, fmt.Errorf("cloudflare: decode zones: %w", err)
	}
	c.log.V(1).Info("listed zones", "name", name, "count", len(zones))
	return zones, nil
}

// ListRecords returns the records in the zone matching type and name. An
// empty slice means the record does not exist.
func (c *Client) ListRecords(ctx context.Context, zoneID, recordType, name string) ([]Record, error) {
	query := url.Values{
		"type": {recordType},
		"name": {name},
	}
	raw, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/zones/%s/dns_records", zoneID), query, nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := unmarshalResult(raw, &records); err != nil {
		return nil, fmt.Errorf("cloudflare: decode records: %w", err)
	}
	c.log.V(1).Info("listed records", "zone", zoneID, "name", name, "count", len(records))
	return records, nil
}

// CreateRecord creates a new record in the zone and returns it with its
// provider-assigned ID.
func (c *Client) CreateRecord(ctx context.Context, zoneID string, params RecordParams) (Record, error) {
	raw, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/zones/%s/dns_records", zoneID), nil, params)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := unmarshalResult(raw, &record); err != nil {
		return Record{}, fmt.Errorf("cloudflare: decode created record: %w", err)
	}
	return record, nil
}

// UpdateRecord replaces the record identified by recordID. This is a full
// replace (PUT), not a partial patch.
func (c *Client) UpdateRecord(ctx context.Context, zoneID, recordID string, params RecordParams) (Record, error) {
	raw, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/zones/%s/dns_records/%s", zoneID, recordID), nil, params)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := unmarshalResult(raw, &record); err != nil {
		return Record{}, fmt.Errorf("cloudflare: decode updated record: %w", err)
	}
	return record, nil
}

// unmarshalResult decodes a result payload, treating an absent or null result
// as the zero value.
func unmarshalResult(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
