package livedns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListZones lists all zones visible to the API key
func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	resp, err := c.Do(ctx, Request{URL: "/zones"})
	if err != nil {
		return nil, err
	}

	var zones []Zone
	if err := resp.JSON(&zones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zones: %w", err)
	}
	return zones, nil
}

// GetZone fetches the current metadata of a zone
func (c *Client) GetZone(ctx context.Context, uuid string) (*Zone, error) {
	if uuid == "" {
		return nil, fmt.Errorf("zone uuid cannot be empty")
	}

	resp, err := c.Do(ctx, Request{URL: "/zones/" + uuid})
	if err != nil {
		return nil, err
	}

	var zone Zone
	if err := resp.JSON(&zone); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zone: %w", err)
	}
	return &zone, nil
}

// ListDomains lists the domains attached to a zone
func (c *Client) ListDomains(ctx context.Context, zone Zone) ([]Domain, error) {
	resp, err := c.Do(ctx, Request{URL: c.domainsURL(zone)})
	if err != nil {
		return nil, err
	}

	var domains []Domain
	if err := resp.JSON(&domains); err != nil {
		return nil, fmt.Errorf("failed to unmarshal domains: %w", err)
	}
	return domains, nil
}

// ListRecords lists the records of a zone
func (c *Client) ListRecords(ctx context.Context, zone Zone) ([]Record, error) {
	resp, err := c.Do(ctx, Request{URL: c.recordsURL(zone)})
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := resp.JSON(&records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return records, nil
}

// ExportRecords returns the plain-text representation of a zone's records
func (c *Client) ExportRecords(ctx context.Context, zone Zone) ([]byte, error) {
	resp, err := c.Do(ctx, Request{
		URL:     c.recordsURL(zone),
		Headers: map[string]string{"Accept": "text/plain"},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ReplaceRecords overwrites all records of a zone with the given plain text.
// The raw response is returned so callers can check the status code.
func (c *Client) ReplaceRecords(ctx context.Context, zone Zone, text []byte) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  http.MethodPut,
		URL:     c.recordsURL(zone),
		Body:    text,
		Headers: map[string]string{"Content-Type": "text/plain"},
	})
}

// CreateZone creates a new zone. Responses >= 400 are returned as *APIError.
func (c *Client) CreateZone(ctx context.Context, name string) (*CreateResult, error) {
	if name == "" {
		return nil, fmt.Errorf("zone name cannot be empty")
	}

	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.Do(ctx, Request{
		Method:  http.MethodPost,
		URL:     "/zones",
		Body:    payload,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return nil, err
	}

	result := &CreateResult{StatusCode: resp.StatusCode, Body: resp.Body}
	var msg Message
	if json.Unmarshal(resp.Body, &msg) == nil {
		result.UUID = msg.UUID
	}
	return result, nil
}

func (c *Client) recordsURL(zone Zone) string {
	if zone.ZoneRecordsHref != "" {
		return zone.ZoneRecordsHref
	}
	return "/zones/" + zone.UUID + "/records"
}

func (c *Client) domainsURL(zone Zone) string {
	if zone.DomainsHref != "" {
		return zone.DomainsHref
	}
	return "/zones/" + zone.UUID + "/domains"
}
