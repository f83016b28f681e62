// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affil talks to the affiliation-parsing collaborator, which
// derives city and country from raw affiliation text. The collaborator's
// heuristics live outside this repository; this package only normalizes
// its loosely shaped responses into plain strings.
package affil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

/// Location is a parsed affiliation: city and country as display strings.
// Either field may be empty when the collaborator could not derive it.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Parser derives geography from affiliation text.
type Parser interface {
	// Parse returns the city and country for one affiliation.
	Parse(ctx context.Context, affiliation string) (Location, error)

	// Countries returns one country per input affiliation, in order.
	Countries(ctx context.Context, affiliations []string) ([]string, error)
}

// Client is the HTTP implementation of Parser.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string
}

// parseResponse mirrors the collaborator's reply. City and country may be
// a string, a set of candidate strings, or absent.
type parseResponse struct {
	City    json.RawMessage `json:"city"`
	Country json.RawMessage `json:"country"`
}

// Parse posts one affiliation to the collaborator's /parse endpoint.
func (c *Client) Parse(ctx context.Context, affiliation string) (Location, error) {
	if strings.TrimSpace(affiliation) == "" {
		return Location{}, nil
	}

	var pr parseResponse
	err := c.post(ctx, "/parse", map[string]string{"affiliation": affiliation}, &pr)
	if err != nil {
		return Location{}, err
	}
	return Location{
		City:    flattenValue(pr.City),
		Country: flattenValue(pr.Country),
	}, nil
}

// Countries posts the whole affiliation list to /countries and returns
// the per-affiliation country list.
func (c *Client) Countries(ctx context.Context, affiliations []string) ([]string, error) {
	if len(affiliations) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	err := c.post(ctx, "/countries", map[string][]string{"affiliations": affiliations}, &raw)
	if err != nil {
		return nil, err
	}

	countries := make([]string, len(raw))
	for i, r := range raw {
		countries[i] = flattenValue(r)
	}
	return countries, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.BaseURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("affiliation parser request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("affiliation parser returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing affiliation parser response: %w", err)
	}
	return nil
}

// flattenValue normalizes a collaborator value into a display string: a
// string passes through, a set of candidates is joined with ", ", absence
// yields "", and anything else is stringified.
func flattenValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				if s != "" {
					parts = append(parts, s)
				}
				continue
			}
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
