// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/reviewer-engine/internal/httputil"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// ScraperBackend queries the site-scraper collaborator for one publisher
// site (sciencedirect, tandfonline, wiley). The scraping itself happens in
// the collaborator; this backend only speaks its JSON row format.
type ScraperBackend struct {
	// Site is the publisher identifier understood by the scraper service.
	Site string

	BaseURL   string
	APIKey    string
	Client    *http.Client
	UserAgent string
}

// Name returns the source identifier.
func (b *ScraperBackend) Name() string { return b.Site }

// Search asks the scraper service for up to limit articles matching the
// boolean query string.
func (b *ScraperBackend) Search(ctx context.Context, query string, limit int) ([]types.SourceRecord, error) {
	if b.BaseURL == "" {
		return nil, fmt.Errorf("no scraper base URL configured for %s", b.Site)
	}
	if limit <= 0 {
		limit = 2
	}

	params := url.Values{
		"site":  {b.Site},
		"query": {query},
		"max":   {fmt.Sprintf("%d", limit)},
	}
	reqURL := strings.TrimRight(b.BaseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("X-API-Key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("scraper request for %s: %w", b.Site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper returned HTTP %d for %s", resp.StatusCode, b.Site)
	}

	var sr scraperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing scraper response for %s: %w", b.Site, err)
	}

	records := make([]types.SourceRecord, 0, len(sr.Results))
	for _, row := range sr.Results {
		records = append(records, types.SourceRecord{
			Title:              row.Title,
			Authors:            row.Authors,
			AuthorEmails:       row.AuthorEmails,
			AuthorAffiliations: row.AuthorAffiliations,
		})
	}
	return records, nil
}

// AuthorCount asks the scraper service how many articles the author
// published on the site within the year range. Used for the venue-specific
// enrichment axis.
func (b *ScraperBackend) AuthorCount(ctx context.Context, author string, yearFrom, yearTo int) (int, error) {
	if b.BaseURL == "" {
		return 0, fmt.Errorf("no scraper base URL configured for %s", b.Site)
	}

	params := url.Values{
		"site":   {b.Site},
		"author": {author},
		"from":   {fmt.Sprintf("%d", yearFrom)},
		"to":     {fmt.Sprintf("%d", yearTo)},
	}
	reqURL := strings.TrimRight(b.BaseURL, "/") + "/author_count?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("X-API-Key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return 0, fmt.Errorf("scraper author count for %s: %w", b.Site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scraper returned HTTP %d for %s", resp.StatusCode, b.Site)
	}

	var cr struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return 0, fmt.Errorf("parsing scraper count response for %s: %w", b.Site, err)
	}
	return cr.Count, nil
}

// Scraper service JSON structures.
type scraperResponse struct {
	Results []scraperRow `json:"results"`
}

type scraperRow struct {
	Title              string            `json:"title"`
	Authors            []string          `json:"authors"`
	AuthorEmails       map[string]string `json:"author_email_map"`
	AuthorAffiliations map[string]string `json:"author_aff_map"`
}
