// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that call external
// collaborators.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "reviewer-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the job store.
type StoreConfig struct {
	// Path is the SQLite database file holding jobs and stage artifacts.
	Path string `json:"path" yaml:"path"`
}

// SearchConfig holds settings for the database-search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Sources selects which bibliographic sources to query
	// (pubmed, sciencedirect, tandfonline, wiley).
	Sources []string `json:"sources" yaml:"sources"`

	// MaxArticles caps the result count requested from each source.
	MaxArticles int `json:"max_articles" yaml:"max_articles"`

	// ScraperBaseURL is the base URL of the site-scraper collaborator
	// serving the non-PubMed sources.
	ScraperBaseURL string `json:"scraper_base_url" yaml:"scraper_base_url"`

	// ScraperAPIKey authenticates requests to the scraper collaborator.
	ScraperAPIKey string `json:"scraper_api_key,omitempty" yaml:"scraper_api_key,omitempty"`

	// NCBIAPIKey is an optional E-utilities key for higher rate limits.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// ContactEmail is sent to the NCBI API per its usage policy.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`

	// AffilBaseURL is the base URL of the affiliation-parsing collaborator.
	AffilBaseURL string `json:"affil_base_url" yaml:"affil_base_url"`
}

// EnrichConfig holds settings for the validation stage's metrics enrichment.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// Parallelism bounds the number of concurrent enrichment queries
	// (default 4).
	Parallelism int `json:"parallelism" yaml:"parallelism"`

	// Venue is the scraper site used for the venue-specific count
	// (default "tandfonline").
	Venue string `json:"venue" yaml:"venue"`

	// VenueYearFrom and VenueYearTo bound the venue-specific count.
	VenueYearFrom int `json:"venue_year_from" yaml:"venue_year_from"`
	VenueYearTo   int `json:"venue_year_to" yaml:"venue_year_to"`

	// ScraperBaseURL is the base URL of the site-scraper collaborator.
	ScraperBaseURL string `json:"scraper_base_url" yaml:"scraper_base_url"`

	// ScraperAPIKey authenticates requests to the scraper collaborator.
	ScraperAPIKey string `json:"scraper_api_key,omitempty" yaml:"scraper_api_key,omitempty"`

	// NCBIAPIKey is an optional E-utilities key for higher rate limits.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// ContactEmail is sent to the NCBI API per its usage policy.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`

	// AffilBaseURL is the base URL of the affiliation-parsing collaborator.
	AffilBaseURL string `json:"affil_base_url" yaml:"affil_base_url"`
}
