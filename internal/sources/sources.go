// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources queries bibliographic sources for candidate-author
// records and aggregates them into one table. Each source implements the
// Backend interface; a failing source contributes nothing and never
// aborts the aggregation.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// Backend searches a single bibliographic source. Implementations return
// at most limit records for the boolean query string.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.SourceRecord, error)
}

// Aggregate runs the query against each backend in order and concatenates
// the results, tagging every record with its source name. Per-source
// order and the backend iteration order are preserved. A backend error is
// logged to w and the source contributes an empty slice.
func Aggregate(ctx context.Context, backends []Backend, query string, limit int, w io.Writer) []types.SourceRecord {
	var all []types.SourceRecord
	for _, b := range backends {
		fmt.Fprintf(w, "searching %s\n", b.Name())

		records, err := b.Search(ctx, query, limit)
		if err != nil {
			fmt.Fprintf(w, "warning: source %s failed: %v\n", b.Name(), err)
			continue
		}
		for i := range records {
			records[i].Source = b.Name()
		}
		fmt.Fprintf(w, "%s: %d article(s)\n", b.Name(), len(records))
		all = append(all, records...)
	}
	return all
}

// ForConfig builds the backend list for the configured source names.
// Unknown names are an error so typos surface before any network calls.
func ForConfig(cfg types.SearchConfig, client *http.Client) ([]Backend, error) {
	var backends []Backend
	for _, name := range cfg.Sources {
		switch name {
		case "pubmed":
			backends = append(backends, &PubMedBackend{
				Client:    client,
				APIKey:    cfg.NCBIAPIKey,
				Email:     cfg.ContactEmail,
				UserAgent: cfg.UserAgent,
			})
		case "sciencedirect", "tandfonline", "wiley":
			backends = append(backends, &ScraperBackend{
				Site:      name,
				BaseURL:   cfg.ScraperBaseURL,
				APIKey:    cfg.ScraperAPIKey,
				Client:    client,
				UserAgent: cfg.UserAgent,
			})
		default:
			return nil, fmt.Errorf("unknown source %q: use pubmed, sciencedirect, tandfonline, or wiley", name)
		}
	}
	return backends, nil
}
