// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	records []types.SourceRecord
	err     error
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ string, _ int) ([]types.SourceRecord, error) {
	return m.records, m.err
}

func TestAggregatePreservesOrderAndTagsSource(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "pubmed", records: []types.SourceRecord{
			{Title: "A"}, {Title: "B"},
		}},
		&mockBackend{name: "wiley", records: []types.SourceRecord{
			{Title: "C"},
		}},
	}

	var buf bytes.Buffer
	got := Aggregate(context.Background(), backends, "(asthma)", 2, &buf)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantTitles := []string{"A", "B", "C"}
	wantSources := []string{"pubmed", "pubmed", "wiley"}
	for i, rec := range got {
		if rec.Title != wantTitles[i] {
			t.Errorf("record %d title = %q, want %q", i, rec.Title, wantTitles[i])
		}
		if rec.Source != wantSources[i] {
			t.Errorf("record %d source = %q, want %q", i, rec.Source, wantSources[i])
		}
	}
}

func TestAggregateIsolatesFailures(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "pubmed", err: fmt.Errorf("connection refused")},
		&mockBackend{name: "wiley", records: []types.SourceRecord{{Title: "C"}}},
	}

	var buf bytes.Buffer
	got := Aggregate(context.Background(), backends, "(asthma)", 2, &buf)

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Title != "C" {
		t.Errorf("record title = %q, want C", got[0].Title)
	}
	if !strings.Contains(buf.String(), "warning: source pubmed failed") {
		t.Errorf("log missing failure warning: %q", buf.String())
	}
}

func TestAggregateAllSourcesEmpty(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "pubmed"},
		&mockBackend{name: "wiley", err: fmt.Errorf("boom")},
	}

	var buf bytes.Buffer
	got := Aggregate(context.Background(), backends, "(asthma)", 2, &buf)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestForConfig(t *testing.T) {
	cfg := types.SearchConfig{
		Sources:        []string{"pubmed", "sciencedirect", "tandfonline", "wiley"},
		ScraperBaseURL: "http://scraper.local",
	}

	backends, err := ForConfig(cfg, http.DefaultClient)
	if err != nil {
		t.Fatalf("ForConfig() error: %v", err)
	}
	if len(backends) != 4 {
		t.Fatalf("len = %d, want 4", len(backends))
	}

	wantNames := []string{"pubmed", "sciencedirect", "tandfonline", "wiley"}
	for i, b := range backends {
		if b.Name() != wantNames[i] {
			t.Errorf("backend %d = %q, want %q", i, b.Name(), wantNames[i])
		}
	}
}

func TestForConfigUnknownSource(t *testing.T) {
	cfg := types.SearchConfig{Sources: []string{"scopus"}}
	if _, err := ForConfig(cfg, http.DefaultClient); err == nil {
		t.Error("expected error for unknown source, got nil")
	}
}
