// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

func TestBuildQueryString(t *testing.T) {
	tests := []struct {
		name      string
		primary   []string
		secondary []string
		want      string
	}{
		{
			name:      "two groups",
			primary:   []string{"asthma", "COPD"},
			secondary: []string{"pediatric"},
			want:      "(asthma OR COPD) AND (pediatric)",
		},
		{
			name:      "single-term primary, empty secondary",
			primary:   []string{"asthma"},
			secondary: nil,
			want:      "(asthma)",
		},
		{
			name:      "empty primary, populated secondary",
			primary:   nil,
			secondary: []string{"pediatric", "neonatal"},
			want:      "(pediatric OR neonatal)",
		},
		{
			name:      "both empty",
			primary:   nil,
			secondary: nil,
			want:      "",
		},
		{
			name:      "whitespace-only terms dropped",
			primary:   []string{" asthma ", "  "},
			secondary: []string{""},
			want:      "(asthma)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQueryString(tt.primary, tt.secondary)
			if got != tt.want {
				t.Errorf("BuildQueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewQuery(t *testing.T) {
	q := NewQuery([]string{" asthma", "COPD "}, []string{"pediatric"})

	if q.QueryString != "(asthma OR COPD) AND (pediatric)" {
		t.Errorf("QueryString = %q", q.QueryString)
	}
	if !reflect.DeepEqual(q.Primary, []string{"asthma", "COPD"}) {
		t.Errorf("Primary = %v", q.Primary)
	}
	if !reflect.DeepEqual(q.Secondary, []string{"pediatric"}) {
		t.Errorf("Secondary = %v", q.Secondary)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"asthma,COPD", []string{"asthma", "COPD"}},
		{" asthma , COPD ,", []string{"asthma", "COPD"}},
		{"", nil},
		{" , ,", nil},
	}
	for _, tt := range tests {
		got := SplitList(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnhanceAppendsWithoutRemoving(t *testing.T) {
	meta := types.ManuscriptMetadata{
		Title:           "Pediatric asthma outcomes",
		Keywords:        []string{"asthma"},
		MeshTerms:       []string{"Asthma"},
		PrimaryKeywords: []string{"asthma"},
	}

	e := Enhancement{
		MeshTerms:           []string{"Asthma", "Respiratory Tract Diseases"},
		BroaderTerms:        []string{"Lung Diseases"},
		AdditionalPrimary:   []string{"wheeze"},
		AdditionalSecondary: []string{"children"},
	}

	Enhance(&meta, e, []string{"asthma", "COPD"}, []string{"pediatric"})

	if !reflect.DeepEqual(meta.MeshTerms, []string{"Asthma", "Respiratory Tract Diseases"}) {
		t.Errorf("MeshTerms = %v", meta.MeshTerms)
	}
	if !reflect.DeepEqual(meta.BroaderTerms, []string{"Lung Diseases"}) {
		t.Errorf("BroaderTerms = %v", meta.BroaderTerms)
	}
	if !reflect.DeepEqual(meta.PrimaryKeywords, []string{"asthma", "COPD", "wheeze"}) {
		t.Errorf("PrimaryKeywords = %v", meta.PrimaryKeywords)
	}
	if !reflect.DeepEqual(meta.SecondaryKeywords, []string{"pediatric", "children"}) {
		t.Errorf("SecondaryKeywords = %v", meta.SecondaryKeywords)
	}
	// Pre-existing fields stay intact.
	if !reflect.DeepEqual(meta.Keywords, []string{"asthma"}) {
		t.Errorf("Keywords = %v", meta.Keywords)
	}
}

func TestReadEnhancement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enhancement.json")
	content := `{
		"mesh_terms": ["Asthma"],
		"broader_terms": ["Lung Diseases"],
		"additional_primary_keywords": ["wheeze"],
		"additional_secondary_keywords": ["children"]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := ReadEnhancement(path)
	if err != nil {
		t.Fatalf("ReadEnhancement() error: %v", err)
	}
	if len(e.MeshTerms) != 1 || e.MeshTerms[0] != "Asthma" {
		t.Errorf("MeshTerms = %v", e.MeshTerms)
	}
	if len(e.AdditionalSecondary) != 1 || e.AdditionalSecondary[0] != "children" {
		t.Errorf("AdditionalSecondary = %v", e.AdditionalSecondary)
	}
}

func TestReadEnhancementBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadEnhancement(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}
