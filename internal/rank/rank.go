// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders scored reviewers and renders the output views.
package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// Rank returns a copy of the reviewer list sorted by ConditionsMet
// descending. Ties keep their prior relative order, so reruns over the
// same input produce identical output.
func Rank(reviewers []types.RankedReviewer) []types.RankedReviewer {
	out := make([]types.RankedReviewer, len(reviewers))
	copy(out, reviewers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.ConditionsMet > out[j].Score.ConditionsMet
	})
	return out
}

// DisplayRow is the fixed presentation projection of one reviewer:
// identity, the raw counts behind each condition, the condition bits,
// and the score.
type DisplayRow struct {
	Reviewer    string `json:"reviewer" yaml:"reviewer"`
	Email       string `json:"email" yaml:"email"`
	Affiliation string `json:"aff" yaml:"aff"`
	Country     string `json:"country" yaml:"country"`

	TotalPublications       int `json:"total_publications" yaml:"total_publications"`
	EnglishPublications     int `json:"english_publications" yaml:"english_publications"`
	Publications10y         int `json:"publications_10y" yaml:"publications_10y"`
	RelevantPublications5y  int `json:"relevant_publications_5y" yaml:"relevant_publications_5y"`
	Publications2y          int `json:"publications_2y" yaml:"publications_2y"`
	Publications1y          int `json:"publications_1y" yaml:"publications_1y"`
	ClinicalTrials2y        int `json:"clinical_trials_2y" yaml:"clinical_trials_2y"`
	ClinicalStudies2y       int `json:"clinical_studies_2y" yaml:"clinical_studies_2y"`
	CaseReports2y           int `json:"case_reports_2y" yaml:"case_reports_2y"`
	RetractedPublications   int `json:"retracted_publications" yaml:"retracted_publications"`
	VenuePublicationsRecent int `json:"venue_publications_recent" yaml:"venue_publications_recent"`

	CoauthoredWithPool  bool `json:"coauthored_with_pool" yaml:"coauthored_with_pool"`
	CountryMatch        bool `json:"country_match" yaml:"country_match"`
	AffiliationDistinct bool `json:"affiliation_distinct" yaml:"affiliation_distinct"`

	types.ConditionScore `yaml:",inline"`
}

// ToDisplay projects the ranked list onto the presentation columns.
func ToDisplay(reviewers []types.RankedReviewer) []DisplayRow {
	rows := make([]DisplayRow, len(reviewers))
	for i, r := range reviewers {
		rows[i] = DisplayRow{
			Reviewer:    r.Name,
			Email:       r.Email,
			Affiliation: r.Affiliation,
			Country:     r.Country,

			TotalPublications:       r.Metrics.TotalPublications.Any,
			EnglishPublications:     r.Metrics.EnglishPublications,
			Publications10y:         r.Metrics.Publications10y.Any,
			RelevantPublications5y:  r.Metrics.RelevantPublications5y.Any,
			Publications2y:          r.Metrics.Publications2y.Any,
			Publications1y:          r.Metrics.Publications1y.Any,
			ClinicalTrials2y:        r.Metrics.ClinicalTrials2y,
			ClinicalStudies2y:       r.Metrics.ClinicalStudies2y,
			CaseReports2y:           r.Metrics.CaseReports2y,
			RetractedPublications:   r.Metrics.RetractedPublications,
			VenuePublicationsRecent: r.Metrics.VenuePublicationsRecent,

			CoauthoredWithPool:  r.Metrics.CoauthoredWithPool,
			CountryMatch:        r.Metrics.CountryMatch,
			AffiliationDistinct: r.Metrics.AffiliationDistinct,

			ConditionScore: r.Score,
		}
	}
	return rows
}

// FormatTable writes the ranked list as a human-readable table to w.
func FormatTable(reviewers []types.RankedReviewer, w io.Writer) {
	if len(reviewers) == 0 {
		fmt.Fprintln(w, "No reviewers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-30s  %-16s  %s\n",
		"Rank", "Reviewer", "Email", "Country", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for i, r := range reviewers {
		fmt.Fprintf(w, "%-4d  %-30s  %-30s  %-16s  %s\n",
			i+1,
			truncate(r.Name, 30),
			truncate(r.Email, 30),
			truncate(r.Country, 16),
			r.Score.ConditionsSatisfied)
	}

	fmt.Fprintf(w, "\n%d reviewers\n", len(reviewers))
}

// FormatJSON writes the full ranked list as indented JSON to w.
func FormatJSON(reviewers []types.RankedReviewer, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reviewers)
}

// FormatDisplayJSON writes the presentation projection as indented JSON.
func FormatDisplayJSON(reviewers []types.RankedReviewer, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToDisplay(reviewers))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
