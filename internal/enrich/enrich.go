// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich attaches bibliographic metrics to every candidate in the
// pool. Each metric axis is an independent best-effort collaborator query:
// a failed query degrades to zero and is logged, never aborting the
// candidate or the batch. Pool-level flags (coauthorship, country match,
// affiliation uniqueness) are computed only after the count axes finish.
package enrich

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/reviewer-engine/internal/affil"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// Role filters a publication count by authorship position.
type Role string

const (
	RoleAny   Role = ""
	RoleFirst Role = "first"
	RoleLast  Role = "last"
)

// CountQuery describes one publication-count question for the
// bibliographic-metrics collaborator.
type CountQuery struct {
	// Author is the cleaned candidate name.
	Author string

	// Role restricts the count to first- or last-author publications.
	Role Role

	// LastNYears bounds the count to a trailing window; 0 means all time.
	LastNYears int

	// Keywords is the job's boolean query string; non-empty restricts the
	// count to keyword-relevant publications.
	Keywords string

	// Filter is a publication-type label such as "Retracted Publication".
	Filter string

	// EnglishOnly restricts the count to English-language publications.
	EnglishOnly bool
}

// Counter answers publication-count queries.
type Counter interface {
	Count(ctx context.Context, q CountQuery) (int, error)
}

// CoauthorChecker reports whether two authors have published together.
type CoauthorChecker interface {
	Coauthored(ctx context.Context, a, b string) (bool, error)
}

// VenueCounter counts an author's publications at one venue within a
// year range. The scraper collaborator implements this.
type VenueCounter interface {
	AuthorCount(ctx context.Context, author string, yearFrom, yearTo int) (int, error)
}

// Enricher runs the metric axes for a candidate pool.
type Enricher struct {
	Counts   Counter
	Coauthor CoauthorChecker
	Venue    VenueCounter
	Affil    affil.Parser

	// Parallelism bounds concurrent collaborator queries (default 4).
	Parallelism int

	// VenueYearFrom and VenueYearTo bound the venue-specific axis.
	VenueYearFrom int
	VenueYearTo   int
}

// axis is one independent enrichment query and the metrics field it fills.
type axis struct {
	name   string
	query  CountQuery
	assign func(m *types.ValidationMetrics, n int)
}

// countAxes enumerates every count query for one candidate.
func countAxes(author, keywordQuery string) []axis {
	windows := []struct {
		years  int
		target func(m *types.ValidationMetrics) *types.WindowCounts
	}{
		{0, func(m *types.ValidationMetrics) *types.WindowCounts { return &m.TotalPublications }},
		{1, func(m *types.ValidationMetrics) *types.WindowCounts { return &m.Publications1y }},
		{2, func(m *types.ValidationMetrics) *types.WindowCounts { return &m.Publications2y }},
		{5, func(m *types.ValidationMetrics) *types.WindowCounts { return &m.Publications5y }},
		{10, func(m *types.ValidationMetrics) *types.WindowCounts { return &m.Publications10y }},
	}

	roles := []struct {
		role   Role
		assign func(wc *types.WindowCounts, n int)
	}{
		{RoleAny, func(wc *types.WindowCounts, n int) { wc.Any = n }},
		{RoleFirst, func(wc *types.WindowCounts, n int) { wc.First = n }},
		{RoleLast, func(wc *types.WindowCounts, n int) { wc.Last = n }},
	}

	var axes []axis
	for _, win := range windows {
		for _, r := range roles {
			win, r := win, r
			label := fmt.Sprintf("publications/%dy/%s", win.years, roleLabel(r.role))
			axes = append(axes, axis{
				name:  label,
				query: CountQuery{Author: author, Role: r.role, LastNYears: win.years},
				assign: func(m *types.ValidationMetrics, n int) {
					r.assign(win.target(m), n)
				},
			})
		}
	}

	// Keyword-relevant counts over the trailing 5-year window.
	for _, r := range roles {
		r := r
		axes = append(axes, axis{
			name:  "relevant/5y/" + roleLabel(r.role),
			query: CountQuery{Author: author, Role: r.role, LastNYears: 5, Keywords: keywordQuery},
			assign: func(m *types.ValidationMetrics, n int) {
				r.assign(&m.RelevantPublications5y, n)
			},
		})
	}

	// Publication-type filtered counts.
	axes = append(axes,
		axis{
			name:   "clinical-trials/2y",
			query:  CountQuery{Author: author, LastNYears: 2, Filter: "Clinical Trial"},
			assign: func(m *types.ValidationMetrics, n int) { m.ClinicalTrials2y = n },
		},
		axis{
			name:   "retracted",
			query:  CountQuery{Author: author, Filter: "Retracted Publication"},
			assign: func(m *types.ValidationMetrics, n int) { m.RetractedPublications = n },
		},
		axis{
			name:   "clinical-studies/2y",
			query:  CountQuery{Author: author, LastNYears: 2, Filter: "Clinical Study"},
			assign: func(m *types.ValidationMetrics, n int) { m.ClinicalStudies2y = n },
		},
		axis{
			name:   "case-reports/2y",
			query:  CountQuery{Author: author, LastNYears: 2, Filter: "Case Reports"},
			assign: func(m *types.ValidationMetrics, n int) { m.CaseReports2y = n },
		},
		axis{
			name:   "english",
			query:  CountQuery{Author: author, EnglishOnly: true},
			assign: func(m *types.ValidationMetrics, n int) { m.EnglishPublications = n },
		},
	)
	return axes
}

func roleLabel(r Role) string {
	if r == RoleAny {
		return "any"
	}
	return string(r)
}

// EnrichPool computes ValidationMetrics for every candidate, aligned by
// index with the pool. All count axes run with bounded parallelism and
// complete (or fail to zero) before the pool-level flags are derived.
func (e *Enricher) EnrichPool(ctx context.Context, pool []types.CandidateAuthor, keywordQuery string, w io.Writer) []types.ValidationMetrics {
	metrics := make([]types.ValidationMetrics, len(pool))
	if len(pool) == 0 {
		return metrics
	}

	parallelism := e.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	var logMu sync.Mutex
	logf := func(format string, args ...any) {
		logMu.Lock()
		defer logMu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, cand := range pool {
		for _, ax := range countAxes(cand.Name, keywordQuery) {
			i, ax := i, ax
			g.Go(func() error {
				n, err := e.Counts.Count(gctx, ax.query)
				if err != nil {
					logf("warning: %s: axis %s failed, using 0: %v\n", pool[i].Name, ax.name, err)
					n = 0
				}
				ax.assign(&metrics[i], n)
				return nil
			})
		}

		if e.Venue != nil {
			i := i
			g.Go(func() error {
				n, err := e.Venue.AuthorCount(gctx, pool[i].Name, e.VenueYearFrom, e.VenueYearTo)
				if err != nil {
					logf("warning: %s: venue count failed, using 0: %v\n", pool[i].Name, err)
					n = 0
				}
				metrics[i].VenuePublicationsRecent = n
				return nil
			})
		}
	}

	// Axis workers never return errors; Wait only joins them.
	_ = g.Wait()

	e.applyCoauthorship(ctx, pool, metrics, logf)
	e.applyCountryMatch(ctx, pool, metrics, logf)
	applyAffiliationDistinct(pool, metrics)

	return metrics
}

// applyCoauthorship flags each candidate that coauthored with any other
// pool member. Checks run pairwise against the finalized pool and stop at
// the first positive pairing; a failed check counts as no coauthorship.
func (e *Enricher) applyCoauthorship(ctx context.Context, pool []types.CandidateAuthor, metrics []types.ValidationMetrics, logf func(string, ...any)) {
	if e.Coauthor == nil {
		return
	}

	for i, cand := range pool {
		for j, other := range pool {
			if j == i {
				continue
			}
			ok, err := e.Coauthor.Coauthored(ctx, cand.Name, other.Name)
			if err != nil {
				logf("warning: coauthorship check %s/%s failed: %v\n", cand.Name, other.Name, err)
				continue
			}
			if ok {
				metrics[i].CoauthoredWithPool = true
				break
			}
		}
	}
}

// applyCountryMatch derives the pool's country set from all raw
// affiliations in one collaborator call and flags candidates whose
// derived country appears in it.
func (e *Enricher) applyCountryMatch(ctx context.Context, pool []types.CandidateAuthor, metrics []types.ValidationMetrics, logf func(string, ...any)) {
	if e.Affil == nil {
		return
	}

	affs := make([]string, len(pool))
	for i, cand := range pool {
		affs[i] = cand.Affiliation
	}

	countries, err := e.Affil.Countries(ctx, affs)
	if err != nil {
		logf("warning: pool country extraction failed: %v\n", err)
		return
	}

	// Order-preserving dedup, case-insensitive membership.
	set := make(map[string]bool)
	for _, c := range countries {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			set[c] = true
		}
	}

	for i, cand := range pool {
		country := strings.ToLower(strings.TrimSpace(cand.Country))
		metrics[i].CountryMatch = country != "" && set[country]
	}
}

// applyAffiliationDistinct marks candidates whose raw affiliation string
// appears exactly once in the pool.
func applyAffiliationDistinct(pool []types.CandidateAuthor, metrics []types.ValidationMetrics) {
	counts := make(map[string]int, len(pool))
	for _, cand := range pool {
		counts[cand.Affiliation]++
	}
	for i, cand := range pool {
		metrics[i].AffiliationDistinct = counts[cand.Affiliation] <= 1
	}
}
