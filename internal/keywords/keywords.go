// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords builds the boolean search query from keyword groups and
// merges collaborator-provided keyword enhancements into manuscript
// metadata.
package keywords

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// NewQuery builds a KeywordQuery from the primary and secondary keyword
// groups. Terms are joined with OR inside a group and the groups are
// joined with AND; an empty group contributes nothing.
func NewQuery(primary, secondary []string) types.KeywordQuery {
	p := clean(primary)
	s := clean(secondary)
	return types.KeywordQuery{
		Primary:     p,
		Secondary:   s,
		QueryString: BuildQueryString(p, s),
	}
}

// BuildQueryString renders "(a OR b) AND (c)". A single-term group is
// still parenthesized but carries no OR; when one group is empty only the
// other group's clause is returned.
func BuildQueryString(primary, secondary []string) string {
	p := groupClause(primary)
	s := groupClause(secondary)

	switch {
	case p != "" && s != "":
		return p + " AND " + s
	case p != "":
		return p
	default:
		return s
	}
}

// groupClause renders one keyword group as "(a OR b)".
func groupClause(keywords []string) string {
	kws := clean(keywords)
	if len(kws) == 0 {
		return ""
	}
	return "(" + strings.Join(kws, " OR ") + ")"
}

// clean trims each keyword and drops empties.
func clean(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// SplitList splits a comma-separated keyword list, trimming each entry
// and dropping empties.
func SplitList(s string) []string {
	return clean(strings.Split(s, ","))
}

// Enhancement is the structured output of the keyword-enrichment
// collaborator: MeSH terms matched to the manuscript plus additional
// focus keywords.
type Enhancement struct {
	MeshTerms           []string `json:"mesh_terms"`
	BroaderTerms        []string `json:"broader_terms"`
	AdditionalPrimary   []string `json:"additional_primary_keywords"`
	AdditionalSecondary []string `json:"additional_secondary_keywords"`
}

// ReadEnhancement loads an Enhancement from a collaborator-produced JSON
// file.
func ReadEnhancement(path string) (Enhancement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Enhancement{}, fmt.Errorf("reading enhancement file: %w", err)
	}
	var e Enhancement
	if err := json.Unmarshal(data, &e); err != nil {
		return Enhancement{}, fmt.Errorf("parsing enhancement file %s: %w", path, err)
	}
	return e, nil
}

// Enhance appends the enhancement and the base keyword groups to the
// metadata in place. Existing fields are only ever extended, never
// removed or replaced.
func Enhance(meta *types.ManuscriptMetadata, e Enhancement, basePrimary, baseSecondary []string) {
	meta.MeshTerms = appendNew(meta.MeshTerms, e.MeshTerms)
	meta.BroaderTerms = appendNew(meta.BroaderTerms, e.BroaderTerms)
	meta.PrimaryKeywords = appendNew(meta.PrimaryKeywords, clean(basePrimary))
	meta.PrimaryKeywords = appendNew(meta.PrimaryKeywords, e.AdditionalPrimary)
	meta.SecondaryKeywords = appendNew(meta.SecondaryKeywords, clean(baseSecondary))
	meta.SecondaryKeywords = appendNew(meta.SecondaryKeywords, e.AdditionalSecondary)
}

// appendNew appends the entries of add not already present in dst,
// preserving order.
func appendNew(dst, add []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range add {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		dst = append(dst, v)
		seen[v] = true
	}
	return dst
}
