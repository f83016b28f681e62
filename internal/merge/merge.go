// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge turns aggregated source records into the canonical
// candidate pool: it filters records without contact data, flattens them
// into (author, email, affiliation) entries, cleans author names, derives
// geography, and deduplicates by cleaned name.
package merge

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/reviewer-engine/internal/affil"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// degreeTokens is the fixed vocabulary of academic postnominals stripped
// from author names.
var degreeTokens = []string{
	"MD", "PhD", "BD", "MS", "MSc", "BSc", "DDS", "DO", "DVM", "DrPH",
	"MPH", "MBA", "EdD", "DPhil", "ScD", "DSc", "FRCP", "FRCS", "DPM",
}

var (
	degreePattern = regexp.MustCompile(`\b(` + strings.Join(degreeTokens, "|") + `)\b`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// CleanName strips degree suffixes as whole words, removes commas,
// collapses internal whitespace, and trims the ends.
func CleanName(name string) string {
	name = degreePattern.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, ",", "")
	name = spacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Merge builds the candidate pool from the aggregated records. Records
// with an empty email or affiliation map are discarded; entries missing
// an email or affiliation after flattening are dropped. The first
// occurrence of a cleaned name wins any email/affiliation conflict.
/// Geography parsing is best-effort: a missing parser or a collaborator
// failure leaves city and country empty, the latter logged to w.
func Merge(ctx context.Context, records []types.SourceRecord, parser affil.Parser, w io.Writer) []types.CandidateAuthor {
	seen := make(map[string]bool)
	locations := make(map[string]affil.Location)
	var pool []types.CandidateAuthor

	for _, rec := range records {
		if !rec.HasContacts() {
			continue
		}

		for _, author := range flattenOrder(rec) {
			email := strings.TrimSpace(rec.AuthorEmails[author])
			aff := strings.TrimSpace(rec.AuthorAffiliations[author])
			if email == "" || aff == "" {
				continue
			}

			name := CleanName(author)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true

			loc, ok := locations[aff]
			if !ok && parser != nil {
				var err error
				loc, err = parser.Parse(ctx, aff)
				if err != nil {
					fmt.Fprintf(w, "warning: affiliation parse failed for %q: %v\n", name, err)
					loc = affil.Location{}
				}
				locations[aff] = loc
			}

			pool = append(pool, types.CandidateAuthor{
				Name:        name,
				Email:       email,
				Affiliation: aff,
				City:        loc.City,
				Country:     loc.Country,
			})
		}
	}
	return pool
}

// flattenOrder returns the record's email-map keys in a deterministic
// order: authors in source order first, then any email-only keys sorted.
func flattenOrder(rec types.SourceRecord) []string {
	var order []string
	used := make(map[string]bool, len(rec.AuthorEmails))

	for _, author := range rec.Authors {
		if _, ok := rec.AuthorEmails[author]; ok && !used[author] {
			order = append(order, author)
			used[author] = true
		}
	}

	var rest []string
	for author := range rec.AuthorEmails {
		if !used[author] {
			rest = append(rest, author)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
