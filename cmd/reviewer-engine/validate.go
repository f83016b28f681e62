// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-engine/internal/enrich"
	"github.com/pdiddy/reviewer-engine/internal/rank"
	"github.com/pdiddy/reviewer-engine/internal/sources"
	"github.com/pdiddy/reviewer-engine/internal/validate"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <job-id>",
	Short: "Enrich, score, and rank the candidate pool",
	Long: `Validate enriches every candidate with bibliographic metrics (publication
counts per window and role, keyword-relevant counts, publication-type
counts, coauthorship within the pool, country and affiliation checks),
scores each against the eight suitability conditions, ranks the pool, and
writes the reviewers artifact. Every metric query is best-effort: a failed
query counts as zero and is logged.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Int("parallelism", 0, "concurrent metric queries (default from config)")

	rootCmd.AddCommand(validateCmd)
}

// newEnricher wires the validation stage's collaborators from config.
func newEnricher(cfg types.EnrichConfig) *enrich.Enricher {
	e := &enrich.Enricher{
		Parallelism:   cfg.Parallelism,
		VenueYearFrom: cfg.VenueYearFrom,
		VenueYearTo:   cfg.VenueYearTo,
	}

	counter := &enrich.PubMedCounter{
		Client:    newHTTPClient(),
		APIKey:    cfg.NCBIAPIKey,
		Email:     cfg.ContactEmail,
		UserAgent: cfg.UserAgent,
	}
	e.Counts = counter
	e.Coauthor = counter

	if cfg.ScraperBaseURL != "" && cfg.Venue != "" {
		e.Venue = &sources.ScraperBackend{
			Site:      cfg.Venue,
			BaseURL:   cfg.ScraperBaseURL,
			APIKey:    cfg.ScraperAPIKey,
			Client:    newHTTPClient(),
			UserAgent: cfg.UserAgent,
		}
	}
	e.Affil = affilParser(cfg.AffilBaseURL, cfg.UserAgent)

	return e
}

func runValidate(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	cfg := enrichConfig()
	if p, _ := cmd.Flags().GetInt("parallelism"); p > 0 {
		cfg.Parallelism = p
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var candidates []types.CandidateAuthor
	if err := store.GetArtifact(ctx, jobID, types.ArtifactCandidates, &candidates); err != nil {
		return err
	}
	var query types.KeywordQuery
	if err := store.GetArtifact(ctx, jobID, types.ArtifactKeywords, &query); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("job %s: candidate pool is empty", jobID)
	}

	fmt.Printf("Validating %d candidates\n", len(candidates))
	metrics := newEnricher(cfg).EnrichPool(ctx, candidates, query.QueryString, os.Stdout)

	reviewers := make([]types.RankedReviewer, len(candidates))
	for i, cand := range candidates {
		reviewers[i] = types.RankedReviewer{
			CandidateAuthor: cand,
			Metrics:         metrics[i],
			Score:           validate.Score(metrics[i]),
		}
	}
	reviewers = rank.Rank(reviewers)

	if err := store.PutArtifact(ctx, jobID, types.ArtifactReviewers, reviewers); err != nil {
		return err
	}
	if err := store.Advance(ctx, jobID, types.StageValidated); err != nil {
		return err
	}

	rank.FormatTable(reviewers, os.Stdout)
	return nil
}
