// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-engine/internal/affil"
	"github.com/pdiddy/reviewer-engine/internal/merge"
	"github.com/pdiddy/reviewer-engine/internal/sources"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <job-id>",
	Short: "Search bibliographic sources and build the candidate pool",
	Long: `Search runs the stored boolean query against the configured sources
(PubMed via NCBI E-utilities, the scraper collaborator for the rest). A
failing source contributes nothing and is logged. The raw rows are stored
as the source_records artifact, then merged into the deduplicated
candidates artifact with geography derived per affiliation.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchAddAuthorCmd = &cobra.Command{
	Use:   "add-author <job-id> <author name>",
	Short: "Add one author to the candidate pool by PubMed lookup",
	Long: `Add-author looks a named author up on PubMed, recovers their email and
affiliation from a recent article, derives city and country, and appends
them to the job's candidates artifact. An author already in the pool is
left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearchAddAuthor,
}

func init() {
	searchCmd.Flags().StringSlice("sources", nil, "sources to query (default from config)")
	searchCmd.Flags().Int("max-articles", 0, "per-source result cap (default from config)")

	searchCmd.AddCommand(searchAddAuthorCmd)
	rootCmd.AddCommand(searchCmd)
}

// affilParser builds the affiliation-parsing client, or nil when no
// collaborator is configured.
func affilParser(baseURL string, ua string) affil.Parser {
	if baseURL == "" {
		return nil
	}
	return &affil.Client{
		BaseURL:   baseURL,
		HTTP:      newHTTPClient(),
		UserAgent: ua,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	cfg := searchConfig()
	if srcs, _ := cmd.Flags().GetStringSlice("sources"); len(srcs) > 0 {
		cfg.Sources = srcs
	}
	if max, _ := cmd.Flags().GetInt("max-articles"); max > 0 {
		cfg.MaxArticles = max
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var query types.KeywordQuery
	if err := store.GetArtifact(ctx, jobID, types.ArtifactKeywords, &query); err != nil {
		return err
	}

	backends, err := sources.ForConfig(cfg, newHTTPClient())
	if err != nil {
		return err
	}

	records := sources.Aggregate(ctx, backends, query.QueryString, cfg.MaxArticles, os.Stdout)
	if err := store.PutArtifact(ctx, jobID, types.ArtifactSourceRecords, records); err != nil {
		return err
	}
	fmt.Printf("Collected %d source records\n", len(records))

	parser := affilParser(cfg.AffilBaseURL, cfg.UserAgent)
	candidates := merge.Merge(ctx, records, parser, os.Stdout)
	if err := store.PutArtifact(ctx, jobID, types.ArtifactCandidates, candidates); err != nil {
		return err
	}
	if err := store.Advance(ctx, jobID, types.StageSearched); err != nil {
		return err
	}

	fmt.Printf("Candidate pool: %d authors\n", len(candidates))
	return nil
}

func runSearchAddAuthor(cmd *cobra.Command, args []string) error {
	jobID, rawName := args[0], args[1]

	cfg := searchConfig()
	name := merge.CleanName(rawName)
	if name == "" {
		return fmt.Errorf("empty author name")
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

	for _, c := range candidates {
		if c.Name == name {
			fmt.Printf("%s is already in the candidate pool\n", name)
			return nil
		}
	}

	pubmed := &sources.PubMedBackend{
		Client:    newHTTPClient(),
		APIKey:    cfg.NCBIAPIKey,
		Email:     cfg.ContactEmail,
		UserAgent: cfg.UserAgent,
	}
	email, affiliation, err := pubmed.LookupAuthor(ctx, name)
	if err != nil {
		return fmt.Errorf("PubMed lookup for %s: %w", name, err)
	}
	if email == "" && affiliation == "" {
		return fmt.Errorf("no PubMed contact record found for %s", name)
	}

	cand := types.CandidateAuthor{
		Name:        name,
		Email:       email,
		Affiliation: affiliation,
	}
	if parser := affilParser(cfg.AffilBaseURL, cfg.UserAgent); parser != nil && affiliation != "" {
		loc, err := parser.Parse(ctx, affiliation)
		if err != nil {
			fmt.Fprintf(os.Stdout, "warning: affiliation parse failed for %s: %v\n", name, err)
		} else {
			cand.City = loc.City
			cand.Country = loc.Country
		}
	}

	candidates = append(candidates, cand)
	if err := store.PutArtifact(ctx, jobID, types.ArtifactCandidates, candidates); err != nil {
		return err
	}

	fmt.Printf("Added %s (%s)\n", name, email)
	return nil
}
