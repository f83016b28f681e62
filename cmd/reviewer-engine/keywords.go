// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-engine/internal/keywords"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords <job-id>",
	Short: "Build the search query from keyword groups",
	Long: `Keywords merges an optional enrichment file (MeSH terms, broader terms,
additional focus keywords) into the stored manuscript metadata, builds the
boolean query string from the primary and secondary keyword groups, and
writes the keywords artifact. The metadata enhancement is append-only.

Keyword groups default to the manuscript's author-supplied keywords as the
primary group; --primary and --secondary override them.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

func init() {
	keywordsCmd.Flags().String("primary", "", "primary keyword group (comma-separated)")
	keywordsCmd.Flags().String("secondary", "", "secondary keyword group (comma-separated)")
	keywordsCmd.Flags().String("enrich-file", "", "keyword-enrichment collaborator output (JSON)")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var meta types.ManuscriptMetadata
	if err := store.GetArtifact(ctx, jobID, types.ArtifactMetadata, &meta); err != nil {
		return err
	}

	primaryFlag, _ := cmd.Flags().GetString("primary")
	secondaryFlag, _ := cmd.Flags().GetString("secondary")

	primary := keywords.SplitList(primaryFlag)
	secondary := keywords.SplitList(secondaryFlag)
	if len(primary) == 0 {
		primary = meta.Keywords
	}

	var enh keywords.Enhancement
	if path, _ := cmd.Flags().GetString("enrich-file"); path != "" {
		enh, err = keywords.ReadEnhancement(path)
		if err != nil {
			return err
		}
	}
	keywords.Enhance(&meta, enh, primary, secondary)

	query := keywords.NewQuery(meta.PrimaryKeywords, meta.SecondaryKeywords)
	if query.QueryString == "" {
		return fmt.Errorf("job %s: no keywords available: provide --primary or import metadata with keywords", jobID)
	}

	if err := store.PutArtifact(ctx, jobID, types.ArtifactMetadata, meta); err != nil {
		return err
	}
	if err := store.PutArtifact(ctx, jobID, types.ArtifactKeywords, query); err != nil {
		return err
	}
	if err := store.Advance(ctx, jobID, types.StageKeywordsEnhanced); err != nil {
		return err
	}

	fmt.Printf("Query: %s\n", query.QueryString)
	return nil
}
