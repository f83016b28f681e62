// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reviewer-engine/internal/rank"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var reviewersCmd = &cobra.Command{
	Use:   "reviewers <job-id>",
	Short: "Print or export the ranked reviewer list",
	Long: `Reviewers reads the validated, ranked reviewer list for a job. The
default output is a table; --json prints the full records, --display
restricts the output to the fixed presentation columns, and --export
writes the list to a YAML file.`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewers,
}

func init() {
	reviewersCmd.Flags().Bool("json", false, "output full records as JSON")
	reviewersCmd.Flags().Bool("display", false, "output the presentation-column projection as JSON")
	reviewersCmd.Flags().String("export", "", "write the ranked list to a YAML file")

	rootCmd.AddCommand(reviewersCmd)
}

func runReviewers(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var reviewers []types.RankedReviewer
	if err := store.GetArtifact(context.Background(), args[0], types.ArtifactReviewers, &reviewers); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := exportReviewers(reviewers, path); err != nil {
			return err
		}
		fmt.Printf("Exported %d reviewers to %s\n", len(reviewers), path)
		return nil
	}

	if display, _ := cmd.Flags().GetBool("display"); display {
		return rank.FormatDisplayJSON(reviewers, os.Stdout)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return rank.FormatJSON(reviewers, os.Stdout)
	}

	rank.FormatTable(reviewers, os.Stdout)
	return nil
}

func exportReviewers(reviewers []types.RankedReviewer, path string) error {
	data, err := yaml.Marshal(rank.ToDisplay(reviewers))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
