// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Import and inspect manuscript metadata",
	Long: `Metadata loads the structured output of the upstream metadata-extraction
service into the job store. The extraction service runs outside this
pipeline; its JSON record (heading, authors, affiliations, keywords,
abstract, author-affiliation map) is imported from a file.`,
}

var metadataImportCmd = &cobra.Command{
	Use:   "import <job-id> <metadata.json>",
	Short: "Import a manuscript metadata record into a job",
	Args:  cobra.ExactArgs(2),
	RunE:  runMetadataImport,
}

func runMetadataImport(cmd *cobra.Command, args []string) error {
	jobID, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading metadata file: %w", err)
	}
	var meta types.ManuscriptMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("parsing metadata file %s: %w", path, err)
	}
	if meta.Title == "" {
		return fmt.Errorf("metadata file %s: missing heading", path)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.PutArtifact(ctx, jobID, types.ArtifactMetadata, meta); err != nil {
		return err
	}
	if err := store.Advance(ctx, jobID, types.StageMetadataExtracted); err != nil {
		return err
	}

	fmt.Printf("Imported metadata for %q (%d authors)\n", meta.Title, len(meta.Authors))
	return nil
}

var metadataShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Print a job's stored manuscript metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var meta types.ManuscriptMetadata
		if err := store.GetArtifact(context.Background(), args[0], types.ArtifactMetadata, &meta); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	},
}

func init() {
	metadataCmd.AddCommand(metadataImportCmd)
	metadataCmd.AddCommand(metadataShowCmd)

	rootCmd.AddCommand(metadataCmd)
}
