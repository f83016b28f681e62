// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-engine/pkg/types"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Create and inspect pipeline jobs",
	Long: `Job manages pipeline runs. Each job has a unique identifier and a typed
status recording the last completed stage. Stage artifacts are stored per
job and read back by the downstream stages.`,
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new pipeline job",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		job, err := store.CreateJob(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(job.ID)
		return nil
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs and their statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		jobs, err := store.ListJobs(context.Background())
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-28s  %-20s  %s\n", "Job", "Created", "Status")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
		for _, j := range jobs {
			fmt.Fprintf(os.Stdout, "%-28s  %-20s  %s\n",
				j.ID, j.CreatedAt.Format("2006-01-02 15:04:05"), j.Status)
		}
		return nil
	},
}

var jobStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show a job's status and stored artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		job, err := store.GetJob(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Job:     %s\n", job.ID)
		fmt.Printf("Created: %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Status:  %s\n", job.Status)

		kinds := []types.ArtifactKind{
			types.ArtifactMetadata,
			types.ArtifactKeywords,
			types.ArtifactSourceRecords,
			types.ArtifactCandidates,
			types.ArtifactReviewers,
		}
		var stored []string
		for _, kind := range kinds {
			ok, err := store.HasArtifact(ctx, job.ID, kind)
			if err != nil {
				return err
			}
			if ok {
				stored = append(stored, string(kind))
			}
		}
		if len(stored) > 0 {
			fmt.Printf("Artifacts: %s\n", strings.Join(stored, ", "))
		}
		return nil
	},
}

func init() {
	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobStatusCmd)

	rootCmd.AddCommand(jobCmd)
}
