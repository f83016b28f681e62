// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reviewer-engine CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reviewer-engine/internal/httputil"
	"github.com/pdiddy/reviewer-engine/internal/jobstore"
	"github.com/pdiddy/reviewer-engine/internal/secrets"
	"github.com/pdiddy/reviewer-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the reviewer-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "reviewer-engine",
	Short: "Peer-reviewer recommendation pipeline for manuscript submissions",
	Long: `reviewer-engine finds peer-reviewer candidates for a manuscript. Each
pipeline stage is a subcommand: job, metadata, keywords, search, validate,
and reviewers. A job moves through the stages in order; every stage reads
its input artifact from the job store and writes its output artifact back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reviewer-engine.yaml or ~/.config/reviewer-engine/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "job store database file (default: reviewer-engine.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reviewer-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reviewer-engine"))
		}
	}

	viper.SetEnvPrefix("REVIEWER_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.path", "reviewer-engine.db")
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", "reviewer-engine/0.1")
	viper.SetDefault("search.sources", []string{"pubmed", "sciencedirect", "tandfonline", "wiley"})
	viper.SetDefault("search.max_articles", 2)
	viper.SetDefault("enrich.parallelism", 4)
	viper.SetDefault("enrich.venue", "tandfonline")
	viper.SetDefault("enrich.venue_year_from", 2024)
	viper.SetDefault("enrich.venue_year_to", 2025)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the job store named by the --store flag or config.
func openStore() (*jobstore.Store, error) {
	path, _ := rootCmd.PersistentFlags().GetString("store")
	if path == "" {
		path = viper.GetString("store.path")
	}
	return jobstore.Open(types.StoreConfig{Path: path})
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func newHTTPClient() *http.Client {
	return httputil.NewClient(viper.GetDuration("http.timeout"))
}

// searchConfig assembles the search-stage settings from config and secrets.
func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig:     httpConfig(),
		Sources:        viper.GetStringSlice("search.sources"),
		MaxArticles:    viper.GetInt("search.max_articles"),
		ScraperBaseURL: viper.GetString("collaborators.scraper_base"),
		ScraperAPIKey:  secretDefault(secrets.KeyScraperAPIKey, viper.GetString("collaborators.scraper_api_key")),
		NCBIAPIKey:     secretDefault(secrets.KeyNCBIAPIKey, viper.GetString("collaborators.ncbi_api_key")),
		ContactEmail:   secretDefault(secrets.KeyContactEmail, viper.GetString("collaborators.contact_email")),
		AffilBaseURL:   viper.GetString("collaborators.affil_base"),
	}
}

// enrichConfig assembles the validation-stage settings from config and secrets.
func enrichConfig() types.EnrichConfig {
	return types.EnrichConfig{
		HTTPConfig:     httpConfig(),
		Parallelism:    viper.GetInt("enrich.parallelism"),
		Venue:          viper.GetString("enrich.venue"),
		VenueYearFrom:  viper.GetInt("enrich.venue_year_from"),
		VenueYearTo:    viper.GetInt("enrich.venue_year_to"),
		ScraperBaseURL: viper.GetString("collaborators.scraper_base"),
		ScraperAPIKey:  secretDefault(secrets.KeyScraperAPIKey, viper.GetString("collaborators.scraper_api_key")),
		NCBIAPIKey:     secretDefault(secrets.KeyNCBIAPIKey, viper.GetString("collaborators.ncbi_api_key")),
		ContactEmail:   secretDefault(secrets.KeyContactEmail, viper.GetString("collaborators.contact_email")),
		AffilBaseURL:   viper.GetString("collaborators.affil_base"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
