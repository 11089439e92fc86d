// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zotlink CLI. It imports
// academic papers into Zotero from preprint and journal URLs: extract
// metadata, normalize it into a canonical record, and save it through
// the Zotero connector API.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zotlink/zotlink/internal/extractor"
	"github.com/zotlink/zotlink/internal/fetch"
	"github.com/zotlink/zotlink/internal/history"
	"github.com/zotlink/zotlink/internal/pipeline"
	"github.com/zotlink/zotlink/internal/zotero"
	"github.com/zotlink/zotlink/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in the root PersistentPreRunE and shared by all
// subcommands.
var logger = zap.NewNop()

// rootCmd is the base command for the zotlink CLI.
var rootCmd = &cobra.Command{
	Use:   "zotlink",
	Short: "Import papers into Zotero from preprint and journal URLs",
	Long: `zotlink turns a paper URL into a Zotero library entry. Site-specific
extractors handle arXiv, bioRxiv, and medRxiv; a generic scraper covers
everything else. Extracted metadata is normalized into a canonical record
and saved through the Zotero connector API, so Zotero must be running.

Each step is also available on its own: extract inspects a URL without
saving, status checks the Zotero connection, and history lists past
imports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := buildLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./zotlink.yaml or ~/.config/zotlink/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zotlink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zotlink"))
		}
	}

	viper.SetEnvPrefix("ZOTLINK")
	viper.AutomaticEnv()

	viper.SetDefault("fetch.timeout", 60*time.Second)
	viper.SetDefault("fetch.max_retries", 3)
	viper.SetDefault("zotero.timeout", 10*time.Second)
	viper.SetDefault("history.max_entries", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	}
	return cfg.Build()
}

// loadConfig materializes the viper state into the typed config.
func loadConfig() types.Config {
	return types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			CookieFile: viper.GetString("fetch.cookie_file"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		Zotero: types.ZoteroConfig{
			Timeout:    viper.GetDuration("zotero.timeout"),
			Collection: viper.GetString("zotero.collection"),
		},
		History: types.HistoryConfig{
			Dir:        viper.GetString("history.dir"),
			MaxEntries: viper.GetInt("history.max_entries"),
		},
	}
}

// historyDir resolves the history database location, defaulting to
// ~/.local/share/zotlink.
func historyDir(cfg types.HistoryConfig) string {
	if cfg.Dir != "" {
		return cfg.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zotlink"
	}
	return filepath.Join(home, ".local", "share", "zotlink")
}

// buildFetcher constructs the publisher HTTP client, loading the cookie
// file when one is configured.
func buildFetcher(cfg types.FetchConfig, cookieFile string) (*fetch.Client, error) {
	client := fetch.NewClient(cfg)
	if cookieFile == "" {
		cookieFile = cfg.CookieFile
	}
	if cookieFile != "" {
		if err := client.Cookies().LoadFile(cookieFile); err != nil {
			return nil, err
		}
		logger.Debug("cookies loaded",
			zap.String("file", cookieFile),
			zap.Int("count", client.Cookies().Count()))
	}
	return client, nil
}

// buildRegistry assembles the extractor dispatch order: site extractors
// first, the generic scraper as fallback. The arXiv API gets its own
// client carrying the configured timeout.
func buildRegistry(fetcher *fetch.Client, cfg types.FetchConfig, eagerPDF bool) *extractor.Registry {
	apiClient := &http.Client{Timeout: cfg.Timeout}
	return extractor.NewRegistry(
		extractor.NewGeneric(fetcher),
		extractor.NewArxiv(apiClient, cfg.UserAgent),
		extractor.NewBioRxiv(fetcher, eagerPDF),
		extractor.NewMedRxiv(fetcher, eagerPDF),
	)
}

// buildPipeline wires the full import flow from config. The history
// store is opened here; callers own closing it.
func buildPipeline(cookieFile string, eagerPDF bool) (*pipeline.Pipeline, *history.Store, error) {
	cfg := loadConfig()

	fetcher, err := buildFetcher(cfg.Fetch, cookieFile)
	if err != nil {
		return nil, nil, err
	}

	cfg.History.Dir = historyDir(cfg.History)
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}

	registry := buildRegistry(fetcher, cfg.Fetch, eagerPDF)
	submitter := zotero.NewClient(cfg.Zotero)
	return pipeline.New(registry, submitter, store, logger), store, nil
}

func main() {
	defer func() { logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
