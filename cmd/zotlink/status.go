package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zotlink/zotlink/internal/zotero"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that Zotero is running and reachable",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := zotero.NewClient(cfg.Zotero)

	if err := client.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("zotero is not reachable; start the Zotero desktop application: %w", err)
	}
	fmt.Println("Zotero is running and reachable")

	if cfg.Fetch.CookieFile != "" {
		fetcher, err := buildFetcher(cfg.Fetch, "")
		if err != nil {
			return err
		}
		fmt.Printf("cookies loaded from %s: %d\n", cfg.Fetch.CookieFile, fetcher.Cookies().Count())
	}
	return nil
}
