package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract and normalize metadata from a URL without saving",
	Long: `Extract runs the extraction and normalization steps for one URL and
prints the canonical record, so a save can be previewed or debugged
without touching Zotero.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("title", "", "fallback title when extraction finds none")
	extractCmd.Flags().String("format", "yaml", "output format: yaml or json")
	extractCmd.Flags().Bool("raw", false, "print the raw extraction result instead of the normalized record")
	extractCmd.Flags().String("cookies", "", "cookie file for paywalled sites (JSON or raw header string)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one paper URL")
	}

	title, _ := cmd.Flags().GetString("title")
	format, _ := cmd.Flags().GetString("format")
	rawOnly, _ := cmd.Flags().GetBool("raw")
	cookies, _ := cmd.Flags().GetString("cookies")

	p, store, err := buildPipeline(cookies, false)
	if err != nil {
		return err
	}
	defer store.Close()

	raw, record, err := p.Extract(cmd.Context(), args[0], title)
	if err != nil {
		return err
	}

	var out any = record
	if rawOnly {
		out = raw
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		os.Stdout.Write(data)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (yaml or json)", format)
	}
	return nil
}
