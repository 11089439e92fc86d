package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zotlink/zotlink/internal/pipeline"
)

var saveCmd = &cobra.Command{
	Use:   "save [urls...]",
	Short: "Extract metadata from paper URLs and save them to Zotero",
	Long: `Save runs the full import for each URL: extract metadata, normalize it
into a canonical record, and save it through the Zotero connector. Zotero
must be running. Failed URLs are reported and do not stop the batch.`,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().String("collection", "", "target collection key (default: configured or library root)")
	saveCmd.Flags().String("title", "", "fallback title when extraction finds none (single URL only)")
	saveCmd.Flags().Bool("attach-pdf", false, "ask Zotero to download and attach the paper PDF")
	saveCmd.Flags().String("cookies", "", "cookie file for paywalled sites (JSON or raw header string)")

	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more paper URLs")
	}

	collection, _ := cmd.Flags().GetString("collection")
	title, _ := cmd.Flags().GetString("title")
	attachPDF, _ := cmd.Flags().GetBool("attach-pdf")
	cookies, _ := cmd.Flags().GetString("cookies")

	if title != "" && len(args) > 1 {
		return fmt.Errorf("--title applies to a single URL, got %d", len(args))
	}

	p, store, err := buildPipeline(cookies, attachPDF)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := pipeline.Options{
		Collection:    collection,
		FallbackTitle: title,
		AttachPDF:     attachPDF,
	}

	failed := 0
	for _, url := range args {
		outcome, err := p.Import(cmd.Context(), url, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", url, err)
			failed++
			continue
		}
		name := outcome.Record.Title
		if name == "" {
			name = "(untitled)"
		}
		fmt.Fprintf(os.Stdout, "saved   %s [%s] via %s\n", name, outcome.Record.ItemType, outcome.Raw.Extractor)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URL(s) failed", failed, len(args))
	}
	return nil
}
