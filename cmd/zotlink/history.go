package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zotlink/zotlink/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past import attempts",
	Long: `History lists recorded import attempts, newest first. Filter to one URL
with --url, or dump the full history as YAML with --export.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "number of entries to show (default: configured, 20)")
	historyCmd.Flags().String("url", "", "show attempts for one URL only")
	historyCmd.Flags().String("export", "", "write the full history as YAML to this file")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	url, _ := cmd.Flags().GetString("url")
	export, _ := cmd.Flags().GetString("export")

	cfg := loadConfig()
	cfg.History.Dir = historyDir(cfg.History)
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if export != "" {
		if err := store.ExportYAML(cmd.Context(), export); err != nil {
			return err
		}
		fmt.Printf("history written to %s\n", export)
		return nil
	}

	var entries []history.Entry
	if url != "" {
		entries, err = store.ByURL(cmd.Context(), url)
	} else {
		entries, err = store.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no imports recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tTITLE\tURL")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Status, title, e.URL)
	}
	return w.Flush()
}
