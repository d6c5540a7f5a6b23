// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/puml-render/internal/history"
	"github.com/pdiddy/puml-render/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or export recorded conversions",
		Long: `History reads the conversion journal written by convert when
--history-db (or history.db in the config file) is set. Use --export to
write the matching records to a YAML file.`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}

	cmd.Flags().String("source", "", "only show conversions of this source file")
	cmd.Flags().Bool("failed", false, "only show failed conversions")
	cmd.Flags().Int("limit", 0, "maximum records (0 = use default)")
	cmd.Flags().Bool("json", false, "output records as JSON")
	cmd.Flags().String("export", "", "write matching records to this YAML file")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled() {
		return fmt.Errorf("no history database configured: pass --history-db or set history.db in the config file")
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	source, _ := cmd.Flags().GetString("source")
	failed, _ := cmd.Flags().GetBool("failed")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := history.ListOptions{SourcePath: source, FailedOnly: failed, MaxResults: limit}

	w := cmd.OutOrStdout()
	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		n, err := store.ExportYAML(cmd.Context(), exportPath, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported %d records to %s\n", n, exportPath)
		return nil
	}

	records, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(w, records, jsonOutput)
}

func formatHistory(w io.Writer, records []types.HistoryRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-6s  %-4s  %-30s  %s\n", "ID", "When", "Status", "Fmt", "Source", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		status := "ok"
		if !r.Succeeded {
			status = fmt.Sprintf("exit %d", r.ExitCode)
		}
		source := r.SourcePath
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-6s  %-4s  %-30s  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), status, r.Format, source, r.OutputPath)
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}
