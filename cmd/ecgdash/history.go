package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/ecgdash/internal/journal"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent remote operations from the journal",
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", journal.DefaultLimit, "number of entries to show")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled (set journal.enabled)")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := j.Close(); cerr != nil {
			slog.Warn("Failed to close journal", "error", cerr)
		}
	}()
	if err := j.Migrate(cmd.Context()); err != nil {
		return err
	}

	entries, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), entries)
}

func printHistory(w io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No operations recorded yet.")
		return err
	}

	outcomeStyles := map[string]lipgloss.Style{
		"succeeded": lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		"failed":    lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		"discarded": lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#404040"))).
		Headers("Time", "Operation", "Outcome", "Duration", "Message")
	for _, e := range entries {
		outcome := e.Outcome
		if style, ok := outcomeStyles[outcome]; ok {
			outcome = style.Render(outcome)
		}
		message := e.Message
		if e.Category != "" && e.Category != "none" {
			message = fmt.Sprintf("%s (%s)", message, e.Category)
		}
		t.Row(
			e.At.Local().Format("2006-01-02 15:04:05"),
			e.Operation,
			outcome,
			e.Duration.String(),
			message,
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
