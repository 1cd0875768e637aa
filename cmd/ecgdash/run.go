package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/Veraticus/ecgdash/internal/plot"
	"github.com/Veraticus/ecgdash/internal/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis pipeline without the dashboard",
		Long: `Run generate and train concurrently, then risk assessment on the selected
channel and chart rendering. Prints the signal, model metrics and risk.

Exits non-zero if any step failed.`,
		RunE: runPipeline,
	}

	cmd.Flags().String("channel", "normal", "channel to assess (normal, abnormal)")
	cmd.Flags().Float64("level", 0.5, "abnormality level to send before generating")
	cmd.Flags().String("chart-out", "", "write the rendered chart PNG to this file or directory")
	cmd.Flags().Int("width", 0, "plot width in columns (default: fit the terminal)")

	_ = viper.BindPFlag("dashboard.channel", cmd.Flags().Lookup("channel"))

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	tracker := newPipelineTracker(out, len(model.AllOperationKinds()))
	a, err := newApp(ctx, cfg, tracker)
	if err != nil {
		return err
	}
	defer a.Close()
	core := a.core

	var failures []string
	var mu sync.Mutex

	// The level must reach the backend before it generates.
	if cmd.Flags().Changed("level") {
		level, _ := cmd.Flags().GetFloat64("level")
		call, err := core.SetLevel(level)
		if err != nil {
			return err
		}
		res := call.Execute(ctx)
		core.CompleteLevel(res)
		if res.Err != nil {
			slog.Warn("Pipeline step failed", "op", dashboard.OperationSetLevel, "error", res.Err)
			failures = append(failures, "Set abnormality level")
		}
	}
	fail := func(kind model.OperationKind, err error) {
		mu.Lock()
		defer mu.Unlock()
		slog.Warn("Pipeline step failed", "op", kind.String(), "error", err)
		failures = append(failures, kind.Label())
	}

	// Independent steps run concurrently; failures are collected, not fatal.
	var g errgroup.Group
	for _, kind := range []model.OperationKind{model.GenerateSignal, model.TrainModel} {
		g.Go(func() error {
			if _, err := core.Invoke(ctx, kind); err != nil {
				fail(kind, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, kind := range []model.OperationKind{model.ComputeRisk, model.RenderChart} {
		if ctx.Err() != nil {
			break
		}
		if _, err := core.Invoke(ctx, kind); err != nil {
			fail(kind, err)
			tracker.skip(kind)
		}
	}
	core.Wait()
	tracker.finish()

	snap := core.Snapshot()
	if err := printReport(out, snap, plotWidth(cmd)); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("chart-out"); path != "" && snap.Chart != nil {
		saved, err := writeChartOut(snap.Chart, path, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nChart saved to %s\n", saved)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pipeline interrupted: %w", err)
	}
	if len(failures) > 0 {
		return fmt.Errorf("pipeline failed: %s", strings.Join(failures, ", "))
	}
	return nil
}

func plotWidth(cmd *cobra.Command) int {
	w, _ := cmd.Flags().GetInt("width")
	return w
}

// writeChartOut writes chart to path, or under path with a timestamped name
// when path is an existing directory.
func writeChartOut(chart *model.ChartImage, path string, now time.Time) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return tui.WriteChart(chart, path, now)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	if err := os.WriteFile(path, chart.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	return path, nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	riskStyles   = map[model.RiskLevel]lipgloss.Style{
		model.RiskLow:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981")),
		model.RiskModerate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b")),
		model.RiskHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
	}
)

func printReport(w io.Writer, snap dashboard.Snapshot, width int) error {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("ECG Signal (%s)", snap.Channel.Title())))
	b.WriteString("\n")
	b.WriteString(plot.String(snap.Series, plot.Options{
		Width: width,
	}))

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Model Metrics"))
	b.WriteString("\n")
	if snap.Metrics != nil {
		fmt.Fprintf(&b, "  Accuracy  %s\n", tui.FormatPercent(snap.Metrics.Accuracy))
		fmt.Fprintf(&b, "  F1 Score  %s\n", tui.FormatPercent(snap.Metrics.F1))
		fmt.Fprintf(&b, "  ROC AUC   %s\n", tui.FormatPercent(snap.Metrics.ROCAUC))
	} else {
		b.WriteString("  Not trained\n")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Risk Assessment"))
	b.WriteString("\n")
	if r := snap.Risk; r != nil {
		style, ok := riskStyles[r.Level]
		if !ok {
			style = lipgloss.NewStyle()
		}
		fmt.Fprintf(&b, "  Risk Probability  %.1f%%\n", r.ProbabilityPercent)
		fmt.Fprintf(&b, "  Risk Level        %s\n", style.Render(string(r.Level)))
		fmt.Fprintf(&b, "  Signal Type       %s\n", r.Channel.Title())
		if len(r.Factors) > 0 {
			b.WriteString("  Risk Factors\n")
			for _, f := range r.Factors {
				fmt.Fprintf(&b, "    • %s\n", f)
			}
		}
		if len(r.Recommendations) > 0 {
			b.WriteString("  Recommendations\n")
			for _, rec := range r.Recommendations {
				fmt.Fprintf(&b, "    • %s\n", rec)
			}
		}
	} else {
		b.WriteString("  Not assessed\n")
	}

	if snap.Chart != nil {
		fmt.Fprintf(&b, "\nChart: %s PNG\n", tui.FormatBytes(len(snap.Chart.Data)))
	}

	if snap.ErrorMessage != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + snap.ErrorMessage))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// pipelineTracker advances a progress bar as operations finish.
type pipelineTracker struct {
	bar       *progressbar.ProgressBar
	mu        sync.Mutex
	completed map[string]bool
}

var _ dashboard.Observer = (*pipelineTracker)(nil)

func newPipelineTracker(w io.Writer, steps int) *pipelineTracker {
	return &pipelineTracker{
		completed: make(map[string]bool),
		bar: progressbar.NewOptions(steps,
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Running ECG pipeline...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(w); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		),
	}
}

func (p *pipelineTracker) OperationDispatched(string) {}

func (p *pipelineTracker) OperationRejected(operation string, err error) {
	slog.Debug("Pipeline step rejected", "op", operation, "error", err)
}

func (p *pipelineTracker) OperationCompleted(ev dashboard.Event) {
	if ev.Operation == dashboard.OperationSetLevel {
		return
	}
	p.advance(ev.Operation)
}

// skip counts a step that never reached the backend.
func (p *pipelineTracker) skip(kind model.OperationKind) {
	p.advance(kind.String())
}

func (p *pipelineTracker) advance(operation string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed[operation] {
		return
	}
	p.completed[operation] = true
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

func (p *pipelineTracker) finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
