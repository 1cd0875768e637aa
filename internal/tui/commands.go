package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// executeCall runs a dispatched remote call off the Update loop.
func executeCall(ctx context.Context, call *dashboard.Call) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{done: call.Execute(ctx)}
	}
}

// executeLevel sends an abnormality level update off the Update loop.
func executeLevel(ctx context.Context, call *dashboard.LevelCall) tea.Cmd {
	return func() tea.Msg {
		return levelDoneMsg{result: call.Execute(ctx)}
	}
}

// saveChart writes the chart PNG into dir.
func saveChart(chart *model.ChartImage, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := WriteChart(chart, dir, now)
		return chartSavedMsg{path: path, err: err}
	}
}

// WriteChart stores the decoded chart under dir with a timestamped name and
// returns the file path.
func WriteChart(chart *model.ChartImage, dir string, now time.Time) (string, error) {
	if chart == nil || len(chart.Data) == 0 {
		return "", fmt.Errorf("no chart to save")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	path := filepath.Join(dir, "ecg-chart-"+now.Format("20060102-150405")+".png")
	if err := os.WriteFile(path, chart.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	return path, nil
}
