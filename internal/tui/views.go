package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/Veraticus/ecgdash/internal/plot"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const appTitle = "ECG Analysis Dashboard"

func (m Model) render(snap dashboard.Snapshot) string {
	sections := []string{
		m.renderHeader(),
		m.renderActions(snap),
		m.renderChannelTabs(snap),
		m.renderLevel(snap),
		m.renderSignal(snap),
		m.renderResults(snap),
	}
	if line := m.renderStatusLine(snap); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	return m.theme.Title.Render(appTitle) + "  " + m.theme.Subtitle.Render("theme: "+m.theme.Name)
}

func (m Model) renderActions(snap dashboard.Snapshot) string {
	keys := []string{"g", "t", "r", "c"}
	buttons := make([]string, 0, len(keys))
	for i, kind := range model.AllOperationKinds() {
		st := snap.State(kind)
		label := fmt.Sprintf("[%s] %s %s", keys[i], kind.Label(), m.statusGlyph(st))

		style := m.theme.Button
		if kind == model.ComputeRisk && !snap.HasSignal() {
			style = m.theme.ButtonDisabled
		}
		buttons = append(buttons, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) statusGlyph(st model.OperationState) string {
	switch st.Status {
	case model.StatusPending:
		return m.spinner.View()
	case model.StatusSucceeded:
		return m.theme.StatusSuccess.Render("✓")
	case model.StatusFailed:
		return m.theme.StatusError.Render("✗")
	default:
		return " "
	}
}

func (m Model) renderChannelTabs(snap dashboard.Snapshot) string {
	tabs := make([]string, 0, 2)
	for _, ch := range []model.Channel{model.ChannelNormal, model.ChannelAbnormal} {
		style := m.theme.TabInactive
		if ch == snap.Channel {
			style = m.theme.TabActive
		}
		tabs = append(tabs, style.Render(ch.Title()+" ECG"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderLevel(snap dashboard.Snapshot) string {
	return fmt.Sprintf("%s %s %s",
		m.theme.Bold.Render("Abnormality Level:"),
		m.gauge.ViewAs(snap.Level),
		m.theme.Normal.Render(FormatLevel(snap.Level)))
}

func (m Model) renderSignal(snap dashboard.Snapshot) string {
	title := m.theme.PanelTitle.Render(snap.Channel.Title() + " ECG")
	if !snap.HasSignal() {
		return m.theme.Panel.Render(title + "\n" + m.theme.Faint.Render("Press g to generate ECG data."))
	}

	width := max(20, m.width-16)
	chart := plot.String(snap.Series, plot.Options{
		Width:  width,
		Height: plotHeight(m.height),
		Trace:  m.theme.Trace,
		Axis:   m.theme.Axis,
	})
	return m.theme.Panel.Render(title + "\n" + strings.TrimRight(chart, "\n"))
}

func plotHeight(total int) int {
	return max(4, min(12, total-28))
}

func (m Model) renderResults(snap dashboard.Snapshot) string {
	panels := []string{
		m.renderMetrics(snap),
		m.renderRisk(snap),
		m.renderChart(snap),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m Model) renderMetrics(snap dashboard.Snapshot) string {
	title := m.theme.PanelTitle.Render("Model Performance")
	if snap.Metrics == nil {
		return m.theme.Panel.Render(title + "\n" + m.theme.Faint.Render("Not trained yet."))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers("Metric", "Score").
		Row("Accuracy", FormatPercent(snap.Metrics.Accuracy)).
		Row("F1 Score", FormatPercent(snap.Metrics.F1)).
		Row("ROC AUC", FormatPercent(snap.Metrics.ROCAUC))
	return m.theme.Panel.Render(title + "\n" + t.String())
}

func (m Model) renderRisk(snap dashboard.Snapshot) string {
	title := m.theme.PanelTitle.Render("Heart Failure Risk")
	if snap.Risk == nil {
		hint := "Press r to assess the active signal."
		if !snap.HasSignal() {
			hint = "Generate ECG data first."
		}
		return m.theme.Panel.Render(title + "\n" + m.theme.Faint.Render(hint))
	}

	r := snap.Risk
	lines := []string{
		title,
		fmt.Sprintf("Probability: %.1f%%", r.ProbabilityPercent),
		"Risk Level: " + m.riskStyle(r.Level).Render(string(r.Level)),
		"Signal Type: " + r.Channel.Title(),
	}
	if r.HasFactors() {
		lines = append(lines, m.theme.Bold.Render("Risk Factors:"))
		for _, f := range r.Factors {
			lines = append(lines, "  • "+f)
		}
	}
	if len(r.Recommendations) > 0 {
		lines = append(lines, m.theme.Bold.Render("Recommendations:"))
		for _, rec := range r.Recommendations {
			lines = append(lines, "  • "+rec)
		}
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) riskStyle(level model.RiskLevel) lipgloss.Style {
	switch level {
	case model.RiskHigh:
		return m.theme.StatusError
	case model.RiskModerate:
		return m.theme.StatusWarning
	default:
		return m.theme.StatusSuccess
	}
}

func (m Model) renderChart(snap dashboard.Snapshot) string {
	title := m.theme.PanelTitle.Render("ECG Chart")
	if snap.Chart == nil {
		return m.theme.Panel.Render(title + "\n" + m.theme.Faint.Render("Press c to fetch the chart."))
	}

	lines := []string{title, "Size: " + FormatBytes(snap.Chart.Size())}
	if w, h, ok := snap.Chart.Dimensions(); ok {
		lines = append(lines, fmt.Sprintf("Image: %d×%d", w, h))
	}
	if m.chartPath != "" {
		lines = append(lines, "Saved: "+m.chartPath)
	} else {
		lines = append(lines, m.theme.Faint.Render("Press s to save."))
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusLine(snap dashboard.Snapshot) string {
	if snap.ErrorMessage != "" {
		return m.theme.StatusError.Render("Error: "+snap.ErrorMessage) +
			m.theme.Faint.Render("  (esc to dismiss)")
	}
	if m.notice != "" {
		return m.theme.StatusInfo.Render(m.notice)
	}
	return ""
}

// FormatPercent renders a [0,1] score as a percentage with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatLevel renders the abnormality level as a whole percent.
func FormatLevel(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
