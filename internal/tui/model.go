// Package tui is the interactive terminal dashboard. It renders only from
// core snapshots and runs every remote call as a tea.Cmd whose result is
// applied back to the core inside Update.
package tui

import (
	"context"
	"time"

	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/Veraticus/ecgdash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the TUI state. Dashboard state lives in the core.
type Model struct {
	ctx       context.Context
	core      *dashboard.Core
	now       func() time.Time
	theme     themes.Theme
	notice    string
	chartPath string
	config    Config
	keymap    KeyMap
	help      help.Model
	gauge     progress.Model
	spinner   spinner.Model
	width     int
	height    int
	quitting  bool
}

// New creates the dashboard model driving core.
func New(ctx context.Context, core *dashboard.Core, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		ctx:     ctx,
		core:    core,
		now:     time.Now,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.applyTheme(cfg.Theme)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.gauge.Width = gaugeWidth(msg.Width)
		return m, nil

	case operationDoneMsg:
		state := m.core.Complete(msg.done)
		if state.Status == model.StatusSucceeded {
			m.notice = state.Kind.Label() + " done"
		}
		return m, nil

	case levelDoneMsg:
		m.core.CompleteLevel(msg.result)
		return m, nil

	case chartSavedMsg:
		if msg.err != nil {
			m.notice = "Could not save chart: " + msg.err.Error()
			return m, nil
		}
		m.chartPath = msg.path
		m.notice = "Chart saved to " + msg.path
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Generate):
		return m, m.dispatch(model.GenerateSignal)
	case key.Matches(msg, k.Train):
		return m, m.dispatch(model.TrainModel)
	case key.Matches(msg, k.Risk):
		return m, m.dispatch(model.ComputeRisk)
	case key.Matches(msg, k.Chart):
		return m, m.dispatch(model.RenderChart)

	case key.Matches(msg, k.ToggleChannel):
		m.core.ToggleChannel()
	case key.Matches(msg, k.Normal):
		_ = m.core.SetActiveChannel(model.ChannelNormal)
	case key.Matches(msg, k.Abnormal):
		_ = m.core.SetActiveChannel(model.ChannelAbnormal)

	case key.Matches(msg, k.LevelDownCoarse):
		return m, m.adjustLevel(-coarseLevelStep)
	case key.Matches(msg, k.LevelUpCoarse):
		return m, m.adjustLevel(coarseLevelStep)
	case key.Matches(msg, k.LevelDown):
		return m, m.adjustLevel(-m.config.LevelStep)
	case key.Matches(msg, k.LevelUp):
		return m, m.adjustLevel(m.config.LevelStep)

	case key.Matches(msg, k.SaveChart):
		chart := m.core.Snapshot().Chart
		if chart == nil {
			m.notice = "No chart to save yet"
			return m, nil
		}
		return m, saveChart(chart, m.config.ChartDir, m.now())

	case key.Matches(msg, k.Dismiss):
		m.core.DismissError()
		m.notice = ""
	case key.Matches(msg, k.ToggleTheme):
		m.applyTheme(themes.Toggle(m.theme))
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// dispatch starts kind. Duplicate requests for a pending kind are ignored;
// precondition failures are already in the core's error slot.
func (m *Model) dispatch(kind model.OperationKind) tea.Cmd {
	call, err := m.core.Dispatch(kind)
	if err != nil {
		return nil
	}
	m.notice = ""
	return executeCall(m.ctx, call)
}

func (m *Model) adjustLevel(delta float64) tea.Cmd {
	call, err := m.core.AdjustLevel(delta)
	if err != nil || call == nil {
		return nil
	}
	return executeLevel(m.ctx, call)
}

func (m *Model) applyTheme(t themes.Theme) {
	m.theme = t
	m.spinner.Style = t.StatusInfo
	m.gauge = progress.New(
		progress.WithSolidFill(string(t.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(gaugeWidth(m.width)),
	)
}

func gaugeWidth(total int) int {
	return max(10, min(40, total/3))
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render(m.core.Snapshot())
}
