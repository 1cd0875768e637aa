package tui

import (
	"github.com/Veraticus/ecgdash/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	ChartDir  string
	LevelStep float64
	Width     int
	Height    int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultLevelStep is the arrow-key increment of the abnormality level.
const defaultLevelStep = 0.01

// coarseLevelStep is the shift+arrow increment of the abnormality level.
const coarseLevelStep = 0.1

func defaultConfig() Config {
	return Config{
		Theme:     themes.Dark,
		LevelStep: defaultLevelStep,
		Width:     100,
		Height:    40,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithChartDir sets where saved charts are written.
func WithChartDir(dir string) Option {
	return func(c *Config) {
		c.ChartDir = dir
	}
}

// WithLevelStep sets the arrow-key increment of the abnormality level.
func WithLevelStep(step float64) Option {
	return func(c *Config) {
		if step > 0 && step <= 1 {
			c.LevelStep = step
		}
	}
}
