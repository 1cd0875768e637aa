package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/ecgdash/internal/tui"
	"github.com/Veraticus/ecgdash/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive ECG dashboard",
		Long: `Open the interactive dashboard.

Keys: g generate, t train, r risk, c chart, tab/1/2 channel,
←/→ level, shift+←/→ coarse level, s save chart, T theme, ? help, q quit.`,
		RunE: runDashboard,
	}

	cmd.Flags().String("theme", themes.NameDark, "color theme (dark, light)")
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	logFile, err := logToFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, "failed to close log file:", cerr)
		}
	}()

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("Starting dashboard", "backend", cfg.Backend.URL)
	return tui.Run(cmd.Context(), a.core,
		tui.WithTheme(themes.GetTheme(cfg.Dashboard.Theme)),
		tui.WithChartDir(cfg.Dashboard.ChartDir),
		tui.WithLevelStep(cfg.Dashboard.LevelStep),
	)
}
