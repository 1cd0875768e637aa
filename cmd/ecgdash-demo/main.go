// Package main runs the dashboard against an in-process synthetic backend.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/tui"
	"github.com/Veraticus/ecgdash/internal/tui/themes"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		latency time.Duration
		seed    uint64
		theme   string
	)
	cmd := &cobra.Command{
		Use:          "ecgdash-demo",
		Short:        "ECG dashboard with a synthetic backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The dashboard owns the terminal; keep logs out of it.
			if err := common.SetupLogger(io.Discard, "info", "console"); err != nil {
				return err
			}
			core := dashboard.New(newSynthBackend(seed, latency), dashboard.WithLogger(slog.Default()))
			defer core.Wait()
			return tui.Run(cmd.Context(), core,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithSize(120, 40),
				tui.WithChartDir(os.TempDir()),
			)
		},
	}
	cmd.Flags().DurationVar(&latency, "latency", 600*time.Millisecond, "simulated backend latency")
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed for generated signals")
	cmd.Flags().StringVar(&theme, "theme", themes.NameDark, "color theme (dark, light)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newDemoCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
