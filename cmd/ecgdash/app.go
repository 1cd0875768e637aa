package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/ecgdash/internal/backend"
	"github.com/Veraticus/ecgdash/internal/config"
	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/journal"
	"github.com/Veraticus/ecgdash/internal/metrics"
	"github.com/Veraticus/ecgdash/internal/model"
)

// app bundles the core with the infrastructure that outlives a single command.
type app struct {
	core     *dashboard.Core
	journal  *journal.Journal
	recorder *journal.Observer
	cancel   context.CancelFunc
	serveErr chan error
}

// newApp wires backend client, journal and metrics endpoint around a Core.
// Extra observers are registered after the built-in ones.
func newApp(ctx context.Context, cfg *config.Config, observers ...dashboard.Observer) (*app, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Logger:  slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	policy, err := dashboard.ParseStaleRiskPolicy(cfg.Dashboard.StaleRisk)
	if err != nil {
		return nil, err
	}
	channel, err := model.ParseChannel(cfg.Dashboard.Channel)
	if err != nil {
		return nil, err
	}

	a := &app{}
	opts := []dashboard.Option{
		dashboard.WithStaleRiskPolicy(policy),
		dashboard.WithChannel(channel),
		dashboard.WithLevel(cfg.Dashboard.AbnormalityLevel),
		dashboard.WithLogger(slog.Default()),
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		if err := j.Migrate(ctx); err != nil {
			_ = j.Close()
			return nil, err
		}
		a.journal = j
		a.recorder = journal.NewObserver(j, slog.Default())
		opts = append(opts, dashboard.WithObserver(a.recorder))
	}

	if cfg.Metrics.Addr != "" {
		recorder := metrics.New()
		srv, err := metrics.Listen(cfg.Metrics.Addr, recorder)
		if err != nil {
			a.Close()
			return nil, err
		}
		serveCtx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		a.serveErr = make(chan error, 1)
		go func() {
			a.serveErr <- srv.Serve(serveCtx)
		}()
		opts = append(opts, dashboard.WithObserver(recorder))
	}

	for _, o := range observers {
		opts = append(opts, dashboard.WithObserver(o))
	}

	a.core = dashboard.New(client, opts...)
	return a, nil
}

// Close waits for background level updates, stops the metrics endpoint,
// flushes queued journal writes and closes the journal.
func (a *app) Close() {
	if a.core != nil {
		a.core.Wait()
	}
	if a.cancel != nil {
		a.cancel()
		if err := <-a.serveErr; err != nil {
			slog.Warn("Metrics server stopped with error", "error", err)
		}
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			slog.Warn("Failed to close journal", "error", err)
		}
	}
}
