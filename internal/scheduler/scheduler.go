package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crucial707/notehub/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Counter is satisfied by the note and user stores.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Stats names the stores whose sizes are published as gauges.
type Stats struct {
	Notes Counter
	Users Counter
}

// Run refreshes the store gauges once, then on every tick of spec until ctx
// is done. It returns an error only when spec does not parse.
func Run(ctx context.Context, spec string, stats Stats) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := Refresh(ctx, stats); err != nil {
			slog.Warn("scheduler: refresh store stats", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduler: invalid cron spec %q: %w", spec, err)
	}

	if err := Refresh(ctx, stats); err != nil {
		slog.Warn("scheduler: refresh store stats", "error", err)
	}
	slog.Info("scheduler: started", "spec", spec)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("scheduler: stopped")
	return nil
}

// Refresh reads both counts and sets the gauges. Gauges keep their previous
// values when either count fails.
func Refresh(ctx context.Context, stats Stats) error {
	notes, err := stats.Notes.Count(ctx)
	if err != nil {
		return fmt.Errorf("count notes: %w", err)
	}
	users, err := stats.Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	metrics.SetStoreTotals(notes, users)
	return nil
}
