// Package scheduler runs the once-a-day automatic charge generation check.
// This is deliberately not a cron: a single daily pass over "whose due day is
// today" is all the billing engine needs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/everton-web/BPay/internal/billing"
)

type Daily struct {
	billing  *billing.Service
	interval time.Duration
}

func NewDaily(svc *billing.Service) *Daily {
	return &Daily{billing: svc, interval: 24 * time.Hour}
}

// Run checks once immediately and then every 24h until ctx is cancelled.
// Intended to be started as `go d.Run(ctx)` from main.
func (d *Daily) Run(ctx context.Context) {
	d.check(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.check(ctx)
		}
	}
}

func (d *Daily) check(ctx context.Context) {
	result, err := d.billing.CheckAndGenerateToday(ctx)
	if err != nil {
		slog.Error("daily charge check failed", "error", err)
		return
	}
	if result == nil {
		slog.Info("daily charge check: no students due today")
		return
	}
	slog.Info("daily charge check generated charges",
		"created", result.ChargesCreated,
		"target_month", result.TargetMonth)
}
