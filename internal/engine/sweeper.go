// Package engine hosts the background workers that advance the schedule with
// the wall clock: marking rooms for due arrivals and absorbing no-shows.
package engine

import (
	"context"
	"log/slog"
	"time"

	"stayops/internal/domain/event"
	"stayops/internal/usecase/commands"
)

type Sweeper struct {
	ledger   commands.BookingLedger
	sink     event.Sink
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(ledger commands.BookingLedger, sink event.Sink, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// RunOnce performs one arrival sweep followed by one no-show sweep. Each
// booking is handled in its own transaction, so one failure never blocks the
// rest of the batch.
func (s *Sweeper) RunOnce(ctx context.Context) {
	events, err := s.ledger.SweepArrivals(ctx)
	if err != nil {
		s.logger.Error("arrival sweep failed", "error", err.Error())
	}
	s.publish(events)

	events, err = s.ledger.SweepNoShows(ctx)
	if err != nil {
		s.logger.Error("no-show sweep failed", "error", err.Error())
	}
	s.publish(events)
}

// Run sweeps immediately, then on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Sweeper) publish(events []event.Event) {
	for _, e := range events {
		if err := s.sink.Publish(e); err != nil {
			s.logger.Error("event publish failed", "event", e.Name(), "error", err.Error())
		}
	}
}
