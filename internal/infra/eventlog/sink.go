// Package eventlog publishes domain events to the structured log. It is the
// default Sink; a broker-backed one can replace it without touching usecases.
package eventlog

import (
	"log/slog"

	"stayops/internal/domain/event"
)

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(e event.Event) error {
	s.logger.Info("domain event", "event", e.Name(), "payload", e)
	return nil
}
