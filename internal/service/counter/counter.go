package counter

import (
	"context"
	"errors"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	"github.com/oshokin/minecraft-switchboard/internal/logger"
	"github.com/oshokin/minecraft-switchboard/internal/telemetry"
)

// ErrAlarmNotFound is returned when a notification names neither the
// configured joined alarm nor the configured left alarm.
var ErrAlarmNotFound = errors.New("alarm not found")

// Result is the outcome of processing one inbound event.
type Result struct {
	// Tally is set by alarm-driven commands.
	Tally *count.Tally `json:"tally,omitempty"`
	// Totals is set by log-driven commands: one running total per
	// counted record, in original record order.
	Totals []int64 `json:"totals,omitempty"`
}

// Command is one fixed counting strategy. The wrapper selects the variant
// explicitly; there is no dynamic dispatch on the event shape.
type Command interface {
	// Name identifies the variant in log lines.
	Name() string
	// CheckEventSource reports whether the envelope matches the shape
	// this variant consumes. Malformed envelopes are an error, never a
	// silent false.
	CheckEventSource(env *event.Envelope) (bool, error)
	// Count processes the envelope and returns the counting result.
	Count(ctx context.Context, env *event.Envelope) (*Result, error)
}

// Counter runs one Command against inbound envelopes.
type Counter struct {
	// command is the selected counting strategy.
	command Command
}

// New creates a Counter around the selected command.
func New(command Command) *Counter {
	return &Counter{command: command}
}

// Process checks the event source and counts. Results are logged with the
// tally fields downstream consumers scrape from the log stream.
func (c *Counter) Process(ctx context.Context, env *event.Envelope) (*Result, error) {
	ctx = logger.WithName(ctx, c.command.Name())

	ok, err := c.command.CheckEventSource(env)
	if err != nil {
		telemetry.EventsProcessed.WithLabelValues(c.command.Name(), telemetry.OutcomeError).Inc()

		return nil, err
	}

	if !ok {
		logger.Warn(ctx, "Event source check did not match, skipping")

		return &Result{}, nil
	}

	result, err := c.command.Count(ctx, env)
	if err != nil {
		telemetry.EventsProcessed.WithLabelValues(c.command.Name(), telemetry.OutcomeError).Inc()

		return nil, err
	}

	telemetry.EventsProcessed.WithLabelValues(c.command.Name(), telemetry.OutcomeOK).Inc()

	if result.Tally != nil {
		logger.InfoKV(ctx, "Counted alarm event",
			"previous_count", result.Tally.PreviousCount,
			"connected_count", result.Tally.ConnectedCount,
			"joined_count", result.Tally.JoinedCount,
			"left_count", result.Tally.LeftCount,
		)
	} else {
		logger.InfoKV(ctx, "Counted log batch", "totals", result.Totals)
	}

	return result, nil
}
