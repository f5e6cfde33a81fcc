package counter

import (
	"context"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	"github.com/oshokin/minecraft-switchboard/internal/logger"
	repo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	"github.com/oshokin/minecraft-switchboard/internal/telemetry"
)

// LogsToStore counts join/leave log lines into the persistent counter.
type LogsToStore struct {
	// store applies the signed deltas.
	store repo.Store
}

// NewLogsToStore creates the log-driven counting command.
func NewLogsToStore(store repo.Store) *LogsToStore {
	return &LogsToStore{store: store}
}

// Name identifies the variant in log lines.
func (c *LogsToStore) Name() string {
	return "logs-to-store"
}

// CheckEventSource requires a well-shaped stream delivery.
func (c *LogsToStore) CheckEventSource(env *event.Envelope) (bool, error) {
	return event.CheckKinesisSource(env)
}

// Count classifies the whole batch before touching the store, then applies
// one delta per counted record in input order. The returned totals carry
// one entry per counted record; a batch of only control messages yields an
// empty result. An unrecognized line fails the batch with no mutation.
func (c *LogsToStore) Count(ctx context.Context, env *event.Envelope) (*Result, error) {
	groups, err := event.ClassifyLogBatch(env)
	if err != nil {
		return nil, err
	}

	totals := make([]int64, 0, len(groups))

	for _, group := range groups {
		for _, state := range group {
			if state == count.StateControlMessage {
				logger.InfoKV(ctx, "Skipping control message", "state", state.String())

				continue
			}

			total, err := c.store.Add(ctx, state.Delta())
			if err != nil {
				return nil, err
			}

			telemetry.ObserveDelta(state.Delta())
			totals = append(totals, total)
		}
	}

	return &Result{Totals: totals}, nil
}
