package counter

import (
	"context"
	"fmt"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	repo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	"github.com/oshokin/minecraft-switchboard/internal/telemetry"
)

// AlarmToStore counts threshold-alarm notifications into the persistent
// counter. The alarm's datapoint is the delta magnitude; the alarm name
// decides the sign.
type AlarmToStore struct {
	// store applies the signed delta.
	store repo.Store
	// joinedAlarmName is the alarm identity meaning players joined.
	joinedAlarmName string
	// leftAlarmName is the alarm identity meaning players left.
	leftAlarmName string
}

// NewAlarmToStore creates the alarm-driven counting command.
func NewAlarmToStore(store repo.Store, joinedAlarmName, leftAlarmName string) *AlarmToStore {
	return &AlarmToStore{
		store:           store,
		joinedAlarmName: joinedAlarmName,
		leftAlarmName:   leftAlarmName,
	}
}

// Name identifies the variant in log lines.
func (c *AlarmToStore) Name() string {
	return "alarm-to-store"
}

// CheckEventSource requires a well-shaped notification delivery.
func (c *AlarmToStore) CheckEventSource(env *event.Envelope) (bool, error) {
	return event.CheckNotificationSource(env)
}

// Count extracts the datapoint, truncates it toward zero, signs it by the
// alarm identity and applies one atomic delta.
func (c *AlarmToStore) Count(ctx context.Context, env *event.Envelope) (*Result, error) {
	alarm, err := event.ParseAlarm(env)
	if err != nil {
		return nil, err
	}

	datapoint, err := count.ExtractDatapoint(ctx, alarm.NewStateReason)
	if err != nil {
		return nil, err
	}

	magnitude := int64(datapoint)

	var delta, joined, left int64

	switch alarm.AlarmName {
	case c.joinedAlarmName:
		delta, joined = magnitude, magnitude
	case c.leftAlarmName:
		delta, left = -magnitude, magnitude
	default:
		return nil, fmt.Errorf("%w: %q", ErrAlarmNotFound, alarm.AlarmName)
	}

	total, err := c.store.Add(ctx, delta)
	if err != nil {
		return nil, err
	}

	telemetry.ObserveDelta(delta)

	return &Result{
		Tally: &count.Tally{
			PreviousCount:  total - delta,
			ConnectedCount: total,
			JoinedCount:    joined,
			LeftCount:      left,
		},
	}, nil
}
