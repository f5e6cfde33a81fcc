package counter

import (
	"context"
	"fmt"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	"github.com/oshokin/minecraft-switchboard/internal/repository/metrics"
)

// AlarmToSeries is the legacy counting mode some deployments still use:
// instead of mutating a store, it derives a snapshot tally from the last
// known value of the connected-count metric series.
type AlarmToSeries struct {
	// series reads the previous connected-count.
	series metrics.SeriesStore
	// joinedAlarmName is the alarm identity meaning players joined.
	joinedAlarmName string
	// leftAlarmName is the alarm identity meaning players left.
	leftAlarmName string
}

// NewAlarmToSeries creates the series-backed counting command.
func NewAlarmToSeries(series metrics.SeriesStore, joinedAlarmName, leftAlarmName string) *AlarmToSeries {
	return &AlarmToSeries{
		series:          series,
		joinedAlarmName: joinedAlarmName,
		leftAlarmName:   leftAlarmName,
	}
}

// Name identifies the variant in log lines.
func (c *AlarmToSeries) Name() string {
	return "alarm-to-series"
}

// CheckEventSource requires a well-shaped notification delivery.
func (c *AlarmToSeries) CheckEventSource(env *event.Envelope) (bool, error) {
	return event.CheckNotificationSource(env)
}

// Count derives the tally arithmetically: the previous count is the last
// fill-forward series value (zero when the series does not exist yet) and
// the fresh datapoint moves it up or down. Nothing is persisted.
func (c *AlarmToSeries) Count(ctx context.Context, env *event.Envelope) (*Result, error) {
	alarm, err := event.ParseAlarm(env)
	if err != nil {
		return nil, err
	}

	datapoint, err := count.ExtractDatapoint(ctx, alarm.NewStateReason)
	if err != nil {
		return nil, err
	}

	lastKnown, err := c.series.LastKnownValue(ctx)
	if err != nil {
		return nil, err
	}

	var (
		magnitude = int64(datapoint)
		previous  = int64(lastKnown)
		tally     *count.Tally
	)

	switch alarm.AlarmName {
	case c.joinedAlarmName:
		tally = &count.Tally{
			PreviousCount:  previous,
			ConnectedCount: previous + magnitude,
			JoinedCount:    magnitude,
		}
	case c.leftAlarmName:
		tally = &count.Tally{
			PreviousCount:  previous,
			ConnectedCount: previous - magnitude,
			LeftCount:      magnitude,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrAlarmNotFound, alarm.AlarmName)
	}

	return &Result{Tally: tally}, nil
}
