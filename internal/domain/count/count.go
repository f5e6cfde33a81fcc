package count

import (
	"errors"
	"fmt"
	"strings"
)

// LogState classifies a single decoded server log line.
type LogState int

const (
	// StateUnknown marks a line that matched no recognized shape.
	StateUnknown LogState = iota
	// StateJoined marks a line reporting a player joining the game.
	StateJoined
	// StateLeft marks a line reporting a player leaving the game.
	StateLeft
	// StateControlMessage marks a delivery-stream health-check line.
	// It is audit-logged and never counted.
	StateControlMessage
)

// controlMessagePrefix opens every delivery-stream health-check line.
const controlMessagePrefix = "CWL CONTROL MESSAGE"

// ErrUnknownLogState is returned when a log line matches no recognized shape.
// It is fatal for the whole batch the line arrived in.
var ErrUnknownLogState = errors.New("unknown log state")

// String returns the lowercase name of the state for log fields.
func (s LogState) String() string {
	switch s {
	case StateJoined:
		return "joined"
	case StateLeft:
		return "left"
	case StateControlMessage:
		return "control_message"
	default:
		return "unknown"
	}
}

// Delta returns the signed counter delta the state contributes.
// Control messages and unknown states contribute nothing.
func (s LogState) Delta() int64 {
	switch s {
	case StateJoined:
		return 1
	case StateLeft:
		return -1
	default:
		return 0
	}
}

// ClassifyLogLine maps a raw server log line onto a LogState.
// Matching is substring containment in priority order: "joined" wins over
// "left", and the control-message prefix is only consulted after both.
func ClassifyLogLine(message string) (LogState, error) {
	switch {
	case strings.Contains(message, "joined"):
		return StateJoined, nil
	case strings.Contains(message, "left"):
		return StateLeft, nil
	case strings.HasPrefix(message, controlMessagePrefix):
		return StateControlMessage, nil
	default:
		return StateUnknown, fmt.Errorf("%w: %q", ErrUnknownLogState, message)
	}
}

// AlarmEvent is the part of a threshold-alarm notification the counter needs.
type AlarmEvent struct {
	// AlarmName identifies which alarm fired.
	AlarmName string `json:"AlarmName"`
	// NewStateReason is the free-text explanation embedding the datapoint.
	NewStateReason string `json:"NewStateReason"`
}

// Tally is the result of applying one counting event.
type Tally struct {
	// PreviousCount is the connected-count before this event.
	PreviousCount int64 `json:"previous_count"`
	// ConnectedCount is the connected-count after this event.
	ConnectedCount int64 `json:"connected_count"`
	// JoinedCount is the number of joins this event contributed.
	JoinedCount int64 `json:"joined_count"`
	// LeftCount is the number of leaves this event contributed.
	LeftCount int64 `json:"left_count"`
}
