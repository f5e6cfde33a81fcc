package count

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/oshokin/minecraft-switchboard/internal/logger"
)

// datapointPattern matches the bracketed datapoint segment the alarm system
// embeds in every state-change reason, e.g. "[2.0 (01/08/22 15:05:00)]".
var datapointPattern = regexp.MustCompile(`\[([0-9.-]*)\s*\([^)]*\)\]`)

// ErrNoDatapoint is returned when a state-change reason carries no
// bracketed datapoint segment.
var ErrNoDatapoint = errors.New("no datapoint in state change reason")

// ExtractDatapoint pulls the first numeric datapoint out of an alarm
// state-change reason. The raw reason is audit-logged before parsing.
// Callers truncate the result toward zero before using it as a delta.
func ExtractDatapoint(ctx context.Context, reason string) (float64, error) {
	logger.InfoKV(ctx, "Analyzing alarm state change reason", "reason", reason)

	match := datapointPattern.FindStringSubmatch(reason)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoDatapoint, reason)
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %w", ErrNoDatapoint, match[1], err)
	}

	return value, nil
}
