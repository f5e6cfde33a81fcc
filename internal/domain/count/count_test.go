package count

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClassifyLogLine covers the three recognized line shapes and the failure case.
func TestClassifyLogLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		message string
		want    LogState
	}{
		{
			name:    "joined",
			message: "[15:31:00] [Server thread/INFO]: steve joined the game",
			want:    StateJoined,
		},
		{
			name:    "left",
			message: "[15:35:00] [Server thread/INFO]: steve left the game",
			want:    StateLeft,
		},
		{
			name:    "control message",
			message: "CWL CONTROL MESSAGE: Checking health of destination Kinesis stream.",
			want:    StateControlMessage,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ClassifyLogLine(tc.message)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestClassifyLogLine_Unknown verifies an unrecognized line is a hard error.
func TestClassifyLogLine_Unknown(t *testing.T) {
	t.Parallel()

	got, err := ClassifyLogLine("[15:31:00] [Server thread/INFO]: server overloaded")
	require.ErrorIs(t, err, ErrUnknownLogState)
	require.Equal(t, StateUnknown, got)
}

// TestClassifyLogLine_JoinedWinsOverLeft checks matching priority when both
// markers appear in one line (a player named "left" joining, say).
func TestClassifyLogLine_JoinedWinsOverLeft(t *testing.T) {
	t.Parallel()

	got, err := ClassifyLogLine("left joined the game")
	require.NoError(t, err)
	require.Equal(t, StateJoined, got)
}

// TestLogStateDelta verifies the signed delta each state contributes.
func TestLogStateDelta(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 1, StateJoined.Delta())
	require.EqualValues(t, -1, StateLeft.Delta())
	require.EqualValues(t, 0, StateControlMessage.Delta())
	require.EqualValues(t, 0, StateUnknown.Delta())
}

// TestExtractDatapoint verifies the bracketed datapoint is parsed as a float.
func TestExtractDatapoint(t *testing.T) {
	t.Parallel()

	reason := "Threshold Crossed: 1 out of the last 1 datapoints [2.5 (01/01/22 00:00:00)] " +
		"was greater than or equal to the threshold (1.0) (minimum 1 datapoint for OK -> ALARM transition)."

	value, err := ExtractDatapoint(context.Background(), reason)
	require.NoError(t, err)
	require.InDelta(t, 2.5, value, 0)
}

// TestExtractDatapoint_Negative verifies negative datapoints are supported.
func TestExtractDatapoint_Negative(t *testing.T) {
	t.Parallel()

	value, err := ExtractDatapoint(context.Background(), "datapoints [-1.0 (01/08/22 15:06:00)] were low")
	require.NoError(t, err)
	require.InDelta(t, -1.0, value, 0)
}

// TestExtractDatapoint_NoBrackets verifies malformed reasons fail with ErrNoDatapoint.
func TestExtractDatapoint_NoBrackets(t *testing.T) {
	t.Parallel()

	_, err := ExtractDatapoint(context.Background(), "Threshold Crossed without any datapoint segment")
	require.ErrorIs(t, err, ErrNoDatapoint)
}
