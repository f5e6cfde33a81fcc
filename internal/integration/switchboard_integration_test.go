package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/minecraft-switchboard/internal/api/rest"
	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
	"github.com/oshokin/minecraft-switchboard/internal/event"
	counterrepo "github.com/oshokin/minecraft-switchboard/internal/repository/counter"
	"github.com/oshokin/minecraft-switchboard/internal/repository/stack"
	counterservice "github.com/oshokin/minecraft-switchboard/internal/service/counter"
	"github.com/oshokin/minecraft-switchboard/internal/service/switcher"
)

// memoryStacks simulates one deployed stack for end-to-end runs.
type memoryStacks struct {
	// parameters is the current parameter set.
	parameters []stack.Parameter
}

func (m *memoryStacks) Parameters(context.Context) ([]stack.Parameter, error) {
	return m.parameters, nil
}

func (m *memoryStacks) Update(_ context.Context, submitted []stack.Parameter) error {
	// Apply the submission the way the infrastructure layer would:
	// use-previous keys keep their deployed value.
	next := make([]stack.Parameter, 0, len(submitted))

	for i, p := range submitted {
		if p.UsePrevious {
			next = append(next, m.parameters[i])

			continue
		}

		next = append(next, stack.Parameter{Key: p.Key, Value: p.Value})
	}

	m.parameters = next

	return nil
}

// startSwitchboard assembles the full HTTP surface over in-memory stores.
func startSwitchboard(t *testing.T) (*httptest.Server, *memoryStacks, counterrepo.Store) {
	t.Helper()

	stacks := &memoryStacks{parameters: []stack.Parameter{
		{Key: "ServerEnabled", Value: "false"},
		{Key: "ServerTaskCount", Value: "0"},
	}}
	counterStore := counterrepo.NewMemory()

	sw := switcher.New(stacks, counterStore, "ServerEnabled", "ServerTaskCount")
	logsCounter := counterservice.New(counterservice.NewLogsToStore(counterStore))
	alarmCounter := counterservice.New(
		counterservice.NewAlarmToStore(counterStore, "joined_alarm", "left_alarm"))

	router := rest.NewRouter(rest.NewHandler(sw, logsCounter, alarmCounter, "minecraft-environment-deployment"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, stacks, counterStore
}

// postEvent posts one event document and decodes the JSON response.
func postEvent(t *testing.T, url string, doc any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(doc)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body)) //nolint:noctx // Test helper.
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

// logEnvelope packs log lines into a stream-shaped envelope.
func logEnvelope(t *testing.T, messages ...string) *event.Envelope {
	t.Helper()

	type logEvent struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}

	events := make([]logEvent, 0, len(messages))
	for i, m := range messages {
		events = append(events, logEvent{ID: fmt.Sprintf("%d", i), Message: m})
	}

	payload, err := json.Marshal(map[string]any{"logEvents": events})
	require.NoError(t, err)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	return &event.Envelope{Records: []event.Record{{
		Kinesis: &event.KinesisRecord{Data: buf.Bytes()},
	}}}
}

// TestSwitchboard_CountThenGuardThenSwitch runs the whole flow: players
// join via a log batch, the switch is refused, players leave, the switch
// proceeds and flips the stack parameters.
func TestSwitchboard_CountThenGuardThenSwitch(t *testing.T) {
	server, stacks, counterStore := startSwitchboard(t)

	// Two players join.
	code, _ := postEvent(t, server.URL+"/events/logs",
		logEnvelope(t, "alex joined the game", "steve joined the game"))
	require.Equal(t, http.StatusOK, code)

	value, err := counterStore.Value(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, value)

	// The guard refuses to switch off while they are connected.
	resp, err := http.Get(server.URL + "/switch/off") //nolint:noctx // Test helper.
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, "false", stacks.parameters[0].Value)

	// Both leave, reported as an alarm datapoint of 2.
	message, err := json.Marshal(count.AlarmEvent{
		AlarmName: "left_alarm",
		NewStateReason: "Threshold Crossed: 1 out of the last 1 datapoints " +
			"[2.0 (01/08/22 15:06:00)] was not greater than or equal to the threshold (1.0).",
	})
	require.NoError(t, err)

	code, _ = postEvent(t, server.URL+"/events/alarm", &event.Envelope{
		Records: []event.Record{{SNS: &event.SNSRecord{Message: string(message)}}},
	})
	require.Equal(t, http.StatusOK, code)

	value, err = counterStore.Value(context.Background())
	require.NoError(t, err)
	require.Zero(t, value)

	// Now the switch proceeds: enabled flips and one task is requested.
	resp, err = http.Get(server.URL + "/switch/on") //nolint:noctx // Test helper.
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Equal(t, []stack.Parameter{
		{Key: "ServerEnabled", Value: "true"},
		{Key: "ServerTaskCount", Value: "1"},
	}, stacks.parameters)
}
