package event

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/oshokin/minecraft-switchboard/internal/domain/count"
)

// logBatch is the decompressed payload of one stream record.
type logBatch struct {
	// LogEvents lists the log lines bundled into this record.
	LogEvents []logEvent `json:"logEvents"`
}

// logEvent is a single log line inside a batch.
type logEvent struct {
	// ID uniquely identifies the line within the log group.
	ID string `json:"id"`
	// Message is the raw log line text.
	Message string `json:"message"`
}

// DecodeLogBatch expands every stream record in the envelope into its log
// line messages: base64 (already handled by JSON decoding) -> gzip -> JSON.
// The result keeps one inner slice per record, preserving both record and
// line order.
func DecodeLogBatch(env *Envelope) ([][]string, error) {
	if _, err := CheckKinesisSource(env); err != nil {
		return nil, err
	}

	groups := make([][]string, 0, len(env.Records))

	for i, record := range env.Records {
		batch, err := decodeRecord(record.Kinesis.Data)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}

		messages := make([]string, 0, len(batch.LogEvents))
		for _, e := range batch.LogEvents {
			messages = append(messages, e.Message)
		}

		groups = append(groups, messages)
	}

	return groups, nil
}

// ClassifyLogBatch decodes the envelope and classifies every line,
// preserving grouping and order. An unrecognized line fails the whole
// batch; no partial result is returned.
func ClassifyLogBatch(env *Envelope) ([][]count.LogState, error) {
	groups, err := DecodeLogBatch(env)
	if err != nil {
		return nil, err
	}

	states := make([][]count.LogState, 0, len(groups))

	for _, messages := range groups {
		group := make([]count.LogState, 0, len(messages))

		for _, message := range messages {
			state, err := count.ClassifyLogLine(message)
			if err != nil {
				return nil, err
			}

			group = append(group, state)
		}

		states = append(states, group)
	}

	return states, nil
}

// decodeRecord decompresses and parses a single record payload.
func decodeRecord(data []byte) (*logBatch, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip payload: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	var batch logBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}

	return &batch, nil
}

// ParseAlarm extracts the alarm notification embedded in the envelope's
// first record.
func ParseAlarm(env *Envelope) (*count.AlarmEvent, error) {
	if _, err := CheckNotificationSource(env); err != nil {
		return nil, err
	}

	var alarm count.AlarmEvent
	if err := json.Unmarshal([]byte(env.Records[0].SNS.Message), &alarm); err != nil {
		return nil, fmt.Errorf("parse notification message: %w", err)
	}

	return &alarm, nil
}
