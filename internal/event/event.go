package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the outer shape of every inbound event document.
// Field names mirror the upstream JSON contract bit-exactly.
type Envelope struct {
	// Records carries one entry per delivered record.
	Records []Record `json:"Records"`
}

// Record is a single delivery inside an envelope. Exactly one of the
// nested sources is populated depending on the trigger.
type Record struct {
	// EventSource names the delivering service, e.g. "aws:kinesis".
	EventSource string `json:"eventSource,omitempty"`
	// Kinesis is set for log batch deliveries from the data stream.
	Kinesis *KinesisRecord `json:"kinesis,omitempty"`
	// SNS is set for alarm notification deliveries.
	SNS *SNSRecord `json:"Sns,omitempty"`
}

// KinesisRecord carries one compressed log payload.
type KinesisRecord struct {
	// Data is the gzip-compressed JSON payload. The wire format is
	// base64 text; encoding/json decodes it into raw bytes for us.
	Data []byte `json:"data"`
	// PartitionKey routes the record inside the stream.
	PartitionKey string `json:"partitionKey,omitempty"`
	// SequenceNumber orders records within a shard.
	SequenceNumber string `json:"sequenceNumber,omitempty"`
}

// SNSRecord carries one notification body.
type SNSRecord struct {
	// Message is the JSON-encoded notification payload.
	Message string `json:"Message"`
}

// ErrUnknownEventSource is returned when an envelope does not match any
// known trigger shape. Malformed input is an error, never a silent false.
var ErrUnknownEventSource = errors.New("unknown event source")

// Parse decodes a raw event document into an Envelope.
func Parse(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}

	return &env, nil
}

// CheckKinesisSource reports whether the envelope is a well-shaped,
// non-empty stream delivery. Absent or malformed nested fields fail with
// ErrUnknownEventSource.
func CheckKinesisSource(env *Envelope) (bool, error) {
	if env == nil || len(env.Records) == 0 {
		return false, fmt.Errorf("%w: no records", ErrUnknownEventSource)
	}

	for i, record := range env.Records {
		if record.Kinesis == nil || len(record.Kinesis.Data) == 0 {
			return false, fmt.Errorf("%w: record %d is not a stream delivery", ErrUnknownEventSource, i)
		}
	}

	return true, nil
}

// CheckNotificationSource reports whether the envelope is a well-shaped
// notification delivery. Absent or malformed nested fields fail with
// ErrUnknownEventSource.
func CheckNotificationSource(env *Envelope) (bool, error) {
	if env == nil || len(env.Records) == 0 {
		return false, fmt.Errorf("%w: no records", ErrUnknownEventSource)
	}

	for i, record := range env.Records {
		if record.SNS == nil || record.SNS.Message == "" {
			return false, fmt.Errorf("%w: record %d is not a notification", ErrUnknownEventSource, i)
		}
	}

	return true, nil
}
