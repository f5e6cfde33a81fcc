// Package event models the inbound trigger documents bit-exactly and
// decodes compressed log batches into classified line groups.
//
// Two trigger shapes are recognized: stream deliveries carrying
// base64+gzip+JSON log batches, and notification deliveries carrying an
// alarm state change. Anything else is ErrUnknownEventSource.
package event
