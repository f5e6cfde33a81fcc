// Package count holds the domain model of the connected-clients counter:
// log line classification, alarm datapoint extraction, and the Tally
// value describing the outcome of one counting event.
package count
