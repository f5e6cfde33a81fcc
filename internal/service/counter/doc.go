// Package counter implements the counting policy: a fixed set of command
// variants that turn inbound events into signed deltas on the persistent
// connected-clients counter, or into a derived snapshot tally.
//
// The wrapper selects the variant explicitly (logs, alarm, series); the
// commands themselves never sniff the event shape beyond validating it.
package counter
