// Package metrics reads the connected-count time series from the external
// metrics store. The legacy counting mode derives the previous count from
// the last fill-forward value of the series instead of a counter table.
package metrics
