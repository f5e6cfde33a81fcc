// Package config defines settings used by the switchboard binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type names the counter table, alarm identities, metric series
// and the infrastructure stack with its toggled parameters.
package config
