// Package server wires the switchboard's stores and services together and
// runs the HTTP server with graceful shutdown.
package server
