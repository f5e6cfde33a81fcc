// Package rest exposes the switchboard over HTTP: health and metrics
// probes, the switch on/off endpoints, and ingestion endpoints accepting
// raw inbound event documents.
package rest
