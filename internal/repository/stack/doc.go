// Package stack implements access to the infrastructure stack whose
// parameters toggle the game server on and off. Updates always reuse the
// deployed template; only parameters change.
package stack
