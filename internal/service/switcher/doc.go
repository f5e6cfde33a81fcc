// Package switcher toggles the game server's infrastructure stack on and
// off by overriding stack parameters, refusing to act while the counter
// still reports connected clients.
package switcher
