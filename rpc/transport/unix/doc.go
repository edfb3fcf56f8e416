// Package unix implements the stream transport over Unix domain sockets.
// It plugs Unix-socket connectors into the base transport. The server
// removes a stale socket file before listening.
package unix
