// Package tcp implements the stream transport over TCP sockets. It plugs
// TCP-specific connectors into the base transport and applies socket
// tuning (no-delay, keep-alive, linger, buffer sizes) from the shared
// transport configuration.
package tcp
