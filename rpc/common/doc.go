// Package common contains the data structures shared by the RPC client and
// server: the wire Message protocol (a flat request/response structure
// covering all operation kinds), the client and server configuration
// structs and the logging setup.
package common
