// Package serializer converts wire Messages to and from byte slices. Three
// implementations are provided: JSON (human readable, the default), GOB
// (Go native binary) and a hand-rolled binary format optimized for size
// and speed. All implementations are stateless and safe for concurrent
// use.
package serializer
