// Package kv defines the domain value types shared by the command pipeline
// and the cluster collaborators: record addressing (Location), quorum and
// causality tokens (Quorum, VClock), the wire-level object representation
// (Object) and the caller-supplied conversion capability (Converter).
//
// All types in this package are plain immutable values. They carry no
// behavior beyond validation and representation so that both the client
// command layer and the rpc layer can exchange them freely.
package kv
