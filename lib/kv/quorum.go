package kv

import (
	"fmt"
	"math"
	"strconv"
)

// Quorum is the number of replicas that must participate in a read or write
// for the operation to be considered successful. Besides plain counts the
// wire protocol reserves four magic values in the top of the uint32 range
// for symbolic quorums.
type Quorum uint32

const (
	// QuorumOne requires a single replica to respond.
	QuorumOne Quorum = math.MaxUint32 - 1
	// QuorumMajority requires a majority of the replicas (n_val/2 + 1).
	QuorumMajority Quorum = math.MaxUint32 - 2
	// QuorumAll requires all replicas to respond.
	QuorumAll Quorum = math.MaxUint32 - 3
	// QuorumDefault defers to the bucket-configured quorum.
	QuorumDefault Quorum = math.MaxUint32 - 4
)

// NewQuorum creates a Quorum requiring exactly n replicas.
func NewQuorum(n uint32) Quorum {
	return Quorum(n)
}

// Uint32 unwraps the quorum to its wire representation.
func (q Quorum) Uint32() uint32 {
	return uint32(q)
}

// ParseQuorum parses a symbolic quorum name or a plain replica count
// (inverse of String).
func ParseQuorum(s string) (Quorum, error) {
	switch s {
	case "one":
		return QuorumOne, nil
	case "quorum":
		return QuorumMajority, nil
	case "all":
		return QuorumAll, nil
	case "default":
		return QuorumDefault, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid quorum %q: expected a count or one of one, quorum, all, default", s)
	}
	return NewQuorum(uint32(n)), nil
}

// String returns the symbolic name for magic values and the plain count
// otherwise.
func (q Quorum) String() string {
	switch q {
	case QuorumOne:
		return "one"
	case QuorumMajority:
		return "quorum"
	case QuorumAll:
		return "all"
	case QuorumDefault:
		return "default"
	default:
		return fmt.Sprintf("%d", uint32(q))
	}
}
