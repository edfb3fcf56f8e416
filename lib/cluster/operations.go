package cluster

import (
	"time"

	"github.com/ValentinKolb/qkv/lib/kv"
)

// --------------------------------------------------------------------------
// Option Presence Mask
// --------------------------------------------------------------------------

// OptionMask records which per-request options are set on an operation. An
// option whose bit is clear leaves the corresponding server-side field at
// its own default; the field value is only meaningful when the bit is set.
// The same bit positions are reused on the wire (see rpc/common).
type OptionMask uint32

const (
	OptR OptionMask = 1 << iota
	OptPR
	OptBasicQuorum
	OptNotFoundOK
	OptSloppyQuorum
	OptNVal
	OptTimeout
	OptHead
	OptDeletedVClock
	OptIfModified
	OptW
	OptPW
	OptDW
	OptRW
	OptReturnBody
	OptIfNotModified
	OptIfNoneMatch
	OptVClock
)

// Has reports whether all bits of o are set in the mask.
func (m OptionMask) Has(o OptionMask) bool {
	return m&o == o
}

// --------------------------------------------------------------------------
// Fetch Operation
// --------------------------------------------------------------------------

// FetchOperation is a key-addressed read. Option fields are only read by the
// server when the matching Mask bit is set.
type FetchOperation struct {
	Location kv.Location

	R, PR         uint32
	NVal          uint32
	TimeoutMs     uint32
	BasicQuorum   bool
	NotFoundOK    bool
	SloppyQuorum  bool
	HeadOnly      bool
	DeletedVClock bool
	IfModified    kv.VClock

	Mask OptionMask
}

// FetchResult is the raw outcome of a FetchOperation. NotFound and Unchanged
// are successful outcomes, not errors.
type FetchResult struct {
	NotFound  bool
	Unchanged bool
	Objects   []kv.Object
	VClock    kv.VClock
}

// FetchOperationBuilder assembles a FetchOperation. Every With method sets
// the field together with its presence bit.
type FetchOperationBuilder struct {
	op FetchOperation
}

// NewFetchOperationBuilder creates a builder for the given location.
func NewFetchOperationBuilder(location kv.Location) *FetchOperationBuilder {
	return &FetchOperationBuilder{op: FetchOperation{Location: location}}
}

// WithR sets the read quorum.
func (b *FetchOperationBuilder) WithR(q kv.Quorum) *FetchOperationBuilder {
	b.op.R = q.Uint32()
	b.op.Mask |= OptR
	return b
}

// WithPR sets the primary read quorum.
func (b *FetchOperationBuilder) WithPR(q kv.Quorum) *FetchOperationBuilder {
	b.op.PR = q.Uint32()
	b.op.Mask |= OptPR
	return b
}

// WithBasicQuorum short-circuits quorum evaluation on primary failures.
func (b *FetchOperationBuilder) WithBasicQuorum(enabled bool) *FetchOperationBuilder {
	b.op.BasicQuorum = enabled
	b.op.Mask |= OptBasicQuorum
	return b
}

// WithNotFoundOK counts not-found replica responses towards the quorum.
func (b *FetchOperationBuilder) WithNotFoundOK(enabled bool) *FetchOperationBuilder {
	b.op.NotFoundOK = enabled
	b.op.Mask |= OptNotFoundOK
	return b
}

// WithSloppyQuorum allows fallback nodes to satisfy the quorum.
func (b *FetchOperationBuilder) WithSloppyQuorum(enabled bool) *FetchOperationBuilder {
	b.op.SloppyQuorum = enabled
	b.op.Mask |= OptSloppyQuorum
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *FetchOperationBuilder) WithNVal(n uint32) *FetchOperationBuilder {
	b.op.NVal = n
	b.op.Mask |= OptNVal
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *FetchOperationBuilder) WithTimeout(d time.Duration) *FetchOperationBuilder {
	b.op.TimeoutMs = uint32(d.Milliseconds())
	b.op.Mask |= OptTimeout
	return b
}

// WithHeadOnly fetches metadata only, omitting the value bodies.
func (b *FetchOperationBuilder) WithHeadOnly(enabled bool) *FetchOperationBuilder {
	b.op.HeadOnly = enabled
	b.op.Mask |= OptHead
	return b
}

// WithReturnDeletedVClock returns the version token of a tombstoned record.
func (b *FetchOperationBuilder) WithReturnDeletedVClock(enabled bool) *FetchOperationBuilder {
	b.op.DeletedVClock = enabled
	b.op.Mask |= OptDeletedVClock
	return b
}

// WithIfModified skips returning the value if the server-side token matches.
func (b *FetchOperationBuilder) WithIfModified(v kv.VClock) *FetchOperationBuilder {
	b.op.IfModified = v
	b.op.Mask |= OptIfModified
	return b
}

// Build returns the assembled operation.
func (b *FetchOperationBuilder) Build() *FetchOperation {
	op := b.op
	return &op
}

// --------------------------------------------------------------------------
// Store Operation
// --------------------------------------------------------------------------

// StoreOperation is a key-addressed write of a single object.
type StoreOperation struct {
	Location kv.Location
	Object   kv.Object
	// VClock is the causal context of the value being updated. Absent for
	// fresh writes.
	VClock kv.VClock

	W, PW, DW     uint32
	NVal          uint32
	TimeoutMs     uint32
	SloppyQuorum  bool
	ReturnBody    bool
	IfNotModified bool
	IfNoneMatch   bool

	Mask OptionMask
}

// StoreResult is the raw outcome of a StoreOperation. Objects is populated
// only when the operation requested the body to be returned.
type StoreResult struct {
	Objects []kv.Object
	VClock  kv.VClock
}

// StoreOperationBuilder assembles a StoreOperation.
type StoreOperationBuilder struct {
	op StoreOperation
}

// NewStoreOperationBuilder creates a builder for storing obj at location.
func NewStoreOperationBuilder(location kv.Location, obj kv.Object) *StoreOperationBuilder {
	return &StoreOperationBuilder{op: StoreOperation{Location: location, Object: obj}}
}

// WithVClock attaches the causal context of the value being updated.
func (b *StoreOperationBuilder) WithVClock(v kv.VClock) *StoreOperationBuilder {
	b.op.VClock = v
	b.op.Mask |= OptVClock
	return b
}

// WithW sets the write quorum.
func (b *StoreOperationBuilder) WithW(q kv.Quorum) *StoreOperationBuilder {
	b.op.W = q.Uint32()
	b.op.Mask |= OptW
	return b
}

// WithPW sets the primary write quorum.
func (b *StoreOperationBuilder) WithPW(q kv.Quorum) *StoreOperationBuilder {
	b.op.PW = q.Uint32()
	b.op.Mask |= OptPW
	return b
}

// WithDW sets the durable write quorum.
func (b *StoreOperationBuilder) WithDW(q kv.Quorum) *StoreOperationBuilder {
	b.op.DW = q.Uint32()
	b.op.Mask |= OptDW
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *StoreOperationBuilder) WithNVal(n uint32) *StoreOperationBuilder {
	b.op.NVal = n
	b.op.Mask |= OptNVal
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *StoreOperationBuilder) WithTimeout(d time.Duration) *StoreOperationBuilder {
	b.op.TimeoutMs = uint32(d.Milliseconds())
	b.op.Mask |= OptTimeout
	return b
}

// WithSloppyQuorum allows fallback nodes to satisfy the quorum.
func (b *StoreOperationBuilder) WithSloppyQuorum(enabled bool) *StoreOperationBuilder {
	b.op.SloppyQuorum = enabled
	b.op.Mask |= OptSloppyQuorum
	return b
}

// WithReturnBody returns the stored object(s) in the result.
func (b *StoreOperationBuilder) WithReturnBody(enabled bool) *StoreOperationBuilder {
	b.op.ReturnBody = enabled
	b.op.Mask |= OptReturnBody
	return b
}

// WithIfNotModified only writes if the supplied VClock matches the
// server-side token.
func (b *StoreOperationBuilder) WithIfNotModified(enabled bool) *StoreOperationBuilder {
	b.op.IfNotModified = enabled
	b.op.Mask |= OptIfNotModified
	return b
}

// WithIfNoneMatch only writes if the record does not exist yet.
func (b *StoreOperationBuilder) WithIfNoneMatch(enabled bool) *StoreOperationBuilder {
	b.op.IfNoneMatch = enabled
	b.op.Mask |= OptIfNoneMatch
	return b
}

// Build returns the assembled operation.
func (b *StoreOperationBuilder) Build() *StoreOperation {
	op := b.op
	return &op
}

// --------------------------------------------------------------------------
// Delete Operation
// --------------------------------------------------------------------------

// DeleteOperation is a key-addressed delete.
type DeleteOperation struct {
	Location kv.Location
	// VClock is the causal context of the value being deleted.
	VClock kv.VClock

	RW, W, PW, DW uint32
	NVal          uint32
	TimeoutMs     uint32
	SloppyQuorum  bool

	Mask OptionMask
}

// DeleteResult is the raw outcome of a DeleteOperation. It carries no
// payload; its presence signals success.
type DeleteResult struct{}

// DeleteOperationBuilder assembles a DeleteOperation.
type DeleteOperationBuilder struct {
	op DeleteOperation
}

// NewDeleteOperationBuilder creates a builder for the given location.
func NewDeleteOperationBuilder(location kv.Location) *DeleteOperationBuilder {
	return &DeleteOperationBuilder{op: DeleteOperation{Location: location}}
}

// WithVClock attaches the causal context of the value being deleted.
func (b *DeleteOperationBuilder) WithVClock(v kv.VClock) *DeleteOperationBuilder {
	b.op.VClock = v
	b.op.Mask |= OptVClock
	return b
}

// WithRW sets the delete quorum.
func (b *DeleteOperationBuilder) WithRW(q kv.Quorum) *DeleteOperationBuilder {
	b.op.RW = q.Uint32()
	b.op.Mask |= OptRW
	return b
}

// WithW sets the write quorum.
func (b *DeleteOperationBuilder) WithW(q kv.Quorum) *DeleteOperationBuilder {
	b.op.W = q.Uint32()
	b.op.Mask |= OptW
	return b
}

// WithPW sets the primary write quorum.
func (b *DeleteOperationBuilder) WithPW(q kv.Quorum) *DeleteOperationBuilder {
	b.op.PW = q.Uint32()
	b.op.Mask |= OptPW
	return b
}

// WithDW sets the durable write quorum.
func (b *DeleteOperationBuilder) WithDW(q kv.Quorum) *DeleteOperationBuilder {
	b.op.DW = q.Uint32()
	b.op.Mask |= OptDW
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *DeleteOperationBuilder) WithNVal(n uint32) *DeleteOperationBuilder {
	b.op.NVal = n
	b.op.Mask |= OptNVal
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *DeleteOperationBuilder) WithTimeout(d time.Duration) *DeleteOperationBuilder {
	b.op.TimeoutMs = uint32(d.Milliseconds())
	b.op.Mask |= OptTimeout
	return b
}

// WithSloppyQuorum allows fallback nodes to satisfy the quorum.
func (b *DeleteOperationBuilder) WithSloppyQuorum(enabled bool) *DeleteOperationBuilder {
	b.op.SloppyQuorum = enabled
	b.op.Mask |= OptSloppyQuorum
	return b
}

// Build returns the assembled operation.
func (b *DeleteOperationBuilder) Build() *DeleteOperation {
	op := b.op
	return &op
}

// --------------------------------------------------------------------------
// Search Index Operations
// --------------------------------------------------------------------------

// FetchIndexOperation reads the description of a search index by name. It
// carries no options.
type FetchIndexOperation struct {
	Name string
}

// IndexDescription is the decoded description of a search index.
type IndexDescription struct {
	Name   string `json:"name"`
	Schema string `json:"schema,omitempty"`
	NVal   uint32 `json:"n_val,omitempty"`
}
