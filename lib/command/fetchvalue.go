package command

import (
	"context"
	"time"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

// fetchOptions holds the per-request settings of a FetchValue command. The
// mask records which options were set; unset options leave the operation
// fields at the server's defaults.
type fetchOptions struct {
	r, pr         kv.Quorum
	nVal          uint32
	timeout       time.Duration
	basicQuorum   bool
	notFoundOK    bool
	sloppyQuorum  bool
	headOnly      bool
	deletedVClock bool
	ifModified    kv.VClock
	mask          cluster.OptionMask
}

// FetchValue fetches a value from the store, referenced by its Location,
// and converts the returned wire objects through the command's Converter.
// Instances are immutable and may be executed any number of times; each
// execution issues a fresh cluster operation.
type FetchValue[T any] struct {
	location  kv.Location
	converter kv.Converter[T]
	opts      fetchOptions
}

// Execute runs the command against the cluster, blocking the calling
// goroutine until the asynchronous operation resolves.
func (c *FetchValue[T]) Execute(cl cluster.ICluster) (*Response[T], error) {
	return c.ExecuteContext(context.Background(), cl)
}

// ExecuteContext runs the command against the cluster, waiting until the
// operation resolves or the context is cancelled. Cancellation surfaces as
// an ExecutionError; the operation itself is not aborted.
func (c *FetchValue[T]) ExecuteContext(ctx context.Context, cl cluster.ICluster) (*Response[T], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	result, err := cl.Fetch(c.buildOperation()).AwaitContext(ctx)
	if err != nil {
		return nil, newExecutionError("fetch value", err)
	}

	values, err := kv.ConvertAll(c.converter, result.Objects)
	if err != nil {
		return nil, newExecutionError("fetch value", &ConversionError{Cause: err})
	}

	return newResponse(result.NotFound, result.Unchanged, values, result.VClock), nil
}

// validate checks the required fields before any network call.
func (c *FetchValue[T]) validate() error {
	if c.location.Bucket == "" {
		return &ValidationError{Field: "location.bucket", Reason: "must not be empty"}
	}
	if c.location.Key == "" {
		return &ValidationError{Field: "location.key", Reason: "must not be empty"}
	}
	return nil
}

// buildOperation translates the command state into a cluster operation.
// Every set option maps one-to-one onto the operation builder; unset
// options are not touched.
func (c *FetchValue[T]) buildOperation() *cluster.FetchOperation {
	b := cluster.NewFetchOperationBuilder(c.location)
	m := c.opts.mask

	if m.Has(cluster.OptR) {
		b.WithR(c.opts.r)
	}
	if m.Has(cluster.OptPR) {
		b.WithPR(c.opts.pr)
	}
	if m.Has(cluster.OptBasicQuorum) {
		b.WithBasicQuorum(c.opts.basicQuorum)
	}
	if m.Has(cluster.OptNotFoundOK) {
		b.WithNotFoundOK(c.opts.notFoundOK)
	}
	if m.Has(cluster.OptSloppyQuorum) {
		b.WithSloppyQuorum(c.opts.sloppyQuorum)
	}
	if m.Has(cluster.OptNVal) {
		b.WithNVal(c.opts.nVal)
	}
	if m.Has(cluster.OptTimeout) {
		b.WithTimeout(c.opts.timeout)
	}
	if m.Has(cluster.OptHead) {
		b.WithHeadOnly(c.opts.headOnly)
	}
	if m.Has(cluster.OptDeletedVClock) {
		b.WithReturnDeletedVClock(c.opts.deletedVClock)
	}
	if m.Has(cluster.OptIfModified) {
		b.WithIfModified(c.opts.ifModified)
	}

	return b.Build()
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// FetchValueBuilder assembles a FetchValue command. Options may be set in
// any order; setting the same option twice keeps the last value.
type FetchValueBuilder[T any] struct {
	location  kv.Location
	converter kv.Converter[T]
	opts      fetchOptions
}

// NewFetchValue creates a builder for a command returning the raw wire
// objects (pass-through conversion).
func NewFetchValue(location kv.Location) *FetchValueBuilder[kv.Object] {
	return NewConvertingFetchValue(location, kv.NewPassThroughConverter())
}

// NewConvertingFetchValue creates a builder for a command with a
// caller-supplied domain conversion step.
func NewConvertingFetchValue[T any](location kv.Location, converter kv.Converter[T]) *FetchValueBuilder[T] {
	return &FetchValueBuilder[T]{location: location, converter: converter}
}

// WithR sets the minimum number of replicas that must respond for the read
// to succeed.
func (b *FetchValueBuilder[T]) WithR(q kv.Quorum) *FetchValueBuilder[T] {
	b.opts.r = q
	b.opts.mask |= cluster.OptR
	return b
}

// WithPR sets the minimum number of primary replicas required.
func (b *FetchValueBuilder[T]) WithPR(q kv.Quorum) *FetchValueBuilder[T] {
	b.opts.pr = q
	b.opts.mask |= cluster.OptPR
	return b
}

// WithBasicQuorum short-circuits read quorum evaluation on primary
// failures.
func (b *FetchValueBuilder[T]) WithBasicQuorum(enabled bool) *FetchValueBuilder[T] {
	b.opts.basicQuorum = enabled
	b.opts.mask |= cluster.OptBasicQuorum
	return b
}

// WithNotFoundOK treats not-found replica responses as satisfying the
// quorum.
func (b *FetchValueBuilder[T]) WithNotFoundOK(enabled bool) *FetchValueBuilder[T] {
	b.opts.notFoundOK = enabled
	b.opts.mask |= cluster.OptNotFoundOK
	return b
}

// WithSloppyQuorum allows fallback (non-primary) nodes to satisfy the
// quorum.
func (b *FetchValueBuilder[T]) WithSloppyQuorum(enabled bool) *FetchValueBuilder[T] {
	b.opts.sloppyQuorum = enabled
	b.opts.mask |= cluster.OptSloppyQuorum
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *FetchValueBuilder[T]) WithNVal(n uint32) *FetchValueBuilder[T] {
	b.opts.nVal = n
	b.opts.mask |= cluster.OptNVal
	return b
}

// WithTimeout overrides the per-request timeout. The timeout is forwarded
// to the cluster; the client-side wait itself is unbounded unless a
// context is used.
func (b *FetchValueBuilder[T]) WithTimeout(d time.Duration) *FetchValueBuilder[T] {
	b.opts.timeout = d
	b.opts.mask |= cluster.OptTimeout
	return b
}

// WithHeadOnly fetches metadata only, omitting the value bodies.
func (b *FetchValueBuilder[T]) WithHeadOnly(enabled bool) *FetchValueBuilder[T] {
	b.opts.headOnly = enabled
	b.opts.mask |= cluster.OptHead
	return b
}

// WithReturnDeletedVClock returns the version token of a tombstoned record.
func (b *FetchValueBuilder[T]) WithReturnDeletedVClock(enabled bool) *FetchValueBuilder[T] {
	b.opts.deletedVClock = enabled
	b.opts.mask |= cluster.OptDeletedVClock
	return b
}

// WithIfModified skips returning the value if the server-side version token
// matches v (conditional fetch).
func (b *FetchValueBuilder[T]) WithIfModified(v kv.VClock) *FetchValueBuilder[T] {
	b.opts.ifModified = v
	b.opts.mask |= cluster.OptIfModified
	return b
}

// Build returns the immutable command.
func (b *FetchValueBuilder[T]) Build() *FetchValue[T] {
	return &FetchValue[T]{
		location:  b.location,
		converter: b.converter,
		opts:      b.opts,
	}
}
