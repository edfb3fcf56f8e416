package command

import (
	"context"
	"time"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

// storeOptions holds the per-request settings of a StoreValue command.
type storeOptions struct {
	w, pw, dw     kv.Quorum
	nVal          uint32
	timeout       time.Duration
	sloppyQuorum  bool
	returnBody    bool
	ifNotModified bool
	ifNoneMatch   bool
	vclock        kv.VClock
	mask          cluster.OptionMask
}

// StoreValue stores a single object at a Location. The response carries the
// stored object(s) only when WithReturnBody was requested; the version
// token of the write is always returned.
type StoreValue struct {
	location kv.Location
	object   kv.Object
	opts     storeOptions
}

// Execute runs the command against the cluster, blocking until the
// asynchronous operation resolves.
func (c *StoreValue) Execute(cl cluster.ICluster) (*Response[kv.Object], error) {
	return c.ExecuteContext(context.Background(), cl)
}

// ExecuteContext runs the command against the cluster, waiting until the
// operation resolves or the context is cancelled.
func (c *StoreValue) ExecuteContext(ctx context.Context, cl cluster.ICluster) (*Response[kv.Object], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	result, err := cl.Store(c.buildOperation()).AwaitContext(ctx)
	if err != nil {
		return nil, newExecutionError("store value", err)
	}

	return newResponse(false, false, result.Objects, result.VClock), nil
}

func (c *StoreValue) validate() error {
	if c.location.Bucket == "" {
		return &ValidationError{Field: "location.bucket", Reason: "must not be empty"}
	}
	if c.location.Key == "" {
		return &ValidationError{Field: "location.key", Reason: "must not be empty"}
	}
	return nil
}

func (c *StoreValue) buildOperation() *cluster.StoreOperation {
	b := cluster.NewStoreOperationBuilder(c.location, c.object)
	m := c.opts.mask

	if m.Has(cluster.OptVClock) {
		b.WithVClock(c.opts.vclock)
	}
	if m.Has(cluster.OptW) {
		b.WithW(c.opts.w)
	}
	if m.Has(cluster.OptPW) {
		b.WithPW(c.opts.pw)
	}
	if m.Has(cluster.OptDW) {
		b.WithDW(c.opts.dw)
	}
	if m.Has(cluster.OptNVal) {
		b.WithNVal(c.opts.nVal)
	}
	if m.Has(cluster.OptTimeout) {
		b.WithTimeout(c.opts.timeout)
	}
	if m.Has(cluster.OptSloppyQuorum) {
		b.WithSloppyQuorum(c.opts.sloppyQuorum)
	}
	if m.Has(cluster.OptReturnBody) {
		b.WithReturnBody(c.opts.returnBody)
	}
	if m.Has(cluster.OptIfNotModified) {
		b.WithIfNotModified(c.opts.ifNotModified)
	}
	if m.Has(cluster.OptIfNoneMatch) {
		b.WithIfNoneMatch(c.opts.ifNoneMatch)
	}

	return b.Build()
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// StoreValueBuilder assembles a StoreValue command.
type StoreValueBuilder struct {
	location kv.Location
	object   kv.Object
	opts     storeOptions
}

// NewStoreValue creates a builder storing obj at location.
func NewStoreValue(location kv.Location, obj kv.Object) *StoreValueBuilder {
	return &StoreValueBuilder{location: location, object: obj}
}

// WithVClock attaches the causal context of the value being updated.
// Omitting it on an existing record creates a sibling.
func (b *StoreValueBuilder) WithVClock(v kv.VClock) *StoreValueBuilder {
	b.opts.vclock = v
	b.opts.mask |= cluster.OptVClock
	return b
}

// WithW sets the write quorum.
func (b *StoreValueBuilder) WithW(q kv.Quorum) *StoreValueBuilder {
	b.opts.w = q
	b.opts.mask |= cluster.OptW
	return b
}

// WithPW sets the primary write quorum.
func (b *StoreValueBuilder) WithPW(q kv.Quorum) *StoreValueBuilder {
	b.opts.pw = q
	b.opts.mask |= cluster.OptPW
	return b
}

// WithDW sets the durable write quorum.
func (b *StoreValueBuilder) WithDW(q kv.Quorum) *StoreValueBuilder {
	b.opts.dw = q
	b.opts.mask |= cluster.OptDW
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *StoreValueBuilder) WithNVal(n uint32) *StoreValueBuilder {
	b.opts.nVal = n
	b.opts.mask |= cluster.OptNVal
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *StoreValueBuilder) WithTimeout(d time.Duration) *StoreValueBuilder {
	b.opts.timeout = d
	b.opts.mask |= cluster.OptTimeout
	return b
}

// WithSloppyQuorum allows fallback nodes to satisfy the quorum.
func (b *StoreValueBuilder) WithSloppyQuorum(enabled bool) *StoreValueBuilder {
	b.opts.sloppyQuorum = enabled
	b.opts.mask |= cluster.OptSloppyQuorum
	return b
}

// WithReturnBody returns the stored object(s) in the response.
func (b *StoreValueBuilder) WithReturnBody(enabled bool) *StoreValueBuilder {
	b.opts.returnBody = enabled
	b.opts.mask |= cluster.OptReturnBody
	return b
}

// WithIfNotModified only writes if the supplied version token matches the
// server-side token.
func (b *StoreValueBuilder) WithIfNotModified(enabled bool) *StoreValueBuilder {
	b.opts.ifNotModified = enabled
	b.opts.mask |= cluster.OptIfNotModified
	return b
}

// WithIfNoneMatch only writes if the record does not exist yet.
func (b *StoreValueBuilder) WithIfNoneMatch(enabled bool) *StoreValueBuilder {
	b.opts.ifNoneMatch = enabled
	b.opts.mask |= cluster.OptIfNoneMatch
	return b
}

// Build returns the immutable command.
func (b *StoreValueBuilder) Build() *StoreValue {
	return &StoreValue{
		location: b.location,
		object:   b.object,
		opts:     b.opts,
	}
}
