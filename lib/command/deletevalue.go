package command

import (
	"context"
	"time"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

// deleteOptions holds the per-request settings of a DeleteValue command.
type deleteOptions struct {
	rw, w, pw, dw kv.Quorum
	nVal          uint32
	timeout       time.Duration
	sloppyQuorum  bool
	vclock        kv.VClock
	mask          cluster.OptionMask
}

// DeleteValue deletes the record at a Location. The command carries no
// response payload; success means the delete was accepted.
type DeleteValue struct {
	location kv.Location
	opts     deleteOptions
}

// Execute runs the command against the cluster, blocking until the
// asynchronous operation resolves.
func (c *DeleteValue) Execute(cl cluster.ICluster) error {
	return c.ExecuteContext(context.Background(), cl)
}

// ExecuteContext runs the command against the cluster, waiting until the
// operation resolves or the context is cancelled.
func (c *DeleteValue) ExecuteContext(ctx context.Context, cl cluster.ICluster) error {
	if err := c.validate(); err != nil {
		return err
	}

	if _, err := cl.Delete(c.buildOperation()).AwaitContext(ctx); err != nil {
		return newExecutionError("delete value", err)
	}
	return nil
}

func (c *DeleteValue) validate() error {
	if c.location.Bucket == "" {
		return &ValidationError{Field: "location.bucket", Reason: "must not be empty"}
	}
	if c.location.Key == "" {
		return &ValidationError{Field: "location.key", Reason: "must not be empty"}
	}
	return nil
}

func (c *DeleteValue) buildOperation() *cluster.DeleteOperation {
	b := cluster.NewDeleteOperationBuilder(c.location)
	m := c.opts.mask

	if m.Has(cluster.OptVClock) {
		b.WithVClock(c.opts.vclock)
	}
	if m.Has(cluster.OptRW) {
		b.WithRW(c.opts.rw)
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

	return b.Build()
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// DeleteValueBuilder assembles a DeleteValue command.
type DeleteValueBuilder struct {
	location kv.Location
	opts     deleteOptions
}

// NewDeleteValue creates a builder for the given location.
func NewDeleteValue(location kv.Location) *DeleteValueBuilder {
	return &DeleteValueBuilder{location: location}
}

// WithVClock attaches the causal context of the value being deleted.
func (b *DeleteValueBuilder) WithVClock(v kv.VClock) *DeleteValueBuilder {
	b.opts.vclock = v
	b.opts.mask |= cluster.OptVClock
	return b
}

// WithRW sets the delete quorum.
func (b *DeleteValueBuilder) WithRW(q kv.Quorum) *DeleteValueBuilder {
	b.opts.rw = q
	b.opts.mask |= cluster.OptRW
	return b
}

// WithW sets the write quorum.
func (b *DeleteValueBuilder) WithW(q kv.Quorum) *DeleteValueBuilder {
	b.opts.w = q
	b.opts.mask |= cluster.OptW
	return b
}

// WithPW sets the primary write quorum.
func (b *DeleteValueBuilder) WithPW(q kv.Quorum) *DeleteValueBuilder {
	b.opts.pw = q
	b.opts.mask |= cluster.OptPW
	return b
}

// WithDW sets the durable write quorum.
func (b *DeleteValueBuilder) WithDW(q kv.Quorum) *DeleteValueBuilder {
	b.opts.dw = q
	b.opts.mask |= cluster.OptDW
	return b
}

// WithNVal overrides the replication factor for this request.
func (b *DeleteValueBuilder) WithNVal(n uint32) *DeleteValueBuilder {
	b.opts.nVal = n
	b.opts.mask |= cluster.OptNVal
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *DeleteValueBuilder) WithTimeout(d time.Duration) *DeleteValueBuilder {
	b.opts.timeout = d
	b.opts.mask |= cluster.OptTimeout
	return b
}

// WithSloppyQuorum allows fallback nodes to satisfy the quorum.
func (b *DeleteValueBuilder) WithSloppyQuorum(enabled bool) *DeleteValueBuilder {
	b.opts.sloppyQuorum = enabled
	b.opts.mask |= cluster.OptSloppyQuorum
	return b
}

// Build returns the immutable command.
func (b *DeleteValueBuilder) Build() *DeleteValue {
	return &DeleteValue{
		location: b.location,
		opts:     b.opts,
	}
}
