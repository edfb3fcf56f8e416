package command

import (
	"context"

	"github.com/ValentinKolb/qkv/lib/cluster"
)

// FetchSearchIndex fetches the description of a search index by name. It
// recognizes no options, and index metadata has no domain conversion layer:
// the decoded description is returned unchanged.
//
// A missing index is not a not-found Response but a distinct failure: the
// returned ExecutionError wraps cluster.ErrIndexNotFound, detectable with
// errors.Is.
type FetchSearchIndex struct {
	index string
}

// Execute runs the command against the cluster, blocking until the
// asynchronous operation resolves.
func (c *FetchSearchIndex) Execute(cl cluster.ICluster) (*cluster.IndexDescription, error) {
	return c.ExecuteContext(context.Background(), cl)
}

// ExecuteContext runs the command against the cluster, waiting until the
// operation resolves or the context is cancelled.
func (c *FetchSearchIndex) ExecuteContext(ctx context.Context, cl cluster.ICluster) (*cluster.IndexDescription, error) {
	if c.index == "" {
		return nil, &ValidationError{Field: "index", Reason: "must not be empty"}
	}

	desc, err := cl.FetchIndex(&cluster.FetchIndexOperation{Name: c.index}).AwaitContext(ctx)
	if err != nil {
		return nil, newExecutionError("fetch search index", err)
	}
	return desc, nil
}

// --------------------------------------------------------------------------
// Builder
// --------------------------------------------------------------------------

// FetchSearchIndexBuilder assembles a FetchSearchIndex command.
type FetchSearchIndexBuilder struct {
	index string
}

// NewFetchSearchIndex creates a builder for the given index name.
func NewFetchSearchIndex(index string) *FetchSearchIndexBuilder {
	return &FetchSearchIndexBuilder{index: index}
}

// Build returns the immutable command.
func (b *FetchSearchIndexBuilder) Build() *FetchSearchIndex {
	return &FetchSearchIndex{index: b.index}
}
