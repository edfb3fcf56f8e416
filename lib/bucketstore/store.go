package bucketstore

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
	"github.com/puzpuzpuz/xsync/v3"
)

// record is the stored state of one Location: the current sibling objects,
// the version token of the last write and a tombstone marker. Records are
// guarded by their own mutex; the enclosing maps are concurrent.
type record struct {
	mu        sync.Mutex
	objects   []kv.Object
	vclock    kv.VClock
	tombstone bool
}

// Store is an in-memory versioned object store.
type Store struct {
	records *xsync.MapOf[string, *record]
	indexes *xsync.MapOf[string, cluster.IndexDescription]
	clock   atomic.Uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		records: xsync.NewMapOf[string, *record](),
		indexes: xsync.NewMapOf[string, cluster.IndexDescription](),
	}
}

// nextVClock produces a fresh opaque version token. Tokens are ordered by
// an internal counter but callers must treat them as opaque.
func (s *Store) nextVClock() kv.VClock {
	token := make([]byte, 8)
	binary.BigEndian.PutUint64(token, s.clock.Add(1))
	return token
}

// --------------------------------------------------------------------------
// Key-Value Operations
// --------------------------------------------------------------------------

// Fetch resolves a key-addressed read. Absent and unchanged records are
// successful results with the corresponding flag set, never errors.
func (s *Store) Fetch(op *cluster.FetchOperation) (*cluster.FetchResult, error) {
	rec, ok := s.records.Load(op.Location.String())
	if !ok {
		return &cluster.FetchResult{NotFound: true, Objects: []kv.Object{}}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.tombstone {
		result := &cluster.FetchResult{NotFound: true, Objects: []kv.Object{}}
		if op.Mask.Has(cluster.OptDeletedVClock) && op.DeletedVClock {
			result.VClock = rec.vclock
		}
		return result, nil
	}

	// Conditional fetch: a matching token means the caller already holds
	// the current value.
	if op.Mask.Has(cluster.OptIfModified) && op.IfModified.Equal(rec.vclock) {
		return &cluster.FetchResult{
			Unchanged: true,
			Objects:   []kv.Object{},
			VClock:    rec.vclock,
		}, nil
	}

	objects := make([]kv.Object, len(rec.objects))
	copy(objects, rec.objects)

	if op.Mask.Has(cluster.OptHead) && op.HeadOnly {
		for i := range objects {
			objects[i].Value = nil
		}
	}

	return &cluster.FetchResult{Objects: objects, VClock: rec.vclock}, nil
}

// Put resolves a key-addressed write. A write without a causal token on an
// existing record creates a sibling; a write with the current token
// replaces all siblings.
func (s *Store) Put(op *cluster.StoreOperation) (*cluster.StoreResult, error) {
	rec, _ := s.records.LoadOrCompute(op.Location.String(), func() *record {
		return &record{}
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()

	exists := !rec.tombstone && len(rec.objects) > 0

	if op.Mask.Has(cluster.OptIfNoneMatch) && op.IfNoneMatch && exists {
		return nil, fmt.Errorf("store %s: match found", op.Location)
	}
	if op.Mask.Has(cluster.OptIfNotModified) && op.IfNotModified && !op.VClock.Equal(rec.vclock) {
		return nil, fmt.Errorf("store %s: modified", op.Location)
	}

	obj := op.Object
	obj.LastModified = time.Now().UnixMilli()

	if exists && (!op.Mask.Has(cluster.OptVClock) || !op.VClock.Equal(rec.vclock)) {
		// No (or stale) causal context on a concurrent write: keep the
		// existing values as siblings.
		rec.objects = append(rec.objects, obj)
	} else {
		rec.objects = []kv.Object{obj}
	}
	rec.vclock = s.nextVClock()
	rec.tombstone = false

	result := &cluster.StoreResult{VClock: rec.vclock}
	if op.Mask.Has(cluster.OptReturnBody) && op.ReturnBody {
		result.Objects = make([]kv.Object, len(rec.objects))
		copy(result.Objects, rec.objects)
	}
	return result, nil
}

// Delete resolves a key-addressed delete by writing a tombstone. The
// tombstone keeps its version token so that fetches with the deleted-vclock
// option can still observe it. Deleting an absent record succeeds.
func (s *Store) Delete(op *cluster.DeleteOperation) (*cluster.DeleteResult, error) {
	rec, ok := s.records.Load(op.Location.String())
	if !ok {
		return &cluster.DeleteResult{}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.objects = nil
	rec.tombstone = true
	rec.vclock = s.nextVClock()
	return &cluster.DeleteResult{}, nil
}

// --------------------------------------------------------------------------
// Search Index Registry
// --------------------------------------------------------------------------

// FetchIndex returns the description of a registered search index. A
// missing index fails with cluster.ErrIndexNotFound.
func (s *Store) FetchIndex(op *cluster.FetchIndexOperation) (*cluster.IndexDescription, error) {
	desc, ok := s.indexes.Load(op.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", cluster.ErrIndexNotFound, op.Name)
	}
	return &desc, nil
}

// PutIndex registers (or replaces) a search index description.
func (s *Store) PutIndex(desc cluster.IndexDescription) {
	s.indexes.Store(desc.Name, desc)
}
