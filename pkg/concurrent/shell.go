// Package concurrent wraps a btree.Tree in a single readers-writer lock,
// implementing the ConcurrencyShell of spec.md §4.3: Contains and Traverse
// take the shared lock, Insert and Remove take the exclusive lock. No
// per-node locking is used — a writer excludes every other operation for
// the duration of its call, and readers may run concurrently with each
// other but never alongside a writer.
package concurrent

import (
	"sync"

	"github.com/ssargent/btreemset/pkg/btree"
)

// Multiset is a thread-safe ordered multiset of K, backed by a btree.Tree.
// The zero value is not usable; construct one with New.
type Multiset[K btree.Ordered] struct {
	mu   sync.RWMutex
	tree *btree.Tree[K]
}

// New constructs a Multiset with the given minimum degree (see
// btree.New for clamping behavior).
func New[K btree.Ordered](degree int) (*Multiset[K], error) {
	tree, err := btree.New[K](degree)
	if err != nil {
		return nil, err
	}
	return &Multiset[K]{tree: tree}, nil
}

// Insert adds one occurrence of key under the exclusive lock.
func (m *Multiset[K]) Insert(key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Insert(key)
}

// Remove deletes at most one occurrence of key under the exclusive lock.
// A missing key is a silent no-op.
func (m *Multiset[K]) Remove(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.Remove(key)
}

// Contains reports whether any occurrence of key exists, under the shared
// lock. It may run concurrently with other Contains/Traverse calls.
func (m *Multiset[K]) Contains(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Contains(key)
}

// Traverse emits every key in ascending order to sink, under the shared
// lock. sink must not call back into the Multiset: Traverse holds the read
// lock for the duration of the callback sequence, and a reentrant call to
// Insert or Remove from within Emit would deadlock against the exclusive
// lock it waits on.
func (m *Multiset[K]) Traverse(sink btree.Sink[K]) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.tree.Traverse(sink)
}

// Release returns every node the underlying tree owns to the block pool.
// Call it once the Multiset is no longer needed. Garbage collection does
// not reclaim node blocks: the pool keeps its arenas reachable, so the
// blocks of a Multiset dropped without Release stay checked out.
func (m *Multiset[K]) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.Release()
}
