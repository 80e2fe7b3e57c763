package btree

import "github.com/ssargent/btreemset/pkg/blockpool"

// Node is a single B-tree node. isLeaf is fixed at construction; keys holds
// between 0 and 2t-1 entries in non-decreasing order; children is empty for
// a leaf and otherwise always one longer than keys.
//
// Duplicates are permitted: equal keys may appear within a node or split
// across sibling subtrees.
type Node[K Ordered] struct {
	isLeaf   bool
	keys     []K
	children []ref[K]
}

// ref is the owning reference type a Tree holds to one of its nodes: a
// handle into the process-wide block pool. A Node has no existence outside
// the Block that backs it, and destroying a ref must release that block.
type ref[K Ordered] *blockpool.Block[Node[K]]

// newNode checks out one block from pool and initializes it as a leaf or
// internal node with capacity for a full node of the given minimum degree.
func newNode[K Ordered](pool *blockpool.Pool[Node[K]], t int, isLeaf bool) (ref[K], error) {
	blk, err := pool.Allocate()
	if err != nil {
		return nil, err
	}
	blk.Value.isLeaf = isLeaf
	blk.Value.keys = make([]K, 0, 2*t-1)
	if !isLeaf {
		blk.Value.children = make([]ref[K], 0, 2*t)
	}
	return blk, nil
}

// release returns n's block, and every block in its subtree, to pool. It
// walks iteratively with an explicit stack rather than recursing so that
// destroying a very deep tree cannot overflow the goroutine stack.
func release[K Ordered](pool *blockpool.Pool[Node[K]], n ref[K]) {
	if n == nil {
		return
	}
	stack := []ref[K]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		stack = append(stack, cur.Value.children...)
		cur.Value.children = nil
		pool.Free(cur)
	}
}

// insertKeyAt shifts keys[i:] right by one slot and writes k at i.
func insertKeyAt[K Ordered](keys []K, i int, k K) []K {
	var zero K
	keys = append(keys, zero)
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}

// removeKeyAt deletes the key at i, shifting keys[i+1:] left by one slot.
func removeKeyAt[K Ordered](keys []K, i int) []K {
	copy(keys[i:], keys[i+1:])
	return keys[:len(keys)-1]
}

// insertChildAt shifts children[i:] right by one slot and writes c at i.
func insertChildAt[K Ordered](children []ref[K], i int, c ref[K]) []ref[K] {
	children = append(children, nil)
	copy(children[i+1:], children[i:])
	children[i] = c
	return children
}

// removeChildAt deletes the child reference at i, shifting children[i+1:]
// left by one slot.
func removeChildAt[K Ordered](children []ref[K], i int) []ref[K] {
	copy(children[i:], children[i+1:])
	return children[:len(children)-1]
}

// locate returns the first index i with keys[i] >= key, or len(keys) if no
// such key exists. This is both the search position for a point lookup and
// the child slot a descent should follow: children[i] holds every key less
// than keys[i] (or, for i == len(keys), every key greater than the last
// separator).
func locate[K Ordered](keys []K, key K) int {
	i := 0
	for i < len(keys) && keys[i] < key {
		i++
	}
	return i
}
