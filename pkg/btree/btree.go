// Package btree implements a generic, minimum-degree-t B-tree multiset of
// ordered keys. Duplicates are permitted; each Insert adds one occurrence
// and each Remove removes at most one. The tree is not safe for concurrent
// use on its own — package concurrent supplies the readers-writer lock
// that makes a Tree safe to share across goroutines.
//
// Node storage comes from a process-wide blockpool.Pool instead of
// individual heap allocations, so repeated structural churn (splits,
// merges) recycles fixed-size blocks instead of pressuring the garbage
// collector.
package btree

import (
	"fmt"

	"github.com/ssargent/btreemset/pkg/blockpool"
)

// DefaultDegree is the minimum degree used when New is asked for a degree
// below the structural floor of 2.
const DefaultDegree = 2

// ErrOutOfMemory is returned by Insert when the block pool cannot grow to
// satisfy a node allocation. It is the only error this package produces;
// Remove and Contains never fail (spec.md §7).
var ErrOutOfMemory = blockpool.ErrOutOfMemory

// Tree is a B-tree multiset of minimum degree t over key type K. The zero
// value is not usable; construct one with New.
type Tree[K Ordered] struct {
	t    int
	root ref[K]
	pool *blockpool.Pool[Node[K]]
}

// New creates a Tree with the given minimum degree, clamped up to
// DefaultDegree if the caller asks for less. Node storage for this Tree is
// drawn from the process-wide pool for Node[K]; see spec.md §9 for the
// rationale behind sharing one pool per key type.
func New[K Ordered](degree int) (*Tree[K], error) {
	if degree < DefaultDegree {
		degree = DefaultDegree
	}
	tr := &Tree[K]{
		t:    degree,
		pool: blockpool.Instance[Node[K]](),
	}
	root, err := newNode[K](tr.pool, tr.t, true)
	if err != nil {
		return nil, fmt.Errorf("btree: allocate root: %w", err)
	}
	tr.root = root
	return tr, nil
}

// maxKeys is the most keys any node — root included — may carry.
func (tr *Tree[K]) maxKeys() int { return 2*tr.t - 1 }

// ensureRoot lazily creates a leaf root if one is somehow missing
// (spec.md §4.2: "Inserting into a default-constructed tree initializes
// the root leaf if absent").
func (tr *Tree[K]) ensureRoot() error {
	if tr.root != nil {
		return nil
	}
	root, err := newNode[K](tr.pool, tr.t, true)
	if err != nil {
		return fmt.Errorf("btree: allocate root: %w", err)
	}
	tr.root = root
	return nil
}

// Insert adds one occurrence of key to the tree. Duplicates are permitted
// and counted individually. The only failure mode is node allocation
// failure from the block pool.
func (tr *Tree[K]) Insert(key K) error {
	if err := tr.ensureRoot(); err != nil {
		return err
	}

	root := tr.root
	if len(root.Value.keys) == tr.maxKeys() {
		newRoot, err := newNode[K](tr.pool, tr.t, false)
		if err != nil {
			return fmt.Errorf("btree: allocate new root on split: %w", err)
		}
		newRoot.Value.children = append(newRoot.Value.children, root)
		if err := tr.splitChild(newRoot, 0); err != nil {
			return err
		}
		tr.root = newRoot
		root = newRoot
	}
	return tr.insertNonFull(root, key)
}

// splitChild splits the full child at parent.children[i] into two nodes of
// the same kind, promoting the middle key into parent at position i.
func (tr *Tree[K]) splitChild(parent ref[K], i int) error {
	if parent == nil || i < 0 || i >= len(parent.Value.children) {
		return nil
	}
	y := parent.Value.children[i]
	if y == nil || len(y.Value.keys) != tr.maxKeys() {
		return nil
	}

	z, err := newNode[K](tr.pool, tr.t, y.Value.isLeaf)
	if err != nil {
		return fmt.Errorf("btree: allocate split sibling: %w", err)
	}

	t := tr.t
	promoted := y.Value.keys[t-1]

	z.Value.keys = append(z.Value.keys, y.Value.keys[t:]...)
	y.Value.keys = y.Value.keys[:t-1]

	if !y.Value.isLeaf {
		z.Value.children = append(z.Value.children, y.Value.children[t:]...)
		y.Value.children = y.Value.children[:t]
	}

	parent.Value.keys = insertKeyAt(parent.Value.keys, i, promoted)
	parent.Value.children = insertChildAt(parent.Value.children, i+1, z)
	return nil
}

// insertNonFull descends from node to a leaf, splitting any full child it
// is about to enter, and inserts key once it reaches a leaf with room.
// Ties at a freshly promoted separator route right, per spec.md §9
// ("Duplicate routing on split").
func (tr *Tree[K]) insertNonFull(node ref[K], key K) error {
	for {
		n := &node.Value
		if n.isLeaf {
			i := locate(n.keys, key)
			n.keys = insertKeyAt(n.keys, i, key)
			return nil
		}

		i := locate(n.keys, key)
		if i >= len(n.children) {
			return nil // defensive: malformed node, no-op (spec.md §7 MalformedState)
		}
		child := n.children[i]
		if child == nil {
			return nil
		}

		if len(child.Value.keys) == tr.maxKeys() {
			if err := tr.splitChild(node, i); err != nil {
				return err
			}
			if key >= n.keys[i] {
				i++
			}
			child = n.children[i]
		}
		node = child
	}
}

// Contains reports whether any occurrence of key exists in the tree.
func (tr *Tree[K]) Contains(key K) bool {
	node := tr.root
	for node != nil {
		n := &node.Value
		i := locate(n.keys, key)
		if i < len(n.keys) && n.keys[i] == key {
			return true
		}
		if n.isLeaf {
			return false
		}
		if i >= len(n.children) {
			return false
		}
		node = n.children[i]
	}
	return false
}

// Remove deletes at most one occurrence of key. A missing key is a silent
// no-op, including on an empty tree.
func (tr *Tree[K]) Remove(key K) {
	if tr.root == nil {
		return
	}

	tr.remove(tr.root, key)

	root := tr.root
	if root != nil && !root.Value.isLeaf && len(root.Value.keys) == 0 {
		oldRoot := root
		tr.root = root.Value.children[0]
		oldRoot.Value.children = nil // do not cascade-destroy the surviving child
		tr.pool.Free(oldRoot)
	}
}

// remove implements the proactive top-down fill-on-descent deletion
// algorithm of spec.md §4.2, mirroring the original's recursive
// bTree.cpp::remove/removeFromLeaf/removeFromNonLeaf.
func (tr *Tree[K]) remove(node ref[K], key K) {
	if node == nil {
		return
	}
	n := &node.Value
	i := locate(n.keys, key)

	if i < len(n.keys) && n.keys[i] == key {
		if n.isLeaf {
			n.keys = removeKeyAt(n.keys, i)
			return
		}
		tr.removeFromNonLeaf(node, i)
		return
	}

	if n.isLeaf {
		return
	}

	atEnd := i == len(n.keys)
	if i < len(n.children) && n.children[i] != nil && len(n.children[i].Value.keys) < tr.t {
		tr.fill(node, i)
	}

	// fill may have merged children[i] leftward when i pointed at the
	// rightmost slot; re-derive i against the (possibly shrunk) child list.
	if atEnd && i > len(n.children)-1 {
		if i > 0 {
			i = len(n.children) - 1
		} else {
			return
		}
	}

	if i < len(n.children) && n.children[i] != nil {
		tr.remove(n.children[i], key)
	}
}

// removeFromNonLeaf handles deletion of a key found at an internal slot:
// replace it with its predecessor or successor and recurse, or merge
// around it when neither sibling subtree has a spare key.
func (tr *Tree[K]) removeFromNonLeaf(node ref[K], i int) {
	n := &node.Value
	key := n.keys[i]

	left := n.children[i]
	right := n.children[i+1]

	switch {
	case left != nil && len(left.Value.keys) >= tr.t:
		pred := tr.predecessor(left)
		n.keys[i] = pred
		tr.remove(left, pred)
	case right != nil && len(right.Value.keys) >= tr.t:
		succ := tr.successor(right)
		n.keys[i] = succ
		tr.remove(right, succ)
	default:
		tr.merge(node, i)
		tr.remove(n.children[i], key)
	}
}

// predecessor returns the rightmost key of the rightmost leaf under sub.
func (tr *Tree[K]) predecessor(sub ref[K]) K {
	cur := sub
	for !cur.Value.isLeaf && len(cur.Value.children) > 0 {
		cur = cur.Value.children[len(cur.Value.children)-1]
	}
	return cur.Value.keys[len(cur.Value.keys)-1]
}

// successor returns the leftmost key of the leftmost leaf under sub.
func (tr *Tree[K]) successor(sub ref[K]) K {
	cur := sub
	for !cur.Value.isLeaf && len(cur.Value.children) > 0 {
		cur = cur.Value.children[0]
	}
	return cur.Value.keys[0]
}

// fill ensures children[i] holds at least t keys before the caller
// descends into it, borrowing from a sibling with spare keys or merging
// otherwise.
func (tr *Tree[K]) fill(node ref[K], i int) {
	n := &node.Value
	switch {
	case i > 0 && len(n.children[i-1].Value.keys) >= tr.t:
		tr.borrowFromPrev(node, i)
	case i < len(n.children)-1 && len(n.children[i+1].Value.keys) >= tr.t:
		tr.borrowFromNext(node, i)
	case i < len(n.children)-1:
		tr.merge(node, i)
	case i > 0:
		tr.merge(node, i-1)
	}
}

// borrowFromPrev rotates one key from the left sibling of children[i]
// through the separator at keys[i-1].
func (tr *Tree[K]) borrowFromPrev(node ref[K], i int) {
	n := &node.Value
	child := n.children[i]
	sibling := n.children[i-1]

	child.Value.keys = insertKeyAt(child.Value.keys, 0, n.keys[i-1])
	n.keys[i-1] = sibling.Value.keys[len(sibling.Value.keys)-1]
	sibling.Value.keys = sibling.Value.keys[:len(sibling.Value.keys)-1]

	if !child.Value.isLeaf {
		last := sibling.Value.children[len(sibling.Value.children)-1]
		sibling.Value.children = sibling.Value.children[:len(sibling.Value.children)-1]
		child.Value.children = insertChildAt(child.Value.children, 0, last)
	}
}

// borrowFromNext rotates one key from the right sibling of children[i]
// through the separator at keys[i].
func (tr *Tree[K]) borrowFromNext(node ref[K], i int) {
	n := &node.Value
	child := n.children[i]
	sibling := n.children[i+1]

	child.Value.keys = append(child.Value.keys, n.keys[i])
	n.keys[i] = sibling.Value.keys[0]
	sibling.Value.keys = removeKeyAt(sibling.Value.keys, 0)

	if !child.Value.isLeaf {
		first := sibling.Value.children[0]
		sibling.Value.children = removeChildAt(sibling.Value.children, 0)
		child.Value.children = append(child.Value.children, first)
	}
}

// merge folds children[i+1] and the separator keys[i] into children[i],
// then releases children[i+1]'s block back to the pool.
func (tr *Tree[K]) merge(node ref[K], i int) {
	n := &node.Value
	child := n.children[i]
	sibling := n.children[i+1]

	child.Value.keys = append(child.Value.keys, n.keys[i])
	child.Value.keys = append(child.Value.keys, sibling.Value.keys...)
	if !child.Value.isLeaf {
		child.Value.children = append(child.Value.children, sibling.Value.children...)
		sibling.Value.children = nil
	}

	n.keys = removeKeyAt(n.keys, i)
	n.children = removeChildAt(n.children, i+1)

	tr.pool.Free(sibling)
}

// Sink receives keys one at a time during Traverse, in ascending order. A
// Sink must not call back into the Tree it is traversing.
type Sink[K Ordered] interface {
	Emit(k K)
}

// Traverse emits every key in the tree, in ascending order, to sink.
func (tr *Tree[K]) Traverse(sink Sink[K]) {
	traverseNode(tr.root, sink)
}

func traverseNode[K Ordered](node ref[K], sink Sink[K]) {
	if node == nil {
		return
	}
	n := &node.Value
	i := 0
	for ; i < len(n.keys); i++ {
		if !n.isLeaf && i < len(n.children) {
			traverseNode(n.children[i], sink)
		}
		sink.Emit(n.keys[i])
	}
	if !n.isLeaf && i < len(n.children) {
		traverseNode(n.children[i], sink)
	}
}

// Release returns every node this Tree owns to the block pool. Garbage
// collection does not do this: the pool keeps its arenas reachable, so the
// blocks of a Tree discarded without Release are never reused.
func (tr *Tree[K]) Release() {
	release(tr.pool, tr.root)
	tr.root = nil
}
