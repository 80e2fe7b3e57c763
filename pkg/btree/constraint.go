package btree

import "cmp"

// Ordered is the key constraint for Tree: any type with a natural total
// order via <, ==, > and a usable zero value, matching spec.md §3's "Key
// (K)" requirement of a totally ordered, equality-comparable type with a
// neutral placeholder for slot expansion (Go's zero value serves that
// role).
type Ordered = cmp.Ordered
