// Package service adapts the generic concurrent multiset core to the
// string-keyed use case the HTTP layer exposes.
package service

import (
	"sync/atomic"

	"github.com/ssargent/btreemset/pkg/btree"
	"github.com/ssargent/btreemset/pkg/concurrent"
)

// MultisetService wraps a concurrent.Multiset[string] with the bookkeeping
// the API layer needs (an approximate occupancy gauge for metrics) without
// adding a size query to the multiset itself: the underlying tree still
// exposes only Insert, Remove, Contains and Traverse.
type MultisetService struct {
	ms         *concurrent.Multiset[string]
	approxSize int64
}

// New constructs a MultisetService backed by a tree of the given minimum
// degree.
func New(degree int) (*MultisetService, error) {
	ms, err := concurrent.New[string](degree)
	if err != nil {
		return nil, err
	}
	return &MultisetService{ms: ms}, nil
}

// Insert adds one occurrence of key.
func (s *MultisetService) Insert(key string) error {
	if err := s.ms.Insert(key); err != nil {
		return err
	}
	atomic.AddInt64(&s.approxSize, 1)
	return nil
}

// Remove deletes at most one occurrence of key. A missing key is a silent
// no-op, but the occupancy gauge is decremented on every call; it is an
// instrumentation signal, not a query primitive, and drifts below the true
// count (possibly below zero) each time an absent key is removed.
func (s *MultisetService) Remove(key string) {
	s.ms.Remove(key)
	atomic.AddInt64(&s.approxSize, -1)
}

// Contains reports whether any occurrence of key exists.
func (s *MultisetService) Contains(key string) bool {
	return s.ms.Contains(key)
}

// Keys returns every occurrence of every key in ascending order, including
// duplicates. Callers that only want distinct keys should call
// SortedDistinctKeys instead.
func (s *MultisetService) Keys() []string {
	sink := &btree.SliceSink[string]{}
	s.ms.Traverse(sink)
	return sink.Keys
}

// ApproxSize returns the approximate occupancy gauge described on Remove.
func (s *MultisetService) ApproxSize() int64 {
	return atomic.LoadInt64(&s.approxSize)
}

// SortedDistinctKeys returns Keys with adjacent duplicates collapsed. The
// underlying traversal is already ascending, so this is a single pass.
func (s *MultisetService) SortedDistinctKeys() []string {
	keys := s.Keys()
	if len(keys) == 0 {
		return keys
	}
	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
