package btree

import (
	"fmt"
	"io"
)

// WriterSink is the default traversal Sink described in spec.md §6: it
// writes "{k} " for every key it receives and a trailing newline once the
// traversal that owns it completes. Callers that want the trailing
// newline must call Finish after Traverse returns; Traverse itself only
// ever calls Emit.
type WriterSink[K Ordered] struct {
	w io.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink[K Ordered](w io.Writer) *WriterSink[K] {
	return &WriterSink[K]{w: w}
}

// Emit writes "{k} " to the underlying writer.
func (s *WriterSink[K]) Emit(k K) {
	fmt.Fprintf(s.w, "%v ", k)
}

// Finish writes the trailing line terminator that marks the end of a
// traversal call.
func (s *WriterSink[K]) Finish() {
	fmt.Fprintln(s.w)
}

// SliceSink collects every emitted key into an in-memory slice, in the
// order Traverse produces them. Useful for tests and for any caller that
// wants the ascending sequence as a value instead of a side effect.
type SliceSink[K Ordered] struct {
	Keys []K
}

// Emit appends k to Keys.
func (s *SliceSink[K]) Emit(k K) {
	s.Keys = append(s.Keys, k)
}
