package crawler

import "context"

// CountingSink counts emissions without persisting anything. It backs
// dry-run mode, where traversal and enrichment are identical to a real run
// but nothing is written.
type CountingSink struct {
	emitted int
}

// NewCountingSink returns an empty counting sink.
func NewCountingSink() *CountingSink {
	return &CountingSink{}
}

// Emit records the document and discards it.
func (s *CountingSink) Emit(_ context.Context, _ Document) error {
	s.emitted++
	return nil
}

// Close is a no-op.
func (s *CountingSink) Close() error {
	return nil
}

// Count reports how many documents would have been written.
func (s *CountingSink) Count() int {
	return s.emitted
}
