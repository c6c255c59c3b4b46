package process

import "sync/atomic"

// PIDGenerator issues process ids. It is the only simulator state that
// outlives a single interpretation frame.
type PIDGenerator interface {
	// Next returns a pid greater than every pid returned before.
	Next() int

	// Last returns the most recently issued pid, or InitPID if none.
	Last() int
}

// NewPIDGenerator returns a sequential generator whose first pid is 1.
func NewPIDGenerator() PIDGenerator {
	return &sequentialPIDGenerator{}
}

type sequentialPIDGenerator struct {
	last int64
}

func (g *sequentialPIDGenerator) Next() int {
	return int(atomic.AddInt64(&g.last, 1))
}

func (g *sequentialPIDGenerator) Last() int {
	return int(atomic.LoadInt64(&g.last))
}
