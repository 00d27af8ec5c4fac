package utils

import "github.com/oomph-ac/pmove/assert"

// Ring is a fixed power-of-two buffer addressed by an ever-increasing sequence number. A slot is located
// with seq & mask, so writing sequence n overwrites sequence n-Cap().
type Ring[T any] struct {
	items []T
	seqs  []uint32
	used  []bool
	mask  uint32
}

// NewRing creates a ring with the given capacity. It panics if size is not a power of two.
func NewRing[T any](size int) *Ring[T] {
	assert.IsTrue(IsPowerOfTwo(size), "ring: capacity %d is not a power of two", size)
	return &Ring[T]{
		items: make([]T, size),
		seqs:  make([]uint32, size),
		used:  make([]bool, size),
		mask:  uint32(size - 1),
	}
}

// Cap returns the number of slots in the ring.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Put stores item under seq, overwriting whatever occupied the slot.
func (r *Ring[T]) Put(seq uint32, item T) {
	index := seq & r.mask
	r.items[index] = item
	r.seqs[index] = seq
	r.used[index] = true
}

// Get returns the item stored under seq. ok is false when the slot is empty or was overwritten by a
// newer sequence.
func (r *Ring[T]) Get(seq uint32) (item T, ok bool) {
	index := seq & r.mask
	if !r.used[index] || r.seqs[index] != seq {
		return item, false
	}
	return r.items[index], true
}

// Has reports whether seq is still held by the ring.
func (r *Ring[T]) Has(seq uint32) bool {
	_, ok := r.Get(seq)
	return ok
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
