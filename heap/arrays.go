package heap

import "github.com/chazu/soupvm/internal/word"

// Array/WeakArray layout: [size smi][elements...] (spec.md §3.4).
const arraySizeOffset = 0
const arrayPayloadWords = 1

// NewArray allocates an Array of the given size, all elements Nil.
func NewArray(h *Heap, size int) Ref {
	return newArrayLike(h, ClassArray, size)
}

// NewWeakArray allocates a WeakArray of the given size, all elements
// Nil. Its elements are not traced for liveness by the collector
// (spec.md §4.5).
func NewWeakArray(h *Heap, size int) Ref {
	return newArrayLike(h, ClassWeakArray, size)
}

func newArrayLike(h *Heap, cid ClassID, size int) Ref {
	bytes := (arrayPayloadWords+uintptr(size))*word.WordSize
	r := h.Allocate(bytes, cid)
	base := r.payloadAddr()
	writeRef(slotAddr(base, arraySizeOffset), NewSmallInt(int64(size)))
	for i := 0; i < size; i++ {
		writeRef(slotAddr(base, arrayPayloadWords+i), Nil)
	}
	return r
}

// ArraySize returns the number of elements (works for Array and
// WeakArray alike).
func (r Ref) ArraySize() int {
	return int(readRef(slotAddr(r.payloadAddr(), arraySizeOffset)).SmallIntValue())
}

// At returns the element at index i (0-based).
func (r Ref) At(i int) Ref {
	return readRef(r.elementSlotAddr(i))
}

// AtPut sets the element at index i (0-based).
func (r Ref) AtPut(i int, v Ref) {
	writeRef(r.elementSlotAddr(i), v)
}

// elementSlotAddr returns the address of the i'th element slot, used
// by the collector's weak-array/pointer-range machinery.
func (r Ref) elementSlotAddr(i int) uintptr {
	return slotAddr(r.payloadAddr(), arrayPayloadWords+i)
}
