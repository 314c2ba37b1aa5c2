package heap

import "github.com/chazu/soupvm/internal/word"

// NewRegularObject allocates a regular object of the given class with
// numSlots reference slots, all initialized to Nil.
func NewRegularObject(h *Heap, cid ClassID, numSlots int) Ref {
	if cid < FirstRegularClassID {
		panic("heap: NewRegularObject requires a regular (>=14) class id")
	}
	r := h.Allocate(uintptr(numSlots)*word.WordSize, cid)
	base := r.payloadAddr()
	for i := 0; i < numSlots; i++ {
		writeRef(slotAddr(base, i), Nil)
	}
	return r
}

// GetSlot returns the value at the given slot index of a regular
// object (or any well-known-layout kind built on top of one).
func (r Ref) GetSlot(i int) Ref {
	return readRef(slotAddr(r.payloadAddr(), i))
}

// SetSlot sets the value at the given slot index.
func (r Ref) SetSlot(i int, v Ref) {
	writeRef(slotAddr(r.payloadAddr(), i), v)
}

// NumRegularSlots returns the number of reference slots in a regular
// object, inferred from its heap size: N = (heap_size - header -
// hash) / word (spec.md §3.4).
func (r Ref) NumRegularSlots() int {
	headerBytes := 2 * word.WordSize
	return int((r.HeapSize() - headerBytes) / word.WordSize)
}
