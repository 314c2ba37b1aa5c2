package heap

import "github.com/chazu/soupvm/internal/word"

// Closure layout: copied-count, defining-activation,
// initial-bytecode-index, argument-count, then that many copied
// values inline (spec.md §3.4).
const (
	closureNumCopiedSlot           = 0
	closureDefiningActivationSlot  = 1
	closureInitialBytecodeIndexSlot = 2
	closureArgumentCountSlot       = 3
	closureFixedSlots              = 4
)

// NewClosure allocates a Closure capturing numCopied values from the
// given defining activation.
func NewClosure(h *Heap, definingActivation Ref, initialBytecodeIndex int64, argumentCount int, numCopied int) Ref {
	size := (closureFixedSlots+uintptr(numCopied))*word.WordSize
	r := h.Allocate(size, ClassClosure)
	base := r.payloadAddr()
	writeRef(slotAddr(base, closureNumCopiedSlot), NewSmallInt(int64(numCopied)))
	writeRef(slotAddr(base, closureDefiningActivationSlot), definingActivation)
	writeRef(slotAddr(base, closureInitialBytecodeIndexSlot), NewSmallInt(initialBytecodeIndex))
	writeRef(slotAddr(base, closureArgumentCountSlot), NewSmallInt(int64(argumentCount)))
	for i := 0; i < numCopied; i++ {
		writeRef(slotAddr(base, closureFixedSlots+i), Nil)
	}
	return r
}

func (r Ref) NumCopied() int {
	return int(readRef(slotAddr(r.payloadAddr(), closureNumCopiedSlot)).SmallIntValue())
}

func (r Ref) DefiningActivation() Ref {
	return readRef(slotAddr(r.payloadAddr(), closureDefiningActivationSlot))
}
func (r Ref) SetDefiningActivation(v Ref) {
	writeRef(slotAddr(r.payloadAddr(), closureDefiningActivationSlot), v)
}

func (r Ref) InitialBytecodeIndex() int64 {
	return readRef(slotAddr(r.payloadAddr(), closureInitialBytecodeIndexSlot)).SmallIntValue()
}

func (r Ref) ArgumentCount() int {
	return int(readRef(slotAddr(r.payloadAddr(), closureArgumentCountSlot)).SmallIntValue())
}

// Copied returns the i'th copied value (0-based).
func (r Ref) Copied(i int) Ref {
	return readRef(slotAddr(r.payloadAddr(), closureFixedSlots+i))
}

// SetCopied sets the i'th copied value (0-based).
func (r Ref) SetCopied(i int, v Ref) {
	writeRef(slotAddr(r.payloadAddr(), closureFixedSlots+i), v)
}
