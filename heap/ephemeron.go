package heap

import "github.com/chazu/soupvm/internal/word"

// Ephemeron layout: exactly three reference slots, key/value/finalizer
// (spec.md §3.4).
const (
	ephemeronKeySlot       = 0
	ephemeronValueSlot     = 1
	ephemeronFinalizerSlot = 2
	ephemeronSlotCount     = 3
)

// NewEphemeron allocates an Ephemeron with the given key, value, and
// finalizer (any of which may be Nil).
func NewEphemeron(h *Heap, key, value, finalizer Ref) Ref {
	r := h.Allocate(ephemeronSlotCount*word.WordSize, ClassEphemeron)
	base := r.payloadAddr()
	writeRef(slotAddr(base, ephemeronKeySlot), key)
	writeRef(slotAddr(base, ephemeronValueSlot), value)
	writeRef(slotAddr(base, ephemeronFinalizerSlot), finalizer)
	return r
}

// Key returns the ephemeron's key slot.
func (r Ref) Key() Ref { return readRef(slotAddr(r.payloadAddr(), ephemeronKeySlot)) }

// Value returns the ephemeron's value slot.
func (r Ref) Value() Ref { return readRef(slotAddr(r.payloadAddr(), ephemeronValueSlot)) }

// Finalizer returns the ephemeron's finalizer slot.
func (r Ref) Finalizer() Ref { return readRef(slotAddr(r.payloadAddr(), ephemeronFinalizerSlot)) }

// SetKey, SetValue, SetFinalizer mutate the corresponding slot.
func (r Ref) SetKey(v Ref)       { writeRef(slotAddr(r.payloadAddr(), ephemeronKeySlot), v) }
func (r Ref) SetValue(v Ref)     { writeRef(slotAddr(r.payloadAddr(), ephemeronValueSlot), v) }
func (r Ref) SetFinalizer(v Ref) { writeRef(slotAddr(r.payloadAddr(), ephemeronFinalizerSlot), v) }
