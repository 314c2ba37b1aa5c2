package heap

import "github.com/chazu/soupvm/internal/word"

// Range is the inclusive range of reference-slot addresses within an
// object (spec.md §4.2). An empty range has To < From.
type Range struct {
	From uintptr
	To   uintptr
}

// IsEmpty reports whether the range contains no slots.
func (rg Range) IsEmpty() bool {
	return rg.To < rg.From
}

// Count returns the number of slots in the range.
func (rg Range) Count() int {
	if rg.IsEmpty() {
		return 0
	}
	return int((rg.To-rg.From)/word.WordSize) + 1
}

// emptyRange is returned for kinds with no reference slots to scan.
var emptyRange = Range{From: 1, To: 0}

// Pointers returns the contiguous range of reference slots r contains,
// dispatching on class id exactly as spec.md §4.2 prescribes. This is
// the single operation the collector and the snapshot/deserializer
// layer use to traverse every live reference uniformly, regardless of
// object kind.
func Pointers(r Ref) Range {
	if r.IsSmallInt() {
		return emptyRange
	}
	switch r.ClassIDOf() {
	case ClassByteArray, ClassByteString, ClassWideString,
		ClassFloat64, ClassMediumInteger, ClassLargeInteger,
		ClassForwardingCorpse:
		return emptyRange

	case ClassArray, ClassWeakArray:
		n := r.ArraySize()
		if n == 0 {
			return emptyRange
		}
		base := r.payloadAddr()
		return Range{
			From: slotAddr(base, arrayPayloadWords),
			To:   slotAddr(base, arrayPayloadWords+n-1),
		}

	case ClassEphemeron:
		base := r.payloadAddr()
		return Range{From: slotAddr(base, 0), To: slotAddr(base, ephemeronSlotCount-1)}

	case ClassActivation:
		depth := r.StackDepth()
		base := r.payloadAddr()
		if depth == 0 {
			return Range{From: slotAddr(base, activationSenderSlot), To: slotAddr(base, activationStackDepthSlot)}
		}
		return Range{
			From: slotAddr(base, activationSenderSlot),
			To:   slotAddr(base, activationFixedSlots+depth-1),
		}

	case ClassClosure:
		n := r.NumCopied()
		base := r.payloadAddr()
		if n == 0 {
			return Range{From: slotAddr(base, closureNumCopiedSlot), To: slotAddr(base, closureArgumentCountSlot)}
		}
		return Range{
			From: slotAddr(base, closureNumCopiedSlot),
			To:   slotAddr(base, closureFixedSlots+n-1),
		}

	default:
		// Regular object, and every well-known kind built on top of one
		// (Behavior/Class/Metaclass/AbstractMixin/Method/Message/Thread/
		// Scheduler/ObjectStore): slots[0..N-1] where N is inferred from
		// the header's size field.
		n := r.NumRegularSlots()
		if n == 0 {
			return emptyRange
		}
		base := r.payloadAddr()
		return Range{From: slotAddr(base, 0), To: slotAddr(base, n-1)}
	}
}

// ForEachPointer calls fn for every reference slot in r's range, in
// order. fn may mutate the slot in place (e.g. to rewrite a forwarded
// reference) by returning a replacement value.
func ForEachPointer(r Ref, fn func(slot Ref) Ref) {
	rg := Pointers(r)
	for addr := rg.From; !rg.IsEmpty() && addr <= rg.To; addr += word.WordSize {
		old := readRef(addr)
		if updated := fn(old); updated != old {
			writeRef(addr, updated)
		}
	}
}
