package heap

import "github.com/chazu/soupvm/internal/word"

// HeapSize returns the total byte size of r's object, header through
// the last inline slot (spec.md §4.3). When the header's size field is
// nonzero it is authoritative; otherwise the size is computed from the
// class's own layout so that objects exceeding the size field's range
// still report their true size (spec.md §9's "oversized" sentinel).
// Regular objects are the exception: they carry no slot count outside
// the size field, so HeapSize panics for a regular object too large for
// that field.
func (r Ref) HeapSize() uintptr {
	if units := r.sizeField(); units != OversizedSentinel {
		return word.UnitsToBytes(units)
	}
	return r.oversizedHeapSize()
}

// headerWords is the number of words occupied by header + identity
// hash, present on every heap object.
const headerWords = 2

func (r Ref) oversizedHeapSize() uintptr {
	switch r.ClassIDOf() {
	case ClassByteArray:
		return word.AlignUp((headerWords+byteArrayPayloadWords)*word.WordSize + uintptr(r.ByteArraySize()))
	case ClassByteString:
		return word.AlignUp((headerWords+byteStringPayloadWords)*word.WordSize + uintptr(r.StringSize()))
	case ClassWideString:
		return word.AlignUp((headerWords+wideStringPayloadWords)*word.WordSize + uintptr(r.WideStringSize())*4)
	case ClassArray, ClassWeakArray:
		return word.AlignUp((headerWords+arrayPayloadWords+uintptr(r.ArraySize()))*word.WordSize)
	case ClassLargeInteger:
		return word.AlignUp((headerWords+largeIntDigitsBase+uintptr(r.LargeIntegerDigitCount()))*word.WordSize)
	case ClassActivation:
		return word.AlignUp((headerWords+activationTotalSlots)*word.WordSize)
	case ClassClosure:
		return word.AlignUp((headerWords+closureFixedSlots+uintptr(r.NumCopied()))*word.WordSize)
	case ClassEphemeron:
		return word.AlignUp((headerWords+ephemeronSlotCount)*word.WordSize)
	case ClassForwardingCorpse:
		// The forwarded object's own size, stashed by becomeForwardingCorpse
		// when it was itself oversized.
		return word.UnitsToBytes(readWord(r.headerAddr() + 2*word.WordSize))
	default:
		// Regular object (and well-known Behavior/Class/Method/... kinds
		// built on top of one): this path is reached when the allocator
		// stored the sentinel because its size exceeded the encodable
		// size field. No other record of its slot count exists, so this
		// panics rather than silently misreporting.
		panic("heap: oversized regular object has no independent slot-count source")
	}
}
