package heap

import "github.com/chazu/soupvm/internal/word"

// ClassID identifies an object's layout and kind (spec.md §3.3).
type ClassID uint32

// Reserved class identifiers. Every id at or above FirstRegularClassID
// names a "regular object": fixed-width pointer slots inferred from
// the header's size field.
const (
	ClassIllegal          ClassID = 0
	ClassForwardingCorpse ClassID = 1
	ClassSmallInteger     ClassID = 2
	ClassMediumInteger    ClassID = 3
	ClassLargeInteger     ClassID = 4
	ClassFloat64          ClassID = 5
	ClassByteArray        ClassID = 6
	ClassByteString       ClassID = 7
	ClassWideString       ClassID = 8
	ClassArray            ClassID = 9
	ClassWeakArray        ClassID = 10
	ClassEphemeron        ClassID = 11
	ClassActivation       ClassID = 12
	ClassClosure          ClassID = 13

	FirstRegularClassID ClassID = 14
)

// Header bit positions (spec.md §3.2). The five reserved bits keep
// their positions for binary compatibility with persisted snapshots
// even though this core assigns them no behavior beyond mark and
// canonical (spec.md §9 Open Questions).
const (
	bitMark              = 0
	bitRemembered        = 1
	bitCanonical         = 2
	bitInClassTable      = 3
	bitWatched           = 4
	bitShallowImmutable  = 5
	bitDeepImmutable     = 6
	headerFlagBits  uint = 7 // bits [0,7) above are flags
)

// sizeFieldBits and classIDBits scale with the platform word size: 8
// and 16 bits on 32-bit platforms, 16 and 32 bits on 64-bit platforms
// (spec.md §3.2).
var (
	sizeFieldBits uint
	classIDBits   uint
	sizeShift     uint
	classIDShift  uint
	maxEncodedUnits uintptr
)

func init() {
	if word.WordSize == 4 {
		sizeFieldBits = 8
		classIDBits = 16
	} else {
		sizeFieldBits = 16
		classIDBits = 32
	}
	sizeShift = headerFlagBits
	classIDShift = sizeShift + sizeFieldBits
	maxEncodedUnits = uintptr(1)<<sizeFieldBits - 1
}

// OversizedSentinel is the header size-field value meaning "consult
// class/layout to compute the real size" (spec.md §9: an explicit
// sentinel, not a silent bit-field overflow).
const OversizedSentinel uintptr = 0

// --- Header word accessors (operate on a heap Ref's header address) ---

func (r Ref) header() uintptr {
	return readWord(r.headerAddr())
}

func (r Ref) setHeader(h uintptr) {
	writeWord(r.headerAddr(), h)
}

// Mark returns the collector's mark bit.
func (r Ref) Mark() bool { return word.GetBit(r.header(), bitMark) }

// SetMark sets or clears the collector's mark bit.
func (r Ref) SetMark(v bool) { r.setHeader(word.SetBit(r.header(), bitMark, v)) }

// Canonical returns the interned-symbol bit.
func (r Ref) Canonical() bool { return word.GetBit(r.header(), bitCanonical) }

// SetCanonical sets or clears the interned-symbol bit.
func (r Ref) SetCanonical(v bool) { r.setHeader(word.SetBit(r.header(), bitCanonical, v)) }

// Remembered returns the old-to-young write-barrier bit (reserved,
// unused by this core).
func (r Ref) Remembered() bool { return word.GetBit(r.header(), bitRemembered) }

// SetRemembered sets or clears the reserved remembered bit.
func (r Ref) SetRemembered(v bool) { r.setHeader(word.SetBit(r.header(), bitRemembered, v)) }

// Watched returns the ephemeron-key bit (reserved, unused by this
// core beyond preserving its bit position).
func (r Ref) Watched() bool { return word.GetBit(r.header(), bitWatched) }

// SetWatched sets or clears the reserved watched bit.
func (r Ref) SetWatched(v bool) { r.setHeader(word.SetBit(r.header(), bitWatched, v)) }

// sizeField returns the raw size field (alignment units, or
// OversizedSentinel).
func (r Ref) sizeField() uintptr {
	return word.GetBits(r.header(), sizeShift, sizeFieldBits)
}

func (r Ref) setSizeField(units uintptr) {
	if units > maxEncodedUnits {
		units = OversizedSentinel
	}
	r.setHeader(word.SetBits(r.header(), sizeShift, sizeFieldBits, units))
}

// ClassIDOf returns r's class identifier: 2 (SmallInteger) for
// immediate values, otherwise the header's class-id field.
func (r Ref) ClassIDOf() ClassID {
	if r.IsSmallInt() {
		return ClassSmallInteger
	}
	return ClassID(word.GetBits(r.header(), classIDShift, classIDBits))
}

func (r Ref) setClassID(cid ClassID) {
	r.setHeader(word.SetBits(r.header(), classIDShift, classIDBits, uintptr(cid)))
}

// --- Identity hash word (the second machine word of every object) ---

func (r Ref) identityHashAddr() uintptr {
	return r.headerAddr() + word.WordSize
}

func (r Ref) rawIdentityHash() uintptr {
	return readWord(r.identityHashAddr())
}

func (r Ref) setRawIdentityHash(v uintptr) {
	writeWord(r.identityHashAddr(), v)
}

// IsForwardingCorpse reports whether r's header has been overwritten
// to mark a moved object (spec.md §3.4 invariant 6).
func (r Ref) IsForwardingCorpse() bool {
	return r.IsHeap() && r.ClassIDOf() == ClassForwardingCorpse
}

// ForwardTarget reads the forwarding address stored immediately after
// the header of a forwarding corpse.
func (r Ref) ForwardTarget() Ref {
	return readRef(r.headerAddr() + word.WordSize)
}

// becomeForwardingCorpse overwrites r's header in place to record that
// the object moved to target, per spec.md §3.4 invariant 6 and §4.5.
// overflowUnits is stashed as the forwarding corpse's "size" payload
// word when the moved object's own size field was the oversized
// sentinel, so HeapSize can still be recovered from the corpse if it
// is (incorrectly) queried before the forwarding is resolved.
func (r Ref) becomeForwardingCorpse(target Ref, overflowUnits uintptr) {
	r.setClassID(ClassForwardingCorpse)
	writeRef(r.headerAddr()+word.WordSize, target)
	if overflowUnits != 0 {
		writeWord(r.headerAddr()+2*word.WordSize, overflowUnits)
	}
}
