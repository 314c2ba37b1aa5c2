// Package heap implements the object memory core: the tagged-pointer
// value representation, per-object headers, the closed family of
// object kinds, pointer enumeration, the bump-allocating nursery and
// old generation, and the scavenging/mark-compact collector.
package heap

import (
	"fmt"
	"unsafe"

	"github.com/chazu/soupvm/internal/word"
)

// Ref is a tagged machine word: either an immediate small integer (low
// bit 0) or a heap reference (low bit 1) pointing one byte past an
// aligned object header.
type Ref uintptr

// MaxSmallInt and MinSmallInt bound the range a small integer can
// encode: signed values that fit in WordBits-1 bits once shifted left
// by one to make room for the tag bit.
const (
	MaxSmallInt = int64(1)<<(word.WordBits-2) - 1
	MinSmallInt = -(int64(1) << (word.WordBits - 2))
)

// Nil is the canonical "no reference" value: a small integer, never a
// heap address, so it is always safe to compare against.
const Nil Ref = 0

// IsSmallInt reports whether r is an immediate small integer.
func (r Ref) IsSmallInt() bool {
	return uintptr(r)&1 == 0
}

// IsHeap reports whether r is a heap reference.
func (r Ref) IsHeap() bool {
	return uintptr(r)&1 == 1
}

// NewSmallInt encodes v as a small-integer Ref. It panics if v is
// outside [MinSmallInt, MaxSmallInt]: constructing an out-of-range
// small integer is a programming error (spec §4.1), not a recoverable
// condition.
func NewSmallInt(v int64) Ref {
	if v < MinSmallInt || v > MaxSmallInt {
		panic(fmt.Sprintf("heap: small integer %d out of range [%d, %d]", v, MinSmallInt, MaxSmallInt))
	}
	return Ref(uintptr(v << 1))
}

// SmallIntValue decodes r as a signed integer. The caller must ensure
// r.IsSmallInt(); this is a precondition, not a checked error.
func (r Ref) SmallIntValue() int64 {
	return int64(r) >> 1
}

// headerAddr returns the address of r's header word. r must satisfy
// IsHeap(); this mirrors spec.md §4.1's header_of, which requires
// is_heap(r) as a precondition and recovers the header by subtracting
// the tag.
func (r Ref) headerAddr() uintptr {
	if !r.IsHeap() {
		panic("heap: headerAddr called on a non-heap reference")
	}
	return uintptr(r) - 1
}

// payloadAddr returns the address of the first payload word, i.e. the
// word immediately after the header and identity-hash words.
func (r Ref) payloadAddr() uintptr {
	return r.headerAddr() + 2*word.WordSize
}

// FromObjectAddr builds a Ref from the address of an object's header
// word (as returned by the allocator).
func FromObjectAddr(headerAddr uintptr) Ref {
	return Ref(headerAddr + 1)
}

// IsNew reports whether r's object lives in new space. Generation
// membership is encoded as the bit at the word-size offset of the
// header address (spec.md §3.1); the heap's space layout guarantees
// this bit is consistently set for every address inside new space and
// clear for every address inside old space (see space.go).
func (r Ref) IsNew() bool {
	return word.GetBit(r.headerAddr(), generationBit)
}

// IsOld reports whether r's object lives in old space.
func (r Ref) IsOld() bool {
	return !r.IsNew()
}

// generationBit is the bit position of the "word-size offset" spec.md
// §3.1 names as the generation discriminator: for a WordSize-byte
// word, that's the bit whose value equals WordSize itself.
var generationBit = func() uint {
	bit := uint(0)
	for v := uintptr(1); v < word.WordSize; v <<= 1 {
		bit++
	}
	return bit
}()

// ---------------------------------------------------------------------------
// Raw memory access helpers shared by every object kind.
// ---------------------------------------------------------------------------

func readWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func writeWord(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

func readRef(addr uintptr) Ref {
	return Ref(readWord(addr))
}

func writeRef(addr uintptr, v Ref) {
	writeWord(addr, uintptr(v))
}

func readUint32(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

func writeUint32(addr uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = v
}

func readInt64(addr uintptr) int64 {
	return *(*int64)(unsafe.Pointer(addr))
}

func writeInt64(addr uintptr, v int64) {
	*(*int64)(unsafe.Pointer(addr)) = v
}

func readFloat64(addr uintptr) float64 {
	return *(*float64)(unsafe.Pointer(addr))
}

func writeFloat64(addr uintptr, v float64) {
	*(*float64)(unsafe.Pointer(addr)) = v
}

func bytesAt(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// slotAddr returns the address of the idx'th Ref-sized slot starting
// at base.
func slotAddr(base uintptr, idx int) uintptr {
	return base + uintptr(idx)*word.WordSize
}
