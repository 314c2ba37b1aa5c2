package heap

import "github.com/chazu/soupvm/internal/word"

// MediumIntegerBytes is the payload size of a MediumInteger: a 64-bit
// signed value, regardless of platform word size (spec.md §3.4).
const MediumIntegerBytes = 8

// NewMediumInteger allocates a MediumInteger holding v.
func NewMediumInteger(h *Heap, v int64) Ref {
	r := h.Allocate(MediumIntegerBytes, ClassMediumInteger)
	writeInt64(r.payloadAddr(), v)
	return r
}

// MediumIntegerValue reads the payload of a MediumInteger.
func (r Ref) MediumIntegerValue() int64 {
	return readInt64(r.payloadAddr())
}

// NewFloat64 allocates a Float64 object holding v.
func NewFloat64(h *Heap, v float64) Ref {
	r := h.Allocate(8, ClassFloat64)
	writeFloat64(r.payloadAddr(), v)
	return r
}

// Float64Value reads the payload of a Float64 object.
func (r Ref) Float64Value() float64 {
	return readFloat64(r.payloadAddr())
}

// LargeInteger layout: one word sign flag (0 = positive, nonzero =
// negative), one word digit count, then that many word-size digits,
// little-endian (spec.md §3.4).
const (
	largeIntSignOffset  = 0
	largeIntCountOffset = 1
	largeIntDigitsBase  = 2
)

// NewLargeInteger allocates a LargeInteger with the given sign and
// little-endian machine-word digits.
func NewLargeInteger(h *Heap, negative bool, digits []uintptr) Ref {
	size := (largeIntDigitsBase+uintptr(len(digits)))*word.WordSize
	r := h.Allocate(size, ClassLargeInteger)
	base := r.payloadAddr()
	sign := uintptr(0)
	if negative {
		sign = 1
	}
	writeWord(slotAddr(base, largeIntSignOffset), sign)
	writeWord(slotAddr(base, largeIntCountOffset), uintptr(len(digits)))
	for i, d := range digits {
		writeWord(slotAddr(base, largeIntDigitsBase+i), d)
	}
	return r
}

// LargeIntegerNegative reports the sign of a LargeInteger.
func (r Ref) LargeIntegerNegative() bool {
	return readWord(slotAddr(r.payloadAddr(), largeIntSignOffset)) != 0
}

// LargeIntegerDigitCount returns the number of digits.
func (r Ref) LargeIntegerDigitCount() int {
	return int(readWord(slotAddr(r.payloadAddr(), largeIntCountOffset)))
}

// LargeIntegerDigit returns the i'th (little-endian) digit.
func (r Ref) LargeIntegerDigit(i int) uintptr {
	return readWord(slotAddr(r.payloadAddr(), largeIntDigitsBase+i))
}
