package heap

import "github.com/chazu/soupvm/internal/word"

// ByteArray layout: [size smi][bytes...] (spec.md §3.4).
const byteArraySizeOffset = 0
const byteArrayPayloadWords = 1

// NewByteArray allocates a ByteArray containing a copy of data.
func NewByteArray(h *Heap, data []byte) Ref {
	size := byteArrayPayloadWords*word.WordSize + uintptr(len(data))
	r := h.Allocate(size, ClassByteArray)
	base := r.payloadAddr()
	writeRef(slotAddr(base, byteArraySizeOffset), NewSmallInt(int64(len(data))))
	copy(bytesAt(base+byteArrayPayloadWords*word.WordSize, len(data)), data)
	return r
}

// ByteArraySize returns the ByteArray's element count.
func (r Ref) ByteArraySize() int {
	return int(readRef(slotAddr(r.payloadAddr(), byteArraySizeOffset)).SmallIntValue())
}

// Bytes returns a view over the ByteArray's inline bytes. The slice
// aliases heap memory; callers must not retain it across a collection.
func (r Ref) Bytes() []byte {
	n := r.ByteArraySize()
	return bytesAt(r.payloadAddr()+byteArrayPayloadWords*word.WordSize, n)
}

// ByteString layout: [size smi][hash smi][bytes...] (spec.md §3.4).
const (
	byteStringSizeOffset = 0
	byteStringHashOffset = 1
	byteStringPayloadWords = 2
)

// NewByteString allocates a ByteString containing a copy of s.
func NewByteString(h *Heap, s string) Ref {
	size := byteStringPayloadWords*word.WordSize + uintptr(len(s))
	r := h.Allocate(size, ClassByteString)
	base := r.payloadAddr()
	writeRef(slotAddr(base, byteStringSizeOffset), NewSmallInt(int64(len(s))))
	writeRef(slotAddr(base, byteStringHashOffset), NewSmallInt(0))
	copy(bytesAt(base+byteStringPayloadWords*word.WordSize, len(s)), s)
	return r
}

// StringSize returns a ByteString's length in bytes.
func (r Ref) StringSize() int {
	return int(readRef(slotAddr(r.payloadAddr(), byteStringSizeOffset)).SmallIntValue())
}

// StringHashSlot returns the cached content-hash slot (0 until
// EnsureStringHash, spec.md §3.4).
func (r Ref) StringHashSlot() int64 {
	return readRef(slotAddr(r.payloadAddr(), byteStringHashOffset)).SmallIntValue()
}

func (r Ref) setStringHashSlot(h int64) {
	writeRef(slotAddr(r.payloadAddr(), byteStringHashOffset), NewSmallInt(h))
}

// StringBytes returns a view over a ByteString's inline bytes.
func (r Ref) StringBytes() []byte {
	n := r.StringSize()
	return bytesAt(r.payloadAddr()+byteStringPayloadWords*word.WordSize, n)
}

// Text returns a copy of a ByteString's content as a Go string. Not
// named String/GoString: those would make every Ref satisfy
// fmt.Stringer/fmt.GoStringer and misinterpret non-string objects.
func (r Ref) Text() string {
	return string(r.StringBytes())
}

// WideString layout: [size smi][hash smi][uint32 code units...]
// (spec.md §3.4).
const (
	wideStringSizeOffset   = 0
	wideStringHashOffset   = 1
	wideStringPayloadWords = 2
)

// NewWideString allocates a WideString from the given code points.
func NewWideString(h *Heap, codePoints []rune) Ref {
	n := len(codePoints)
	size := wideStringPayloadWords*word.WordSize + uintptr(n)*4
	r := h.Allocate(size, ClassWideString)
	base := r.payloadAddr()
	writeRef(slotAddr(base, wideStringSizeOffset), NewSmallInt(int64(n)))
	writeRef(slotAddr(base, wideStringHashOffset), NewSmallInt(0))
	unitsBase := base + wideStringPayloadWords*word.WordSize
	for i, c := range codePoints {
		writeUint32(unitsBase+uintptr(i)*4, uint32(c))
	}
	return r
}

// WideStringSize returns a WideString's length in code units.
func (r Ref) WideStringSize() int {
	return int(readRef(slotAddr(r.payloadAddr(), wideStringSizeOffset)).SmallIntValue())
}

// WideStringHashSlot returns the cached content-hash slot.
func (r Ref) WideStringHashSlot() int64 {
	return readRef(slotAddr(r.payloadAddr(), wideStringHashOffset)).SmallIntValue()
}

func (r Ref) setWideStringHashSlot(h int64) {
	writeRef(slotAddr(r.payloadAddr(), wideStringHashOffset), NewSmallInt(h))
}

// WideStringAt returns the i'th code unit.
func (r Ref) WideStringAt(i int) rune {
	base := r.payloadAddr() + wideStringPayloadWords*word.WordSize
	return rune(readUint32(base + uintptr(i)*4))
}
