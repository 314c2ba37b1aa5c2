package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chazu/soupvm/heap"
)

func encodeInt64(v int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func decodeInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func encodeFloat64(v float64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return buf[:]
}

func decodeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// encodeLargeInteger stores the sign byte followed by digits as
// 8-byte little-endian words, independent of platform word size, so a
// snapshot taken on one platform can be restored on another.
func encodeLargeInteger(r heap.Ref) []byte {
	n := r.LargeIntegerDigitCount()
	buf := make([]byte, 1+8*n)
	if r.LargeIntegerNegative() {
		buf[0] = 1
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[1+8*i:], uint64(r.LargeIntegerDigit(i)))
	}
	return buf
}

func decodeLargeIntegerDigits(b []byte) (negative bool, digits []uintptr) {
	negative = b[0] != 0
	n := (len(b) - 1) / 8
	digits = make([]uintptr, n)
	for i := 0; i < n; i++ {
		digits[i] = uintptr(binary.LittleEndian.Uint64(b[1+8*i:]))
	}
	return negative, digits
}

func encodeWideString(r heap.Ref) []byte {
	n := r.WideStringSize()
	buf := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(r.WideStringAt(i)))
	}
	return buf
}

func decodeWideStringRunes(b []byte) []rune {
	n := len(b) / 4
	runes := make([]rune, n)
	for i := 0; i < n; i++ {
		runes[i] = rune(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return runes
}

// Decode reconstructs every object recorded in s into h, returning the
// Refs corresponding to s.Roots in order. Objects are allocated in
// table order so forward references (an object whose slot points to
// one later in the table) are resolved with a second, pointer-fixup
// pass, mirroring how Encode discovers objects depth-first but records
// them by first-visit index.
func Decode(h *heap.Heap, s *Snapshot) []heap.Ref {
	objects := make([]heap.Ref, len(s.Objects))
	for i, rec := range s.Objects {
		objects[i] = allocateFromRecord(h, rec)
	}

	resolve := func(sv SlotValue) heap.Ref {
		if sv.Kind == RefSmallInt {
			return heap.NewSmallInt(sv.Small)
		}
		return objects[sv.Index]
	}

	for i, rec := range s.Objects {
		if len(rec.Slots) == 0 {
			continue
		}
		r := objects[i]
		j := 0
		heap.ForEachPointer(r, func(heap.Ref) heap.Ref {
			v := resolve(rec.Slots[j])
			j++
			return v
		})
	}

	roots := make([]heap.Ref, len(s.Roots))
	for i, sv := range s.Roots {
		roots[i] = resolve(sv)
	}
	return roots
}

// allocateFromRecord allocates an object of rec's class with the
// right size for its payload, but leaves its reference slots Nil: the
// second pass in Decode fills them in once every object has an
// address to point at.
func allocateFromRecord(h *heap.Heap, rec ObjectRecord) heap.Ref {
	switch rec.ClassID {
	case heap.ClassMediumInteger:
		return heap.NewMediumInteger(h, decodeInt64(rec.Payload))
	case heap.ClassFloat64:
		return heap.NewFloat64(h, decodeFloat64(rec.Payload))
	case heap.ClassLargeInteger:
		negative, digits := decodeLargeIntegerDigits(rec.Payload)
		return heap.NewLargeInteger(h, negative, digits)
	case heap.ClassByteArray:
		return heap.NewByteArray(h, rec.Payload)
	case heap.ClassByteString:
		return heap.NewByteString(h, string(rec.Payload))
	case heap.ClassWideString:
		return heap.NewWideString(h, decodeWideStringRunes(rec.Payload))
	case heap.ClassArray:
		return heap.NewArray(h, len(rec.Slots))
	case heap.ClassWeakArray:
		return heap.NewWeakArray(h, len(rec.Slots))
	case heap.ClassEphemeron:
		return heap.NewEphemeron(h, heap.Nil, heap.Nil, heap.Nil)
	case heap.ClassActivation:
		r := heap.NewActivation(h)
		// Slot 5 in Pointers() order is always the stack-depth counter
		// (spec.md §3.4); it must be restored before Decode's fixup pass
		// runs ForEachPointer over r, since Pointers() itself uses the
		// live stack depth to size the range it reports.
		const activationStackDepthSlotIndex = 5
		if len(rec.Slots) > activationStackDepthSlotIndex {
			r.SetStackDepth(int(rec.Slots[activationStackDepthSlotIndex].Small))
		}
		return r
	case heap.ClassClosure:
		// numCopied is recovered from the slot count minus the four
		// fixed reference slots the Closure layout always carries.
		return heap.NewClosure(h, heap.Nil, 0, 0, len(rec.Slots)-4)
	default:
		if rec.ClassID < heap.FirstRegularClassID {
			panic(fmt.Sprintf("snapshot: unsupported class id %d in snapshot", rec.ClassID))
		}
		return heap.NewRegularObject(h, rec.ClassID, len(rec.Slots))
	}
}
