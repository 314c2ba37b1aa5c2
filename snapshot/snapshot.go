// Package snapshot serializes a heap's live object graph to and from
// CBOR, so a VM can persist and later restore its object memory
// (spec.md §6, heap_walk/pointers applied to every reachable object).
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/soupvm/heap"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// RefKind distinguishes a slot value's encoding in a Snapshot.
type RefKind uint8

const (
	// RefSmallInt is an inline small integer; its value is stored
	// directly, not as an object index.
	RefSmallInt RefKind = iota
	// RefObject is an index into Snapshot.Objects.
	RefObject
)

// SlotValue is one reference slot's serialized form: either an inline
// small integer or an index into the object table.
type SlotValue struct {
	Kind  RefKind `cbor:"k"`
	Small int64   `cbor:"s,omitempty"`
	Index int     `cbor:"i,omitempty"`
}

// ObjectRecord captures one heap object: its class, non-reference
// payload bytes (numbers, string/array contents, counts), and its
// reference slots in Pointers() order.
type ObjectRecord struct {
	ClassID heap.ClassID `cbor:"c"`
	Payload []byte       `cbor:"p,omitempty"`
	Slots   []SlotValue  `cbor:"r,omitempty"`
}

// Snapshot is a self-contained encoding of a heap's reachable object
// graph: every object reachable from the given roots, in depth-first
// first-visit order, plus the root slots themselves.
type Snapshot struct {
	Objects []ObjectRecord `cbor:"objects"`
	Roots   []SlotValue    `cbor:"roots"`
}

// Encode walks every object reachable from roots and serializes it,
// along with the roots themselves, to a Snapshot.
//
// Encode assumes no collection runs concurrently with it; the caller
// holds whatever lock serializes that with interpreter execution.
func Encode(roots []heap.Ref) *Snapshot {
	index := map[uintptr]int{}
	var records []ObjectRecord

	var slotValue func(heap.Ref) SlotValue
	var visit func(heap.Ref) int

	visit = func(r heap.Ref) int {
		addr := headerAddrOf(r)
		if i, ok := index[addr]; ok {
			return i
		}
		i := len(records)
		index[addr] = i
		records = append(records, ObjectRecord{}) // reserve the slot before recursing
		records[i] = encodeObject(r, slotValue)
		return i
	}

	slotValue = func(r heap.Ref) SlotValue {
		if r.IsSmallInt() {
			return SlotValue{Kind: RefSmallInt, Small: r.SmallIntValue()}
		}
		return SlotValue{Kind: RefObject, Index: visit(r)}
	}

	rootSlots := make([]SlotValue, len(roots))
	for i, r := range roots {
		rootSlots[i] = slotValue(r)
	}

	return &Snapshot{Objects: records, Roots: rootSlots}
}

func encodeObject(r heap.Ref, slotValue func(heap.Ref) SlotValue) ObjectRecord {
	rec := ObjectRecord{ClassID: r.ClassIDOf()}

	rg := heap.Pointers(r)
	if !rg.IsEmpty() {
		rec.Slots = make([]SlotValue, 0, rg.Count())
		heap.ForEachPointer(r, func(slot heap.Ref) heap.Ref {
			rec.Slots = append(rec.Slots, slotValue(slot))
			return slot
		})
	}

	rec.Payload = nonReferencePayload(r)
	return rec
}

// nonReferencePayload extracts the bytes of r that Pointers() does not
// cover: numeric values, raw bytes, and the lengths/flags packed
// alongside them.
func nonReferencePayload(r heap.Ref) []byte {
	switch r.ClassIDOf() {
	case heap.ClassMediumInteger:
		return encodeInt64(r.MediumIntegerValue())
	case heap.ClassFloat64:
		return encodeFloat64(r.Float64Value())
	case heap.ClassLargeInteger:
		return encodeLargeInteger(r)
	case heap.ClassByteArray:
		return append([]byte(nil), r.Bytes()...)
	case heap.ClassByteString:
		return append([]byte(nil), r.StringBytes()...)
	case heap.ClassWideString:
		return encodeWideString(r)
	default:
		return nil
	}
}

// Marshal encodes a Snapshot to canonical CBOR bytes.
func (s *Snapshot) Marshal() ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal decodes CBOR bytes into a Snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

func headerAddrOf(r heap.Ref) uintptr {
	// Ref doesn't export its header address; recompute it through the
	// public tag arithmetic so snapshot identity tracking stays in
	// lockstep with the heap package without needing an exported
	// accessor solely for this.
	return uintptr(r) - 1
}
