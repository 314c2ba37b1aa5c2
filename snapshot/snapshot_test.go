package snapshot

import (
	"testing"

	"github.com/chazu/soupvm/heap"
)

func newTestHeap() *heap.Heap {
	return heap.New(heap.NewContextWithSalt(1), heap.Config{
		NurserySize:  4 << 10,
		OldSpaceSize: 1 << 20,
	})
}

func TestEncodeDecodeRoundTripsArrayGraph(t *testing.T) {
	h := newTestHeap()
	a := heap.NewMediumInteger(h, 10)
	s := heap.NewByteString(h, "hi")
	arr := heap.NewArray(h, 3)
	arr.AtPut(0, a)
	arr.AtPut(1, s)
	arr.AtPut(2, heap.NewSmallInt(5))

	snap := Encode([]heap.Ref{arr})
	data, err := snap.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	decodedSnap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	h2 := newTestHeap()
	roots := Decode(h2, decodedSnap)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}

	got := roots[0]
	if got.ArraySize() != 3 {
		t.Fatalf("ArraySize() = %d, want 3", got.ArraySize())
	}
	if got.At(0).MediumIntegerValue() != 10 {
		t.Errorf("element 0 = %v, want MediumInteger 10", got.At(0))
	}
	if got.At(1).Text() != "hi" {
		t.Errorf("element 1 = %q, want %q", got.At(1).Text(), "hi")
	}
	if got.At(2).SmallIntValue() != 5 {
		t.Errorf("element 2 = %v, want SmallInt 5", got.At(2))
	}
}

func TestEncodeDecodeRoundTripsSharedReference(t *testing.T) {
	h := newTestHeap()
	shared := heap.NewMediumInteger(h, 99)
	arr := heap.NewArray(h, 2)
	arr.AtPut(0, shared)
	arr.AtPut(1, shared)

	snap := Encode([]heap.Ref{arr})
	h2 := newTestHeap()
	roots := Decode(h2, snap)

	got := roots[0]
	if got.At(0) != got.At(1) {
		t.Fatal("expected a shared reference to decode to the same object, not two copies")
	}
}

func TestEncodeDecodeRoundTripsCycle(t *testing.T) {
	h := newTestHeap()
	arr := heap.NewArray(h, 1)
	arr.AtPut(0, arr)

	snap := Encode([]heap.Ref{arr})
	h2 := newTestHeap()
	roots := Decode(h2, snap)

	if roots[0].At(0) != roots[0] {
		t.Fatal("expected self-referential cycle to round-trip")
	}
}
