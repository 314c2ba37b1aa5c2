package heap

import "testing"

func TestPointersSmallIntIsEmpty(t *testing.T) {
	rg := Pointers(NewSmallInt(5))
	if !rg.IsEmpty() {
		t.Fatal("small integers have no reference slots")
	}
}

func TestPointersArrayCoversEveryElement(t *testing.T) {
	h := newTestHeap()
	arr := NewArray(h, 3)
	rg := Pointers(arr)
	if rg.Count() != 3 {
		t.Fatalf("Pointers(array).Count() = %d, want 3", rg.Count())
	}
}

func TestPointersEmptyArrayIsEmpty(t *testing.T) {
	h := newTestHeap()
	arr := NewArray(h, 0)
	if !Pointers(arr).IsEmpty() {
		t.Fatal("a zero-length array has no reference slots")
	}
}

func TestPointersByteStringIsEmpty(t *testing.T) {
	h := newTestHeap()
	s := NewByteString(h, "abc")
	if !Pointers(s).IsEmpty() {
		t.Fatal("ByteString holds no references, only inline bytes")
	}
}

func TestForEachPointerVisitsArrayElementsInOrder(t *testing.T) {
	h := newTestHeap()
	arr := NewArray(h, 3)
	arr.AtPut(0, NewSmallInt(10))
	arr.AtPut(1, NewSmallInt(20))
	arr.AtPut(2, NewSmallInt(30))

	var seen []int64
	ForEachPointer(arr, func(slot Ref) Ref {
		seen = append(seen, slot.SmallIntValue())
		return slot
	})

	want := []int64{10, 20, 30}
	if len(seen) != len(want) {
		t.Fatalf("visited %d slots, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("slot %d = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestForEachPointerRewritesSlot(t *testing.T) {
	h := newTestHeap()
	arr := NewArray(h, 1)
	arr.AtPut(0, NewSmallInt(1))

	ForEachPointer(arr, func(slot Ref) Ref { return NewSmallInt(slot.SmallIntValue() + 1) })

	if arr.At(0).SmallIntValue() != 2 {
		t.Fatalf("rewritten slot = %d, want 2", arr.At(0).SmallIntValue())
	}
}

func TestHeapSizeCoversStringContent(t *testing.T) {
	h := newTestHeap()
	s := NewByteString(h, "abcdef")
	if got := s.StringSize(); got != 6 {
		t.Fatalf("StringSize() = %d, want 6", got)
	}
	if s.HeapSize() < 6 {
		t.Fatalf("HeapSize() = %d, smaller than the string's own content", s.HeapSize())
	}
}
