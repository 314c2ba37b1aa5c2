package heap

import "testing"

func newTestHeap() *Heap {
	return New(NewContextWithSalt(1), Config{
		NurserySize:  4 << 10,
		OldSpaceSize: 1 << 20,
	})
}

// newDirectOldHeap forces every allocation into old space, for tests
// that exercise MarkCompact without first going through Scavenge.
func newDirectOldHeap() *Heap {
	return New(NewContextWithSalt(1), Config{
		NurserySize:          4 << 10,
		OldSpaceSize:         1 << 20,
		LargeObjectThreshold: 8,
	})
}

func TestAllocateZeroesFreshObject(t *testing.T) {
	h := newTestHeap()
	obj := NewRegularObject(h, FirstRegularClassID, 3)
	if obj.Mark() || obj.Canonical() || obj.Remembered() {
		t.Fatal("freshly allocated object must have all flag bits clear")
	}
	for i := 0; i < 3; i++ {
		if obj.GetSlot(i) != Nil {
			t.Fatalf("slot %d not initialized to Nil", i)
		}
	}
}

func TestAllocateIllegalClassPanics(t *testing.T) {
	h := newTestHeap()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic allocating class id 0")
		}
	}()
	h.Allocate(8, ClassIllegal)
}

func TestWalkVisitsEveryLiveObjectOnce(t *testing.T) {
	h := newTestHeap()
	a := NewMediumInteger(h, 1)
	s := NewByteString(h, "hello")
	arr := NewArray(h, 2)
	arr.AtPut(0, a)
	arr.AtPut(1, s)

	seen := map[ClassID]int{}
	h.Walk(func(r Ref) { seen[r.ClassIDOf()]++ })

	if seen[ClassMediumInteger] != 1 {
		t.Errorf("expected 1 MediumInteger, saw %d", seen[ClassMediumInteger])
	}
	if seen[ClassByteString] != 1 {
		t.Errorf("expected 1 ByteString, saw %d", seen[ClassByteString])
	}
	if seen[ClassArray] != 1 {
		t.Errorf("expected 1 Array, saw %d", seen[ClassArray])
	}
	if s.Text() != "hello" {
		t.Errorf("Text() = %q, want %q", s.Text(), "hello")
	}
}

func TestNewRegularObjectRejectsReservedClassID(t *testing.T) {
	h := newTestHeap()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a reserved class id")
		}
	}()
	NewRegularObject(h, ClassArray, 2)
}
