package heap

import "testing"

func TestMarkBitDoesNotDisturbClassID(t *testing.T) {
	h := newTestHeap()
	obj := NewMediumInteger(h, 1)

	if obj.Mark() {
		t.Fatal("freshly allocated object should be unmarked")
	}
	obj.SetMark(true)
	if !obj.Mark() {
		t.Fatal("SetMark(true) did not set the mark bit")
	}
	if obj.ClassIDOf() != ClassMediumInteger {
		t.Fatalf("setting mark bit corrupted class id: got %v", obj.ClassIDOf())
	}
	obj.SetMark(false)
	if obj.Mark() {
		t.Fatal("SetMark(false) did not clear the mark bit")
	}
}

func TestClassIDOfSmallInt(t *testing.T) {
	if NewSmallInt(7).ClassIDOf() != ClassSmallInteger {
		t.Fatal("small integers must report ClassSmallInteger")
	}
}

func TestIdentityHashStableAndCached(t *testing.T) {
	h := newTestHeap()
	ctx := h.Context()
	obj := NewMediumInteger(h, 1)

	first := obj.IdentityHash(ctx)
	second := obj.IdentityHash(ctx)
	if first != second {
		t.Fatalf("identity hash changed between calls: %d -> %d", first, second)
	}
	if first == 0 {
		t.Fatal("identity hash must be nonzero once assigned")
	}
}

func TestIdentityHashOfSmallIntIsItsValue(t *testing.T) {
	h := newTestHeap()
	r := NewSmallInt(99)
	if r.IdentityHash(h.Context()) != 99 {
		t.Fatalf("small int identity hash should be its own value")
	}
}
