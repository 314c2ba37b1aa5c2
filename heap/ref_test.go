package heap

import "testing"

func TestSmallIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, MaxSmallInt, MinSmallInt} {
		r := NewSmallInt(v)
		if !r.IsSmallInt() {
			t.Fatalf("NewSmallInt(%d) not recognized as small int", v)
		}
		if r.IsHeap() {
			t.Fatalf("NewSmallInt(%d) recognized as heap reference", v)
		}
		if got := r.SmallIntValue(); got != v {
			t.Fatalf("SmallIntValue() = %d, want %d", got, v)
		}
	}
}

func TestNewSmallIntOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range small integer")
		}
	}()
	NewSmallInt(MaxSmallInt + 1)
}

func TestNilIsSmallInt(t *testing.T) {
	if !Nil.IsSmallInt() {
		t.Fatal("Nil must be a small integer so it is always safe to inspect")
	}
}
