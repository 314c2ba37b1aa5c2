package heap

import "testing"

func TestScavengePromotesRootAndDropsGarbage(t *testing.T) {
	h := newTestHeap()
	live := NewMediumInteger(h, 7)
	NewMediumInteger(h, 9) // unreachable garbage

	root := live
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	if !root.IsNew() {
		t.Fatal("expected freshly allocated object to live in new space")
	}

	h.Scavenge()

	if !root.IsOld() {
		t.Fatal("expected root to be promoted to old space")
	}
	if root.MediumIntegerValue() != 7 {
		t.Fatalf("root value = %d, want 7", root.MediumIntegerValue())
	}

	count := 0
	h.Walk(func(r Ref) {
		if r.ClassIDOf() == ClassMediumInteger {
			count++
		}
	})
	if count != 1 {
		t.Fatalf("expected only the reachable MediumInteger to survive, found %d", count)
	}
	if h.Metrics().ScavengeCount != 1 {
		t.Fatalf("ScavengeCount = %d, want 1", h.Metrics().ScavengeCount)
	}
}

func TestScavengePreservesArrayGraph(t *testing.T) {
	h := newTestHeap()
	a := NewMediumInteger(h, 1)
	b := NewMediumInteger(h, 2)
	arr := NewArray(h, 2)
	arr.AtPut(0, a)
	arr.AtPut(1, b)

	root := arr
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	h.Scavenge()

	if root.At(0).MediumIntegerValue() != 1 {
		t.Fatalf("element 0 = %d, want 1", root.At(0).MediumIntegerValue())
	}
	if root.At(1).MediumIntegerValue() != 2 {
		t.Fatalf("element 1 = %d, want 2", root.At(1).MediumIntegerValue())
	}
	if !root.At(0).IsOld() || !root.At(1).IsOld() {
		t.Fatal("array elements should have been promoted along with the array")
	}
}

func TestScavengeSelfCycleSurvives(t *testing.T) {
	h := newTestHeap()
	arr := NewArray(h, 1)
	arr.AtPut(0, arr)

	root := arr
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	h.Scavenge()

	if root.At(0) != root {
		t.Fatalf("self-referential cycle not preserved after scavenge")
	}
}

func TestScavengeWeakArrayDoesNotKeepElementAlive(t *testing.T) {
	h := newTestHeap()
	target := NewMediumInteger(h, 123)
	wa := NewWeakArray(h, 1)
	wa.AtPut(0, target)

	root := wa
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	h.Scavenge()

	if root.At(0) != Nil {
		t.Fatalf("expected weak array element cleared, got %v", root.At(0))
	}
}

func TestScavengeWeakArrayKeepsElementReachableElsewhere(t *testing.T) {
	h := newTestHeap()
	target := NewMediumInteger(h, 123)
	wa := NewWeakArray(h, 1)
	wa.AtPut(0, target)

	rootArr, rootTarget := wa, target
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) {
		visit(&rootArr)
		visit(&rootTarget)
	}))

	h.Scavenge()

	if rootArr.At(0) != rootTarget {
		t.Fatalf("weak array element should track its target when reachable elsewhere")
	}
	if rootArr.At(0).MediumIntegerValue() != 123 {
		t.Fatalf("weak array element value = %d, want 123", rootArr.At(0).MediumIntegerValue())
	}
}

func TestScavengeEphemeronKeepsValueWhenKeyReachable(t *testing.T) {
	h := newTestHeap()
	key := NewMediumInteger(h, 1)
	value := NewMediumInteger(h, 2)
	eph := NewEphemeron(h, key, value, Nil)

	rootEph, rootKey := eph, key
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) {
		visit(&rootEph)
		visit(&rootKey)
	}))

	h.Scavenge()

	if rootEph.Key() != rootKey {
		t.Fatal("ephemeron key should be forwarded to match the independently rooted key")
	}
	if rootEph.Value().MediumIntegerValue() != 2 {
		t.Fatalf("ephemeron value should survive when its key is reachable")
	}
}

func TestScavengeEphemeronClearsWhenKeyUnreachable(t *testing.T) {
	h := newTestHeap()
	key := NewMediumInteger(h, 1)
	value := NewMediumInteger(h, 2)
	eph := NewEphemeron(h, key, value, Nil)

	root := eph
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	h.Scavenge()

	if root.Key() != Nil {
		t.Fatalf("expected ephemeron key cleared, got %v", root.Key())
	}
	if root.Value() != Nil {
		t.Fatalf("expected ephemeron value cleared, got %v", root.Value())
	}
	if h.Metrics().WeakSlotsCleared == 0 {
		t.Fatal("expected WeakSlotsCleared to record the dropped binding")
	}
}

func TestScavengeIdentityHashStable(t *testing.T) {
	h := newTestHeap()
	obj := NewMediumInteger(h, 5)
	root := obj
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	before := root.IdentityHash(h.Context())
	h.Scavenge()
	after := root.IdentityHash(h.Context())

	if before != after {
		t.Fatalf("identity hash changed across scavenge: %d -> %d", before, after)
	}
}

func TestMarkCompactReclaimsGarbageAndRewritesPointers(t *testing.T) {
	h := newDirectOldHeap()

	a := NewMediumInteger(h, 10)
	NewMediumInteger(h, 20) // garbage, sits between a and arr
	arr := NewArray(h, 1)
	arr.AtPut(0, a)

	if !a.IsOld() || !arr.IsOld() {
		t.Fatal("expected direct old-space allocation under a tiny large-object threshold")
	}

	root := arr
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	before := h.Metrics().MarkCompactCount
	h.MarkCompact()

	if h.Metrics().MarkCompactCount != before+1 {
		t.Fatal("expected MarkCompactCount to increment")
	}
	if root.At(0).MediumIntegerValue() != 10 {
		t.Fatalf("array element after compaction = %v, want MediumInteger 10", root.At(0))
	}

	count := 0
	h.Walk(func(r Ref) {
		if r.ClassIDOf() == ClassMediumInteger {
			count++
		}
	})
	if count != 1 {
		t.Fatalf("expected the garbage MediumInteger to be reclaimed, found %d live", count)
	}
}

func TestMarkCompactWeakArrayDoesNotKeepElementAlive(t *testing.T) {
	h := newDirectOldHeap()
	target := NewMediumInteger(h, 1)
	wa := NewWeakArray(h, 1)
	wa.AtPut(0, target)

	root := wa
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&root) }))

	h.MarkCompact()

	if root.At(0) != Nil {
		t.Fatalf("expected weak array element cleared by mark-compact, got %v", root.At(0))
	}
}

func TestMarkCompactEphemeronKeepsValueWhenKeyReachable(t *testing.T) {
	h := newDirectOldHeap()
	key := NewMediumInteger(h, 1)
	value := NewMediumInteger(h, 2)
	eph := NewEphemeron(h, key, value, Nil)

	rootEph, rootKey := eph, key
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) {
		visit(&rootEph)
		visit(&rootKey)
	}))

	h.MarkCompact()

	if rootEph.Key() != rootKey {
		t.Fatal("ephemeron key should survive compaction and match the independently rooted key")
	}
	if rootEph.Value().MediumIntegerValue() != 2 {
		t.Fatalf("ephemeron value should survive when its key is reachable")
	}
}

// TestMarkCompactEphemeronDropsBindingOnceKeyBecomesUnreachable exercises
// an ephemeron across two mark-compact cycles entirely in old space
// (bypassing Scavenge's resolution), the gap a resolved-once ephemeron
// being traced as an ordinary strong slot would otherwise hide: the
// binding must still die on the cycle where its key's other reference
// is dropped, not be kept alive forever by the ephemeron itself.
func TestMarkCompactEphemeronDropsBindingOnceKeyBecomesUnreachable(t *testing.T) {
	h := newDirectOldHeap()
	key := NewMediumInteger(h, 1)
	value := NewMediumInteger(h, 2)
	eph := NewEphemeron(h, key, value, Nil)

	rootEph, rootKey := eph, key
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) {
		visit(&rootEph)
		visit(&rootKey)
	}))

	h.MarkCompact()
	if rootEph.Key() == Nil {
		t.Fatal("ephemeron key should still be live on the first cycle")
	}

	// Drop the independent root on the key; only the ephemeron's own
	// key slot refers to it now.
	h.RegisterRoots(RootWalkFunc(func(visit func(*Ref)) { visit(&rootEph) }))

	h.MarkCompact()
	if rootEph.Key() != Nil {
		t.Fatal("expected ephemeron key cleared once its only other reference is gone")
	}
	if rootEph.Value() != Nil {
		t.Fatal("expected ephemeron value cleared along with its key")
	}
}
