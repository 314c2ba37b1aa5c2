package heap

import (
	"github.com/chazu/soupvm/internal/platform"
	"github.com/chazu/soupvm/internal/word"
)

// Scavenge runs a Cheney-style copying collection of new space,
// evacuating every survivor directly into old space (spec.md §4.5).
// This core has no spare header bits to track an object's survival
// count, so it promotes on first survival rather than copying within
// new space across several collections.
//
// Dead new-space objects are simply abandoned when new space is
// reset; live ones are copied to old space and the vacated new-space
// header is overwritten with a forwarding corpse, so any reference
// still pointing at the old location can be redirected.
func (h *Heap) Scavenge() {
	scanFrom := h.oldSpace.top

	forward := func(r Ref) Ref {
		if !r.IsHeap() || r.IsOld() {
			return r
		}
		if r.IsForwardingCorpse() {
			return r.ForwardTarget()
		}
		size := r.HeapSize()
		addr, ok := h.oldSpace.bumpAllocate(size)
		if !ok {
			platform.Abort("old space exhausted during scavenge")
		}
		copy(bytesAt(addr, int(size)), bytesAt(r.headerAddr(), int(size)))

		var overflow uintptr
		if r.sizeField() == OversizedSentinel {
			overflow = word.AlignmentUnits(size)
		}
		moved := FromObjectAddr(addr)
		r.becomeForwardingCorpse(moved, overflow)
		h.metrics.ObjectsPromoted++
		return moved
	}

	if h.roots != nil {
		h.roots.WalkRoots(func(slot *Ref) {
			*slot = forward(*slot)
		})
	}

	var pendingWeak []Ref
	var pendingEphemerons []Ref

	scan := func() {
		for addr := scanFrom; addr < h.oldSpace.top; {
			r := FromObjectAddr(addr)
			size := r.HeapSize()
			switch r.ClassIDOf() {
			case ClassWeakArray:
				pendingWeak = append(pendingWeak, r)
			case ClassEphemeron:
				pendingEphemerons = append(pendingEphemerons, r)
			default:
				ForEachPointer(r, forward)
			}
			addr += size
		}
		scanFrom = h.oldSpace.top
	}
	scan()

	// Ephemerons are resolved to a fixed point: a key only keeps its
	// value and finalizer alive once the key itself is known reachable
	// some other way. Each round can uncover new reachability (an
	// already-resolved ephemeron's value might itself be another
	// ephemeron's key), so iterate until nothing changes.
	for {
		progressed := false
		remaining := pendingEphemerons[:0]
		for _, e := range pendingEphemerons {
			key := e.Key()
			reachable := !key.IsHeap() || key.IsOld() || key.IsForwardingCorpse()
			if !reachable {
				remaining = append(remaining, e)
				continue
			}
			e.SetKey(forward(key))
			e.SetValue(forward(e.Value()))
			e.SetFinalizer(forward(e.Finalizer()))
			progressed = true
		}
		pendingEphemerons = remaining
		scan()
		if !progressed {
			break
		}
	}

	// Anything left never found its key reachable: the binding dies.
	// The finalizer itself is still traced so it survives to be
	// invoked, even though key and value are cleared.
	for _, e := range pendingEphemerons {
		e.SetKey(Nil)
		e.SetValue(Nil)
		e.SetFinalizer(forward(e.Finalizer()))
		h.metrics.WeakSlotsCleared++
	}
	h.metrics.EphemeronsProcessed += uint64(len(pendingEphemerons))
	scan()

	// Weak arrays never keep their elements alive; resolve last, once
	// every strong and ephemeron-mediated survivor is known.
	for _, w := range pendingWeak {
		n := w.ArraySize()
		for i := 0; i < n; i++ {
			v := w.At(i)
			if !v.IsHeap() || v.IsOld() {
				continue
			}
			if v.IsForwardingCorpse() {
				w.AtPut(i, v.ForwardTarget())
			} else {
				w.AtPut(i, Nil)
				h.metrics.WeakSlotsCleared++
			}
		}
	}

	h.newSpace.reset()
	h.metrics.ScavengeCount++
}
