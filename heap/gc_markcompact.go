package heap

// MarkCompact collects old space: mark every object reachable from the
// roots, then slide survivors down to the base of old space in
// address order, rewriting every pointer that referenced a moved
// object (spec.md §4.5). Unlike the in-place pointer-threading classic
// compactors use, this core builds a plain forwarding table once
// marking is resolved, then rewrites and slides in two separate
// passes: a map plus a rewrite-then-slide pass is easier to verify by
// inspection than literal pointer threading, and the extra table costs
// nothing a compacting collector wasn't already going to pay for in
// mark bits.
func (h *Heap) MarkCompact() {
	var stack []Ref
	var pendingWeak []Ref
	var pendingEphemerons []Ref

	push := func(r Ref) {
		if !r.IsHeap() || r.IsNew() || r.Mark() {
			return
		}
		r.SetMark(true)
		stack = append(stack, r)
	}
	pushSlot := func(slot Ref) Ref {
		push(slot)
		return slot
	}
	drain := func() {
		for len(stack) > 0 {
			r := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch r.ClassIDOf() {
			case ClassWeakArray:
				// Elements are not traced: a weak array never keeps its
				// referents alive.
				pendingWeak = append(pendingWeak, r)
			case ClassEphemeron:
				// Key/value/finalizer are resolved below, once the mark
				// phase otherwise reaches a fixed point: tracing them here
				// as ordinary strong slots would keep a binding alive
				// forever once its key happened to be reachable on one
				// cycle, even after every other reference to the key is
				// gone.
				pendingEphemerons = append(pendingEphemerons, r)
			default:
				ForEachPointer(r, pushSlot)
			}
		}
	}

	if h.roots != nil {
		h.roots.WalkRoots(func(slot *Ref) { push(*slot) })
	}
	drain()

	// Ephemerons are resolved to a fixed point, exactly as Scavenge
	// resolves them: a key only keeps its value and finalizer alive once
	// the key itself is known reachable some other way, and resolving
	// one ephemeron can newly mark another ephemeron's key, so iterate
	// until a round makes no progress.
	for {
		progressed := false
		remaining := pendingEphemerons[:0]
		for _, e := range pendingEphemerons {
			key := e.Key()
			if key.IsHeap() && !key.Mark() {
				remaining = append(remaining, e)
				continue
			}
			push(key)
			push(e.Value())
			push(e.Finalizer())
			progressed = true
		}
		pendingEphemerons = remaining
		drain()
		if !progressed {
			break
		}
	}

	// Anything left never found its key reachable: the binding dies.
	// The finalizer itself is still marked so it survives to be
	// invoked, even though key and value are cleared.
	for _, e := range pendingEphemerons {
		e.SetKey(Nil)
		e.SetValue(Nil)
		push(e.Finalizer())
		h.metrics.WeakSlotsCleared++
	}
	h.metrics.EphemeronsProcessed += uint64(len(pendingEphemerons))
	drain()

	// Compute each live object's post-compaction address.
	type move struct {
		from, to, size uintptr
	}
	var moves []move
	dest := h.oldSpace.base
	for addr := h.oldSpace.base; addr < h.oldSpace.top; {
		r := FromObjectAddr(addr)
		size := r.HeapSize()
		if r.Mark() {
			if addr != dest {
				moves = append(moves, move{from: addr, to: dest, size: size})
			}
			dest += size
		}
		addr += size
	}

	forwarding := make(map[uintptr]uintptr, len(moves))
	for _, mv := range moves {
		forwarding[mv.from] = mv.to
	}
	lookup := func(r Ref) Ref {
		if !r.IsHeap() || r.IsNew() {
			return r
		}
		if to, ok := forwarding[r.headerAddr()]; ok {
			return FromObjectAddr(to)
		}
		return r
	}

	if h.roots != nil {
		h.roots.WalkRoots(func(slot *Ref) { *slot = lookup(*slot) })
	}

	// Rewrite internal pointers while every object is still at its
	// pre-slide address, then resolve weak arrays against the same
	// information before anything physically moves.
	for addr := h.oldSpace.base; addr < h.oldSpace.top; {
		r := FromObjectAddr(addr)
		size := r.HeapSize()
		if r.Mark() && r.ClassIDOf() != ClassWeakArray {
			ForEachPointer(r, lookup)
		}
		addr += size
	}

	for _, w := range pendingWeak {
		n := w.ArraySize()
		for i := 0; i < n; i++ {
			v := w.At(i)
			if !v.IsHeap() || v.IsNew() {
				continue
			}
			if v.Mark() {
				w.AtPut(i, lookup(v))
			} else {
				w.AtPut(i, Nil)
				h.metrics.WeakSlotsCleared++
			}
		}
	}

	// copy() on overlapping byte slices behaves like memmove, and
	// dest <= from always, so sliding in ascending order is safe.
	for _, mv := range moves {
		copy(bytesAt(mv.to, int(mv.size)), bytesAt(mv.from, int(mv.size)))
	}
	h.oldSpace.top = dest

	for addr := h.oldSpace.base; addr < h.oldSpace.top; {
		r := FromObjectAddr(addr)
		r.SetMark(false)
		addr += r.HeapSize()
	}

	h.metrics.MarkCompactCount++
}
