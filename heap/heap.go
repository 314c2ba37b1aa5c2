package heap

import (
	"fmt"

	"github.com/chazu/soupvm/internal/platform"
	"github.com/chazu/soupvm/internal/vmlog"
	"github.com/chazu/soupvm/internal/word"
)

// Config controls nursery/old-space sizing and collection thresholds.
// Loaded from soup.toml by the heapconfig package (SPEC_FULL.md §2).
type Config struct {
	NurserySize          uintptr // bytes
	OldSpaceSize         uintptr // bytes
	LargeObjectThreshold uintptr // bytes; objects this big or bigger allocate directly into old space
}

// Default sizes, used when a Config field is left zero.
const (
	DefaultNurserySize          = 4 << 20  // 4 MiB
	DefaultOldSpaceSize         = 64 << 20 // 64 MiB
	DefaultLargeObjectThreshold = 64 << 10 // 64 KiB
)

func (c Config) withDefaults() Config {
	if c.NurserySize == 0 {
		c.NurserySize = DefaultNurserySize
	}
	if c.OldSpaceSize == 0 {
		c.OldSpaceSize = DefaultOldSpaceSize
	}
	if c.LargeObjectThreshold == 0 {
		c.LargeObjectThreshold = DefaultLargeObjectThreshold
	}
	return c
}

// RootWalker lets an external collaborator (the interpreter) enumerate
// its live references on demand so the collector can update them
// (spec.md §6 register_roots). visit receives a pointer to each root
// slot; the collector writes the slot's post-collection value through
// it.
type RootWalker interface {
	WalkRoots(visit func(*Ref))
}

// RootWalkFunc adapts a plain function to RootWalker.
type RootWalkFunc func(visit func(*Ref))

// WalkRoots implements RootWalker.
func (f RootWalkFunc) WalkRoots(visit func(*Ref)) { f(visit) }

// Metrics are the counters the allocator and collector maintain,
// readable through Heap.Metrics (SPEC_FULL.md §4.8). Nothing in this
// module polls them for GC-trigger decisions, and collections are not
// logged.
type Metrics struct {
	BytesAllocated      uint64
	ScavengeCount        uint64
	MarkCompactCount     uint64
	ObjectsPromoted      uint64
	EphemeronsProcessed  uint64
	WeakSlotsCleared     uint64
}

// Heap is the managed object memory: a bump-allocating nursery plus an
// old generation, with scavenge and mark-compact collection (spec.md
// §2, §4.4, §4.5).
type Heap struct {
	ctx      *Context
	cfg      Config
	newSpace *space
	oldSpace *space
	roots    RootWalker
	metrics  Metrics
	log      vmlog.Logger
}

// New creates a Heap with the given context and configuration.
func New(ctx *Context, cfg Config) *Heap {
	cfg = cfg.withDefaults()
	return &Heap{
		ctx:      ctx,
		cfg:      cfg,
		newSpace: newArena("new", cfg.NurserySize, true),
		oldSpace: newArena("old", cfg.OldSpaceSize, false),
		log:      vmlog.Get(),
	}
}

// Context returns the heap's runtime context (identity hash counter,
// string hash salt).
func (h *Heap) Context() *Context { return h.ctx }

// Metrics returns a snapshot of the collector's counters.
func (h *Heap) Metrics() Metrics { return h.metrics }

// RegisterRoots installs the interpreter's root-enumeration callback
// (spec.md §6).
func (h *Heap) RegisterRoots(w RootWalker) {
	h.roots = w
}

// Allocate returns a freshly initialized heap object of class cid with
// payloadBytes of payload space following the header and identity
// hash words. It triggers a collection on exhaustion and aborts the
// process if both generations remain full afterward (spec.md §4.4,
// §7: there is no out-of-memory exception surfaced to the caller).
func (h *Heap) Allocate(payloadBytes uintptr, cid ClassID) Ref {
	if cid == ClassIllegal {
		panic("heap: cannot allocate class id 0 (illegal)")
	}
	total := word.AlignUp(headerWords*word.WordSize + payloadBytes)

	addr, ok := h.allocateBytes(total)
	if !ok {
		h.collectForSpace(total)
		addr, ok = h.allocateBytes(total)
	}
	if !ok {
		h.log.Errorf("out of memory allocating %d bytes for class %d", total, cid)
		platform.Abort(fmt.Sprintf("heap exhausted allocating %d bytes", total))
	}

	r := FromObjectAddr(addr)
	h.initObject(r, total, cid)
	h.metrics.BytesAllocated += uint64(total)
	return r
}

func (h *Heap) allocateBytes(total uintptr) (uintptr, bool) {
	if total >= h.cfg.LargeObjectThreshold {
		return h.oldSpace.bumpAllocate(total)
	}
	return h.newSpace.bumpAllocate(total)
}

// collectForSpace runs whichever collection can plausibly make room
// for an allocation of the given total size. Scavenge always runs
// first: MarkCompact only marks old-space objects reachable from roots
// or other old-space objects, so any old-space object reachable solely
// through a still-unpromoted new-space object would otherwise be swept
// away. Scavenging first promotes everything live out of new space,
// matching spec.md §8's "scavenge until everything is old, then
// mark-compact" collection order.
func (h *Heap) collectForSpace(total uintptr) {
	h.Scavenge()
	if total >= h.cfg.LargeObjectThreshold || total > h.newSpace.size {
		h.MarkCompact()
	}
}

func (h *Heap) initObject(r Ref, total uintptr, cid ClassID) {
	writeWord(r.headerAddr(), 0)
	r.setSizeField(word.AlignmentUnits(total))
	r.setClassID(cid)
	r.setRawIdentityHash(0)
}

// Walk calls visit for every live heap object in allocation order
// across new and old space, stopping before the allocation frontier.
// Forwarding corpses are never visited (spec.md §4.7); Walk is safe to
// call between collections, never during one.
func (h *Heap) Walk(visit func(Ref)) {
	walkSpace(h.newSpace, visit)
	walkSpace(h.oldSpace, visit)
}

func walkSpace(s *space, visit func(Ref)) {
	addr := s.base
	for addr < s.top {
		r := FromObjectAddr(addr)
		size := r.HeapSize()
		if r.ClassIDOf() != ClassForwardingCorpse {
			visit(r)
		}
		addr += size
	}
}
