package heap

import (
	"unsafe"

	"github.com/chazu/soupvm/internal/word"
)

// space is a bump-allocated arena: either new space (the nursery) or
// old space. Its backing store is a single, never-resized []byte so
// that addresses handed out by bumpAllocate remain stable for the
// arena's lifetime.
type space struct {
	name string
	buf  []byte // keeps the backing array alive; never resliced after init
	base uintptr
	top  uintptr
	size uintptr
}

// newArena reserves a byte arena of the given usable size whose base
// address carries the chosen new/old-space discriminator bit (spec.md
// §3.1): every address inside the arena, once rounded down to its
// object's AlignmentBytes-aligned start, shares the arena base's value
// for the word-size-offset bit, because AlignmentBytes is itself a
// multiple of 2*WordSize.
func newArena(name string, size uintptr, wantNewBit bool) *space {
	if size == 0 {
		size = word.AlignmentBytes
	}
	slop := 2 * word.AlignmentBytes
	buf := make([]byte, size+slop)
	raw := uintptr(unsafe.Pointer(&buf[0]))

	aligned := word.AlignUp(raw)
	base := aligned
	if wantNewBit != word.GetBit(base, generationBit) {
		base += word.WordSize
	}

	return &space{name: name, buf: buf, base: base, top: base, size: size}
}

func (s *space) limit() uintptr { return s.base + s.size }

func (s *space) reset() {
	s.top = s.base
}

func (s *space) used() uintptr { return s.top - s.base }

func (s *space) contains(addr uintptr) bool {
	return addr >= s.base && addr < s.limit()
}

// bumpAllocate reserves nbytes (already alignment-rounded by the
// caller) at the current top, returning its address and a success
// flag.
func (s *space) bumpAllocate(nbytes uintptr) (uintptr, bool) {
	newTop := s.top + nbytes
	if newTop > s.limit() {
		return 0, false
	}
	addr := s.top
	s.top = newTop
	return addr, true
}
