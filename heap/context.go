package heap

import "math/rand"

// Context carries the process-wide mutable state spec.md §9 calls out:
// the string content-hash salt, seeded once at startup, plus the
// counter that generates identity hashes. It is threaded through the
// Heap rather than kept in package-level globals.
type Context struct {
	stringHashSalt uint32
	identityHashSeq uint32
}

// NewContext creates a runtime context with a freshly seeded string
// hash salt.
func NewContext() *Context {
	return &Context{stringHashSalt: rand.Uint32() | 1}
}

// NewContextWithSalt creates a runtime context with a caller-supplied
// salt, useful for deterministic tests.
func NewContextWithSalt(salt uint32) *Context {
	return &Context{stringHashSalt: salt}
}
