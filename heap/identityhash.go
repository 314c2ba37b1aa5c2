package heap

import "hash/fnv"

// identityHashMask keeps identity hashes within the positive
// small-integer range regardless of platform word size.
var identityHashMask = uintptr(MaxSmallInt)

// IdentityHash returns r's stable identity hash, generating and
// caching one on first use (spec.md §4.6). For a heap object the hash
// is nonzero, move-stable (the collector copies the hash word with the
// header), and never changes once set. A small integer's identity hash
// is its own value, which may be zero.
func (r Ref) IdentityHash(ctx *Context) int64 {
	if r.IsSmallInt() {
		return r.SmallIntValue()
	}
	if h := r.rawIdentityHash(); h != 0 {
		return int64(h)
	}
	h := ctx.nextIdentityHash()
	r.setRawIdentityHash(uintptr(h))
	return h
}

func (ctx *Context) nextIdentityHash() int64 {
	ctx.identityHashSeq++
	h := uintptr(ctx.identityHashSeq) & identityHashMask
	if h == 0 {
		ctx.identityHashSeq++
		h = uintptr(ctx.identityHashSeq) & identityHashMask
	}
	return int64(h)
}

// EnsureStringHash returns r's cached FNV-1a content hash, computing
// and caching it on first use (spec.md §4.6). Valid for ByteString.
func (r Ref) EnsureStringHash(ctx *Context) int64 {
	if h := r.StringHashSlot(); h != 0 {
		return h
	}
	h := contentHash(r.StringBytes(), ctx.stringHashSalt)
	r.setStringHashSlot(h)
	return h
}

// EnsureWideStringHash returns r's cached content hash, computing and
// caching it on first use. Valid for WideString.
func (r Ref) EnsureWideStringHash(ctx *Context) int64 {
	if h := r.WideStringHashSlot(); h != 0 {
		return h
	}
	n := r.WideStringSize()
	buf := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		c := r.WideStringAt(i)
		buf = append(buf, byte(c), byte(c>>8), byte(c>>16), byte(c>>24))
	}
	h := contentHash(buf, ctx.stringHashSalt)
	r.setWideStringHashSlot(h)
	return h
}

// contentHash computes an FNV-1a hash over data, XORs in the
// process-wide salt, and masks to a nonzero 26-bit value (spec.md
// §4.6). Reseeding on collision is not required.
func contentHash(data []byte, salt uint32) int64 {
	f := fnv.New32a()
	_, _ = f.Write(data)
	h := (f.Sum32() ^ salt) & 0x3FFFFFF
	if h == 0 {
		h = 1
	}
	return int64(h)
}
