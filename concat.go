// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

// Since creates a zero-copy read-mode view over [s, e) of the same
// backing array as b, used when a buffer is a logical sub-range of a
// larger concatenated stream (spec's Displacement). s < 0 means "from the
// current cursor"; e < 0 means "to the current high-water mark". The view
// shares storage with b — writes through either are visible in both — and
// is always a fresh read, with its own reference map and a zero
// displacement left for the caller to set.
func (b *Buffer) Since(s, e int) *Buffer {
	if s < 0 {
		s = b.pos
	}
	if e < 0 {
		e = b.max
	}
	if s < 0 || s > e || e > b.max {
		panic("rbuf.Buffer.Since: invalid range")
	}
	return &Buffer{
		region: b.region[s:e:cap(b.region)],
		mode:   ModeRead,
		owner:  false,
		cap:    e - s,
		max:    e - s,
		parent: b.parent,
	}
}

// ReadableSince returns a zero-copy view over the unread region
// [pos, max), letting a downstream parser continue from the same logical
// point without copying.
func (b *Buffer) ReadableSince() *Buffer { return b.Since(b.pos, b.max) }

// Concat appends the contents of other to b as if the two had been
// written as one continuous stream, and returns the displacement other's
// own offsets must be shifted by when read back out of the combined
// buffer: every back-reference tag recorded while other was written in
// isolation pointed at a byte position relative to other's own start; once
// appended after b's existing bytes, that position must be corrected by
// adding the length of the prefix it now follows.
//
// Concat does not itself adjust any map already built on b: the Open
// Question in spec §9 ("displacement interacting with CheckObject
// recursion") is resolved here by requiring the caller to build the
// reference map fresh — via ResetMap and SetDisplacement on a Since view —
// rather than attempting to merge two already-populated maps, which would
// require rewriting every previously recorded offset.
func (b *Buffer) Concat(other *Buffer) int {
	displacement := b.Length()
	b.WriteFastByteArray(other.Bytes())
	return displacement
}
