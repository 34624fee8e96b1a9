// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"encoding/binary"
	"math"
)

// legacyFormatVersion is the external format-version threshold below
// which wide integers are read/written using the legacy host-width,
// host-order representation (spec §4.2).
const legacyFormatVersion = 30006

// legacyWideWidth is the width (in bytes) assumed for the legacy Long_t
// representation. The original varies this by host pointer size; this
// port targets the common 64-bit case.
const legacyWideWidth = 8

// PutBool writes a single byte: 1 for true, 0 for false.
func (b *Buffer) PutBool(v bool) {
	var n byte
	if v {
		n = 1
	}
	b.PutI8(int8(n))
}

// TakeBool reads a single byte and reports it as non-zero.
func (b *Buffer) TakeBool() bool {
	return b.TakeI8() != 0
}

// PutI8 writes a signed byte at the cursor.
func (b *Buffer) PutI8(v int8) {
	b.growFor(1)
	b.region[b.pos] = byte(v)
	b.pos++
	b.bumpMax()
}

// TakeI8 reads a signed byte at the cursor.
func (b *Buffer) TakeI8() int8 {
	b.mustHaveReadable(1)
	v := int8(b.region[b.pos])
	b.pos++
	return v
}

// PutI16 writes a big-endian 16-bit integer at the cursor.
func (b *Buffer) PutI16(v int16) {
	b.growFor(2)
	binary.BigEndian.PutUint16(b.region[b.pos:], uint16(v))
	b.pos += 2
	b.bumpMax()
}

// TakeI16 reads a big-endian 16-bit integer at the cursor.
func (b *Buffer) TakeI16() int16 {
	b.mustHaveReadable(2)
	v := int16(binary.BigEndian.Uint16(b.region[b.pos:]))
	b.pos += 2
	return v
}

// PutI32 writes a big-endian 32-bit integer at the cursor.
func (b *Buffer) PutI32(v int32) {
	b.growFor(4)
	binary.BigEndian.PutUint32(b.region[b.pos:], uint32(v))
	b.pos += 4
	b.bumpMax()
}

// TakeI32 reads a big-endian 32-bit integer at the cursor.
func (b *Buffer) TakeI32() int32 {
	b.mustHaveReadable(4)
	v := int32(binary.BigEndian.Uint32(b.region[b.pos:]))
	b.pos += 4
	return v
}

// PutU32 writes a big-endian unsigned 32-bit word (the tag/count width
// used throughout the framing protocol).
func (b *Buffer) PutU32(v uint32) {
	b.growFor(4)
	binary.BigEndian.PutUint32(b.region[b.pos:], v)
	b.pos += 4
	b.bumpMax()
}

// TakeU32 reads a big-endian unsigned 32-bit word.
func (b *Buffer) TakeU32() uint32 {
	b.mustHaveReadable(4)
	v := binary.BigEndian.Uint32(b.region[b.pos:])
	b.pos += 4
	return v
}

// PeekU32At reads a big-endian unsigned 32-bit word at an absolute offset
// without moving the cursor.
func (b *Buffer) PeekU32At(offset int) uint32 {
	b.mustHavePeekable(offset, 4)
	return binary.BigEndian.Uint32(b.region[offset:])
}

// PutF32 writes a big-endian IEEE-754 single-precision float.
func (b *Buffer) PutF32(v float32) {
	b.PutI32(int32(math.Float32bits(v)))
}

// TakeF32 reads a big-endian IEEE-754 single-precision float.
func (b *Buffer) TakeF32() float32 {
	return math.Float32frombits(uint32(b.TakeI32()))
}

// PutF64 writes a big-endian IEEE-754 double-precision float.
func (b *Buffer) PutF64(v float64) {
	b.growFor(8)
	binary.BigEndian.PutUint64(b.region[b.pos:], math.Float64bits(v))
	b.pos += 8
	b.bumpMax()
}

// TakeF64 reads a big-endian IEEE-754 double-precision float.
func (b *Buffer) TakeF64() float64 {
	b.mustHaveReadable(8)
	v := math.Float64frombits(binary.BigEndian.Uint64(b.region[b.pos:]))
	b.pos += 8
	return v
}

// formatVersion returns the parent's format version, or a value at least
// legacyFormatVersion when no parent is attached (absent parent means
// modern, per spec §4.2).
func (b *Buffer) formatVersion() int {
	if b.parent == nil {
		return legacyFormatVersion
	}
	return b.parent.FormatVersion()
}

// PutWide writes a wide integer field (the source's Long_t). If the
// parent's format version is modern (>= legacyFormatVersion), the value
// is truncated to the portable 32-bit wire form. Otherwise it is written
// in the legacy host-width, host-order representation.
func (b *Buffer) PutWide(v int64) {
	if b.formatVersion() >= legacyFormatVersion {
		b.PutI32(int32(v))
		return
	}
	b.growFor(legacyWideWidth)
	hostEndian.PutUint64(b.region[b.pos:], uint64(v))
	b.pos += legacyWideWidth
	b.bumpMax()
}

// TakeWide reads a wide integer field, applying the same format-version
// gate as PutWide.
func (b *Buffer) TakeWide() int64 {
	if b.formatVersion() >= legacyFormatVersion {
		return int64(b.TakeI32())
	}
	b.mustHaveReadable(legacyWideWidth)
	v := int64(hostEndian.Uint64(b.region[b.pos:]))
	b.pos += legacyWideWidth
	return v
}

// PutString writes s followed by a NUL terminator.
func (b *Buffer) PutString(s string) {
	n := len(s) + 1
	b.growFor(n)
	copy(b.region[b.pos:], s)
	b.region[b.pos+len(s)] = 0
	b.pos += n
	b.bumpMax()
}

// TakeString reads a NUL-terminated string, consuming at most max-1 bytes
// (a terminator found within them included) before giving up, or
// unbounded if max < 0.
// Matches spec §4.2: stops at the first zero byte or at max-1 bytes,
// whichever comes first.
func (b *Buffer) TakeString(max int) string {
	limit := b.Readable()
	if max >= 0 && max-1 < limit {
		limit = max - 1
	}
	out := make([]byte, 0, 16)
	for i := 0; i < limit; i++ {
		c := b.region[b.pos]
		b.pos++
		if c == 0 {
			return string(out)
		}
		out = append(out, c)
	}
	// Bound reached (max-1 bytes consumed) without finding a terminator:
	// the local string is still considered NUL-terminated by the caller,
	// but no extra byte is consumed from the wire.
	return string(out)
}
