// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"encoding/binary"
	"math"
)

// Array forms (spec §4.2):
//
//   - WriteArray/ReadArray: the length precedes the elements on the wire.
//   - ReadStaticArray: length precedes elements, destination is a
//     caller-provided buffer (refuses to allocate).
//   - WriteFastArray/ReadFastArray: length is known externally; only
//     elements are on the wire.
//
// Byte-element arrays use a bulk copy (no per-element swap is ever
// needed for single-byte elements); wider elements go through
// encoding/binary per element, which already collapses the
// host-endianness branch spec §9 calls out: BigEndian's Put/Uint
// methods do the same bit shifting regardless of host order, so there
// is no separate swap path to maintain for a big-endian host.

// WriteByteArray writes the length of v followed by its raw bytes.
func (b *Buffer) WriteByteArray(v []byte) {
	b.PutI32(int32(len(v)))
	b.WriteFastByteArray(v)
}

// ReadByteArray reads a length-prefixed byte array, allocating the
// destination. A zero length returns nil.
func (b *Buffer) ReadByteArray() []byte {
	n := b.TakeI32()
	if n <= 0 {
		return nil
	}
	v := make([]byte, n)
	b.ReadFastByteArray(v)
	return v
}

// WriteFastByteArray writes len(v) raw bytes with no length prefix.
func (b *Buffer) WriteFastByteArray(v []byte) {
	if len(v) == 0 {
		return
	}
	b.growFor(len(v))
	copy(b.region[b.pos:], v)
	b.pos += len(v)
	b.bumpMax()
}

// ReadFastByteArray reads len(v) raw bytes into v with no length prefix.
func (b *Buffer) ReadFastByteArray(v []byte) {
	if len(v) == 0 {
		return
	}
	b.mustHaveReadable(len(v))
	copy(v, b.region[b.pos:b.pos+len(v)])
	b.pos += len(v)
}

// WriteInt16Array writes the length of v followed by its elements.
func (b *Buffer) WriteInt16Array(v []int16) {
	b.PutI32(int32(len(v)))
	b.WriteFastInt16Array(v)
}

// ReadInt16Array reads a length-prefixed array, allocating the
// destination. A zero length returns nil.
func (b *Buffer) ReadInt16Array() []int16 {
	n := b.TakeI32()
	if n <= 0 {
		return nil
	}
	v := make([]int16, n)
	b.ReadFastInt16Array(v)
	return v
}

// ReadStaticInt16Array reads a length-prefixed array into dst without
// allocating. If the wire declares more elements than len(dst), only
// len(dst) are read and the rest are left unread at the cursor. Returns
// the wire-declared length.
func (b *Buffer) ReadStaticInt16Array(dst []int16) int {
	n := int(b.TakeI32())
	if n <= 0 || dst == nil {
		return n
	}
	take := n
	if take > len(dst) {
		take = len(dst)
	}
	b.ReadFastInt16Array(dst[:take])
	return n
}

// WriteFastInt16Array writes len(v) elements with no length prefix.
func (b *Buffer) WriteFastInt16Array(v []int16) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 2
	b.growFor(byteLen)
	pos := b.pos
	for _, val := range v {
		binary.BigEndian.PutUint16(b.region[pos:], uint16(val))
		pos += 2
	}
	b.pos = pos
	b.bumpMax()
}

// ReadFastInt16Array reads len(v) elements into v with no length prefix.
func (b *Buffer) ReadFastInt16Array(v []int16) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 2
	b.mustHaveReadable(byteLen)
	pos := b.pos
	for i := range v {
		v[i] = int16(binary.BigEndian.Uint16(b.region[pos:]))
		pos += 2
	}
	b.pos = pos
}

// WriteInt32Array writes the length of v followed by its elements.
func (b *Buffer) WriteInt32Array(v []int32) {
	b.PutI32(int32(len(v)))
	b.WriteFastInt32Array(v)
}

// ReadInt32Array reads a length-prefixed array, allocating the
// destination. A zero length returns nil.
func (b *Buffer) ReadInt32Array() []int32 {
	n := b.TakeI32()
	if n <= 0 {
		return nil
	}
	v := make([]int32, n)
	b.ReadFastInt32Array(v)
	return v
}

// WriteFastInt32Array writes len(v) elements with no length prefix.
func (b *Buffer) WriteFastInt32Array(v []int32) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 4
	b.growFor(byteLen)
	pos := b.pos
	for _, val := range v {
		binary.BigEndian.PutUint32(b.region[pos:], uint32(val))
		pos += 4
	}
	b.pos = pos
	b.bumpMax()
}

// ReadFastInt32Array reads len(v) elements into v with no length prefix.
func (b *Buffer) ReadFastInt32Array(v []int32) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 4
	b.mustHaveReadable(byteLen)
	pos := b.pos
	for i := range v {
		v[i] = int32(binary.BigEndian.Uint32(b.region[pos:]))
		pos += 4
	}
	b.pos = pos
}

// WriteFloat64Array writes the length of v followed by its elements.
func (b *Buffer) WriteFloat64Array(v []float64) {
	b.PutI32(int32(len(v)))
	b.WriteFastFloat64Array(v)
}

// ReadFloat64Array reads a length-prefixed array, allocating the
// destination. A zero length returns nil.
func (b *Buffer) ReadFloat64Array() []float64 {
	n := b.TakeI32()
	if n <= 0 {
		return nil
	}
	v := make([]float64, n)
	b.ReadFastFloat64Array(v)
	return v
}

// WriteFastFloat64Array writes len(v) elements with no length prefix.
func (b *Buffer) WriteFastFloat64Array(v []float64) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 8
	b.growFor(byteLen)
	pos := b.pos
	for _, val := range v {
		binary.BigEndian.PutUint64(b.region[pos:], math.Float64bits(val))
		pos += 8
	}
	b.pos = pos
	b.bumpMax()
}

// ReadFastFloat64Array reads len(v) elements into v with no length
// prefix.
func (b *Buffer) ReadFastFloat64Array(v []float64) {
	if len(v) == 0 {
		return
	}
	byteLen := len(v) * 8
	b.mustHaveReadable(byteLen)
	pos := b.pos
	for i := range v {
		v[i] = math.Float64frombits(binary.BigEndian.Uint64(b.region[pos:]))
		pos += 8
	}
	b.pos = pos
}
