// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriter(t *testing.T) {
	b := NewWriter(100)
	assert.Equal(t, 100, b.Capacity())
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 0, b.Max())
	assert.True(t, b.IsWriting())
	assert.True(t, b.IsOwner())

	b.PutI32(0x12345678)
	assert.Equal(t, 4, b.Length())
	assert.Equal(t, 4, b.Max())

	// Non-positive capacity falls back to initialCapacity.
	b2 := NewWriter(0)
	assert.Equal(t, initialCapacity, b2.Capacity())
}

func TestNewReader(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0xAB, 0xCD, 0xEF, 0x01}
	b := NewReader(data)

	assert.Equal(t, 8, b.Capacity())
	assert.Equal(t, 8, b.Max())
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 8, b.Readable())
	assert.True(t, b.IsReading())

	assert.Equal(t, int32(0x12345678), b.TakeI32())
	assert.Equal(t, 4, b.Readable())
}

func TestSeekAndRewind(t *testing.T) {
	b := NewWriter(10)
	b.PutI8(1)
	b.PutI8(2)
	b.PutI8(3)

	assert.NoError(t, b.Seek(1))
	assert.Equal(t, 1, b.Length())

	assert.Error(t, b.Seek(-1))
	assert.Error(t, b.Seek(b.Max()+1))

	b.Rewind()
	assert.Equal(t, 0, b.Length())
}

func TestBytesAndReadableBytes(t *testing.T) {
	b := NewWriter(10)
	b.PutI8(1)
	b.PutI8(2)
	b.PutI8(3)
	assert.NoError(t, b.Seek(1))

	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
	assert.Equal(t, []byte{2, 3}, b.ReadableBytes())
}

func TestGrowForDoublesCapacity(t *testing.T) {
	b := NewWriter(4)
	assert.Equal(t, minimalCapacity, b.Capacity(), "a request below minimalCapacity is clamped")

	b.PutI32(1)
	b.PutI32(2)
	assert.Equal(t, 8, b.Capacity())

	b.PutI32(3) // exceeds cap, must grow
	assert.Equal(t, 16, b.Capacity())

	assert.NoError(t, b.Seek(0))
	assert.Equal(t, int32(1), b.TakeI32())
	assert.Equal(t, int32(2), b.TakeI32())
}

func TestGrowForPanicsOnNonOwnedRegion(t *testing.T) {
	src := NewWriter(16)
	src.PutI32(1)
	src.PutI32(2)

	view := src.Since(0, -1)
	assert.False(t, view.IsOwner())

	assert.Panics(t, func() {
		view.growFor(1000)
	})
}

func TestSetRegion(t *testing.T) {
	b := NewWriter(10)
	b.PutI8(1)

	region := make([]byte, 20)
	b.SetRegion(region, 5, true)
	assert.Equal(t, 20, b.Capacity())
	assert.Equal(t, 5, b.Max())
	assert.Equal(t, 0, b.Length())

	// size<=0 keeps previous capacity as the max.
	region2 := make([]byte, 20)
	b.SetRegion(region2, 0, true)
	assert.Equal(t, 20, b.Max())
}

func TestExpandPreservesPrefix(t *testing.T) {
	b := NewWriter(8)
	b.PutI32(0x01020304)
	b.Expand(32)

	assert.Equal(t, 32, b.Capacity())
	assert.NoError(t, b.Seek(0))
	assert.Equal(t, int32(0x01020304), b.TakeI32())
}

func TestReadWriteRaw(t *testing.T) {
	b := NewWriter(4)
	b.WriteRaw([]byte{1, 2, 3, 4, 5}, 5)
	assert.Equal(t, 5, b.Length())

	b.Rewind()
	dst := make([]byte, 10)
	n := b.ReadRaw(dst, 10)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, dst[:5])
}

func TestParentAndDisplacement(t *testing.T) {
	b := NewWriter(4)
	assert.Nil(t, b.Parent())

	p := fakeParent{version: 30010}
	b.SetParent(p)
	assert.Equal(t, p, b.Parent())

	assert.Equal(t, 0, b.Displacement())
	b.SetDisplacement(6)
	assert.Equal(t, 6, b.Displacement())
}

func TestReporter(t *testing.T) {
	b := NewWriter(4)
	var got Diagnostic
	called := false
	b.SetReporter(func(d Diagnostic) {
		called = true
		got = d
	})

	b.report(CountOverflow, ErrCountOverflow)
	assert.True(t, called)
	assert.Equal(t, CountOverflow, got.Kind)
}

type fakeParent struct{ version int }

func (p fakeParent) FormatVersion() int { return p.version }
