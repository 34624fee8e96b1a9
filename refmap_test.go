// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapObjectWriteModeFindByIdentity(t *testing.T) {
	b := NewWriter(16)
	obj := "obj-a"

	_, ok := b.FindByIdentity(obj)
	assert.False(t, ok)

	b.MapObject(obj, 10)
	offset, ok := b.FindByIdentity(obj)
	assert.True(t, ok)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 1, b.MapCount())
}

func TestMapObjectWriteModeIgnoresNil(t *testing.T) {
	b := NewWriter(16)
	b.MapObject(nil, 5)
	assert.Equal(t, 0, b.MapCount(), "write-mode count starts at 0 (unlike read mode's reserved null-object slot) and a nil object records nothing")
}

func TestMapObjectWriteModeReportsCountOverflow(t *testing.T) {
	b := NewWriter(16)
	var diag Diagnostic
	b.SetReporter(func(d Diagnostic) { diag = d })

	rawOffset := int(MaxCount) - MapOffset
	b.MapObject("obj-a", rawOffset) // biased offset lands exactly at MaxCount

	assert.Equal(t, CountOverflow, diag.Kind)
	offset, ok := b.FindByIdentity("obj-a")
	assert.True(t, ok, "the object is still recorded despite the diagnostic: CheckCount is a non-fatal Error in the original")
	assert.Equal(t, rawOffset, offset)
}

func TestMapObjectReadModeFindByOffset(t *testing.T) {
	b := NewReader([]byte{})
	b.MapObject("obj-a", 10)

	obj, found, unavailable := b.FindByOffset(10)
	assert.True(t, found)
	assert.False(t, unavailable)
	assert.Equal(t, "obj-a", obj)

	_, found, _ = b.FindByOffset(999)
	assert.False(t, found)
}

func TestMarkUnavailable(t *testing.T) {
	b := NewReader([]byte{})
	b.MarkUnavailable(20)

	obj, found, unavailable := b.FindByOffset(20)
	assert.True(t, found)
	assert.True(t, unavailable)
	assert.Nil(t, obj)
}

func TestSetReadParamPanicsAfterMapInit(t *testing.T) {
	b := NewReader([]byte{})
	b.MapObject("x", 1)
	assert.Panics(t, func() {
		b.SetReadParam(17)
	})
}

func TestSetWriteParamWrongMode(t *testing.T) {
	b := NewReader([]byte{})
	assert.Panics(t, func() {
		b.SetWriteParam(17)
	})
}

func TestResetMapClearsDisplacementAndMap(t *testing.T) {
	b := NewWriter(16)
	b.MapObject("obj", 4)
	b.SetDisplacement(7)

	b.ResetMap()
	assert.Equal(t, 0, b.MapCount())
	assert.Equal(t, 0, b.Displacement())

	_, ok := b.FindByIdentity("obj")
	assert.False(t, ok)
}

func TestGlobalMapSizeDefaults(t *testing.T) {
	SetGlobalWriteParam(997)
	b := NewWriter(16)
	b.MapObject("obj", 1) // forces lazy creation using the new global default
	assert.Equal(t, 1, b.MapCount())

	SetGlobalWriteParam(defaultMapSize) // restore for other tests
}
