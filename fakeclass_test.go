// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

// fakeClass is a minimal ClassRef used across framing_test.go and
// object_test.go. Instances are compared by pointer identity, matching
// how a real class table hands out one descriptor per class.
type fakeClass struct {
	name    string
	version int16
	bases   map[*fakeClass]int // other class -> base offset
	newFn   func() any
}

func newFakeClass(name string, newFn func() any) *fakeClass {
	return &fakeClass{name: name, version: 1, bases: map[*fakeClass]int{}, newFn: newFn}
}

func (c *fakeClass) Name() string { return c.name }

func (c *fakeClass) New() any {
	if c.newFn == nil {
		return &fakeObject{class: c}
	}
	return c.newFn()
}

func (c *fakeClass) Version() int16 { return c.version }

func (c *fakeClass) BaseClassOffset(other ClassRef) int {
	oc, ok := other.(*fakeClass)
	if !ok {
		return -1
	}
	if oc == c {
		return 0
	}
	if off, ok := c.bases[oc]; ok {
		return off
	}
	return -1
}

func (c *fakeClass) InheritsFrom(other ClassRef) bool {
	oc, ok := other.(*fakeClass)
	if !ok {
		return false
	}
	if oc == c {
		return true
	}
	_, ok = c.bases[oc]
	return ok
}

func (c *fakeClass) GetActualClass(obj any) ClassRef {
	if fo, ok := obj.(*fakeObject); ok && fo.class != nil {
		return fo.class
	}
	return c
}

func (c *fakeClass) Store(b *Buffer) { b.PutString(c.name) }

func (c *fakeClass) Streamer(obj any, b *Buffer) {
	fo, ok := obj.(*fakeObject)
	if !ok {
		return
	}
	if b.IsWriting() {
		b.PutI32(fo.value)
		b.WriteObjectAny(fo.child, c)
	} else {
		fo.value = b.TakeI32()
		fo.child, _ = b.ReadObjectAny(c, simpleRegistryOf(c)).(*fakeObject)
	}
}

type fakeObject struct {
	class *fakeClass
	value int32
	child *fakeObject
}

func simpleRegistryOf(c *fakeClass) Registry {
	reg := NewSimpleRegistry()
	reg.Register(c)
	return reg
}
