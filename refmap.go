// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"fmt"
	"sync/atomic"
)

// defaultMapSize is the initial bucket count used for a Buffer's reference
// map when neither SetReadParam/SetWriteParam nor the process-wide default
// (SetGlobalReadParam/SetGlobalWriteParam) has been set.
const defaultMapSize = 503

var (
	globalReadMapSize  atomic.Int64
	globalWriteMapSize atomic.Int64
)

func init() {
	globalReadMapSize.Store(defaultMapSize)
	globalWriteMapSize.Store(defaultMapSize)
}

// SetGlobalReadParam changes the process-wide default initial size for read
// buffers' reference maps. It affects only maps created afterward (a map
// is created lazily, on a buffer's first map access).
func SetGlobalReadParam(mapSize int) { globalReadMapSize.Store(int64(mapSize)) }

// SetGlobalWriteParam changes the process-wide default initial size for
// write buffers' reference maps. It affects only maps created afterward.
func SetGlobalWriteParam(mapSize int) { globalWriteMapSize.Store(int64(mapSize)) }

// RefMap is the bidirectional association between an in-memory object
// identity and its wire offset, used to detect and resolve cycles and
// shared references within a single object graph (spec §4.4).
//
// A write-mode map is keyed by identity and yields the offset at which that
// identity was first recorded. A read-mode map is keyed by offset and
// yields the identity (or sentinel) recorded there. The two directions are
// never both populated on the same RefMap: mode is fixed at creation and
// matches the owning Buffer's mode.
type RefMap struct {
	mode       Mode
	byIdentity map[any]int
	byOffset   map[int]any
	count      int
}

func newRefMap(mode Mode, size int) *RefMap {
	if size <= 0 {
		size = defaultMapSize
	}
	m := &RefMap{mode: mode}
	if mode == ModeWrite {
		m.byIdentity = make(map[any]int, size)
	} else {
		m.byOffset = make(map[int]any, size)
		m.byOffset[0] = nil // slot 0: the null-object tag
		m.count = 1
	}
	return m
}

// refMapOr lazily creates the Buffer's RefMap using any pending
// SetReadParam/SetWriteParam size, falling back to the process-wide
// default.
func (b *Buffer) refMapOr() *RefMap {
	if b.refMap == nil {
		size := b.mapSize
		if size <= 0 {
			if b.mode == ModeRead {
				size = int(globalReadMapSize.Load())
			} else {
				size = int(globalWriteMapSize.Load())
			}
		}
		b.refMap = newRefMap(b.mode, size)
	}
	return b.refMap
}

// SetReadParam sets the initial bucket count for this buffer's reference
// map. Valid only in read mode, and only before the map has been created
// (i.e. before the first MapObject/FindByOffset call).
func (b *Buffer) SetReadParam(mapSize int) {
	if b.mode != ModeRead {
		panic("rbuf.Buffer.SetReadParam: buffer is not in read mode")
	}
	if b.refMap != nil {
		panic("rbuf.Buffer.SetReadParam: reference map already initialized")
	}
	b.mapSize = mapSize
}

// SetWriteParam sets the initial bucket count for this buffer's reference
// map. Valid only in write mode, and only before the map has been created.
func (b *Buffer) SetWriteParam(mapSize int) {
	if b.mode != ModeWrite {
		panic("rbuf.Buffer.SetWriteParam: buffer is not in write mode")
	}
	if b.refMap != nil {
		panic("rbuf.Buffer.SetWriteParam: reference map already initialized")
	}
	b.mapSize = mapSize
}

// ResetMap discards the reference map and clears the displacement, as if
// the buffer had just been created. Used between independent top-level
// object graphs sharing one Buffer.
func (b *Buffer) ResetMap() {
	b.refMap = nil
	b.displacement = 0
}

// MapObject records obj's association with offset in the reference map,
// creating the map on first use. In write mode obj must be non-nil (nil
// objects are never recorded: there is nothing to back-reference). In read
// mode obj may be nil or the sentinel-bearing value the caller chooses to
// mark "unavailable".
//
// Re-mapping an offset already present in read mode (a rewound, reread
// buffer) is a no-op rather than an error: the original's MapObject
// tolerates streamers that map the same offset twice on a reread, guarding
// only against genuinely conflicting identities.
func (b *Buffer) MapObject(obj any, offset int) {
	m := b.refMapOr()
	biased := offset + MapOffset
	if m.mode == ModeWrite {
		if obj == nil {
			return
		}
		if biased >= int(MaxCount) {
			b.report(CountOverflow, fmt.Errorf("rbuf: buffer offset %d exceeds MaxCount: %w", biased, ErrCountOverflow))
		}
		if _, exists := m.byIdentity[obj]; exists {
			return
		}
		m.byIdentity[obj] = biased
		m.count++
		return
	}
	if prior, exists := m.byOffset[biased]; exists {
		if prior != obj {
			b.report(WrongClass, fmt.Errorf("rbuf: offset %d remapped to a different identity: %w", offset, ErrWrongClass))
		}
		return
	}
	m.byOffset[biased] = obj
	m.count++
}

// MarkUnavailable records offset as known-unavailable in a read-mode map:
// a later FindByOffset for this offset reports ok but a nil identity,
// distinguishing "never seen" from "seen but its class could not be
// resolved" (e.g. skipped via its byte count).
func (b *Buffer) MarkUnavailable(offset int) {
	m := b.refMapOr()
	m.byOffset[offset+MapOffset] = unavailableMarker{}
}

// unavailableMarker is the concrete value stored for MarkUnavailable, kept
// distinct from a legitimate nil object identity.
type unavailableMarker struct{}

// FindByIdentity looks up a previously-mapped object's offset in a
// write-mode map. ok is false if obj has never been mapped on this buffer.
func (b *Buffer) FindByIdentity(obj any) (offset int, ok bool) {
	m := b.refMapOr()
	if m.mode != ModeWrite {
		panic("rbuf.Buffer.FindByIdentity: buffer is not in write mode")
	}
	biased, exists := m.byIdentity[obj]
	if !exists {
		return 0, false
	}
	return biased - MapOffset, true
}

// FindByOffset looks up the identity recorded at offset in a read-mode
// map. found is false if nothing has been mapped at that offset. If the
// offset was marked unavailable, FindByOffset returns (nil, true, true).
func (b *Buffer) FindByOffset(offset int) (obj any, found bool, isUnavailable bool) {
	m := b.refMapOr()
	if m.mode != ModeRead {
		panic("rbuf.Buffer.FindByOffset: buffer is not in read mode")
	}
	v, exists := m.byOffset[offset+MapOffset]
	if !exists {
		return nil, false, false
	}
	if _, ok := v.(unavailableMarker); ok {
		return nil, true, true
	}
	return v, true, false
}

// MapCount returns the number of entries recorded in the reference map
// through MapObject, plus the reserved null-object slot of a read-mode
// map (0 if the map has not yet been created). MarkUnavailable entries
// are not counted.
func (b *Buffer) MapCount() int {
	if b.refMap == nil {
		return 0
	}
	return b.refMap.count
}
