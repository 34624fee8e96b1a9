// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import "fmt"

// Wire format constants (spec §6), fixed across the whole protocol.
const (
	NullTag        uint32 = 0x00000000
	NewClassTag    uint32 = 0xFFFFFFFF
	ClassMask      uint32 = 0x80000000
	ByteCountMask  uint32 = 0x40000000
	MaxCount       uint32 = 0x3FFFFFFE
	ByteCountVMask int16  = 0x4000
	MaxVersion     int16  = 0x3FFF

	// MapOffset biases every mapped offset by two slots: 0 is reserved
	// for the null-object tag and 1 is left unused, so no real offset
	// maps onto either.
	MapOffset = 2
)

// TagKind discriminates the decoded shape of a class-tag word (Design
// Notes §9: "implement as a sum type ... wire decoding is a single
// match").
type TagKind int

const (
	// TagNull: the word was the literal NullTag.
	TagNull TagKind = iota
	// TagObjectRef: the word had ClassMask clear — it was never a class
	// tag at all, but the object tag itself (a legacy file without
	// byte-count framing). Offset carries the raw word.
	TagObjectRef
	// TagNewClass: NewClassTag was read; a fresh class descriptor
	// payload follows. Offset is the position where the tag was read
	// when a byte count preceded it, and 0 when the tag came bare.
	TagNewClass
	// TagClassRef: a back-reference to a previously emitted class
	// descriptor. Offset is the (displacement-adjusted) map key.
	TagClassRef
)

// ClassTag is the decoded framing discriminant returned by ReadClass
// alongside the resolved ClassRef (nil for TagNull/TagObjectRef, and for
// TagNewClass/TagClassRef when the class could not be resolved).
type ClassTag struct {
	Kind      TagKind
	Offset    int
	ByteCount int
}

// WriteClass writes cls's descriptor: a back-reference tag if cls has
// already been written to this buffer, otherwise NewClassTag followed by
// cls.Store and a new map entry.
func (b *Buffer) WriteClass(cls ClassRef) {
	if cls == nil {
		b.PutU32(NullTag)
		return
	}
	if offset, ok := b.FindByIdentity(cls); ok {
		b.PutU32(ClassMask | uint32(offset))
		return
	}
	tagPos := b.Length()
	b.PutU32(NewClassTag)
	cls.Store(b)
	b.MapObject(cls, tagPos)
}

// ReadClass reads one class-tag word (and, for a fresh descriptor, its
// payload), resolving it through reg. req, if non-nil, is validated
// against the resolved class via ClassRef.InheritsFrom and reported as
// WrongClass on mismatch. The returned ClassTag always carries the
// byte count found alongside the tag (0 for legacy files that never wrote
// one).
func (b *Buffer) ReadClass(reg Registry, req ClassRef) (ClassRef, ClassTag) {
	bcnt, word, startpos := b.readClassWord()

	if word == NullTag {
		return nil, ClassTag{Kind: TagNull, ByteCount: bcnt}
	}
	if word&ClassMask == 0 {
		// Not a class tag: this word is the object tag itself.
		return nil, ClassTag{Kind: TagObjectRef, Offset: int(word), ByteCount: bcnt}
	}

	var cls ClassRef
	tag := ClassTag{ByteCount: bcnt}

	if word == NewClassTag {
		tag.Kind = TagNewClass
		tag.Offset = startpos
		cls = Load(b, reg)
		if b.bcntFraming {
			if existing, found, _ := b.FindByOffset(startpos); !found || existing != cls {
				b.MapObject(cls, startpos)
			}
		} else {
			b.MapObject(cls, b.MapCount())
		}
	} else {
		tag.Kind = TagClassRef
		clTag := int(word &^ ClassMask)
		if b.bcntFraming {
			clTag += b.displacement
			clTag = b.resolveClassOffset(clTag, req, true)
		}
		tag.Offset = clTag
		if obj, found, unavailable := b.FindByOffset(clTag); found && !unavailable {
			cls, _ = obj.(ClassRef)
		}
	}

	if cls != nil && req != nil && !cls.InheritsFrom(req) {
		b.report(WrongClass, fmt.Errorf("rbuf: class %q does not inherit from requested class: %w", cls.Name(), ErrWrongClass))
	}
	return cls, tag
}

// readClassWord reads the leading word of a class tag, detecting the
// optional byte-count prefix modern files place before it (spec §4.4,
// point 3). It latches bcntFraming the first time it observes one.
func (b *Buffer) readClassWord() (bcnt int, tag uint32, startpos int) {
	first := b.TakeU32()
	if first&ByteCountMask == 0 || first == NewClassTag {
		return 0, first, 0
	}
	b.bcntFraming = true
	startpos = b.Length()
	tag = b.TakeU32()
	return int(first &^ ByteCountMask), tag, startpos
}

// resolveClassOffset validates a class back-reference tag. Unlike an
// object back-reference (CheckObject in object.go), a class is always
// mapped at the same position its NewClassTag was read, immediately and
// unconditionally — so a class tag pointing at an offset with no map
// entry indicates stream corruption rather than something to lazily
// materialize.
func (b *Buffer) resolveClassOffset(offset int, req ClassRef, readClass bool) int {
	if offset == 0 {
		return offset
	}
	if _, found, unavailable := b.FindByOffset(offset); !found && !unavailable {
		b.report(CorruptTag, fmt.Errorf("rbuf: class tag references offset %d not present in map: %w", offset, ErrCorruptTag))
	}
	return offset
}

// WriteVersion writes version preceded, if useByteCount is set, by 4
// reserved bytes for a later SetByteCount(cntpos, true) call. It returns
// the reserved position (for SetByteCount) or -1 if useByteCount is
// false.
func (b *Buffer) WriteVersion(version int16, useByteCount bool) int {
	cntpos := -1
	if useByteCount {
		cntpos = b.Length()
		b.PutU32(0)
	}
	if version > MaxVersion {
		version = MaxVersion
	}
	b.PutI16(version)
	return cntpos
}

// ReadVersion reads a packed version/byte-count prefix. If trackByteCount
// is true, it reads the leading short first: if it carries ByteCountVMask,
// it and the following short form the packed 4-byte count and the version
// follows; otherwise the cursor rewinds and a bare version is read instead
// (legacy layout with no byte count at all). startpos is the position of
// the packed count field (0 if none was present); bcnt is the decoded
// byte count (0 if none).
func (b *Buffer) ReadVersion(trackByteCount bool) (version int16, startpos int, bcnt int) {
	if !trackByteCount {
		version = b.TakeI16()
		if version&ByteCountVMask != 0 {
			// Packed form read as a bare version by mistake: the
			// remaining short plus the true version follow.
			_ = b.TakeI16()
			version = b.TakeI16()
		}
		return version, 0, 0
	}

	rewindPos := b.Length()
	hi := b.TakeI16()
	if hi&ByteCountVMask == 0 {
		b.pos = rewindPos
		version = b.TakeI16()
		return version, 0, 0
	}
	lo := b.TakeI16()
	// startpos is the position of the reserved count field itself, not
	// where it ends: CheckByteCount(startpos, bcnt, ...) expects
	// startpos+bcnt+4 to equal the cursor once the version and its
	// payload have both been consumed, and bcnt (as written by
	// SetByteCount) already counts the version's own 2 bytes.
	startpos = rewindPos
	bcnt = (int(hi&^ByteCountVMask) << 16) | int(uint16(lo))
	version = b.TakeI16()
	return version, startpos, bcnt
}

// SetByteCount back-patches a byte count reserved at cntpos (by
// WriteObject/WriteObjectAny or WriteVersion's useByteCount form) with the number of bytes written
// since. If packInVersion is set, the count is packed as two shorts (the
// form ReadVersion expects); otherwise it is a plain 32-bit word with
// ByteCountMask set (the form ReadClass expects).
func (b *Buffer) SetByteCount(cntpos int, packInVersion bool) {
	cnt := uint32(b.Length() - cntpos - 4)
	if cnt > MaxCount {
		b.report(CountOverflow, fmt.Errorf("rbuf: byte count %d exceeds MaxCount: %w", cnt, ErrCountOverflow))
	}
	if !packInVersion {
		b.OverwriteU32(cntpos, cnt|ByteCountMask)
		return
	}
	hi := int16(cnt>>16) | ByteCountVMask
	lo := int16(cnt & 0xFFFF)
	b.OverwriteU16(cntpos, uint16(hi))
	b.OverwriteU16(cntpos+2, uint16(lo))
}

// CheckByteCount validates that reading stopped exactly bcnt bytes after
// startpos+4 (the declared end of a framed object's payload). On a
// mismatch it forcibly repositions the cursor to the declared endpoint and
// returns the signed delta (negative: read too few; positive: read too
// many). ByteCountMismatch is reported only when className is non-empty;
// an empty className repositions silently (as when skipping a record).
func (b *Buffer) CheckByteCount(startpos, bcnt int, className string) int {
	if bcnt == 0 {
		return 0
	}
	endpos := startpos + bcnt + 4
	offset := b.Length() - endpos
	if offset != 0 {
		if className != "" {
			b.report(ByteCountMismatch, fmt.Errorf("rbuf: class %s read %d bytes instead of %d: %w", className, bcnt+offset, bcnt, ErrByteCountMismatch))
		}
		b.pos = endpos
	}
	return offset
}
