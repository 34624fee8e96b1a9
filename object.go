// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import "fmt"

// CheckObject resolves an object back-reference at offset (as decoded by
// ReadClass's TagObjectRef case), lazily materializing the referenced
// object if it has not been read yet: this happens when the reference was
// produced for an object that got skipped while an outer, unrelated
// record was being skipped via its byte count. req is passed through for
// base-class validation of the lazily-read object.
//
// offset is the biased wire value (as carried by a ClassTag, or 0 for a
// null reference) rather than a raw buffer position: a raw position of 0
// is a perfectly valid place for an object to start, so only the biased
// form can use 0 unambiguously as "no object" (spec §4.4's MapOffset).
//
// Returns offset unchanged (0 if the reference is to the null object or
// to a class marked unavailable).
func (b *Buffer) CheckObject(offset int, req ClassRef, reg Registry) int {
	if offset == 0 {
		return 0
	}
	raw := offset - MapOffset
	_, found, unavailable := b.FindByOffset(raw)
	if unavailable {
		return 0
	}
	if found {
		return offset
	}

	saved := b.pos
	b.pos = raw
	b.ReadObjectAny(req, reg)
	b.pos = saved
	return offset
}

// ReadObjectAny reads one framed object, optionally validating it against
// req (the expected cast class) and resolving class descriptors through
// reg. Returns the reconstructed object, or nil for a null reference, an
// unknown class (skipped via its byte count), or an allocation failure.
// A base-class mismatch against req is reported as WrongClass, but the
// object is still read and returned. Failures are reported to the
// buffer's Reporter rather than failing the read outright.
func (b *Buffer) ReadObjectAny(req ClassRef, reg Registry) any {
	startpos := b.Length()
	cls, tag := b.ReadClass(reg, req)

	baseOffset := 0
	if cls != nil && req != nil {
		baseOffset = cls.BaseClassOffset(req)
		if baseOffset == -1 {
			b.report(WrongClass, fmt.Errorf("rbuf: got object of wrong class %q: %w", cls.Name(), ErrWrongClass))
			baseOffset = 0
		}
	}
	_ = baseOffset // the core has no pointer arithmetic to adjust; kept for parity with spec §4.5 step 3

	// An object may already have been read at this exact position, e.g.
	// when the buffer is rewound and the same record is read again.
	if b.bcntFraming {
		if obj, found, unavail := b.FindByOffset(startpos); found && !unavail {
			b.CheckByteCount(startpos, tag.ByteCount, "")
			return obj
		}
	}

	switch tag.Kind {
	case TagNull:
		return nil

	case TagObjectRef:
		// tag.Offset is already the biased wire value CheckObject expects
		// (NullTag is handled by its own TagKind above, so this is never a
		// spurious 0).
		wireOffset := tag.Offset + b.displacement
		wireOffset = b.CheckObject(wireOffset, req, reg)
		if wireOffset == 0 {
			return nil
		}
		obj, found, unavail := b.FindByOffset(wireOffset - MapOffset)
		if !found || unavail {
			return nil
		}
		return obj
	}

	// TagNewClass or TagClassRef: a fresh object of a (possibly
	// newly-introduced, possibly already-known) class.
	if cls == nil {
		b.MarkUnavailable(startpos)
		b.report(UnknownClass, fmt.Errorf("rbuf: reference to unavailable class at offset %d: %w", startpos, ErrUnknownClass))
		b.CheckByteCount(startpos, tag.ByteCount, "")
		return nil
	}

	obj := cls.New()
	if obj == nil {
		b.report(AllocationFailure, fmt.Errorf("rbuf: class %q returned a nil object: %w", cls.Name(), ErrAllocationFailure))
		return nil
	}

	// Map before streaming: a cycle back to obj encountered while
	// streaming its own fields resolves to this entry instead of
	// recursing.
	b.MapObject(obj, startpos)
	cls.Streamer(obj, b)
	b.CheckByteCount(startpos, tag.ByteCount, cls.Name())

	return obj
}

// WriteObject writes obj using cls verbatim, with no declared-vs-actual
// class adjustment. Suitable when the caller already knows obj's exact
// runtime class.
func (b *Buffer) WriteObject(obj any, cls ClassRef) {
	if obj == nil {
		b.PutU32(NullTag)
		return
	}
	if offset, ok := b.FindByIdentity(obj); ok {
		// Biased so a back-reference to offset 0 can never read back as
		// NullTag: unlike class tags, an object back-reference carries no
		// distinguishing mask bit of its own.
		b.PutU32(uint32(offset + MapOffset))
		return
	}

	cntpos := b.Length()
	b.PutU32(0) // reserved byte count, back-patched below
	b.WriteClass(cls)
	b.MapObject(obj, cntpos)
	cls.Streamer(obj, b)
	b.SetByteCount(cntpos, false)
}

// WriteObjectAny writes obj as an instance of declaredClass, first
// deriving the actual (most-derived) class via GetActualClass so the
// bytes recorded reflect the actual class's own layout and streamer.
// Returns 1 on an ordinary write; returns 2 when the actual class could
// not be determined and declaredClass was used verbatim instead
// (truncated fidelity — spec §4.6).
func (b *Buffer) WriteObjectAny(obj any, declaredClass ClassRef) int {
	if obj == nil {
		b.PutU32(NullTag)
		return 1
	}
	if offset, ok := b.FindByIdentity(obj); ok {
		b.PutU32(uint32(offset + MapOffset))
		return 1
	}

	actual := declaredClass
	result := 1
	if declaredClass != nil {
		if a := declaredClass.GetActualClass(obj); a != nil {
			actual = a
		} else {
			result = 2
		}
	}

	cntpos := b.Length()
	b.PutU32(0)
	b.WriteClass(actual)
	b.MapObject(obj, cntpos)
	if actual != nil {
		actual.Streamer(obj, b)
	}
	b.SetByteCount(cntpos, false)

	return result
}
