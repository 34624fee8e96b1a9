// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import "errors"

// Kind identifies the category of a recoverable framing diagnostic
// (spec §7). These are distinct from panics: a panic signals programmer
// misuse of the byte-level API (seek out of range, write past a
// non-owned region), while a Kind is a data-level condition the wire
// framing is specifically designed to survive.
type Kind int

const (
	// CountOverflow: an offset or byte count would exceed MaxCount.
	CountOverflow Kind = iota
	// CorruptTag: a tag references a map slot out of range, or offset 0
	// was seen where a real reference was expected.
	CorruptTag
	// UnknownClass: the class dictionary could not resolve a descriptor;
	// the record is skipped via its byte count.
	UnknownClass
	// WrongClass: a read object is not an instance of the requested
	// cast class.
	WrongClass
	// ByteCountMismatch: a class's stream routine consumed the wrong
	// number of bytes; the cursor is forcibly repositioned.
	ByteCountMismatch
	// AllocationFailure: a class's New returned a nil object.
	AllocationFailure
)

func (k Kind) String() string {
	switch k {
	case CountOverflow:
		return "count-overflow"
	case CorruptTag:
		return "corrupt-tag"
	case UnknownClass:
		return "unknown-class"
	case WrongClass:
		return "wrong-class"
	case ByteCountMismatch:
		return "byte-count-mismatch"
	case AllocationFailure:
		return "allocation-failure"
	default:
		return "unknown"
	}
}

var (
	ErrCountOverflow     = errors.New("rbuf: offset or byte count exceeds MaxCount")
	ErrCorruptTag        = errors.New("rbuf: tag references an invalid map slot")
	ErrUnknownClass      = errors.New("rbuf: class dictionary cannot resolve descriptor")
	ErrWrongClass        = errors.New("rbuf: object is not an instance of the requested class")
	ErrByteCountMismatch = errors.New("rbuf: stream routine consumed the wrong number of bytes")
	ErrAllocationFailure = errors.New("rbuf: class constructor returned a nil object")
)

// Diagnostic is one reported condition, routed to the caller-supplied
// Reporter instead of aborting the read/write in progress.
type Diagnostic struct {
	Kind    Kind
	Message string
	Err     error
}

// Reporter receives diagnostics the core chooses to survive rather than
// fail on. A nil Reporter silently drops diagnostics, matching the
// teacher's no-ambient-logger texture for a pure in-memory structure.
type Reporter func(Diagnostic)
