// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

// ClassRef is the external class-descriptor contract (spec §6). The core
// never constructs or inspects one beyond these operations: everything
// about how a class stores its own payload or streams an instance's
// fields is delegated to the registry's implementation.
type ClassRef interface {
	// Name is the identifier written after NewClassTag and used to
	// resolve a descriptor via Registry.ClassByName.
	Name() string

	// New constructs a zero-value instance of this class, or nil if
	// construction failed (reported as AllocationFailure).
	New() any

	// Version is this class's current streaming version, written into
	// the packed version prefix.
	Version() int16

	// BaseClassOffset returns the byte offset of other within this
	// class's layout, or -1 if other is not a base of this class.
	BaseClassOffset(other ClassRef) int

	// InheritsFrom reports whether this class derives from other.
	InheritsFrom(other ClassRef) bool

	// GetActualClass returns the most-derived class of obj, or nil if
	// it cannot be determined (WriteObjectAny then falls back to the
	// declared class, reporting truncated fidelity).
	GetActualClass(obj any) ClassRef

	// Store writes this class descriptor's own payload (typically just
	// its name) immediately following a NewClassTag.
	Store(b *Buffer)

	// Streamer reads or writes obj's own fields, dispatching on
	// b.IsReading()/b.IsWriting().
	Streamer(obj any, b *Buffer)
}

// Registry resolves class identifiers to descriptors (spec §6). The core
// consults it only inside ReadClass, after reading a NEW_CLASS_TAG payload
// or decoding a stored class name.
type Registry interface {
	// ClassByName resolves name to a descriptor, or nil if the class is
	// not known to this registry (the record is then skipped via its
	// byte count rather than treated as fatal).
	ClassByName(name string) ClassRef
}

// Load reads a stored class-descriptor payload (as written by Store) and
// resolves it through reg, or returns nil if the registry does not know
// the class. The default Load implementation assumes Store wrote a single
// NUL-terminated name, matching SimpleRegistry and this port's Store.
func Load(b *Buffer, reg Registry) ClassRef {
	name := b.TakeString(-1)
	if reg == nil {
		return nil
	}
	return reg.ClassByName(name)
}

// SimpleRegistry is a minimal in-memory Registry keyed by class name,
// suitable for tests and as a reference implementation for callers that
// have no richer class-table of their own.
type SimpleRegistry struct {
	classes map[string]ClassRef
}

// NewSimpleRegistry creates an empty registry.
func NewSimpleRegistry() *SimpleRegistry {
	return &SimpleRegistry{classes: make(map[string]ClassRef)}
}

// Register adds or replaces the descriptor for cls.Name().
func (r *SimpleRegistry) Register(cls ClassRef) {
	r.classes[cls.Name()] = cls
}

// ClassByName implements Registry.
func (r *SimpleRegistry) ClassByName(name string) ClassRef {
	return r.classes[name]
}
