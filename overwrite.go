// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"encoding/binary"
	"fmt"
)

// mustHaveOverwritable checks that [offset, offset+n) lies within the
// valid region already written.
func (b *Buffer) mustHaveOverwritable(offset, n int) {
	if offset < 0 || offset+n > b.max {
		panic(fmt.Errorf("rbuf.Buffer: overwrite at offset %d+%d exceeds valid region %d", offset, n, b.max))
	}
}

// OverwriteU32 overwrites a big-endian 32-bit word at offset without
// moving the cursor. This is the primitive behind SetByteCount's
// back-patch of a reserved count word.
func (b *Buffer) OverwriteU32(offset int, v uint32) {
	b.mustHaveOverwritable(offset, 4)
	binary.BigEndian.PutUint32(b.region[offset:offset+4], v)
}

// OverwriteU16 overwrites a big-endian 16-bit word at offset without
// moving the cursor. Used by SetByteCount's packed-version form, which
// back-patches two consecutive shorts.
func (b *Buffer) OverwriteU16(offset int, v uint16) {
	b.mustHaveOverwritable(offset, 2)
	binary.BigEndian.PutUint16(b.region[offset:offset+2], v)
}
