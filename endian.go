// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import (
	"encoding/binary"
	"unsafe"
)

// hostEndian is the byte order of the running process. The wire format
// itself is always big-endian (encoding/binary.BigEndian's PutUint*/Uint*
// already do the right byte shifting regardless of host order, so the
// primitive codec never branches on this). hostEndian exists only to
// reproduce the legacy wide-integer quirk in codec.go: pre-3.00/06 files
// stored the wide integer in the writer's native width and order, then
// the reader byte-swapped it as a raw block rather than decoding it
// field-by-field. Faithfully reproducing that requires knowing what
// "native order" the legacy path assumed.
var hostEndian = detectHostEndian()

func detectHostEndian() binary.ByteOrder {
	var probe uint16 = 0x0102
	b := *(*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
