// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rbuf

import "fmt"

// mustHavePeekable checks that [offset, offset+n) lies within the valid
// region, panicking otherwise. offset is absolute, not cursor-relative.
func (b *Buffer) mustHavePeekable(offset, n int) {
	if offset < 0 || offset+n > b.max {
		panic(fmt.Errorf("rbuf.Buffer: peek at offset %d+%d exceeds valid region %d", offset, n, b.max))
	}
}
