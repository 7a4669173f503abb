// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package magic implements matching of fixed-offset signatures in byte buffers.
package magic

import "bytes"

// Magic defines a signature located at a fixed offset.
type Magic struct {
	// Value to search for.
	Value []byte

	// Offset in the buffer where the magic value is located.
	Offset int
}

// Matches returns true if the magic value is found at the specified offset in the buffer.
func (magic *Magic) Matches(buf []byte) bool {
	if magic.Offset < 0 || len(buf) < magic.Offset+len(magic.Value) {
		return false
	}

	return bytes.Equal(buf[magic.Offset:magic.Offset+len(magic.Value)], magic.Value)
}

// Size returns the size of the buffer required to check the magic value.
func (magic *Magic) Size() int {
	return magic.Offset + len(magic.Value)
}
