// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package gptutil implements helper functions for GPT tables.
package gptutil

import "math/bits"

// LastLBA returns the last logical block address of an image of the given size.
func LastLBA(size uint64, sectorSize uint) (uint64, bool) {
	if sectorSize == 0 || uint64(sectorSize) > size {
		return 0, false
	}

	return (size / uint64(sectorSize)) - 1, true
}

// LBAToOffset converts an LBA to a byte offset, reporting false on overflow.
func LBAToOffset(lba uint64, sectorSize uint) (uint64, bool) {
	hi, lo := bits.Mul64(lba, uint64(sectorSize))

	return lo, hi == 0
}

// GUIDToUUID converts a GPT GUID to a UUID.
//
// The first three groups of a GPT GUID are stored little-endian.
func GUIDToUUID(g []byte) []byte {
	return append(
		[]byte{
			g[3], g[2], g[1], g[0],
			g[5], g[4],
			g[7], g[6],
			g[8], g[9],
		},
		g[10:16]...,
	)
}

// UUIDToGUID converts a UUID to a GPT GUID.
func UUIDToGUID(u []byte) []byte {
	return GUIDToUUID(u)
}
