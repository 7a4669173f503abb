// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"hash/crc32"
	"slices"
)

// headerChecksum calculates the CRC32 of the header bytes with the checksum field zeroed.
func headerChecksum(b []byte) uint32 {
	b = slices.Clone(b)

	b[offHeaderCRC32] = 0
	b[offHeaderCRC32+1] = 0
	b[offHeaderCRC32+2] = 0
	b[offHeaderCRC32+3] = 0

	return crc32.ChecksumIEEE(b)
}
