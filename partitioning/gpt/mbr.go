// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"fmt"

	"github.com/siderolabs/gptinfo/internal/magic"
)

// Protective MBR layout.
const (
	MBRSize = 512

	mbrSignatureOffset = 510
	mbrEntriesOffset   = 446
	mbrEntrySize       = 16
	mbrNumEntries      = 4

	protectiveType = 0xee
)

var bootSignature = magic.Magic{Value: []byte{0x55, 0xaa}, Offset: mbrSignatureOffset}

// VerifyProtectiveMBR checks that the buffer starts with a boot sector carrying the 0x55AA signature.
func VerifyProtectiveMBR(buf []byte) error {
	if len(buf) < MBRSize {
		return fmt.Errorf("boot sector: %w: %d bytes", ErrBufferTooShort, len(buf))
	}

	if !bootSignature.Matches(buf) {
		return fmt.Errorf("%w: %02x%02x", ErrInvalidBootSignature, buf[mbrSignatureOffset], buf[mbrSignatureOffset+1])
	}

	return nil
}

// HasProtectivePartition reports whether any MBR partition entry has the GPT protective type (0xEE).
func HasProtectivePartition(buf []byte) bool {
	if len(buf) < MBRSize {
		return false
	}

	for i := range mbrNumEntries {
		entry := buf[mbrEntriesOffset+i*mbrEntrySize : mbrEntriesOffset+(i+1)*mbrEntrySize]

		if entry[4] == protectiveType {
			return true
		}
	}

	return false
}
