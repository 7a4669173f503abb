// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/siderolabs/gptinfo/internal/gptutil"
)

// GUIDSize is the size of the on-disk GUID.
const GUIDSize = 16

// guidGroups is the number of bytes in each of the hyphen-separated groups.
var guidGroups = [...]int{4, 2, 2, 2, 6}

// FormatGUID renders 16 raw bytes as five uppercase hex groups (4-2-2-2-6 bytes).
//
// Bytes are printed in buffer order, the mixed-endian swap of the first three groups
// is not applied, see FormatGUIDMixedEndian for that.
func FormatGUID(b []byte) (string, error) {
	if len(b) != GUIDSize {
		return "", fmt.Errorf("%w: %d", ErrInvalidGUIDLength, len(b))
	}

	var sb strings.Builder

	sb.Grow(2*GUIDSize + len(guidGroups) - 1)

	offset := 0

	for i, n := range guidGroups {
		if i > 0 {
			sb.WriteByte('-')
		}

		sb.WriteString(strings.ToUpper(hex.EncodeToString(b[offset : offset+n])))

		offset += n
	}

	return sb.String(), nil
}

// FormatGUIDMixedEndian renders 16 on-disk GUID bytes in the canonical GPT text form.
//
// The first three groups are stored little-endian on disk and get byte-swapped.
func FormatGUIDMixedEndian(b []byte) (string, error) {
	if len(b) != GUIDSize {
		return "", fmt.Errorf("%w: %d", ErrInvalidGUIDLength, len(b))
	}

	u, err := uuid.FromBytes(gptutil.GUIDToUUID(b))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidGUIDLength, err)
	}

	return strings.ToUpper(u.String()), nil
}
