// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// DecodeName decodes the UTF-16LE partition name field.
//
// Trailing NUL padding is kept as is.
func DecodeName(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd length %d", ErrInvalidNameEncoding, len(b))
	}

	if err := validateUTF16(b); err != nil {
		return "", err
	}

	name, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNameEncoding, err)
	}

	return string(name), nil
}

// validateUTF16 checks that every surrogate code unit is part of a proper pair.
//
// The x/text decoder silently replaces broken pairs with U+FFFD.
func validateUTF16(b []byte) error {
	for i := 0; i < len(b); i += 2 {
		unit := rune(binary.LittleEndian.Uint16(b[i:]))

		if !utf16.IsSurrogate(unit) {
			continue
		}

		// high surrogate followed by a low one
		if unit < 0xdc00 && i+4 <= len(b) {
			next := rune(binary.LittleEndian.Uint16(b[i+2:]))

			if utf16.DecodeRune(unit, next) != 0xfffd {
				i += 2

				continue
			}
		}

		return fmt.Errorf("%w: unpaired surrogate %04x at offset %d", ErrInvalidNameEncoding, unit, i)
	}

	return nil
}
