// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import "errors"

// Decoding errors.
//
// Errors returned by this package wrap one of these values, use errors.Is to match.
var (
	ErrBufferTooShort       = errors.New("buffer too short")
	ErrInvalidBootSignature = errors.New("invalid boot sector signature")
	ErrInvalidGPTSignature  = errors.New("invalid GPT header signature")
	ErrInvalidGUIDLength    = errors.New("invalid GUID length")
	ErrInvalidNameEncoding  = errors.New("invalid partition name encoding")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrInvalidSectorSize    = errors.New("invalid sector size")
)
