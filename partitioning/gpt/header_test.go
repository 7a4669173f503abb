// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/gptinfo/partitioning/gpt"
)

func TestDecodeHeader(t *testing.T) {
	t.Parallel()

	buf := buildImage(t, imageOptions{numEntries: 128})

	hdr, err := gpt.DecodeHeader(buf)
	require.NoError(t, err)

	assert.Equal(t, gpt.MagicEFIPart, string(hdr.Signature[:]))
	assert.EqualValues(t, 92, hdr.HeaderSize)
	assert.EqualValues(t, 1, hdr.CurrentLBA)
	assert.EqualValues(t, len(buf)/512-1, hdr.BackupLBA)
	assert.EqualValues(t, 34, hdr.FirstUsableLBA)
	assert.EqualValues(t, len(buf)/512-2, hdr.LastUsableLBA)
	assert.EqualValues(t, 2, hdr.PartitionArrayLBA)
	assert.EqualValues(t, 128, hdr.PartitionCount)
	assert.EqualValues(t, 128, hdr.PartitionEntrySize)
	assert.Equal(t, binary.LittleEndian.Uint32(buf[512+16:]), hdr.HeaderCRC32)
	assert.Equal(t, binary.LittleEndian.Uint32(buf[512+88:]), hdr.PartitionArrayCRC32)
	assert.Equal(t, diskGUID, hdr.DiskUUID())

	_, err = gpt.DecodeHeader(buf, gpt.WithVerifyChecksums())
	require.NoError(t, err)
}

func TestDecodeHeaderErrors(t *testing.T) {
	t.Parallel()

	for _, test := range []struct { //nolint:govet
		name string

		mutate func([]byte) []byte

		expected error
	}{
		{
			name:     "below minimum",
			mutate:   func(b []byte) []byte { return b[:0x20f] },
			expected: gpt.ErrBufferTooShort,
		},
		{
			name: "signature",
			mutate: func(b []byte) []byte {
				b[512] = 'e'

				return b
			},
			expected: gpt.ErrInvalidGPTSignature,
		},
		{
			name: "minimum region with valid signature",
			mutate: func(b []byte) []byte {
				return b[:0x210]
			},
			expected: gpt.ErrBufferTooShort,
		},
		{
			name: "header size too small",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[512+12:], 88)

				return b
			},
			expected: gpt.ErrBufferTooShort,
		},
		{
			name: "header size past the end",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[512+12:], 0xffffffff)

				return b
			},
			expected: gpt.ErrBufferTooShort,
		},
		{
			name: "truncated header",
			mutate: func(b []byte) []byte {
				return b[:512+60]
			},
			expected: gpt.ErrBufferTooShort,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			hdr, err := gpt.DecodeHeader(test.mutate(buildImage(t, imageOptions{numEntries: 128})))
			require.ErrorIs(t, err, test.expected)
			assert.Nil(t, hdr)
		})
	}
}

func TestDecodeHeaderLargerSize(t *testing.T) {
	t.Parallel()

	buf := buildImage(t, imageOptions{numEntries: 128})

	// header may declare extra (reserved) space, up to the sector size
	binary.LittleEndian.PutUint32(buf[512+12:], 512)

	hdr, err := gpt.DecodeHeader(buf)
	require.NoError(t, err)

	assert.EqualValues(t, 512, hdr.HeaderSize)
	assert.EqualValues(t, 128, hdr.PartitionCount)
}
