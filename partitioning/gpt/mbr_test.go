// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/gptinfo/partitioning/gpt"
)

func TestVerifyProtectiveMBR(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 510, 511} {
		assert.ErrorIs(t, gpt.VerifyProtectiveMBR(make([]byte, size)), gpt.ErrBufferTooShort, "size %d", size)
	}

	for _, signature := range [][2]byte{{0x00, 0x00}, {0xaa, 0x55}, {0x55, 0x00}, {0x00, 0xaa}, {0xff, 0xff}} {
		buf := make([]byte, gpt.MBRSize)
		buf[510], buf[511] = signature[0], signature[1]

		assert.ErrorIs(t, gpt.VerifyProtectiveMBR(buf), gpt.ErrInvalidBootSignature, "signature %x", signature)
	}

	buf := make([]byte, gpt.MBRSize)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	buf[510], buf[511] = 0x55, 0xaa

	assert.NoError(t, gpt.VerifyProtectiveMBR(buf))

	// buffer is not modified
	assert.Equal(t, []byte{0x55, 0xaa}, buf[510:])
}

func TestHasProtectivePartition(t *testing.T) {
	t.Parallel()

	buf := make([]byte, gpt.MBRSize)
	buf[510], buf[511] = 0x55, 0xaa

	assert.False(t, gpt.HasProtectivePartition(buf))
	assert.False(t, gpt.HasProtectivePartition(buf[:100]))

	// fourth entry
	buf[446+3*16+4] = 0xee

	assert.True(t, gpt.HasProtectivePartition(buf))
}
