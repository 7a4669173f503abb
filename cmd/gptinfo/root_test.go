// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/gptinfo/internal/render"
	"github.com/siderolabs/gptinfo/partitioning/gpt"
)

// testImage returns a 1MiB image with a single "EFI" partition in slot 1.
func testImage() []byte {
	buf := make([]byte, 1024*1024)

	buf[446+4] = 0xee
	buf[510], buf[511] = 0x55, 0xaa

	hdr := buf[512:]
	copy(hdr, gpt.MagicEFIPart)
	binary.LittleEndian.PutUint32(hdr[12:], gpt.HeaderSize)
	binary.LittleEndian.PutUint64(hdr[24:], 1)
	binary.LittleEndian.PutUint64(hdr[32:], 2047)
	binary.LittleEndian.PutUint64(hdr[40:], 34)
	binary.LittleEndian.PutUint64(hdr[48:], 2014)
	binary.LittleEndian.PutUint64(hdr[72:], 2)
	binary.LittleEndian.PutUint32(hdr[80:], 128)
	binary.LittleEndian.PutUint32(hdr[84:], 128)

	entry := buf[1024:]
	copy(entry[0:], []byte{0x28, 0x73, 0x2a, 0xc1, 0x1f, 0xf8, 0xd2, 0x11, 0xba, 0x4b, 0x00, 0xa0, 0xc9, 0x3e, 0xc9, 0x3b})
	entry[16] = 0x42
	binary.LittleEndian.PutUint64(entry[32:], 34)
	binary.LittleEndian.PutUint64(entry[40:], 2014)
	copy(entry[56:], []byte{'E', 0, 'F', 0, 'I', 0})

	return buf
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func execute(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand(bytes.NewReader(stdin), &stdout, &stderr)

	// cobra falls back to os.Args on nil
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestRootText(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, nil, writeImage(t, testImage()))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Type GUID: \t28732AC1-1FF8-D211-BA4B-00A0C93EC93B\n")
	assert.Contains(t, stdout, "Type: \t\tEFI System\n")
	assert.Contains(t, stdout, "Name: \t\tEFI\n")
	assert.Contains(t, stdout, "Size (MB): \t0\n")
}

func TestRootJSONFromStdin(t *testing.T) {
	t.Parallel()

	var compressed bytes.Buffer

	w, err := zstd.NewWriter(&compressed)
	require.NoError(t, err)

	_, err = w.Write(testImage())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	stdout, _, err := execute(t, compressed.Bytes(), "-o", "json", "--canonical-guids", "-")
	require.NoError(t, err)

	var disk render.Disk

	require.NoError(t, json.Unmarshal([]byte(stdout), &disk))

	require.Len(t, disk.Partitions, 1)
	assert.Equal(t, "C12A7328-F81F-11D2-BA4B-00A0C93EC93B", disk.Partitions[0].TypeGUID)
	assert.Equal(t, "EFI", disk.Partitions[0].Name)
	assert.EqualValues(t, 128, disk.PartitionSlots)
}

func TestRootErrors(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, nil)
	require.Error(t, err)

	_, _, err = execute(t, nil, filepath.Join(t.TempDir(), "missing.img"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, nil, writeImage(t, make([]byte, 4096)))
	require.ErrorIs(t, err, gpt.ErrInvalidBootSignature)

	// checksums in the test image are zero
	_, _, err = execute(t, nil, "--verify-checksums", writeImage(t, testImage()))
	require.ErrorIs(t, err, gpt.ErrChecksumMismatch)

	_, _, err = execute(t, nil, "-o", "xml", writeImage(t, testImage()))
	require.Error(t, err)
}

func TestRootEnvironment(t *testing.T) {
	t.Setenv("GPTINFO_OUTPUT", "yaml")
	t.Setenv("GPTINFO_VERBOSE", "true")

	stdout, stderr, err := execute(t, nil, writeImage(t, testImage()))
	require.NoError(t, err)

	assert.Contains(t, stdout, "type_name: EFI System\n")
	assert.Contains(t, stderr, "decoded GPT header")
}
