// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siderolabs/gptinfo/internal/gptutil"
	"github.com/siderolabs/gptinfo/internal/magic"
)

// MagicEFIPart is the GPT header signature.
const MagicEFIPart = "EFI PART"

// HeaderSize is the size of the defined part of the GPT header.
const HeaderSize = 92

// minHeaderRegion is the part of the header sector which must be present to read the header size.
const minHeaderRegion = 0x10

// Header field offsets, relative to the start of the header sector.
const (
	offSignature        = 0x00
	offRevision         = 0x08
	offHeaderSize       = 0x0c
	offHeaderCRC32      = 0x10
	offCurrentLBA       = 0x18
	offBackupLBA        = 0x20
	offFirstUsableLBA   = 0x28
	offLastUsableLBA    = 0x30
	offDiskGUID         = 0x38
	offPartitionLBA     = 0x48
	offPartitionCount   = 0x50
	offPartitionEntSize = 0x54
	offPartitionCRC32   = 0x58
)

// Header represents the GPT header.
//
//nolint:govet
type Header struct {
	Signature [8]byte
	Revision  [4]byte

	HeaderSize  uint32
	HeaderCRC32 uint32

	CurrentLBA     uint64
	BackupLBA      uint64
	FirstUsableLBA uint64
	LastUsableLBA  uint64

	DiskGUID [16]byte

	PartitionArrayLBA   uint64
	PartitionCount      uint32
	PartitionEntrySize  uint32
	PartitionArrayCRC32 uint32
}

// DiskUUID returns the disk GUID converted from the on-disk mixed-endian form.
func (h *Header) DiskUUID() uuid.UUID {
	u, _ := uuid.FromBytes(gptutil.GUIDToUUID(h.DiskGUID[:])) //nolint:errcheck

	return u
}

// DecodeHeader decodes the primary GPT header located right after the boot sector.
func DecodeHeader(buf []byte, opts ...Option) (*Header, error) {
	options, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	return decodeHeader(buf, options)
}

func decodeHeader(buf []byte, options Options) (*Header, error) {
	start := uint64(options.SectorSize)

	if uint64(len(buf)) < start+minHeaderRegion {
		return nil, fmt.Errorf("GPT header: %w: %d bytes", ErrBufferTooShort, len(buf))
	}

	signature := magic.Magic{Value: []byte(MagicEFIPart), Offset: int(start)}

	if !signature.Matches(buf) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGPTSignature, buf[start:start+8])
	}

	size := binary.LittleEndian.Uint32(buf[start+offHeaderSize:])

	if size < HeaderSize {
		return nil, fmt.Errorf("GPT header size %d is smaller than %d: %w", size, HeaderSize, ErrBufferTooShort)
	}

	if uint64(size) > uint64(len(buf))-start {
		return nil, fmt.Errorf("GPT header size %d exceeds image: %w", size, ErrBufferTooShort)
	}

	b := buf[start : start+uint64(size)]

	hdr := &Header{
		HeaderSize:  size,
		HeaderCRC32: binary.LittleEndian.Uint32(b[offHeaderCRC32:]),

		CurrentLBA:     binary.LittleEndian.Uint64(b[offCurrentLBA:]),
		BackupLBA:      binary.LittleEndian.Uint64(b[offBackupLBA:]),
		FirstUsableLBA: binary.LittleEndian.Uint64(b[offFirstUsableLBA:]),
		LastUsableLBA:  binary.LittleEndian.Uint64(b[offLastUsableLBA:]),

		PartitionArrayLBA:   binary.LittleEndian.Uint64(b[offPartitionLBA:]),
		PartitionCount:      binary.LittleEndian.Uint32(b[offPartitionCount:]),
		PartitionEntrySize:  binary.LittleEndian.Uint32(b[offPartitionEntSize:]),
		PartitionArrayCRC32: binary.LittleEndian.Uint32(b[offPartitionCRC32:]),
	}

	copy(hdr.Signature[:], b[offSignature:])
	copy(hdr.Revision[:], b[offRevision:])
	copy(hdr.DiskGUID[:], b[offDiskGUID:])

	if options.VerifyChecksums {
		if checksum := headerChecksum(b); checksum != hdr.HeaderCRC32 {
			return nil, fmt.Errorf("GPT header: %w: expected %08x, got %08x", ErrChecksumMismatch, hdr.HeaderCRC32, checksum)
		}
	}

	options.Logger.Debug("decoded GPT header",
		zap.Uint32("header_size", hdr.HeaderSize),
		zap.Uint64("current_lba", hdr.CurrentLBA),
		zap.Uint64("backup_lba", hdr.BackupLBA),
		zap.Uint64("partition_array_lba", hdr.PartitionArrayLBA),
		zap.Uint32("partition_count", hdr.PartitionCount),
		zap.Uint32("partition_entry_size", hdr.PartitionEntrySize),
	)

	if lastLBA, ok := gptutil.LastLBA(uint64(len(buf)), options.SectorSize); ok && hdr.LastUsableLBA > lastLBA {
		options.Logger.Warn("last usable LBA is beyond the end of the image",
			zap.Uint64("last_usable_lba", hdr.LastUsableLBA),
			zap.Uint64("image_last_lba", lastLBA),
		)
	}

	return hdr, nil
}
