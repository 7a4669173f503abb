// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math/bits"
	"strings"

	"github.com/google/uuid"
	"github.com/siderolabs/gen/xslices"
	"go.uber.org/zap"

	"github.com/siderolabs/gptinfo/internal/gptutil"
)

// MinEntrySize is the smallest partition entry size allowed by the format.
const MinEntrySize = 128

// Partition entry field offsets.
const (
	offTypeGUID   = 0x00
	offUniqueGUID = 0x10
	offFirstLBA   = 0x20
	offLastLBA    = 0x28
	offAttributes = 0x30
	offName       = 0x38
)

// Partition is a single used partition entry in GPT.
//
//nolint:govet
type Partition struct {
	// Index is the 1-based slot number in the partition array.
	Index int

	TypeGUID   [16]byte
	UniqueGUID [16]byte

	FirstLBA uint64
	LastLBA  uint64

	Attributes uint64

	// Name is the decoded name field, including any trailing NUL padding.
	Name string
}

// Length returns the partition's length in LBA.
func (p *Partition) Length() uint64 {
	if p.LastLBA < p.FirstLBA {
		return 0
	}

	// in GPT, LastLBA is inclusive, so +1
	return p.LastLBA - p.FirstLBA + 1
}

// TrimmedName returns the name without trailing NUL padding.
func (p *Partition) TrimmedName() string {
	return strings.TrimRight(p.Name, "\x00")
}

// TypeUUID returns the partition type GUID converted from the on-disk mixed-endian form.
func (p *Partition) TypeUUID() uuid.UUID {
	u, _ := uuid.FromBytes(gptutil.GUIDToUUID(p.TypeGUID[:])) //nolint:errcheck

	return u
}

// UniqueUUID returns the unique partition GUID converted from the on-disk mixed-endian form.
func (p *Partition) UniqueUUID() uuid.UUID {
	u, _ := uuid.FromBytes(gptutil.GUIDToUUID(p.UniqueGUID[:])) //nolint:errcheck

	return u
}

// TypeName returns a human-readable name for well-known partition types.
func (p *Partition) TypeName() string {
	return TypeName(p.TypeUUID())
}

type slot struct {
	index int
	data  []byte
}

var zeroGUID = make([]byte, GUIDSize)

func (s slot) used() bool {
	return !bytes.Equal(s.data[offTypeGUID:offTypeGUID+GUIDSize], zeroGUID)
}

// DecodePartitions decodes the partition array described by the header.
//
// Unused slots (zero type GUID) are skipped, the order of the array is preserved.
func DecodePartitions(buf []byte, hdr *Header, opts ...Option) ([]Partition, error) {
	options, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	return decodePartitions(buf, hdr, options)
}

//nolint:gocyclo
func decodePartitions(buf []byte, hdr *Header, options Options) ([]Partition, error) {
	if hdr.PartitionCount == 0 {
		return []Partition{}, nil
	}

	if hdr.PartitionEntrySize < MinEntrySize {
		return nil, fmt.Errorf("partition entry size %d is smaller than %d: %w", hdr.PartitionEntrySize, MinEntrySize, ErrBufferTooShort)
	}

	start, ok := gptutil.LBAToOffset(hdr.PartitionArrayLBA, options.SectorSize)
	if !ok {
		return nil, fmt.Errorf("partition array LBA %d overflows: %w", hdr.PartitionArrayLBA, ErrBufferTooShort)
	}

	// both factors are 32-bit, so the product fits
	length := uint64(hdr.PartitionCount) * uint64(hdr.PartitionEntrySize)

	end, carry := bits.Add64(start, length, 0)
	if carry != 0 {
		return nil, fmt.Errorf("partition array end overflows: %w", ErrBufferTooShort)
	}

	if end > uint64(len(buf)) {
		return nil, fmt.Errorf("partition array [%d:%d] exceeds image of %d bytes: %w", start, end, len(buf), ErrBufferTooShort)
	}

	array := buf[start:end]

	if options.VerifyChecksums {
		if checksum := crc32.ChecksumIEEE(array); checksum != hdr.PartitionArrayCRC32 {
			return nil, fmt.Errorf("partition array: %w: expected %08x, got %08x", ErrChecksumMismatch, hdr.PartitionArrayCRC32, checksum)
		}
	}

	entrySize := int(hdr.PartitionEntrySize)
	slots := make([]slot, hdr.PartitionCount)

	for i := range slots {
		slots[i] = slot{
			index: i + 1,
			data:  array[i*entrySize : (i+1)*entrySize],
		}
	}

	slots = xslices.FilterInPlace(slots, slot.used)

	options.Logger.Debug("scanned partition array",
		zap.Uint32("slots", hdr.PartitionCount),
		zap.Int("used", len(slots)),
	)

	partitions := make([]Partition, 0, len(slots))

	for _, s := range slots {
		part, err := decodeEntry(s)
		if err != nil {
			return nil, err
		}

		if part.LastLBA < part.FirstLBA || part.FirstLBA < hdr.FirstUsableLBA || part.LastLBA > hdr.LastUsableLBA {
			options.Logger.Warn("partition is outside of the usable range",
				zap.Int("index", part.Index),
				zap.Uint64("first_lba", part.FirstLBA),
				zap.Uint64("last_lba", part.LastLBA),
			)
		}

		partitions = append(partitions, part)
	}

	return partitions, nil
}

func decodeEntry(s slot) (Partition, error) {
	b := s.data

	name, err := DecodeName(b[offName:])
	if err != nil {
		return Partition{}, fmt.Errorf("partition %d: %w", s.index, err)
	}

	part := Partition{
		Index: s.index,

		FirstLBA:   binary.LittleEndian.Uint64(b[offFirstLBA:]),
		LastLBA:    binary.LittleEndian.Uint64(b[offLastLBA:]),
		Attributes: binary.LittleEndian.Uint64(b[offAttributes:]),

		Name: name,
	}

	copy(part.TypeGUID[:], b[offTypeGUID:])
	copy(part.UniqueGUID[:], b[offUniqueGUID:])

	return part, nil
}
