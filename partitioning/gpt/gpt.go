// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package gpt implements decoding of GPT partition tables from raw disk images.
//
// All functions operate on an in-memory copy of the image and never modify it.
// Malformed input is reported as an error wrapping one of the package errors.
package gpt

import (
	"go.uber.org/zap"
)

// Table is a decoded GPT partition table.
type Table struct {
	Header Header

	// Partitions are the used entries, in the partition array order.
	Partitions []Partition

	// SectorSize which was used to locate the header and the partition array.
	SectorSize uint
}

// Decode validates the boot sector, decodes the GPT header and the partition array.
func Decode(buf []byte, opts ...Option) (*Table, error) {
	options, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	if err = VerifyProtectiveMBR(buf); err != nil {
		return nil, err
	}

	if !HasProtectivePartition(buf) {
		options.Logger.Warn("boot sector has no protective GPT partition entry")
	}

	hdr, err := decodeHeader(buf, options)
	if err != nil {
		return nil, err
	}

	partitions, err := decodePartitions(buf, hdr, options)
	if err != nil {
		return nil, err
	}

	options.Logger.Debug("decoded GPT partition table", zap.Int("partitions", len(partitions)))

	return &Table{
		Header:     *hdr,
		Partitions: partitions,
		SectorSize: options.SectorSize,
	}, nil
}
