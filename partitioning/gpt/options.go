// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package gpt

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultSectorSize is the logical sector size assumed unless overridden.
const DefaultSectorSize = 512

// Options is a set of options for decoding a partition table.
type Options struct {
	// Logger to use for logging.
	Logger *zap.Logger

	// SectorSize is the logical block size used to convert LBAs to byte offsets.
	SectorSize uint

	// VerifyChecksums enables CRC32 validation of the header and the partition array.
	VerifyChecksums bool
}

// Option is a function that sets some option.
type Option func(*Options)

// WithLogger sets the logger for decoding.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSectorSize overrides the logical sector size.
func WithSectorSize(size uint) Option {
	return func(o *Options) {
		o.SectorSize = size
	}
}

// WithVerifyChecksums is an option to validate header and partition array CRC32.
func WithVerifyChecksums() Option {
	return func(o *Options) {
		o.VerifyChecksums = true
	}
}

func applyOptions(opts ...Option) (Options, error) {
	o := Options{
		Logger:     zap.NewNop(),
		SectorSize: DefaultSectorSize,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	// sector size should be a power of two and fit at least the boot sector
	if o.SectorSize < DefaultSectorSize || o.SectorSize&(o.SectorSize-1) != 0 {
		return o, fmt.Errorf("%w: %d", ErrInvalidSectorSize, o.SectorSize)
	}

	return o, nil
}
