// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package image loads raw disk images into memory.
//
// Images compressed with zstd or gzip are decompressed transparently.
package image

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/siderolabs/gptinfo/internal/magic"
)

// Compression of the image.
type Compression int

// Supported compression formats.
const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionGzip
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionGzip:
		return "gzip"
	case CompressionNone:
		fallthrough
	default:
		return "none"
	}
}

var (
	zstdMagic = magic.Magic{Value: []byte{0x28, 0xb5, 0x2f, 0xfd}}
	gzipMagic = magic.Magic{Value: []byte{0x1f, 0x8b}}
)

const magicSize = 4

// Detect returns the compression format based on the leading bytes.
func Detect(header []byte) Compression {
	switch {
	case zstdMagic.Matches(header):
		return CompressionZstd
	case gzipMagic.Matches(header):
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// Load reads the whole image at path.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close() //nolint:errcheck

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// block devices and pipes do not report their size
	if !st.Mode().IsRegular() {
		return Read(f)
	}

	header := make([]byte, min(magicSize, st.Size()))

	if err = readFullAt(f, header, 0); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	if compression := Detect(header); compression != CompressionNone {
		return decompress(io.NewSectionReader(f, 0, st.Size()), compression)
	}

	buf := make([]byte, st.Size())

	if err = readFullAt(f, buf, 0); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return buf, nil
}

// IsDevice reports whether path refers to a block or character device.
func IsDevice(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return false
	}

	return st.Mode()&os.ModeDevice != 0
}

// Read reads the whole image from r.
func Read(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(magicSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	if compression := Detect(header); compression != CompressionNone {
		return decompress(br, compression)
	}

	return io.ReadAll(br)
}

func decompress(r io.Reader, compression Compression) ([]byte, error) {
	var (
		dr  io.Reader
		err error
	)

	switch compression {
	case CompressionZstd:
		var zr *zstd.Decoder

		zr, err = zstd.NewReader(r)
		if err == nil {
			defer zr.Close()

			dr = zr
		}
	case CompressionGzip:
		var gr *gzip.Reader

		gr, err = gzip.NewReader(r)
		if err == nil {
			defer gr.Close() //nolint:errcheck

			dr = gr
		}
	case CompressionNone:
		dr = r
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s decompression: %w", compression, err)
	}

	buf, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s image: %w", compression, err)
	}

	return buf, nil
}

// readFullAt is io.ReadFull for io.ReaderAt.
func readFullAt(r io.ReaderAt, buf []byte, offset int64) error {
	for n := 0; n < len(buf); {
		m, err := r.ReadAt(buf[n:], offset)

		n += m
		offset += int64(m)

		if err != nil {
			if err == io.EOF && n == len(buf) {
				return nil
			}

			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}

			return err
		}
	}

	return nil
}
