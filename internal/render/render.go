// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package render prints decoded GPT partition tables.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/bits"
	"strings"

	"github.com/siderolabs/go-pointer"
	"gopkg.in/yaml.v3"

	"github.com/siderolabs/gptinfo/partitioning"
	"github.com/siderolabs/gptinfo/partitioning/gpt"
)

// Format is the output format.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses the output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// Options control the rendering.
type Options struct {
	Format Format

	// CanonicalGUIDs renders GUIDs with the first three groups byte-swapped.
	CanonicalGUIDs bool

	// TrimNames strips trailing NUL padding from partition names.
	TrimNames bool

	// Device is the path of the disk device, if set partition device names are included.
	Device string
}

// Disk is the rendered representation of the table.
type Disk struct {
	DiskGUID   string `json:"disk_guid" yaml:"disk_guid"`
	SectorSize uint   `json:"sector_size" yaml:"sector_size"`

	CurrentLBA     uint64 `json:"current_lba" yaml:"current_lba"`
	BackupLBA      uint64 `json:"backup_lba" yaml:"backup_lba"`
	FirstUsableLBA uint64 `json:"first_usable_lba" yaml:"first_usable_lba"`
	LastUsableLBA  uint64 `json:"last_usable_lba" yaml:"last_usable_lba"`

	PartitionSlots uint32 `json:"partition_slots" yaml:"partition_slots"`

	Partitions []Partition `json:"partitions" yaml:"partitions"`
}

// Partition is the rendered representation of a partition entry.
type Partition struct { //nolint:govet
	Index  int     `json:"index" yaml:"index"`
	Device *string `json:"device,omitempty" yaml:"device,omitempty"`

	TypeGUID string  `json:"type_guid" yaml:"type_guid"`
	TypeName *string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	GUID     string  `json:"guid" yaml:"guid"`
	Name     string  `json:"name" yaml:"name"`

	FirstLBA uint64 `json:"first_lba" yaml:"first_lba"`
	LastLBA  uint64 `json:"last_lba" yaml:"last_lba"`
	SizeMB   uint64 `json:"size_mb" yaml:"size_mb"`

	Attributes uint64 `json:"attributes" yaml:"attributes"`
}

// SizeMB computes (last - first) * sectorSize / 1024 / 1024 in integer arithmetic.
//
// The result saturates at math.MaxUint64 and is zero for inverted ranges.
func SizeMB(firstLBA, lastLBA uint64, sectorSize uint) uint64 {
	if lastLBA < firstLBA {
		return 0
	}

	hi, lo := bits.Mul64(lastLBA-firstLBA, uint64(sectorSize))

	const mb = 1024 * 1024

	if hi >= mb {
		return math.MaxUint64
	}

	quo, _ := bits.Div64(hi, lo, mb)

	return quo
}

// Build converts the table into the rendered representation.
func Build(table *gpt.Table, opts Options) (Disk, error) {
	format := gpt.FormatGUID
	if opts.CanonicalGUIDs {
		format = gpt.FormatGUIDMixedEndian
	}

	diskGUID, err := format(table.Header.DiskGUID[:])
	if err != nil {
		return Disk{}, err
	}

	disk := Disk{
		DiskGUID:   diskGUID,
		SectorSize: table.SectorSize,

		CurrentLBA:     table.Header.CurrentLBA,
		BackupLBA:      table.Header.BackupLBA,
		FirstUsableLBA: table.Header.FirstUsableLBA,
		LastUsableLBA:  table.Header.LastUsableLBA,

		PartitionSlots: table.Header.PartitionCount,

		Partitions: make([]Partition, 0, len(table.Partitions)),
	}

	for _, part := range table.Partitions {
		typeGUID, err := format(part.TypeGUID[:])
		if err != nil {
			return Disk{}, err
		}

		guid, err := format(part.UniqueGUID[:])
		if err != nil {
			return Disk{}, err
		}

		rendered := Partition{
			Index:      part.Index,
			TypeGUID:   typeGUID,
			GUID:       guid,
			Name:       part.Name,
			FirstLBA:   part.FirstLBA,
			LastLBA:    part.LastLBA,
			SizeMB:     SizeMB(part.FirstLBA, part.LastLBA, table.SectorSize),
			Attributes: part.Attributes,
		}

		if opts.TrimNames {
			rendered.Name = part.TrimmedName()
		}

		if opts.Device != "" {
			rendered.Device = pointer.To(partitioning.DevName(opts.Device, part.Index))
		}

		if name := part.TypeName(); name != "" {
			rendered.TypeName = pointer.To(name)
		}

		disk.Partitions = append(disk.Partitions, rendered)
	}

	return disk, nil
}

// Render writes the table to w.
func Render(w io.Writer, table *gpt.Table, opts Options) error {
	disk, err := Build(table, opts)
	if err != nil {
		return err
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(disk)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err = enc.Encode(disk); err != nil {
			return err
		}

		return enc.Close()
	case FormatText, "":
		return renderText(w, disk)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

const separator = "========================================"

func renderText(w io.Writer, disk Disk) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Disk GUID: \t%s\n", disk.DiskGUID)
	fmt.Fprintf(&sb, "Usable LBA: \t%d-%d\n", disk.FirstUsableLBA, disk.LastUsableLBA)
	fmt.Fprintf(&sb, "Partitions: \t%d\n\n", len(disk.Partitions))

	for _, part := range disk.Partitions {
		if part.Device != nil {
			fmt.Fprintf(&sb, "Device: \t%s\n", *part.Device)
		}

		fmt.Fprintf(&sb, "Type GUID: \t%s\n", part.TypeGUID)

		if part.TypeName != nil {
			fmt.Fprintf(&sb, "Type: \t\t%s\n", *part.TypeName)
		}

		fmt.Fprintf(&sb, "GUID: \t\t%s\n", part.GUID)
		fmt.Fprintf(&sb, "Name: \t\t%s\n", part.Name)
		fmt.Fprintf(&sb, "Start LBA: \t%d\n", part.FirstLBA)
		fmt.Fprintf(&sb, "End LBA: \t%d\n", part.LastLBA)
		fmt.Fprintf(&sb, "Size (MB): \t%d\n", part.SizeMB)
		fmt.Fprintf(&sb, "Attributes: \t%d\n", part.Attributes)
		sb.WriteString(separator + "\n")
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
