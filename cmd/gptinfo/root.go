// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/siderolabs/gptinfo/internal/image"
	"github.com/siderolabs/gptinfo/internal/render"
	"github.com/siderolabs/gptinfo/partitioning/gpt"
)

const envPrefix = "GPTINFO"

// Flag names, also available as GPTINFO_* environment variables.
const (
	flagSectorSize      = "sector-size"
	flagOutput          = "output"
	flagVerifyChecksums = "verify-checksums"
	flagCanonicalGUIDs  = "canonical-guids"
	flagTrimNames       = "trim-names"
	flagVerbose         = "verbose"
)

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gptinfo <image>",
		Short: "Print the GPT partition table of a raw disk image",
		Long: `gptinfo reads a raw disk image (optionally zstd or gzip compressed),
validates the protective MBR and the primary GPT header and prints
the used partition entries.

Use "-" as the image path to read from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, args[0], stdin, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.Uint(flagSectorSize, gpt.DefaultSectorSize, "logical sector size of the image")
	flags.StringP(flagOutput, "o", string(render.FormatText), "output format (text, json, yaml)")
	flags.Bool(flagVerifyChecksums, false, "verify header and partition array CRC32")
	flags.Bool(flagCanonicalGUIDs, false, "print GUIDs in the canonical mixed-endian form")
	flags.Bool(flagTrimNames, true, "strip trailing NUL padding from partition names")
	flags.BoolP(flagVerbose, "v", false, "enable debug logging")

	cobra.CheckErr(v.BindPFlags(flags))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	return zap.New(core)
}

func run(v *viper.Viper, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	format, err := render.ParseFormat(v.GetString(flagOutput))
	if err != nil {
		return err
	}

	logger := newLogger(stderr, v.GetBool(flagVerbose))
	defer logger.Sync() //nolint:errcheck

	var buf []byte

	if path == "-" {
		buf, err = image.Read(stdin)
	} else {
		buf, err = image.Load(path)
	}

	if err != nil {
		return fmt.Errorf("failed to load image %q: %w", path, err)
	}

	logger.Debug("loaded image", zap.String("path", path), zap.Int("size", len(buf)))

	opts := []gpt.Option{
		gpt.WithLogger(logger),
		gpt.WithSectorSize(v.GetUint(flagSectorSize)),
	}

	if v.GetBool(flagVerifyChecksums) {
		opts = append(opts, gpt.WithVerifyChecksums())
	}

	table, err := gpt.Decode(buf, opts...)
	if err != nil {
		return fmt.Errorf("failed to decode partition table of %q: %w", path, err)
	}

	renderOpts := render.Options{
		Format:         format,
		CanonicalGUIDs: v.GetBool(flagCanonicalGUIDs),
		TrimNames:      v.GetBool(flagTrimNames),
	}

	if path != "-" && image.IsDevice(path) {
		renderOpts.Device = path
	}

	return render.Render(stdout, table, renderOpts)
}
