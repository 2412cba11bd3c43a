// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// namedbloom reads archive names from stdin, one per line, and writes a
// 16-bit bloom filter for every member of every archive to stdout.
//
//	find /data -name '*.zip' | namedbloom --key user_id > filters.bin
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bpowers/namedbloom"
	"github.com/bpowers/namedbloom/internal/archive"
	"github.com/bpowers/namedbloom/internal/config"
	"github.com/bpowers/namedbloom/internal/fieldhash"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("namedbloom", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "path to a TOML config file")
	verbose := fs.BoolP("verbose", "v", false, "log per-archive progress to stderr")
	flags := config.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return fmt.Errorf("%w: %w", namedbloom.ErrConfig, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q (archive names are read from stdin)", namedbloom.ErrConfig, fs.Arg(0))
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return fmt.Errorf("%w: %w", namedbloom.ErrConfig, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return fmt.Errorf("%w: %w", namedbloom.ErrConfig, err)
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", namedbloom.ErrConfig, err)
	}

	// Validate has already checked these parse.
	format, _ := cfg.OutputFormat()
	digest, _ := cfg.DigestFunc()
	mode, _ := cfg.AlignMode()

	enc, err := namedbloom.NewEncoder(format)
	if err != nil {
		return err
	}

	opener := archive.NewMux(archive.Local{})
	if cfg.S3.Enabled() {
		s3, err := archive.NewS3(cfg.S3.Archive())
		if err != nil {
			return fmt.Errorf("%w: %w", namedbloom.ErrConfig, err)
		}
		opener.Handle(archive.S3Scheme, s3)
	}

	var sinkOpts []namedbloom.SinkOption
	if cfg.BufferSize > 0 {
		sinkOpts = append(sinkOpts, namedbloom.WithBufferSize(cfg.BufferSize))
	}
	sink := namedbloom.NewSink(stdout, enc, sinkOpts...)

	scanner := namedbloom.NewScanner(
		fieldhash.New(cfg.Key, fieldhash.WithDigest(digest)),
		sink,
		namedbloom.WithScannerLogger(logger),
		namedbloom.WithOpener(opener),
		namedbloom.WithAlignMode(mode),
	)

	_, scanErr := scanner.Scan(ctx, stdin)
	// flush what was produced even when the scan failed part way through
	if err := sink.Flush(); err != nil && scanErr == nil {
		scanErr = err
	}
	return scanErr
}
