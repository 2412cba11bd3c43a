// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bpowers/namedbloom/internal/align"
	"github.com/bpowers/namedbloom/internal/archive"
	"github.com/bpowers/namedbloom/internal/bloom"
	"github.com/bpowers/namedbloom/internal/container"
)

// ScannerOption configures the Scanner.
type ScannerOption func(*scannerOptions)

type scannerOptions struct {
	logger    *slog.Logger
	opener    archive.Opener
	alignMode align.Mode
}

// WithScannerLogger sets an optional logger for the scanner to use for progress updates.
// If not provided, no logging output will be produced.
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(opts *scannerOptions) {
		opts.logger = logger
	}
}

// WithOpener sets how archive names are opened.  The default opens local
// files.
func WithOpener(o archive.Opener) ScannerOption {
	return func(opts *scannerOptions) {
		opts.opener = o
	}
}

// WithAlignMode sets what happens when a member's name and jsonl line
// counts differ.  The default, align.Truncate, drops the unpaired tail.
func WithAlignMode(mode align.Mode) ScannerOption {
	return func(opts *scannerOptions) {
		opts.alignMode = mode
	}
}

// Stats counts what a Scanner has processed.
type Stats struct {
	Archives int
	Members  int
	Records  int
}

// scanContext owns everything that is reused from one member to the next.
// Members are processed strictly one at a time, so nothing here needs
// synchronization.
type scanContext struct {
	raw     []byte
	names   []byte
	jsonl   []byte
	dec     container.Decompressor
	aligner *align.Aligner
	filter  bloom.Filter
}

func (c *scanContext) reset() {
	c.raw = c.raw[:0]
	c.names = c.names[:0]
	c.jsonl = c.jsonl[:0]
	c.filter.Reset()
}

// Scanner drives the conversion of archives into NamedBloomRecords.  It is
// not safe for concurrent use.
type Scanner struct {
	fp     Fingerprinter
	out    RecordWriter
	opener archive.Opener
	logger *slog.Logger
	sc     scanContext
	stats  Stats
}

// NewScanner creates a Scanner that fingerprints records with fp and sends
// one NamedBloomRecord per archive member to out.
func NewScanner(fp Fingerprinter, out RecordWriter, opts ...ScannerOption) *Scanner {
	options := scannerOptions{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		opener:    archive.Local{},
		alignMode: align.Truncate,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Scanner{
		fp:     fp,
		out:    out,
		opener: options.opener,
		logger: options.logger,
		sc: scanContext{
			aligner: align.New(options.alignMode),
		},
	}
}

// Stats returns the totals so far.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Scan reads archive names from paths, one per line, and scans each archive
// in order.  Blank lines are skipped.  The first error stops the scan;
// records already handed to the RecordWriter are not taken back.
//
// ctx is only used to open archives.
func (s *Scanner) Scan(ctx context.Context, paths io.Reader) (Stats, error) {
	r := bufio.NewReader(paths)
	for {
		line, readErr := r.ReadString('\n')
		if name := strings.TrimRight(line, "\r\n"); name != "" {
			if err := s.ScanArchive(ctx, name); err != nil {
				return s.stats, err
			}
		}
		if readErr == io.EOF {
			break
		} else if readErr != nil {
			return s.stats, fmt.Errorf("%w: read archive list: %w", ErrIO, readErr)
		}
	}

	s.logger.Info("scan complete",
		"archives", s.stats.Archives,
		"members", s.stats.Members,
		"records", s.stats.Records,
	)
	return s.stats, nil
}

// ScanArchive scans every member of the archive called name, in central
// directory order, writing each member's record before reading the next.
func (s *Scanner) ScanArchive(ctx context.Context, name string) error {
	r, err := archive.Open(ctx, s.opener, name)
	if err != nil {
		return fmt.Errorf("%w: open archive %q: %w", ErrIO, name, err)
	}
	defer func() { _ = r.Close() }()

	s.logger.Debug("scanning archive", "archive", name, "members", r.Len())

	for i := 0; i < r.Len(); i++ {
		rec, err := s.scanMember(r, i)
		if err != nil {
			return err
		}
		if err := s.out.WriteRecord(rec); err != nil {
			if Kind(err) == nil {
				err = fmt.Errorf("%w: %w", ErrIO, err)
			}
			return err
		}
		s.stats.Members++
	}
	s.stats.Archives++
	return nil
}

func (s *Scanner) scanMember(r *archive.Reader, i int) (NamedBloomRecord, error) {
	c := &s.sc
	c.reset()

	member := r.MemberName(i)
	wrap := func(kind error, err error) error {
		return fmt.Errorf("%w: %s: member %q: %w", kind, r.Name(), member, err)
	}

	var err error
	if c.raw, err = r.ReadMember(i, c.raw); err != nil {
		return NamedBloomRecord{}, wrap(ErrIO, err)
	}
	fields, err := container.Decode(c.raw)
	if err != nil {
		return NamedBloomRecord{}, wrap(ErrDecode, err)
	}
	if c.names, err = c.dec.Decompress(c.names, fields.Names); err != nil {
		return NamedBloomRecord{}, wrap(ErrCompression, fmt.Errorf("names: %w", err))
	}
	if c.jsonl, err = c.dec.Decompress(c.jsonl, fields.Jsonl); err != nil {
		return NamedBloomRecord{}, wrap(ErrCompression, fmt.Errorf("jsonl: %w", err))
	}
	records, err := c.aligner.Align(c.names, c.jsonl)
	if err != nil {
		return NamedBloomRecord{}, wrap(ErrParse, err)
	}

	for _, rec := range records {
		c.filter.Add(s.fp.Fingerprint(rec))
	}
	s.stats.Records += len(records)

	if dropped := c.aligner.Dropped(); dropped > 0 {
		s.logger.Debug("unpaired lines dropped", "archive", r.Name(), "member", member, "lines", dropped)
	}

	return NamedBloomRecord{Name: member, Filter: c.filter.Bytes()}, nil
}
