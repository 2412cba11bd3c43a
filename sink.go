// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"bufio"
	"fmt"
	"io"
)

const defaultBufferSize = 64 * 1024

// SinkOption configures a Sink.
type SinkOption func(*sinkOptions)

type sinkOptions struct {
	bufferSize int
}

// WithBufferSize sets the size of the Sink's output buffer.
func WithBufferSize(n int) SinkOption {
	return func(opts *sinkOptions) {
		if n > 0 {
			opts.bufferSize = n
		}
	}
}

// Sink is a buffered RecordWriter.  Records are encoded and buffered as they
// arrive; Flush must be called after the last record, otherwise the tail of
// the output may never reach the underlying writer.
type Sink struct {
	w     *bufio.Writer
	enc   Encoder
	buf   []byte
	count uint64
}

var _ RecordWriter = &Sink{}

// NewSink returns a Sink that encodes records with enc and writes them to
// w through a buffer of WithBufferSize bytes (64KiB by default).
func NewSink(w io.Writer, enc Encoder, opts ...SinkOption) *Sink {
	options := sinkOptions{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&options)
	}
	return &Sink{
		w:   bufio.NewWriterSize(w, options.bufferSize),
		enc: enc,
	}
}

// WriteRecord encodes rec and buffers it.
func (s *Sink) WriteRecord(rec NamedBloomRecord) error {
	var err error
	s.buf, err = s.enc.AppendRecord(s.buf[:0], rec)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("%w: write record %q: %w", ErrIO, rec.Name, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written so far.
func (s *Sink) Count() uint64 {
	return s.count
}

// Flush writes any buffered output to the underlying writer.
func (s *Sink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIO, err)
	}
	return nil
}
