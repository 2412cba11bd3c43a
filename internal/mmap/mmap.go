// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides read-only memory-mapped files.
package mmap

import (
	"errors"
	"io"
	"os"
)

var errClosed = errors.New("mmap: closed")

// ReaderAt is a read-only view of a whole file.
type ReaderAt struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Open maps the file at path.  Empty files are valid and have no mapping.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size < 0 {
		return nil, errors.New("mmap: file size is negative")
	}
	if size == 0 {
		return &ReaderAt{}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.New("mmap: file too large")
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	return &ReaderAt{data: data, unmap: unmap}, nil
}

// Len returns the length of the mapped file.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// ReadAt implements io.ReaderAt.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if r.closed {
		return 0, errClosed
	}
	if off < 0 {
		return 0, errors.New("mmap: negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file.  Closing twice is a no-op.
func (r *ReaderAt) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	data := r.data
	r.data = nil
	if data == nil || r.unmap == nil {
		return nil
	}
	return r.unmap(data)
}
