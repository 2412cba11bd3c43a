// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"errors"
)

// Every error returned by a Scanner or Sink wraps exactly one of these, so
// callers can tell what kind of failure stopped the scan with errors.Is.
var (
	// ErrIO covers opening, reading and writing archives and output.
	ErrIO = errors.New("io error")
	// ErrDecode means a member is not a well-formed container.
	ErrDecode = errors.New("decode error")
	// ErrCompression means a container field is not a valid gzip stream.
	ErrCompression = errors.New("compression error")
	// ErrParse means a name or JSON line could not be parsed.
	ErrParse = errors.New("parse error")
	// ErrConfig covers bad configuration and names that can't be encoded
	// in the selected output format.
	ErrConfig = errors.New("config error")
)

var errorKinds = []error{ErrIO, ErrDecode, ErrCompression, ErrParse, ErrConfig}

// Kind returns which of the error kinds err wraps, or nil.
func Kind(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
