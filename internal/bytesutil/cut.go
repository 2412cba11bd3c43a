// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bytesutil

import (
	"bytes"
)

// NextLine slices s around the first '\n', returning the line before it
// (without the newline) and the rest of s after it.  A final line without
// a trailing newline is returned as-is.  ok is false only when s is empty,
// so "a\n" holds one line and "a\n\nb" holds three.
//
// NextLine returns slices of the original slice s, not copies.
func NextLine(s []byte) (line []byte, rest []byte, ok bool) {
	if len(s) == 0 {
		return nil, nil, false
	}
	if i := bytes.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, nil, true
}

// TrimCR removes a single trailing '\r', for CRLF-terminated input.
func TrimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

// CountLines returns the number of lines NextLine would yield for s.
func CountLines(s []byte) int {
	if len(s) == 0 {
		return 0
	}
	n := bytes.Count(s, []byte{'\n'})
	if s[len(s)-1] != '\n' {
		n++
	}
	return n
}
