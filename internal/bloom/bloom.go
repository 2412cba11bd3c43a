// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bloom implements the 16-bit bloom filter used to summarize the
// values of one field across every record of an archive member.
package bloom

import (
	"encoding/binary"
)

const (
	// Bits is the width of a Filter.
	Bits = 16
	// NumProbes is the number of bit positions each fingerprint sets.
	NumProbes = 4
)

// probe window shifts, most significant nibble first
var probeShifts = [NumProbes]uint{12, 8, 4, 0}

// Filter is a 16-bit bloom filter.  Bits are only ever set: a Filter
// built from a set of fingerprints is the same regardless of the order
// (or grouping) the fingerprints were added in.
type Filter uint16

// Probes returns the 4 bit positions selected by the fingerprint fp.
//
// Each position is one nibble of fp, so the probes are correlated rather
// than coming from independent hashes.  This costs some false-positive
// rate compared to a textbook bloom filter, but the layout is part of the
// output format and must not change.
func Probes(fp uint16) (probes [NumProbes]uint8) {
	for i, shift := range probeShifts {
		probes[i] = uint8((fp >> shift) & 0x0f)
	}
	return
}

// Set sets the bit at position `off` to 1.
func (f *Filter) Set(off uint8) {
	if off >= Bits {
		return
	}
	*f |= 1 << off
}

// IsSet returns true if the bit at position `off` is 1.
func (f Filter) IsSet(off uint8) bool {
	if off >= Bits {
		return false
	}
	return f&(1<<off) != 0
}

// Add folds the fingerprint fp into the filter.
func (f *Filter) Add(fp uint16) {
	for _, off := range Probes(fp) {
		f.Set(off)
	}
}

// Reset clears the filter so it can be reused for the next member.
func (f *Filter) Reset() {
	*f = 0
}

// Bytes returns the big-endian encoding of the filter.
func (f Filter) Bytes() (b [2]byte) {
	binary.BigEndian.PutUint16(b[:], uint16(f))
	return
}
