// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"github.com/bpowers/namedbloom/internal/align"
	"github.com/bpowers/namedbloom/internal/bloom"
	"github.com/bpowers/namedbloom/internal/fieldhash"
)

// NamedJSON is one name line paired with the JSON object on the same line
// of the jsonl list.
type NamedJSON = align.Record

// NamedBloomRecord is the summary of one archive member.
type NamedBloomRecord struct {
	// Name is the member's name inside its zip archive.
	Name string
	// Filter is the member's 16-bit bloom filter, big-endian.
	Filter [2]byte
}

// Fingerprinter maps a record to the 16-bit fingerprint of its value for
// a fixed field.  Implementations must be deterministic.
type Fingerprinter interface {
	Fingerprint(rec NamedJSON) uint16
}

// KeyFingerprinter returns a Fingerprinter for the value of the field key,
// hashed with truncated SHA-256.
func KeyFingerprinter(key string) Fingerprinter {
	return fieldhash.New(key)
}

// RecordWriter receives one NamedBloomRecord per archive member, in
// member order.
type RecordWriter interface {
	WriteRecord(rec NamedBloomRecord) error
}

// FilterOf folds the fingerprints of every record into a bloom filter.
func FilterOf(fp Fingerprinter, records []NamedJSON) [2]byte {
	var f bloom.Filter
	for _, rec := range records {
		f.Add(fp.Fingerprint(rec))
	}
	return f.Bytes()
}
