// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package fieldhash reduces the value of one JSON field to a 16-bit
// fingerprint.
//
// The value is first projected to a SimpleValue (null, bool, int64 or
// string; everything else is null), hashed to 64 bits and then XOR-folded
// down to 16 bits.  Null values skip hashing entirely and always map to
// fingerprint 0, so records without the field still contribute a fixed,
// known probe.
package fieldhash

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/antonholmquist/jason"
	"github.com/dgryski/go-farm"

	"github.com/bpowers/namedbloom/internal/align"
	"github.com/bpowers/namedbloom/internal/unsafestring"
)

// Kind identifies which field of a SimpleValue is meaningful.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	String
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case String:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// SimpleValue is the canonical projection of a JSON value.
type SimpleValue struct {
	Kind Kind
	Bool bool
	Int  int64
	Str  string
}

// Project looks up key in obj.  A missing key, a JSON null, an array, an
// object, a floating point number (including -0) or an integer outside the
// int64 range all project to Null.
func Project(obj *jason.Object, key string) SimpleValue {
	if obj == nil {
		return SimpleValue{}
	}
	v, err := obj.GetValue(key)
	if err != nil {
		return SimpleValue{}
	}
	if b, err := v.Boolean(); err == nil {
		return SimpleValue{Kind: Bool, Bool: b}
	}
	if s, err := v.String(); err == nil {
		return SimpleValue{Kind: String, Str: s}
	}
	if n, err := v.Number(); err == nil {
		// -0 is a float, not the integer 0.
		if n == "-0" {
			return SimpleValue{}
		}
		// Int64 fails for json numbers with a fraction or exponent, and
		// for integers that overflow int64.
		if i, err := n.Int64(); err == nil {
			return SimpleValue{Kind: Int, Int: i}
		}
	}
	return SimpleValue{}
}

// Digest hashes a byte string to 64 bits.
type Digest func(b []byte) uint64

// SHA256 returns the first 8 bytes of the SHA-256 of b, big-endian.
func SHA256(b []byte) uint64 {
	sum := sha256.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}

// Farm is a faster, non-cryptographic alternative to SHA256.  Filters
// built with different digests are not comparable.
func Farm(b []byte) uint64 {
	return farm.Hash64(b)
}

// ParseDigest returns the Digest registered under name.
func ParseDigest(name string) (Digest, error) {
	switch name {
	case "", "sha256":
		return SHA256, nil
	case "farm":
		return Farm, nil
	default:
		return nil, fmt.Errorf("unknown digest: %q", name)
	}
}

// Hash returns the 64-bit hash of v under d.  Null is always 0.
func (v SimpleValue) Hash(d Digest) uint64 {
	switch v.Kind {
	case Bool:
		var b [1]byte
		if v.Bool {
			b[0] = 1
		}
		return d(b[:])
	case Int:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.Int))
		return d(b[:])
	case String:
		return d(unsafestring.ToBytes(v.Str))
	default:
		return 0
	}
}

// Fold XORs the two 32-bit halves of h together, then the two 16-bit
// halves of the result.
func Fold(h uint64) uint16 {
	hl := uint32(h>>32) ^ uint32(h)
	return uint16(hl>>16) ^ uint16(hl)
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithDigest overrides the default SHA256 digest.
func WithDigest(d Digest) Option {
	return func(h *Hasher) {
		if d != nil {
			h.digest = d
		}
	}
}

// Hasher fingerprints the value of a single, fixed field.
type Hasher struct {
	key    string
	digest Digest
}

// New returns a Hasher for the field key, using SHA256 unless WithDigest
// says otherwise.
func New(key string, opts ...Option) *Hasher {
	h := &Hasher{
		key:    key,
		digest: SHA256,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Key returns the field this Hasher looks up.
func (h *Hasher) Key() string {
	return h.key
}

// FingerprintObject returns the fingerprint of obj's value for the key.
func (h *Hasher) FingerprintObject(obj *jason.Object) uint16 {
	return Fold(Project(obj, h.key).Hash(h.digest))
}

// Fingerprint returns the fingerprint of the record's value for the key.
func (h *Hasher) Fingerprint(rec align.Record) uint16 {
	return h.FingerprintObject(rec.Object)
}
