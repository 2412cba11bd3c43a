// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Format selects how NamedBloomRecords are serialized.
type Format int

const (
	// FormatGeneric writes the raw name bytes followed by the 2 filter
	// bytes.  There is no length prefix or delimiter, so names need to be
	// fixed width (or otherwise self-delimiting) to be read back.
	FormatGeneric Format = iota
	// FormatFixed parses the name as a hexadecimal 32-bit value (a packed
	// DOS date/time) and writes its low 16 bits followed by the filter, for
	// 4 bytes per record.
	FormatFixed
	// FormatDER writes each record as a DER SEQUENCE of a UTF8String name
	// and an OCTET STRING filter.
	FormatDER
	// FormatCBOR writes each record as a CBOR array of a text string name
	// and a byte string filter.
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatGeneric:
		return "generic"
	case FormatFixed:
		return "fixed"
	case FormatDER:
		return "der"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// ParseFormat parses the string form of a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "generic":
		return FormatGeneric, nil
	case "fixed":
		return FormatFixed, nil
	case "der":
		return FormatDER, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("%w: unknown output format %q", ErrConfig, name)
	}
}

// Encoder serializes a NamedBloomRecord by appending it to dst.
type Encoder interface {
	AppendRecord(dst []byte, rec NamedBloomRecord) ([]byte, error)
}

// NewEncoder returns the Encoder for f.
func NewEncoder(f Format) (Encoder, error) {
	switch f {
	case FormatGeneric:
		return GenericEncoder{}, nil
	case FormatFixed:
		return FixedEncoder{}, nil
	case FormatDER:
		return DEREncoder{}, nil
	case FormatCBOR:
		return NewCBOREncoder()
	default:
		return nil, fmt.Errorf("%w: unknown output format %d", ErrConfig, int(f))
	}
}

// GenericEncoder writes FormatGeneric records.
type GenericEncoder struct{}

func (GenericEncoder) AppendRecord(dst []byte, rec NamedBloomRecord) ([]byte, error) {
	dst = append(dst, rec.Name...)
	return append(dst, rec.Filter[:]...), nil
}

// FixedEncoder writes FormatFixed records.  Names must be hexadecimal
// 32-bit values, optionally with a single leading '+'.
type FixedEncoder struct{}

func (FixedEncoder) AppendRecord(dst []byte, rec NamedBloomRecord) ([]byte, error) {
	word, err := strconv.ParseUint(strings.TrimPrefix(rec.Name, "+"), 16, 32)
	if err != nil {
		return dst, fmt.Errorf("%w: member name %q is not a 32-bit hex value: %w", ErrConfig, rec.Name, err)
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(word&0xffff))
	return append(dst, rec.Filter[:]...), nil
}

// DEREncoder writes FormatDER records.  Names must be valid UTF-8.
type DEREncoder struct{}

func (DEREncoder) AppendRecord(dst []byte, rec NamedBloomRecord) ([]byte, error) {
	if !utf8.ValidString(rec.Name) {
		return dst, fmt.Errorf("%w: member name %q is not valid utf-8", ErrConfig, rec.Name)
	}
	b := cryptobyte.NewBuilder(dst)
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.UTF8String, func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(rec.Name))
		})
		b.AddASN1OctetString(rec.Filter[:])
	})
	out, err := b.Bytes()
	if err != nil {
		return dst, fmt.Errorf("%w: der encode %q: %w", ErrConfig, rec.Name, err)
	}
	return out, nil
}

// cborRecord is the CBOR shape of a NamedBloomRecord: [name, filter].
type cborRecord struct {
	_      struct{} `cbor:",toarray"`
	Name   string
	Filter []byte
}

// CBOREncoder writes FormatCBOR records.  Use NewCBOREncoder to create one.
type CBOREncoder struct {
	em cbor.EncMode
}

// NewCBOREncoder returns an Encoder using CBOR core deterministic
// encoding, so the same record always produces the same bytes.
func NewCBOREncoder() (*CBOREncoder, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor.EncMode: %w", err)
	}
	return &CBOREncoder{em: em}, nil
}

func (e *CBOREncoder) AppendRecord(dst []byte, rec NamedBloomRecord) ([]byte, error) {
	data, err := e.em.Marshal(cborRecord{Name: rec.Name, Filter: rec.Filter[:]})
	if err != nil {
		return dst, fmt.Errorf("%w: cbor encode %q: %w", ErrConfig, rec.Name, err)
	}
	return append(dst, data...), nil
}
