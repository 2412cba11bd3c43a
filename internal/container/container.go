// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package container decodes the per-member binary container: a DER
//
//	SEQUENCE {
//	    names OCTET STRING, -- gzip of newline-delimited names
//	    jsonl OCTET STRING  -- gzip of newline-delimited JSON objects
//	}
//
// and decompresses its two fields.
package container

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformed is returned by Decode for anything that isn't a single DER
// SEQUENCE of exactly two OCTET STRINGs.
var ErrMalformed = errors.New("container is not a SEQUENCE of two OCTET STRINGs")

// Container holds the two gzip-compressed fields of a member.  Both slices
// alias the buffer passed to Decode.
type Container struct {
	Names []byte
	Jsonl []byte
}

// Decode parses raw as a container.  Anything other than exactly one
// SEQUENCE holding exactly two OCTET STRINGs fails with ErrMalformed.
func Decode(raw []byte) (Container, error) {
	input := cryptobyte.String(raw)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return Container{}, fmt.Errorf("%w: missing SEQUENCE", ErrMalformed)
	}
	if !input.Empty() {
		return Container{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(input))
	}

	var c Container
	if !seq.ReadASN1Bytes(&c.Names, asn1.OCTET_STRING) {
		return Container{}, fmt.Errorf("%w: field 0 (names)", ErrMalformed)
	}
	if !seq.ReadASN1Bytes(&c.Jsonl, asn1.OCTET_STRING) {
		return Container{}, fmt.Errorf("%w: field 1 (jsonl)", ErrMalformed)
	}
	if !seq.Empty() {
		return Container{}, fmt.Errorf("%w: unexpected fields after jsonl", ErrMalformed)
	}
	return c, nil
}

// Encode builds the DER container for already-compressed fields.
func Encode(gzNames, gzJsonl []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1OctetString(gzNames)
		b.AddASN1OctetString(gzJsonl)
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("cryptobyte.Builder.Bytes: %w", err)
	}
	return out, nil
}

// Build compresses names and jsonl at the given gzip level and encodes the
// result as a container.
func Build(names, jsonl []byte, level int) ([]byte, error) {
	gzNames, err := compress(names, level)
	if err != nil {
		return nil, err
	}
	gzJsonl, err := compress(jsonl, level)
	if err != nil {
		return nil, err
	}
	return Encode(gzNames, gzJsonl)
}

func compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip.NewWriterLevel: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip.Write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip.Close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompressor gunzips container fields, reusing one gzip reader across
// calls.  It is not safe for concurrent use.
type Decompressor struct {
	src bytes.Reader
	zr  *gzip.Reader
}

// Decompress gunzips the first gzip member of src into dst[:0], growing it
// if needed, and returns the filled slice.  Bytes after the first member,
// including further gzip members, are ignored.
func (d *Decompressor) Decompress(dst, src []byte) ([]byte, error) {
	d.src.Reset(src)
	if d.zr == nil {
		zr, err := gzip.NewReader(&d.src)
		if err != nil {
			return dst[:0], fmt.Errorf("gzip.NewReader: %w", err)
		}
		d.zr = zr
	} else if err := d.zr.Reset(&d.src); err != nil {
		return dst[:0], fmt.Errorf("gzip.Reset: %w", err)
	}
	// Only the first gzip member is read; anything after it is ignored.
	// Reset turns multistream back on, so this is needed on every call.
	d.zr.Multistream(false)

	buf := bytes.NewBuffer(dst[:0])
	if _, err := buf.ReadFrom(d.zr); err != nil {
		return buf.Bytes(), fmt.Errorf("gzip.Read: %w", err)
	}
	if err := d.zr.Close(); err != nil {
		return buf.Bytes(), fmt.Errorf("gzip.Close: %w", err)
	}
	return buf.Bytes(), nil
}
