// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package container

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	raw, err := Encode([]byte{1, 2}, []byte{})
	require.NoError(t, err)
	require.Equal(t, []byte{0x30, 0x06, 0x04, 0x02, 0x01, 0x02, 0x04, 0x00}, raw)

	c, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, c.Names)
	require.Empty(t, c.Jsonl)
}

func TestDecodeMalformed(t *testing.T) {
	for _, testcase := range []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"set instead of sequence", []byte{0x31, 0x04, 0x04, 0x00, 0x04, 0x00}},
		{"one field", []byte{0x30, 0x02, 0x04, 0x00}},
		{"no fields", []byte{0x30, 0x00}},
		{"three fields", []byte{0x30, 0x06, 0x04, 0x00, 0x04, 0x00, 0x04, 0x00}},
		{"integer field", []byte{0x30, 0x05, 0x02, 0x01, 0x07, 0x04, 0x00}},
		{"utf8string field", []byte{0x30, 0x05, 0x04, 0x00, 0x0c, 0x01, 'a'}},
		{"trailing bytes", []byte{0x30, 0x04, 0x04, 0x00, 0x04, 0x00, 0x00}},
		{"truncated", []byte{0x30, 0x06, 0x04, 0x02, 0x01}},
		{"non-minimal length", []byte{0x30, 0x81, 0x04, 0x04, 0x00, 0x04, 0x00}},
	} {
		_, err := Decode(testcase.raw)
		require.Error(t, err, testcase.name)
		require.True(t, errors.Is(err, ErrMalformed), testcase.name)
	}
}

func TestBuildDecompress(t *testing.T) {
	names := []byte("0\n1\n2\n")
	jsonl := []byte(`{"helo":"wrld"}` + "\n" + `{"helo":"WRLD"}` + "\n" + `{"helo":"WWWW"}` + "\n")

	raw, err := Build(names, jsonl, gzip.BestSpeed)
	require.NoError(t, err)

	c, err := Decode(raw)
	require.NoError(t, err)

	var d Decompressor
	gotNames, err := d.Decompress(nil, c.Names)
	require.NoError(t, err)
	require.Equal(t, names, gotNames)

	gotJsonl, err := d.Decompress(nil, c.Jsonl)
	require.NoError(t, err)
	require.Equal(t, jsonl, gotJsonl)
}

func TestDecompressReusesBuffer(t *testing.T) {
	var d Decompressor
	first, err := compress(bytes.Repeat([]byte("abcdefgh"), 64), gzip.DefaultCompression)
	require.NoError(t, err)
	second, err := compress([]byte("short"), gzip.DefaultCompression)
	require.NoError(t, err)

	buf, err := d.Decompress(nil, first)
	require.NoError(t, err)
	require.Len(t, buf, 512)

	reused, err := d.Decompress(buf, second)
	require.NoError(t, err)
	require.Equal(t, []byte("short"), reused)
	// same backing array: capacity was sufficient
	require.True(t, &buf[0] == &reused[0])
}

func TestDecompressCorrupt(t *testing.T) {
	var d Decompressor

	_, err := d.Decompress(nil, []byte("definitely not gzip"))
	require.Error(t, err)

	good, err := compress([]byte("hello, world"), gzip.DefaultCompression)
	require.NoError(t, err)

	truncated := good[:len(good)-6]
	_, err = d.Decompress(nil, truncated)
	require.Error(t, err)

	// a bad stream doesn't poison the next one
	out, err := d.Decompress(nil, good)
	require.NoError(t, err)
	require.Equal(t, []byte("hello, world"), out)
}

func TestDecompressFirstMemberOnly(t *testing.T) {
	a, err := compress([]byte("a\n"), gzip.DefaultCompression)
	require.NoError(t, err)
	b, err := compress([]byte("b\n"), gzip.DefaultCompression)
	require.NoError(t, err)

	var d Decompressor
	// run twice so the second pass goes through Reset
	for i := 0; i < 2; i++ {
		out, err := d.Decompress(nil, append(append([]byte{}, a...), b...))
		require.NoError(t, err)
		require.Equal(t, "a\n", string(out))

		out, err = d.Decompress(nil, append(append([]byte{}, a...), 0, 0, 0))
		require.NoError(t, err)
		require.Equal(t, "a\n", string(out))
	}
}
