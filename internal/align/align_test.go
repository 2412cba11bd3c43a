// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package align

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	a := New(Truncate)
	records, err := a.Align(
		[]byte("0\n1\n2\n"),
		[]byte(`{"helo":"wrld"}`+"\n"+`{"helo":"WRLD"}`+"\n"+`{"helo":"WWWW"}`+"\n"),
	)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, expected := range []struct {
		name  string
		value string
	}{
		{"0", "wrld"},
		{"1", "WRLD"},
		{"2", "WWWW"},
	} {
		require.Equal(t, expected.name, records[i].Name)
		v, err := records[i].Object.GetString("helo")
		require.NoError(t, err)
		require.Equal(t, expected.value, v)
	}
}

func TestAlignNoTrailingNewline(t *testing.T) {
	a := New(Strict)
	records, err := a.Align([]byte("a\r\nb"), []byte("{}\r\n{\"k\":1}"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a", records[0].Name)
	require.Equal(t, "b", records[1].Name)
}

func TestAlignEmpty(t *testing.T) {
	a := New(Strict)
	records, err := a.Align(nil, nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAlignLengthMismatch(t *testing.T) {
	names := []byte("a\nb\nc\n")
	jsonl := []byte("{\"k\":1}\n{\"k\":2}\n")

	a := New(Truncate)
	records, err := a.Align(names, jsonl)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b", records[1].Name)
	require.Equal(t, 1, a.Dropped())

	_, err = a.Align(jsonl[:0], nil)
	require.NoError(t, err)
	require.Zero(t, a.Dropped())

	// more jsonl lines than names truncates the other way
	records, err = New(Truncate).Align([]byte("a\n"), jsonl)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = New(Strict).Align(names, jsonl)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestAlignInvalidJSON(t *testing.T) {
	for _, jsonl := range []string{
		"{\"k\":1}\nnot json\n",
		"{\"k\":1}\n\n{\"k\":2}\n",
		"[1,2,3]\n",
		"\"str\"\n",
		"{\"k\":1} {\"k\":2}\n",
		"{\"k\":1\n",
	} {
		_, err := New(Truncate).Align([]byte("a\nb\nc\n"), []byte(jsonl))
		require.Error(t, err, jsonl)
		require.True(t, errors.Is(err, ErrInvalidJSON), jsonl)
	}

}

func TestAlignSkipsUnpairedTail(t *testing.T) {
	// an invalid jsonl line past the last name is never parsed
	a := New(Truncate)
	records, err := a.Align([]byte("a\n"), []byte(`{"helo":"wrld"}`+"\nnope\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "a", records[0].Name)
	require.Equal(t, 1, a.Dropped())

	// nor is an invalid name past the last jsonl line
	records, err = a.Align([]byte{'a', '\n', 0xff, 0xfe, '\n'}, []byte("{}\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 1, a.Dropped())

	// strict mode rejects the count mismatch up front
	_, err = New(Strict).Align([]byte("a\n"), []byte("{}\nnope\n"))
	require.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestAlignInvalidName(t *testing.T) {
	_, err := New(Truncate).Align([]byte{'a', '\n', 0xff, 0xfe, '\n'}, []byte("{}\n{}\n"))
	require.True(t, errors.Is(err, ErrInvalidName))
}

func TestAlignDuplicateKeys(t *testing.T) {
	records, err := New(Truncate).Align([]byte("a\n"), []byte(`{"k":"first","k":"last"}`))
	require.NoError(t, err)
	v, err := records[0].Object.GetString("k")
	require.NoError(t, err)
	require.Equal(t, "last", v)
}

func TestAlignReusesScratch(t *testing.T) {
	a := New(Truncate)
	first, err := a.Align([]byte("a\nb\nc\n"), []byte("{}\n{}\n{}\n"))
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := a.Align([]byte("z\n"), []byte("{}\n"))
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "z", second[0].Name)
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{Truncate, Strict} {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, Truncate, m)
	_, err = ParseMode("lenient")
	require.Error(t, err)
}
