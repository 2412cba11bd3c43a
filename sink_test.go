// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package namedbloom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestSinkBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, FixedEncoder{})

	for _, name := range []string{"0000", "0001", "0002"} {
		require.NoError(t, s.WriteRecord(NamedBloomRecord{Name: name, Filter: [2]byte{0xaa, 0xbb}}))
	}
	require.Equal(t, uint64(3), s.Count())
	require.Zero(t, buf.Len())

	require.NoError(t, s.Flush())
	require.Equal(t, []byte{
		0x00, 0x00, 0xaa, 0xbb,
		0x00, 0x01, 0xaa, 0xbb,
		0x00, 0x02, 0xaa, 0xbb,
	}, buf.Bytes())
}

func TestSinkSmallBuffer(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, GenericEncoder{}, WithBufferSize(16))

	for i := 0; i < 10; i++ {
		require.NoError(t, s.WriteRecord(NamedBloomRecord{Name: "member", Filter: [2]byte{1, 2}}))
	}
	// earlier records have already spilled to the writer
	require.NotZero(t, buf.Len())
	require.NoError(t, s.Flush())
	require.Equal(t, 10*8, buf.Len())
}

func TestSinkEncodeError(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, FixedEncoder{})
	err := s.WriteRecord(NamedBloomRecord{Name: "zz"})
	require.True(t, errors.Is(err, ErrConfig))
	require.Zero(t, s.Count())
}

func TestSinkWriteError(t *testing.T) {
	s := NewSink(failingWriter{}, GenericEncoder{}, WithBufferSize(16))
	require.NoError(t, s.WriteRecord(NamedBloomRecord{Name: "a"}))

	err := s.Flush()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrIO))
}
