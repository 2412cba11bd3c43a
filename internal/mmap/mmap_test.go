// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("hello, mmap"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 11, r.Len())

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 7)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("mmap"), buf)

	n, err = r.ReadAt(buf, 9)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 2, n)

	_, err = r.ReadAt(buf, 11)
	require.Equal(t, io.EOF, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.ReadAt(buf, 0)
	require.Error(t, err)
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	require.Zero(t, r.Len())
	_, err = r.ReadAt(make([]byte, 1), 0)
	require.Equal(t, io.EOF, err)
	require.NoError(t, r.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}
