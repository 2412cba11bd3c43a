// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %w", err)
	}
	// members are read front to back after the central directory
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		_ = unix.Munmap(data)
		return nil, nil, fmt.Errorf("madvise: %w", err)
	}
	return data, unix.Munmap, nil
}
