// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package archive opens zip archives by name and reads their members in
// central directory order.
//
// Archives are reached through an Opener, so the same scan can run over
// local files (memory-mapped), S3-compatible object storage, or an
// in-memory set of archives in tests.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bpowers/namedbloom/internal/mmap"
)

// ErrNotFound is returned when an archive does not exist.  The local
// opener returns errors satisfying errors.Is(err, ErrNotFound) too.
var ErrNotFound = os.ErrNotExist

// Blob is a read-only handle to the bytes of one archive.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Opener opens archives by name.
type Opener interface {
	Open(ctx context.Context, name string) (Blob, error)
}

// Local opens archives from the local filesystem.  Names are paths.
type Local struct{}

var _ Opener = Local{}

func (Local) Open(_ context.Context, name string) (Blob, error) {
	r, err := mmap.Open(name)
	if err != nil {
		return nil, err
	}
	return localBlob{r}, nil
}

type localBlob struct {
	*mmap.ReaderAt
}

func (b localBlob) Size() int64 {
	return int64(b.Len())
}

// Memory is an in-memory Opener, mainly for testing.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Opener = &Memory{}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under name.
func (m *Memory) Put(name string, data []byte) {
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = copied
}

func (m *Memory) Open(_ context.Context, name string) (Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return memoryBlob{strings.NewReader(string(data))}, nil
}

type memoryBlob struct {
	*strings.Reader
}

func (memoryBlob) Close() error {
	return nil
}

// Mux dispatches names of the form "scheme://..." to the Opener registered
// for that scheme, and everything else to a fallback.
type Mux struct {
	schemes  map[string]Opener
	fallback Opener
}

var _ Opener = &Mux{}

// NewMux returns a Mux that sends unprefixed names to fallback.
func NewMux(fallback Opener) *Mux {
	return &Mux{
		schemes:  make(map[string]Opener),
		fallback: fallback,
	}
}

// Handle registers o for names starting with scheme + "://".
func (m *Mux) Handle(scheme string, o Opener) {
	m.schemes[scheme] = o
}

func (m *Mux) Open(ctx context.Context, name string) (Blob, error) {
	if scheme, _, ok := strings.Cut(name, "://"); ok {
		if o, ok := m.schemes[scheme]; ok {
			return o.Open(ctx, name)
		}
		if m.fallback == nil {
			return nil, fmt.Errorf("no opener for scheme %q", scheme)
		}
	}
	if m.fallback == nil {
		return nil, errors.New("no default opener configured")
	}
	return m.fallback.Open(ctx, name)
}
