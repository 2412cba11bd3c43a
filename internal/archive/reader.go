// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// maxSizeHint caps how much we pre-grow a member buffer based on the size
// recorded in the zip directory, which is untrusted.
const maxSizeHint = 64 << 20

// Reader reads the members of one zip archive.
type Reader struct {
	name string
	blob Blob
	zr   *zip.Reader
}

// Open opens the archive called name through o and reads its central
// directory.
func Open(ctx context.Context, o Opener, name string) (*Reader, error) {
	blob, err := o.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(blob, blob.Size())
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("zip.NewReader(%s): %w", name, err)
	}
	return &Reader{
		name: name,
		blob: blob,
		zr:   zr,
	}, nil
}

// Name returns the name the archive was opened with.
func (r *Reader) Name() string {
	return r.name
}

// Len returns the number of members.
func (r *Reader) Len() int {
	return len(r.zr.File)
}

// MemberName returns the name of member i.
func (r *Reader) MemberName(i int) string {
	return r.zr.File[i].Name
}

// ReadMember reads the uncompressed contents of member i into dst[:0],
// growing it if needed, and returns the filled slice.  The member's CRC is
// verified.
func (r *Reader) ReadMember(i int, dst []byte) ([]byte, error) {
	f := r.zr.File[i]
	rc, err := f.Open()
	if err != nil {
		return dst[:0], fmt.Errorf("open member %q: %w", f.Name, err)
	}
	defer rc.Close()

	buf := bytes.NewBuffer(dst[:0])
	if hint := f.UncompressedSize64; hint > 0 && hint <= maxSizeHint {
		buf.Grow(int(hint))
	}
	if _, err := io.Copy(buf, rc); err != nil {
		return buf.Bytes(), fmt.Errorf("read member %q: %w", f.Name, err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying blob.
func (r *Reader) Close() error {
	return r.blob.Close()
}
