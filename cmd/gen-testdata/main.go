// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes zip archives of containers with random records, and
// prints each archive's path so the output can be piped to namedbloom.
package main

import (
	"bytes"
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/pflag"

	"github.com/bpowers/namedbloom/internal/container"
)

const (
	prefix    = "user_"
	suffixLen = 16
	hmacKey   = "d259c7f656caf7f1"
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

// dosTime packs t the way zip headers do: date in the high 16 bits, time
// (2 second resolution) in the low 16.
func dosTime(t time.Time) uint32 {
	date := uint32(t.Year()-1980)<<9 | uint32(t.Month())<<5 | uint32(t.Day())
	clock := uint32(t.Hour())<<11 | uint32(t.Minute())<<5 | uint32(t.Second()/2)
	return date<<16 | clock
}

type generator struct {
	rng *rand.Rand
	key string
}

func (g *generator) member(records int) ([]byte, error) {
	var names, jsonl bytes.Buffer
	enc := json.NewEncoder(&jsonl)
	h := hmac.New(sha256.New, []byte(hmacKey))
	for i := 0; i < records; i++ {
		var buf [suffixLen / 2]byte
		if _, err := g.rng.Read(buf[:]); err != nil {
			return nil, err
		}
		value := fmt.Sprintf("%s%x", prefix, buf)
		h.Reset()
		h.Write([]byte(value))

		fmt.Fprintf(&names, "%s\n", hex.EncodeToString(h.Sum(nil))[:16])
		if err := enc.Encode(map[string]any{
			g.key:   value,
			"seq":   i,
			"valid": g.rng.Intn(2) == 0,
		}); err != nil {
			return nil, err
		}
	}
	return container.Build(names.Bytes(), jsonl.Bytes(), gzip.DefaultCompression)
}

func (g *generator) archive(path string, members, records int, start time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	for i := 0; i < members; i++ {
		raw, err := g.member(1 + g.rng.Intn(records))
		if err != nil {
			_ = f.Close()
			return err
		}
		name := fmt.Sprintf("%08x", dosTime(start.Add(time.Duration(i)*2*time.Second)))
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := w.Write(raw); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func main() {
	dir := pflag.StringP("out", "o", ".", "directory to write archives to")
	nArchives := pflag.IntP("archives", "n", 4, "number of archives")
	nMembers := pflag.IntP("members", "m", 100, "members per archive")
	nRecords := pflag.IntP("records", "r", 64, "maximum records per member")
	key := pflag.StringP("key", "k", "user_id", "JSON field holding the random value")
	seed := pflag.Int64("seed", 0, "random seed (0 picks one)")
	pflag.Parse()

	if *nMembers <= 0 || *nRecords <= 0 {
		fmt.Fprintln(os.Stderr, "members and records must be positive")
		os.Exit(1)
	}

	g := &generator{rng: newRand(*seed), key: *key}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < *nArchives; i++ {
		path := filepath.Join(*dir, fmt.Sprintf("testdata-%04d.zip", i))
		if err := g.archive(path, *nMembers, *nRecords, start.Add(time.Duration(i)*time.Hour)); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Println(path)
	}
}
