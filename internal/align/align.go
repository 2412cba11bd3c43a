// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package align pairs the lines of a decompressed name list with the
// objects of a decompressed JSON-lines list.
package align

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/antonholmquist/jason"

	"github.com/bpowers/namedbloom/internal/bytesutil"
	"github.com/bpowers/namedbloom/internal/unsafestring"
)

var (
	ErrLengthMismatch = errors.New("name and jsonl line counts differ")
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidName    = errors.New("name is not valid utf-8")
)

// Mode selects what happens when the name and jsonl line counts differ.
type Mode int

const (
	// Truncate pairs up to the shorter of the two lists and drops the rest.
	Truncate Mode = iota
	// Strict fails the member with ErrLengthMismatch.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Truncate:
		return "truncate"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode parses the string form of a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "truncate":
		return Truncate, nil
	case "strict":
		return Strict, nil
	default:
		return 0, fmt.Errorf("unknown align mode: %q", name)
	}
}

// Record is one name line paired positionally with one parsed JSON line.
type Record struct {
	// Name aliases the names buffer passed to Align and is only valid
	// until that buffer is modified.
	Name   string
	Object *jason.Object
}

// Aligner turns decompressed name and jsonl buffers into Records.  It
// reuses its output slice between calls and is not safe for concurrent
// use.
type Aligner struct {
	mode    Mode
	names   []string
	objects []*jason.Object
	records []Record
	dropped int
}

// New returns an Aligner that handles count mismatches according to mode.
func New(mode Mode) *Aligner {
	return &Aligner{mode: mode}
}

// Dropped returns how many lines the last Align call left unpaired.  It is
// always 0 in Strict mode.
func (a *Aligner) Dropped() int {
	return a.dropped
}

// Align splits names and jsonl into lines and pairs them by position.
// Only paired lines are read: in Truncate mode the unpaired tail of the
// longer list is skipped without being validated.  Every paired jsonl line
// must hold a JSON object; the first one that doesn't fails the whole
// call.  The returned slice is owned by the Aligner and is overwritten by
// the next call.
func (a *Aligner) Align(names, jsonl []byte) ([]Record, error) {
	a.reset()

	nNames, nObjects := bytesutil.CountLines(names), bytesutil.CountLines(jsonl)
	n := nNames
	if nObjects != nNames {
		if a.mode == Strict {
			return nil, fmt.Errorf("%w: %d names, %d jsonl lines", ErrLengthMismatch, nNames, nObjects)
		}
		n = min(nNames, nObjects)
		a.dropped = max(nNames, nObjects) - n
	}

	s := names
	for i := 0; i < n; i++ {
		var line []byte
		line, s, _ = bytesutil.NextLine(s)
		line = bytesutil.TrimCR(line)
		if !utf8.Valid(line) {
			return nil, fmt.Errorf("name line %d: %w", i, ErrInvalidName)
		}
		a.names = append(a.names, unsafestring.ToString(line))
	}

	s = jsonl
	for i := 0; i < n; i++ {
		var line []byte
		line, s, _ = bytesutil.NextLine(s)
		obj, err := parseObject(line)
		if err != nil {
			return nil, fmt.Errorf("jsonl line %d: %w", i, err)
		}
		a.objects = append(a.objects, obj)
	}

	for i := 0; i < n; i++ {
		a.records = append(a.records, Record{Name: a.names[i], Object: a.objects[i]})
	}
	return a.records, nil
}

// reset truncates the scratch slices, dropping references to the previous
// member's objects so they can be collected.
func (a *Aligner) reset() {
	clear(a.names)
	clear(a.objects)
	clear(a.records)
	a.names = a.names[:0]
	a.objects = a.objects[:0]
	a.records = a.records[:0]
	a.dropped = 0
}

func parseObject(line []byte) (*jason.Object, error) {
	// jason decodes the first value and ignores whatever follows it, so
	// check the whole line first.
	if !json.Valid(line) {
		return nil, ErrInvalidJSON
	}
	obj, err := jason.NewObjectFromBytes(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return obj, nil
}
