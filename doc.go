// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package namedbloom summarizes zip archives of named JSON records as
// 16-bit bloom filters, one per archive member.
//
// Each archive member is a DER container holding a gzip'd list of names
// and a gzip'd list of JSON objects, one per line.  A Scanner pairs the
// two lists up line by line, fingerprints one configured field of every
// object and folds the fingerprints into a bloom filter.  The filter is
// written out, together with the member's name, before the next member is
// read:
//
//	sink := namedbloom.NewSink(os.Stdout, namedbloom.GenericEncoder{})
//	scanner := namedbloom.NewScanner(namedbloom.KeyFingerprinter("user_id"), sink)
//	_, scanErr := scanner.Scan(ctx, os.Stdin)
//	// records written before a failure stay written
//	if err := sink.Flush(); err != nil {
//		return err
//	}
//	return scanErr
//
// Downstream, a filter answers "might this member contain value V for the
// field?" without decompressing the member again.
package namedbloom
