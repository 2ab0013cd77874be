// Copyright 2025 The Go-Slob Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slob

import "sort"

// BlobIterator yields Blobs one at a time. It is single-pass and not
// restartable, and carries internal mutable state; it is not safe to
// share across goroutines.
type BlobIterator interface {
	// Next advances the iterator and reports whether a Blob is
	// available. It must be called before the first call to Blob.
	Next() bool

	// Blob returns the Blob at the iterator's current position. It is
	// only valid after a call to Next that returned true.
	Blob() Blob
}

// emptyIterator is a BlobIterator that never yields anything.
type emptyIterator struct{}

func (emptyIterator) Next() bool { return false }
func (emptyIterator) Blob() Blob { return Blob{} }

// archiveLookup implements a single archive's lookup: a lower-bound
// binary search on the key-list, then a forward scan while the stop
// comparator yields a match.
type archiveLookup struct {
	archive *Archive
	target  string
	strength Strength

	index   int64
	current Blob
	started bool
}

// lowerBound returns the smallest index i in [0, n) such that
// cmp(i) >= 0, or n if no such index exists. cmp(i) should behave as a
// comparison of the key at i against a fixed target: negative when
// keyList[i] sorts before target, non-negative otherwise. This is the
// idiomatic sort.Search "lower bound" usage, mirroring the binary-search
// pattern the reference library uses for its own in-memory index
// (sort.Find over a monotonic comparison function).
func lowerBound(n int64, cmp func(i int64) int) int64 {
	lo, hi := int64(0), n
	idx := sort.Search(int(hi-lo), func(i int) bool {
		return cmp(lo+int64(i)) >= 0
	})
	return lo + int64(idx)
}

func (a *Archive) find(key string, strength Strength) (BlobIterator, error) {
	count := a.refs.Count()

	start := lowerBound(count, func(i int64) int {
		ref, err := a.keys.Get(i)
		if err != nil {
			// A key that cannot be read is treated as "not less
			// than" the target. Next stops (returning false, with
			// no error reported) at the first ref it cannot read.
			return 0
		}
		return strength.compare(a.collator, ref.Key, key)
	})

	return &archiveLookup{archive: a, target: key, strength: strength, index: start}, nil
}

// Next implements BlobIterator.
func (l *archiveLookup) Next() bool {
	count := l.archive.refs.Count()
	if l.index >= count {
		return false
	}
	ref, err := l.archive.refs.Get(l.index)
	l.index++
	if err != nil {
		return false
	}
	if l.strength.stop(l.archive.collator, ref.Key, l.target) != 0 {
		return false
	}
	l.current = newBlob(l.archive, ref)
	l.started = true
	return true
}

// Blob implements BlobIterator.
func (l *archiveLookup) Blob() Blob {
	return l.current
}
