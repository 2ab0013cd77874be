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

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aardbook/goslob/internal/rawio"
)

// posEntrySize is the width, in bytes, of one entry in an item-list's
// position table. The ref-list and the store use 8-byte (uint64) offsets;
// a decompressed bin uses 4-byte (uint32) offsets, so bins are handled
// separately by bin (bin.go) rather than through itemList.
const posEntrySize = 8

// itemList is the generic shape shared by the ref-list and the store: a
// count, a position table of posEntrySize-byte offsets into a data
// region, and random access through decodeItem with a bounded LRU cache.
//
// itemList is safe for concurrent use: the underlying rawio.Reader issues
// independent positional reads and the item cache is mutex-guarded.
type itemList[T any] struct {
	r          *rawio.Reader
	count      int64
	posStart   int64
	dataStart  int64
	decodeItem func(r *rawio.Reader, pos int64) (T, error)

	mu    sync.Mutex
	cache *lru.Cache[int64, T]
}

// newItemList constructs an itemList reading its count at offset, with
// items decoded by decodeItem and cached up to cacheSize entries.
func newItemList[T any](r *rawio.Reader, offset int64, cacheSize int, decodeItem func(r *rawio.Reader, pos int64) (T, error)) (*itemList[T], error) {
	count, err := r.Uint32(offset)
	if err != nil {
		return nil, fmt.Errorf("reading item-list count: %w", err)
	}
	posStart := offset + 4
	dataStart := posStart + int64(count)*posEntrySize

	cache, err := lru.New[int64, T](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating item cache: %w", err)
	}

	return &itemList[T]{
		r:          r,
		count:      int64(count),
		posStart:   posStart,
		dataStart:  dataStart,
		decodeItem: decodeItem,
		cache:      cache,
	}, nil
}

// Count returns the number of items in the list.
func (l *itemList[T]) Count() int64 {
	return l.count
}

// Get returns the i-th item (0 <= i < Count()), decoding and caching it
// on first access. i is not checked against Count(): for i outside
// [0, Count()) the result is whatever the underlying positional reads
// produce (an error, or an item decoded from unrelated bytes); callers
// are responsible for bounds-checking against Count() beforehand.
func (l *itemList[T]) Get(i int64) (T, error) {
	l.mu.Lock()
	if item, ok := l.cache.Get(i); ok {
		l.mu.Unlock()
		return item, nil
	}
	l.mu.Unlock()

	offset, err := l.r.Uint64(l.posStart + i*posEntrySize)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("reading item pointer %d: %w", i, err)
	}

	item, err := l.decodeItem(l.r, l.dataStart+int64(offset))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decoding item %d: %w", i, err)
	}

	l.mu.Lock()
	l.cache.Add(i, item)
	l.mu.Unlock()
	return item, nil
}
