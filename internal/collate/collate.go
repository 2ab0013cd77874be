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

// Package collate wraps golang.org/x/text/collate to provide cached
// collation keys per strength level, and a prefix comparator over the
// collation-key byte encoding. It is the adapter the core uses to satisfy
// the "collator contract" of the slob specification: collationKey(string,
// strength) -> bytes, with a total order matching byte-lexicographic
// comparison of those keys.
package collate

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Level mirrors the strength levels a slob archive's lookup protocol can
// be evaluated at.
type Level int

// Levels are ordered strongest to weakest, mirroring ICU's collator
// strength constants as used by the original slob implementation.
const (
	Identical Level = iota
	Quaternary
	Tertiary
	Secondary
	Primary
)

func (l Level) collateLevel() collate.Level {
	switch l {
	case Identical:
		return collate.Identity
	case Quaternary:
		return collate.Quaternary
	case Tertiary:
		return collate.Tertiary
	case Secondary:
		return collate.Secondary
	case Primary:
		return collate.Primary
	default:
		return collate.Tertiary
	}
}

// keyCache is a bounded, mutex-guarded string -> collation-key-bytes cache
// shared by both the exact and prefix comparators of one strength level.
type keyCache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, []byte]
}

func newKeyCache(capacity int) *keyCache {
	c, _ := lru.New[string, []byte](capacity)
	return &keyCache{lru: c}
}

// Adapter produces collation keys for the configured Unicode locale with
// alternate handling set to "shifted" (punctuation is quaternary), caching
// results per strength level. An Adapter is safe for concurrent use.
type Adapter struct {
	mu         sync.Mutex
	collators  map[Level]*collate.Collator
	caches     map[Level]*keyCache
	cacheSize  int
}

// DefaultCacheSize is the per-strength collation-key cache capacity used
// when none is given to New.
const DefaultCacheSize = 4096

// New returns an Adapter whose per-strength collation-key caches each hold
// up to cacheSize entries. A cacheSize <= 0 uses DefaultCacheSize.
// IDENTICAL strength is not cached, matching the reference implementation
// (IDENTICAL is never reached by the multi-archive merge).
func New(cacheSize int) *Adapter {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	a := &Adapter{
		collators: make(map[Level]*collate.Collator),
		caches:    make(map[Level]*keyCache),
		cacheSize: cacheSize,
	}
	for _, lvl := range []Level{Quaternary, Tertiary, Secondary, Primary} {
		a.caches[lvl] = newKeyCache(cacheSize)
	}
	for _, lvl := range []Level{Identical, Quaternary, Tertiary, Secondary, Primary} {
		c := collate.New(language.Und, collate.Loose)
		c.Strength = lvl.collateLevel()
		a.collators[lvl] = c
	}
	return a
}

// Key returns the collation key bytes for s at the given strength,
// consulting (and populating) the shared per-strength cache.
func (a *Adapter) Key(lvl Level, s string) []byte {
	cache := a.caches[lvl]
	if cache != nil {
		cache.mu.Lock()
		if key, ok := cache.lru.Get(s); ok {
			cache.mu.Unlock()
			return key
		}
		cache.mu.Unlock()
	}

	a.mu.Lock()
	c := a.collators[lvl]
	var buf collate.Buffer
	key := append([]byte(nil), c.KeyFromString(&buf, s)...)
	a.mu.Unlock()

	if cache != nil {
		cache.mu.Lock()
		cache.lru.Add(s, key)
		cache.mu.Unlock()
	}
	return key
}

// Compare returns the signed comparison of the collation keys of x and y
// at the given strength: negative if x < y, zero if equal, positive if
// x > y.
func (a *Adapter) Compare(lvl Level, x, y string) int {
	kx := a.Key(lvl, x)
	ky := a.Key(lvl, y)
	return compareBytes(kx, ky)
}

// ComparePrefix compares the collation key of x against the collation key
// of target (at the given strength) byte-by-byte. It returns 0 when
// target's key is a byte-prefix of x's key (a prefix match), -1 when x's
// key ends before target's key does (x sorts before any string with
// target as a prefix), and otherwise -1 or 1 according to which key has
// the smaller byte at the first differing position.
//
// This defines an ordering in which every string whose collation key
// starts with target's key compares equal to target, forming a contiguous
// range in a key-sorted list -- the prefix-matching variant of lookup.
func (a *Adapter) ComparePrefix(lvl Level, x, target string) int {
	kx := a.Key(lvl, x)
	kt := a.Key(lvl, target)
	for i := 0; ; i++ {
		var xb, tb byte
		if i < len(kx) {
			xb = kx[i]
		}
		if i < len(kt) {
			tb = kt[i]
		}
		if tb == 0 {
			return 0
		}
		if xb == 0 {
			return -1
		}
		if xb != tb {
			if xb < tb {
				return -1
			}
			return 1
		}
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
