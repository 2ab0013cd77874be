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
	"log/slog"
	"sort"
)

// PeekableIterator is a BlobIterator that additionally allows inspecting
// the next Blob without consuming it.
type PeekableIterator interface {
	BlobIterator
	// Peek returns the Blob that the next call to Next/Blob would
	// yield, without advancing the iterator. It must only be called
	// when HasNext reports true.
	Peek() Blob
	// HasNext reports whether the iterator has a Blob available.
	HasNext() bool
}

// FindOption configures a multi-archive Find call.
type FindOption func(*findConfig)

type findConfig struct {
	preferred    *Archive
	upToStrength Strength
}

// WithPreferred biases emission order toward blobs owned by preferred
// (and, failing that, toward archives sharing preferred's URI) whenever
// two archives' matches are both at exact (non-prefix) strengths; this
// takes precedence over which exact strength each match was found at.
// Prefix matches are ordered without regard to preference.
func WithPreferred(preferred *Archive) FindOption {
	return func(c *findConfig) { c.preferred = preferred }
}

// WithUpToStrength bounds the strength cascade: once an archive's
// current strength equals upTo and its iterator drains, that archive is
// finished. The default, if unset, is PrimaryPrefix (the full cascade).
func WithUpToStrength(upTo Strength) FindOption {
	return func(c *findConfig) { c.upToStrength = upTo }
}

// findResult tracks one archive's current single-archive lookup and the
// strength it was opened at.
type findResult struct {
	iter     BlobIterator
	strength Strength
}

// mergeItem is one pending (blob, strength) slot in the merge buffer.
type mergeItem struct {
	blob     Blob
	strength Strength
}

// matchIterator implements the multi-archive merge: per-archive lookup
// iterators advanced strength-by-strength, merged through a priority
// buffer with preference- and strength-aware ordering, deduplicated by
// identity.
type matchIterator struct {
	key          string
	preferred    *Archive
	upToStrength Strength

	seen    map[string]struct{}
	buffer  []mergeItem
	results map[*Archive]*findResult
	order   []*Archive

	current Blob
}

// Find merges lookup results across archives, deduplicating matches and
// ordering them according to §4.8: exact matches in the preferred
// archive first, then exact matches in archives sharing the preferred
// URI, then remaining exact matches at the current strength in
// collation order, then the same cascade at weaker strengths, then
// prefix matches (where preference is intentionally muted).
func Find(key string, archives []*Archive, opts ...FindOption) PeekableIterator {
	cfg := findConfig{upToStrength: PrimaryPrefix}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &matchIterator{
		key:          key,
		preferred:    cfg.preferred,
		upToStrength: cfg.upToStrength,
		seen:         make(map[string]struct{}),
		results:      make(map[*Archive]*findResult),
		order:        archives,
	}
	for _, a := range archives {
		m.results[a] = m.nextResult(a, nil)
	}
	for _, a := range archives {
		m.updateBuffer(a)
	}
	return m
}

func (m *matchIterator) nextResult(a *Archive, current *findResult) *findResult {
	var strength Strength
	if current == nil {
		strength = Quaternary
	} else if current.strength == m.upToStrength {
		return nil
	} else {
		next, ok := nextStrength(current.strength)
		if !ok {
			return nil
		}
		strength = next
	}

	iter, err := a.find(m.key, strength)
	if err != nil {
		slog.Warn("slob: lookup failed, treating as empty for this strength",
			"archive", a.ID(), "strength", strength, "error", err)
		iter = emptyIterator{}
	}
	return &findResult{iter: iter, strength: strength}
}

func (m *matchIterator) updateBuffer(a *Archive) {
	result := m.results[a]
	if result == nil {
		return
	}
	for result.iter.Next() {
		blob := result.iter.Blob()
		key := blob.dedupKey()
		if _, dup := m.seen[key]; dup {
			continue
		}
		m.seen[key] = struct{}{}
		m.buffer = append(m.buffer, mergeItem{blob: blob, strength: result.strength})
		return
	}
	m.results[a] = m.nextResult(a, result)
	m.updateBuffer(a)
}

func (m *matchIterator) less(x, y mergeItem) bool {
	sx, sy := x.strength, y.strength
	dx, dy := x.blob.Owner(), y.blob.Owner()

	if !sx.IsPrefix() && !sy.IsPrefix() && !dx.Equal(dy) && m.preferred != nil {
		if dx.Equal(m.preferred) {
			return true
		}
		if dy.Equal(m.preferred) {
			return false
		}
		uriX, uriY := dx.URI(), dy.URI()
		if uriX != uriY {
			preferredURI := m.preferred.URI()
			if uriX == preferredURI {
				return true
			}
			if uriY == preferredURI {
				return false
			}
		}
	}

	if sx == sy {
		return sx.compare(dx.collator, x.blob.Key(), y.blob.Key()) < 0
	}
	return sx.rank() > sy.rank()
}

func (m *matchIterator) sortBuffer() {
	sort.SliceStable(m.buffer, func(i, j int) bool {
		return m.less(m.buffer[i], m.buffer[j])
	})
}

// HasNext implements PeekableIterator.
func (m *matchIterator) HasNext() bool {
	return len(m.buffer) > 0
}

// Peek implements PeekableIterator.
func (m *matchIterator) Peek() Blob {
	m.sortBuffer()
	return m.buffer[0].blob
}

// Next implements BlobIterator: it advances to, and reports the
// availability of, the next merged result.
func (m *matchIterator) Next() bool {
	if !m.HasNext() {
		return false
	}
	m.sortBuffer()
	item := m.buffer[0]
	m.buffer = m.buffer[1:]
	m.current = item.blob
	m.updateBuffer(item.blob.Owner())
	return true
}

// Blob implements BlobIterator.
func (m *matchIterator) Blob() Blob {
	return m.current
}
