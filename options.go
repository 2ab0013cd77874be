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

// openConfig holds the tunables an OpenOption can set, mirroring the
// idx.ScannerOptions/DefaultScannerOptions pattern: a single options
// struct with package-level defaults, rather than a long parameter list.
type openConfig struct {
	refCacheSize       int
	keyCacheSize       int
	storeCacheSize     int
	collationCacheSize int
	mapFile            bool
}

// DefaultOpenConfig mirrors the cache capacities specified for a slob
// archive: 256 entries for the ref and key caches, 4 for the store-item
// cache, and 4096 per strength for the collation-key cache.
var DefaultOpenConfig = openConfig{
	refCacheSize:       256,
	keyCacheSize:       256,
	storeCacheSize:     4,
	collationCacheSize: 4096,
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithRefCacheSize overrides the ref-list item cache capacity.
func WithRefCacheSize(n int) OpenOption {
	return func(c *openConfig) { c.refCacheSize = n }
}

// WithKeyCacheSize overrides the key-list item cache capacity.
func WithKeyCacheSize(n int) OpenOption {
	return func(c *openConfig) { c.keyCacheSize = n }
}

// WithStoreCacheSize overrides the store-item (decoded bin) cache
// capacity. Keep this small: each entry can hold an entire decompressed
// bin in memory.
func WithStoreCacheSize(n int) OpenOption {
	return func(c *openConfig) { c.storeCacheSize = n }
}

// WithCollationCacheSize overrides the per-strength collation-key cache
// capacity.
func WithCollationCacheSize(n int) OpenOption {
	return func(c *openConfig) { c.collationCacheSize = n }
}

// WithMemoryMap makes Open memory-map the archive file instead of issuing
// ReadAt calls through an *os.File, per the "per-call-opened handles" vs.
// "memory-mapped" allowance on the byte source. It has no effect on
// OpenBytes, which is already backed by an in-memory slice.
func WithMemoryMap(mapFile bool) OpenOption {
	return func(c *openConfig) { c.mapFile = mapFile }
}
