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
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/mmap"

	"github.com/aardbook/goslob/internal/collate"
	"github.com/aardbook/goslob/internal/rawio"
)

// Archive is a handle to an open slob archive. An Archive exclusively
// owns a read-only byte source, a parsed Header, and per-archive LRU
// caches; it is immutable after construction and safe for concurrent
// read use as long as the underlying io.ReaderAt supports positional
// reads without shared mutable state (true of *os.File).
type Archive struct {
	Header *Header

	src      io.ReaderAt
	closer   io.Closer
	collator *collate.Adapter

	refs  *itemList[Ref]
	keys  *itemList[Keyed]
	store *store

	mu     sync.Mutex
	closed bool
}

// Open opens a slob archive at path, parses its header, and constructs
// its component readers and caches. It fails with ErrUnknownFileFormat
// if the magic number does not match, or ErrTruncatedFile if the
// header's declared size does not equal the file's actual length.
func Open(path string, opts ...OpenOption) (*Archive, error) {
	cfg := DefaultOpenConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.mapFile {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, fmt.Errorf("slob: opening %q: %w", path, err)
		}
		a, err := openArchive(r, int64(r.Len()), r, opts...)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("slob: opening %q: %w", path, err)
		}
		return a, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("slob: opening %q: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slob: opening %q: %w", path, err)
	}

	a, err := openArchive(f, fi.Size(), f, opts...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slob: opening %q: %w", path, err)
	}
	return a, nil
}

// nopCloser adapts a byte source with no real resource to release.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBytes opens a slob archive held entirely in memory, the way
// internal/testutil's fixtures are consumed by this package's own
// tests. It never touches disk.
func OpenBytes(data []byte, opts ...OpenOption) (*Archive, error) {
	return openArchive(bytesReaderAt(data), int64(len(data)), nopCloser{}, opts...)
}

// bytesReaderAt adapts a byte slice to io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, fmt.Errorf("bytesReaderAt: offset %d out of range", off)
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// openArchive constructs an Archive over src (used for positional
// reads, of the given size) and closer (closed by Close).
func openArchive(src io.ReaderAt, fileSize int64, closer io.Closer, opts ...OpenOption) (*Archive, error) {
	cfg := DefaultOpenConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r := rawio.New(src)
	header, err := parseHeader(r, fileSize)
	if err != nil {
		return nil, err
	}

	refs, err := newItemList(r, header.RefsOffset, cfg.refCacheSize, decodeRef(header.Encoding))
	if err != nil {
		return nil, fmt.Errorf("opening ref list: %w", err)
	}
	keys, err := newItemList(r, header.RefsOffset, cfg.keyCacheSize, decodeKeyed(header.Encoding))
	if err != nil {
		return nil, fmt.Errorf("opening key list: %w", err)
	}
	st, err := newStore(r, header.StoreOffset, cfg.storeCacheSize, header.Compression, header.ContentTypes)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Header:   header,
		src:      src,
		closer:   closer,
		collator: collate.New(cfg.collationCacheSize),
		refs:     refs,
		keys:     keys,
		store:    st,
	}, nil
}

// Close releases the archive's file handle. After Close, Get, GetContent,
// GetContentType and Find fail with ErrClosed. The header accessors (ID,
// Tags, URI, BlobCount, Size), Blob.Content, Blob.ContentType and the
// package-level Find do not check whether the archive is closed.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.closer.Close()
}

func (a *Archive) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}

// ID returns the archive's UUID.
func (a *Archive) ID() uuid.UUID { return a.Header.UUID }

// Tags returns the archive's tag map.
func (a *Archive) Tags() map[string]string { return a.Header.Tags }

// URI returns the value of tag "uri", or "slob:<uuid>" if absent.
func (a *Archive) URI() string { return a.Header.URI() }

// BlobCount returns the header's advisory total content-item count.
func (a *Archive) BlobCount() uint32 { return a.Header.BlobCount }

// Size returns the number of references (distinct (key, target) entries)
// in the archive.
func (a *Archive) Size() int64 { return a.refs.Count() }

// Equal reports whether two Archive handles identify the same underlying
// archive, by UUID, matching the reference implementation's Slob.equals.
func (a *Archive) Equal(other *Archive) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Header.UUID == other.Header.UUID
}

// Get returns the i-th reference, by ordinal position, as a Blob.
func (a *Archive) Get(i int64) (Blob, error) {
	if err := a.checkOpen(); err != nil {
		return Blob{}, err
	}
	if i < 0 || i >= a.refs.Count() {
		return Blob{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, a.refs.Count())
	}
	ref, err := a.refs.Get(i)
	if err != nil {
		return Blob{}, err
	}
	return newBlob(a, ref), nil
}

// splitBlobID parses a blob ID of the form "binIndex-itemIndex".
func splitBlobID(id string) (binIndex uint32, itemIndex uint16, err error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBlobIDMalformed, id)
	}
	bi, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBlobIDMalformed, id)
	}
	ii, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBlobIDMalformed, id)
	}
	return uint32(bi), uint16(ii), nil
}

// GetContent returns the content type and bytes for the given blob ID
// ("binIndex-itemIndex").
func (a *Archive) GetContent(blobID string) (Content, error) {
	if err := a.checkOpen(); err != nil {
		return Content{}, err
	}
	binIndex, itemIndex, err := splitBlobID(blobID)
	if err != nil {
		return Content{}, err
	}
	data, ctype, err := a.store.content(binIndex, itemIndex)
	if err != nil {
		return Content{}, err
	}
	return Content{Type: ctype, Data: data}, nil
}

// GetContentType returns the content type for the given blob ID, without
// decompressing its bin.
func (a *Archive) GetContentType(blobID string) (string, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}
	binIndex, itemIndex, err := splitBlobID(blobID)
	if err != nil {
		return "", err
	}
	return a.store.contentType(binIndex, itemIndex)
}

// Find performs a single-archive lookup: a lower-bound binary search on
// the key-list under the given Strength, followed by a forward scan
// while the stop comparator continues to match. Results are yielded in
// ref-list order (ascending collation). The returned iterator is
// single-pass and not restartable.
func (a *Archive) Find(key string, strength Strength) (BlobIterator, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	return a.find(key, strength)
}
