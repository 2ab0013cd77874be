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

	"github.com/aardbook/goslob/internal/rawio"
)

// storeItem holds one store entry: the content-type-ID of each in-bin
// item and, lazily, either the still-compressed payload or the decoded
// bin. The transition from compressed to decoded is one-way and happens
// on first content access; the compressed buffer is released once
// decoded to bound memory retention.
type storeItem struct {
	contentTypeIDs []byte

	mu         sync.Mutex
	compressed []byte
	decoded    *bin
}

func decodeStoreItem(r *rawio.Reader, pos int64) (*storeItem, error) {
	binItemCount, err := r.Uint32(pos)
	if err != nil {
		return nil, fmt.Errorf("reading bin item count: %w", err)
	}
	pos += 4

	ids, err := r.Bytes(pos, int(binItemCount))
	if err != nil {
		return nil, fmt.Errorf("reading content type ids: %w", err)
	}
	pos += int64(binItemCount)

	compressedLen, err := r.Uint32(pos)
	if err != nil {
		return nil, fmt.Errorf("reading compressed length: %w", err)
	}
	pos += 4

	compressed, err := r.Bytes(pos, int(compressedLen))
	if err != nil {
		return nil, fmt.Errorf("reading compressed payload: %w", err)
	}

	return &storeItem{contentTypeIDs: ids, compressed: compressed}, nil
}

// binItem returns the decompressed bytes of the itemIndex-th item in this
// store item's bin, decompressing (and releasing the compressed payload)
// on first access.
func (s *storeItem) binItem(itemIndex int, d Decompressor) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.decoded == nil {
		decompressed, err := d.Decompress(s.compressed)
		if err != nil {
			return nil, fmt.Errorf("decompressing bin: %w", err)
		}
		s.decoded = newBin(decompressed, len(s.contentTypeIDs))
		s.compressed = nil
	}
	return s.decoded.item(itemIndex)
}

// store is the content store: an item-list of compressed bins.
type store struct {
	items        *itemList[*storeItem]
	compression  string
	contentTypes []string
}

func newStore(r *rawio.Reader, offset int64, cacheSize int, compression string, contentTypes []string) (*store, error) {
	items, err := newItemList(r, offset, cacheSize, decodeStoreItem)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &store{items: items, compression: compression, contentTypes: contentTypes}, nil
}

func (s *store) decompressor() (Decompressor, error) {
	d, ok := lookupDecompressor(s.compression)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, s.compression)
	}
	return d, nil
}

// content returns the content bytes and content type for (binIndex,
// itemIndex). The returned byte slice aliases the store's decoded-bin
// cache and is only valid until that bin is evicted; callers needing a
// longer lifetime must copy.
func (s *store) content(binIndex uint32, itemIndex uint16) ([]byte, string, error) {
	item, err := s.items.Get(int64(binIndex))
	if err != nil {
		return nil, "", fmt.Errorf("fetching bin %d: %w", binIndex, err)
	}
	if int(itemIndex) >= len(item.contentTypeIDs) {
		return nil, "", fmt.Errorf("%w: item %d in bin %d", ErrIndexOutOfRange, itemIndex, binIndex)
	}

	d, err := s.decompressor()
	if err != nil {
		return nil, "", err
	}
	data, err := item.binItem(int(itemIndex), d)
	if err != nil {
		return nil, "", fmt.Errorf("reading content for bin %d item %d: %w", binIndex, itemIndex, err)
	}

	typeID := item.contentTypeIDs[itemIndex]
	if int(typeID) >= len(s.contentTypes) {
		return nil, "", fmt.Errorf("%w: content type id %d", ErrIndexOutOfRange, typeID)
	}
	return data, s.contentTypes[typeID], nil
}

func (s *store) contentType(binIndex uint32, itemIndex uint16) (string, error) {
	item, err := s.items.Get(int64(binIndex))
	if err != nil {
		return "", fmt.Errorf("fetching bin %d: %w", binIndex, err)
	}
	if int(itemIndex) >= len(item.contentTypeIDs) {
		return "", fmt.Errorf("%w: item %d in bin %d", ErrIndexOutOfRange, itemIndex, binIndex)
	}
	typeID := item.contentTypeIDs[itemIndex]
	if int(typeID) >= len(s.contentTypes) {
		return "", fmt.Errorf("%w: content type id %d", ErrIndexOutOfRange, typeID)
	}
	return s.contentTypes[typeID], nil
}
