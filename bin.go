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
	"encoding/binary"
	"fmt"
)

// bin is a decompressed content container holding count items. Layout:
// count 32-bit big-endian offsets (from the start of the data region),
// followed by the data region; each item is a 32-bit big-endian content
// length followed by that many bytes.
type bin struct {
	data  []byte
	count int
}

const binPosEntrySize = 4

func newBin(data []byte, count int) *bin {
	return &bin{data: data, count: count}
}

// item returns a read-only view of the i-th item's bytes. The returned
// slice aliases b.data and is only valid as long as the owning StoreItem
// keeps its decoded bin cached.
func (b *bin) item(i int) ([]byte, error) {
	if i < 0 || i >= b.count {
		return nil, fmt.Errorf("%w: bin item %d (count %d)", ErrIndexOutOfRange, i, b.count)
	}
	posTableEnd := b.count * binPosEntrySize
	ptrOff := i * binPosEntrySize
	if ptrOff+4 > len(b.data) {
		return nil, fmt.Errorf("%w: bin position table", ErrTruncatedFile)
	}
	offset := binary.BigEndian.Uint32(b.data[ptrOff:])

	dataStart := posTableEnd + int(offset)
	if dataStart+4 > len(b.data) {
		return nil, fmt.Errorf("%w: bin item length", ErrTruncatedFile)
	}
	length := binary.BigEndian.Uint32(b.data[dataStart:])
	start := dataStart + 4
	end := start + int(length)
	if end > len(b.data) {
		return nil, fmt.Errorf("%w: bin item body", ErrTruncatedFile)
	}
	return b.data[start:end], nil
}
