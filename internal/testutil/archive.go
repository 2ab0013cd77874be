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

// Package testutil synthesizes valid slob archive byte streams in
// memory, the way internal/testutil/dict.go and internal/testutil/idx.go
// build raw .dict/.idx bytes for stardict tests, and the way the
// reference implementation's mktestslob.py builds fixture archives for
// its own test suite. Tests construct archives with a Builder rather
// than depending on checked-in binary fixtures.
package testutil

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"
)

// Item is one content item to place in a bin.
type Item struct {
	ContentType string
	Data        []byte
}

type ref struct {
	key       string
	binIndex  uint32
	itemIndex uint16
	fragment  string
}

type binItem struct {
	contentTypeID byte
	data          []byte
}

// Builder accumulates tags, content, and references, then renders them
// to the on-disk slob byte layout with Build.
type Builder struct {
	Encoding string
	ID       uuid.UUID

	tags         map[string]string
	tagOrder     []string
	contentTypes []string
	contentTypeIndex map[string]int
	bins         [][]binItem
	refs         []ref
}

// NewBuilder returns a Builder for a UTF-8, zlib-compressed archive with
// the given UUID.
func NewBuilder(id uuid.UUID) *Builder {
	return &Builder{
		Encoding:         "UTF-8",
		ID:               id,
		tags:             make(map[string]string),
		contentTypeIndex: make(map[string]int),
	}
}

// Tag sets a header tag.
func (b *Builder) Tag(key, value string) *Builder {
	if _, ok := b.tags[key]; !ok {
		b.tagOrder = append(b.tagOrder, key)
	}
	b.tags[key] = value
	return b
}

func (b *Builder) contentTypeID(ct string) byte {
	if id, ok := b.contentTypeIndex[ct]; ok {
		return byte(id)
	}
	id := len(b.contentTypes)
	b.contentTypes = append(b.contentTypes, ct)
	b.contentTypeIndex[ct] = id
	return byte(id)
}

// AddBin adds a new bin holding items, returning its bin index.
func (b *Builder) AddBin(items ...Item) uint32 {
	binIndex := uint32(len(b.bins))
	bi := make([]binItem, len(items))
	for i, it := range items {
		bi[i] = binItem{contentTypeID: b.contentTypeID(it.ContentType), data: it.Data}
	}
	b.bins = append(b.bins, bi)
	return binIndex
}

// AddRef adds a reference-list entry pointing at (binIndex, itemIndex).
func (b *Builder) AddRef(key string, binIndex uint32, itemIndex uint16, fragment string) *Builder {
	b.refs = append(b.refs, ref{key: key, binIndex: binIndex, itemIndex: itemIndex, fragment: fragment})
	return b
}

// AddBlob is a convenience that creates a single-item bin for data and
// adds one reference per key, all pointing at that item with no
// fragment. It returns the new item's bin index and in-bin item index.
func (b *Builder) AddBlob(contentType string, data []byte, keys ...string) (binIndex uint32, itemIndex uint16) {
	binIndex = b.AddBin(Item{ContentType: contentType, Data: data})
	for _, k := range keys {
		b.AddRef(k, binIndex, 0, "")
	}
	return binIndex, 0
}

func tinyText(s string) []byte {
	b := make([]byte, 1+len(s))
	b[0] = byte(len(s))
	copy(b[1:], s)
	return b
}

func text(s string) []byte {
	b := make([]byte, 2+len(s))
	binary.BigEndian.PutUint16(b, uint16(len(s)))
	copy(b[2:], s)
	return b
}

func encodeBin(items []binItem) []byte {
	var data bytes.Buffer
	offsets := make([]uint32, len(items))
	for i, it := range items {
		offsets[i] = uint32(data.Len())
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(it.data)))
		data.Write(lenBuf[:])
		data.Write(it.data)
	}
	var out bytes.Buffer
	for _, off := range offsets {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], off)
		out.Write(b[:])
	}
	out.Write(data.Bytes())
	return out.Bytes()
}

// Build renders the archive to its on-disk byte layout. Refs are sorted
// by key using Go's default string ordering, which coincides with
// quaternary Unicode collation order for the plain ASCII keys test
// fixtures use.
func (b *Builder) Build() []byte {
	sortedRefs := append([]ref(nil), b.refs...)
	sort.SliceStable(sortedRefs, func(i, j int) bool { return sortedRefs[i].key < sortedRefs[j].key })

	var store bytes.Buffer
	storePositions := make([]uint64, len(b.bins))
	for i, items := range b.bins {
		storePositions[i] = uint64(store.Len())

		var ids bytes.Buffer
		for _, it := range items {
			ids.WriteByte(it.contentTypeID)
		}

		raw := encodeBin(items)
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		zw.Write(raw)
		zw.Close()

		var head [4]byte
		binary.BigEndian.PutUint32(head[:], uint32(len(items)))
		store.Write(head[:])
		store.Write(ids.Bytes())
		binary.BigEndian.PutUint32(head[:], uint32(compressed.Len()))
		store.Write(head[:])
		store.Write(compressed.Bytes())
	}

	var refsData bytes.Buffer
	refPositions := make([]uint64, len(sortedRefs))
	for i, r := range sortedRefs {
		refPositions[i] = uint64(refsData.Len())
		refsData.Write(text(r.key))
		var bi [4]byte
		binary.BigEndian.PutUint32(bi[:], r.binIndex)
		refsData.Write(bi[:])
		var ii [2]byte
		binary.BigEndian.PutUint16(ii[:], r.itemIndex)
		refsData.Write(ii[:])
		refsData.Write(tinyText(r.fragment))
	}

	var out bytes.Buffer
	out.Write([]byte{0x21, 0x2d, 0x31, 0x53, 0x4c, 0x4f, 0x42, 0x1f})
	uuidBytes, _ := b.ID.MarshalBinary()
	out.Write(uuidBytes)
	out.Write(tinyText(b.Encoding))
	out.Write(tinyText("zlib"))

	out.WriteByte(byte(len(b.tagOrder)))
	for _, k := range b.tagOrder {
		out.Write(tinyText(k))
		out.Write(tinyText(b.tags[k]))
	}

	out.WriteByte(byte(len(b.contentTypes)))
	for _, ct := range b.contentTypes {
		out.Write(text(ct))
	}

	var blobCount uint32
	for _, items := range b.bins {
		blobCount += uint32(len(items))
	}
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], blobCount)
	out.Write(u32[:])

	// storeOffset is relative to the start of the file; it sits right
	// after the refs list, whose length we only know once rendered, so
	// render refs to a scratch buffer first (done above) and compute
	// storeOffset = headerLenSoFar + 16 (for storeOffset+size fields) +
	// refList length.
	headerTailLen := int64(8 + 8) // storeOffset + size fields
	refListLen := int64(4+len(sortedRefs)*8) + int64(refsData.Len())
	storeOffset := int64(out.Len()) + headerTailLen + refListLen

	var i64 [8]byte
	binary.BigEndian.PutUint64(i64[:], uint64(storeOffset))
	out.Write(i64[:])

	fileSize := storeOffset + int64(4+len(b.bins)*8) + int64(store.Len())
	binary.BigEndian.PutUint64(i64[:], uint64(fileSize))
	out.Write(i64[:])

	// Ref list.
	binary.BigEndian.PutUint32(u32[:], uint32(len(sortedRefs)))
	out.Write(u32[:])
	for _, p := range refPositions {
		binary.BigEndian.PutUint64(i64[:], p)
		out.Write(i64[:])
	}
	out.Write(refsData.Bytes())

	// Store.
	binary.BigEndian.PutUint32(u32[:], uint32(len(b.bins)))
	out.Write(u32[:])
	for _, p := range storePositions {
		binary.BigEndian.PutUint64(i64[:], p)
		out.Write(i64[:])
	}
	out.Write(store.Bytes())

	return out.Bytes()
}
