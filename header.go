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

	"github.com/google/uuid"

	"github.com/aardbook/goslob/internal/rawio"
)

// Magic is the 8-byte magic number that identifies a slob archive.
var Magic = [8]byte{0x21, 0x2d, 0x31, 0x53, 0x4c, 0x4f, 0x42, 0x1f}

// Header holds the fields parsed from the start of a slob archive.
type Header struct {
	UUID         uuid.UUID
	Encoding     string
	Compression  string
	Tags         map[string]string
	ContentTypes []string
	BlobCount    uint32
	StoreOffset  int64
	RefsOffset   int64
	Size         int64
}

// parseHeader reads and validates the header at the start of r, which must
// represent a file of exactly fileSize bytes. It fails with
// ErrUnknownFileFormat if the magic does not match, or ErrTruncatedFile if
// the declared size does not equal fileSize.
func parseHeader(r *rawio.Reader, fileSize int64) (*Header, error) {
	magic, err := r.Bytes(0, len(Magic))
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	for i, b := range magic {
		if b != Magic[i] {
			return nil, ErrUnknownFileFormat
		}
	}
	pos := int64(len(Magic))

	id, err := r.UUID(pos)
	if err != nil {
		return nil, fmt.Errorf("reading uuid: %w", err)
	}
	pos += 16

	encoding, n, err := r.TinyText(pos)
	if err != nil {
		return nil, fmt.Errorf("reading encoding: %w", err)
	}
	pos += n

	compression, n, err := r.TinyText(pos)
	if err != nil {
		return nil, fmt.Errorf("reading compression: %w", err)
	}
	pos += n

	tags, n, err := readTags(r, pos)
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	pos += n

	contentTypes, n, err := readContentTypes(r, pos)
	if err != nil {
		return nil, fmt.Errorf("reading content types: %w", err)
	}
	pos += n

	blobCount, err := r.Uint32(pos)
	if err != nil {
		return nil, fmt.Errorf("reading blob count: %w", err)
	}
	pos += 4

	storeOffset, err := r.Int64(pos)
	if err != nil {
		return nil, fmt.Errorf("reading store offset: %w", err)
	}
	pos += 8

	size, err := r.Int64(pos)
	if err != nil {
		return nil, fmt.Errorf("reading file size: %w", err)
	}
	pos += 8

	if size != fileSize {
		return nil, ErrTruncatedFile
	}

	return &Header{
		UUID:         id,
		Encoding:     encoding,
		Compression:  compression,
		Tags:         tags,
		ContentTypes: contentTypes,
		BlobCount:    blobCount,
		StoreOffset:  storeOffset,
		RefsOffset:   pos,
		Size:         size,
	}, nil
}

func readTags(r *rawio.Reader, pos int64) (map[string]string, int64, error) {
	start := pos
	count, err := r.Uint8(pos)
	if err != nil {
		return nil, 0, err
	}
	pos++

	tags := make(map[string]string, count)
	for i := 0; i < int(count); i++ {
		key, n, err := r.TinyText(pos)
		if err != nil {
			return nil, 0, err
		}
		pos += n

		value, n, err := r.TinyText(pos)
		if err != nil {
			return nil, 0, err
		}
		pos += n

		// Last-wins on duplicate keys, matching the reference
		// implementation's HashMap.put semantics.
		tags[key] = value
	}
	return tags, pos - start, nil
}

func readContentTypes(r *rawio.Reader, pos int64) ([]string, int64, error) {
	start := pos
	count, err := r.Uint8(pos)
	if err != nil {
		return nil, 0, err
	}
	pos++

	types := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		ct, n, err := r.Text(pos)
		if err != nil {
			return nil, 0, err
		}
		pos += n
		types = append(types, ct)
	}
	return types, pos - start, nil
}

// URI returns the value of the "uri" tag, or "slob:<uuid>" if absent.
func (h *Header) URI() string {
	if uri, ok := h.Tags["uri"]; ok {
		return uri
	}
	return "slob:" + h.UUID.String()
}
