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

// Package rawio provides positional, big-endian reads of fixed-width
// integers, length-prefixed strings, and UUIDs over a seekable byte
// source. It is the lowest-level building block of the slob archive
// reader: every higher-level component reads through a Reader.
package rawio

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ErrTruncated indicates that fewer bytes were available than requested.
var ErrTruncated = errors.New("rawio: truncated read")

// Reader performs positional reads against a seekable byte source. The
// source must support io.ReaderAt semantics: concurrent calls to Reader's
// methods from multiple goroutines are safe only if the underlying
// io.ReaderAt is safe for concurrent use (e.g. *os.File, or a
// memory-mapped byte slice).
type Reader struct {
	src io.ReaderAt
}

// New returns a Reader over src.
func New(src io.ReaderAt) *Reader {
	return &Reader{src: src}
}

func (r *Reader) read(buf []byte, pos int64) error {
	n, err := r.src.ReadAt(buf, pos)
	if n == len(buf) {
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("rawio: %w", err)
	}
	return fmt.Errorf("%w: wanted %d bytes at %d, got %d", ErrTruncated, len(buf), pos, n)
}

// Uint8 reads an 8-bit unsigned integer at pos.
func (r *Reader) Uint8(pos int64) (uint8, error) {
	var b [1]byte
	if err := r.read(b[:], pos); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a big-endian 16-bit unsigned integer at pos.
func (r *Reader) Uint16(pos int64) (uint16, error) {
	var b [2]byte
	if err := r.read(b[:], pos); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Uint32 reads a big-endian 32-bit unsigned integer at pos.
func (r *Reader) Uint32(pos int64) (uint32, error) {
	var b [4]byte
	if err := r.read(b[:], pos); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Uint64 reads a big-endian 64-bit unsigned integer at pos.
func (r *Reader) Uint64(pos int64) (uint64, error) {
	var b [8]byte
	if err := r.read(b[:], pos); err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Int64 reads a big-endian signed 64-bit integer at pos.
func (r *Reader) Int64(pos int64) (int64, error) {
	v, err := r.Uint64(pos)
	return int64(v), err
}

// Bytes reads n raw bytes at pos.
func (r *Reader) Bytes(pos int64, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := r.read(b, pos); err != nil {
		return nil, err
	}
	return b, nil
}

// UUID reads a 16-byte big-endian UUID at pos.
func (r *Reader) UUID(pos int64) (uuid.UUID, error) {
	b, err := r.Bytes(pos, 16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// TinyText reads a length-prefixed string: one length byte L followed by
// L bytes, returned as a Go string without any decoding (slob archives
// always use UTF-8 in practice); callers are responsible for re-decoding
// bytes that are not valid UTF-8 if a different encoding is declared.
//
// As a compatibility quirk of older slob writers: if L == 255 and the
// payload contains a NUL byte, the string is truncated at the first NUL.
// For L < 255 no truncation occurs.
func (r *Reader) TinyText(pos int64) (s string, bytesRead int64, err error) {
	length, err := r.Uint8(pos)
	if err != nil {
		return "", 0, err
	}
	data, err := r.Bytes(pos+1, int(length))
	if err != nil {
		return "", 0, err
	}
	if length == 255 {
		if i := indexByte(data, 0); i >= 0 {
			data = data[:i]
		}
	}
	return string(data), 1 + int64(length), nil
}

// Text reads a length-prefixed string: one big-endian 16-bit length
// followed by that many bytes. Writers never emit lengths >= 32768.
func (r *Reader) Text(pos int64) (s string, bytesRead int64, err error) {
	length, err := r.Uint16(pos)
	if err != nil {
		return "", 0, err
	}
	data, err := r.Bytes(pos+2, int(length))
	if err != nil {
		return "", 0, err
	}
	return string(data), 2 + int64(length), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
