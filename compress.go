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
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"
)

// Decompressor decompresses the opaque payload of one store bin. The
// compression name declared in an archive's header selects which
// Decompressor is used; the core depends only on this narrow contract and
// never implements a compression algorithm itself.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// DecompressorFunc adapts a function to the Decompressor interface.
type DecompressorFunc func(data []byte) ([]byte, error)

// Decompress implements Decompressor.
func (f DecompressorFunc) Decompress(data []byte) ([]byte, error) {
	return f(data)
}

var (
	decompressorsMu sync.RWMutex
	decompressors   = map[string]Decompressor{
		"zlib":  DecompressorFunc(decompressZlib),
		"lzma2": DecompressorFunc(decompressLZMA2),
	}
)

// RegisterDecompressor makes a Decompressor available under the given
// compression name for subsequent calls to Open. It is safe to call from
// multiple goroutines. Registering under a name already in use replaces
// the previous Decompressor, matching the reference implementation's
// process-wide Compressor registry.
func RegisterDecompressor(name string, d Decompressor) {
	decompressorsMu.Lock()
	defer decompressorsMu.Unlock()
	decompressors[name] = d
}

func lookupDecompressor(name string) (Decompressor, bool) {
	decompressorsMu.RLock()
	defer decompressorsMu.RUnlock()
	d, ok := decompressors[name]
	return d, ok
}

func decompressZlib(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("slob: zlib: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("slob: zlib: %w", err)
	}
	return out, nil
}

func decompressLZMA2(data []byte) ([]byte, error) {
	r, err := lzma.NewReader2(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("slob: lzma2: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("slob: lzma2: %w", err)
	}
	return out, nil
}
