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

	"github.com/aardbook/goslob/internal/rawio"
)

// Ref is one reference-list entry: a lookup key, the location of its
// content (binIndex, itemIndex), and an optional in-content anchor.
type Ref struct {
	Key       string
	BinIndex  uint32
	ItemIndex uint16
	Fragment  string
}

// Keyed is the minimal shape used for key comparisons during binary
// search: the key-list projection of a Ref.
type Keyed struct {
	Key string
}

func decodeRef(encoding string) func(r *rawio.Reader, pos int64) (Ref, error) {
	return func(r *rawio.Reader, pos int64) (Ref, error) {
		key, n, err := r.Text(pos)
		if err != nil {
			return Ref{}, fmt.Errorf("reading ref key: %w", err)
		}
		pos += n

		binIndex, err := r.Uint32(pos)
		if err != nil {
			return Ref{}, fmt.Errorf("reading ref bin index: %w", err)
		}
		pos += 4

		itemIndex, err := r.Uint16(pos)
		if err != nil {
			return Ref{}, fmt.Errorf("reading ref item index: %w", err)
		}
		pos += 2

		fragment, _, err := r.TinyText(pos)
		if err != nil {
			return Ref{}, fmt.Errorf("reading ref fragment: %w", err)
		}

		return Ref{Key: key, BinIndex: binIndex, ItemIndex: itemIndex, Fragment: fragment}, nil
	}
}

func decodeKeyed(encoding string) func(r *rawio.Reader, pos int64) (Keyed, error) {
	return func(r *rawio.Reader, pos int64) (Keyed, error) {
		key, _, err := r.Text(pos)
		if err != nil {
			return Keyed{}, fmt.Errorf("reading key: %w", err)
		}
		return Keyed{Key: key}, nil
	}
}
