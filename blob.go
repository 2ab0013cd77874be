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

import "fmt"

// Content is the typed byte view of one matched entry. Data aliases
// memory owned by the store's bin cache and is only valid as long as
// that bin remains cached; callers requiring a longer lifetime must copy.
type Content struct {
	Type string
	Data []byte
}

// Blob is an opaque, stable handle for one content item within an
// Archive. Blob holds a non-owning back-reference to its owner; the
// Archive exclusively owns the caches a Blob's content is dereferenced
// through.
type Blob struct {
	owner    *Archive
	id       string
	key      string
	fragment string

	binIndex  uint32
	itemIndex uint16
}

func newBlob(owner *Archive, ref Ref) Blob {
	return Blob{
		owner:     owner,
		id:        fmt.Sprintf("%d-%d", ref.BinIndex, ref.ItemIndex),
		key:       ref.Key,
		fragment:  ref.Fragment,
		binIndex:  ref.BinIndex,
		itemIndex: ref.ItemIndex,
	}
}

// Owner returns the Archive this Blob was produced by.
func (b Blob) Owner() *Archive { return b.owner }

// ID returns the blob's stable identifier, of the form
// "binIndex-itemIndex".
func (b Blob) ID() string { return b.id }

// Key returns the lookup key that matched this Blob.
func (b Blob) Key() string { return b.key }

// Fragment returns the blob's optional in-content anchor, or "" if none.
func (b Blob) Fragment() string { return b.fragment }

// Equal reports whether two Blobs refer to the same content item in the
// same archive and carry the same fragment. Equality compares all four
// fields (owner, id, key, fragment), matching the reference
// implementation's Blob.equals.
func (b Blob) Equal(other Blob) bool {
	return b.owner.Equal(other.owner) &&
		b.id == other.id &&
		b.key == other.key &&
		b.fragment == other.fragment
}

// Content dereferences the Blob through its owning Archive's store and
// returns the matched content type and bytes.
func (b Blob) Content() (Content, error) {
	data, ctype, err := b.owner.store.content(b.binIndex, b.itemIndex)
	if err != nil {
		return Content{}, err
	}
	return Content{Type: ctype, Data: data}, nil
}

// ContentType resolves only the content type, without decompressing the
// bin the content lives in.
func (b Blob) ContentType() (string, error) {
	return b.owner.store.contentType(b.binIndex, b.itemIndex)
}

// dedupKey returns the identity used by the multi-archive merge to
// suppress duplicate emissions: "<archive-uuid>:<blob-id>#<fragment>".
func (b Blob) dedupKey() string {
	return fmt.Sprintf("%s:%s#%s", b.owner.ID().String(), b.id, b.fragment)
}
