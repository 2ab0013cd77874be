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

package slob_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/aardbook/goslob"
	"github.com/aardbook/goslob/internal/testutil"
)

// buildFixture constructs the fixture described by spec §8: two bins (two
// content items total) and four references, where "earth", "Earth" and
// "earthly" index the same blob and "zzz" indexes the second one.
func buildFixture(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	b := testutil.NewBuilder(id)
	b.Tag("sometag", "xyz")
	b.Tag("some.other.tag", "abc")

	earthBin, earthItem := b.AddBlob("text/plain; charset=utf-8", []byte("Hello, Earth!"))
	b.AddRef("earth", earthBin, earthItem, "")
	b.AddRef("Earth", earthBin, earthItem, "")
	b.AddRef("earthly", earthBin, earthItem, "")

	b.AddBlob("text/plain; charset=utf-8", []byte("Something else"), "zzz")

	return b.Build()
}

// TestArchive_E1_OpenAndCounts tests E1: opening the fixture reports the
// expected blob count, reference count, and a valid header.
func TestArchive_E1_OpenAndCounts(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	data := buildFixture(t, id)

	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	if got := a.BlobCount(); got != 2 {
		t.Errorf("BlobCount = %d, want 2", got)
	}
	if got := a.Size(); got != 4 {
		t.Errorf("Size = %d, want 4", got)
	}
	if a.ID() != id {
		t.Errorf("ID = %s, want %s", a.ID(), id)
	}
}

// TestArchive_E2_FindAndContent tests E2: a single-archive exact-strength
// lookup returns the matched content type and bytes.
func TestArchive_E2_FindAndContent(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it := slob.Find("earth", []*slob.Archive{a})
	if !it.Next() {
		t.Fatalf("Find(\"earth\") yielded no results")
	}
	blob := it.Blob()

	content, err := blob.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if content.Type != "text/plain; charset=utf-8" {
		t.Errorf("Content.Type = %q, want %q", content.Type, "text/plain; charset=utf-8")
	}
	if string(content.Data) != "Hello, Earth!" {
		t.Errorf("Content.Data = %q, want %q", content.Data, "Hello, Earth!")
	}
}

// TestArchive_E3_Tags tests E3: the archive's tag map round-trips.
func TestArchive_E3_Tags(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	tags := a.Tags()
	if tags["sometag"] != "xyz" {
		t.Errorf(`Tags()["sometag"] = %q, want "xyz"`, tags["sometag"])
	}
	if tags["some.other.tag"] != "abc" {
		t.Errorf(`Tags()["some.other.tag"] = %q, want "abc"`, tags["some.other.tag"])
	}
}

// TestArchive_E4_PrefixLookup tests E4: a prefix-strength lookup for "ear"
// reaches the "earth" reference and does not match references outside the
// prefix.
func TestArchive_E4_PrefixLookup(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it := slob.Find("ear", []*slob.Archive{a}, slob.WithUpToStrength(slob.PrimaryPrefix))

	var keys []string
	for it.Next() {
		keys = append(keys, it.Blob().Key())
	}

	if len(keys) == 0 {
		t.Fatalf("Find(\"ear\", PRIMARY_PREFIX) yielded no results")
	}
	for _, k := range keys {
		if len(k) < 3 || !hasPrefixFold(k, "ear") {
			t.Errorf("result key %q does not start with \"ear\"", k)
		}
	}
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if a >= 'A' && a <= 'Z' {
			a += 'a' - 'A'
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// TestArchive_E5_Preference tests E5: with two archives both containing
// "earth" and a preferred archive set, the first emitted blob belongs to
// the preferred archive.
func TestArchive_E5_Preference(t *testing.T) {
	t.Parallel()

	dataA := buildFixture(t, uuid.New())
	dataB := buildFixture(t, uuid.New())

	aArchive, err := slob.OpenBytes(dataA)
	if err != nil {
		t.Fatalf("OpenBytes A: %v", err)
	}
	defer aArchive.Close()

	bArchive, err := slob.OpenBytes(dataB)
	if err != nil {
		t.Fatalf("OpenBytes B: %v", err)
	}
	defer bArchive.Close()

	it := slob.Find("earth", []*slob.Archive{aArchive, bArchive}, slob.WithPreferred(bArchive))
	if !it.Next() {
		t.Fatalf("Find(\"earth\") yielded no results")
	}
	got := it.Blob()
	if !got.Owner().Equal(bArchive) {
		t.Errorf("first emitted blob owner = %s, want preferred archive %s", got.Owner().ID(), bArchive.ID())
	}
}

// TestArchive_E6_CacheEviction tests E6: reading a blob whose bin is
// evicted from the store cache and then re-requested returns
// byte-identical content.
func TestArchive_E6_CacheEviction(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	b := testutil.NewBuilder(id)
	for i := 0; i < 8; i++ {
		b.AddBlob("text/plain", []byte("payload"), string(rune('a'+i)))
	}
	data := b.Build()

	a, err := slob.OpenBytes(data, slob.WithStoreCacheSize(2))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	first, err := a.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	want, err := first.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	wantBytes := append([]byte(nil), want.Data...)

	// Force eviction of bin 0's store item by touching enough other bins.
	for i := int64(1); i < a.Size(); i++ {
		blob, err := a.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if _, err := blob.Content(); err != nil {
			t.Fatalf("Content(%d): %v", i, err)
		}
	}

	again, err := a.Get(0)
	if err != nil {
		t.Fatalf("Get(0) again: %v", err)
	}
	got, err := again.Content()
	if err != nil {
		t.Fatalf("Content again: %v", err)
	}
	if string(got.Data) != string(wantBytes) {
		t.Errorf("Content after eviction = %q, want %q", got.Data, wantBytes)
	}
}

// TestArchive_Closed tests that operations on a closed Archive fail with
// ErrClosed and that the Archive remains otherwise inert.
func TestArchive_Closed(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := a.Get(0); !errors.Is(err, slob.ErrClosed) {
		t.Errorf("Get after Close error = %v, want ErrClosed", err)
	}
	if _, err := a.Find("earth", slob.Quaternary); !errors.Is(err, slob.ErrClosed) {
		t.Errorf("Find after Close error = %v, want ErrClosed", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close error = %v, want nil", err)
	}
}

// TestArchive_GetContent_MalformedBlobID tests that a malformed blob ID is
// rejected with ErrBlobIDMalformed.
func TestArchive_GetContent_MalformedBlobID(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	if _, err := a.GetContent("not-a-blob-id-at-all"); !errors.Is(err, slob.ErrBlobIDMalformed) {
		t.Errorf("GetContent error = %v, want ErrBlobIDMalformed", err)
	}
	if _, err := a.GetContent("x-1"); !errors.Is(err, slob.ErrBlobIDMalformed) {
		t.Errorf("GetContent error = %v, want ErrBlobIDMalformed", err)
	}
}

// TestArchive_Get_IndexOutOfRange tests that an out-of-range ordinal index
// fails with ErrIndexOutOfRange.
func TestArchive_Get_IndexOutOfRange(t *testing.T) {
	t.Parallel()

	data := buildFixture(t, uuid.New())
	a, err := slob.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	if _, err := a.Get(a.Size()); !errors.Is(err, slob.ErrIndexOutOfRange) {
		t.Errorf("Get(Size()) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := a.Get(-1); !errors.Is(err, slob.ErrIndexOutOfRange) {
		t.Errorf("Get(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}
