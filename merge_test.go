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

import "testing"

// TestFind_DedupAcrossStrengths tests spec §8 property 7: a match found at
// a strong strength is not re-emitted as the cascade falls back to weaker
// strengths.
func TestFind_DedupAcrossStrengths(t *testing.T) {
	t.Parallel()

	data := buildTestArchive(t, []string{"cat", "category"})
	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	// Bound to exact (non-prefix) strengths: the cascade from QUATERNARY
	// down to PRIMARY re-evaluates the same "cat" match at every level,
	// which must be deduped. Bounding below PRIMARY_PREFIX avoids also
	// picking up "category" as a prefix match, which is a separate blob.
	it := Find("cat", []*Archive{a}, WithUpToStrength(Primary))

	seen := make(map[string]int)
	for it.Next() {
		seen[it.Blob().dedupKey()]++
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("dedup key %q emitted %d times, want 1", key, count)
		}
	}
	if len(seen) != 1 {
		t.Errorf("Find(\"cat\") emitted %d distinct blobs, want 1", len(seen))
	}
}

// TestFind_UpToStrengthBound tests that the cascade stops at the bound
// given by WithUpToStrength: a key that only matches via a prefix lookup
// is not found when the cascade is bounded to an exact strength.
func TestFind_UpToStrengthBound(t *testing.T) {
	t.Parallel()

	data := buildTestArchive(t, []string{"category"})
	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it := Find("cat", []*Archive{a}, WithUpToStrength(Primary))
	if it.Next() {
		t.Errorf("Find(\"cat\", upTo=PRIMARY) yielded a result, want none (no exact match)")
	}

	it2 := Find("cat", []*Archive{a}, WithUpToStrength(PrimaryPrefix))
	if !it2.Next() {
		t.Errorf("Find(\"cat\", upTo=PRIMARY_PREFIX) yielded no results, want the \"category\" prefix match")
	}
}

// TestFind_ExactOutranksPrefixAcrossArchives tests spec §4.8's "prefix
// levels always weaker than any exact level" rule in the one shape that
// can actually violate it: two archives at different points in their own
// per-archive strength cascade, one still on an exact strength and the
// other already fallen through to a prefix strength. The exact match must
// sort first regardless of how the two archives' cascades happen to line
// up.
func TestFind_ExactOutranksPrefixAcrossArchives(t *testing.T) {
	t.Parallel()

	// "cät" only matches "cat" once accents are ignored, i.e. at PRIMARY:
	// QUATERNARY, TERTIARY, and SECONDARY all distinguish the diacritic.
	exactData := buildTestArchive(t, []string{"cät"})
	exact, err := OpenBytes(exactData)
	if err != nil {
		t.Fatalf("OpenBytes(exact): %v", err)
	}
	defer exact.Close()

	// "category" never matches "cat" at any exact strength; it only
	// surfaces once the cascade falls through to QUATERNARY_PREFIX, the
	// strongest prefix strength.
	prefixData := buildTestArchive(t, []string{"category"})
	prefix, err := OpenBytes(prefixData)
	if err != nil {
		t.Fatalf("OpenBytes(prefix): %v", err)
	}
	defer prefix.Close()

	it := Find("cat", []*Archive{exact, prefix})

	if !it.Next() {
		t.Fatalf("Find(\"cat\") yielded no results, want 2")
	}
	first := it.Blob()
	if first.Key() != "cät" {
		t.Errorf("first result key = %q, want %q (the exact PRIMARY match must outrank the QUATERNARY_PREFIX match)", first.Key(), "cät")
	}

	if !it.Next() {
		t.Fatalf("Find(\"cat\") yielded only 1 result, want 2")
	}
	if second := it.Blob(); second.Key() != "category" {
		t.Errorf("second result key = %q, want %q", second.Key(), "category")
	}

	if it.Next() {
		t.Errorf("Find(\"cat\") yielded a 3rd result, want exactly 2")
	}
}

// TestFind_NoArchives tests that Find over an empty archive set yields no
// results and does not panic.
func TestFind_NoArchives(t *testing.T) {
	t.Parallel()

	it := Find("anything", nil)
	if it.HasNext() {
		t.Errorf("HasNext() = true for an empty archive set")
	}
	if it.Next() {
		t.Errorf("Next() = true for an empty archive set")
	}
}

// TestFind_PeekDoesNotConsume tests that Peek repeated calls return the
// same Blob until Next is called.
func TestFind_PeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	data := buildTestArchive(t, []string{"alpha", "beta"})
	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it := Find("alpha", []*Archive{a})
	if !it.HasNext() {
		t.Fatalf("HasNext() = false, want true")
	}
	first := it.Peek()
	second := it.Peek()
	if !first.Equal(second) {
		t.Errorf("Peek() returned different Blobs across calls")
	}
	if !it.Next() {
		t.Fatalf("Next() = false, want true")
	}
	if !it.Blob().Equal(first) {
		t.Errorf("Next()'s Blob differs from the Peek()'d Blob")
	}
}
