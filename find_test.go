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
	"strings"
	"testing"
)

// TestLowerBound tests the binary-search contract of spec §8 property 3:
// for the sorted list [a, b, c, x, y], lower-bound returns the smallest
// index whose element is not less than the target.
func TestLowerBound(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b", "c", "x", "y"}
	cmp := func(target string) func(i int64) int {
		return func(i int64) int {
			return strings.Compare(list[i], target)
		}
	}

	tests := []struct {
		target   string
		expected int64
	}{
		{target: "a", expected: 0},
		{target: "9", expected: 0},
		{target: "z", expected: 5},
		{target: "y", expected: 4},
		{target: "c", expected: 2},
	}

	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			t.Parallel()

			got := lowerBound(int64(len(list)), cmp(test.target))
			if got != test.expected {
				t.Errorf("lowerBound(%q) = %d, want %d", test.target, got, test.expected)
			}
		})
	}
}

// TestLowerBound_EmptyList tests that an empty list always returns index
// 0.
func TestLowerBound_EmptyList(t *testing.T) {
	t.Parallel()

	got := lowerBound(0, func(i int64) int { return 0 })
	if got != 0 {
		t.Errorf("lowerBound on empty list = %d, want 0", got)
	}
}

// TestArchiveFind_SingleArchiveLookup tests that find performs a
// lower-bound binary search followed by a forward scan that stops on the
// first non-matching key, yielding results in ref-list order.
func TestArchiveFind_SingleArchiveLookup(t *testing.T) {
	t.Parallel()

	data := buildTestArchive(t, []string{"apple", "banana", "banana", "cherry"})
	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it, err := a.find("banana", Quaternary)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	var got []string
	for it.Next() {
		got = append(got, it.Blob().Key())
	}
	if len(got) != 2 {
		t.Fatalf("find(\"banana\") yielded %d results, want 2: %v", len(got), got)
	}
	for _, k := range got {
		if k != "banana" {
			t.Errorf("unexpected result key %q", k)
		}
	}
}

// TestArchiveFind_NoMatch tests that looking up a key absent from the
// ref-list yields no results.
func TestArchiveFind_NoMatch(t *testing.T) {
	t.Parallel()

	data := buildTestArchive(t, []string{"apple", "banana", "cherry"})
	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer a.Close()

	it, err := a.find("does-not-exist", Quaternary)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if it.Next() {
		t.Errorf("find(\"does-not-exist\") yielded a result, want none")
	}
}
