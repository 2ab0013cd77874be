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

import "github.com/aardbook/goslob/internal/collate"

// Strength selects how permissive a lookup's key matching is: a Unicode
// collation level, optionally in a prefix-matching variant. The five
// levels and their prefix variants form a fixed, closed set.
type Strength int

// Strength levels, ordered strongest to weakest, followed by their
// prefix-matching variants (always weaker than any exact level).
const (
	Identical Strength = iota
	Quaternary
	Tertiary
	Secondary
	Primary
	QuaternaryPrefix
	TertiaryPrefix
	SecondaryPrefix
	PrimaryPrefix
)

func (s Strength) String() string {
	switch s {
	case Identical:
		return "IDENTICAL"
	case Quaternary:
		return "QUATERNARY"
	case Tertiary:
		return "TERTIARY"
	case Secondary:
		return "SECONDARY"
	case Primary:
		return "PRIMARY"
	case QuaternaryPrefix:
		return "QUATERNARY_PREFIX"
	case TertiaryPrefix:
		return "TERTIARY_PREFIX"
	case SecondaryPrefix:
		return "SECONDARY_PREFIX"
	case PrimaryPrefix:
		return "PRIMARY_PREFIX"
	default:
		return "UNKNOWN"
	}
}

// IsPrefix reports whether s is a prefix-matching variant.
func (s Strength) IsPrefix() bool {
	return s >= QuaternaryPrefix
}

// level returns the collation level this strength is evaluated at,
// regardless of whether it is the exact or prefix variant.
func (s Strength) level() collate.Level {
	switch s {
	case Identical:
		return collate.Identical
	case Quaternary, QuaternaryPrefix:
		return collate.Quaternary
	case Tertiary, TertiaryPrefix:
		return collate.Tertiary
	case Secondary, SecondaryPrefix:
		return collate.Secondary
	case Primary, PrimaryPrefix:
		return collate.Primary
	default:
		return collate.Tertiary
	}
}

// rank orders strengths strongest-to-weakest for the merge's priority
// comparator: a higher rank is stronger. Every strength in the cascade,
// exact or prefix, gets a distinct rank so the comparator never treats
// two different strengths as tied, and every exact strength outranks
// every prefix strength.
func (s Strength) rank() int {
	switch s {
	case Quaternary:
		return 7
	case Tertiary:
		return 6
	case Secondary:
		return 5
	case Primary:
		return 4
	case QuaternaryPrefix:
		return 3
	case TertiaryPrefix:
		return 2
	case SecondaryPrefix:
		return 1
	case PrimaryPrefix:
		return 0
	default:
		return -1
	}
}

// nextStrength returns the next-weaker strength the multi-archive merge
// should fall back to, or ok == false once the cascade is exhausted.
// The cascade walks QUATERNARY..PRIMARY, then QUATERNARY_PREFIX..
// PRIMARY_PREFIX. IDENTICAL is never visited by the cascade.
func nextStrength(s Strength) (Strength, bool) {
	switch s {
	case Identical:
		return Quaternary, true
	case Quaternary:
		return Tertiary, true
	case Tertiary:
		return Secondary, true
	case Secondary:
		return Primary, true
	case Primary:
		return QuaternaryPrefix, true
	case QuaternaryPrefix:
		return TertiaryPrefix, true
	case TertiaryPrefix:
		return SecondaryPrefix, true
	case SecondaryPrefix:
		return PrimaryPrefix, true
	default:
		return 0, false
	}
}

// compare returns the exact comparator's signed comparison of x and y's
// keys at this strength.
func (s Strength) compare(a *collate.Adapter, x, y string) int {
	return a.Compare(s.level(), x, y)
}

// stop returns the signed "stop" comparison used to decide whether a
// forward scan should continue: the exact comparator for non-prefix
// strengths, the prefix comparator (compared against target) otherwise.
func (s Strength) stop(a *collate.Adapter, candidate, target string) int {
	if s.IsPrefix() {
		return a.ComparePrefix(s.level(), candidate, target)
	}
	return a.Compare(s.level(), candidate, target)
}
