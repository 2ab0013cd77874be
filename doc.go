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

// Package slob implements a read-only engine for the slob dictionary
// archive format.
//
// A slob archive is a single file carrying a self-describing header, a
// key index sorted by Unicode collation order, and a compressed content
// store. A slob file contains:
//
//  1. A header with a magic number, a UUID, the declared text encoding,
//     the name of the compressor used for the content store, a tag map,
//     and a content-type table.
//  2. A reference list: entries of (key, binIndex, itemIndex, fragment)
//     sorted ascending by key under quaternary collation.
//  3. A content store: a list of compressed bins, each bin holding several
//     content items addressed by (binIndex, itemIndex).
//
// More info on the on-disk format can be found in the package-level
// constants and in the original reference implementation at
// https://github.com/itkach/slob.
package slob
