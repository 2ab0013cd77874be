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

import "errors"

// ErrUnknownFileFormat indicates that a file's magic number did not match
// the slob magic.
var ErrUnknownFileFormat = errors.New("slob: unknown file format")

// ErrTruncatedFile indicates that a file's declared size does not match
// its actual length, or that a decompressed bin is too short for its
// position table or item lengths.
var ErrTruncatedFile = errors.New("slob: truncated file")

// ErrEncoding indicates that string data could not be decoded using the
// archive's declared encoding. Go's []byte-to-string conversion cannot
// fail, so nothing currently returns this; it is kept for parity with the
// byte-reader contract this package's readers follow.
var ErrEncoding = errors.New("slob: encoding error")

// ErrClosed indicates that an operation was attempted on a closed Archive.
var ErrClosed = errors.New("slob: archive closed")

// ErrBlobIDMalformed indicates that a blob ID string was not of the form
// "binIndex-itemIndex".
var ErrBlobIDMalformed = errors.New("slob: malformed blob id")

// ErrIndexOutOfRange indicates that an ordinal index was outside the
// bounds of the archive's reference list, or that an in-bin item index or
// a content-type ID was outside its table.
var ErrIndexOutOfRange = errors.New("slob: index out of range")

// ErrUnknownCompression indicates that a header named a compression
// algorithm with no registered Decompressor.
var ErrUnknownCompression = errors.New("slob: unknown compression")
