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
	"testing"

	"github.com/google/uuid"

	"github.com/aardbook/goslob/internal/testutil"
)

// buildTestArchive synthesizes a minimal archive whose ref-list has one
// entry per key, each pointing at a distinct one-item bin holding the key
// itself as its content. It is shared by this package's internal
// (white-box) tests.
func buildTestArchive(t *testing.T, keys []string) []byte {
	t.Helper()

	b := testutil.NewBuilder(uuid.New())
	for _, k := range keys {
		b.AddBlob("text/plain", []byte(k), k)
	}
	return b.Build()
}
