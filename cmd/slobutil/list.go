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

package main

import (
	"fmt"
	"os"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "List archive headers",
	ArgsUsage: "ARCHIVE [ARCHIVE...]",
	Action: func(c *cli.Context) error {
		paths := c.Args().Slice()
		if len(paths) == 0 {
			return ErrNoArchives
		}

		archives, errs := openArchives(paths)
		defer closeArchives(archives)
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}

		tbl := table.New("URI", "UUID", "Size", "Blobs", "Compression")
		for _, a := range archives {
			tbl.AddRow(a.URI(), a.ID(), a.Size(), a.BlobCount(), a.Header.Compression)
		}
		tbl.Print()

		if len(errs) > 0 {
			return cli.Exit("", ExitCodeUnknownError)
		}
		return nil
	},
}
