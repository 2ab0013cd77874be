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

	"github.com/urfave/cli/v2"

	goslob "github.com/aardbook/goslob"
)

var strengthByName = map[string]goslob.Strength{
	"identical":         goslob.Identical,
	"quaternary":        goslob.Quaternary,
	"tertiary":          goslob.Tertiary,
	"secondary":         goslob.Secondary,
	"primary":           goslob.Primary,
	"quaternary-prefix": goslob.QuaternaryPrefix,
	"tertiary-prefix":   goslob.TertiaryPrefix,
	"secondary-prefix":  goslob.SecondaryPrefix,
	"primary-prefix":    goslob.PrimaryPrefix,
}

var findCommand = &cli.Command{
	Name:      "find",
	Usage:     "Find a key across one or more archives",
	ArgsUsage: "KEY ARCHIVE [ARCHIVE...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "up-to-strength",
			Usage: "weakest collation strength to fall back to (identical, quaternary, ..., primary-prefix)",
			Value: "primary-prefix",
		},
		&cli.StringFlag{
			Name:  "preferred",
			Usage: "URI (the \"uri\" tag, or slob:<uuid>) of the archive whose matches should be preferred",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results to print (0 for unlimited)",
			Value: 20,
		},
	},
	Action: func(c *cli.Context) error {
		args := c.Args().Slice()
		if len(args) < 2 {
			return cli.Exit("usage: slobutil find KEY ARCHIVE [ARCHIVE...]", ExitCodeFlagParseError)
		}
		key, paths := args[0], args[1:]

		upTo, ok := strengthByName[c.String("up-to-strength")]
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown strength %q", c.String("up-to-strength")), ExitCodeFlagParseError)
		}

		archives, errs := openArchives(paths)
		defer closeArchives(archives)
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}

		var opts []goslob.FindOption
		opts = append(opts, goslob.WithUpToStrength(upTo))
		if preferred := c.String("preferred"); preferred != "" {
			for _, a := range archives {
				if a.URI() == preferred {
					opts = append(opts, goslob.WithPreferred(a))
					break
				}
			}
		}

		it := goslob.Find(key, archives, opts...)
		limit := c.Int("limit")
		n := 0
		for it.Next() {
			if limit > 0 && n >= limit {
				break
			}
			blob := it.Blob()
			content, err := blob.Content()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s#%s: %v\n", blob.Key(), blob.Fragment(), err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\t%q\n", blob.Owner().URI(), blob.Key(), content.Type, content.Data)
			n++
		}

		if len(errs) > 0 {
			return cli.Exit("", ExitCodeUnknownError)
		}
		return nil
	},
}
