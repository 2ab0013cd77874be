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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	goslob "github.com/aardbook/goslob"
)

// Exit codes mirror the reference CLI's own small, closed set.
const (
	ExitCodeSuccess int = iota
	ExitCodeFlagParseError
	ExitCodeUnknownError
)

// ErrSlobutil is a parent error for all command errors.
var ErrSlobutil = errors.New("slobutil")

// ErrNoArchives indicates that a command was given no archive paths to
// open.
var ErrNoArchives = fmt.Errorf("%w: no archives given", ErrSlobutil)

// openArchives opens every path in paths, collecting per-path errors
// rather than failing the whole command on the first bad archive -- this
// mirrors how the multi-archive merge itself treats one bad archive as
// merely empty rather than fatal.
func openArchives(paths []string) ([]*goslob.Archive, []error) {
	var archives []*goslob.Archive
	var errs []error
	for _, p := range paths {
		a, err := goslob.Open(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		archives = append(archives, a)
	}
	return archives, errs
}

func closeArchives(archives []*goslob.Archive) {
	for _, a := range archives {
		a.Close()
	}
}

func newSlobutilApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Query slob dictionary archives.",
		Description: strings.Join([]string{
			"Read-only slob archive utility written in Go.",
			"https://github.com/aardbook/goslob",
		}, "\n"),
		HideHelp:        false,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			listCommand,
			findCommand,
		},
	}
}
