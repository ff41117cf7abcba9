// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sem/internal/errors"
	"github.com/kraklabs/sem/pkg/format"
	"github.com/kraklabs/sem/pkg/registry"
	"github.com/kraklabs/sem/pkg/vcs"
)

// runBlame executes the 'blame' subcommand: extracts entities from a file
// and, for each one, reports the most recent commit touching any of its
// lines. Line-level git blame is aggregated up to entity granularity rather
// than shown line by line.
func runBlame(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("blame", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sem blame <path> [options]

Extracts entities from path and, for each one, reports the author, date,
and commit that most recently touched any of its lines.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	relPath := fs.Arg(0)

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access current directory", "Failed to determine working directory",
			"This is unexpected, please retry", err,
		), globals.JSON)
	}

	if !vcs.IsGitRepository(cwd) {
		errors.FatalError(errors.NewVCSError(
			"Not a git repository",
			fmt.Sprintf("%s is not inside a git working tree", cwd),
			"Run sem from inside a git repository",
			nil,
		), globals.JSON)
	}

	fullPath := filepath.Join(cwd, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot read file",
			fmt.Sprintf("%s: %v", relPath, err),
			"Check the path is correct and relative to the current directory",
			err,
		), globals.JSON)
	}

	reg := registry.Default()
	p := reg.Get(relPath)
	if p == nil {
		errors.FatalError(errors.NewConfigError(
			"Unsupported file type",
			fmt.Sprintf("No extractor registered for %s", relPath),
			"",
			nil,
		), globals.JSON)
	}

	entities := safeExtractEntities(p, string(content), relPath)
	if len(entities) == 0 {
		fmt.Fprintf(os.Stderr, "%s No entities found in %s\n", "warning:", relPath)
		return
	}

	client := vcs.NewClient(cwd)
	lines, err := client.BlameFile(relPath)
	if err != nil {
		errors.FatalError(errors.NewVCSError(
			"Cannot blame file",
			fmt.Sprintf("git blame failed for %s", relPath),
			"Check the file is tracked by git",
			err,
		), globals.JSON)
	}

	byLine := make(map[int]vcs.BlameLine, len(lines))
	for _, l := range lines {
		byLine[l.Line] = l
	}

	blames := make([]format.EntityBlame, 0, len(entities))
	for _, e := range entities {
		var latest vcs.BlameLine
		for line := e.StartLine; line <= e.EndLine; line++ {
			bl, ok := byLine[line]
			if !ok {
				continue
			}
			if bl.AuthorTime > latest.AuthorTime {
				latest = bl
			}
		}
		date := ""
		if latest.AuthorTime > 0 {
			date = time.Unix(latest.AuthorTime, 0).UTC().Format("2006-01-02")
		}
		blames = append(blames, format.EntityBlame{
			Name:       e.Name,
			EntityType: e.EntityType,
			StartLine:  e.StartLine,
			EndLine:    e.EndLine,
			Author:     latest.Author,
			Date:       date,
			CommitSHA:  latest.SHA,
			Summary:    latest.Summary,
		})
	}

	if globals.JSON {
		out, err := format.ToBlameJSON(blames)
		if err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode blame result", "JSON marshaling failed unexpectedly",
				"This is a bug, please report it", err,
			), globals.JSON)
		}
		fmt.Println(string(out))
		return
	}

	format.WriteBlameTerminal(os.Stdout, relPath, blames)
}
