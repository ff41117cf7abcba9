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

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sem/internal/errors"
	"github.com/kraklabs/sem/pkg/differ"
	"github.com/kraklabs/sem/pkg/format"
	"github.com/kraklabs/sem/pkg/registry"
	"github.com/kraklabs/sem/pkg/vcs"
)

// runDiff executes the 'diff' subcommand: resolves a scope, enumerates file
// changes for it, and runs the semantic diff pipeline.
//
// Scope precedence, matching the original CLI this one is grounded on:
// --commit > --from/--to > --staged > auto-detect.
func runDiff(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	commitRef := fs.String("commit", "", "Diff this commit against its parent")
	fromRef := fs.String("from", "", "Range diff: starting revision")
	toRef := fs.String("to", "", "Range diff: ending revision")
	staged := fs.Bool("staged", false, "Diff staged changes against HEAD")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sem diff [options]

Computes the semantic diff for a scope: which entities were added, modified,
deleted, moved, or renamed between two revisions.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access current directory",
			"Failed to determine working directory",
			"This is unexpected, please retry",
			err,
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

	client := vcs.NewClient(cwd)

	var fileChanges []vcs.FileChange
	var commitSHA string

	switch {
	case *commitRef != "":
		fileChanges, err = client.GetChangedFiles(vcs.Scope{Kind: vcs.ScopeCommit, SHA: *commitRef})
		commitSHA = *commitRef
	case *fromRef != "" || *toRef != "":
		fileChanges, err = client.GetChangedFiles(vcs.Scope{Kind: vcs.ScopeRange, From: *fromRef, To: *toRef})
	case *staged:
		fileChanges, err = client.GetChangedFiles(vcs.Scope{Kind: vcs.ScopeStaged})
	default:
		fileChanges, _, err = client.DetectAndGetFiles()
	}

	if err != nil {
		errors.FatalError(errors.NewVCSError(
			"Cannot compute file changes",
			"git reported an error resolving the requested scope",
			"Check that the given commit/revision references exist",
			err,
		), globals.JSON)
	}

	result := differ.Compute(fileChanges, registry.Default(), commitSHA, "")

	if globals.JSON {
		out, err := format.ToDiffJSON(result)
		if err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode diff result",
				"JSON marshaling failed unexpectedly",
				"This is a bug, please report it",
				err,
			), globals.JSON)
		}
		fmt.Println(string(out))
		return
	}

	format.WriteDiffTerminal(os.Stdout, result)
}
