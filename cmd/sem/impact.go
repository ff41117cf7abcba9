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
	"sort"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sem/internal/errors"
	"github.com/kraklabs/sem/internal/metrics"
	"github.com/kraklabs/sem/internal/ui"
	"github.com/kraklabs/sem/pkg/format"
	"github.com/kraklabs/sem/pkg/graph"
	"github.com/kraklabs/sem/pkg/registry"
)

var defaultExcludeDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true, "build": true, ".sem": true,
}

// runImpact executes the 'impact' subcommand: builds the entity graph for
// the current repository, resolves name to one or more entity ids, and
// reports each one's dependencies and transitive impact set.
func runImpact(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("impact", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sem impact <entity-name> [options]

Builds the cross-file entity reference graph for the repository and shows
what the named entity depends on, and everything transitively depending on
it (up to %d entities).
`, graph.ImpactCap())
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	name := fs.Arg(0)

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access current directory", "Failed to determine working directory",
			"This is unexpected, please retry", err,
		), globals.JSON)
	}

	g, err := buildGraphForRepo(cwd)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ids := g.FindByName(name)
	if len(ids) == 0 {
		errors.FatalError(errors.NewConfigError(
			"Entity not found",
			fmt.Sprintf("No entity named %q was found in this repository", name),
			"Check the spelling, or that the file containing it is tracked",
			nil,
		), globals.JSON)
	}
	sort.Strings(ids)

	for _, id := range ids {
		dependencies := g.GetDependencies(id)
		impacted := g.ImpactAnalysis(id)
		sortEntityInfos(dependencies)
		sortEntityInfos(impacted)

		if globals.JSON {
			out, err := format.ToImpactJSON(id, dependencies, impacted)
			if err != nil {
				errors.FatalError(errors.NewInternalError(
					"Cannot encode impact result", "JSON marshaling failed unexpectedly",
					"This is a bug, please report it", err,
				), globals.JSON)
			}
			fmt.Println(string(out))
			continue
		}
		format.WriteImpactTerminal(os.Stdout, id, dependencies, impacted)
		fmt.Println()
	}
}

// sortEntityInfos orders EntityInfo records by id so JSON/terminal output is
// deterministic across runs.
func sortEntityInfos(infos []graph.EntityInfo) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
}

// buildGraphForRepo walks repoPath, extracts entities from every file the
// registry can handle, and builds the cross-file reference graph over all
// of them. Unlike diff, impact analysis needs the whole corpus, not just
// the files changed in one scope.
func buildGraphForRepo(repoPath string) (*graph.Graph, error) {
	reg := registry.Default()
	var paths []string

	err := filepath.WalkDir(repoPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if defaultExcludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(
			"Failed walking repository", "An error occurred enumerating files",
			"Check filesystem permissions", err,
		)
	}

	bar := ui.NewProgressBar(int64(len(paths)), "Extracting entities")

	var files []graph.FileEntities
	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr == nil {
			rel, relErr := filepath.Rel(repoPath, path)
			if relErr != nil {
				rel = path
			}
			if p := reg.Get(rel); p != nil {
				entities := safeExtractEntities(p, string(content), rel)
				if len(entities) > 0 {
					files = append(files, graph.FileEntities{FilePath: rel, Entities: entities})
				}
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	start := time.Now()
	g := graph.Build(files)
	metrics.GraphBuildDuration.Observe(time.Since(start).Seconds())

	return g, nil
}
