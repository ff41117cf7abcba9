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
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sem/internal/errors"
	"github.com/kraklabs/sem/pkg/format"
	"github.com/kraklabs/sem/pkg/graph"
	"github.com/kraklabs/sem/pkg/registry"
)

// watchDebounce coalesces a burst of filesystem events (a save in an editor
// that touches several files at once) into a single reindex.
const watchDebounce = 500 * time.Millisecond

// runGraph executes the 'graph' subcommand: builds the cross-file entity
// reference graph for the current repository, and either exports it whole
// or, with --entity, shows one entity's direct dependencies and dependents.
func runGraph(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	entityName := fs.String("entity", "", "Scope the query to one entity's direct dependencies/dependents")
	watch := fs.Bool("watch", false, "Keep running and re-export the graph after each filesystem change")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sem graph [options]

Builds the cross-file entity reference graph for the repository. With no
options, exports every node and edge. With --entity, reports only that
entity's direct dependencies and dependents.

Options:
  --entity NAME   Show only this entity's direct neighbors
  --watch         Watch the repository and incrementally re-export on change
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

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

	reportGraph(g, *entityName, globals)

	if *watch {
		watchAndReindex(cwd, g, *entityName, globals)
	}
}

// reportGraph prints either the whole graph or one entity's direct
// neighbors, in whichever output mode globals.JSON selects. Shared between
// the one-shot query and each cycle of --watch.
func reportGraph(g *graph.Graph, entityName string, globals GlobalFlags) {
	if entityName == "" {
		nodes := g.Nodes()
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
		edges := g.Edges()

		if globals.JSON {
			out, err := format.ToGraphJSON(nodes, edges)
			if err != nil {
				errors.FatalError(errors.NewInternalError(
					"Cannot encode graph result", "JSON marshaling failed unexpectedly",
					"This is a bug, please report it", err,
				), globals.JSON)
			}
			fmt.Println(string(out))
			return
		}
		format.WriteGraphTerminal(os.Stdout, nodes, edges)
		return
	}

	ids := g.FindByName(entityName)
	if len(ids) == 0 {
		errors.FatalError(errors.NewConfigError(
			"Entity not found",
			fmt.Sprintf("No entity named %q was found in this repository", entityName),
			"Check the spelling, or that the file containing it is tracked",
			nil,
		), globals.JSON)
	}
	sort.Strings(ids)

	for _, id := range ids {
		dependencies := g.GetDependencies(id)
		dependents := g.GetDependents(id)
		sortEntityInfos(dependencies)
		sortEntityInfos(dependents)

		if globals.JSON {
			out, err := format.ToEntityNeighborsJSON(id, dependencies, dependents)
			if err != nil {
				errors.FatalError(errors.NewInternalError(
					"Cannot encode graph result", "JSON marshaling failed unexpectedly",
					"This is a bug, please report it", err,
				), globals.JSON)
			}
			fmt.Println(string(out))
			continue
		}
		format.WriteEntityNeighborsTerminal(os.Stdout, id, dependencies, dependents)
		fmt.Println()
	}
}

// watchAndReindex watches repoPath for filesystem changes and incrementally
// updates g via graph.UpdateFromChanges, debounced so a burst of saves
// triggers one reindex, re-running reportGraph after each one. Runs until
// interrupted (Ctrl-C / SIGTERM).
func watchAndReindex(repoPath string, g *graph.Graph, entityName string, globals GlobalFlags) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot start filesystem watcher", err.Error(),
			"Check the platform supports inotify/kqueue/ReadDirectoryChangesW",
			err,
		), globals.JSON)
	}
	defer watcher.Close()

	watchCount := 0
	_ = filepath.WalkDir(repoPath, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if defaultExcludeDirs[d.Name()] {
			return filepath.SkipDir
		}
		if watcher.Add(path) == nil {
			watchCount++
		}
		return nil
	})
	fmt.Fprintf(os.Stderr, "Watching %d directories under %s (Ctrl-C to stop)\n", watchCount, repoPath)

	reg := registry.Default()
	pending := make(map[string]bool)
	var debounce <-chan time.Time

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if strings.Contains(event.Name, string(filepath.Separator)+".git"+string(filepath.Separator)) {
				continue
			}
			pending[event.Name] = true
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)

		case <-debounce:
			debounce = nil
			updates := make([]graph.FileUpdate, 0, len(pending))
			for path := range pending {
				rel, relErr := filepath.Rel(repoPath, path)
				if relErr != nil {
					rel = path
				}
				info, statErr := os.Stat(path)
				if statErr != nil || (info != nil && info.IsDir()) {
					updates = append(updates, graph.FileUpdate{FilePath: rel, Status: graph.FileDeleted})
					continue
				}
				content, readErr := os.ReadFile(path)
				if readErr != nil {
					updates = append(updates, graph.FileUpdate{FilePath: rel, Status: graph.FileDeleted})
					continue
				}
				p := reg.Get(rel)
				if p == nil {
					continue
				}
				entities := safeExtractEntities(p, string(content), rel)
				updates = append(updates, graph.FileUpdate{FilePath: rel, Status: graph.FileModified, Entities: entities})
			}
			pending = make(map[string]bool)
			if len(updates) > 0 {
				g.UpdateFromChanges(updates)
				reportGraph(g, entityName, globals)
			}

		case <-sigCh:
			return
		}
	}
}
