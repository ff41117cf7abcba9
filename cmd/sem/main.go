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

// Package main implements the sem CLI: semantic version-control analysis
// over a git working tree.
//
// Usage:
//
//	sem diff [--staged|--commit <sha>|--from <a> --to <b>] [--json]
//	sem graph [--entity <name>] [--json]
//	sem impact <entity-name> [--json]
//	sem blame <path> [--json]
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sem/internal/metrics"
	"github.com/kraklabs/sem/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
	Quiet   bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
		metricsAddr = flag.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `sem - semantic version-control analyzer

sem diffs two revisions of a repository at the entity level instead of the
line level: a function renamed and a function rewritten are two different
findings, not one undifferentiated hunk.

Usage:
  sem <command> [options]

Commands:
  diff      Compute the semantic diff for a scope (default: auto-detect)
  graph     Export the cross-file entity reference graph, or one entity's neighbors
  impact    Show what depends on an entity, transitively
  blame     Show the most recent commit touching each entity in a file

Global Options:
  --json               Output in JSON format
  --no-color           Disable color output (respects NO_COLOR env var)
  -v, --verbose        Increase verbosity (-v for info, -vv for debug)
  -q, --quiet          Suppress non-essential output
  -V, --version        Show version and exit
  --metrics-addr ADDR  Expose Prometheus metrics on ADDR (disabled by default)

Examples:
  sem diff                       Auto-detect scope (staged > working > HEAD)
  sem diff --staged --json       Diff staged changes as JSON
  sem diff --commit HEAD~3       Diff one commit against its parent
  sem diff --from main --to HEAD Diff a revision range
  sem graph --entity parseConfig Show parseConfig's direct dependencies/dependents
  sem graph --watch --json       Watch the repo, re-exporting the graph after each change
  sem impact parseConfig         Show what transitively depends on parseConfig
  sem blame pkg/vcs/vcs.go       Show the latest commit for each entity in a file

For detailed command help: sem <command> --help
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("sem version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(1)
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Verbose: *verbose, Quiet: *quiet}
	ui.InitColors(globals.NoColor)

	logLevel := slog.LevelWarn
	switch {
	case globals.Verbose >= 2:
		logLevel = slog.LevelDebug
	case globals.Verbose == 1:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	metrics.Serve(*metricsAddr, logger)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "diff":
		runDiff(cmdArgs, globals)
	case "graph":
		runGraph(cmdArgs, globals)
	case "impact":
		runImpact(cmdArgs, globals)
	case "blame":
		runBlame(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
