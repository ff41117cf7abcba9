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

// Package format renders a differ.Result or an impact query either as JSON
// (for machine consumption / piping) or as colored terminal output grouped
// by file, matching the two output modes every subcommand supports.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kraklabs/sem/internal/ui"
	"github.com/kraklabs/sem/pkg/change"
	"github.com/kraklabs/sem/pkg/differ"
	"github.com/kraklabs/sem/pkg/graph"
)

// DiffJSON is the wire shape for `sem diff --json`.
type DiffJSON struct {
	Changes       []change.SemanticChange `json:"changes"`
	FileCount     int                      `json:"fileCount"`
	AddedCount    int                      `json:"addedCount"`
	ModifiedCount int                      `json:"modifiedCount"`
	DeletedCount  int                      `json:"deletedCount"`
	MovedCount    int                      `json:"movedCount"`
	RenamedCount  int                      `json:"renamedCount"`
}

// ToDiffJSON renders result as the JSON document emitted by `sem diff --json`.
func ToDiffJSON(result differ.Result) ([]byte, error) {
	doc := DiffJSON{
		Changes:       result.Changes,
		FileCount:     result.FileCount,
		AddedCount:    result.AddedCount,
		ModifiedCount: result.ModifiedCount,
		DeletedCount:  result.DeletedCount,
		MovedCount:    result.MovedCount,
		RenamedCount:  result.RenamedCount,
	}
	if doc.Changes == nil {
		doc.Changes = []change.SemanticChange{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

var changeColor = map[change.ChangeType]func(...any) string{
	change.Added:    ui.Green.Sprint,
	change.Modified: ui.Yellow.Sprint,
	change.Deleted:  ui.Red.Sprint,
	change.Moved:    ui.Cyan.Sprint,
	change.Renamed:  ui.Cyan.Sprint,
}

var changeSymbol = map[change.ChangeType]string{
	change.Added:    "+",
	change.Modified: "~",
	change.Deleted:  "-",
	change.Moved:    "→",
	change.Renamed:  "↻",
}

// WriteDiffTerminal renders result to w as colored, file-grouped text.
func WriteDiffTerminal(w io.Writer, result differ.Result) {
	writeHeader(w, "Semantic Diff")
	fmt.Fprintf(w, "%s %d files changed, %s added, %s modified, %s deleted, %s moved, %s renamed\n\n",
		ui.Label("Summary:"), result.FileCount,
		ui.CountText(result.AddedCount), ui.CountText(result.ModifiedCount),
		ui.CountText(result.DeletedCount), ui.CountText(result.MovedCount), ui.CountText(result.RenamedCount))

	byFile := make(map[string][]change.SemanticChange)
	for _, c := range result.Changes {
		byFile[c.FilePath] = append(byFile[c.FilePath], c)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		fmt.Fprintf(w, "%s\n", ui.Bold.Sprint(f))
		for _, c := range byFile[f] {
			symbol := changeSymbol[c.ChangeType]
			colored := string(c.ChangeType)
			if cf, ok := changeColor[c.ChangeType]; ok {
				colored = cf(string(c.ChangeType))
			}
			line := fmt.Sprintf("  %s %s %s %s", symbol, colored, c.EntityType, c.EntityName)
			if c.ChangeType == change.Moved && c.OldFilePath != "" {
				line += fmt.Sprintf(" (from %s)", c.OldFilePath)
			}
			fmt.Fprintln(w, line)
		}
	}
}

// ImpactJSON is the wire shape for `sem impact --json`.
type ImpactJSON struct {
	EntityID     string             `json:"entityId"`
	Dependencies []graph.EntityInfo `json:"dependencies"`
	Impacted     []graph.EntityInfo `json:"impacted"`
	ImpactCount  int                `json:"impactCount"`
}

func ToImpactJSON(entityID string, dependencies, impacted []graph.EntityInfo) ([]byte, error) {
	if dependencies == nil {
		dependencies = []graph.EntityInfo{}
	}
	if impacted == nil {
		impacted = []graph.EntityInfo{}
	}
	return json.MarshalIndent(ImpactJSON{
		EntityID:     entityID,
		Dependencies: dependencies,
		Impacted:     impacted,
		ImpactCount:  len(impacted),
	}, "", "  ")
}

// WriteImpactTerminal renders an impact query to w.
func WriteImpactTerminal(w io.Writer, entityID string, dependencies, impacted []graph.EntityInfo) {
	writeHeader(w, "Impact Analysis")
	fmt.Fprintf(w, "%s %s\n\n", ui.Label("Entity:"), entityID)

	fmt.Fprintln(w, ui.Bold.Sprint(fmt.Sprintf("Dependencies (%d)", len(dependencies))))
	for _, d := range dependencies {
		fmt.Fprintf(w, "  %s %s %s (%s)\n", ui.Dim.Sprint("->"), d.EntityType, d.Name, d.FilePath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Bold.Sprint(fmt.Sprintf("Impacted (%d)", len(impacted))))
	for _, d := range impacted {
		fmt.Fprintf(w, "  %s %s %s (%s)\n", ui.Dim.Sprint("<-"), d.EntityType, d.Name, d.FilePath)
	}
}

// GraphEdgeJSON is the wire shape of one resolved reference edge.
type GraphEdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// GraphJSON is the wire shape for `sem graph --json` with no --entity scope:
// the full cross-file reference graph for the repository.
type GraphJSON struct {
	Nodes     []graph.EntityInfo `json:"nodes"`
	Edges     []GraphEdgeJSON    `json:"edges"`
	NodeCount int                `json:"nodeCount"`
	EdgeCount int                `json:"edgeCount"`
}

// ToGraphJSON renders the whole graph as the document emitted by
// `sem graph --json`.
func ToGraphJSON(nodes []graph.EntityInfo, edges []graph.EntityRef) ([]byte, error) {
	if nodes == nil {
		nodes = []graph.EntityInfo{}
	}
	edgeDocs := make([]GraphEdgeJSON, 0, len(edges))
	for _, e := range edges {
		edgeDocs = append(edgeDocs, GraphEdgeJSON{From: e.From, To: e.To, Type: string(e.Type)})
	}
	return json.MarshalIndent(GraphJSON{
		Nodes:     nodes,
		Edges:     edgeDocs,
		NodeCount: len(nodes),
		EdgeCount: len(edgeDocs),
	}, "", "  ")
}

// WriteGraphTerminal renders a summary of the whole graph to w: entity and
// edge totals, then every edge grouped by source entity.
func WriteGraphTerminal(w io.Writer, nodes []graph.EntityInfo, edges []graph.EntityRef) {
	byID := make(map[string]graph.EntityInfo, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	writeHeader(w, "Entity Reference Graph")
	fmt.Fprintf(w, "%s %d entities, %d edges\n\n", ui.Label("Totals:"), len(nodes), len(edges))

	sorted := append([]graph.EntityRef(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].From != sorted[j].From {
			return sorted[i].From < sorted[j].From
		}
		return sorted[i].To < sorted[j].To
	})
	for _, e := range sorted {
		from, to := byID[e.From], byID[e.To]
		fmt.Fprintf(w, "  %s %s %s %s -> %s %s\n", from.EntityType, from.Name, ui.Dim.Sprint(string(e.Type)), from.FilePath, to.Name, to.FilePath)
	}
}

// ToEntityNeighborsJSON renders a single entity's direct dependencies and
// dependents, for `sem graph --entity <name> --json`.
func ToEntityNeighborsJSON(entityID string, dependencies, dependents []graph.EntityInfo) ([]byte, error) {
	if dependencies == nil {
		dependencies = []graph.EntityInfo{}
	}
	if dependents == nil {
		dependents = []graph.EntityInfo{}
	}
	return json.MarshalIndent(struct {
		EntityID     string             `json:"entityId"`
		Dependencies []graph.EntityInfo `json:"dependencies"`
		Dependents   []graph.EntityInfo `json:"dependents"`
	}{entityID, dependencies, dependents}, "", "  ")
}

// WriteEntityNeighborsTerminal renders a single entity's direct neighbors to
// w: what it depends on, and what depends on it directly (no transitive
// closure — that's `sem impact`'s job).
func WriteEntityNeighborsTerminal(w io.Writer, entityID string, dependencies, dependents []graph.EntityInfo) {
	writeHeader(w, "Entity Graph")
	fmt.Fprintf(w, "%s %s\n\n", ui.Label("Entity:"), entityID)

	fmt.Fprintln(w, ui.Bold.Sprint(fmt.Sprintf("Dependencies (%d)", len(dependencies))))
	for _, d := range dependencies {
		fmt.Fprintf(w, "  %s %s %s (%s)\n", ui.Dim.Sprint("->"), d.EntityType, d.Name, d.FilePath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Bold.Sprint(fmt.Sprintf("Dependents (%d)", len(dependents))))
	for _, d := range dependents {
		fmt.Fprintf(w, "  %s %s %s (%s)\n", ui.Dim.Sprint("<-"), d.EntityType, d.Name, d.FilePath)
	}
}

// EntityBlame is the most recent commit to touch any line of one entity.
type EntityBlame struct {
	Name       string `json:"name"`
	EntityType string `json:"type"`
	StartLine  int    `json:"startLine"`
	EndLine    int    `json:"endLine"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	CommitSHA  string `json:"commit"`
	Summary    string `json:"summary"`
}

// ToBlameJSON renders blames as the JSON document emitted by `sem blame --json`.
func ToBlameJSON(blames []EntityBlame) ([]byte, error) {
	if blames == nil {
		blames = []EntityBlame{}
	}
	return json.MarshalIndent(blames, "", "  ")
}

// WriteBlameTerminal renders blames to w, one aligned row per entity, in the
// order given.
func WriteBlameTerminal(w io.Writer, filePath string, blames []EntityBlame) {
	fmt.Fprintf(w, "%s %s\n", ui.Bold.Sprint("┌─"), filePath)
	fmt.Fprintln(w, "│")

	maxName, maxType := 0, 0
	for _, b := range blames {
		if len(b.Name) > maxName {
			maxName = len(b.Name)
		}
		if len(b.EntityType) > maxType {
			maxType = len(b.EntityType)
		}
	}

	for _, b := range blames {
		sha := b.CommitSHA
		if len(sha) > 8 {
			sha = sha[:8]
		}
		summary := b.Summary
		if len(summary) > 40 {
			summary = summary[:37] + "..."
		}
		fmt.Fprintf(w, "│  %-*s  %-*s  %s  %s  %s  %s\n",
			maxType, ui.Dim.Sprint(b.EntityType),
			maxName, ui.Bold.Sprint(b.Name),
			ui.Yellow.Sprint(sha), ui.Cyan.Sprint(b.Author), ui.Dim.Sprint(b.Date), summary)
	}

	fmt.Fprintln(w, "│")
	fmt.Fprintln(w, "└"+repeatDash(60))
}

// writeHeader writes title in bold to w, underlined with '=' to the same width.
func writeHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ui.Bold.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

func repeatDash(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
