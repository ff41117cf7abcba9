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

// Package graph builds and maintains a cross-file entity reference graph:
// which entities call, reference the type of, or import one another, plus
// dependency/dependent/impact queries over that graph.
package graph

import (
	"runtime"
	"strings"
	"sync"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/refheur"
)

// maxWorkers caps the pass-2 resolution pool; unbounded parallelism on a
// reference-extraction job that is mostly regex and map lookups gives no
// extra throughput past a handful of goroutines and just adds scheduler
// churn.
const maxWorkers = 8

// RefType mirrors refheur.RefType at the graph's public boundary.
type RefType = refheur.RefType

const (
	Calls   = refheur.Calls
	TypeRef = refheur.TypeRef
	Imports = refheur.Imports
)

// EntityRef is one resolved reference edge: From references To as RefType.
type EntityRef struct {
	From string
	To   string
	Type RefType
}

// EntityInfo is the subset of an entity's fields the graph needs to answer
// queries without holding the full extracted content in memory twice.
type EntityInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntityType string `json:"type"`
	FilePath   string `json:"filePath"`
}

// Graph is the built cross-file entity reference graph.
type Graph struct {
	entities     map[string]EntityInfo
	edges        []EntityRef
	dependents   map[string][]string // entity id -> ids that reference it
	dependencies map[string][]string // entity id -> ids it references

	// symbolTable maps a bare name to the entity ids that declare it, built
	// in pass 1 and consulted during pass-2 resolution.
	symbolTable map[string][]string
	// fileEntities maps a file path to the entity ids declared in it, used
	// by UpdateFromChanges to prune a file's stale entities/edges.
	fileEntities map[string][]string
	// content holds each entity's raw content. Entries live as long as their
	// entity stays in the graph; no query reads them.
	content map[string]string
}

// FileEntities is one file's freshly extracted entity list, the input unit
// for Build (UpdateFromChanges takes FileUpdate instead).
type FileEntities struct {
	FilePath string
	Entities []entity.Entity
}

// Build constructs a graph from a full corpus of per-file entity
// extractions. Pass 1 populates the symbol table sequentially (cheap, and
// must complete before pass 2 starts); pass 2 resolves references in
// parallel across entities since each entity's resolution only reads the
// (now immutable) symbol table.
func Build(files []FileEntities) *Graph {
	g := &Graph{
		entities:     make(map[string]EntityInfo),
		dependents:   make(map[string][]string),
		dependencies: make(map[string][]string),
		symbolTable:  make(map[string][]string),
		fileEntities: make(map[string][]string),
		content:      make(map[string]string),
	}

	var allEntities []entity.Entity
	for _, f := range files {
		var ids []string
		for _, e := range f.Entities {
			g.entities[e.ID] = EntityInfo{ID: e.ID, Name: e.Name, EntityType: e.EntityType, FilePath: e.FilePath}
			g.content[e.ID] = e.Content
			g.symbolTable[e.Name] = append(g.symbolTable[e.Name], e.ID)
			ids = append(ids, e.ID)
			allEntities = append(allEntities, e)
		}
		g.fileEntities[f.FilePath] = ids
	}

	g.edges = resolveReferencesParallel(allEntities, g.symbolTable, g.entities)
	g.rebuildAdjacency()
	return g
}

// rebuildAdjacency recomputes dependents/dependencies from g.edges. Called
// after any edit to g.edges so the two maps never drift out of sync with it.
func (g *Graph) rebuildAdjacency() {
	g.dependents = make(map[string][]string)
	g.dependencies = make(map[string][]string)
	for _, e := range g.edges {
		g.dependencies[e.From] = append(g.dependencies[e.From], e.To)
		g.dependents[e.To] = append(g.dependents[e.To], e.From)
	}
}

// resolveReferencesParallel runs reference extraction + symbol resolution
// for each entity across a bounded worker pool, following the job-channel /
// result-channel / WaitGroup shape used for call resolution elsewhere in
// this codebase. entities is used for the same-file preference in pass-2
// resolution.
func resolveReferencesParallel(entities []entity.Entity, symbolTable map[string][]string, infos map[string]EntityInfo) []EntityRef {
	numWorkers := runtime.NumCPU()
	if numWorkers > maxWorkers {
		numWorkers = maxWorkers
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan int, len(entities))
	results := make(chan []EntityRef, len(entities))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- resolveEntityReferences(entities[i], symbolTable, infos)
			}
		}()
	}

	for i := range entities {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var edges []EntityRef
	for r := range results {
		edges = append(edges, r...)
	}
	return edges
}

// resolveEntityReferences extracts candidate reference names from one
// entity's content and resolves each to the single preferred target id the
// symbol table maps it to, skipping self-references and names the table
// doesn't know about.
func resolveEntityReferences(e entity.Entity, symbolTable map[string][]string, infos map[string]EntityInfo) []EntityRef {
	var edges []EntityRef
	seen := make(map[string]bool)

	lines := splitLines(e.Content)
	for _, name := range refheur.ExtractCandidates(e.Content) {
		targets, ok := symbolTable[name]
		if !ok {
			continue
		}
		targetID, ok := preferredTarget(targets, e, infos)
		if !ok {
			continue
		}
		line := lineContaining(lines, name)
		refType := refheur.InferType(name, line)
		key := targetID + "|" + string(refType)
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, EntityRef{From: e.ID, To: targetID, Type: refType})
	}
	return edges
}

// preferredTarget resolves a candidate name's symbol-table hits to the
// single id pass 2 should link to: a same-file id other than e.ID if one
// exists, else the first other id.
func preferredTarget(targets []string, e entity.Entity, infos map[string]EntityInfo) (string, bool) {
	firstOther := ""
	haveOther := false
	for _, id := range targets {
		if id == e.ID {
			continue
		}
		if !haveOther {
			firstOther = id
			haveOther = true
		}
		if info, ok := infos[id]; ok && info.FilePath == e.FilePath {
			return id, true
		}
	}
	return firstOther, haveOther
}

func splitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		}
	}
	lines = append(lines, content[start:])
	return lines
}

func lineContaining(lines []string, name string) string {
	for _, l := range lines {
		if strings.Contains(l, name) {
			return l
		}
	}
	return ""
}

// GetDependents returns info on every entity that references entityID. Ids
// that no longer resolve against the entity map (stale edges from an entity
// removed since the edge was recorded) are dropped silently.
func (g *Graph) GetDependents(entityID string) []EntityInfo {
	return g.dereference(g.dependents[entityID])
}

// GetDependencies returns info on every entity entityID references. Ids that
// no longer resolve are dropped silently.
func (g *Graph) GetDependencies(entityID string) []EntityInfo {
	return g.dereference(g.dependencies[entityID])
}

// dereference maps ids against g.entities, silently skipping any that are
// no longer present.
func (g *Graph) dereference(ids []string) []EntityInfo {
	infos := make([]EntityInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := g.entities[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// Entity looks up an entity's graph-tracked info by id.
func (g *Graph) Entity(entityID string) (EntityInfo, bool) {
	info, ok := g.entities[entityID]
	return info, ok
}

// FindByName returns the ids of every entity declared with the given name,
// for the impact command's name-based lookup.
func (g *Graph) FindByName(name string) []string {
	return append([]string(nil), g.symbolTable[name]...)
}

// Nodes returns every entity tracked by the graph, for the `graph` command's
// full-corpus export.
func (g *Graph) Nodes() []EntityInfo {
	nodes := make([]EntityInfo, 0, len(g.entities))
	for _, info := range g.entities {
		nodes = append(nodes, info)
	}
	return nodes
}

// Edges returns every resolved reference edge in the graph.
func (g *Graph) Edges() []EntityRef {
	return append([]EntityRef(nil), g.edges...)
}

const impactCap = 10000

// ImpactCap returns the hard cap ImpactAnalysis stops at.
func ImpactCap() int { return impactCap }

// ImpactAnalysis returns info on every entity transitively dependent on
// entityID (i.e. reachable by repeatedly following dependents), breadth-first,
// up to impactCap entities. The cap exists so a densely connected core entity
// (e.g. a widely used utility type) cannot make impact analysis unbounded
// on a large corpus. Ids that no longer resolve are dropped silently.
func (g *Graph) ImpactAnalysis(entityID string) []EntityInfo {
	return g.dereference(g.impactAnalysisCapped(entityID, impactCap))
}

func (g *Graph) impactAnalysisCapped(entityID string, cap int) []string {
	visited := map[string]bool{entityID: true}
	queue := []string{entityID}
	var impacted []string

	for len(queue) > 0 && len(impacted) < cap {
		current := queue[0]
		queue = queue[1:]
		for _, dependent := range g.dependents[current] {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			impacted = append(impacted, dependent)
			if len(impacted) >= cap {
				break
			}
			queue = append(queue, dependent)
		}
	}
	return impacted
}

// ImpactCount returns the number of ids impactAnalysisCapped finds, without
// paying for the EntityInfo dereference ImpactAnalysis does; kept as a
// distinct method so callers that only need a count don't imply they want
// the list.
func (g *Graph) ImpactCount(entityID string) int {
	return len(g.impactAnalysisCapped(entityID, impactCap))
}

// FileStatus mirrors vcs.FileStatus at the graph's update boundary, kept
// separate so pkg/graph does not import pkg/vcs.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// FileUpdate is one file's post-change entity list, the incremental
// counterpart to FileEntities.
type FileUpdate struct {
	FilePath    string
	OldFilePath string
	Status      FileStatus
	Entities    []entity.Entity
}

// UpdateFromChanges incrementally applies a set of file-level changes to an
// already-built graph: removes entities belonging to deleted/renamed-away
// files, re-extracts references only for files whose entities actually
// changed, and rebuilds the adjacency maps once at the end. This is cheaper
// than a full Build on every incremental diff because only the touched
// files' entities re-run pass 2.
func (g *Graph) UpdateFromChanges(updates []FileUpdate) {
	touchedEntities := make(map[string]entity.Entity)

	for _, u := range updates {
		switch u.Status {
		case FileDeleted:
			g.removeEntitiesForFile(u.FilePath)
		case FileRenamed:
			if u.OldFilePath != "" {
				g.removeEntitiesForFile(u.OldFilePath)
			}
			g.removeEntitiesForFile(u.FilePath)
			g.addFileEntities(u.FilePath, u.Entities)
			for _, e := range u.Entities {
				touchedEntities[e.ID] = e
			}
		case FileAdded, FileModified:
			g.removeEntitiesForFile(u.FilePath)
			g.addFileEntities(u.FilePath, u.Entities)
			for _, e := range u.Entities {
				touchedEntities[e.ID] = e
			}
		}
	}

	if len(touchedEntities) > 0 {
		entities := make([]entity.Entity, 0, len(touchedEntities))
		for _, e := range touchedEntities {
			entities = append(entities, e)
		}
		newEdges := resolveReferencesParallel(entities, g.symbolTable, g.entities)

		filtered := g.edges[:0:0]
		for _, e := range g.edges {
			if _, stillTouched := touchedEntities[e.From]; !stillTouched {
				filtered = append(filtered, e)
			}
		}
		g.edges = append(filtered, newEdges...)
	}

	g.rebuildAdjacency()
}

func (g *Graph) removeEntitiesForFile(filePath string) {
	ids, ok := g.fileEntities[filePath]
	if !ok {
		return
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
		delete(g.entities, id)
		delete(g.content, id)
		for name, holders := range g.symbolTable {
			g.symbolTable[name] = removeString(holders, id)
			if len(g.symbolTable[name]) == 0 {
				delete(g.symbolTable, name)
			}
		}
	}

	filtered := g.edges[:0:0]
	for _, e := range g.edges {
		if idSet[e.From] || idSet[e.To] {
			continue
		}
		filtered = append(filtered, e)
	}
	g.edges = filtered
	delete(g.fileEntities, filePath)
}

func (g *Graph) addFileEntities(filePath string, entities []entity.Entity) {
	var ids []string
	for _, e := range entities {
		g.entities[e.ID] = EntityInfo{ID: e.ID, Name: e.Name, EntityType: e.EntityType, FilePath: e.FilePath}
		g.content[e.ID] = e.Content
		g.symbolTable[e.Name] = append(g.symbolTable[e.Name], e.ID)
		ids = append(ids, e.ID)
	}
	g.fileEntities[filePath] = ids
}

func removeString(s []string, target string) []string {
	out := s[:0:0]
	for _, v := range s {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
