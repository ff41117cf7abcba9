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

package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sem/pkg/entity"
)

func mkEntity(filePath, name, content string) entity.Entity {
	return entity.Entity{
		ID: entity.BuildID(filePath, "function", name, ""), FilePath: filePath,
		EntityType: "function", Name: name, Content: content,
	}
}

func ids(infos []EntityInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.ID
	}
	return out
}

func TestBuild_ResolvesCallEdgeAcrossFiles(t *testing.T) {
	helper := mkEntity("helper.go", "Validate", "func Validate() bool { return true }")
	caller := mkEntity("main.go", "Run", "func Run() { if !Validate() { panic(1) } }")

	g := Build([]FileEntities{
		{FilePath: "helper.go", Entities: []entity.Entity{helper}},
		{FilePath: "main.go", Entities: []entity.Entity{caller}},
	})

	deps := g.GetDependencies(caller.ID)
	require.Contains(t, ids(deps), helper.ID)

	dependents := g.GetDependents(helper.ID)
	require.Contains(t, ids(dependents), caller.ID)
}

func TestBuild_NoSelfReferenceEdge(t *testing.T) {
	e := mkEntity("a.go", "Recurse", "func Recurse() { Recurse() }")
	g := Build([]FileEntities{{FilePath: "a.go", Entities: []entity.Entity{e}}})

	for _, dep := range g.GetDependencies(e.ID) {
		require.NotEqual(t, e.ID, dep.ID)
	}
}

func TestFindByName(t *testing.T) {
	e := mkEntity("a.go", "Widget", "type Widget struct{}")
	g := Build([]FileEntities{{FilePath: "a.go", Entities: []entity.Entity{e}}})

	ids := g.FindByName("Widget")
	require.Equal(t, []string{e.ID}, ids)
	require.Empty(t, g.FindByName("DoesNotExist"))
}

func TestImpactAnalysis_TransitiveBFS(t *testing.T) {
	leaf := mkEntity("leaf.go", "Leaf", "func Leaf() {}")
	mid := mkEntity("mid.go", "Mid", "func Mid() { Leaf() }")
	top := mkEntity("top.go", "Top", "func Top() { Mid() }")

	g := Build([]FileEntities{
		{FilePath: "leaf.go", Entities: []entity.Entity{leaf}},
		{FilePath: "mid.go", Entities: []entity.Entity{mid}},
		{FilePath: "top.go", Entities: []entity.Entity{top}},
	})

	impacted := ids(g.ImpactAnalysis(leaf.ID))
	sort.Strings(impacted)
	want := []string{mid.ID, top.ID}
	sort.Strings(want)
	require.Equal(t, want, impacted)
}

func TestImpactAnalysis_EmptyForLeafWithNoDependents(t *testing.T) {
	e := mkEntity("a.go", "Lonely", "func Lonely() {}")
	g := Build([]FileEntities{{FilePath: "a.go", Entities: []entity.Entity{e}}})
	require.Empty(t, g.ImpactAnalysis(e.ID))
}

func TestUpdateFromChanges_DeletedFileRemovesItsEntitiesAndEdges(t *testing.T) {
	helper := mkEntity("helper.go", "Validate", "func Validate() bool { return true }")
	caller := mkEntity("main.go", "Run", "func Run() { Validate() }")
	g := Build([]FileEntities{
		{FilePath: "helper.go", Entities: []entity.Entity{helper}},
		{FilePath: "main.go", Entities: []entity.Entity{caller}},
	})
	require.Contains(t, ids(g.GetDependencies(caller.ID)), helper.ID)

	g.UpdateFromChanges([]FileUpdate{{FilePath: "helper.go", Status: FileDeleted}})

	_, exists := g.Entity(helper.ID)
	require.False(t, exists)
	require.NotContains(t, ids(g.GetDependencies(caller.ID)), helper.ID)
	require.Empty(t, g.FindByName("Validate"))
}

func TestUpdateFromChanges_ModifiedFileReResolvesReferences(t *testing.T) {
	helperA := mkEntity("helper.go", "ValidateA", "func ValidateA() bool { return true }")
	helperB := mkEntity("helper.go", "ValidateB", "func ValidateB() bool { return true }")
	caller := mkEntity("main.go", "Run", "func Run() { ValidateA() }")

	g := Build([]FileEntities{
		{FilePath: "helper.go", Entities: []entity.Entity{helperA}},
		{FilePath: "main.go", Entities: []entity.Entity{caller}},
	})
	require.Contains(t, ids(g.GetDependencies(caller.ID)), helperA.ID)

	// main.go is rewritten to call ValidateB instead of ValidateA.
	newCaller := mkEntity("main.go", "Run", "func Run() { ValidateB() }")
	g.UpdateFromChanges([]FileUpdate{
		{FilePath: "helper.go", Status: FileAdded, Entities: []entity.Entity{helperA, helperB}},
		{FilePath: "main.go", Status: FileModified, Entities: []entity.Entity{newCaller}},
	})

	deps := ids(g.GetDependencies(newCaller.ID))
	require.Contains(t, deps, helperB.ID)
	require.NotContains(t, deps, helperA.ID)
}

func TestUpdateFromChanges_RenamedFileMovesEntities(t *testing.T) {
	e := mkEntity("old.go", "Widget", "type Widget struct{}")
	g := Build([]FileEntities{{FilePath: "old.go", Entities: []entity.Entity{e}}})

	moved := mkEntity("new.go", "Widget", "type Widget struct{}")
	g.UpdateFromChanges([]FileUpdate{
		{FilePath: "new.go", OldFilePath: "old.go", Status: FileRenamed, Entities: []entity.Entity{moved}},
	})

	info, ok := g.Entity(moved.ID)
	require.True(t, ok)
	require.Equal(t, "new.go", info.FilePath)
}

func TestImpactCap_MatchesExportedConstant(t *testing.T) {
	require.Equal(t, 10000, ImpactCap())
}

func TestBuild_NameCollisionResolvesToOneEdgePreferringSameFile(t *testing.T) {
	localClose := mkEntity("io.go", "Close", "func Close() error { return nil }")
	otherClose := mkEntity("db.go", "Close", "func Close() error { return nil }")
	caller := mkEntity("io.go", "Run", "func Run() { Close() }")

	g := Build([]FileEntities{
		{FilePath: "io.go", Entities: []entity.Entity{localClose, caller}},
		{FilePath: "db.go", Entities: []entity.Entity{otherClose}},
	})

	deps := g.GetDependencies(caller.ID)
	require.Len(t, deps, 1)
	require.Equal(t, localClose.ID, deps[0].ID)
}

func TestBuild_NameCollisionAcrossFilesPicksFirstWhenNoSameFileMatch(t *testing.T) {
	otherA := mkEntity("a.go", "Close", "func Close() error { return nil }")
	otherB := mkEntity("b.go", "Close", "func Close() error { return nil }")
	caller := mkEntity("c.go", "Run", "func Run() { Close() }")

	g := Build([]FileEntities{
		{FilePath: "a.go", Entities: []entity.Entity{otherA}},
		{FilePath: "b.go", Entities: []entity.Entity{otherB}},
		{FilePath: "c.go", Entities: []entity.Entity{caller}},
	})

	deps := g.GetDependencies(caller.ID)
	require.Len(t, deps, 1)
	require.Equal(t, otherA.ID, deps[0].ID)
}

func TestGetDependents_DereferencesToEntityInfo(t *testing.T) {
	helper := mkEntity("helper.go", "Validate", "func Validate() bool { return true }")
	caller := mkEntity("main.go", "Run", "func Run() { Validate() }")
	g := Build([]FileEntities{
		{FilePath: "helper.go", Entities: []entity.Entity{helper}},
		{FilePath: "main.go", Entities: []entity.Entity{caller}},
	})

	dependents := g.GetDependents(helper.ID)
	require.Len(t, dependents, 1)
	require.Equal(t, caller.ID, dependents[0].ID)
	require.Equal(t, caller.Name, dependents[0].Name)
	require.Equal(t, caller.EntityType, dependents[0].EntityType)
	require.Equal(t, caller.FilePath, dependents[0].FilePath)
}

func TestNodesAndEdges_ExportWholeGraph(t *testing.T) {
	helper := mkEntity("helper.go", "Validate", "func Validate() bool { return true }")
	caller := mkEntity("main.go", "Run", "func Run() { Validate() }")
	g := Build([]FileEntities{
		{FilePath: "helper.go", Entities: []entity.Entity{helper}},
		{FilePath: "main.go", Entities: []entity.Entity{caller}},
	})

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	var nodeIDs []string
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}
	require.ElementsMatch(t, []string{helper.ID, caller.ID}, nodeIDs)

	edges := g.Edges()
	require.Len(t, edges, 1)
	require.Equal(t, caller.ID, edges[0].From)
	require.Equal(t, helper.ID, edges[0].To)
}
