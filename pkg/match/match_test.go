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

package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sem/pkg/change"
	"github.com/kraklabs/sem/pkg/entity"
)

func mk(id, filePath, entityType, name, content, contentHash, structuralHash string) entity.Entity {
	return entity.Entity{
		ID: id, FilePath: filePath, EntityType: entityType, Name: name,
		Content: content, ContentHash: contentHash, StructuralHash: structuralHash,
	}
}

func TestEntities_Phase1_ExactIDUnchanged(t *testing.T) {
	e := mk("f.go::function::Add", "f.go", "function", "Add", "x", "h1", "s1")
	changes := Entities([]entity.Entity{e}, []entity.Entity{e}, nil, Context{})
	require.Empty(t, changes, "identical content hash under the same id must produce no change")
}

func TestEntities_Phase1_ExactIDModified(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add", "return a+b", "h1", "s1")
	after := mk("f.go::function::Add", "f.go", "function", "Add", "return a-b", "h2", "s2")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 1)
	require.Equal(t, change.Modified, changes[0].ChangeType)
	require.NotNil(t, changes[0].StructuralChange)
	require.True(t, *changes[0].StructuralChange)
}

func TestEntities_Phase1_StructuralChangeNilWhenNotComparable(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add", "a", "h1", "")
	after := mk("f.go::function::Add", "f.go", "function", "Add", "b", "h2", "")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 1)
	require.Nil(t, changes[0].StructuralChange)
}

func TestEntities_Phase2_RenameSameFile(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add", "shared body", "h1", "s1")
	after := mk("f.go::function::Sum", "f.go", "function", "Sum", "shared body", "h1", "s1")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 1)
	require.Equal(t, change.Renamed, changes[0].ChangeType)
	require.Empty(t, changes[0].OldFilePath)
}

func TestEntities_Phase2_MoveAcrossFiles(t *testing.T) {
	before := mk("a.go::function::Add", "a.go", "function", "Add", "shared body", "h1", "s1")
	after := mk("b.go::function::Add", "b.go", "function", "Add", "shared body", "h1", "s1")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 1)
	require.Equal(t, change.Moved, changes[0].ChangeType)
	require.Equal(t, "a.go", changes[0].OldFilePath)
}

// TestEntities_Phase2_FIFOTieBreak exercises spec.md's earliest-added-wins
// invariant for hash-bucket matching: two before-entities collide into the
// same content-hash bucket (distinct bodies, by construction, to make the
// winning match observable via BeforeContent), and the first-declared
// before candidate must be consumed by the first-declared after candidate.
func TestEntities_Phase2_FIFOTieBreak(t *testing.T) {
	before := []entity.Entity{
		mk("f.go::function::First", "f.go", "function", "First", "body-first", "hdup", "sdup"),
		mk("f.go::function::Second", "f.go", "function", "Second", "body-second", "hdup", "sdup"),
	}
	after := []entity.Entity{
		mk("f.go::function::Alpha", "f.go", "function", "Alpha", "body-alpha", "hdup", "sdup"),
		mk("f.go::function::Beta", "f.go", "function", "Beta", "body-beta", "hdup", "sdup"),
	}

	changes := Entities(before, after, nil, Context{})
	require.Len(t, changes, 2)

	byEntityName := map[string]string{}
	for _, c := range changes {
		byEntityName[c.EntityName] = c.BeforeContent
	}
	require.Equal(t, "body-first", byEntityName["Alpha"], "earliest-declared before candidate must match earliest-declared after candidate")
	require.Equal(t, "body-second", byEntityName["Beta"])
}

func TestEntities_Phase3_FuzzyRename(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add",
		"func Add(a, b int) int { return a + b }", "h1", "")
	after := mk("f.go::function::Sum", "f.go", "function", "Sum",
		"func Add(a, b int) int { return a + b + 0 }", "h2", "")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, DefaultSimilarity, Context{})
	require.Len(t, changes, 1)
	require.Equal(t, change.Renamed, changes[0].ChangeType)
}

func TestEntities_Phase3_NoMatchBelowThreshold(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add", "alpha beta gamma", "h1", "")
	after := mk("f.go::function::Sum", "f.go", "function", "Sum", "totally different words here", "h2", "")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, DefaultSimilarity, Context{})
	require.Len(t, changes, 2)
	types := []change.ChangeType{changes[0].ChangeType, changes[1].ChangeType}
	require.Contains(t, types, change.Deleted)
	require.Contains(t, types, change.Added)
}

func TestEntities_Phase3_SkippedWithoutSimilarityFunc(t *testing.T) {
	before := mk("f.go::function::Add", "f.go", "function", "Add",
		"func Add(a, b int) int { return a + b }", "h1", "")
	after := mk("f.go::function::Sum", "f.go", "function", "Sum",
		"func Add(a, b int) int { return a + b + 0 }", "h2", "")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 2, "with no similarityFn, phase 3 never runs so both sides fall through as deleted/added")
}

func TestEntities_Phase4_AddedAndDeleted(t *testing.T) {
	before := mk("f.go::function::Old", "f.go", "function", "Old", "gone", "h1", "")
	after := mk("f.go::function::New", "f.go", "function", "New", "new", "h2", "")

	changes := Entities([]entity.Entity{before}, []entity.Entity{after}, nil, Context{})
	require.Len(t, changes, 2)

	var sawAdded, sawDeleted bool
	for _, c := range changes {
		switch c.ChangeType {
		case change.Added:
			sawAdded = true
			require.Equal(t, "New", c.EntityName)
		case change.Deleted:
			sawDeleted = true
			require.Equal(t, "Old", c.EntityName)
		}
	}
	require.True(t, sawAdded)
	require.True(t, sawDeleted)
}

func TestDefaultSimilarity_EarlyRejectionOnSizeRatio(t *testing.T) {
	a := entity.Entity{Content: "one two three four five six seven eight nine ten"}
	b := entity.Entity{Content: "one"}
	// 1/10 token-count ratio is far below the 0.6 cutoff: score must be 0
	// without the Jaccard computation ever running.
	require.Equal(t, 0.0, DefaultSimilarity(a, b))
}

func TestDefaultSimilarity_IdenticalContent(t *testing.T) {
	a := entity.Entity{Content: "alpha beta gamma"}
	b := entity.Entity{Content: "alpha beta gamma"}
	require.Equal(t, 1.0, DefaultSimilarity(a, b))
}

func TestDefaultSimilarity_EmptyContent(t *testing.T) {
	a := entity.Entity{Content: ""}
	b := entity.Entity{Content: "alpha"}
	require.Equal(t, 0.0, DefaultSimilarity(a, b))
}
