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

// Package differ orchestrates per-file entity matching into an aggregate
// semantic diff, isolating a single file's extractor failure from the rest
// of the run.
package differ

import (
	"github.com/kraklabs/sem/pkg/change"
	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/match"
	"github.com/kraklabs/sem/pkg/plugin"
	"github.com/kraklabs/sem/pkg/vcs"
)

// Result is the aggregate output of a semantic diff run.
type Result struct {
	Changes       []change.SemanticChange
	FileCount     int
	AddedCount    int
	ModifiedCount int
	DeletedCount  int
	MovedCount    int
	RenamedCount  int
}

// Compute runs the full diff pipeline over fileChanges using registry to
// resolve an extractor per file. commitSHA/author are optional and attached
// to every emitted change.
func Compute(fileChanges []vcs.FileChange, registry *plugin.Registry, commitSHA, author string) Result {
	var allChanges []change.SemanticChange
	filesWithChanges := make(map[string]bool)

	for _, fc := range fileChanges {
		p := registry.Get(fc.FilePath)
		if p == nil {
			continue
		}

		beforePath := fc.FilePath
		if fc.OldFilePath != "" {
			beforePath = fc.OldFilePath
		}

		var beforeEntities, afterEntities []entity.Entity
		if fc.HasBefore {
			beforeEntities = safeExtract(p, fc.BeforeContent, beforePath)
		}
		if fc.HasAfter {
			afterEntities = safeExtract(p, fc.AfterContent, fc.FilePath)
		}

		similarityFn := func(a, b entity.Entity) float64 {
			return plugin.ComputeSimilarity(p, a, b)
		}

		changes := match.Entities(beforeEntities, afterEntities, similarityFn, match.Context{
			CommitSHA: commitSHA,
			Author:    author,
		})

		if len(changes) > 0 {
			filesWithChanges[fc.FilePath] = true
			allChanges = append(allChanges, changes...)
		}
	}

	result := Result{Changes: allChanges, FileCount: len(filesWithChanges)}
	for _, c := range allChanges {
		switch c.ChangeType {
		case change.Added:
			result.AddedCount++
		case change.Modified:
			result.ModifiedCount++
		case change.Deleted:
			result.DeletedCount++
		case change.Moved:
			result.MovedCount++
		case change.Renamed:
			result.RenamedCount++
		}
	}
	return result
}

// safeExtract calls the plugin's extractor under a recover guard: a panic in
// a third-party grammar binding must degrade this one side to an empty list,
// never abort the whole diff. Callers only invoke this when the FileChange
// reports that side as present (HasBefore/HasAfter); absence is handled by
// the caller, not by an empty-string sentinel here.
func safeExtract(p plugin.Plugin, content, filePath string) (entities []entity.Entity) {
	defer func() {
		if recover() != nil {
			entities = nil
		}
	}()
	return p.ExtractEntities(content, filePath)
}
