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

// Package match implements the three-phase entity matching algorithm that
// turns a before/after entity pair for one file into a list of
// change.SemanticChange records with rename and move detection.
package match

import (
	"strings"

	"github.com/kraklabs/sem/pkg/change"
	"github.com/kraklabs/sem/pkg/entity"
)

// SimilarityFunc scores content similarity of two entities in [0,1].
type SimilarityFunc func(a, b entity.Entity) float64

// Context carries optional commit metadata attached to every emitted change.
type Context struct {
	CommitSHA string
	Author    string
}

const fuzzyThreshold = 0.80

// Entities matches before against after and returns the ordered list of
// changes. similarityFn may be nil, in which case phase 3 (fuzzy matching)
// is skipped entirely.
func Entities(before, after []entity.Entity, similarityFn SimilarityFunc, ctx Context) []change.SemanticChange {
	var changes []change.SemanticChange

	matchedBefore := make(map[string]bool, len(before))
	matchedAfter := make(map[string]bool, len(after))

	beforeByID := make(map[string]entity.Entity, len(before))
	for _, e := range before {
		beforeByID[e.ID] = e
	}
	afterByID := make(map[string]entity.Entity, len(after))
	for _, e := range after {
		afterByID[e.ID] = e
	}

	// Phase 1: exact ID match, in after's emitted order for determinism.
	for _, afterEntity := range after {
		beforeEntity, ok := beforeByID[afterEntity.ID]
		if !ok {
			continue
		}
		matchedBefore[afterEntity.ID] = true
		matchedAfter[afterEntity.ID] = true

		if beforeEntity.ContentHash == afterEntity.ContentHash {
			continue
		}

		changes = append(changes, change.SemanticChange{
			ID:               "change::" + afterEntity.ID,
			EntityID:         afterEntity.ID,
			ChangeType:       change.Modified,
			EntityType:       afterEntity.EntityType,
			EntityName:       afterEntity.Name,
			FilePath:         afterEntity.FilePath,
			BeforeContent:    beforeEntity.Content,
			AfterContent:     afterEntity.Content,
			CommitSHA:        ctx.CommitSHA,
			Author:           ctx.Author,
			StructuralChange: structuralChangeFlag(beforeEntity, afterEntity),
		})
	}

	unmatchedBefore := filterUnmatched(before, matchedBefore)
	unmatchedAfter := filterUnmatched(after, matchedAfter)

	// Phase 2: content-hash / structural-hash match. Buckets preserve
	// emitted order; matching pops from the front of a bucket (FIFO) so
	// tie-breaking is deterministic and independent of map iteration order.
	beforeByHash := map[string][]entity.Entity{}
	beforeByStructural := map[string][]entity.Entity{}
	for _, e := range unmatchedBefore {
		beforeByHash[e.ContentHash] = append(beforeByHash[e.ContentHash], e)
		if e.StructuralHash != "" {
			beforeByStructural[e.StructuralHash] = append(beforeByStructural[e.StructuralHash], e)
		}
	}

	for _, afterEntity := range unmatchedAfter {
		if matchedAfter[afterEntity.ID] {
			continue
		}

		matched, ok := popUnmatched(beforeByHash[afterEntity.ContentHash], matchedBefore)
		if !ok && afterEntity.StructuralHash != "" {
			matched, ok = popUnmatched(beforeByStructural[afterEntity.StructuralHash], matchedBefore)
		}
		if !ok {
			continue
		}

		matchedBefore[matched.ID] = true
		matchedAfter[afterEntity.ID] = true
		changes = append(changes, renameOrMove(matched, afterEntity, ctx))
	}

	// Phase 3: fuzzy similarity, same-type candidates only, threshold 0.80.
	if similarityFn != nil {
		stillUnmatchedBefore := filterUnmatched(unmatchedBefore, matchedBefore)
		stillUnmatchedAfter := filterUnmatched(unmatchedAfter, matchedAfter)

		for _, afterEntity := range stillUnmatchedAfter {
			if matchedAfter[afterEntity.ID] {
				continue
			}
			var best *entity.Entity
			bestScore := 0.0
			for i := range stillUnmatchedBefore {
				beforeEntity := stillUnmatchedBefore[i]
				if matchedBefore[beforeEntity.ID] {
					continue
				}
				if beforeEntity.EntityType != afterEntity.EntityType {
					continue
				}
				score := similarityFn(beforeEntity, afterEntity)
				if score > bestScore && score >= fuzzyThreshold {
					bestScore = score
					best = &stillUnmatchedBefore[i]
				}
			}
			if best == nil {
				continue
			}
			matchedBefore[best.ID] = true
			matchedAfter[afterEntity.ID] = true
			changes = append(changes, renameOrMove(*best, afterEntity, ctx))
		}
	}

	// Phase 4: residual before = deleted, residual after = added.
	for _, e := range before {
		if matchedBefore[e.ID] {
			continue
		}
		changes = append(changes, change.SemanticChange{
			ID:            "change::deleted::" + e.ID,
			EntityID:      e.ID,
			ChangeType:    change.Deleted,
			EntityType:    e.EntityType,
			EntityName:    e.Name,
			FilePath:      e.FilePath,
			BeforeContent: e.Content,
			CommitSHA:     ctx.CommitSHA,
			Author:        ctx.Author,
		})
	}
	for _, e := range after {
		if matchedAfter[e.ID] {
			continue
		}
		changes = append(changes, change.SemanticChange{
			ID:           "change::added::" + e.ID,
			EntityID:     e.ID,
			ChangeType:   change.Added,
			EntityType:   e.EntityType,
			EntityName:   e.Name,
			FilePath:     e.FilePath,
			AfterContent: e.Content,
			CommitSHA:    ctx.CommitSHA,
			Author:       ctx.Author,
		})
	}

	return changes
}

func structuralChangeFlag(before, after entity.Entity) *bool {
	if before.StructuralHash == "" || after.StructuralHash == "" {
		return nil
	}
	differ := before.StructuralHash != after.StructuralHash
	return &differ
}

func renameOrMove(before, after entity.Entity, ctx Context) change.SemanticChange {
	ct := change.Renamed
	oldPath := ""
	if before.FilePath != after.FilePath {
		ct = change.Moved
		oldPath = before.FilePath
	}
	return change.SemanticChange{
		ID:            "change::" + after.ID,
		EntityID:      after.ID,
		ChangeType:    ct,
		EntityType:    after.EntityType,
		EntityName:    after.Name,
		FilePath:      after.FilePath,
		OldFilePath:   oldPath,
		BeforeContent: before.Content,
		AfterContent:  after.Content,
		CommitSHA:     ctx.CommitSHA,
		Author:        ctx.Author,
	}
}

func filterUnmatched(entities []entity.Entity, matched map[string]bool) []entity.Entity {
	out := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if !matched[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// popUnmatched scans bucket in its emitted (FIFO) order for the first entry
// not already matched, and reports whether one was found. The bucket slice
// itself is not mutated; matchedBefore is the single source of truth for
// "already taken," so concurrent buckets (hash vs. structural) never race
// against each other via stale removal state.
func popUnmatched(bucket []entity.Entity, matchedBefore map[string]bool) (entity.Entity, bool) {
	for _, e := range bucket {
		if !matchedBefore[e.ID] {
			return e, true
		}
	}
	return entity.Entity{}, false
}

// DefaultSimilarity scores two entities by Jaccard index over
// whitespace-split tokens of their content. Early rejection: if the smaller
// token count divided by the larger is below 0.6, the Jaccard score cannot
// reach the 0.80 threshold, so 0.0 is returned without computing the full
// set intersection.
func DefaultSimilarity(a, b entity.Entity) float64 {
	tokensA := tokenSet(a.Content)
	tokensB := tokenSet(b.Content)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	smaller, larger := len(tokensA), len(tokensB)
	if smaller > larger {
		smaller, larger = larger, smaller
	}
	if float64(smaller)/float64(larger) < 0.6 {
		return 0.0
	}

	intersection := 0
	for t := range tokensA {
		if tokensB[t] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(content string) map[string]bool {
	fields := strings.Fields(content)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
