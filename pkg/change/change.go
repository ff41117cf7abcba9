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

// Package change defines the SemanticChange record the matcher emits: an
// entity-level transition between two revisions, as opposed to a text hunk.
package change

// ChangeType classifies an entity transition between two revisions.
type ChangeType string

const (
	Added    ChangeType = "added"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
	Moved    ChangeType = "moved"
	Renamed  ChangeType = "renamed"
)

// SemanticChange is one entity's transition between a before- and
// after-revision. JSON field names and ChangeType values are fixed by the
// external interface contract: camelCase keys, lowercase change-type values.
type SemanticChange struct {
	ID              string     `json:"id"`
	EntityID        string     `json:"entityId"`
	ChangeType      ChangeType `json:"changeType"`
	EntityType      string     `json:"entityType"`
	EntityName      string     `json:"entityName"`
	FilePath        string     `json:"filePath"`
	OldFilePath     string     `json:"oldFilePath,omitempty"`
	BeforeContent   string     `json:"beforeContent,omitempty"`
	AfterContent    string     `json:"afterContent,omitempty"`
	CommitSHA       string     `json:"commitSha,omitempty"`
	Author          string     `json:"author,omitempty"`
	// StructuralChange is a tri-valued hint populated only by Phase 1 of the
	// matcher (exact-ID match): true if both sides carry a structural hash
	// and they differ, false if both are present and equal (a purely
	// cosmetic edit), nil if not comparable (one or both sides lack a
	// structural hash, or the match came from phase 2/3 where "before" and
	// "after" are different entity ids rather than the same identity).
	StructuralChange *bool `json:"structuralChange,omitempty"`
}
