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

// Package vcs is the git adapter boundary: it discovers a repository,
// enumerates changed files for a scope, and populates before/after content.
// It is the one package in this repository that shells out and touches a
// working tree; the core packages (entity, match, differ, graph) never do.
package vcs

// FileStatus classifies one file's change within a scope.
type FileStatus string

const (
	Added    FileStatus = "added"
	Modified FileStatus = "modified"
	Deleted  FileStatus = "deleted"
	Renamed  FileStatus = "renamed"
)

// FileChange is one file's before/after state for a diff scope. Absence of
// a side (not just emptiness) is recorded in HasBefore/HasAfter: Added has
// no BeforeContent, Deleted has no AfterContent, Renamed has both plus
// OldFilePath identifying the prior path.
type FileChange struct {
	FilePath      string
	Status        FileStatus
	OldFilePath   string
	BeforeContent string
	AfterContent  string
	// HasBefore/HasAfter distinguish "empty file" from "no such side" —
	// Go's zero-value string can't, so the driver and tests must consult
	// these rather than comparing BeforeContent/AfterContent to "".
	HasBefore bool
	HasAfter  bool
}

// Scope selects which revisions to diff.
type ScopeKind int

const (
	ScopeWorking ScopeKind = iota
	ScopeStaged
	ScopeCommit
	ScopeRange
)

// Scope identifies a diff scope; SHA is used for ScopeCommit, From/To for
// ScopeRange.
type Scope struct {
	Kind ScopeKind
	SHA  string
	From string
	To   string
}

// CommitInfo is one entry of commit history, as returned by GetLog.
type CommitInfo struct {
	SHA      string
	ShortSHA string
	Author   string
	Date     string
	Message  string
}

// BlameLine is the attribution of a single line as reported by `git blame`.
type BlameLine struct {
	Line       int
	SHA        string
	Author     string
	AuthorTime int64
	Summary    string
}
