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

package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sem/pkg/change"
	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/plugin"
	"github.com/kraklabs/sem/pkg/vcs"
)

// lineCountPlugin is a minimal test extractor: one "line" entity per
// non-blank input line, named by its 0-based position.
type lineCountPlugin struct {
	panicOnContent string
}

func (p lineCountPlugin) ID() string          { return "linecount" }
func (p lineCountPlugin) Extensions() []string { return []string{".txt"} }

func (p lineCountPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	if p.panicOnContent != "" && content == p.panicOnContent {
		panic("simulated grammar panic")
	}
	var out []entity.Entity
	for i, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		name := strings.TrimSpace(line)
		out = append(out, entity.Entity{
			ID: entity.BuildID(filePath, "line", name, ""), FilePath: filePath,
			EntityType: "line", Name: name, Content: line,
			ContentHash: line, StartLine: i + 1, EndLine: i + 1,
		})
	}
	return out
}

func newRegistry(p plugin.Plugin) *plugin.Registry {
	r := plugin.NewRegistry()
	plugin.Register(r, p)
	return r
}

func TestCompute_AddedFile(t *testing.T) {
	reg := newRegistry(lineCountPlugin{})
	fc := vcs.FileChange{FilePath: "a.txt", Status: vcs.Added, AfterContent: "hello", HasAfter: true}

	result := Compute([]vcs.FileChange{fc}, reg, "sha1", "alice")
	require.Equal(t, 1, result.FileCount)
	require.Len(t, result.Changes, 1)
	require.Equal(t, change.Added, result.Changes[0].ChangeType)
	require.Equal(t, "sha1", result.Changes[0].CommitSHA)
	require.Equal(t, "alice", result.Changes[0].Author)
}

func TestCompute_DeletedFile(t *testing.T) {
	reg := newRegistry(lineCountPlugin{})
	fc := vcs.FileChange{FilePath: "a.txt", Status: vcs.Deleted, BeforeContent: "bye", HasBefore: true}

	result := Compute([]vcs.FileChange{fc}, reg, "", "")
	require.Len(t, result.Changes, 1)
	require.Equal(t, change.Deleted, result.Changes[0].ChangeType)
}

func TestCompute_HasBeforeHasAfterGateExtraction(t *testing.T) {
	// Regression guard for the presence/absence fix: an Added FileChange
	// with HasBefore=false must never call the extractor on BeforeContent,
	// even though BeforeContent is the Go zero value "" either way.
	reg := newRegistry(lineCountPlugin{})
	fc := vcs.FileChange{FilePath: "a.txt", Status: vcs.Added, AfterContent: "only-after", HasAfter: true}

	result := Compute([]vcs.FileChange{fc}, reg, "", "")
	require.Len(t, result.Changes, 1)
	require.Equal(t, change.Added, result.Changes[0].ChangeType)
	require.Empty(t, result.Changes[0].BeforeContent)
}

func TestCompute_UnsupportedFileTypeSkipped(t *testing.T) {
	reg := plugin.NewRegistry() // nothing registered, no fallback
	fc := vcs.FileChange{FilePath: "a.bin", Status: vcs.Added, AfterContent: "x", HasAfter: true}

	result := Compute([]vcs.FileChange{fc}, reg, "", "")
	require.Empty(t, result.Changes)
	require.Equal(t, 0, result.FileCount)
}

func TestCompute_ExtractorPanicDegradesToEmptySide(t *testing.T) {
	reg := newRegistry(lineCountPlugin{panicOnContent: "boom"})
	fc := vcs.FileChange{
		FilePath: "a.txt", Status: vcs.Modified,
		BeforeContent: "boom", HasBefore: true,
		AfterContent: "fine", HasAfter: true,
	}

	require.NotPanics(t, func() {
		result := Compute([]vcs.FileChange{fc}, reg, "", "")
		// Before side panicked -> empty before entities -> after's entity
		// falls through phase 4 as Added, not Modified.
		require.Len(t, result.Changes, 1)
		require.Equal(t, change.Added, result.Changes[0].ChangeType)
	})
}

func TestCompute_CountsByType(t *testing.T) {
	reg := newRegistry(lineCountPlugin{})
	fc := vcs.FileChange{
		FilePath: "a.txt", Status: vcs.Modified,
		BeforeContent: "keep\nremoved", HasBefore: true,
		AfterContent: "keep\nadded", HasAfter: true,
	}

	result := Compute([]vcs.FileChange{fc}, reg, "", "")
	require.Equal(t, 1, result.AddedCount)
	require.Equal(t, 1, result.DeletedCount)
	require.Equal(t, 0, result.ModifiedCount)
}
