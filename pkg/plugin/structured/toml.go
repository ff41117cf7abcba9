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

package structured

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

// TOMLPlugin extracts one entity per top-level entry: a [section] /
// [[array.of.tables]] header, or a root key-value pair appearing before any
// header. BurntSushi/toml validates the document (Decode into a throwaway
// map drops all position info, so it's used for validation only); entry
// ranges come from a line scan per §4.5.
type TOMLPlugin struct{}

func (TOMLPlugin) ID() string           { return "toml" }
func (TOMLPlugin) Extensions() []string { return []string{".toml"} }

func (TOMLPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	var probe map[string]any
	if _, err := toml.Decode(content, &probe); err != nil {
		return nil
	}

	lines := strings.Split(content, "\n")
	top := scanTOMLTopLevelEntries(lines)

	entities := make([]entity.Entity, 0, len(top))
	for idx, e := range top {
		end := len(lines)
		if idx+1 < len(top) {
			end = top[idx+1].line - 1
		}
		end = trimTrailingBlankOrCommentLines(lines, e.line, end)

		text := strings.TrimRight(strings.Join(lines[e.line-1:end], "\n"), "\n")
		id := entity.BuildID(filePath, e.entityType, e.name, "")
		entities = append(entities, entity.Entity{
			ID:          id,
			FilePath:    filePath,
			EntityType:  e.entityType,
			Name:        e.name,
			Content:     text,
			ContentHash: semhash.ContentHashString(text),
			StartLine:   e.line,
			EndLine:     end,
		})
	}
	return entities
}

type tomlTopLevelEntry struct {
	name       string
	entityType string
	line       int
}

// scanTOMLTopLevelEntries finds every [section] / [[array.of.tables]]
// header, plus every root key = value pair appearing before the first
// header, per §4.5.
func scanTOMLTopLevelEntries(lines []string) []tomlTopLevelEntry {
	var entries []tomlTopLevelEntry
	seenHeader := false

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			if name, ok := tomlHeaderName(trimmed); ok {
				entries = append(entries, tomlTopLevelEntry{name: name, entityType: "section", line: i + 1})
				seenHeader = true
			}
			continue
		}

		if seenHeader {
			continue
		}

		eq := strings.Index(trimmed, "=")
		if eq < 0 {
			continue
		}
		key := unquoteKey(strings.TrimSpace(trimmed[:eq]))
		if key == "" {
			continue
		}
		entries = append(entries, tomlTopLevelEntry{name: key, entityType: "property", line: i + 1})
	}
	return entries
}

// tomlHeaderName extracts the dotted path from a [section] or
// [[array.of.tables]] header line, stripping a trailing inline comment.
func tomlHeaderName(trimmed string) (string, bool) {
	end := strings.LastIndex(trimmed, "]")
	if end < 0 {
		return "", false
	}
	inner := strings.TrimSpace(strings.Trim(trimmed[1:end], "[]"))
	if inner == "" {
		return "", false
	}
	return inner, true
}
