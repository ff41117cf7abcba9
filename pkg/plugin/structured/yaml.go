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

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

// YAMLPlugin extracts one entity per top-level mapping key of the document.
// gopkg.in/yaml.v3 validates the document and classifies each key's value
// kind (mapping/sequence vs. scalar); the key's own source range comes from
// a line scan, since that's the only way to capture block-style values
// (multi-line strings, nested mappings) verbatim the way §4.5 requires.
type YAMLPlugin struct{}

func (YAMLPlugin) ID() string           { return "yaml" }
func (YAMLPlugin) Extensions() []string { return []string{".yaml", ".yml"} }

func (YAMLPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}
	root := doc.Content[0]

	isContainer := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		kind := root.Content[i+1].Kind
		isContainer[root.Content[i].Value] = kind == yaml.MappingNode || kind == yaml.SequenceNode
	}

	lines := strings.Split(content, "\n")
	keys := scanYAMLTopLevelKeys(lines)

	entities := make([]entity.Entity, 0, len(keys))
	for idx, k := range keys {
		end := len(lines)
		if idx+1 < len(keys) {
			end = keys[idx+1].line - 1
		}
		end = trimTrailingBlankLines(lines, k.line, end)

		entityType := "property"
		if isContainer[k.name] {
			entityType = "section"
		}

		text := strings.TrimRight(strings.Join(lines[k.line-1:end], "\n"), "\n")
		id := entity.BuildID(filePath, entityType, k.name, "")
		entities = append(entities, entity.Entity{
			ID:          id,
			FilePath:    filePath,
			EntityType:  entityType,
			Name:        k.name,
			Content:     text,
			ContentHash: semhash.ContentHashString(text),
			StartLine:   k.line,
			EndLine:     end,
		})
	}
	return entities
}

type yamlKeyLine struct {
	name string
	line int
}

// scanYAMLTopLevelKeys finds every non-indented, non-comment,
// non-document-marker line containing a ':' key separator, per §4.5.
func scanYAMLTopLevelKeys(lines []string) []yamlKeyLine {
	var keys []yamlKeyLine
	for i, raw := range lines {
		if raw == "" || raw[0] == ' ' || raw[0] == '\t' {
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || trimmed == "---" || trimmed == "..." {
			continue
		}

		colon := findYAMLKeyColon(trimmed)
		if colon < 0 {
			continue
		}
		name := unquoteKey(strings.TrimSpace(trimmed[:colon]))
		if name == "" {
			continue
		}
		keys = append(keys, yamlKeyLine{name: name, line: i + 1})
	}
	return keys
}

// findYAMLKeyColon returns the index of the ':' that separates a YAML key
// from its value: the first ':' outside any quoted span that is followed by
// whitespace or end of line (so "http://example.com" isn't mistaken for a
// key/value separator).
func findYAMLKeyColon(s string) int {
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '\\' {
				i++
			} else if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == ':':
			if i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\t' {
				return i
			}
		}
	}
	return -1
}
