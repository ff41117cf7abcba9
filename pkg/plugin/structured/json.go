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
	"encoding/json"
	"strings"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

// JSONPlugin extracts one entity per top-level property of the root object.
// encoding/json validates that the file actually parses (and that the root
// is an object), but line ranges come from a hand-rolled scan of the raw
// text tracking brace/bracket depth and in-string state, since decoded Go
// values carry no position info. A file that fails to parse, or whose root
// isn't an object, yields no entities; the fallback chunker is not tried
// in its place.
type JSONPlugin struct{}

func (JSONPlugin) ID() string           { return "json" }
func (JSONPlugin) Extensions() []string { return []string{".json"} }

func (JSONPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	var probe any
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return nil
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil
	}

	props := scanJSONTopLevelProperties(content)
	entities := make([]entity.Entity, 0, len(props))
	for _, p := range props {
		entityType := "property"
		if v := strings.TrimSpace(p.value); strings.HasPrefix(v, "{") || strings.HasPrefix(v, "[") {
			entityType = "object"
		}
		id := entity.BuildID(filePath, entityType, p.name, "")
		entities = append(entities, entity.Entity{
			ID:          id,
			FilePath:    filePath,
			EntityType:  entityType,
			Name:        p.name,
			Content:     strings.TrimSpace(p.value),
			ContentHash: semhash.ContentHashString(strings.TrimSpace(p.value)),
			StartLine:   p.startLine,
			EndLine:     p.endLine,
		})
	}
	return entities
}

type jsonProperty struct {
	name      string
	value     string
	startLine int
	endLine   int
}

// scanJSONTopLevelProperties walks content once, tracking container depth
// and in-string state, and records each depth-1 key's raw name (the text
// between its quotes, unescaped JSON-pointer-free per spec §4.5), the line
// the following ':' appears on, and the verbatim text of its value. A
// property's range extends to the line before the next top-level key; the
// last one ends at the line before the root's closing brace.
func scanJSONTopLevelProperties(content string) []jsonProperty {
	var props []jsonProperty

	depth := 0
	line := 1
	inString := false
	escaped := false

	haveKey := false
	var valueStart int
	var lastStringStart, lastStringEnd int
	rootCloseLine := 0
	// haveString is true only while the most recently closed string is still
	// a candidate key, i.e. nothing but whitespace has followed it. Any
	// structural character other than ':' invalidates the candidacy.
	haveString := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				lastStringEnd = i
				haveString = true
			}
			if c == '\n' {
				line++
			}
			continue
		}

		switch c {
		case '\n':
			line++
		case ' ', '\t', '\r':
			// whitespace between a key string and ':' is valid JSON; leave
			// haveString untouched.
		case '"':
			inString = true
			escaped = false
			lastStringStart = i + 1
			haveString = false
		case '{', '[':
			depth++
			haveString = false
		case '}', ']':
			depth--
			if depth == 0 && haveKey {
				props[len(props)-1].value = content[valueStart:i]
				rootCloseLine = line
				haveKey = false
			}
			haveString = false
		case ':':
			if depth == 1 && haveString {
				props = append(props, jsonProperty{name: content[lastStringStart:lastStringEnd], startLine: line})
				haveKey = true
				valueStart = i + 1
			}
			haveString = false
		case ',':
			if depth == 1 && haveKey {
				props[len(props)-1].value = content[valueStart:i]
				props[len(props)-1].endLine = line
				haveKey = false
			}
			haveString = false
		default:
			haveString = false
		}
	}

	for idx := range props {
		switch {
		case idx+1 < len(props):
			props[idx].endLine = props[idx+1].startLine - 1
		case rootCloseLine > 0:
			props[idx].endLine = rootCloseLine - 1
		default:
			props[idx].endLine = props[idx].startLine
		}
		if props[idx].endLine < props[idx].startLine {
			props[idx].endLine = props[idx].startLine
		}
	}
	return props
}
