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
	"regexp"
	"strings"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)

// MarkdownPlugin extracts one entity per heading section, nested by heading
// level: an H2 under an H1 gets that H1's entity id as its parent. Content
// preceding the first heading becomes a "(preamble)" entity when non-blank.
type MarkdownPlugin struct{}

func (MarkdownPlugin) ID() string           { return "markdown" }
func (MarkdownPlugin) Extensions() []string { return []string{".md", ".markdown"} }

type mdSection struct {
	id        string
	parentID  string
	level     int
	name      string
	startLine int
	lines     []string
}

func (MarkdownPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	lines := strings.Split(content, "\n")

	preamble := &mdSection{name: "(preamble)", startLine: 1}
	var sections []*mdSection
	current := preamble

	// sectionStack[level-1] holds the currently open section at that
	// heading level, so a new heading's parent is whatever is open one
	// level up, and closing out deeper levels on a shallower heading is
	// just truncating the stack.
	var sectionStack []*mdSection

	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			current.lines = append(current.lines, line)
			continue
		}

		level := len(m[1])
		name := strings.TrimSpace(m[2])

		if level > len(sectionStack) {
			level = len(sectionStack) + 1
		}
		sectionStack = sectionStack[:level-1]

		var parentID string
		if len(sectionStack) > 0 {
			parentID = sectionStack[len(sectionStack)-1].id
		}

		sec := &mdSection{
			parentID:  parentID,
			level:     level,
			name:      name,
			startLine: i + 1,
		}
		sec.id = entity.BuildID(filePath, "heading", name, parentID)
		sections = append(sections, sec)
		sectionStack = append(sectionStack, sec)
		current = sec
	}

	var entities []entity.Entity
	if preambleText := strings.TrimSpace(strings.Join(preamble.lines, "\n")); preambleText != "" {
		entities = append(entities, entity.Entity{
			ID:          entity.BuildID(filePath, "preamble", preamble.name, ""),
			FilePath:    filePath,
			EntityType:  "preamble",
			Name:        preamble.name,
			Content:     preambleText,
			ContentHash: semhash.ContentHashString(preambleText),
			StartLine:   1,
			EndLine:     len(preamble.lines),
		})
	}

	for _, s := range sections {
		text := strings.TrimSpace(strings.Join(s.lines, "\n"))
		entities = append(entities, entity.Entity{
			ID:          s.id,
			FilePath:    filePath,
			EntityType:  "heading",
			Name:        s.name,
			ParentID:    s.parentID,
			Content:     text,
			ContentHash: semhash.ContentHashString(text),
			StartLine:   s.startLine,
			EndLine:     s.startLine + len(s.lines),
		})
	}

	return entities
}
