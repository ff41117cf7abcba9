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
	"fmt"
	"strings"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

// CSVPlugin extracts one entity per data row, named by its first column's
// value (falling back to its 1-based row number when that cell is empty),
// with a metadata map of header -> cell value. Parsing is hand rolled rather
// than encoding/csv because encoding/csv rejects inconsistent column counts
// outright, whereas this extractor should tolerate a ragged row the way a
// human skimming the file would.
type CSVPlugin struct{ delimiter byte }

func NewCSVPlugin() *CSVPlugin { return &CSVPlugin{delimiter: ','} }
func NewTSVPlugin() *CSVPlugin { return &CSVPlugin{delimiter: '\t'} }

func (p *CSVPlugin) ID() string {
	if p.delimiter == '\t' {
		return "tsv"
	}
	return "csv"
}

func (p *CSVPlugin) Extensions() []string {
	if p.delimiter == '\t' {
		return []string{".tsv"}
	}
	return []string{".csv"}
}

func (p *CSVPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	lines := splitCSVLines(content)
	if len(lines) == 0 {
		return nil
	}

	header := parseCSVLine(lines[0], p.delimiter)
	if len(header) == 0 {
		return nil
	}

	var entities []entity.Entity
	for rowIdx := 1; rowIdx < len(lines); rowIdx++ {
		if strings.TrimSpace(lines[rowIdx]) == "" {
			continue
		}
		cells := parseCSVLine(lines[rowIdx], p.delimiter)

		metadata := make(map[string]string, len(header))
		var rendered strings.Builder
		for i, col := range header {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			metadata[col] = cell
			fmt.Fprintf(&rendered, "%s: %s\n", col, cell)
		}

		name := fmt.Sprintf("row_%d", rowIdx)
		if len(cells) > 0 && cells[0] != "" {
			name = fmt.Sprintf("row[%s]", cells[0])
		}
		text := rendered.String()
		id := entity.BuildID(filePath, "row", name, "")
		entities = append(entities, entity.Entity{
			ID:          id,
			FilePath:    filePath,
			EntityType:  "row",
			Name:        name,
			Content:     text,
			ContentHash: semhash.ContentHashString(text),
			StartLine:   rowIdx + 1,
			EndLine:     rowIdx + 1,
			Metadata:    metadata,
		})
	}
	return entities
}

func splitCSVLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseCSVLine splits one line on delimiter, honoring double-quoted fields
// that may themselves contain the delimiter or an escaped ("") quote.
func parseCSVLine(line string, delimiter byte) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuotes:
			if ch == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(ch)
			}
		case ch == '"':
			inQuotes = true
		case ch == delimiter:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(ch)
		}
	}
	fields = append(fields, field.String())
	return fields
}
