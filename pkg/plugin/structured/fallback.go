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

// Package structured holds the non-code entity extractors: JSON, YAML,
// TOML, CSV/TSV, Markdown, and the line-chunking fallback plugin used for
// files no typed plugin claims. A typed extractor that fails to parse its
// input returns no entities; it does not hand the file to the fallback.
package structured

import (
	"fmt"
	"strings"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

const fallbackChunkSize = 20

// FallbackPlugin chunks any file into fixed-size line blocks. It is
// registered last in the registry and never rejects a file by extension —
// Extensions returns nil so it is only ever reached via Registry.Get's
// explicit fallback-by-id path, never by extension match.
type FallbackPlugin struct{}

func (FallbackPlugin) ID() string         { return "fallback" }
func (FallbackPlugin) Extensions() []string { return nil }

// ExtractEntities splits content into chunks of fallbackChunkSize lines,
// each becoming one "chunk" entity named by its starting line number.
func (FallbackPlugin) ExtractEntities(content, filePath string) []entity.Entity {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")

	var entities []entity.Entity
	for start := 0; start < len(lines); start += fallbackChunkSize {
		end := start + fallbackChunkSize
		if end > len(lines) {
			end = len(lines)
		}
		chunkText := strings.Join(lines[start:end], "\n")
		name := fmt.Sprintf("chunk_%d", start+1)
		id := entity.BuildID(filePath, "chunk", name, "")
		entities = append(entities, entity.Entity{
			ID:          id,
			FilePath:    filePath,
			EntityType:  "chunk",
			Name:        name,
			Content:     chunkText,
			ContentHash: semhash.ContentHashString(chunkText),
			StartLine:   start + 1,
			EndLine:     end,
		})
	}
	return entities
}
