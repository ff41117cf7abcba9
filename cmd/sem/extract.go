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

package main

import (
	"github.com/kraklabs/sem/internal/metrics"
	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/plugin"
)

// safeExtractEntities isolates a plugin's extractor from a grammar panic,
// the same recover guard pkg/differ applies per file-side during a diff.
func safeExtractEntities(p plugin.Plugin, content, filePath string) (entities []entity.Entity) {
	defer func() {
		if recover() != nil {
			entities = nil
		}
	}()
	entities = p.ExtractEntities(content, filePath)
	metrics.FilesProcessed.Inc()
	metrics.EntitiesExtracted.Add(float64(len(entities)))
	return entities
}
