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

// Package plugin defines the extractor capability set and the
// extension-keyed registry that dispatches a file path to one.
package plugin

import (
	"path/filepath"
	"strings"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/match"
)

// Plugin extracts entities from one file format.
type Plugin interface {
	ID() string
	Extensions() []string
	ExtractEntities(content, filePath string) []entity.Entity
}

// SimilarityPlugin is implemented by plugins that override the default
// token-Jaccard similarity used in phase 3 of the matcher.
type SimilarityPlugin interface {
	ComputeSimilarity(a, b entity.Entity) float64
}

// ComputeSimilarity dispatches to p's own similarity function if it
// implements SimilarityPlugin, else falls back to match.DefaultSimilarity.
func ComputeSimilarity(p Plugin, a, b entity.Entity) float64 {
	if sp, ok := p.(SimilarityPlugin); ok {
		return sp.ComputeSimilarity(a, b)
	}
	return match.DefaultSimilarity(a, b)
}

// Registry resolves a file path to a Plugin by lowercased extension, falling
// back to the "fallback" plugin when no extension matches. Registered once
// per command invocation; plugins are registered in priority order so the
// fallback plugin, registered last, never shadows a typed one.
type Registry struct {
	plugins      []Plugin
	extensionMap map[string]int // ext (with leading dot, lowercase) -> index
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extensionMap: make(map[string]int)}
}

// Register adds a plugin, indexing it under every extension it declares.
func Register(r *Registry, p Plugin) {
	idx := len(r.plugins)
	for _, ext := range p.Extensions() {
		r.extensionMap[strings.ToLower(ext)] = idx
	}
	r.plugins = append(r.plugins, p)
}

// Get resolves filePath to a plugin, falling back to "fallback".
func (r *Registry) Get(filePath string) Plugin {
	ext := extensionOf(filePath)
	if idx, ok := r.extensionMap[ext]; ok {
		return r.plugins[idx]
	}
	return r.GetByID("fallback")
}

// GetByID looks up a plugin by its declared id, for direct fallback access.
func (r *Registry) GetByID(id string) Plugin {
	for _, p := range r.plugins {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func extensionOf(filePath string) string {
	ext := filepath.Ext(filePath)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext)
}
