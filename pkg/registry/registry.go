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

// Package registry wires the default set of extractor plugins into a
// plugin.Registry. It is a separate package from pkg/plugin so that
// pkg/plugin/code and pkg/plugin/structured (which both depend on
// pkg/plugin for the Plugin interface) don't have to import back into it.
package registry

import (
	"github.com/kraklabs/sem/pkg/plugin"
	"github.com/kraklabs/sem/pkg/plugin/code"
	"github.com/kraklabs/sem/pkg/plugin/structured"
)

// Default builds the registry used by every command: json first, then
// every code language, then yaml, toml, csv, tsv and markdown, with the
// fallback chunker registered last so it never shadows a typed plugin.
func Default() *plugin.Registry {
	r := plugin.NewRegistry()

	plugin.Register(r, structured.JSONPlugin{})
	for _, p := range code.NewPlugins() {
		plugin.Register(r, p)
	}
	plugin.Register(r, structured.YAMLPlugin{})
	plugin.Register(r, structured.TOMLPlugin{})
	plugin.Register(r, structured.NewCSVPlugin())
	plugin.Register(r, structured.NewTSVPlugin())
	plugin.Register(r, structured.MarkdownPlugin{})
	plugin.Register(r, structured.FallbackPlugin{})

	return r
}
