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

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesKnownExtensionsToTypedPlugins(t *testing.T) {
	r := Default()

	cases := map[string]string{
		"main.go":      "go",
		"script.py":    "python",
		"app.rs":       "rust",
		"config.json":  "json",
		"config.yaml":  "yaml",
		"config.toml":  "toml",
		"data.csv":     "csv",
		"data.tsv":     "tsv",
		"notes.md":     "markdown",
	}
	for path, wantID := range cases {
		p := r.Get(path)
		require.NotNil(t, p, "expected a plugin for %s", path)
		require.Equal(t, wantID, p.ID(), "path %s", path)
	}
}

func TestDefault_FallsBackForUnknownExtensions(t *testing.T) {
	r := Default()
	p := r.Get("README")
	require.NotNil(t, p)
	require.Equal(t, "fallback", p.ID())
}

func TestDefault_JSONNotShadowedByFallback(t *testing.T) {
	r := Default()
	p := r.Get("data.json")
	require.Equal(t, "json", p.ID())
}
