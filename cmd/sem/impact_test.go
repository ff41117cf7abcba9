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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGraphForRepo_ResolvesCrossFileCallEdge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.go"),
		[]byte("package sample\n\nfunc Validate() bool { return true }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"),
		[]byte("package sample\n\nfunc Run() { Validate() }\n"), 0o644))

	// node_modules should be skipped entirely.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "ignored.go"),
		[]byte("package ignored\n\nfunc ShouldNotAppear() {}\n"), 0o644))

	g, err := buildGraphForRepo(dir)
	require.NoError(t, err)

	ids := g.FindByName("Run")
	require.Len(t, ids, 1)
	deps := g.GetDependencies(ids[0])

	validateIDs := g.FindByName("Validate")
	require.Len(t, validateIDs, 1)

	var depIDs []string
	for _, d := range deps {
		depIDs = append(depIDs, d.ID)
	}
	require.Contains(t, depIDs, validateIDs[0])

	require.Empty(t, g.FindByName("ShouldNotAppear"))
}
