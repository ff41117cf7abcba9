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

package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestInitColors_ExplicitNoColorDisablesPalette(t *testing.T) {
	InitColors(true)
	require.True(t, color.NoColor)
	require.Equal(t, "Error:", Red.Sprint("Error:"))
}

func TestInitColors_EnvVarDisablesPalette(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	InitColors(false)
	require.True(t, color.NoColor)
}

func TestLabel_WrapsText(t *testing.T) {
	InitColors(true)
	require.Equal(t, "Project ID:", Label("Project ID:"))
}

func TestCountText_WrapsInteger(t *testing.T) {
	InitColors(true)
	require.Equal(t, "42", CountText(42))
}

func TestNewProgressBar_NilForNonPositiveTotal(t *testing.T) {
	InitColors(true)
	require.Nil(t, NewProgressBar(0, "x"))
	require.Nil(t, NewProgressBar(-1, "x"))
}

func TestNewProgressBar_NilWhenColorDisabled(t *testing.T) {
	InitColors(true)
	require.Nil(t, NewProgressBar(10, "x"))
}
