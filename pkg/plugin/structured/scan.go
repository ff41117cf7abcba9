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

import "strings"

// unquoteKey strips a single matching pair of surrounding quotes from s, if
// present, for keys that YAML/TOML allow to be single- or double-quoted.
func unquoteKey(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// trimTrailingBlankLines pulls a 1-based, inclusive end line backward while
// the line it points at is blank, never crossing below start.
func trimTrailingBlankLines(lines []string, start, end int) int {
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return end
}

// trimTrailingBlankOrCommentLines is trimTrailingBlankLines plus TOML's
// additional rule that a trailing comment-only line belongs to whatever
// follows it, not the entry above.
func trimTrailingBlankOrCommentLines(lines []string, start, end int) int {
	for end > start {
		t := strings.TrimSpace(lines[end-1])
		if t == "" || strings.HasPrefix(t, "#") {
			end--
			continue
		}
		break
	}
	return end
}
