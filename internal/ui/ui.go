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

// Package ui centralizes the CLI's terminal output: colored labels/headers,
// a NO_COLOR-aware palette, and a progress bar factory shared by every
// subcommand that walks a file tree.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Palette colors. Each is reassigned to a no-op (DisableColor) variant by
// InitColors when color output is disabled, so call sites never branch on
// color-enabled state themselves.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors disables all color output when noColor is set, the NO_COLOR
// env var is present, or stdout is not a terminal — matching the
// conventional precedence of an explicit flag over environment detection.
func InitColors(noColor bool) {
	disabled := noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd())
	color.NoColor = disabled
	for _, c := range []*color.Color{Green, Yellow, Red, Cyan, Bold, Dim} {
		c.EnableColor()
		if disabled {
			c.DisableColor()
		}
	}
}

// Header prints a bold section title followed by an underline of '=' the
// same width as the title.
func Header(title string) {
	_, _ = Bold.Println(title)
	fmt.Println(repeat('=', len(title)))
}

// SubHeader prints a bold section title with no underline.
func SubHeader(title string) {
	_, _ = Bold.Println(title)
}

// Label formats s as a dim field label, e.g. "Project ID:".
func Label(s string) string {
	return Dim.Sprint(s)
}

// CountText formats an integer count in bold, for emphasizing a summary
// statistic inline in a sentence.
func CountText(n int) string {
	return Bold.Sprint(n)
}

// DimText renders s dimmed, for secondary detail like durations and paths.
func DimText(s string) string {
	return Dim.Sprint(s)
}

func repeat(ch byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ch
	}
	return string(b)
}

// NewProgressBar builds a progress bar sized to total, labeled with
// description, rendered to stderr so it never interleaves with stdout data
// output. Returns nil if total <= 0 (nothing to show progress for) or color
// is disabled (non-interactive output shouldn't carry a redrawing bar).
func NewProgressBar(total int64, description string) *progressbar.ProgressBar {
	if total <= 0 || color.NoColor {
		return nil
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		progressbar.OptionClearOnFinish(),
	)
}
