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

// Package errors defines CLI-facing errors with a title/detail/suggestion
// shape so the top-level command dispatcher can print a consistent,
// actionable message instead of a bare Go error string.
package errors

import (
	"fmt"
	"os"

	"github.com/kraklabs/sem/internal/ui"
)

// Category classifies a UserError by the kind of failure it reports.
// FatalError exits with status 1 for every category and does not print it.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryPermission Category = "permission"
	CategoryInternal   Category = "internal"
	CategoryVCS        Category = "vcs"
	CategoryNetwork    Category = "network"
)

// UserError is an error meant to be shown directly to a human: a short
// Title, a Detail sentence explaining what went wrong, and a Suggestion for
// how to fix it. Cause, if present, is wrapped for %w-style inspection and
// included in Error(), but FatalError does not print it.
type UserError struct {
	Category   Category
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

func newError(category Category, title, detail, suggestion string, cause error) error {
	return &UserError{Category: category, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewConfigError reports a problem reading or parsing configuration.
func NewConfigError(title, detail, suggestion string, cause error) error {
	return newError(CategoryConfig, title, detail, suggestion, cause)
}

// NewPermissionError reports a filesystem permission failure.
func NewPermissionError(title, detail, suggestion string, cause error) error {
	return newError(CategoryPermission, title, detail, suggestion, cause)
}

// NewInternalError reports a failure that should never happen in correct
// code — a bug, not a user mistake.
func NewInternalError(title, detail, suggestion string, cause error) error {
	return newError(CategoryInternal, title, detail, suggestion, cause)
}

// NewVCSError reports a git adapter failure (not a repository, bad ref,
// git binary missing, and so on).
func NewVCSError(title, detail, suggestion string, cause error) error {
	return newError(CategoryVCS, title, detail, suggestion, cause)
}

// NewNetworkError reports a failure reaching a remote resource.
func NewNetworkError(title, detail, suggestion string, cause error) error {
	return newError(CategoryNetwork, title, detail, suggestion, cause)
}

// FatalError prints err to stderr and exits the process with status 1.
// Command handlers call this as their last action on the error path rather
// than returning the error up to main, matching every subcommand's own
// exit-code contract. In jsonOutput mode the error is emitted as a single
// JSON object on stderr instead of the colored title/detail/suggestion
// block, so a caller piping --json output never has to distinguish a
// human-formatted error from the data stream.
func FatalError(err error, jsonOutput bool) {
	var ue *UserError
	hasUserError := asUserError(err, &ue)

	if jsonOutput {
		if hasUserError {
			fmt.Fprintf(os.Stderr, `{"error":%q,"detail":%q,"suggestion":%q}`+"\n", ue.Title, ue.Detail, ue.Suggestion)
		} else {
			fmt.Fprintf(os.Stderr, `{"error":%q}`+"\n", err.Error())
		}
		os.Exit(1)
	}

	if hasUserError {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.Red.Sprint("Error:"), ue.Title)
		if ue.Detail != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
		}
		if ue.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s %s\n", ui.Dim.Sprint("Suggestion:"), ue.Suggestion)
		}
	} else {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Red.Sprint("Error:"), err)
	}
	os.Exit(1)
}

func asUserError(err error, target **UserError) bool {
	for err != nil {
		if ue, ok := err.(*UserError); ok {
			*target = ue
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
