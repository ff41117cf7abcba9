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

package code

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pluginFor(t *testing.T, id string) *Plugin {
	t.Helper()
	for _, p := range NewPlugins() {
		if p.ID() == id {
			return p
		}
	}
	t.Fatalf("no plugin registered for %q", id)
	return nil
}

func TestGoPlugin_ExtractsFunctionsAndTypes(t *testing.T) {
	p := pluginFor(t, "go")
	src := `package sample

func Add(a, b int) int {
	return a + b
}

type Widget struct {
	Name string
}

func (w *Widget) String() string {
	return w.Name
}
`
	entities := p.ExtractEntities(src, "sample.go")
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "Add")
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "String")
}

func TestGoPlugin_ContentAndStructuralHashesPopulated(t *testing.T) {
	p := pluginFor(t, "go")
	src := "package sample\n\nfunc Add(a, b int) int { return a + b }\n"
	entities := p.ExtractEntities(src, "sample.go")
	require.NotEmpty(t, entities)
	for _, e := range entities {
		require.NotEmpty(t, e.ContentHash)
		require.NotEmpty(t, e.StructuralHash)
		require.Greater(t, e.EndLine, 0)
	}
}

func TestPythonPlugin_ExtractsDecoratedFunctionAndClass(t *testing.T) {
	p := pluginFor(t, "python")
	src := `class Widget:
    def render(self):
        return self.name

@staticmethod
def helper():
    return 1
`
	entities := p.ExtractEntities(src, "sample.py")
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "render")
	require.Contains(t, names, "helper")
}

func TestJavaScriptPlugin_ExtractsFunctionAndClass(t *testing.T) {
	p := pluginFor(t, "javascript")
	src := `function add(a, b) {
  return a + b;
}

class Widget {
  render() {
    return this.name;
  }
}

export function exported() {
  return 1;
}
`
	entities := p.ExtractEntities(src, "sample.js")
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "add")
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "exported")
}

func TestRustPlugin_ExtractsStructAndImplMethods(t *testing.T) {
	p := pluginFor(t, "rust")
	src := `struct Widget {
    name: String,
}

impl Widget {
    fn render(&self) -> &str {
        &self.name
    }
}
`
	entities := p.ExtractEntities(src, "sample.rs")
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "render")
}

func TestCPlugin_ExtractsFunctionAndStruct(t *testing.T) {
	p := pluginFor(t, "c")
	src := `struct point {
    int x;
    int y;
};

int add(int a, int b) {
    return a + b;
}
`
	entities := p.ExtractEntities(src, "sample.c")
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "point")
	require.Contains(t, names, "add")
}

func TestFortranPlugin_NilGrammarReturnsEmpty(t *testing.T) {
	p := pluginFor(t, "fortran")
	entities := p.ExtractEntities("      PROGRAM HELLO\n      END PROGRAM HELLO\n", "sample.f90")
	require.Empty(t, entities)
}

func TestPlugin_UnparsableContentReturnsEmptyNotPanic(t *testing.T) {
	p := pluginFor(t, "go")
	require.NotPanics(t, func() {
		entities := p.ExtractEntities("", "empty.go")
		require.Empty(t, entities)
	})
}

func TestPlugin_ExtensionsMatchLanguageConfig(t *testing.T) {
	p := pluginFor(t, "go")
	require.Equal(t, []string{".go"}, p.Extensions())
}
