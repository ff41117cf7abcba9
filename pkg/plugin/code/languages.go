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
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageConfig is a single language's grammar binding plus the node-kind
// vocabulary the extractor needs: which node kinds are entities, and which
// container kinds warrant recursing into their children at all (the
// extractor never descends into, say, a function body looking for nested
// entities unless the language's container set says expression statements
// can hold them).
type LanguageConfig struct {
	ID                 string
	Extensions         []string
	EntityNodeTypes    map[string]string // tree-sitter node kind -> entity type
	ContainerNodeTypes map[string]bool   // node kinds worth recursing into
	GetLanguage        func() *sitter.Language
}

// Languages is the fixed table of every language this extractor understands,
// in registration order. Fortran carries a nil GetLanguage: go-tree-sitter
// ships no Fortran grammar, so its extensions are registered for round-trip
// plugin-lookup completeness but parsing always takes the "grammar
// unavailable" path and returns an empty entity list, exactly like any other
// grammar-load failure.
var Languages = []LanguageConfig{
	{
		ID:         "typescript",
		Extensions: []string{".ts", ".mts", ".cts"},
		EntityNodeTypes: map[string]string{
			"function_declaration":    "function",
			"method_definition":       "method",
			"class_declaration":       "class",
			"interface_declaration":   "interface",
			"enum_declaration":        "enum",
			"type_alias_declaration":  "type",
			"variable_declarator":     "variable",
			"lexical_declaration":     "variable",
			"abstract_class_declaration": "class",
		},
		ContainerNodeTypes: set("program", "export_statement", "class_body", "module", "namespace_declaration"),
		GetLanguage:        typescript.GetLanguage,
	},
	{
		ID:         "tsx",
		Extensions: []string{".tsx"},
		EntityNodeTypes: map[string]string{
			"function_declaration":   "function",
			"method_definition":      "method",
			"class_declaration":      "class",
			"interface_declaration":  "interface",
			"enum_declaration":       "enum",
			"type_alias_declaration": "type",
			"variable_declarator":    "variable",
			"lexical_declaration":    "variable",
		},
		ContainerNodeTypes: set("program", "export_statement", "class_body"),
		GetLanguage:        tsx.GetLanguage,
	},
	{
		ID:         "javascript",
		Extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		EntityNodeTypes: map[string]string{
			"function_declaration": "function",
			"method_definition":    "method",
			"class_declaration":    "class",
			"variable_declarator":  "variable",
			"lexical_declaration":  "variable",
		},
		ContainerNodeTypes: set("program", "export_statement", "class_body"),
		GetLanguage:        javascript.GetLanguage,
	},
	{
		ID:         "python",
		Extensions: []string{".py", ".pyi"},
		EntityNodeTypes: map[string]string{
			"function_definition": "function",
			"class_definition":    "class",
			"decorated_definition": "function",
		},
		ContainerNodeTypes: set("module", "block", "decorated_definition"),
		GetLanguage:        python.GetLanguage,
	},
	{
		ID:         "go",
		Extensions: []string{".go"},
		EntityNodeTypes: map[string]string{
			"function_declaration": "function",
			"method_declaration":   "method",
			"type_declaration":     "type",
			"type_spec":            "type",
			"const_declaration":    "const",
			"var_declaration":      "variable",
		},
		ContainerNodeTypes: set("source_file", "type_declaration"),
		GetLanguage:        golang.GetLanguage,
	},
	{
		ID:         "rust",
		Extensions: []string{".rs"},
		EntityNodeTypes: map[string]string{
			"function_item":    "function",
			"struct_item":      "struct",
			"enum_item":        "enum",
			"trait_item":       "trait",
			"impl_item":        "impl",
			"mod_item":         "module",
			"const_item":       "const",
			"static_item":      "variable",
			"type_item":        "type",
		},
		ContainerNodeTypes: set("source_file", "mod_item", "impl_item", "declaration_list"),
		GetLanguage:        rust.GetLanguage,
	},
	{
		ID:         "java",
		Extensions: []string{".java"},
		EntityNodeTypes: map[string]string{
			"method_declaration":     "method",
			"class_declaration":      "class",
			"interface_declaration":  "interface",
			"enum_declaration":       "enum",
			"constructor_declaration": "method",
			"field_declaration":      "field",
		},
		ContainerNodeTypes: set("program", "class_body", "interface_body"),
		GetLanguage:        java.GetLanguage,
	},
	{
		ID:         "c",
		Extensions: []string{".c", ".h"},
		EntityNodeTypes: map[string]string{
			"function_definition": "function",
			"struct_specifier":    "struct",
			"enum_specifier":      "enum",
			"union_specifier":     "union",
			"declaration":         "variable",
		},
		ContainerNodeTypes: set("translation_unit"),
		GetLanguage:        c.GetLanguage,
	},
	{
		ID:         "cpp",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		EntityNodeTypes: map[string]string{
			"function_definition": "function",
			"class_specifier":     "class",
			"struct_specifier":    "struct",
			"enum_specifier":      "enum",
			"union_specifier":     "union",
			"namespace_definition": "module",
			"declaration":         "variable",
		},
		ContainerNodeTypes: set("translation_unit", "namespace_definition", "field_declaration_list"),
		GetLanguage:        cpp.GetLanguage,
	},
	{
		ID:         "ruby",
		Extensions: []string{".rb"},
		EntityNodeTypes: map[string]string{
			"method":       "method",
			"class":        "class",
			"module":       "module",
			"singleton_method": "method",
		},
		ContainerNodeTypes: set("program", "class", "module", "body_statement"),
		GetLanguage:        ruby.GetLanguage,
	},
	{
		ID:         "csharp",
		Extensions: []string{".cs"},
		EntityNodeTypes: map[string]string{
			"method_declaration":      "method",
			"class_declaration":       "class",
			"interface_declaration":   "interface",
			"struct_declaration":      "struct",
			"enum_declaration":        "enum",
			"constructor_declaration": "method",
			"property_declaration":    "field",
		},
		ContainerNodeTypes: set("compilation_unit", "class_declaration", "namespace_declaration", "declaration_list"),
		GetLanguage:        csharp.GetLanguage,
	},
	{
		ID:         "php",
		Extensions: []string{".php"},
		EntityNodeTypes: map[string]string{
			"function_definition":      "function",
			"method_declaration":       "method",
			"class_declaration":        "class",
			"interface_declaration":    "interface",
			"trait_declaration":        "trait",
			"enum_declaration":         "enum",
		},
		ContainerNodeTypes: set("program", "class_declaration", "declaration_list"),
		GetLanguage:        php.GetLanguage,
	},
	{
		ID:              "fortran",
		Extensions:      []string{".f", ".f90", ".f95", ".for"},
		EntityNodeTypes: map[string]string{},
		ContainerNodeTypes: map[string]bool{},
		// go-tree-sitter bundles no Fortran grammar; nil here is intentional
		// and handled identically to any other grammar-load failure.
		GetLanguage: nil,
	},
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}

// commentNodeKinds lists node kinds the structural hash skips, shared across
// every language in the table above.
var commentNodeKinds = set("comment", "line_comment", "block_comment", "doc_comment")
