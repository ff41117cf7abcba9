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

// Package refheur extracts candidate cross-entity reference names from raw
// entity content using a textual heuristic: tokenize, drop keywords and
// common local-variable names, dedup on first occurrence. It makes no
// attempt at real symbol resolution — that happens one layer up in pkg/graph,
// which maps surviving names against the project's symbol table.
package refheur

import (
	"regexp"
	"strings"
)

// RefType classifies how a referencing token appears to be used.
type RefType string

const (
	Calls   RefType = "calls"
	TypeRef RefType = "type_ref"
	Imports RefType = "imports"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// keywords spans the control-flow, declaration, visibility, and primitive
// type vocabulary of every language the code extractors cover (TypeScript,
// JavaScript, Python, Go, Rust, Java, C, C++, Ruby, C#). A name this broad
// inevitably has false negatives for some single language's idiosyncratic
// keyword, but false negatives here are a missed edge, not a wrong one.
var keywords = buildSet([]string{
	"if", "else", "elif", "for", "while", "do", "switch", "case", "default",
	"break", "continue", "return", "yield", "goto", "try", "catch", "except",
	"finally", "throw", "raise", "panic", "recover", "defer",
	"function", "func", "def", "fn", "lambda", "class", "struct", "enum",
	"interface", "trait", "impl", "type", "typedef", "union", "namespace",
	"module", "package", "import", "from", "require", "include", "use",
	"export", "extern",
	"public", "private", "protected", "internal", "static", "final", "const",
	"let", "var", "val", "mut", "readonly", "abstract", "virtual", "override",
	"sealed", "partial", "async", "await", "synchronized", "volatile",
	"new", "delete", "this", "self", "super", "cls", "nil", "null", "none",
	"true", "false", "undefined", "void",
	"int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16",
	"uint32", "uint64", "float", "float32", "float64", "double", "bool",
	"boolean", "byte", "char", "string", "str", "rune", "long", "short",
	"unsigned", "signed", "size_t", "usize", "isize",
	"and", "or", "not", "in", "is", "as", "with", "pass", "end", "then",
	"begin", "where", "when",
})

// commonLocalNames are generic identifiers so frequently used for local
// variables and parameters across languages that treating them as
// cross-entity references produces mostly noise.
var commonLocalNames = buildSet([]string{
	"result", "results", "data", "config", "options", "opts", "value", "values",
	"item", "items", "key", "keys", "val", "vals", "err", "error", "errors",
	"ctx", "context", "req", "res", "resp", "response", "request", "out",
	"input", "output", "tmp", "temp", "buf", "buffer", "idx", "index", "i",
	"j", "k", "x", "y", "z", "n", "m", "args", "kwargs", "params", "param",
	"obj", "object", "ret", "retval", "entry", "entries", "list", "arr",
	"array", "map", "set", "node", "name", "path", "file", "line", "count",
	"total", "state", "flag", "ok", "found", "acc", "accumulator",
})

func buildSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isKeyword(token string) bool {
	return keywords[strings.ToLower(token)]
}

// isCommonLocalName matches case-sensitively, so a capitalized type name
// such as Result is kept while the local variable result is dropped.
func isCommonLocalName(token string) bool {
	return commonLocalNames[token]
}

// ExtractCandidates tokenizes content and returns candidate reference names
// in first-occurrence order, with keywords, common local names, and short
// lowercase-leading tokens (len < 3, unlikely to be a meaningful symbol)
// removed.
func ExtractCandidates(content string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenPattern.FindAllString(content, -1) {
		if isKeyword(tok) || isCommonLocalName(tok) {
			continue
		}
		if len(tok) < 3 && tok[0] >= 'a' && tok[0] <= 'z' {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// InferType classifies how name is being used on the given line: a call if
// name is immediately followed by "(" (skipping whitespace), an import if
// the trimmed line looks like an import/use/require/from statement,
// otherwise a type reference.
func InferType(name, line string) RefType {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "import ") || strings.HasPrefix(lower, "from ") ||
		strings.HasPrefix(lower, "use ") || strings.Contains(lower, "require(") ||
		strings.HasPrefix(lower, "#include") {
		return Imports
	}

	idx := strings.Index(line, name)
	for idx != -1 {
		after := idx + len(name)
		j := after
		for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		if j < len(line) && line[j] == '(' {
			return Calls
		}
		next := strings.Index(line[after:], name)
		if next == -1 {
			break
		}
		idx = after + next
	}
	return TypeRef
}
