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

// Package semhash provides the two content-addressed hashes entities carry:
// a fast whole-content hash and a structural hash computed over a tree-sitter
// AST that ignores comments and incidental whitespace.
package semhash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	sitter "github.com/smacker/go-tree-sitter"
)

// ContentHash returns a deterministic lowercase 16-hex-char digest of content.
// Collisions are tolerated: downstream comparisons are always between
// same-language entities of similar size, not a security boundary.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// ContentHashString is a convenience wrapper for string content.
func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// ShortHash truncates ContentHash to length hex characters.
func ShortHash(content string, length int) string {
	h := ContentHashString(content)
	if length > len(h) {
		length = len(h)
	}
	return h[:length]
}

var commentNodeKinds = map[string]bool{
	"comment":       true,
	"line_comment":  true,
	"block_comment": true,
	"doc_comment":   true,
}

// StructuralHash streams a depth-first hash over node, skipping comment
// nodes, so that two sources differing only in comments or in ASCII
// whitespace outside string literals hash identically. Node kinds are fed
// for internal nodes (capturing structure) and ASCII-trimmed leaf text is
// fed for leaves (capturing content); both enter the hash so that ASTs with
// identical leaves but different shape still hash differently.
func StructuralHash(node *sitter.Node, source []byte) string {
	h := xxhash.New()
	hashStructuralTokens(node, source, h)
	return fmt.Sprintf("%016x", h.Sum64())
}

func hashStructuralTokens(node *sitter.Node, source []byte, h *xxhash.Digest) {
	kind := node.Type()
	if commentNodeKinds[kind] {
		return
	}

	childCount := int(node.ChildCount())
	if childCount == 0 {
		start, end := node.StartByte(), node.EndByte()
		if start < end && int(end) <= len(source) {
			trimmed := trimASCIISpace(source[start:end])
			if len(trimmed) > 0 {
				h.Write(trimmed)
				h.Write([]byte{' '})
			}
		}
		return
	}

	h.Write([]byte(kind))
	h.Write([]byte{':'})
	for i := 0; i < childCount; i++ {
		hashStructuralTokens(node.Child(i), source, h)
	}
}

func trimASCIISpace(b []byte) []byte {
	start := 0
	for start < len(b) && isASCIISpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
