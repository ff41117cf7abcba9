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

// Package code extracts semantic entities (functions, types, classes, ...)
// from source code via tree-sitter, one Plugin per language in the
// Languages table.
package code

import (
	"context"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/sem/pkg/entity"
	"github.com/kraklabs/sem/pkg/semhash"
)

// Plugin extracts entities for one LanguageConfig. Parsers are not
// thread-safe, so each Plugin keeps its own sync.Pool of them, following the
// per-language parser pool pattern used elsewhere for tree-sitter parsing.
type Plugin struct {
	cfg  LanguageConfig
	pool sync.Pool
	once sync.Once
}

// NewPlugins builds one Plugin per entry in Languages.
func NewPlugins() []*Plugin {
	plugins := make([]*Plugin, 0, len(Languages))
	for _, cfg := range Languages {
		plugins = append(plugins, &Plugin{cfg: cfg})
	}
	return plugins
}

func (p *Plugin) ID() string           { return p.cfg.ID }
func (p *Plugin) Extensions() []string { return p.cfg.Extensions }

func (p *Plugin) initPool() {
	p.once.Do(func() {
		p.pool.New = func() any {
			if p.cfg.GetLanguage == nil {
				return nil
			}
			parser := sitter.NewParser()
			parser.SetLanguage(p.cfg.GetLanguage())
			return parser
		}
	})
}

// ExtractEntities parses content and walks the resulting tree, emitting one
// entity per node kind listed in the language's EntityNodeTypes, restricted
// to recursing into ContainerNodeTypes. A language with no grammar
// available (Fortran) or a grammar that fails to parse returns an empty
// list — both are the documented "no entities" outcome, not an error.
func (p *Plugin) ExtractEntities(content, filePath string) []entity.Entity {
	if p.cfg.GetLanguage == nil {
		return nil
	}
	p.initPool()

	parserObj := p.pool.Get()
	parser, ok := parserObj.(*sitter.Parser)
	if !ok || parser == nil {
		return nil
	}
	defer p.pool.Put(parser)

	source := []byte(content)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil
	}
	root := tree.RootNode()
	if root == nil {
		return nil
	}

	var entities []entity.Entity
	v := &visitor{cfg: p.cfg, source: source, filePath: filePath, out: &entities}
	v.visit(root, "")
	return entities
}

type visitor struct {
	cfg      LanguageConfig
	source   []byte
	filePath string
	out      *[]entity.Entity
}

// visit walks node, emitting an entity for every descendant whose kind is
// in cfg.EntityNodeTypes, then recursing into each CHILD whose own kind
// warrants it: a child typed as a container (e.g. a class's class_body) or
// as an entity in its own right (e.g. a method nested in that class_body).
// An entity node's type is frequently not itself a container type — a
// class_declaration is the entity, but its class_body child is the
// container holding the nested methods — so the descent decision is made
// per child, never by re-testing the node just visited.
func (v *visitor) visit(node *sitter.Node, parentID string) {
	if node == nil {
		return
	}

	if node.Type() == "export_statement" {
		if inner := node.ChildByFieldName("declaration"); inner != nil {
			v.visit(inner, parentID)
			return
		}
	}

	entityType, isEntity := v.cfg.EntityNodeTypes[node.Type()]
	currentParent := parentID

	if isEntity {
		name := v.extractName(node)
		if name != "" {
			id := entity.BuildID(v.filePath, entityType, name, parentID)
			text := v.nodeText(node)
			e := entity.Entity{
				ID:             id,
				FilePath:       v.filePath,
				EntityType:     entityType,
				Name:           name,
				ParentID:       parentID,
				Content:        text,
				ContentHash:    semhash.ContentHashString(text),
				StructuralHash: semhash.StructuralHash(node, v.source),
				StartLine:      int(node.StartPoint().Row) + 1,
				EndLine:        int(node.EndPoint().Row) + 1,
			}
			*v.out = append(*v.out, e)
			currentParent = id
		}
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child != nil && v.shouldDescend(child) {
			v.visit(child, currentParent)
		}
	}
}

// shouldDescend reports whether node warrants a recursive visit: either it
// is a container type holding further nested entities, an export_statement
// wrapper, or an entity type in its own right (which visit will emit, then
// continue descending from).
func (v *visitor) shouldDescend(node *sitter.Node) bool {
	t := node.Type()
	if v.cfg.ContainerNodeTypes[t] || t == "export_statement" {
		return true
	}
	_, isEntity := v.cfg.EntityNodeTypes[t]
	return isEntity
}

func (v *visitor) nodeText(node *sitter.Node) string {
	return string(v.source[node.StartByte():node.EndByte()])
}

// extractName follows spec's precedence chain for locating an entity's name:
// a "name" field, then a variable_declarator child, then a decorated
// definition's inner definition, then (for C-family declarators) a walk
// through pointer/function/array/parenthesized wrappers, then a struct/
// enum/union "name" field, and finally the first identifier-ish child.
func (v *visitor) extractName(node *sitter.Node) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return v.nodeText(nameNode)
	}

	if node.Type() == "lexical_declaration" || node.Type() == "var_declaration" {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "variable_declarator" {
				if n := child.ChildByFieldName("name"); n != nil {
					return v.nodeText(n)
				}
			}
		}
	}

	if node.Type() == "decorated_definition" {
		if inner := node.ChildByFieldName("definition"); inner != nil {
			return v.extractName(inner)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "function_definition" || child.Type() == "class_definition" {
				return v.extractName(child)
			}
		}
	}

	if node.Type() == "function_definition" || node.Type() == "declaration" {
		if declarator := node.ChildByFieldName("declarator"); declarator != nil {
			if name := v.extractDeclaratorName(declarator); name != "" {
				return name
			}
		}
	}

	if node.Type() == "struct_specifier" || node.Type() == "enum_specifier" || node.Type() == "union_specifier" ||
		node.Type() == "struct_item" || node.Type() == "enum_item" {
		if n := node.ChildByFieldName("name"); n != nil {
			return v.nodeText(n)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" || child.Type() == "type_identifier" || child.Type() == "field_identifier" {
			return v.nodeText(child)
		}
	}
	return ""
}

// extractDeclaratorName walks C/C++ declarator wrappers (pointer, function,
// array, parenthesized) down to the innermost identifier.
func (v *visitor) extractDeclaratorName(node *sitter.Node) string {
	for node != nil {
		switch node.Type() {
		case "identifier", "field_identifier":
			return v.nodeText(node)
		case "pointer_declarator", "function_declarator", "array_declarator", "parenthesized_declarator":
			if inner := node.ChildByFieldName("declarator"); inner != nil {
				node = inner
				continue
			}
			var next *sitter.Node
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if strings.Contains(child.Type(), "declarator") || child.Type() == "identifier" {
					next = child
					break
				}
			}
			node = next
		default:
			return ""
		}
	}
	return ""
}
