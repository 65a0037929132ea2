/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scan

import (
	"bytes"
	"context"
	"path"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// goFile holds what the scanner needs from one parsed source file.
type goFile struct {
	Package string
	Imports map[string]string
	Decls   []TypeDecl
}

func newParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return p
}

// parseGoFile returns nil without error when the file declares no package,
// e.g. an empty file.
func parseGoFile(ctx context.Context, parser *sitter.Parser, source []byte, file, dir string) (*goFile, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, nil
	}
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &goFile{Imports: map[string]string{}}
	var typeDecls []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_clause":
			f.Package = packageName(child, source)
		case "import_declaration":
			collectImports(child, source, f.Imports)
		case "type_declaration":
			typeDecls = append(typeDecls, child)
		}
	}
	if f.Package == "" {
		return nil, nil
	}

	for _, td := range typeDecls {
		for i := 0; i < int(td.NamedChildCount()); i++ {
			spec := td.NamedChild(i)
			if spec.Type() != "type_spec" {
				continue
			}
			if decl, ok := typeSpec(spec, source); ok {
				decl.Package = f.Package
				decl.Dir = dir
				decl.File = file
				decl.Imports = f.Imports
				f.Decls = append(f.Decls, decl)
			}
		}
	}
	return f, nil
}

func packageName(clause *sitter.Node, source []byte) string {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		if child := clause.NamedChild(i); child.Type() == "package_identifier" {
			return child.Content(source)
		}
	}
	return ""
}

func collectImports(node *sitter.Node, source []byte, imports map[string]string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_spec_list":
			collectImports(child, source, imports)
		case "import_spec":
			pathNode := child.ChildByFieldName("path")
			if pathNode == nil {
				continue
			}
			importPath, err := strconv.Unquote(pathNode.Content(source))
			if err != nil {
				continue
			}
			name := path.Base(importPath)
			if alias := child.ChildByFieldName("name"); alias != nil {
				name = alias.Content(source)
			}
			imports[name] = importPath
		}
	}
}

func typeSpec(spec *sitter.Node, source []byte) (TypeDecl, bool) {
	nameNode := spec.ChildByFieldName("name")
	typeNode := spec.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return TypeDecl{}, false
	}

	decl := TypeDecl{
		Name:    nameNode.Content(source),
		Generic: spec.ChildByFieldName("type_parameters") != nil,
	}
	switch typeNode.Type() {
	case "struct_type":
		decl.Kind = KindStruct
		decl.Embedded = embeddedFields(typeNode, source)
	case "interface_type":
		decl.Kind = KindInterface
	default:
		decl.Kind = KindOther
	}
	return decl, true
}

// embeddedFields lists the field declarations of a struct that have a type
// but no name.
func embeddedFields(structType *sitter.Node, source []byte) []string {
	var embedded []string
	for i := 0; i < int(structType.NamedChildCount()); i++ {
		list := structType.NamedChild(i)
		if list.Type() != "field_declaration_list" {
			continue
		}
		for j := 0; j < int(list.NamedChildCount()); j++ {
			field := list.NamedChild(j)
			if field.Type() != "field_declaration" || field.ChildByFieldName("name") != nil {
				continue
			}
			typ := field.ChildByFieldName("type")
			if typ == nil {
				continue
			}
			text := typ.Content(source)
			if hasPointerMarker(field) {
				text = "*" + text
			}
			embedded = append(embedded, text)
		}
	}
	return embedded
}

func hasPointerMarker(field *sitter.Node) bool {
	for i := 0; i < int(field.ChildCount()); i++ {
		if field.Child(i).Type() == "*" {
			return true
		}
	}
	return false
}
