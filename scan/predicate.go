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
	"strings"
)

// BunImportPath is the import path of the package declaring the base entity.
const BunImportPath = "github.com/uptrace/bun"

// Kind is the shape of a declared type.
type Kind int

const (
	KindOther Kind = iota
	KindStruct
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	default:
		return "other"
	}
}

// TypeDecl is a parsed type declaration.
type TypeDecl struct {
	Name     string
	Package  string
	Dir      string // relative to the scan root, slash separated
	File     string // relative to the scan root, slash separated
	Kind     Kind
	Generic  bool
	Embedded []string          // embedded field types as written, e.g. "*bun.BaseModel"
	Imports  map[string]string // local name to import path, of the declaring file
}

// DeclLookup finds a declaration of the same package by name.
type DeclLookup func(name string) (TypeDecl, bool)

// ModelPredicate decides whether decl is a data model.
type ModelPredicate func(decl TypeDecl, lookup DeclLookup) bool

// EmbedsBaseModel is the default ModelPredicate: a struct is a model when it
// embeds bun.BaseModel, directly or through embedded structs of its own
// package.
func EmbedsBaseModel(decl TypeDecl, lookup DeclLookup) bool {
	return embedsBaseModel(decl, lookup, map[string]bool{})
}

func embedsBaseModel(decl TypeDecl, lookup DeclLookup, seen map[string]bool) bool {
	if decl.Kind != KindStruct || seen[decl.Name] {
		return false
	}
	seen[decl.Name] = true

	for _, embedded := range decl.Embedded {
		typ := strings.TrimPrefix(embedded, "*")
		if i := strings.IndexByte(typ, '['); i >= 0 {
			typ = typ[:i]
		}
		if pkg, name, qualified := strings.Cut(typ, "."); qualified {
			if name == "BaseModel" && decl.Imports[pkg] == BunImportPath {
				return true
			}
			continue
		}
		if typ == "BaseModel" && decl.Imports["."] == BunImportPath {
			return true
		}
		if lookup == nil {
			continue
		}
		if base, ok := lookup(typ); ok && embedsBaseModel(base, lookup, seen) {
			return true
		}
	}
	return false
}

// Instantiable reports whether a value of decl can be constructed as is.
func Instantiable(decl TypeDecl) bool {
	return decl.Kind != KindInterface && !decl.Generic
}
