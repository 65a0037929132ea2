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
	"iter"
	"path"
	"reflect"
	"strings"

	"github.com/tomoncle/reposmith/database"
	"github.com/uptrace/bun"
)

var baseModelType = reflect.TypeFor[bun.BaseModel]()

// RegistryScanner yields the models registered with a database model
// registry, in priority order. The FQN of a registered type is its package
// path, the type separator and its name; the scan root is ignored.
type RegistryScanner struct {
	Registry      database.ModelRegistry
	TypeSeparator string
}

// NewRegistryScanner scans the default database registry.
func NewRegistryScanner(typeSeparator string) *RegistryScanner {
	return &RegistryScanner{Registry: database.DefaultRegistry(), TypeSeparator: typeSeparator}
}

func (s *RegistryScanner) Scan(string) iter.Seq2[ModelCandidate, error] {
	return func(yield func(ModelCandidate, error) bool) {
		registry := s.Registry
		if registry == nil {
			registry = database.DefaultRegistry()
		}
		sep := s.TypeSeparator
		if sep == "" {
			sep = "."
		}
		for _, instance := range database.ModelInstances(registry) {
			candidate, ok := candidateOf(instance, sep)
			if !ok {
				continue
			}
			if !yield(candidate, nil) {
				return
			}
		}
	}
}

func candidateOf(instance any, typeSeparator string) (ModelCandidate, bool) {
	t := reflect.TypeOf(instance)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return ModelCandidate{}, false
	}
	return ModelCandidate{
		FQN:          qualify(t.PkgPath(), typeSeparator, t.Name()),
		Name:         t.Name(),
		Package:      path.Base(t.PkgPath()),
		Instantiable: t.Kind() != reflect.Interface && !strings.Contains(t.Name(), "["),
		IsModel:      embedsBaseModelType(t, map[reflect.Type]bool{}),
		Source:       SourceRegistry,
	}, true
}

func embedsBaseModelType(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t.Kind() != reflect.Struct || t == baseModelType || seen[t] {
		return false
	}
	seen[t] = true
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == baseModelType || embedsBaseModelType(ft, seen) {
			return true
		}
	}
	return false
}
