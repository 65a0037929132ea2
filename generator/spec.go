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

package generator

import (
	"fmt"
	"path/filepath"
)

// RepositorySpec is one resolved generation request. Namespace is derived
// from TargetDir alone.
type RepositorySpec struct {
	TargetDir      string
	TargetPath     string
	Namespace      string
	ImportPath     string // namespace scanned models in TargetDir carry
	Package        string
	RepositoryName string
	ModelFQN       string
	ModelName      string
	ModelImport    string // empty when the model lives in TargetDir
	ModelPackage   string
	ModelType      string // Go type expression of the model
}

// NewRepositorySpec combines inputName and its resolved model under l.
func NewRepositorySpec(l Layout, inputName string, model ModelRef) RepositorySpec {
	l = l.Normalize()
	name := RepositoryName(inputName)
	dir := l.TargetDir(inputName)
	namespace := l.InferNamespace(dir, l.BaseDir, l.RootNamespace)

	spec := RepositorySpec{
		TargetDir:      dir,
		TargetPath:     filepath.Join(dir, name+l.Extension),
		Namespace:      namespace,
		ImportPath:     l.DirNamespace(dir),
		Package:        l.PackageName(namespace),
		RepositoryName: name,
		ModelFQN:       model.FQN,
		ModelName:      model.Name,
		ModelType:      model.Name,
	}

	modelNamespace, _ := l.SplitIdentifier(model.FQN)
	if modelNamespace == "" || modelNamespace == namespace || modelNamespace == spec.ImportPath {
		spec.ModelPackage = spec.Package
		return spec
	}
	spec.ModelImport = modelNamespace
	spec.ModelPackage = model.Package
	if spec.ModelPackage == "" {
		spec.ModelPackage = l.PackageName(modelNamespace)
	}
	spec.ModelType = spec.ModelPackage + "." + model.Name
	return spec
}

// Tokens lists the stub replacements of s, in replacement order.
func (s RepositorySpec) Tokens() []Token {
	modelImport := ""
	if s.ModelImport != "" {
		modelImport = fmt.Sprintf("\t%q", s.ModelImport)
	}
	importComment := ""
	if s.Namespace != "" {
		importComment = fmt.Sprintf(" // import %q", s.Namespace)
	}
	return []Token{
		{Name: "importComment", Value: importComment},
		{Name: "namespace", Value: s.Namespace},
		{Name: "repositoryBaseName", Value: s.RepositoryName},
		{Name: "modelFQDN", Value: s.ModelFQN},
		{Name: "model", Value: s.ModelName},
		{Name: "package", Value: s.Package},
		{Name: "modelImport", Value: modelImport},
		{Name: "modelType", Value: s.ModelType},
	}
}
