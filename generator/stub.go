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
	_ "embed"
	"strings"

	"github.com/spf13/afero"
	"github.com/tomoncle/reposmith/types"
)

//go:embed stubs/repository.stub
var defaultStub string

// DefaultStub returns the built-in repository template.
func DefaultStub() string {
	return defaultStub
}

// Token is one "{{Name}}" placeholder and its replacement.
type Token struct {
	Name  string
	Value string
}

// Render replaces every "{{name}}" of template with its value, one token
// after the other. Replacement is literal; unknown placeholders are kept.
func Render(template string, tokens []Token) string {
	for _, token := range tokens {
		template = strings.ReplaceAll(template, "{{"+token.Name+"}}", token.Value)
	}
	return template
}

// LoadStub reads the template at path, or returns the default one when path
// is empty.
func LoadStub(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return defaultStub, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", types.NewFileSystemError("load stub", path, err)
	}
	return string(data), nil
}
