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
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const repositorySuffix = "Repository"

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Studly upper-cases the first letter of every word of s and drops the word
// breaks ("-", "_" and spaces): "blog-posts" becomes "BlogPosts". Other
// letters keep their case.
func Studly(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, word := range words {
		b.WriteString(titleCaser.String(word))
	}
	return b.String()
}

// RepositoryName is the part of inputName after its last "/".
func RepositoryName(inputName string) string {
	if i := strings.LastIndex(inputName, "/"); i >= 0 {
		return inputName[i+1:]
	}
	return inputName
}

// ModelName is explicitModel when given, else repositoryName without one
// trailing "Repository".
func ModelName(repositoryName, explicitModel string) string {
	if explicitModel != "" {
		return explicitModel
	}
	return strings.TrimSuffix(repositoryName, repositorySuffix)
}

// packageIdent turns a namespace segment into a Go package name: lower case,
// letters, digits and underscores only.
func packageIdent(segment, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(segment) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	ident := b.String()
	if ident == "" || unicode.IsDigit([]rune(ident)[0]) {
		return fallback
	}
	return ident
}
