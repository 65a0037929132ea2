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
	"strings"
)

// Source tells where a candidate was found.
type Source string

const (
	SourceFile     Source = "source"
	SourceRegistry Source = "registry"
)

// ModelCandidate is one type declaration found by a scan.
type ModelCandidate struct {
	Path         string // relative to the scan root, empty for registry candidates
	FQN          string // namespace + type separator + Name
	Name         string
	Package      string
	Instantiable bool // not an interface, not generic
	IsModel      bool // descends from the base entity type
	Source       Source
}

// Valid reports whether the candidate can back a repository.
func (c ModelCandidate) Valid() bool {
	return c.Instantiable && c.IsModel
}

// Namespace is the FQN without the type name.
func (c ModelCandidate) Namespace(typeSeparator string) string {
	i := strings.LastIndex(c.FQN, typeSeparator)
	if typeSeparator == "" || i < 0 {
		return ""
	}
	return c.FQN[:i]
}

// Scanner enumerates model candidates under a root. Each range over the
// returned sequence walks afresh; an error element ends the sequence.
type Scanner interface {
	Scan(root string) iter.Seq2[ModelCandidate, error]
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func(root string) iter.Seq2[ModelCandidate, error]

func (f ScannerFunc) Scan(root string) iter.Seq2[ModelCandidate, error] {
	return f(root)
}
