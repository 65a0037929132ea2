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
	"context"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/afero"
	"github.com/tomoncle/reposmith/types"
	"github.com/tomoncle/reposmith/utils"
)

var skipDirs = map[string]struct{}{
	"vendor":       {},
	"testdata":     {},
	"node_modules": {},
}

// SourceScanner finds model candidates in the Go sources below a root.
//
// Directories are visited depth first in lexical order, the files of a
// directory before its subdirectories. Hidden entries, vendor-like
// directories, test files and paths matched by the root .gitignore are
// skipped. Files that do not parse are skipped too.
type SourceScanner struct {
	Fs afero.Fs
	// Namespace maps a directory relative to the root ("" for the root
	// itself, slash separated) to its namespace.
	Namespace     func(relDir string) string
	TypeSeparator string
	Extension     string
	Predicate     ModelPredicate
	Logger        *logrus.Logger
}

// NewSourceScanner returns a scanner with the default predicate, the ".go"
// extension and "." as type separator.
func NewSourceScanner(fs afero.Fs, namespace func(relDir string) string) *SourceScanner {
	return &SourceScanner{
		Fs:            fs,
		Namespace:     namespace,
		TypeSeparator: ".",
		Extension:     ".go",
		Predicate:     EmbedsBaseModel,
		Logger:        utils.NewLogger("SCANNER"),
	}
}

func (s *SourceScanner) Scan(root string) iter.Seq2[ModelCandidate, error] {
	return func(yield func(ModelCandidate, error) bool) {
		info, err := s.fs().Stat(root)
		if err != nil {
			yield(ModelCandidate{}, types.NewFileSystemError("scan", root, err))
			return
		}
		if !info.IsDir() {
			yield(ModelCandidate{}, types.NewFileSystemError("scan", root, fmt.Errorf("not a directory")))
			return
		}

		w := &walker{
			scanner: s,
			root:    root,
			parser:  newParser(),
			ignore:  s.loadGitignore(root),
			yield:   yield,
		}
		defer w.parser.Close()
		w.walk("")
	}
}

func (s *SourceScanner) fs() afero.Fs {
	if s.Fs == nil {
		return afero.NewOsFs()
	}
	return s.Fs
}

func (s *SourceScanner) log() *logrus.Logger {
	if s.Logger == nil {
		return utils.NewLogger("SCANNER")
	}
	return s.Logger
}

func (s *SourceScanner) loadGitignore(root string) *ignore.GitIgnore {
	data, err := afero.ReadFile(s.fs(), filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}

func (s *SourceScanner) isSource(name string) bool {
	ext := s.Extension
	if ext == "" {
		ext = ".go"
	}
	return strings.HasSuffix(name, ext) && !strings.HasSuffix(name, "_test"+ext)
}

type walker struct {
	scanner *SourceScanner
	root    string
	parser  *sitter.Parser
	ignore  *ignore.GitIgnore
	yield   func(ModelCandidate, error) bool
}

func (w *walker) ignored(rel string, dir bool) bool {
	if w.ignore == nil {
		return false
	}
	if dir && w.ignore.MatchesPath(rel+"/") {
		return true
	}
	return w.ignore.MatchesPath(rel)
}

// walk returns false once the consumer stops or a fatal error was yielded.
func (w *walker) walk(rel string) bool {
	abs := filepath.Join(w.root, filepath.FromSlash(rel))
	entries, err := afero.ReadDir(w.scanner.fs(), abs)
	if err != nil {
		if rel == "" {
			w.yield(ModelCandidate{}, types.NewFileSystemError("scan", abs, err))
			return false
		}
		w.scanner.log().WithField("dir", rel).Debugf("skipping unreadable directory: %v", err)
		return true
	}

	var files []string
	var dirs []os.FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := path.Join(rel, name)
		if entry.IsDir() {
			if _, skip := skipDirs[name]; skip || w.ignored(childRel, true) {
				continue
			}
			dirs = append(dirs, entry)
			continue
		}
		if !entry.Mode().IsRegular() || !w.scanner.isSource(name) || w.ignored(childRel, false) {
			continue
		}
		files = append(files, childRel)
	}

	for _, candidate := range w.candidates(rel, files) {
		if !w.yield(candidate, nil) {
			return false
		}
	}
	for _, dir := range dirs {
		if !w.walk(path.Join(rel, dir.Name())) {
			return false
		}
	}
	return true
}

// candidates parses the files of one directory and classifies their
// declarations against the whole package.
func (w *walker) candidates(rel string, files []string) []ModelCandidate {
	var decls []TypeDecl
	byName := map[string]TypeDecl{}
	for _, file := range files {
		source, err := afero.ReadFile(w.scanner.fs(), filepath.Join(w.root, filepath.FromSlash(file)))
		if err != nil {
			w.scanner.log().WithField("file", file).Debugf("skipping unreadable file: %v", err)
			continue
		}
		parsed, err := parseGoFile(context.Background(), w.parser, source, file, rel)
		if err != nil || parsed == nil {
			w.scanner.log().WithField("file", file).Debug("skipping unresolvable file")
			continue
		}
		for _, decl := range parsed.Decls {
			decls = append(decls, decl)
			byName[decl.Package+"."+decl.Name] = decl
		}
	}
	if len(decls) == 0 {
		return nil
	}

	predicate := w.scanner.Predicate
	if predicate == nil {
		predicate = EmbedsBaseModel
	}
	namespace := w.namespace(rel)
	out := make([]ModelCandidate, 0, len(decls))
	for _, decl := range decls {
		pkg := decl.Package
		lookup := func(name string) (TypeDecl, bool) {
			d, ok := byName[pkg+"."+name]
			return d, ok
		}
		out = append(out, ModelCandidate{
			Path:         decl.File,
			FQN:          qualify(namespace, w.scanner.typeSeparator(), decl.Name),
			Name:         decl.Name,
			Package:      decl.Package,
			Instantiable: Instantiable(decl),
			IsModel:      predicate(decl, lookup),
			Source:       SourceFile,
		})
	}
	return out
}

func (w *walker) namespace(rel string) string {
	if w.scanner.Namespace == nil {
		return rel
	}
	return w.scanner.Namespace(rel)
}

func (s *SourceScanner) typeSeparator() string {
	if s.TypeSeparator == "" {
		return "."
	}
	return s.TypeSeparator
}

func qualify(namespace, typeSeparator, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + typeSeparator + name
}
