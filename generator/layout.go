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
	"path/filepath"
	"strings"
)

// SegmentCase selects how directory names become namespace segments.
type SegmentCase string

const (
	CaseStudly   SegmentCase = "studly"
	CasePreserve SegmentCase = "preserve"
)

// Layout describes where an application's sources live and how their paths
// map to namespaces. Empty fields take the DefaultLayout values, except
// BaseDir (the working directory) and BaseNamespace (none).
type Layout struct {
	BaseDir         string      `mapstructure:"base_dir" yaml:"base_dir"`
	AppDir          string      `mapstructure:"app_dir" yaml:"app_dir"`
	RootNamespace   string      `mapstructure:"root_namespace" yaml:"root_namespace"`
	BaseNamespace   string      `mapstructure:"base_namespace" yaml:"base_namespace,omitempty"`
	Separator       string      `mapstructure:"separator" yaml:"separator"`
	TypeSeparator   string      `mapstructure:"type_separator" yaml:"type_separator"`
	ModelsNamespace string      `mapstructure:"models_namespace" yaml:"models_namespace"`
	DefaultDir      string      `mapstructure:"default_dir" yaml:"default_dir"`
	Extension       string      `mapstructure:"extension" yaml:"extension"`
	SegmentCase     SegmentCase `mapstructure:"segment_case" yaml:"segment_case"`
}

func DefaultLayout() Layout {
	return Layout{
		AppDir:          "app",
		RootNamespace:   "App",
		Separator:       "/",
		TypeSeparator:   ".",
		ModelsNamespace: "Models",
		DefaultDir:      "Repositories",
		Extension:       ".go",
		SegmentCase:     CaseStudly,
	}
}

// Normalize fills empty fields with their defaults.
func (l Layout) Normalize() Layout {
	d := DefaultLayout()
	if l.BaseDir == "" {
		l.BaseDir = "."
	}
	if l.AppDir == "" {
		l.AppDir = d.AppDir
	}
	if l.RootNamespace == "" {
		l.RootNamespace = d.RootNamespace
	}
	if l.Separator == "" {
		l.Separator = d.Separator
	}
	if l.TypeSeparator == "" {
		l.TypeSeparator = d.TypeSeparator
	}
	if l.ModelsNamespace == "" {
		l.ModelsNamespace = d.ModelsNamespace
	}
	if l.DefaultDir == "" {
		l.DefaultDir = d.DefaultDir
	}
	if l.Extension == "" {
		l.Extension = d.Extension
	}
	if !strings.HasPrefix(l.Extension, ".") {
		l.Extension = "." + l.Extension
	}
	if l.SegmentCase == "" {
		l.SegmentCase = d.SegmentCase
	}
	return l
}

// AppRoot is the application root directory, the root of model scans.
func (l Layout) AppRoot() string {
	return filepath.Join(l.BaseDir, l.AppDir)
}

// TargetDir is the directory a repository named by inputName is written to.
// The part of inputName before its last "/" is taken relative to the
// application root, or relative to BaseDir when inputName starts with "./".
// Without a "/" the DefaultDir of the application root is used.
func (l Layout) TargetDir(inputName string) string {
	i := strings.LastIndex(inputName, "/")
	if i < 0 {
		return filepath.Join(l.BaseDir, l.AppDir, l.DefaultDir)
	}
	dir := stripPathMarker(inputName[:i])
	if strings.HasPrefix(inputName, "./") {
		return filepath.Join(l.BaseDir, filepath.FromSlash(dir))
	}
	return filepath.Join(l.BaseDir, l.AppDir, filepath.FromSlash(dir))
}

// stripPathMarker removes one leading "./" or "/".
func stripPathMarker(dir string) string {
	if rest, ok := strings.CutPrefix(dir, "./"); ok {
		return rest
	}
	if dir == "." {
		return ""
	}
	return strings.TrimPrefix(dir, "/")
}

// InferNamespace derives the namespace of targetPath from its path relative
// to projectRoot. A first segment equal to AppDir maps to rootNamespace; a
// first segment outside it is prefixed with BaseNamespace when that is set.
// Every other segment is cased per SegmentCase and joined with Separator.
func (l Layout) InferNamespace(targetPath, projectRoot, rootNamespace string) string {
	rel, err := filepath.Rel(projectRoot, targetPath)
	if err != nil {
		rel = targetPath
	}
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "." {
		rel = ""
	}

	var parts []string
	for i, segment := range strings.Split(rel, "/") {
		if segment == "" || segment == "." {
			continue
		}
		if i == 0 {
			if segment == l.AppDir {
				parts = append(parts, rootNamespace)
				continue
			}
			if l.BaseNamespace != "" {
				parts = append(parts, l.BaseNamespace)
			}
		}
		parts = append(parts, l.caseSegment(segment))
	}
	return strings.TrimLeft(strings.Join(parts, l.Separator), l.Separator)
}

func (l Layout) caseSegment(segment string) string {
	if l.SegmentCase == CasePreserve {
		return segment
	}
	return Studly(segment)
}

// ScanNamespace is the namespace of a directory below the application
// root, rel being slash separated and "" for the root itself. Directory
// names are used as they are.
func (l Layout) ScanNamespace(rel string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return l.RootNamespace
	}
	ns := strings.ReplaceAll(rel, "/", l.Separator)
	if l.RootNamespace == "" {
		return ns
	}
	return l.RootNamespace + l.Separator + ns
}

// DirNamespace is the namespace a scan gives the types of dir: ScanNamespace
// of its path below the application root. Directories outside the root get
// their inferred namespace.
func (l Layout) DirNamespace(dir string) string {
	rel, err := filepath.Rel(l.AppRoot(), dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return l.InferNamespace(dir, l.BaseDir, l.RootNamespace)
	}
	if rel == "." {
		rel = ""
	}
	return l.ScanNamespace(filepath.ToSlash(rel))
}

// FallbackModel is the identifier a model name resolves to when no scanned
// model matches it.
func (l Layout) FallbackModel(name string) string {
	return l.RootNamespace + l.Separator + l.ModelsNamespace + l.TypeSeparator + name
}

// IsQualified reports whether a model name already carries a namespace.
func (l Layout) IsQualified(model string) bool {
	return strings.Contains(model, l.Separator) || strings.Contains(model, l.TypeSeparator)
}

// TrimQualifier strips leading separators from an identifier.
func (l Layout) TrimQualifier(identifier string) string {
	return strings.TrimLeft(identifier, l.Separator+l.TypeSeparator)
}

// SplitIdentifier splits a fully qualified identifier into its namespace
// and short name.
func (l Layout) SplitIdentifier(identifier string) (namespace, name string) {
	i := strings.LastIndex(identifier, l.TypeSeparator)
	j := strings.LastIndex(identifier, l.Separator)
	switch {
	case i >= 0 && i >= j:
		return identifier[:i], identifier[i+len(l.TypeSeparator):]
	case j >= 0:
		return identifier[:j], identifier[j+len(l.Separator):]
	default:
		return "", identifier
	}
}

// PackageName is the Go package name for a namespace: its last segment.
func (l Layout) PackageName(namespace string) string {
	if i := strings.LastIndex(namespace, l.Separator); i >= 0 {
		namespace = namespace[i+len(l.Separator):]
	}
	return packageIdent(namespace, packageIdent(l.DefaultDir, "repositories"))
}
