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
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/tomoncle/reposmith/scan"
	"github.com/tomoncle/reposmith/utils"
)

const loggerName = "GENERATOR"

// Generator runs make-repository requests: resolve, plan, emit.
type Generator struct {
	Layout   Layout
	Resolver *Resolver
	Emitter  *Emitter
	Logger   *logrus.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithScanner replaces the default source scanner.
func WithScanner(scanner scan.Scanner) Option {
	return func(g *Generator) { g.Resolver.Scanner = scanner }
}

// WithStub renders with the template at path instead of the built-in one.
func WithStub(path string) Option {
	return func(g *Generator) { g.Emitter.StubPath = path }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(g *Generator) {
		g.Logger = logger
		g.Resolver.Logger = logger
	}
}

// New returns a generator over fs. Models are looked up in the Go sources of
// the application root unless WithScanner says otherwise.
func New(fs afero.Fs, layout Layout, opts ...Option) *Generator {
	layout = layout.Normalize()
	logger := utils.NewLogger(loggerName)
	g := &Generator{
		Layout: layout,
		Resolver: &Resolver{
			Layout:  layout,
			Scanner: NewSourceScanner(fs, layout),
			Logger:  logger,
		},
		Emitter: NewEmitter(fs, ""),
		Logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSourceScanner returns a source scanner that names candidates the way
// layout names namespaces.
func NewSourceScanner(fs afero.Fs, layout Layout) *scan.SourceScanner {
	layout = layout.Normalize()
	s := scan.NewSourceScanner(fs, layout.ScanNamespace)
	s.TypeSeparator = layout.TypeSeparator
	s.Extension = layout.Extension
	return s
}

// Plan resolves inputName into a RepositorySpec without touching the target.
func (g *Generator) Plan(inputName, explicitModel string) (RepositorySpec, error) {
	model, err := g.Resolver.ResolveModel(inputName, explicitModel)
	if err != nil {
		return RepositorySpec{}, err
	}
	return NewRepositorySpec(g.Layout, inputName, model), nil
}

// Result is the outcome of one request.
type Result struct {
	Spec    RepositorySpec
	Content string
	Written bool
}

// Generate plans inputName and writes the repository file.
func (g *Generator) Generate(inputName, explicitModel string) (*Result, error) {
	spec, err := g.Plan(inputName, explicitModel)
	if err != nil {
		return nil, err
	}
	content, err := g.Emitter.Emit(spec)
	if err != nil {
		return nil, err
	}
	g.Logger.WithFields(logrus.Fields{
		"path":  spec.TargetPath,
		"model": spec.ModelFQN,
	}).Info("Repository created")
	return &Result{Spec: spec, Content: content, Written: true}, nil
}

// DryRun plans inputName and renders the file without writing it.
func (g *Generator) DryRun(inputName, explicitModel string) (*Result, error) {
	spec, err := g.Plan(inputName, explicitModel)
	if err != nil {
		return nil, err
	}
	content, err := g.Emitter.Render(spec)
	if err != nil {
		return nil, err
	}
	return &Result{Spec: spec, Content: content}, nil
}
