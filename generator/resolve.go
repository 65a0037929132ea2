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

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/reposmith/scan"
	"github.com/tomoncle/reposmith/utils"
)

// ModelRef is a resolved model.
type ModelRef struct {
	FQN     string
	Name    string
	Package string // empty when unknown
	Matched bool   // found by a scan rather than synthesized
}

// Resolver binds repository names to models.
type Resolver struct {
	Layout  Layout
	Scanner scan.Scanner
	Logger  *logrus.Logger
}

func NewResolver(layout Layout, scanner scan.Scanner) *Resolver {
	return &Resolver{Layout: layout.Normalize(), Scanner: scanner, Logger: utils.NewLogger(loggerName)}
}

// Resolve returns the fully qualified identifier of the model that the
// repository named by inputName is bound to.
func (r *Resolver) Resolve(inputName, explicitModel string) (string, error) {
	ref, err := r.ResolveModel(inputName, explicitModel)
	if err != nil {
		return "", err
	}
	return ref.FQN, nil
}

// ResolveModel resolves the model of inputName.
//
// An explicit model is never looked up: a qualified one is used as given,
// a short one maps to the fallback identifier. Otherwise the first valid
// scanned candidate whose identifier ends with the model name wins, and no
// match falls back as well. Scan errors are returned as they are.
func (r *Resolver) ResolveModel(inputName, explicitModel string) (ModelRef, error) {
	l := r.Layout.Normalize()
	name := ModelName(RepositoryName(inputName), explicitModel)

	switch {
	case explicitModel != "" && l.IsQualified(explicitModel):
		return r.ref(l, explicitModel, "", false), nil
	case explicitModel != "" || name == "" || r.Scanner == nil:
		return r.fallback(l, name), nil
	}

	for candidate, err := range scan.Models(r.Scanner.Scan(l.AppRoot())) {
		if err != nil {
			return ModelRef{}, err
		}
		if strings.HasSuffix(candidate.FQN, name) {
			r.log().WithFields(logrus.Fields{"model": name, "fqn": candidate.FQN}).Debug("model resolved from scan")
			return r.ref(l, candidate.FQN, candidate.Package, true), nil
		}
	}
	return r.fallback(l, name), nil
}

func (r *Resolver) fallback(l Layout, name string) ModelRef {
	fqn := l.FallbackModel(name)
	r.log().WithFields(logrus.Fields{"model": name, "fqn": fqn}).Debug("no scanned model matches, using fallback")
	return r.ref(l, fqn, "", false)
}

func (r *Resolver) ref(l Layout, fqn, pkg string, matched bool) ModelRef {
	fqn = l.TrimQualifier(fqn)
	_, name := l.SplitIdentifier(fqn)
	return ModelRef{FQN: fqn, Name: name, Package: pkg, Matched: matched}
}

func (r *Resolver) log() *logrus.Logger {
	if r.Logger == nil {
		return utils.NewLogger(loggerName)
	}
	return r.Logger
}
