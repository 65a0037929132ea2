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


// Package reposmith mounts the make-repository generator into a host
// application.
//
// A host registers its bun models and adds the command to its own command
// tree:
//
//	reposmith.RegisterModel(&models.Post{}, &models.Comment{})
//	root.AddCommand(reposmith.Command())
//
// Registered models are found by the generator even when their sources live
// outside the application root.
package reposmith

import (
	"github.com/spf13/cobra"
	"github.com/tomoncle/reposmith/cli"
	"github.com/tomoncle/reposmith/database"
)

// Command returns the make-repository command. Unless opts name another
// registry, the models added with RegisterModel are scanned after the
// application sources.
func Command(opts ...cli.Option) *cobra.Command {
	opts = append([]cli.Option{cli.WithRegistry(database.DefaultRegistry())}, opts...)
	return cli.NewRootCommand(opts...)
}

// RegisterModel adds bun model pointers to the default model registry, in
// order.
func RegisterModel(models ...any) {
	database.RegisterModels(models...)
}
