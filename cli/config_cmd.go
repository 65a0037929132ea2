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


package cli

import (
	"github.com/spf13/cobra"
	"github.com/tomoncle/reposmith/generator"
	"gopkg.in/yaml.v3"
)

type stubConfig struct {
	Path string `yaml:"path"`
}

// effectiveConfig is what the config command prints; it reads back as a
// reposmith.yaml.
type effectiveConfig struct {
	Layout generator.Layout `yaml:"layout"`
	Stub   stubConfig       `yaml:"stub"`
}

func (c *command) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			cfg := effectiveConfig{
				Layout: c.layout(),
				Stub:   stubConfig{Path: c.v.GetString(stubPathKey)},
			}
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
