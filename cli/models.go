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
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tomoncle/reposmith/scan"
)

func (c *command) newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models a repository can be bound to",
		Long: `List the model candidates found under the application root and in the
registered models, in the order the resolver sees them. With --all, types
that cannot back a repository are listed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout := c.layout()
			seq := c.scanner(layout).Scan(layout.AppRoot())
			if !c.all {
				seq = scan.Models(seq)
			}
			candidates, err := scan.Collect(seq)
			if err != nil {
				return err
			}
			renderModels(cmd.OutOrStdout(), candidates, c.all)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&c.all, allFlagName, "a", false, "include types that are not models")
	return cmd
}

func renderModels(w io.Writer, candidates []scan.ModelCandidate, all bool) {
	if len(candidates) == 0 {
		_, _ = fmt.Fprintln(w, "No models found.")
		return
	}

	header := []string{"Name", "Model", "Package", "Source", "Path"}
	if all {
		header = append(header, "Valid")
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, candidate := range candidates {
		row := []string{candidate.Name, candidate.FQN, candidate.Package, string(candidate.Source), candidate.Path}
		if all {
			row = append(row, strconv.FormatBool(candidate.Valid()))
		}
		table.Append(row)
	}
	table.SetFooter(append([]string{fmt.Sprintf("Total %d", len(candidates))}, make([]string, len(header)-1)...))
	table.Render()
}
