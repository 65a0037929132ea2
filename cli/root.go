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
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tomoncle/reposmith/database"
	"github.com/tomoncle/reposmith/generator"
	"github.com/tomoncle/reposmith/scan"
	"github.com/tomoncle/reposmith/utils"
)

const rootLongDescription = `Create a repository file bound to a model.

<name> is the repository name, optionally with a directory:
  PostRepository            app/Repositories/PostRepository.go
  Blog/PostRepository       app/Blog/PostRepository.go
  ./internal/PostRepository internal/PostRepository.go

Unless --model is given, the model is found by scanning the application
sources for a type embedding bun.BaseModel whose name matches the
repository name without its "Repository" suffix.`

// Options configures the command.
type Options struct {
	Fs       afero.Fs
	Registry database.ModelRegistry // models to scan besides the sources
	Scanners []scan.Scanner         // extra scanners, after the registry
	Out      io.Writer
	Err      io.Writer
}

// Option configures Options.
type Option func(*Options)

// WithFs runs the command against fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) { o.Fs = fs }
}

// WithRegistry adds the models of registry to every scan.
func WithRegistry(registry database.ModelRegistry) Option {
	return func(o *Options) { o.Registry = registry }
}

func WithScanner(scanner scan.Scanner) Option {
	return func(o *Options) { o.Scanners = append(o.Scanners, scanner) }
}

// WithOutput redirects standard and error output.
func WithOutput(out, err io.Writer) Option {
	return func(o *Options) {
		o.Out = out
		o.Err = err
	}
}

type command struct {
	opts Options
	v    *viper.Viper

	configFile string
	model      string
	dryRun     bool
	all        bool
}

// NewRootCommand returns the make-repository command with its models and
// config subcommands.
func NewRootCommand(opts ...Option) *cobra.Command {
	c := &command{opts: Options{Fs: afero.NewOsFs()}}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.v = newViper(c.opts.Fs)

	cmd := &cobra.Command{
		Use:           "make-repository <name>",
		Short:         "Create a new repository",
		Long:          rootLongDescription,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.makeRepository(cmd, args[0])
		},
	}
	if c.opts.Out != nil {
		cmd.SetOut(c.opts.Out)
	}
	if c.opts.Err != nil {
		cmd.SetErr(c.opts.Err)
	}
	c.configureFlags(cmd)
	cmd.AddCommand(c.newModelsCmd(), c.newConfigCmd())
	return cmd
}

func (c *command) configureFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.configFile, configFlagName, configFileName, "configuration file")

	cmd.PersistentFlags().BoolP(verboseFlagName, "v", false, "log debug messages")
	c.bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().String(logFileFlagName, "", "also write JSON logs to this file")
	c.bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.Flags().StringVarP(&c.model, modelFlagName, "m", "", "model the repository is bound to")
	cmd.Flags().BoolVar(&c.dryRun, dryRunFlagName, false, "print the file instead of writing it")

	cmd.Flags().String(stubFlagName, "", "template to render instead of the built-in one")
	c.bindFlagToConfig(cmd.Flags().Lookup(stubFlagName), stubPathKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func (c *command) bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(c.v.BindPFlag(key, flag))
}

func (c *command) setup(cmd *cobra.Command) error {
	explicit := cmd.Flags().Changed(configFlagName)
	if err := readConfig(c.v, c.configFile, explicit); err != nil {
		return err
	}
	return utils.ConfigureLogging(logOptions(c.v))
}

func (c *command) layout() generator.Layout {
	return layoutFromConfig(c.v, c.opts.Fs)
}

// scanner scans the application sources, then the registered models, then
// any extra scanners.
func (c *command) scanner(layout generator.Layout) scan.Scanner {
	scanners := []scan.Scanner{generator.NewSourceScanner(c.opts.Fs, layout)}
	if c.opts.Registry != nil {
		scanners = append(scanners, &scan.RegistryScanner{
			Registry:      c.opts.Registry,
			TypeSeparator: layout.TypeSeparator,
		})
	}
	scanners = append(scanners, c.opts.Scanners...)
	return scan.Chain(scanners...)
}

func (c *command) newGenerator() *generator.Generator {
	layout := c.layout()
	return generator.New(c.opts.Fs, layout,
		generator.WithScanner(c.scanner(layout)),
		generator.WithStub(c.v.GetString(stubPathKey)),
	)
}

func (c *command) makeRepository(cmd *cobra.Command, name string) error {
	g := c.newGenerator()
	if c.dryRun {
		result, err := g.DryRun(name, c.model)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), result.Content)
		return err
	}

	result, err := g.Generate(name, c.model)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
		color.GreenString("Repository created:"), result.Spec.TargetPath, result.Spec.ModelFQN)
	return err
}

// Run executes cmd with args and returns the process exit code. Errors are
// printed in red to the command's error output.
func Run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	_ = utils.CloseLogging()
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "ERROR: %v\n", err)
		return 1
	}
	return 0
}

// Execute runs the standalone command with the process arguments and exits.
func Execute() {
	os.Exit(Run(NewRootCommand(), os.Args[1:]))
}
