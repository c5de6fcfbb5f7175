// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/cmd/restyle/commands"
	"github.com/walteh/restyle/cmd/restyle/opts"
	"github.com/walteh/restyle/pkg/config"
	"github.com/walteh/restyle/pkg/log"
)

const skipConfig = "restyle/skip-config"

var (
	// Flags
	configFile string
	root       string
	verbose    bool
	workers    int
	timeout    time.Duration
)

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "restyle",
		Short: "Rewrite class names across a source tree with ordered regex rules",
		Long: `restyle applies ordered (pattern, replacement) rulesets to the files of a
project. Rulesets are grouped into migrations that say which files they
visit. Files are only written when their content changes, each write is
atomic, and one bad file never stops the rest of the run.

Without --config, restyle reads .restyle from the working directory if
present and otherwise uses its built-in Notion migrations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging()
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			o.Logger = log.New(cmd.OutOrStdout(), logger)

			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return newRootOpts(ctx, o)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewCleanCmd(o),
		commands.NewListCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// newRootOpts loads and compiles the configuration. A bad pattern stops here, before
// any file is opened.
func newRootOpts(ctx context.Context, o *opts.RootOpts) error {
	cfg, err := config.LoadOrBuiltin(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	cat, err := config.Compile(ctx, cfg)
	if err != nil {
		return errors.Errorf("compiling rules: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("getting absolute root path: %w", err)
	}

	o.Config = cfg
	o.Catalog = cat
	o.Root = absRoot
	o.Workers = workers
	o.Timeout = timeout

	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml, .yml, .json, .hcl or .restyle)")
	cmd.PersistentFlags().StringVarP(&root, "root", "r", ".", "directory migration globs are relative to")
	cmd.PersistentFlags().BoolVarP(&verbose, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "files processed in parallel")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-file time limit, 0 for none")
}

// setupLogging configures zerolog based on flags
func setupLogging() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}
