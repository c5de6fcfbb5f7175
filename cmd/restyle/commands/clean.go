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


package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/cmd/restyle/opts"
	"github.com/walteh/restyle/pkg/fileset"
	"github.com/walteh/restyle/pkg/log"
	"github.com/walteh/restyle/pkg/operation"
	"github.com/walteh/restyle/pkg/status"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [migration...]",
		Short: "Remove the .bak files left by apply --backup",
		Long: `Clean deletes the backup next to every file the selected migrations
visit, or every configured migration when none is named. Source files are
never touched, and files a migration excludes keep their backups.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "clean").Logger().WithContext(cmd.Context())

			migrations, err := o.Catalog.Select(args...)
			if err != nil {
				return errors.Errorf("selecting migrations: %w", err)
			}

			cleaner := operation.NewCleaner(operation.Options{DryRun: dryRun}).OnOutcome(func(out status.FileOutcome) {
				if out.Status == status.StatusRemoved || out.Failed() {
					o.Logger.LogFileOutcome(ctx, out, dryRun)
				}
			})

			total := status.NewRunReport()
			for _, m := range migrations {
				files, err := fileset.List(ctx, o.Root, m.Include)
				if err != nil {
					return errors.Errorf("listing files for %s: %w", m.Name, err)
				}

				o.Logger.StartMigration(ctx, log.MigrationOperation{
					Name:     m.Name,
					Rulesets: []string{"clean"},
					Root:     o.Root,
					Files:    len(files),
					DryRun:   cleaner.DryRun(),
				})
				total.Merge(cleaner.Clean(ctx, files, &operation.GlobSelector{
					Root:     o.Root,
					Exclude:  m.Exclude,
					Rulesets: m.Rulesets,
				}))
				o.Logger.EndMigration(ctx)
				o.Logger.LogNewline()
			}

			removed := total.Counts()[status.StatusRemoved]
			if total.HasFailures() {
				o.Logger.Error(total.Err().Error())
				return errors.Errorf("clean incomplete: %w", ErrFilesFailed)
			}

			if dryRun {
				o.Logger.Infof("dry run: %d backup(s) would be removed", removed)
			} else {
				o.Logger.Successf("removed %d backup(s)", removed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list backups without removing them")

	return cmd
}
