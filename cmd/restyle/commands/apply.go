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
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var s runSettings

	cmd := &cobra.Command{
		Use:   "apply [migration...]",
		Short: "Rewrite files with the selected migrations",
		Long: `Apply runs each named migration in the order given, or every configured
migration when none is named. Each migration is a separate pass:
1. List the files its include globs select under --root
2. Skip files matching an exclude glob
3. Run its rulesets over each file in order
4. Write a file back only when its content changed

A file that cannot be read, decoded or written is reported and the run
continues with the remaining files. The command exits non-zero if any
file failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			report, err := runMigrations(ctx, o, args, s)
			if err != nil {
				return err
			}
			if err := printSummary(o, report, s.dryRun); err != nil {
				return err
			}

			if report.HasFailures() {
				o.Logger.Error(report.Err().Error())
				return errors.Errorf("restyle incomplete: %w", ErrFilesFailed)
			}

			if s.dryRun {
				o.Logger.Infof("dry run: %d file(s) would change", report.ChangedCount())
			} else {
				o.Logger.Successf("restyled %d file(s)", report.ChangedCount())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&s.dryRun, "dry-run", "n", false, "report changes without writing files")
	cmd.Flags().BoolVar(&s.diff, "diff", false, "print a unified diff for every changed file")
	cmd.Flags().BoolVar(&s.backup, "backup", false, "copy each file to file.bak before overwriting it")

	return cmd
}
