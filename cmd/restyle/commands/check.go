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

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var diff bool

	cmd := &cobra.Command{
		Use:   "check [migration...]",
		Short: "Fail if any migration would still change files",
		Long: `Check is a dry run of apply meant for CI. Nothing is written.
It exits non-zero when a file would change or could not be processed, so a
tree that has been fully restyled passes and stays passing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			report, err := runMigrations(ctx, o, args, runSettings{dryRun: true, diff: diff, quiet: true})
			if err != nil {
				return err
			}

			if err := printSummary(o, report, true); err != nil {
				return err
			}

			switch {
			case report.HasFailures():
				o.Logger.Error(report.Err().Error())
				return errors.Errorf("check incomplete: %w", ErrFilesFailed)
			case report.ChangedCount() > 0:
				return errors.Errorf("%d file(s): %w", report.ChangedCount(), ErrChangesPending)
			}

			o.Logger.Success("nothing to restyle")
			return nil
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff for every file that would change")

	return cmd
}
