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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/cmd/restyle/opts"
	"github.com/walteh/restyle/pkg/fileset"
	"github.com/walteh/restyle/pkg/log"
	"github.com/walteh/restyle/pkg/operation"
	"github.com/walteh/restyle/pkg/status"
)

var (
	// ErrFilesFailed is returned when at least one file could not be restyled.
	ErrFilesFailed = errors.Base("one or more files failed")
	// ErrChangesPending is returned by check when a migration would still change files.
	ErrChangesPending = errors.Base("files need restyling")
)

type runSettings struct {
	dryRun bool
	diff   bool
	backup bool
	// quiet only prints files that changed or failed
	quiet bool
}

// runMigrations runs the named migrations in order, each as its own pass over the files
// its include globs select. Per-file failures stay in the report; only setup problems
// (unknown migration, unreadable root, duplicate paths) abort.
func runMigrations(ctx context.Context, o *opts.RootOpts, names []string, s runSettings) (*status.RunReport, error) {
	migrations, err := o.Catalog.Select(names...)
	if err != nil {
		return nil, errors.Errorf("selecting migrations: %w", err)
	}

	updater := operation.NewUpdater(operation.Options{
		DryRun:  s.dryRun,
		Diff:    s.diff,
		Backup:  s.backup,
		Timeout: o.Timeout,
	})

	logger := zerolog.Ctx(ctx)
	formatter := status.NewDefaultFileFormatter()

	total := status.NewRunReport()
	for _, m := range migrations {
		if err := ctx.Err(); err != nil {
			return total, errors.Errorf("interrupted before %s: %w", m.Name, err)
		}

		files, err := fileset.List(ctx, o.Root, m.Include)
		if err != nil {
			return total, errors.Errorf("listing files for %s: %w", m.Name, err)
		}

		o.Logger.StartMigration(ctx, log.MigrationOperation{
			Name:     m.Name,
			Rulesets: m.RulesetNames(),
			Root:     o.Root,
			Files:    len(files),
			DryRun:   updater.DryRun(),
		})
		if len(files) == 0 {
			o.Logger.Warningf("%s matched no files under %s", m.Name, o.Root)
		}

		done := 0
		runner := operation.NewRunner(updater, o.Workers).OnOutcome(func(out status.FileOutcome) {
			done++
			logger.Debug().
				Str("progress", formatter.FormatProgress(done, len(files))).
				Msg(formatter.FormatOutcome(out, updater.DryRun()))

			if s.quiet && !out.Changed() && !out.Failed() {
				return
			}
			o.Logger.LogFileOutcome(ctx, out, updater.DryRun())
		})

		report, err := runner.Run(ctx, files, &operation.GlobSelector{
			Root:     o.Root,
			Exclude:  m.Exclude,
			Rulesets: m.Rulesets,
		})
		o.Logger.EndMigration(ctx)
		if err != nil {
			return total, errors.Errorf("running %s: %w", m.Name, err)
		}

		total.Merge(report)
		o.Logger.LogNewline()
	}

	return total, nil
}

// printSummary renders the report table and totals.
func printSummary(o *opts.RootOpts, report *status.RunReport, dryRun bool) error {
	summary, err := log.RenderReport(report, dryRun)
	if err != nil {
		return err
	}
	o.Logger.Print(summary)
	return nil
}
