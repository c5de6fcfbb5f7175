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


package operation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/restyle/pkg/status"
)

// 🧹 Cleaner removes the backups that Options.Backup leaves next to rewritten files
type Cleaner struct {
	files     status.FileManager
	dryRun    bool
	onOutcome func(status.FileOutcome)
}

// 🏭 NewCleaner creates a Cleaner. Only opts.Files and opts.DryRun are used.
func NewCleaner(opts Options) *Cleaner {
	if opts.Files == nil {
		opts.Files = status.NewManager()
	}
	return &Cleaner{
		files:  opts.Files,
		dryRun: opts.DryRun,
	}
}

// OnOutcome registers fn to be called as each backup is handled.
func (c *Cleaner) OnOutcome(fn func(status.FileOutcome)) *Cleaner {
	c.onOutcome = fn
	return c
}

// DryRun reports whether the cleaner deletes anything.
func (c *Cleaner) DryRun() bool {
	return c.dryRun
}

// 🧹 Clean removes the backup of every path the selector keeps, one at a time. Outcomes
// are keyed by the backup path. A path without a backup is unchanged, and a failure only
// affects its own path.
func (c *Cleaner) Clean(ctx context.Context, paths []string, sel Selector) *status.RunReport {
	logger := zerolog.Ctx(ctx)
	report := status.NewRunReport()

	logger.Debug().Int("files", len(paths)).Bool("dry_run", c.dryRun).Msg("cleaning backups")

	for _, p := range paths {
		outcome := c.cleanFile(ctx, p, sel)
		report.Add(outcome)
		if c.onOutcome != nil {
			c.onOutcome(outcome)
		}
	}

	logger.Debug().Int("removed", report.Counts()[status.StatusRemoved]).Msg("backups cleaned")
	return report
}

// 🗑️ cleanFile removes the backup of one file
func (c *Cleaner) cleanFile(ctx context.Context, path string, sel Selector) status.FileOutcome {
	backup := path + status.BackupSuffix
	outcome := status.FileOutcome{Path: backup, Status: status.StatusUnchanged}

	if len(sel.Select(path)) == 0 {
		outcome.Status = status.StatusSkipped
		return outcome
	}

	fail := func(kind status.ErrorKind, err error) status.FileOutcome {
		outcome.Status = status.StatusFailed
		outcome.Err = toFileError(err, backup, kind)
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", backup).Msg("backup not removed")
		return outcome
	}

	if err := ctx.Err(); err != nil {
		return fail(status.CanceledError, err)
	}

	has, err := c.files.HasBackup(ctx, path)
	if err != nil {
		return fail(status.ReadError, err)
	}
	if !has {
		return outcome
	}

	if !c.dryRun {
		if err := c.files.RemoveBackup(ctx, path); err != nil {
			return fail(status.WriteError, err)
		}
	}

	outcome.Status = status.StatusRemoved
	return outcome
}
