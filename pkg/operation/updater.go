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
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/pkg/status"
	"github.com/walteh/restyle/pkg/text"
)

// 🔧 Options configures an Updater
type Options struct {
	// Substituter applies rulesets; defaults to text.NewSubstituter().
	Substituter *text.Substituter
	// Files performs file I/O; defaults to status.NewManager().
	Files status.FileManager
	// DryRun computes outcomes without writing anything.
	DryRun bool
	// Diff attaches a unified diff to every modified outcome.
	Diff bool
	// Backup copies each file to file.bak before overwriting it.
	Backup bool
	// Timeout bounds the processing of a single file. Zero means no limit.
	Timeout time.Duration
}

// 📝 Updater rewrites one file at a time
type Updater struct {
	sub     *text.Substituter
	files   status.FileManager
	dryRun  bool
	diff    bool
	backup  bool
	timeout time.Duration
}

// 🏭 NewUpdater creates an Updater from opts
func NewUpdater(opts Options) *Updater {
	if opts.Substituter == nil {
		opts.Substituter = text.NewSubstituter()
	}
	if opts.Files == nil {
		opts.Files = status.NewManager()
	}
	return &Updater{
		sub:     opts.Substituter,
		files:   opts.Files,
		dryRun:  opts.DryRun,
		diff:    opts.Diff,
		backup:  opts.Backup,
		timeout: opts.Timeout,
	}
}

// DryRun reports whether the updater writes files.
func (u *Updater) DryRun() bool {
	return u.dryRun
}

// 🔄 Update reads path, applies rulesets in order and writes the result back only when
// it differs. Every failure is returned inside the outcome; Update never aborts a batch.
func (u *Updater) Update(ctx context.Context, path string, rulesets []*text.Ruleset) status.FileOutcome {
	outcome := status.FileOutcome{Path: path, Status: status.StatusUnchanged}
	for _, rs := range rulesets {
		// nil entries are rejected by the substituter below
		if rs != nil {
			outcome.Rulesets = append(outcome.Rulesets, rs.Name())
		}
	}

	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	ctx = logger.WithContext(ctx)

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	fail := func(kind status.ErrorKind, err error) status.FileOutcome {
		outcome.Status = status.StatusFailed
		outcome.Err = toFileError(err, path, kind)
		logger.Debug().Err(err).Str("kind", outcome.Err.Kind.String()).Msg("file failed")
		return outcome
	}

	if err := ctx.Err(); err != nil {
		return fail(status.CanceledError, err)
	}

	content, mode, err := u.files.ReadText(ctx, path)
	if err != nil {
		return fail(status.ReadError, err)
	}

	res, err := u.sub.Apply(ctx, content, rulesets...)
	if err != nil {
		return fail(status.TransformError, err)
	}
	outcome.Replacements = res.Replacements
	outcome.Hits = res.Hits

	if !res.Changed {
		logger.Debug().Int("replacements", res.Replacements).Msg("file unchanged")
		return outcome
	}

	if u.diff {
		d, err := unifiedDiff(path, res.Original, res.Modified)
		if err != nil {
			return fail(status.TransformError, err)
		}
		outcome.Diff = d
	}

	if u.dryRun {
		outcome.Status = status.StatusModified
		logger.Debug().Int("replacements", res.Replacements).Msg("file would change")
		return outcome
	}

	// a write that has not started leaves the original untouched
	if err := ctx.Err(); err != nil {
		return fail(status.CanceledError, err)
	}

	if u.backup {
		if err := u.files.BackupFile(ctx, path); err != nil {
			return fail(status.WriteError, err)
		}
	}

	if err := u.files.WriteFileAtomic(ctx, path, []byte(res.Modified), mode); err != nil {
		return fail(status.WriteError, err)
	}

	outcome.Status = status.StatusModified
	logger.Info().Int("replacements", res.Replacements).Strs("rulesets", outcome.Rulesets).Msg("file updated")
	return outcome
}

// toFileError keeps an existing FileError, classifies context errors and otherwise tags
// err with kind.
func toFileError(err error, path string, kind status.ErrorKind) *status.FileError {
	var ferr *status.FileError
	if errors.As(err, &ferr) {
		return ferr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = status.TimeoutError
	case errors.Is(err, context.Canceled):
		kind = status.CanceledError
	}
	return status.NewFileError(kind, path, err)
}

func unifiedDiff(path, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Errorf("building diff: %w", err)
	}
	return out, nil
}
