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
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/restyle/pkg/status"
)

// 🏃 Runner executes the updater over a batch of files
type Runner struct {
	updater   *Updater
	workers   int
	onOutcome func(status.FileOutcome)
	mu        sync.Mutex
}

// 🏗️ NewRunner creates a new runner. workers <= 1 processes files one at a time.
func NewRunner(updater *Updater, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		updater: updater,
		workers: workers,
	}
}

// OnOutcome registers fn to be called as each file finishes. Calls are serialised.
func (r *Runner) OnOutcome(fn func(status.FileOutcome)) *Runner {
	r.onOutcome = fn
	return r
}

// 🏃 Run attempts every file exactly once and returns the aggregated report. Outcomes
// are folded into the report in input order regardless of completion order.
//
// The only error is a precondition failure: a path listed twice would let two tasks
// write the same file.
func (r *Runner) Run(ctx context.Context, files []string, sel Selector) (*status.RunReport, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f] {
			return nil, errors.Errorf("duplicate path in batch: %s", f)
		}
		seen[f] = true
	}

	logger.Debug().Int("files", len(files)).Int("workers", r.workers).Msg("starting batch")

	outcomes := make([]status.FileOutcome, len(files))
	if r.workers == 1 {
		r.runSync(ctx, files, sel, outcomes)
	} else {
		r.runAsync(ctx, files, sel, outcomes)
	}

	report := status.NewRunReport()
	for _, o := range outcomes {
		report.Add(o)
	}

	logger.Debug().
		Int("changed", report.ChangedCount()).
		Int("failed", len(report.Failures())).
		Msg("batch complete")

	return report, nil
}

// 🔄 runSync processes files one after another
func (r *Runner) runSync(ctx context.Context, files []string, sel Selector, outcomes []status.FileOutcome) {
	for i, f := range files {
		outcomes[i] = r.process(ctx, f, sel)
	}
}

// ⚡ runAsync processes files on a bounded pool. Each task owns one slot of outcomes.
func (r *Runner) runAsync(ctx context.Context, files []string, sel Selector, outcomes []status.FileOutcome) {
	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, f := range files {
		g.Go(func() error {
			outcomes[i] = r.process(ctx, f, sel)
			return nil
		})
	}

	// tasks never return errors; failures live in the outcomes
	_ = g.Wait()
}

func (r *Runner) process(ctx context.Context, path string, sel Selector) status.FileOutcome {
	var outcome status.FileOutcome

	rulesets := sel.Select(path)
	if len(rulesets) == 0 {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no ruleset selected, skipping")
		outcome = status.FileOutcome{Path: path, Status: status.StatusSkipped}
	} else {
		outcome = r.updater.Update(ctx, path, rulesets)
	}

	if r.onOutcome != nil {
		r.mu.Lock()
		r.onOutcome(outcome)
		r.mu.Unlock()
	}
	return outcome
}
