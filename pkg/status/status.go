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

package status

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/pkg/text"
)

// 📊 FileStatus represents what happened to a file during a run
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // No rule matched, or the rewrite was a no-op
	StatusModified             // Content changed (written back unless dry run)
	StatusFailed               // An error stopped processing of this file
	StatusSkipped              // No ruleset was selected for this file
	StatusRemoved              // A backup was (or in a dry run, would be) deleted
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// 🏷️ ErrorKind classifies a failure
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	PatternError
	ReadError
	WriteError
	EncodingError
	TransformError
	TimeoutError
	CanceledError
)

func (k ErrorKind) String() string {
	switch k {
	case PatternError:
		return "PatternError"
	case ReadError:
		return "ReadError"
	case WriteError:
		return "WriteError"
	case EncodingError:
		return "EncodingError"
	case TransformError:
		return "TransformError"
	case TimeoutError:
		return "TimeoutError"
	case CanceledError:
		return "CanceledError"
	default:
		return "UnknownError"
	}
}

// ❌ FileError is a failure tied to one file
type FileError struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewFileError wraps err with a kind and path.
func NewFileError(kind ErrorKind, path string, err error) *FileError {
	return &FileError{Kind: kind, Path: path, Err: err}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Context errors become TimeoutError or CanceledError and pattern
// errors keep their own kind; anything else not already a FileError counts as a
// transform failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var ferr *FileError
	if errors.As(err, &ferr) {
		return ferr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError
	}
	if errors.Is(err, context.Canceled) {
		return CanceledError
	}
	var perr *text.PatternError
	if errors.As(err, &perr) {
		return PatternError
	}
	return TransformError
}

// 📄 FileOutcome is the per-file result of a run
type FileOutcome struct {
	Path         string
	Status       FileStatus
	Replacements int
	Rulesets     []string
	Hits         []text.RuleHit
	Diff         string
	Err          *FileError
}

// Changed reports whether the file's content was (or in a dry run, would be) rewritten.
func (o FileOutcome) Changed() bool {
	return o.Status == StatusModified
}

// Failed reports whether processing the file failed.
func (o FileOutcome) Failed() bool {
	return o.Status == StatusFailed
}

// 📋 RunReport aggregates every FileOutcome of one invocation. It is append only.
type RunReport struct {
	mu       sync.Mutex
	outcomes []FileOutcome
}

// NewRunReport creates an empty report.
func NewRunReport() *RunReport {
	return &RunReport{}
}

// Add appends one outcome.
func (r *RunReport) Add(o FileOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Merge appends every outcome of other, in order.
func (r *RunReport) Merge(other *RunReport) {
	for _, o := range other.Outcomes() {
		r.Add(o)
	}
}

// Outcomes returns a copy of all outcomes in the order they were added.
func (r *RunReport) Outcomes() []FileOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileOutcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Changed returns the distinct paths that changed, in first-seen order.
func (r *RunReport) Changed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var paths []string
	for _, o := range r.outcomes {
		if o.Changed() && !seen[o.Path] {
			seen[o.Path] = true
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// ChangedCount is the number of distinct changed files.
func (r *RunReport) ChangedCount() int {
	return len(r.Changed())
}

// Failures returns every failed outcome.
func (r *RunReport) Failures() []FileOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var failed []FileOutcome
	for _, o := range r.outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// HasFailures reports whether at least one file failed.
func (r *RunReport) HasFailures() bool {
	return len(r.Failures()) > 0
}

// Counts tallies outcomes by status.
func (r *RunReport) Counts() map[FileStatus]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[FileStatus]int)
	for _, o := range r.outcomes {
		counts[o.Status]++
	}
	return counts
}

// Err summarises the failures as a single error, or nil if there were none.
func (r *RunReport) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	kinds := make(map[string]int)
	for _, f := range failures {
		kind := KindUnknown
		if f.Err != nil {
			kind = f.Err.Kind
		}
		kinds[kind.String()]++
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%d %s", kinds[k], k))
	}
	return errors.Errorf("%d file(s) failed (%s)", len(failures), strings.Join(parts, ", "))
}
