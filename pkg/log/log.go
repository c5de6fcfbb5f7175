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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/restyle/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
)

// 📦 MigrationOperation describes one migration pass for logging
type MigrationOperation struct {
	Name     string   // Migration name
	Rulesets []string // Rulesets in application order
	Root     string   // Directory the globs are relative to
	Files    int      // Number of files selected
	DryRun   bool     // Whether files are left untouched
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *MigrationOperation
	outcomes  []status.FileOutcome
}

// 🏭 New creates a new logger writing human output to console and structured events to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatOutcome formats a file outcome for display
func formatOutcome(o status.FileOutcome, dryRun bool) string {
	var symbol rune
	var symbolColor color.Attribute
	var label, detail string

	switch o.Status {
	case status.StatusModified:
		symbol, symbolColor, label = '⟳', color.FgBlue, "modified"
		if dryRun {
			symbol, symbolColor, label = '~', color.FgYellow, "would modify"
		}
		detail = fmt.Sprintf("%d replacements", o.Replacements)
	case status.StatusFailed:
		symbol, symbolColor, label = '✗', color.FgRed, "failed"
		if o.Err != nil {
			detail = o.Err.Kind.String()
		}
	case status.StatusSkipped:
		symbol, symbolColor, label = '-', color.FgYellow, "skipped"
	case status.StatusRemoved:
		symbol, symbolColor, label = '×', color.FgMagenta, "removed"
		if dryRun {
			label = "would remove"
		}
	default:
		symbol, symbolColor, label = '•', color.FgCyan, "unchanged"
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, o.Path),
		fmt.Sprintf("%-*s", statusWidth, label))
	if detail != "" {
		line += " " + color.New(color.Faint).Sprint(detail)
	}
	return strings.TrimRight(line, " ")
}

// 📝 LogFileOutcome prints one line per file, followed by its diff when one was computed
func (l *Logger) LogFileOutcome(ctx context.Context, o status.FileOutcome, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.outcomes = append(l.outcomes, o)

	fmt.Fprintln(l.console, formatOutcome(o, dryRun))
	if o.Diff != "" {
		l.printDiff(o.Diff)
	}

	// the console line already reports the file, so the structured copy stays at debug
	ev := l.zlog.Debug()
	if o.Failed() {
		ev = ev.Err(o.Err)
	}
	ev.Str("file", o.Path).
		Str("status", o.Status.String()).
		Int("replacements", o.Replacements).
		Strs("rulesets", o.Rulesets).
		Bool("dry_run", dryRun).
		Msg("file processed")
}

// printDiff colours a unified diff; callers hold l.mu
func (l *Logger) printDiff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		c := color.New(color.Reset)
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			c = color.New(color.Bold)
		case strings.HasPrefix(line, "@@"):
			c = color.New(color.FgCyan)
		case strings.HasPrefix(line, "+"):
			c = color.New(color.FgGreen)
		case strings.HasPrefix(line, "-"):
			c = color.New(color.FgRed)
		}
		fmt.Fprintf(l.console, "%*s%s", fileIndent+2, "", c.Sprint(line))
		if !strings.HasSuffix(line, "\n") {
			fmt.Fprintln(l.console)
		}
	}
}

// 📝 StartMigration starts a new migration pass
func (l *Logger) StartMigration(ctx context.Context, op MigrationOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.outcomes = nil

	mode := ""
	if op.DryRun {
		mode = " " + color.New(color.FgYellow).Sprint("(dry run)")
	}
	fmt.Fprintf(l.console, "[restyling %s]%s\n", color.New(color.FgCyan).Sprint(op.Root), mode)

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(strings.Join(op.Rulesets, " → ")))

	l.zlog.Info().
		Str("migration", op.Name).
		Strs("rulesets", op.Rulesets).
		Str("root", op.Root).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting migration")
}

// 📝 EndMigration ends the current migration pass
func (l *Logger) EndMigration(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	changed, failed := 0, 0
	for _, o := range l.outcomes {
		switch {
		case o.Changed():
			changed++
		case o.Failed():
			failed++
		}
	}

	l.zlog.Info().
		Str("migration", l.currentOp.Name).
		Int("files", len(l.outcomes)).
		Int("changed", changed).
		Int("failed", failed).
		Msg("migration complete")

	l.currentOp = nil
	l.outcomes = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("restyle")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message. Warnings and errors reach zerolog at debug level
// only; at the default level they would print twice.
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Print writes pre-rendered text, such as a report table, to the console
func (l *Logger) Print(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(l.console)
	}
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
