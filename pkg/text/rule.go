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

package text

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// Engine selects the regular expression implementation backing a rule.
type Engine string

const (
	// EngineRE2 uses the standard library's linear-time matcher.
	EngineRE2 Engine = "re2"
	// EngineRegexp2 uses a backtracking matcher that supports lookaround.
	EngineRegexp2 Engine = "regexp2"
)

// DefaultMatchTimeout bounds a single regexp2 match when the rule sets none.
const DefaultMatchTimeout = 5 * time.Second

// 🔧 RuleSpec is the raw, uncompiled form of a rule as it appears in configuration
type RuleSpec struct {
	Name        string
	Pattern     string
	Replacement string
	Engine      Engine
	Timeout     time.Duration
}

// 📝 Rule is an immutable compiled (pattern, replacement) pair
type Rule struct {
	name        string
	pattern     string
	replacement string
	engine      Engine
	matcher     matcher
}

// matcher hides the differences between the two regexp engines.
type matcher interface {
	replaceAll(s, template string) (string, int, error)
	// hasGroup reports whether ref names a group number or name the pattern defines.
	hasGroup(ref string) bool
}

// 🏭 NewRule compiles spec into a Rule. A pattern that does not compile, or a replacement
// that references a group the pattern lacks, yields a *PatternError.
func NewRule(spec RuleSpec) (*Rule, error) {
	if spec.Pattern == "" {
		return nil, &PatternError{Rule: spec.Name, Pattern: spec.Pattern, Err: errors.Base("pattern is empty")}
	}

	engine := spec.Engine
	if engine == "" {
		engine = EngineRE2
	}

	var m matcher
	switch engine {
	case EngineRE2:
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, &PatternError{Rule: spec.Name, Pattern: spec.Pattern, Err: err}
		}
		m = &re2Matcher{re: re}
	case EngineRegexp2:
		re, err := regexp2.Compile(spec.Pattern, regexp2.None)
		if err != nil {
			return nil, &PatternError{Rule: spec.Name, Pattern: spec.Pattern, Err: err}
		}
		re.MatchTimeout = spec.Timeout
		if re.MatchTimeout <= 0 {
			re.MatchTimeout = DefaultMatchTimeout
		}
		m = &regexp2Matcher{re: re}
	default:
		return nil, &PatternError{Rule: spec.Name, Pattern: spec.Pattern, Err: errors.Errorf("unknown engine %q", engine)}
	}

	replacement, err := compileTemplate(spec.Replacement, m.hasGroup)
	if err != nil {
		return nil, &PatternError{Rule: spec.Name, Pattern: spec.Pattern, Err: errors.Errorf("replacement %q: %w", spec.Replacement, err)}
	}

	name := spec.Name
	if name == "" {
		name = spec.Pattern
	}

	return &Rule{
		name:        name,
		pattern:     spec.Pattern,
		replacement: replacement,
		engine:      engine,
		matcher:     m,
	}, nil
}

// MustRule is like NewRule but panics on error. Intended for tests and static tables.
func MustRule(spec RuleSpec) *Rule {
	r, err := NewRule(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) Name() string        { return r.name }
func (r *Rule) Pattern() string     { return r.pattern }
func (r *Rule) Replacement() string { return r.replacement }
func (r *Rule) Engine() Engine      { return r.engine }

// String returns "pattern -> replacement".
func (r *Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.pattern, r.replacement)
}

// 🔄 Apply replaces every non-overlapping match of the pattern, scanning leftmost-first.
// It returns the input unchanged and a zero count when nothing matches.
func (r *Rule) Apply(s string) (string, int, error) {
	out, n, err := r.matcher.replaceAll(s, r.replacement)
	if err != nil {
		return "", 0, errors.Errorf("applying rule %q: %w", r.name, err)
	}
	return out, n, nil
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m *re2Matcher) replaceAll(s, template string) (string, int, error) {
	n := len(m.re.FindAllStringIndex(s, -1))
	if n == 0 {
		return s, 0, nil
	}
	return m.re.ReplaceAllString(s, template), n, nil
}

func (m *re2Matcher) hasGroup(ref string) bool {
	if allDigits(ref) {
		n, err := strconv.Atoi(ref)
		return err == nil && n <= m.re.NumSubexp()
	}
	return m.re.SubexpIndex(ref) >= 0
}

type regexp2Matcher struct {
	re *regexp2.Regexp
}

func (m *regexp2Matcher) replaceAll(s, template string) (string, int, error) {
	n := 0
	match, err := m.re.FindStringMatch(s)
	for err == nil && match != nil {
		n++
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return "", 0, errors.Errorf("matching: %w", err)
	}
	if n == 0 {
		return s, 0, nil
	}

	out, err := m.re.Replace(s, template, -1, -1)
	if err != nil {
		return "", 0, errors.Errorf("replacing: %w", err)
	}
	return out, n, nil
}

func (m *regexp2Matcher) hasGroup(ref string) bool {
	if allDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err != nil {
			return false
		}
		for _, g := range m.re.GetGroupNumbers() {
			if g == n {
				return true
			}
		}
		return false
	}
	for _, name := range m.re.GetGroupNames() {
		if name == ref {
			return true
		}
	}
	return false
}
