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
	"context"

	"gitlab.com/tozd/go/errors"
)

// 🎯 RuleHit records how many times one rule replaced text during a fold
type RuleHit struct {
	Ruleset string
	Rule    string
	Count   int
}

// 📚 Ruleset is an ordered list of rules applied as a left fold.
//
// Order is part of the contract: rule N operates on the output of rules 1..N-1, so a
// later rule may clean up residue left by an earlier, broader one. Overlapping rules are
// resolved only by this order. Rules that can re-match their own output are not
// idempotent across runs; keeping them disjoint after ordering is up to the author.
type Ruleset struct {
	name        string
	description string
	rules       []*Rule
}

func (rs *Ruleset) Name() string        { return rs.name }
func (rs *Ruleset) Description() string { return rs.description }
func (rs *Ruleset) Len() int            { return len(rs.rules) }

// Rules returns a copy of the rules in application order.
func (rs *Ruleset) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// 🔄 Apply folds every rule over s in configured order and returns the final buffer
// along with the rules that matched. The context is checked between rules.
func (rs *Ruleset) Apply(ctx context.Context, s string) (string, []RuleHit, error) {
	var hits []RuleHit
	for _, rule := range rs.rules {
		if err := ctx.Err(); err != nil {
			return "", nil, errors.Errorf("ruleset %q interrupted: %w", rs.name, err)
		}

		out, n, err := rule.Apply(s)
		if err != nil {
			return "", nil, errors.Errorf("ruleset %q: %w", rs.name, err)
		}
		if n > 0 {
			hits = append(hits, RuleHit{Ruleset: rs.name, Rule: rule.Name(), Count: n})
		}
		s = out
	}
	return s, hits, nil
}

// 🏗️ Builder assembles a Ruleset. The first invalid rule is remembered and returned by
// Build, so a chain of Add calls needs only one error check.
type Builder struct {
	name        string
	description string
	rules       []*Rule
	err         error
}

// NewBuilder starts a ruleset with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Describe sets the human readable description.
func (b *Builder) Describe(description string) *Builder {
	b.description = description
	return b
}

// Add appends a re2 rule.
func (b *Builder) Add(pattern, replacement string) *Builder {
	return b.AddSpec(RuleSpec{Pattern: pattern, Replacement: replacement})
}

// AddSpec appends a rule from its full specification.
func (b *Builder) AddSpec(spec RuleSpec) *Builder {
	if b.err != nil {
		return b
	}

	rule, err := NewRule(spec)
	if err != nil {
		var perr *PatternError
		if errors.As(err, &perr) {
			perr.Ruleset = b.name
			perr.Index = len(b.rules)
		}
		b.err = err
		return b
	}

	b.rules = append(b.rules, rule)
	return b
}

// Build returns the finished Ruleset, or the first PatternError met while adding rules.
func (b *Builder) Build() (*Ruleset, error) {
	if b.name == "" {
		return nil, errors.New("ruleset name is required")
	}
	if b.err != nil {
		return nil, b.err
	}

	rules := make([]*Rule, len(b.rules))
	copy(rules, b.rules)

	return &Ruleset{
		name:        b.name,
		description: b.description,
		rules:       rules,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Ruleset {
	rs, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rs
}
