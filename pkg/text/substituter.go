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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 Result is the outcome of running one or more rulesets over a buffer
type Result struct {
	Original     string
	Modified     string
	Changed      bool
	Replacements int
	Hits         []RuleHit
}

// ⚙️ Substituter applies rulesets to in-memory buffers. It has no side effects.
type Substituter struct{}

// NewSubstituter creates a new Substituter.
func NewSubstituter() *Substituter {
	return &Substituter{}
}

// 🔄 Apply folds each ruleset over original, in the order given, and reports whether the
// final buffer differs from original. Several rulesets make a multi-pass migration: the
// second ruleset sees the output of the first.
//
// Either the fully folded result is returned or an error is; a buffer that was only
// partly rewritten never escapes.
func (s *Substituter) Apply(ctx context.Context, original string, rulesets ...*Ruleset) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	current := original
	result := &Result{Original: original}

	for _, rs := range rulesets {
		if rs == nil {
			return nil, errors.New("nil ruleset")
		}

		out, hits, err := rs.Apply(ctx, current)
		if err != nil {
			return nil, errors.Errorf("applying ruleset: %w", err)
		}

		for _, h := range hits {
			result.Replacements += h.Count
			logger.Trace().Str("ruleset", h.Ruleset).Str("rule", h.Rule).Int("count", h.Count).Msg("rule matched")
		}
		result.Hits = append(result.Hits, hits...)
		current = out
	}

	result.Modified = current
	result.Changed = current != original
	return result, nil
}
