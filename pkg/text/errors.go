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

import "fmt"

// ❌ PatternError reports a rule whose pattern cannot be compiled.
// It is raised while a Ruleset is built, never while one is applied.
type PatternError struct {
	Ruleset string
	Rule    string
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Ruleset != "" {
		return fmt.Sprintf("ruleset %q: rule %d (%s): invalid pattern %q: %v", e.Ruleset, e.Index, e.Rule, e.Pattern, e.Err)
	}
	return fmt.Sprintf("rule %s: invalid pattern %q: %v", e.Rule, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
