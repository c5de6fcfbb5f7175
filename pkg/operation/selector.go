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
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/walteh/restyle/pkg/text"
)

// 🎯 Selector decides which rulesets apply to a file. An empty result skips the file.
type Selector interface {
	Select(path string) []*text.Ruleset
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(path string) []*text.Ruleset

func (f SelectorFunc) Select(path string) []*text.Ruleset {
	return f(path)
}

// 🔍 GlobSelector applies the same rulesets to every file except those matching an
// exclude pattern. Patterns are doublestar globs relative to Root; a pattern without a
// slash also matches against the base name, so "Auth.tsx" excludes it in any directory.
type GlobSelector struct {
	Root     string
	Exclude  []string
	Rulesets []*text.Ruleset
}

var _ Selector = (*GlobSelector)(nil)

func (s *GlobSelector) Select(p string) []*text.Ruleset {
	if s.Excluded(p) {
		return nil
	}
	return s.Rulesets
}

// Excluded reports whether p matches any exclude pattern.
func (s *GlobSelector) Excluded(p string) bool {
	rel := p
	if s.Root != "" {
		if r, err := filepath.Rel(s.Root, p); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for _, pattern := range s.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
