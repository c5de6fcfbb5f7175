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

package config

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/pkg/text"
)

// DefaultInclude is used by migrations that name no include globs.
var DefaultInclude = []string{"**/*"}

// 🎯 Migration is a compiled MigrationConfig
type Migration struct {
	Name        string
	Description string
	Rulesets    []*text.Ruleset
	Include     []string
	Exclude     []string
}

// RulesetNames returns the names of the migration's rulesets in application order.
func (m *Migration) RulesetNames() []string {
	names := make([]string, len(m.Rulesets))
	for i, rs := range m.Rulesets {
		names[i] = rs.Name()
	}
	return names
}

// 📚 Catalog holds every compiled ruleset and migration of a config
type Catalog struct {
	rulesets   map[string]*text.Ruleset
	order      []string
	migrations []*Migration
}

// 🏗️ Compile builds every ruleset of cfg. The first invalid pattern aborts compilation
// and is returned as a *text.PatternError, so a bad rule never reaches a file.
func Compile(ctx context.Context, cfg *Config) (*Catalog, error) {
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cat := &Catalog{rulesets: make(map[string]*text.Ruleset, len(cfg.Rulesets))}

	for _, rsc := range cfg.Rulesets {
		b := text.NewBuilder(rsc.Name).Describe(rsc.Description)
		for _, rc := range rsc.Rules {
			spec, err := rc.Spec()
			if err != nil {
				return nil, errors.Errorf("ruleset %q: %w", rsc.Name, err)
			}
			b.AddSpec(spec)
		}

		rs, err := b.Build()
		if err != nil {
			return nil, errors.Errorf("compiling ruleset %q: %w", rsc.Name, err)
		}
		cat.rulesets[rs.Name()] = rs
		cat.order = append(cat.order, rs.Name())
	}

	for _, mc := range cfg.Migrations {
		m := &Migration{
			Name:        mc.Name,
			Description: mc.Description,
			Include:     mc.Include,
			Exclude:     mc.Exclude,
		}
		if len(m.Include) == 0 {
			m.Include = DefaultInclude
		}
		for _, name := range mc.Rulesets {
			m.Rulesets = append(m.Rulesets, cat.rulesets[name])
		}
		cat.migrations = append(cat.migrations, m)
	}

	zerolog.Ctx(ctx).Debug().
		Int("rulesets", len(cat.order)).
		Int("migrations", len(cat.migrations)).
		Msg("catalog compiled")

	return cat, nil
}

// Ruleset returns the named ruleset.
func (c *Catalog) Ruleset(name string) (*text.Ruleset, bool) {
	rs, ok := c.rulesets[name]
	return rs, ok
}

// Rulesets returns every ruleset in declaration order.
func (c *Catalog) Rulesets() []*text.Ruleset {
	out := make([]*text.Ruleset, len(c.order))
	for i, name := range c.order {
		out[i] = c.rulesets[name]
	}
	return out
}

// Migration returns the named migration.
func (c *Catalog) Migration(name string) (*Migration, bool) {
	for _, m := range c.migrations {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Migrations returns every migration in declaration order.
func (c *Catalog) Migrations() []*Migration {
	out := make([]*Migration, len(c.migrations))
	copy(out, c.migrations)
	return out
}

// 🔍 Select resolves names to migrations, keeping the caller's order. No names selects
// every migration.
func (c *Catalog) Select(names ...string) ([]*Migration, error) {
	if len(names) == 0 {
		return c.Migrations(), nil
	}

	out := make([]*Migration, 0, len(names))
	for _, name := range names {
		m, ok := c.Migration(name)
		if !ok {
			return nil, errors.Errorf("unknown migration %q", name)
		}
		out = append(out, m)
	}
	return out, nil
}
