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
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/pkg/text"
)

// 🔄 RuleConfig is one (pattern, replacement) pair as written in a config file
type RuleConfig struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" hcl:"name,label"`
	Pattern     string `json:"pattern" yaml:"pattern" toml:"pattern" hcl:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" toml:"replacement" hcl:"replacement"`
	Engine      string `json:"engine,omitempty" yaml:"engine,omitempty" toml:"engine,omitempty" hcl:"engine,optional"`
	Timeout     string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty" hcl:"timeout,optional"`
}

// 📦 RulesetConfig is a named, ordered list of rules
type RulesetConfig struct {
	Name        string       `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" hcl:"description,optional"`
	Rules       []RuleConfig `json:"rules" yaml:"rules" toml:"rules" hcl:"rule,block"`
}

// 🎯 MigrationConfig binds rulesets to the files they run over
type MigrationConfig struct {
	Name        string   `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" hcl:"description,optional"`
	Rulesets    []string `json:"rulesets" yaml:"rulesets" toml:"rulesets" hcl:"rulesets"`
	Include     []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty" hcl:"include,optional"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" hcl:"exclude,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Rulesets   []RulesetConfig   `json:"rulesets" yaml:"rulesets" toml:"rulesets" hcl:"ruleset,block"`
	Migrations []MigrationConfig `json:"migrations" yaml:"migrations" toml:"migrations" hcl:"migration,block"`

	location string
}

// Location returns the file the config was loaded from, or "" for built-ins.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Migrations))
	for _, m := range cfg.Migrations {
		names = append(names, m.Name)
	}
	return fmt.Sprintf("%d rulesets, migrations [%s]", len(cfg.Rulesets), strings.Join(names, ", "))
}

// ParseTimeout returns the rule's match timeout, zero when unset.
func (r RuleConfig) ParseTimeout() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, errors.Errorf("parsing timeout %q: %w", r.Timeout, err)
	}
	if d < 0 {
		return 0, errors.Errorf("timeout %q is negative", r.Timeout)
	}
	return d, nil
}

// Spec converts the rule into the form the text package compiles.
func (r RuleConfig) Spec() (text.RuleSpec, error) {
	timeout, err := r.ParseTimeout()
	if err != nil {
		return text.RuleSpec{}, err
	}
	return text.RuleSpec{
		Name:        r.Name,
		Pattern:     r.Pattern,
		Replacement: r.Replacement,
		Engine:      text.Engine(r.Engine),
		Timeout:     timeout,
	}, nil
}

// 🔍 Validate checks names, references and settings. It reports every problem it finds
// rather than stopping at the first. Patterns are compiled later by Compile.
func Validate(ctx context.Context, cfg *Config) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, errors.Errorf(format, args...))
	}

	if len(cfg.Rulesets) == 0 {
		add("at least one ruleset is required")
	}

	rulesets := make(map[string]bool, len(cfg.Rulesets))
	for i, rs := range cfg.Rulesets {
		switch {
		case rs.Name == "":
			add("rulesets[%d]: name is required", i)
		case rulesets[rs.Name]:
			add("rulesets[%d]: duplicate ruleset name %q", i, rs.Name)
		}
		rulesets[rs.Name] = true

		if len(rs.Rules) == 0 {
			add("ruleset %q: at least one rule is required", rs.Name)
		}
		for j, r := range rs.Rules {
			if r.Pattern == "" {
				add("ruleset %q: rule %d: pattern is required", rs.Name, j)
			}
			switch text.Engine(r.Engine) {
			case "", text.EngineRE2, text.EngineRegexp2:
			default:
				add("ruleset %q: rule %d: unknown engine %q", rs.Name, j, r.Engine)
			}
			if _, err := r.ParseTimeout(); err != nil {
				add("ruleset %q: rule %d: %w", rs.Name, j, err)
			}
		}
	}

	migrations := make(map[string]bool, len(cfg.Migrations))
	for i, m := range cfg.Migrations {
		switch {
		case m.Name == "":
			add("migrations[%d]: name is required", i)
		case migrations[m.Name]:
			add("migrations[%d]: duplicate migration name %q", i, m.Name)
		}
		migrations[m.Name] = true

		if len(m.Rulesets) == 0 {
			add("migration %q: at least one ruleset is required", m.Name)
		}
		for _, name := range m.Rulesets {
			if !rulesets[name] {
				add("migration %q: unknown ruleset %q", m.Name, name)
			}
		}
		for _, p := range append(append([]string{}, m.Include...), m.Exclude...) {
			if !doublestar.ValidatePattern(p) {
				add("migration %q: invalid glob %q", m.Name, p)
			}
		}
	}

	if len(errs) > 0 {
		zerolog.Ctx(ctx).Debug().Int("problems", len(errs)).Msg("config validation failed")
		return errors.Join(errs...)
	}
	return nil
}
