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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

const yamlConfig = `
rulesets:
  - name: purple
    description: purple to gray
    rules:
      - pattern: 'text-purple-\d+'
        replacement: notion-text
      - name: text-white
        pattern: '\btext-white\b(?!\s*["''])'
        replacement: notion-text
        engine: regexp2
        timeout: 2s
migrations:
  - name: remove-purple
    rulesets: [purple]
    include: ['src/components/*.tsx']
    exclude: [Auth.tsx]
`

const jsonConfig = `{
  "rulesets": [
    {
      "name": "purple",
      "description": "purple to gray",
      "rules": [
        {"pattern": "text-purple-\\d+", "replacement": "notion-text"},
        {"name": "text-white", "pattern": "\\btext-white\\b(?!\\s*[\"'])", "replacement": "notion-text", "engine": "regexp2", "timeout": "2s"}
      ]
    }
  ],
  "migrations": [
    {"name": "remove-purple", "rulesets": ["purple"], "include": ["src/components/*.tsx"], "exclude": ["Auth.tsx"]}
  ]
}`

const hclConfig = `
ruleset "purple" {
  description = "purple to gray"

  rule "text-purple-\\d+" {
    pattern     = "text-purple-\\d+"
    replacement = "notion-text"
  }

  rule "text-white" {
    pattern     = "\\btext-white\\b(?!\\s*[\"'])"
    replacement = "notion-text"
    engine      = engine.regexp2
    timeout     = "2s"
  }
}

migration "remove-purple" {
  rulesets = ["purple"]
  include  = ["src/components/*.tsx"]
  exclude  = ["Auth.tsx"]
}
`

const tomlConfig = `
[[rulesets]]
name = "purple"
description = "purple to gray"

  [[rulesets.rules]]
  pattern = 'text-purple-\d+'
  replacement = "notion-text"

  [[rulesets.rules]]
  name = "text-white"
  pattern = '''\btext-white\b(?!\s*["'])'''
  replacement = "notion-text"
  engine = "regexp2"
  timeout = "2s"

[[migrations]]
name = "remove-purple"
rulesets = ["purple"]
include = ["src/components/*.tsx"]
exclude = ["Auth.tsx"]
`

func checkPurple(t *testing.T, cfg *Config) {
	t.Helper()
	require.Len(t, cfg.Rulesets, 1, "should have 1 ruleset")
	rs := cfg.Rulesets[0]
	assert.Equal(t, "purple", rs.Name, "ruleset name should match")
	assert.Equal(t, "purple to gray", rs.Description, "description should match")
	require.Len(t, rs.Rules, 2, "should have 2 rules")
	assert.Equal(t, `text-purple-\d+`, rs.Rules[0].Pattern, "first pattern should match")
	assert.Equal(t, "notion-text", rs.Rules[0].Replacement, "first replacement should match")
	assert.Equal(t, "text-white", rs.Rules[1].Name, "second rule name should match")
	assert.Equal(t, `\btext-white\b(?!\s*["'])`, rs.Rules[1].Pattern, "second pattern should match")
	assert.Equal(t, "regexp2", rs.Rules[1].Engine, "engine should match")
	assert.Equal(t, "2s", rs.Rules[1].Timeout, "timeout should match")

	require.Len(t, cfg.Migrations, 1, "should have 1 migration")
	m := cfg.Migrations[0]
	assert.Equal(t, "remove-purple", m.Name)
	assert.Equal(t, []string{"purple"}, m.Rulesets)
	assert.Equal(t, []string{"src/components/*.tsx"}, m.Include)
	assert.Equal(t, []string{"Auth.tsx"}, m.Exclude)
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
	}{
		{name: "yaml", filename: "restyle.yaml", config: yamlConfig},
		{name: "yml", filename: "restyle.yml", config: yamlConfig},
		{name: "json", filename: "restyle.json", config: jsonConfig},
		{name: "json_with_comments", filename: "restyle.json", config: "// palette cleanup\n" + jsonConfig},
		{name: "hcl", filename: "restyle.hcl", config: hclConfig},
		{name: "toml", filename: "restyle.toml", config: tomlConfig},
		{name: "dotfile_yaml", filename: ".restyle", config: yamlConfig},
		{name: "dotfile_hcl", filename: ".restyle", config: hclConfig},
		{
			name:        "unknown_yaml_field",
			filename:    "restyle.yaml",
			config:      "rulesets: []\nsettings: {}\n",
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "restyle.json",
			config:      `{"rulesets": [], "settings": {}}`,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_toml_field",
			filename:    "restyle.toml",
			config:      "settings = 1\n",
			errContains: "parsing TOML",
		},
		{
			name:        "bad_hcl",
			filename:    "restyle.hcl",
			config:      `ruleset {`,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "restyle.ini",
			config:      `x = 1`,
			errContains: "unsupported file extension",
		},
		{
			name:        "invalid_structure",
			filename:    "restyle.yaml",
			config:      "rulesets:\n  - name: empty\n",
			errContains: "at least one rule is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := LoadConfig(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			checkPurple(t, cfg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Rulesets: []RulesetConfig{
				{Name: "a", Rules: []RuleConfig{{Pattern: "x", Replacement: "y"}}},
			},
			Migrations: []MigrationConfig{
				{Name: "m", Rulesets: []string{"a"}},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		errs   []string
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{
			name:   "no_rulesets",
			mutate: func(cfg *Config) { cfg.Rulesets = nil; cfg.Migrations = nil },
			errs:   []string{"at least one ruleset is required"},
		},
		{
			name: "duplicate_ruleset",
			mutate: func(cfg *Config) {
				cfg.Rulesets = append(cfg.Rulesets, cfg.Rulesets[0])
			},
			errs: []string{`duplicate ruleset name "a"`},
		},
		{
			name:   "missing_ruleset_name",
			mutate: func(cfg *Config) { cfg.Rulesets[0].Name = "" },
			errs:   []string{"rulesets[0]: name is required", `unknown ruleset "a"`},
		},
		{
			name:   "empty_pattern",
			mutate: func(cfg *Config) { cfg.Rulesets[0].Rules[0].Pattern = "" },
			errs:   []string{"pattern is required"},
		},
		{
			name:   "unknown_engine",
			mutate: func(cfg *Config) { cfg.Rulesets[0].Rules[0].Engine = "pcre" },
			errs:   []string{`unknown engine "pcre"`},
		},
		{
			name:   "bad_timeout",
			mutate: func(cfg *Config) { cfg.Rulesets[0].Rules[0].Timeout = "soon" },
			errs:   []string{`parsing timeout "soon"`},
		},
		{
			name:   "negative_timeout",
			mutate: func(cfg *Config) { cfg.Rulesets[0].Rules[0].Timeout = "-1s" },
			errs:   []string{"is negative"},
		},
		{
			name: "duplicate_migration",
			mutate: func(cfg *Config) {
				cfg.Migrations = append(cfg.Migrations, cfg.Migrations[0])
			},
			errs: []string{`duplicate migration name "m"`},
		},
		{
			name:   "migration_without_rulesets",
			mutate: func(cfg *Config) { cfg.Migrations[0].Rulesets = nil },
			errs:   []string{"at least one ruleset is required"},
		},
		{
			name:   "bad_glob",
			mutate: func(cfg *Config) { cfg.Migrations[0].Exclude = []string{"[abc"} },
			errs:   []string{`invalid glob "[abc"`},
		},
		{
			name: "reports_every_problem",
			mutate: func(cfg *Config) {
				cfg.Rulesets[0].Rules[0].Engine = "pcre"
				cfg.Migrations[0].Rulesets = []string{"missing"}
			},
			errs: []string{`unknown engine "pcre"`, `unknown ruleset "missing"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Validate(testContext(t), cfg)
			if len(tt.errs) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.errs {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestRuleConfig_Spec(t *testing.T) {
	spec, err := RuleConfig{Name: "w", Pattern: "a", Replacement: "b", Engine: "regexp2", Timeout: "250ms"}.Spec()
	require.NoError(t, err)
	assert.Equal(t, "w", spec.Name)
	assert.Equal(t, "regexp2", string(spec.Engine))
	assert.Equal(t, "250ms", spec.Timeout.String())

	spec, err = RuleConfig{Pattern: "a"}.Spec()
	require.NoError(t, err)
	assert.Zero(t, spec.Timeout, "unset timeout should be zero")
}
