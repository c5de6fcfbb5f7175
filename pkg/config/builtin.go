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
	_ "embed"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

//go:embed builtin/restyle.yaml
var builtinYAML []byte

// 📦 Builtin returns the migrations that ship with restyle: notion-style,
// remove-gradients and remove-purple.
func Builtin(ctx context.Context) (*Config, error) {
	cfg, err := (&YAMLParser{}).Parse(ctx, "builtin/restyle.yaml", builtinYAML)
	if err != nil {
		return nil, errors.Errorf("loading built-in config: %w", err)
	}
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating built-in config: %w", err)
	}
	return cfg, nil
}

// userConfigNames are looked up under the XDG config directories, in order.
var userConfigNames = []string{
	"restyle/config.yaml",
	"restyle/config.yml",
	"restyle/config.hcl",
	"restyle/config.toml",
	"restyle/config.json",
}

// LoadOrBuiltin loads path. Without one it tries DefaultFile in the working directory,
// then restyle/config.* under the XDG config directories, and finally the built-in config.
func LoadOrBuiltin(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return LoadConfig(ctx, path)
	}
	if fileExists(DefaultFile) {
		return LoadConfig(ctx, DefaultFile)
	}
	if found := findUserConfig(); found != "" {
		return LoadConfig(ctx, found)
	}
	zerolog.Ctx(ctx).Debug().Msg("no config file found, using built-in migrations")
	return Builtin(ctx)
}

func findUserConfig() string {
	for _, name := range userConfigNames {
		if found, err := xdg.SearchConfigFile(name); err == nil {
			return found
		}
	}
	return ""
}
