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

// Package fileset enumerates the files a migration should visit.
package fileset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// List returns every regular file under root matching at least one include pattern.
// Patterns use doublestar syntax ("src/**/*.tsx") and are relative to root. Results
// are joined with root, de-duplicated and sorted.
func List(ctx context.Context, root string, include []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("reading root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root %s is not a directory", root)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid include pattern %q", pattern)
		}

		err := doublestar.GlobWalk(fsys, pattern, func(path string, d fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, filepath.Join(root, filepath.FromSlash(path)))
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walking %q: %w", pattern, err)
		}

		logger.Debug().Str("root", root).Str("pattern", pattern).Int("total", len(files)).Msg("expanded include pattern")
	}

	sort.Strings(files)
	return files, nil
}
