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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/restyle/cmd/restyle/commands"
	"github.com/walteh/restyle/cmd/restyle/opts"
)

const testConfig = `
rulesets:
  - name: purple
    rules:
      - pattern: 'text-purple-\d+'
        replacement: notion-text
      - pattern: 'bg-pink-\d+'
        replacement: bg-gray-800
migrations:
  - name: remove-purple
    rulesets: [purple]
    include: ['src/**/*.tsx']
    exclude: [Auth.tsx]
`

func setupProject(t *testing.T, config string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "components"), 0755))

	files := map[string]string{
		"src/components/Tasks.tsx": `<div className="text-purple-500 bg-pink-100">`,
		"src/components/Auth.tsx":  `<div className="text-purple-500">`,
		"src/components/Notes.tsx": `<div className="bg-gray-100">`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte(content), 0644))
	}

	configPath := filepath.Join(dir, "restyle.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))
	return dir, configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	buf := &bytes.Buffer{}
	cmd := newRootCmd(&opts.RootOpts{})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestApplyThenCheck(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)

	out, err := execute(t, "check", "--config", configPath, "--root", dir)
	require.Error(t, err, "check should fail before apply")
	assert.True(t, errors.Is(err, commands.ErrChangesPending))
	assert.Equal(t, 1, strings.Count(out, "would modify"), "each pending file should be listed once")
	assert.NotContains(t, out, "Notes.tsx", "unchanged files are not listed by check")

	out, err = execute(t, "apply", "--config", configPath, "--root", dir, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "restyled 1 file(s)")

	assert.Equal(t, `<div className="notion-text bg-gray-800">`, readFile(t, dir, "src/components/Tasks.tsx"))
	assert.Equal(t, `<div className="text-purple-500">`, readFile(t, dir, "src/components/Auth.tsx"), "excluded file should be untouched")
	assert.Equal(t, `<div className="bg-gray-100">`, readFile(t, dir, "src/components/Notes.tsx"))

	out, err = execute(t, "check", "--config", configPath, "--root", dir)
	require.NoError(t, err, "check should pass after apply")
	assert.Contains(t, out, "nothing to restyle")
}

func TestApplyDryRun(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)

	out, err := execute(t, "apply", "--config", configPath, "--root", dir, "--dry-run", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "would modify")
	assert.Contains(t, out, "+<div className=\"notion-text bg-gray-800\">")
	assert.Equal(t, `<div className="text-purple-500 bg-pink-100">`, readFile(t, dir, "src/components/Tasks.tsx"))
}

func TestApplyReportsFailures(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "components", "Broken.tsx"), []byte("text-purple-500 \xff"), 0644))

	out, err := execute(t, "apply", "--config", configPath, "--root", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, commands.ErrFilesFailed))
	assert.Contains(t, out, "EncodingError")

	assert.Equal(t, `<div className="notion-text bg-gray-800">`, readFile(t, dir, "src/components/Tasks.tsx"), "other files should still be restyled")
	assert.Equal(t, "text-purple-500 \xff", readFile(t, dir, "src/components/Broken.tsx"))
}

func TestCleanRemovesBackups(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)
	tasks := filepath.Join(dir, "src", "components", "Tasks.tsx")
	auth := filepath.Join(dir, "src", "components", "Auth.tsx")
	require.NoError(t, os.WriteFile(auth+".bak", []byte("kept"), 0644))

	_, err := execute(t, "apply", "--config", configPath, "--root", dir, "--backup")
	require.NoError(t, err)
	assert.Equal(t, `<div className="text-purple-500 bg-pink-100">`, readFile(t, dir, "src/components/Tasks.tsx.bak"))

	out, err := execute(t, "clean", "--config", configPath, "--root", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would remove")
	assert.Contains(t, out, "1 backup(s) would be removed")
	assert.FileExists(t, tasks+".bak")

	out, err = execute(t, "clean", "--config", configPath, "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 backup(s)")
	assert.NoFileExists(t, tasks+".bak")
	assert.FileExists(t, tasks, "source file should stay")
	assert.Equal(t, "kept", readFile(t, dir, "src/components/Auth.tsx.bak"), "excluded file keeps its backup")

	out, err = execute(t, "clean", "--config", configPath, "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 backup(s)")
}

func TestInvalidReplacementTouchesNothing(t *testing.T) {
	dir, configPath := setupProject(t, `
rulesets:
  - name: purple
    rules:
      - pattern: 'text-(purple)-\d+'
        replacement: 'notion-\2'
migrations:
  - name: remove-purple
    rulesets: [purple]
    include: ['src/**/*.tsx']
`)

	_, err := execute(t, "apply", "--config", configPath, "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling rules")
	assert.Contains(t, err.Error(), `unknown group "2"`)
	assert.Equal(t, `<div className="text-purple-500 bg-pink-100">`, readFile(t, dir, "src/components/Tasks.tsx"))
}

func TestInvalidPatternTouchesNothing(t *testing.T) {
	dir, configPath := setupProject(t, `
rulesets:
  - name: purple
    rules:
      - pattern: 'text-purple-\d+'
        replacement: notion-text
      - pattern: '(bg-pink'
        replacement: bg-gray-800
migrations:
  - name: remove-purple
    rulesets: [purple]
    include: ['src/**/*.tsx']
`)

	_, err := execute(t, "apply", "--config", configPath, "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling rules")
	assert.Equal(t, `<div className="text-purple-500 bg-pink-100">`, readFile(t, dir, "src/components/Tasks.tsx"))
}

func TestUnknownMigration(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)

	_, err := execute(t, "apply", "remove-rainbows", "--config", configPath, "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration "remove-rainbows"`)
}

func TestList(t *testing.T) {
	dir, configPath := setupProject(t, testConfig)

	out, err := execute(t, "list", "--config", configPath, "--root", dir, "--rules")
	require.NoError(t, err)
	assert.Contains(t, out, "remove-purple")
	assert.Contains(t, out, "src/**/*.tsx")
	assert.Contains(t, out, `text-purple-\d+ -> notion-text`)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err, "version should not load config")
	assert.Contains(t, out, "restyle version info")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion(&VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Time:      "2025-01-01T00:00:00Z",
		Modified:  true,
	})
	assert.Contains(t, out, "Version:   v1.2.3")
	assert.Contains(t, out, "Revision:  abc123 (modified)")
	assert.Contains(t, out, "Platform:  linux/amd64")
}
