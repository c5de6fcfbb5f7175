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

package status

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager is the file system surface the updater needs
type FileManager interface {
	// ReadText reads path as UTF-8 text and returns its permission bits.
	ReadText(ctx context.Context, path string) (string, fs.FileMode, error)
	// WriteFileAtomic replaces path with content without ever exposing a partial file.
	WriteFileAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) error
	// BackupFile copies path to path+".bak".
	BackupFile(ctx context.Context, path string) error
	// HasBackup reports whether path+".bak" exists as a regular file.
	HasBackup(ctx context.Context, path string) (bool, error)
	// RemoveBackup deletes path+".bak".
	RemoveBackup(ctx context.Context, path string) error
}

// BackupSuffix is appended to a file name by BackupFile.
const BackupSuffix = ".bak"

// ErrInvalidUTF8 is wrapped by EncodingError failures.
var ErrInvalidUTF8 = errors.Base("content is not valid UTF-8")

// 🔧 Manager implements FileManager on the local file system
type Manager struct{}

var _ FileManager = (*Manager)(nil)

// 🏭 NewManager creates a new file manager
func NewManager() *Manager {
	return &Manager{}
}

// ReadText opens, reads and closes path before returning. Content that is not valid
// UTF-8 is reported as an EncodingError so it is never rewritten.
func (m *Manager) ReadText(ctx context.Context, path string) (string, fs.FileMode, error) {
	data, mode, err := readAll(path)
	if err != nil {
		return "", 0, NewFileError(ReadError, path, err)
	}

	if off := invalidUTF8Offset(data); off >= 0 {
		return "", 0, NewFileError(EncodingError, path, errors.Errorf("byte offset %d: %w", off, ErrInvalidUTF8))
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(data)).Msg("read file")
	return string(data), mode, nil
}

func readAll(path string) ([]byte, fs.FileMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, errors.Errorf("stating file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, errors.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, errors.Errorf("reading file: %w", err)
	}
	return data, info.Mode().Perm(), nil
}

// invalidUTF8Offset returns the offset of the first invalid sequence, or -1.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// WriteFileAtomic writes content to a temporary file next to path, syncs it, applies
// mode and renames it over path. On any failure the temporary file is removed and path
// keeps its previous content.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".restyle-*")
	if err != nil {
		return NewFileError(WriteError, path, errors.Errorf("creating temp file: %w", err))
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("writing temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("closing temp file: %w", err))
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("setting mode on temp file: %w", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("renaming temp file: %w", err))
	}
	committed = true

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// BackupFile copies path to path+BackupSuffix, overwriting any older backup.
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	if err := copyFile(path, path+BackupSuffix); err != nil {
		return NewFileError(WriteError, path, errors.Errorf("creating backup: %w", err))
	}
	return nil
}

// HasBackup reports whether a backup of path exists. Anything but a regular file under
// the backup name is not a backup.
func (m *Manager) HasBackup(ctx context.Context, path string) (bool, error) {
	info, err := os.Lstat(path + BackupSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, NewFileError(ReadError, path+BackupSuffix, errors.Errorf("stating backup: %w", err))
	}
	return info.Mode().IsRegular(), nil
}

// RemoveBackup deletes the backup of path.
func (m *Manager) RemoveBackup(ctx context.Context, path string) error {
	if err := os.Remove(path + BackupSuffix); err != nil {
		return NewFileError(WriteError, path+BackupSuffix, errors.Errorf("removing backup: %w", err))
	}
	zerolog.Ctx(ctx).Trace().Str("path", path+BackupSuffix).Msg("removed backup")
	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("stating source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}
	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}
