// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/pkg/errors"
)

// HandlerFile is one handler discovered in a handler directory.
type HandlerFile struct {
	Dir  string
	Name string
}

// Path returns the handler's full path.
func (h HandlerFile) Path() string {
	return filepath.Join(h.Dir, h.Name)
}

// Scanner lists handler files in a directory.
type Scanner struct {
	fs     afero.Fs
	suffix string
}

// NewScanner creates a scanner matching names whose extension equals suffix
// (including the leading dot).
func NewScanner(fs afero.Fs, suffix string) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scanner{fs: fs, suffix: suffix}
}

// Scan returns the handlers in dir in ascending byte-wise name order. A
// missing directory yields no handlers and no error. Hidden entries, names
// without the suffix, non-regular files and files with no execute bit are
// skipped.
func (s *Scanner) Scan(dir string) ([]HandlerFile, error) {
	f, err := s.fs.Open(dir)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.HotplugDirScanFailed).
			WithMetadata("dir", dir)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, errors.Wrap(err, errors.HotplugDirScanFailed).
			WithMetadata("dir", dir)
	}
	sort.Strings(names)

	var handlers []HandlerFile
	for _, name := range names {
		if !s.matches(name) {
			continue
		}
		// Stat, not Lstat: a symlink to an executable is a valid handler.
		fi, err := s.fs.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if !fi.Mode().IsRegular() || fi.Mode().Perm()&0111 == 0 {
			continue
		}
		handlers = append(handlers, HandlerFile{Dir: dir, Name: name})
	}
	return handlers, nil
}

func (s *Scanner) matches(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return filepath.Ext(name) == s.suffix
}
