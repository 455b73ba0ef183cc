// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
)

// RecordStore persists watchdog process ids as "<dir>/<key>.pid" files.
//
// The record is the only link between the add invocation that spawned a
// watchdog and the unrelated remove invocation that stops it. No locking is
// done around it: overlapping add/remove sequences for the same key race.
type RecordStore struct {
	fs  afero.Fs
	dir string
}

// NewRecordStore returns a store rooted at dir on fs.
func NewRecordStore(fs afero.Fs, dir string) *RecordStore {
	return &RecordStore{fs: fs, dir: dir}
}

// Path returns the record file for key.
func (s *RecordStore) Path(key string) string {
	return filepath.Join(s.dir, key+constants.RecordSuffix)
}

// Write stores pid under key, replacing any existing record.
func (s *RecordStore) Write(key string, pid int) error {
	path := s.Path(key)

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, errors.WatchdogRecordWriteFailed).
			WithMetadata("path", s.dir)
	}

	data := []byte(fmt.Sprintf("%d\n", pid))
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return errors.Wrap(err, errors.WatchdogRecordWriteFailed).
			WithMetadata("path", path)
	}

	return nil
}

// Read returns the pid recorded under key. A missing, empty, or non-numeric
// record is an error.
func (s *RecordStore) Read(key string) (int, error) {
	path := s.Path(key)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return 0, errors.Wrap(err, errors.WatchdogRecordReadFailed).
			WithMetadata("path", path)
	}

	content := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(content)
	if err != nil || pid <= 0 {
		return 0, errors.New(errors.WatchdogRecordReadFailed, "invalid PID format").
			WithMetadata("path", path).
			WithMetadata("content", content)
	}

	return pid, nil
}

// Remove deletes the record for key. A record that is already gone is not
// an error.
func (s *RecordStore) Remove(key string) error {
	path := s.Path(key)
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.WatchdogRecordRemoveFailed).
			WithMetadata("path", path)
	}
	return nil
}

// Exists reports whether a record for key is present.
func (s *RecordStore) Exists(key string) bool {
	ok, err := afero.Exists(s.fs, s.Path(key))
	return err == nil && ok
}
