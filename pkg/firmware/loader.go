// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package firmware answers kernel firmware requests through the sysfs
// loading/data interface.
package firmware

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
)

type Loader struct {
	logger    logger.Logger
	fs        afero.Fs
	dir       string
	sysfsRoot string
}

func NewLoader(l logger.Logger, fs afero.Fs, dir, sysfsRoot string) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{logger: l, fs: fs, dir: dir, sysfsRoot: sysfsRoot}
}

// Load copies firmware image name into the sysfs device at devPath. On any
// failure the request is aborted by writing -1 to the loading attribute.
func (f *Loader) Load(devPath, name string) error {
	base := filepath.Join(f.sysfsRoot, devPath)
	loading := filepath.Join(base, "loading")
	image := filepath.Join(f.dir, filepath.Clean("/"+name))

	err := f.load(loading, filepath.Join(base, "data"), image)
	if err != nil {
		if abortErr := f.writeLoading(loading, "-1"); abortErr != nil {
			f.logger.Warn("failed to abort firmware load", "path", loading, "err", abortErr)
		}
		return errors.Wrap(err, errors.FirmwareLoadFailed).
			WithMetadata("devpath", devPath).
			WithMetadata("firmware", name)
	}

	f.logger.Info("firmware loaded", "devpath", devPath, "firmware", name)
	return nil
}

func (f *Loader) load(loading, data, image string) error {
	src, err := f.fs.Open(image)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := f.writeLoading(loading, "1"); err != nil {
		return err
	}

	dst, err := f.fs.OpenFile(data, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	return f.writeLoading(loading, "0")
}

func (f *Loader) writeLoading(path, value string) error {
	w, err := f.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, value); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
