// Package util holds file helpers shared by the cli and the history backends.
package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OpenLog opens path for appending, falling back to discard so a bad log
// path never stops the viewer.
func OpenLog(path string, mode os.FileMode) (file io.Writer) {

	if path == "" {
		return io.Discard
	}

	var err error
	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err.Error())
		file = io.Discard
	}

	return
}

func CloseLog(file io.Writer) {

	actually, ok := file.(*os.File)
	if ok {
		actually.Close()
	}
}

// LoadConfig unmarshals the yaml file at path into cfg.
func LoadConfig(cfg any, path string) (err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	err = yaml.Unmarshal(data, cfg)
	err = errors.Wrapf(err, "failed to unmarshal %s", path)
	return
}

// WriteConfig marshals cfg to yaml at path, creating parent directories.
func WriteConfig(cfg any, path string, mode os.FileMode) (err error) {

	data, err := yaml.Marshal(cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal")
		return
	}

	err = os.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		err = errors.Wrapf(err, "failed to create dir for %s", path)
		return
	}

	err = os.WriteFile(path, data, mode)
	err = errors.Wrapf(err, "failed to write to %s", path)
	return
}

// SampleConfig writes data to path unless a file is already there.
func SampleConfig(data []byte, path string, mode os.FileMode) (err error) {

	_, err = os.Stat(path)
	if err == nil {
		return // already have a cfg
	}

	err = os.WriteFile(path, data, mode)
	err = errors.Wrapf(err, "failed to write to %s", path)
	return
}
