package history

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"dfilter/util"
)

// File is a Backend persisting keys to a yaml file.
type File struct {
	mu   sync.Mutex
	path string
	mode os.FileMode
}

// NewFile creates a File backend at path.
func NewFile(path string) *File {
	return &File{
		path: path,
		mode: 0600,
	}
}

func (fl *File) Get(key string) (value string, ok bool, err error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	data, err := fl.read()
	if err != nil {
		return
	}
	value, ok = data[key]
	return
}

func (fl *File) Set(key, value string) (err error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	data, err := fl.read()
	if err != nil {
		return
	}
	data[key] = value

	err = util.WriteConfig(data, fl.path, fl.mode)
	return
}

func (fl *File) Remove(key string) (err error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	data, err := fl.read()
	if err != nil {
		return
	}
	if _, ok := data[key]; !ok {
		return
	}
	delete(data, key)

	err = util.WriteConfig(data, fl.path, fl.mode)
	return
}

// read loads the file, a missing file reads as empty.
func (fl *File) read() (data map[string]string, err error) {

	data = map[string]string{}

	_, err = os.Stat(fl.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}

	err = util.LoadConfig(&data, fl.path)
	if data == nil {
		data = map[string]string{}
	}
	return
}
