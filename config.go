package dfilter

import (
	"os"

	"github.com/pkg/errors"

	"dfilter/alias"
	nt "dfilter/entity"
	"dfilter/history"
	"dfilter/packetpanel"
	"dfilter/store/duck"
	"dfilter/util"
)

const (
	MemoryBackend = "memory"
	FileBackend   = "file"
	DuckBackend   = "duck"
)

// Config is the viewer's yaml configuration.
type Config struct {
	Columns  []nt.Column   `yaml:"columns"`
	Filter   string        `yaml:"filter,omitempty"`
	Aliases  []alias.Group `yaml:"aliases,omitempty"`
	History  HistoryConfig `yaml:"history"`
	LogFile  string        `yaml:"log_file,omitempty"`
	MaxLen   int           `yaml:"max_len,omitempty"`
	DuckPath string        `yaml:"duck_path,omitempty"`
}

// HistoryConfig picks where remembered filters are kept.
type HistoryConfig struct {
	history.Config `yaml:",inline"`
	Backend        string `yaml:"backend"`
	Path           string `yaml:"path,omitempty"`
}

// SampleConfig is written on first run.
var SampleConfig = []byte(`# dfilter configuration
columns:
  - field: time
    width: 10
  - field: source
    title: src
    width: 20
  - field: destination
    title: dst
    width: 20
  - field: protocol
    width: 8
  - field: length
    width: 6
  - field: info
    width: 60
# filter applied at startup
filter: ""
# extra aliases for extension fields
aliases:
  - canonical: sport
    aliases: [sport, srcport]
  - canonical: dport
    aliases: [dport, dstport]
history:
  backend: file
  path: ~/.config/dfilter/history.yaml
  limit: 10
log_file: dfilter.log
max_len: 999
`)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Columns: packetpanel.DefaultColumns,
		History: HistoryConfig{
			Backend: MemoryBackend,
			Config:  history.Config{Limit: history.DefaultLimit},
		},
		MaxLen: 999,
	}
}

// LoadConfig reads the config at path over the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (cfg *Config, err error) {

	cfg = DefaultConfig()
	if path == "" {
		return
	}

	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
		return
	}

	err = util.LoadConfig(cfg, path)
	if err != nil {
		return
	}

	if len(cfg.Columns) == 0 {
		cfg.Columns = packetpanel.DefaultColumns
	}
	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.DuckPath = expandHome(cfg.DuckPath)

	_, err = cfg.aliasTable()
	return
}

// HistoryBackend creates the configured history backend.
// dk is only needed for the duck backend.
func (cfg *Config) HistoryBackend(dk *duck.Duck) (backend history.Backend, err error) {

	switch cfg.History.Backend {
	case "", MemoryBackend:
		backend = history.NewMemory()
	case FileBackend:
		if cfg.History.Path == "" {
			err = errors.Errorf("history backend %q needs a path", FileBackend)
			return
		}
		backend = history.NewFile(cfg.History.Path)
	case DuckBackend:
		if dk == nil {
			err = errors.Errorf("history backend %q needs duck_path", DuckBackend)
			return
		}
		backend = dk.KV()
	default:
		err = errors.Errorf("unknown history backend %q", cfg.History.Backend)
	}
	return
}

// unexported

func (cfg *Config) aliasTable() (*alias.Table, error) {

	if len(cfg.Aliases) == 0 {
		return alias.Default, nil
	}

	groups := append(append([]alias.Group{}, alias.DefaultGroups...), cfg.Aliases...)
	tbl, err := alias.New(groups...)
	return tbl, errors.Wrapf(err, "bad aliases in config")
}

func expandHome(path string) string {

	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
