// Package history keeps the most recently committed display filters.
package history

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	nt "dfilter/entity"
	"dfilter/query"
)

const (
	DefaultKey   = "dfilter.recent-filters"
	DefaultLimit = 10
)

// ErrInvalidFilter is returned when remembering text that does not parse.
var ErrInvalidFilter = errors.New("filter is not valid")

// Backend specifies a key-value persistence backend.
type Backend interface {
	// Get returns the value for key, ok is false when absent
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key
	Set(key, value string) (err error)
	// Remove deletes key
	Remove(key string) (err error)
}

// Config configures a Store.
type Config struct {
	Key   string `yaml:"key,omitempty"`
	Limit int    `yaml:"limit,omitempty"`
}

// Store is a bounded, deduplicated, most-recent-first list of filters.
// Each read-modify-write happens under one lock.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	key      string
	limit    int
	session  []string
	degraded bool
	logger   nt.Logger
}

// New creates a Store.
// A nil backend keeps history in memory for the session.
func (cfg *Config) New(backend Backend, lgr nt.Logger) *Store {

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if backend == nil {
		backend = NewMemory()
	}
	if lgr == nil {
		lgr = nt.Quiet{}
	}

	return &Store{
		backend: backend,
		key:     key,
		limit:   limit,
		logger:  lgr,
	}
}

// Load returns remembered filters, most recent first.
func (st *Store) Load(ctx context.Context) []string {

	st.mu.Lock()
	defer st.mu.Unlock()

	return append([]string(nil), st.load(ctx)...)
}

// Remember records a committed filter and returns the updated list.
// Blank text is ignored.
func (st *Store) Remember(ctx context.Context, value string) (entries []string, err error) {

	value = strings.TrimSpace(value)
	if value == "" {
		return st.Load(ctx), nil
	}
	if an := query.Analyze(value); an.Err != nil {
		err = errors.Wrapf(ErrInvalidFilter, "cannot remember %q", value)
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	current := st.load(ctx)

	entries = make([]string, 0, len(current)+1)
	entries = append(entries, value)
	for _, entry := range current {
		if entry != value {
			entries = append(entries, entry)
		}
	}
	if len(entries) > st.limit {
		entries = entries[:st.limit]
	}

	st.save(ctx, entries)
	return append([]string(nil), entries...), nil
}

// Clear forgets all filters.
func (st *Store) Clear(ctx context.Context) (err error) {

	st.mu.Lock()
	defer st.mu.Unlock()

	st.session = nil
	if st.degraded {
		return
	}

	err = st.backend.Remove(st.key)
	if err != nil {
		err = errors.Wrapf(err, "failed to clear history")
		st.fallback(ctx, err)
	}
	return
}

// unexported

func (st *Store) load(ctx context.Context) []string {

	if st.degraded {
		return st.session
	}

	data, ok, err := st.backend.Get(st.key)
	if err != nil {
		st.fallback(ctx, errors.Wrapf(err, "failed to get history"))
		return st.session
	}
	if !ok {
		return nil
	}

	var entries []string
	err = yaml.Unmarshal([]byte(data), &entries)
	if err != nil {
		st.logger.Error(ctx, "discarding unreadable history", err, "key", st.key)
		return nil
	}

	if len(entries) > st.limit {
		entries = entries[:st.limit]
	}
	st.session = entries
	return entries
}

func (st *Store) save(ctx context.Context, entries []string) {

	st.session = entries
	if st.degraded {
		return
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		st.fallback(ctx, errors.Wrapf(err, "failed to marshal history"))
		return
	}

	err = st.backend.Set(st.key, string(data))
	if err != nil {
		st.fallback(ctx, errors.Wrapf(err, "failed to set history"))
	}
}

// fallback switches to session memory after a backend failure.
func (st *Store) fallback(ctx context.Context, err error) {
	st.degraded = true
	st.logger.Error(ctx, "history backend failed, keeping history in memory", err, "key", st.key)
}
