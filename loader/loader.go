// Package loader caches dissected captures for the life of the process.
package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"dfilter/capture"
	nt "dfilter/entity"
)

// ReadFunc dissects the capture at path.
type ReadFunc func(path string) (capture.Result, error)

// Loader loads each capture once; concurrent callers for the same path
// share the one in-flight load.
type Loader struct {
	read   ReadFunc
	group  singleflight.Group
	mu     sync.Mutex
	cache  map[string][]nt.Record
	logger nt.Logger
}

// New creates a Loader, reading with capture.ReadFile when read is nil.
func New(read ReadFunc, lgr nt.Logger) *Loader {
	if read == nil {
		read = capture.ReadFile
	}
	if lgr == nil {
		lgr = nt.Quiet{}
	}
	return &Loader{
		read:   read,
		cache:  map[string][]nt.Record{},
		logger: lgr,
	}
}

// Load returns the records for path.
// A failed load is not cached, the next call tries again.
func (ldr *Loader) Load(ctx context.Context, path string) (records []nt.Record, err error) {

	ldr.mu.Lock()
	records, ok := ldr.cache[path]
	ldr.mu.Unlock()
	if ok {
		return
	}

	ch := ldr.group.DoChan(path, func() (any, error) {
		ldr.mu.Lock()
		cached, ok := ldr.cache[path]
		ldr.mu.Unlock()
		if ok {
			return cached, nil
		}
		return ldr.load(ctx, path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]nt.Record), nil
	}
}

// Forget drops path from the cache.
func (ldr *Loader) Forget(path string) {
	ldr.mu.Lock()
	defer ldr.mu.Unlock()

	delete(ldr.cache, path)
	ldr.group.Forget(path)
}

func (ldr *Loader) load(ctx context.Context, path string) ([]nt.Record, error) {

	result, err := ldr.read(path)
	if err != nil {
		ldr.logger.Error(ctx, "failed to load capture", err, "path", path)
		return nil, err
	}

	for _, warning := range result.Warnings {
		ldr.logger.Info(ctx, "dissector warning", "path", path, "warning", warning)
	}
	for _, problem := range result.Errors {
		ldr.logger.Info(ctx, "dissector error", "path", path, "error", problem)
	}
	ldr.logger.Info(ctx, "loaded capture", "path", path, "records", len(result.Records))

	ldr.mu.Lock()
	ldr.cache[path] = result.Records
	ldr.mu.Unlock()

	return result.Records, nil
}
