package dfilter

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	nt "dfilter/entity"
	"dfilter/loader"
	"dfilter/store/duck"
)

// CaptureSource reads records from a capture file through a loader.
type CaptureSource struct {
	Path   string
	Loader *loader.Loader
}

func (src CaptureSource) Name() string {
	return filepath.Base(src.Path)
}

func (src CaptureSource) Records(ctx context.Context) ([]nt.Record, error) {
	return src.Loader.Load(ctx, src.Path)
}

// DuckSource serves a capture from duckdb, dissecting and ingesting it
// on first use.
type DuckSource struct {
	CaptureSource
	Duck   *duck.Duck
	Logger nt.Logger
}

func (src DuckSource) Records(ctx context.Context) (records []nt.Record, err error) {

	records, ok, err := src.Duck.Records(ctx, src.Path)
	if err != nil || ok {
		return
	}

	records, err = src.CaptureSource.Records(ctx)
	if err != nil {
		return
	}

	err = src.Duck.Ingest(ctx, src.Path, records)
	if err != nil {
		err = errors.Wrapf(err, "failed to ingest %s", src.Path)
		return
	}
	src.Logger.Info(ctx, "ingested capture", "path", src.Path, "records", len(records), "duck", src.Duck.Name())
	return
}

// StaticSource serves records held in memory.
type StaticSource struct {
	Label string
	Recs  []nt.Record
}

func (src StaticSource) Name() string {
	return src.Label
}

func (src StaticSource) Records(ctx context.Context) ([]nt.Record, error) {
	return src.Recs, nil
}
