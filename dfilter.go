// Package dfilter ties the display filter engine to a packet source and
// the remembered filter history.
package dfilter

import (
	"context"

	"github.com/pkg/errors"

	nt "dfilter/entity"
	"dfilter/eval"
	"dfilter/history"
	"dfilter/query"
	"dfilter/suggest"
)

// Source specifies where records come from.
type Source interface {
	// Name returns the name of the data source
	Name() string
	// Records returns every record of the source
	Records(ctx context.Context) (records []nt.Record, err error)
}

// Report is the outcome of checking a filter against a source.
type Report struct {
	Analysis query.Analysis
	Matched  []nt.Record
	Total    int
}

// Dfilter evaluates and suggests display filters over one source.
type Dfilter struct {
	source  Source
	history *history.Store
	eval    eval.Evaluator
	engine  suggest.Engine
	logger  nt.Logger
}

// New creates a Dfilter.
func (cfg *Config) New(source Source, hist *history.Store, lgr nt.Logger) (df *Dfilter, err error) {

	aliases, err := cfg.aliasTable()
	if err != nil {
		return
	}
	if lgr == nil {
		lgr = nt.Quiet{}
	}
	if hist == nil {
		hist = cfg.History.Config.New(nil, lgr)
	}

	df = &Dfilter{
		source:  source,
		history: hist,
		eval:    eval.New(aliases),
		engine:  suggest.New(aliases),
		logger:  lgr,
	}
	return
}

// Name returns the name of the source.
func (df *Dfilter) Name() string {
	return df.source.Name()
}

// Engine returns the suggestion engine.
func (df *Dfilter) Engine() suggest.Engine {
	return df.engine
}

// Records loads the source's records.
func (df *Dfilter) Records(ctx context.Context) (records []nt.Record, err error) {

	records, err = df.source.Records(ctx)
	if err != nil {
		err = errors.Wrapf(err, "failed to get records from %s", df.source.Name())
	}
	return
}

// Filter returns the records matching node, all of them for a nil node.
func (df *Dfilter) Filter(node nt.Node, records []nt.Record) []nt.Record {
	return df.eval.Filter(node, records)
}

// Check analyzes text and, when it is valid, runs it over the source.
func (df *Dfilter) Check(ctx context.Context, text string) (report Report, err error) {

	report.Analysis = query.Analyze(text)
	if !report.Analysis.Valid() {
		return
	}

	records, err := df.Records(ctx)
	if err != nil {
		return
	}

	report.Total = len(records)
	report.Matched = df.Filter(report.Analysis.Node, records)

	df.logger.Info(ctx, "checked filter", "filter", text, "matched", len(report.Matched), "total", report.Total)
	return
}

// Suggest returns candidates for text at caret.
func (df *Dfilter) Suggest(text string, caret int) []suggest.Candidate {
	return df.engine.Suggest(text, caret, query.Analyze(text).Tokens)
}

// Recent returns remembered filters, most recent first.
func (df *Dfilter) Recent(ctx context.Context) []string {
	return df.history.Load(ctx)
}

// Remember records a committed filter.
func (df *Dfilter) Remember(ctx context.Context, text string) (entries []string, err error) {
	return df.history.Remember(ctx, text)
}

// ClearHistory forgets all remembered filters.
func (df *Dfilter) ClearHistory(ctx context.Context) error {
	return df.history.Clear(ctx)
}
