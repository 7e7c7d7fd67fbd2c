// Package eval matches parsed display filters against packet records.
package eval

import (
	"strings"

	"dfilter/alias"
	nt "dfilter/entity"
)

// Evaluator matches filter trees against records.
// It never fails: missing data is a non-match.
type Evaluator struct {
	aliases *alias.Table
}

// New creates an Evaluator resolving field names through aliases.
func New(aliases *alias.Table) Evaluator {
	if aliases == nil {
		aliases = alias.Default
	}
	return Evaluator{aliases: aliases}
}

// Evaluate matches node against rec using the default alias table.
func Evaluate(node nt.Node, rec nt.Record, searchable ...string) bool {
	return New(nil).Evaluate(node, rec, searchable...)
}

// Evaluate reports whether rec matches node.
// searchable optionally supplies flattened record text, tried last by bare text predicates.
// A nil node matches everything.
func (ev Evaluator) Evaluate(node nt.Node, rec nt.Record, searchable ...string) bool {

	if node == nil {
		return true
	}

	switch n := node.(type) {
	case nt.Text:
		return ev.text(n, rec, searchable)
	case nt.Comparison:
		return ev.compare(n, rec)
	case nt.And:
		left := ev.Evaluate(n.Left, rec, searchable...)
		right := ev.Evaluate(n.Right, rec, searchable...)
		return left && right
	case nt.Or:
		left := ev.Evaluate(n.Left, rec, searchable...)
		right := ev.Evaluate(n.Right, rec, searchable...)
		return left || right
	case nt.Not:
		return !ev.Evaluate(n.Operand, rec, searchable...)
	}

	return false
}

// Filter returns the records matching node, in order.
func (ev Evaluator) Filter(node nt.Node, recs []nt.Record) []nt.Record {

	matched := make([]nt.Record, 0, len(recs))
	for _, rec := range recs {
		if ev.Evaluate(node, rec) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// text tries info, then summary, then caller supplied text.
func (ev Evaluator) text(n nt.Text, rec nt.Record, searchable []string) bool {

	needle := strings.ToLower(n.Value)

	for _, key := range []string{nt.KeyInfo, nt.KeySummary} {
		val, ok := rec.Get(key)
		if ok && contains(val.String(), needle) {
			return true
		}
	}

	for _, hay := range searchable {
		if contains(hay, needle) {
			return true
		}
	}

	return false
}

func (ev Evaluator) compare(n nt.Comparison, rec nt.Record) bool {

	val, ok := ev.lookup(n.Field, rec)
	if !ok {
		return false
	}

	have := strings.ToLower(val.String())
	want := strings.ToLower(n.Value)

	switch n.Op {
	case nt.Eq:
		return have == want
	case nt.Contains:
		return strings.Contains(have, want)
	}
	return false
}

// lookup returns the first present value among the field's aliases.
// Fields outside the alias table are looked up as extension keys.
func (ev Evaluator) lookup(field string, rec nt.Record) (val nt.Value, ok bool) {

	keys, known := ev.aliases.Resolve(field)
	if !known {
		keys = []string{field}
	}

	for _, key := range keys {
		val, ok = rec.Get(key)
		if ok && val.Raw != nil {
			return
		}
	}
	return nt.Value{}, false
}

func contains(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), needle)
}
