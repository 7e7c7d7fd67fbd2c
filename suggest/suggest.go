// Package suggest offers completions for a display filter at the caret.
package suggest

import (
	"strings"

	"dfilter/alias"
	"dfilter/query"
)

// Limit caps the number of candidates offered.
const Limit = 8

// Kind classifies a candidate.
type Kind int

const (
	FieldCandidate Kind = iota
	OperatorCandidate
	KeywordCandidate
	HistoryCandidate
)

// Candidate is an offered completion.
// Literal is the text inserted, Label what is shown.
type Candidate struct {
	Label   string
	Literal string
	Kind    Kind
}

// Segment is the run of non-delimiter text ending at the caret.
// It filters candidates and is the span replaced when one is applied.
type Segment struct {
	Start int
	End   int
	Text  string
}

// ActiveSegment finds the segment ending at caret.
func ActiveSegment(text string, caret int) Segment {

	caret = clamp(caret, len(text))
	start := caret
	for start > 0 && !query.IsDelimiter(text[start-1]) {
		start--
	}

	return Segment{
		Start: start,
		End:   caret,
		Text:  text[start:caret],
	}
}

// Engine derives context and candidates.
type Engine struct {
	aliases *alias.Table
	limit   int
}

// New creates an Engine over aliases.
func New(aliases *alias.Table) Engine {
	if aliases == nil {
		aliases = alias.Default
	}
	return Engine{
		aliases: aliases,
		limit:   Limit,
	}
}

// For suggests completions for text at caret with the default alias table.
func For(text string, caret int) []Candidate {
	return New(nil).Suggest(text, caret, query.Analyze(text).Tokens)
}

// ContextAt derives the context at caret from the tokens completed before it.
func (en Engine) ContextAt(text string, caret int, tokens []query.Token) (ctx Context, seg Segment) {

	caret = clamp(caret, len(text))
	seg = ActiveSegment(text, caret)

	ctx = Field
	for _, tok := range tokens {
		if !completed(tok, caret) {
			break
		}
		ctx = advance(ctx, tok, en.aliases)
	}

	// partial field names offer the field rather than a connector
	if ctx == Field && en.aliases.HasPrefix(seg.Text) {
		ctx = Operator
	}

	return
}

// Suggest returns ranked candidates for text at caret.
// tokens are the best effort tokens of the current analysis.
func (en Engine) Suggest(text string, caret int, tokens []query.Token) []Candidate {

	ctx, seg := en.ContextAt(text, caret, tokens)

	var pool []Candidate
	switch ctx {
	case Field:
		pool = append(en.fields(), keyword("not"))
	case Operator:
		if seg.Text != "" {
			pool = prefixed(en.fields(), seg.Text)
		}
		if len(pool) == 0 {
			pool = []Candidate{operator("=="), operator("contains")}
		}
	case Value:
		return nil
	case Logical:
		pool = []Candidate{
			keyword("&&"), keyword("||"), keyword("and"), keyword("or"), keyword("not"),
		}
	}

	found := prefixed(pool, seg.Text)
	if len(found) > en.limit {
		found = found[:en.limit]
	}
	return found
}

func (en Engine) fields() []Candidate {

	entries := en.aliases.Entries()
	out := make([]Candidate, 0, len(entries))
	for _, ent := range entries {
		label := ent.Alias
		if ent.Alias != ent.Canonical {
			label = ent.Alias + " (" + ent.Canonical + ")"
		}
		out = append(out, Candidate{Label: label, Literal: ent.Alias, Kind: FieldCandidate})
	}
	return out
}

func keyword(lit string) Candidate {
	return Candidate{Label: lit, Literal: lit, Kind: KeywordCandidate}
}

func operator(lit string) Candidate {
	return Candidate{Label: lit, Literal: lit, Kind: OperatorCandidate}
}

// prefixed keeps candidates whose literal starts with prefix, ignoring case.
func prefixed(pool []Candidate, prefix string) []Candidate {

	prefix = strings.ToLower(prefix)
	out := make([]Candidate, 0, len(pool))
	for _, cand := range pool {
		if strings.HasPrefix(strings.ToLower(cand.Literal), prefix) {
			out = append(out, cand)
		}
	}
	return out
}

func clamp(pos, length int) int {
	return min(max(pos, 0), length)
}
