package suggest

import (
	"fmt"

	"dfilter/alias"
	"dfilter/query"
)

// Context is what the caret position expects next.
type Context int

const (
	Field Context = iota
	Operator
	Value
	Logical
)

func (ctx Context) String() string {
	switch ctx {
	case Field:
		return "field"
	case Operator:
		return "operator"
	case Value:
		return "value"
	case Logical:
		return "logical"
	}
	return fmt.Sprintf("Context(%d)", int(ctx))
}

// advance steps the context past one completed token.
// Pairs missing from the table leave the context unchanged.
func advance(ctx Context, tok query.Token, aliases *alias.Table) Context {

	switch ctx {
	case Field:
		switch tok.Kind {
		case query.Text:
			if aliases.IsAlias(tok.Value) || aliases.HasPrefix(tok.Value) {
				return Operator
			}
			return Logical
		case query.Not, query.LParen:
			return Field
		case query.RParen:
			return Logical
		}

	case Operator:
		switch tok.Kind {
		case query.Eq, query.Contains:
			return Value
		case query.Text:
			return Logical
		}

	case Value:
		switch tok.Kind {
		case query.Text:
			return Logical
		case query.LParen:
			return Field
		}

	case Logical:
		switch tok.Kind {
		case query.And, query.Or, query.Not:
			return Field
		case query.RParen:
			return Logical
		}
	}

	return ctx
}

// completed reports whether tok is finished as seen from caret.
// An unquoted word touching the caret is still being typed.
func completed(tok query.Token, caret int) bool {
	if tok.End < caret {
		return true
	}
	return tok.End == caret && !tok.Word()
}
