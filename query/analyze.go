package query

import (
	"strings"

	"github.com/pkg/errors"

	nt "dfilter/entity"
)

// Analysis is the outcome of one pass over the filter text.
// Node and Err are both nil for a blank filter, which matches everything.
type Analysis struct {
	Tokens []Token
	Node   nt.Node
	Err    *SyntaxError
}

// Valid reports whether the text parsed, blank text included.
func (an Analysis) Valid() bool {
	return an.Err == nil
}

// Blank reports whether no filter is active.
func (an Analysis) Blank() bool {
	return an.Node == nil && an.Err == nil
}

// Analyze lexes and parses text, returning failures as values.
// Tokens are best effort: they are kept on error so suggestions still work.
func Analyze(text string) (an Analysis) {

	if strings.TrimSpace(text) == "" {
		return
	}

	tokens, err := Tokenize(text)
	an.Tokens = tokens
	if err != nil {
		an.Err = asSyntaxError(err, tokens)
		return
	}

	node, err := Parse(tokens, len(text))
	if err != nil {
		an.Err = asSyntaxError(err, tokens)
		return
	}

	an.Node = node
	return
}

func asSyntaxError(err error, tokens []Token) *SyntaxError {

	var se *SyntaxError
	if !errors.As(err, &se) {
		se = newSyntaxError(UnexpectedToken, Range{})
		se.Message = err.Error()
	}
	if se.Tokens == nil {
		se.Tokens = tokens
	}
	return se
}
