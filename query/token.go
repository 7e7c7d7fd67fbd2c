// Package query lexes, parses and diagnoses display filter expressions.
package query

import "fmt"

// Kind classifies a token.
type Kind int

const (
	LParen Kind = iota
	RParen
	And
	Or
	Not
	Eq
	Contains
	Text
)

var kindNames = map[Kind]string{
	LParen:   "LPAREN",
	RParen:   "RPAREN",
	And:      "AND",
	Or:       "OR",
	Not:      "NOT",
	Eq:       "EQ",
	Contains: "CONTAINS",
	Text:     "TEXT",
}

func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(kind))
}

// Range is a half-open byte range [Start, End) into the filter text.
type Range struct {
	Start int
	End   int
}

// Token is a classified slice of filter text.
// Value is set for Text tokens only and holds the unquoted, unescaped content.
type Token struct {
	Kind   Kind
	Value  string
	Start  int
	End    int
	Raw    string
	Quoted bool
}

// Range returns the token's source range.
func (tok Token) Range() Range {
	return Range{Start: tok.Start, End: tok.End}
}

// Word reports whether the token is an unquoted run of text, which may still
// be growing while the user types.
func (tok Token) Word() bool {
	switch tok.Kind {
	case Text:
		return !tok.Quoted
	case And, Or, Not, Contains:
		return tok.Raw != "" && !IsDelimiter(tok.Raw[0])
	}
	return false
}

// IsDelimiter reports whether ch ends an unquoted run of text.
func IsDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '&', '|', '!', '=':
		return true
	}
	return isSpace(ch)
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
