package query

import "fmt"

// ErrorKind identifies a lex or parse failure.
type ErrorKind int

const (
	// lex
	UnterminatedString ErrorKind = iota
	UnexpectedAmpersand
	UnexpectedPipe
	UnexpectedEquals

	// parse
	UnexpectedToken
	ExpectedFilterTerm
	ExpectedComparisonValue
	UnmatchedParen
	UnexpectedTrailingTokens
	UnexpectedEndOfExpression
)

var errorNames = map[ErrorKind]string{
	UnterminatedString:        "UnterminatedString",
	UnexpectedAmpersand:       "UnexpectedAmpersand",
	UnexpectedPipe:            "UnexpectedPipe",
	UnexpectedEquals:          "UnexpectedEquals",
	UnexpectedToken:           "UnexpectedToken",
	ExpectedFilterTerm:        "ExpectedFilterTerm",
	ExpectedComparisonValue:   "ExpectedComparisonValue",
	UnmatchedParen:            "UnmatchedParen",
	UnexpectedTrailingTokens:  "UnexpectedTrailingTokens",
	UnexpectedEndOfExpression: "UnexpectedEndOfExpression",
}

// remedies translates error kinds into text shown under the filter bar.
var remedies = map[ErrorKind]string{
	UnterminatedString:        "missing closing quote",
	UnexpectedAmpersand:       "use && for AND",
	UnexpectedPipe:            "use || for OR",
	UnexpectedEquals:          "use == for equality",
	UnexpectedToken:           "unexpected token",
	ExpectedFilterTerm:        "expected a field, value or ( here",
	ExpectedComparisonValue:   "expected a value after the operator",
	UnmatchedParen:            "missing closing parenthesis",
	UnexpectedTrailingTokens:  "unexpected text after the end of the filter",
	UnexpectedEndOfExpression: "filter is incomplete",
}

func (kind ErrorKind) String() string {
	if name, ok := errorNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(kind))
}

// Remedy returns the user facing message for kind.
func (kind ErrorKind) Remedy() string {
	if msg, ok := remedies[kind]; ok {
		return msg
	}
	return "invalid filter"
}

// Lexical reports whether the kind is raised by the lexer.
func (kind ErrorKind) Lexical() bool {
	return kind <= UnexpectedEquals
}

// SyntaxError is a malformed filter, located by source range.
// Tokens holds what was lexed before a lex failure, or every token for a parse failure,
// so suggestions keep working on invalid input.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Range   Range
	Tokens  []Token
}

func newSyntaxError(kind ErrorKind, rng Range) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Message: kind.Remedy(),
		Range:   rng,
	}
}

func (se *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", se.Kind, se.Range.Start, se.Range.End, se.Message)
}
