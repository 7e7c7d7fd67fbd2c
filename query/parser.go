package query

import (
	"strings"

	nt "dfilter/entity"
)

// Parse builds a filter tree from tokens.
// length is the length of the source text, used to locate errors at end of input.
//
// Grammar, lowest precedence first:
//
//	Expr    := Or
//	Or      := And (OR And)*
//	And     := Not ((AND)? Not)*
//	Not     := NOT Not | Primary
//	Primary := TEXT | TEXT (EQ|CONTAINS) TEXT | LPAREN Expr RPAREN
//
// Juxtaposed terms are joined with an implicit AND.
func Parse(tokens []Token, length int) (node nt.Node, err error) {

	psr := &parser{
		tokens: tokens,
		length: length,
	}

	node, se := psr.parseOr()
	if se != nil {
		se.Tokens = tokens
		return nil, se
	}

	if tok, ok := psr.peek(); ok {
		se = newSyntaxError(UnexpectedTrailingTokens, tok.Range())
		se.Tokens = tokens
		return nil, se
	}

	return node, nil
}

// ParseString tokenizes and parses expr.
func ParseString(expr string) (nt.Node, error) {

	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, len(expr))
}

type parser struct {
	tokens []Token
	pos    int
	length int
}

func (psr *parser) peek() (tok Token, ok bool) {
	if psr.pos >= len(psr.tokens) {
		return
	}
	return psr.tokens[psr.pos], true
}

func (psr *parser) advance() Token {
	tok := psr.tokens[psr.pos]
	psr.pos++
	return tok
}

// expect consumes a token of kind, or reports where it was expected.
func (psr *parser) expect(kind Kind, missing ErrorKind) (tok Token, se *SyntaxError) {
	tok, ok := psr.peek()
	if !ok {
		return tok, newSyntaxError(missing, psr.eof())
	}
	if tok.Kind != kind {
		return tok, newSyntaxError(missing, tok.Range())
	}
	return psr.advance(), nil
}

func (psr *parser) eof() Range {
	return Range{Start: psr.length, End: psr.length}
}

func (psr *parser) parseOr() (nt.Node, *SyntaxError) {

	left, se := psr.parseAnd()
	if se != nil {
		return nil, se
	}

	for {
		tok, ok := psr.peek()
		if !ok || tok.Kind != Or {
			return left, nil
		}
		psr.advance()

		right, se := psr.parseAnd()
		if se != nil {
			return nil, se
		}
		left = nt.Or{Left: left, Right: right}
	}
}

func (psr *parser) parseAnd() (nt.Node, *SyntaxError) {

	left, se := psr.parseNot()
	if se != nil {
		return nil, se
	}

	for {
		tok, ok := psr.peek()
		if !ok {
			return left, nil
		}

		switch tok.Kind {
		case And:
			psr.advance()
		case Text, LParen, Not:
			// implicit connector
		default:
			return left, nil
		}

		right, se := psr.parseNot()
		if se != nil {
			return nil, se
		}
		left = nt.And{Left: left, Right: right}
	}
}

func (psr *parser) parseNot() (nt.Node, *SyntaxError) {

	tok, ok := psr.peek()
	if ok && tok.Kind == Not {
		psr.advance()

		operand, se := psr.parseNot()
		if se != nil {
			return nil, se
		}
		return nt.Not{Operand: operand}, nil
	}

	return psr.parsePrimary()
}

func (psr *parser) parsePrimary() (nt.Node, *SyntaxError) {

	tok, ok := psr.peek()
	if !ok {
		return nil, newSyntaxError(UnexpectedEndOfExpression, psr.eof())
	}

	switch tok.Kind {
	case Text:
		psr.advance()
		return psr.parseComparison(tok)

	case LParen:
		psr.advance()

		inner, se := psr.parseOr()
		if se != nil {
			return nil, se
		}
		if _, se = psr.expect(RParen, UnmatchedParen); se != nil {
			return nil, se
		}
		return inner, nil

	case RParen, And, Or, Eq, Contains:
		return nil, newSyntaxError(ExpectedFilterTerm, tok.Range())
	}

	return nil, newSyntaxError(UnexpectedToken, tok.Range())
}

// parseComparison turns a field token into a comparison when an operator follows,
// otherwise into a bare text predicate.
func (psr *parser) parseComparison(field Token) (nt.Node, *SyntaxError) {

	opTok, ok := psr.peek()
	if !ok || (opTok.Kind != Eq && opTok.Kind != Contains) {
		return nt.Text{Value: strings.ToLower(field.Value)}, nil
	}
	psr.advance()

	val, ok := psr.peek()
	if !ok || val.Kind != Text {
		return nil, newSyntaxError(ExpectedComparisonValue, opTok.Range())
	}
	psr.advance()

	op := nt.Eq
	if opTok.Kind == Contains {
		op = nt.Contains
	}

	return nt.Comparison{
		Field: strings.ToLower(field.Value),
		Op:    op,
		Value: val.Value,
	}, nil
}
