package query

import (
	"strings"
	"unicode/utf8"
)

var keywords = map[string]Kind{
	"and":      And,
	"or":       Or,
	"not":      Not,
	"contains": Contains,
}

// Tokenize splits a filter expression into tokens.
// On failure the tokens lexed so far are returned with a *SyntaxError.
func Tokenize(expr string) (tokens []Token, err error) {

	lx := &lexer{src: expr}
	se := lx.run()
	if se != nil {
		se.Tokens = lx.tokens
		return lx.tokens, se
	}

	return lx.tokens, nil
}

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

func (lx *lexer) run() *SyntaxError {

	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]

		switch {
		case isSpace(ch):
			lx.pos++
		case ch == '(':
			lx.emit(LParen, 1)
		case ch == ')':
			lx.emit(RParen, 1)
		case ch == '!':
			lx.emit(Not, 1)
		case ch == '&':
			if !lx.pair('&') {
				return lx.fail(UnexpectedAmpersand)
			}
			lx.emit(And, 2)
		case ch == '|':
			if !lx.pair('|') {
				return lx.fail(UnexpectedPipe)
			}
			lx.emit(Or, 2)
		case ch == '=':
			if !lx.pair('=') {
				return lx.fail(UnexpectedEquals)
			}
			lx.emit(Eq, 2)
		case ch == '"' || ch == '\'':
			if se := lx.quoted(ch); se != nil {
				return se
			}
		default:
			lx.word()
		}
	}

	return nil
}

// pair reports whether the current char is doubled.
func (lx *lexer) pair(ch byte) bool {
	return lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == ch
}

func (lx *lexer) emit(kind Kind, width int) {
	end := lx.pos + width
	lx.tokens = append(lx.tokens, Token{
		Kind:  kind,
		Start: lx.pos,
		End:   end,
		Raw:   lx.src[lx.pos:end],
	})
	lx.pos = end
}

func (lx *lexer) fail(kind ErrorKind) *SyntaxError {
	return newSyntaxError(kind, Range{Start: lx.pos, End: lx.pos + 1})
}

// quoted lexes a quoted string; a backslash escapes the next character.
// An unclosed quote is reported at the opening quote.
func (lx *lexer) quoted(quote byte) *SyntaxError {

	start := lx.pos
	var val strings.Builder

	for idx := start + 1; idx < len(lx.src); {
		ch := lx.src[idx]

		switch {
		case ch == '\\' && idx+1 < len(lx.src):
			_, size := utf8.DecodeRuneInString(lx.src[idx+1:])
			val.WriteString(lx.src[idx+1 : idx+1+size])
			idx += 1 + size
		case ch == '\\':
			idx++
		case ch == quote:
			lx.tokens = append(lx.tokens, Token{
				Kind:   Text,
				Value:  val.String(),
				Start:  start,
				End:    idx + 1,
				Raw:    lx.src[start : idx+1],
				Quoted: true,
			})
			lx.pos = idx + 1
			return nil
		default:
			val.WriteByte(ch)
			idx++
		}
	}

	lx.pos = start
	return lx.fail(UnterminatedString)
}

// word lexes an unquoted run, classifying keywords case-insensitively.
func (lx *lexer) word() {

	start := lx.pos
	for lx.pos < len(lx.src) && !IsDelimiter(lx.src[lx.pos]) {
		lx.pos++
	}
	raw := lx.src[start:lx.pos]

	tok := Token{
		Kind:  Text,
		Value: raw,
		Start: start,
		End:   lx.pos,
		Raw:   raw,
	}
	if kind, ok := keywords[strings.ToLower(raw)]; ok {
		tok.Kind = kind
		tok.Value = ""
	}

	lx.tokens = append(lx.tokens, tok)
}
