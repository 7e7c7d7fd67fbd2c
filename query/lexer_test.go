package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) (out []Kind) {
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return
}

func TestTokenize(t *testing.T) {

	cases := []struct {
		name  string
		expr  string
		kinds []Kind
	}{
		{"empty", "", nil},
		{"whitespace", " \t\n", nil},
		{"bare", "tcp", []Kind{Text}},
		{"parens", "(a)", []Kind{LParen, Text, RParen}},
		{"symbols", "!a && b || c", []Kind{Not, Text, And, Text, Or, Text}},
		{"keywords", "NOT a And b oR c", []Kind{Not, Text, And, Text, Or, Text}},
		{"comparison", `src == "10.0.0.1"`, []Kind{Text, Eq, Text}},
		{"contains", "info Contains syn", []Kind{Text, Contains, Text}},
		{"no spaces", "a==b&&!(c)", []Kind{Text, Eq, Text, And, Not, LParen, Text, RParen}},
		{"quoted keyword", `"and"`, []Kind{Text}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.kinds, kinds(tokens))
		})
	}
}

func TestTokenizeRanges(t *testing.T) {

	expr := `proto == 'a b' && (Foo)`
	tokens, err := Tokenize(expr)
	require.NoError(t, err)

	expected := []Token{
		{Kind: Text, Value: "proto", Start: 0, End: 5, Raw: "proto"},
		{Kind: Eq, Start: 6, End: 8, Raw: "=="},
		{Kind: Text, Value: "a b", Start: 9, End: 14, Raw: "'a b'", Quoted: true},
		{Kind: And, Start: 15, End: 17, Raw: "&&"},
		{Kind: LParen, Start: 18, End: 19, Raw: "("},
		{Kind: Text, Value: "Foo", Start: 19, End: 22, Raw: "Foo"},
		{Kind: RParen, Start: 22, End: 23, Raw: ")"},
	}
	assert.Equal(t, expected, tokens)

	for _, tok := range tokens {
		assert.Equal(t, tok.Raw, expr[tok.Start:tok.End])
	}
}

func TestTokenizeEscapes(t *testing.T) {

	tokens, err := Tokenize(`"say \"hi\"" 'it\'s' "back\\slash"`)
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, `say "hi"`, tokens[0].Value)
	assert.Equal(t, `it's`, tokens[1].Value)
	assert.Equal(t, `back\slash`, tokens[2].Value)
}

func TestTokenizeErrors(t *testing.T) {

	cases := []struct {
		name   string
		expr   string
		kind   ErrorKind
		rng    Range
		before int
	}{
		{"unterminated", `"unterminated`, UnterminatedString, Range{0, 1}, 0},
		{"unterminated later", `a 'b`, UnterminatedString, Range{2, 3}, 1},
		{"escaped close", `"abc\"`, UnterminatedString, Range{0, 1}, 0},
		{"ampersand", "a & b", UnexpectedAmpersand, Range{2, 3}, 1},
		{"pipe", "a | b", UnexpectedPipe, Range{2, 3}, 1},
		{"equals", "src = x", UnexpectedEquals, Range{4, 5}, 1},
		{"trailing ampersand", "a &", UnexpectedAmpersand, Range{2, 3}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(tc.expr)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.kind, se.Kind)
			assert.Equal(t, tc.rng, se.Range)
			assert.Len(t, tokens, tc.before)
			assert.Equal(t, tokens, se.Tokens)
			assert.True(t, se.Kind.Lexical())
		})
	}
}

func TestTokenWord(t *testing.T) {

	tokens, err := Tokenize(`src and "q" && ( not !`)
	require.NoError(t, err)

	words := []bool{}
	for _, tok := range tokens {
		words = append(words, tok.Word())
	}
	assert.Equal(t, []bool{true, true, false, false, false, true, false}, words)
}
