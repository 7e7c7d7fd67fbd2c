package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfilter/query"
)

func literals(cands []Candidate) (out []string) {
	for _, cand := range cands {
		out = append(out, cand.Literal)
	}
	return
}

func contextOf(text string, caret int) Context {
	ctx, _ := New(nil).ContextAt(text, caret, query.Analyze(text).Tokens)
	return ctx
}

func TestActiveSegment(t *testing.T) {

	assert.Equal(t, Segment{Start: 0, End: 3, Text: "pro"}, ActiveSegment("pro", 3))
	assert.Equal(t, Segment{Start: 0, End: 3, Text: "pro"}, ActiveSegment("protocol", 3))
	assert.Equal(t, Segment{Start: 4, End: 4, Text: ""}, ActiveSegment("src ", 4))
	assert.Equal(t, Segment{Start: 3, End: 5, Text: "ds"}, ActiveSegment("a&&ds", 5))
	assert.Equal(t, Segment{Start: 2, End: 4, Text: "in"}, ActiveSegment("!(in", 99))
	assert.Equal(t, Segment{Start: 0, End: 0, Text: ""}, ActiveSegment("abc", -4))
}

func TestContext(t *testing.T) {

	cases := []struct {
		text  string
		caret int
		ctx   Context
	}{
		{"", 0, Field},
		{"pro", 3, Operator},
		{"xyz", 3, Field},
		{"src ", 4, Operator},
		{"src == ", 7, Value},
		{"src contains ", 13, Value},
		{"src == 1.2.3.4 ", 15, Logical},
		{"tcp ", 4, Logical},
		{"tcp && ", 7, Field},
		{"tcp or ", 7, Field},
		{"(", 1, Field},
		{"!", 1, Field},
		{"not ", 4, Field},
		{"(tcp) ", 6, Logical},
		{"tcp ! ", 6, Field},
		{"src == (", 8, Field},
		{"src tcp ", 8, Logical},
		{"tcp an", 6, Logical},
		{`src == "abc`, 11, Value},
		{"tcp && src == x", 7, Field},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ctx, contextOf(tc.text, tc.caret), "%q at %d", tc.text, tc.caret)
	}
}

func TestSuggestPartialField(t *testing.T) {

	cands := For("pro", 3)
	require.NotEmpty(t, cands)
	assert.Equal(t, "protocol", cands[0].Label)
	assert.Equal(t, []string{"protocol", "proto"}, literals(cands))
	assert.Equal(t, "proto (protocol)", cands[1].Label)
	assert.Equal(t, FieldCandidate, cands[0].Kind)
}

func TestSuggestField(t *testing.T) {

	cands := For("", 0)
	assert.Len(t, cands, Limit)
	assert.Equal(t, "src", cands[0].Label)
	assert.Equal(t, "source (src)", cands[1].Label)

	assert.Equal(t, []string{"not"}, literals(For("tcp && n", 8)))
	assert.Empty(t, For("tcp && xq", 9))
}

func TestSuggestOperator(t *testing.T) {

	assert.Equal(t, []string{"==", "contains"}, literals(For("src ", 4)))
	assert.Equal(t, []string{"contains"}, literals(For("src c", 5)))
	assert.Equal(t, []string{"destination"}, literals(For("dst de", 6)))
}

func TestSuggestValue(t *testing.T) {

	assert.Empty(t, For("src == ", 7))
	assert.Empty(t, For("src == 10", 9))
}

func TestSuggestLogical(t *testing.T) {

	assert.Equal(t, []string{"&&", "||", "and", "or", "not"}, literals(For("tcp ", 4)))
	assert.Equal(t, []string{"and"}, literals(For("tcp a", 5)))
	assert.Equal(t, []string{"or"}, literals(For("(tcp) O", 7)))
}

func TestSuggestOnInvalidInput(t *testing.T) {

	// lexing stops at the stray ampersand, earlier tokens still drive context
	text := "src == x & "
	assert.NotNil(t, query.Analyze(text).Err)
	assert.Equal(t, []string{"&&", "||", "and", "or", "not"}, literals(For(text, len(text))))
}

func TestApply(t *testing.T) {

	cases := []struct {
		name  string
		text  string
		sel   Selection
		lit   string
		out   string
		caret int
	}{
		{"replace segment", "pro", Caret(3), "protocol", "protocol ", 8},
		{"empty segment", "src ", Caret(4), "==", "src == ", 6},
		{"before delimiter", "(pro)", Caret(4), "protocol", "(protocol)", 9},
		{"keeps tail", "pro tcp", Caret(3), "protocol", "protocol tcp", 8},
		{"mid word", "protocol", Caret(3), "proto", "proto tocol", 5},
		{"after paren", "(", Caret(1), "src", "(src ", 4},
		{"after negation", "!", Caret(1), "src", "!src ", 4},
		{"selection", "tcp udp", Selection{Start: 4, End: 7}, "dns", "tcp dns ", 7},
		{"reversed selection", "tcp udp", Selection{Start: 7, End: 4}, "dns", "tcp dns ", 7},
		{"selection inside word", "abcdef", Selection{Start: 2, End: 4}, "xy", "ab xy ef", 5},
		{"caret past end", "tc", Caret(50), "tcp", "tcp ", 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, caret := Apply(Candidate{Literal: tc.lit}, tc.text, tc.sel)
			assert.Equal(t, tc.out, out)
			assert.Equal(t, tc.caret, caret)
		})
	}
}
