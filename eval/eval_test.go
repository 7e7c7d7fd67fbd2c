package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"dfilter/alias"
	nt "dfilter/entity"
	"dfilter/query"
)

func rec(kv ...any) nt.Record {
	var fields []nt.Field
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, nt.Field{Name: kv[i].(string), Value: nt.Value{Raw: kv[i+1]}})
	}
	return nt.NewRecord(fields...)
}

func matches(t *testing.T, expr string, r nt.Record, searchable ...string) bool {
	t.Helper()

	node, err := query.ParseString(expr)
	require.NoError(t, err, expr)
	return Evaluate(node, r, searchable...)
}

func TestNotBindsTighterThanAnd(t *testing.T) {

	assert.True(t, matches(t, "!foo bar", rec("info", "bar only")))
	assert.False(t, matches(t, "!foo bar", rec("info", "foo bar")))
}

func TestQuotedPhrase(t *testing.T) {

	assert.True(t, matches(t, `"foo bar" baz`, rec("info", "foo bar baz")))
	assert.False(t, matches(t, `"foo bar" baz`, rec("info", "foo qux baz")))
}

func TestComparisonFoldsCase(t *testing.T) {

	assert.True(t, matches(t, `protocol == "tcp"`, rec("protocol", "TCP", "info", "x")))
	assert.True(t, matches(t, `PROTO == Tcp`, rec("protocol", "tcp")))
	assert.False(t, matches(t, `protocol == "tc"`, rec("protocol", "TCP")))
	assert.True(t, matches(t, `protocol contains "C"`, rec("protocol", "tcp")))
}

func TestAliasEquivalence(t *testing.T) {

	records := []nt.Record{
		rec("src", "10.0.0.1"),
		rec("source", "10.0.0.1"),
		rec("source", "10.0.0.2"),
		rec("info", "10.0.0.1"),
	}

	for _, r := range records {
		assert.Equal(t,
			matches(t, `src == 10.0.0.1`, r),
			matches(t, `source == 10.0.0.1`, r),
		)
	}
	assert.True(t, matches(t, `source == 10.0.0.1`, records[0]))
	assert.True(t, matches(t, `src == 10.0.0.1`, records[1]))
}

func TestAliasOrder(t *testing.T) {

	// first present alias wins, even when a later alias would match
	r := rec("len", 60, "size", 1500)
	assert.True(t, matches(t, "length == 60", r))
	assert.False(t, matches(t, "size == 1500", r))
}

func TestNumbers(t *testing.T) {

	assert.True(t, matches(t, "length == 60", rec("length", 60)))
	assert.True(t, matches(t, "len == 60", rec("length", float64(60))))
	assert.True(t, matches(t, "len contains 5", rec("length", 1500.5)))
}

func TestMissingData(t *testing.T) {

	assert.False(t, matches(t, `dst == x`, rec("info", "x")))
	assert.False(t, matches(t, `nosuch == x`, rec("info", "x")))
	assert.False(t, matches(t, `foo`, rec("protocol", "foo")))
	assert.True(t, matches(t, `!(dst == x)`, rec()))
	assert.False(t, matches(t, `dst == ""`, rec("dst", nil)))
}

func TestExtensionField(t *testing.T) {

	r := rec("SrcPort", 443, "protocol", "TCP")
	assert.True(t, matches(t, "srcport == 443", r))
	assert.False(t, matches(t, "dstport == 443", r))
}

func TestTextFallbacks(t *testing.T) {

	assert.True(t, matches(t, "hello", rec("info", "Hello world")))
	assert.True(t, matches(t, "hello", rec("info", "nope", "summary", "HELLO")))
	assert.True(t, matches(t, "hello", rec("summary", "hello")))
	assert.False(t, matches(t, "hello", rec("protocol", "hello")))
	assert.True(t, matches(t, "hello", rec("protocol", "hello"), "TCP hello 60"))
	assert.False(t, matches(t, "hello", rec(), ""))
}

func TestGroupedNegation(t *testing.T) {

	expr := `!(protocol == "udp") && (dst contains 8.8 || info contains handshake)`

	assert.True(t, matches(t, expr, rec(
		"protocol", "TCP",
		"dst", "8.8.8.8",
		"info", "TLS handshake to 8.8.8.8",
	)))
	assert.False(t, matches(t, expr, rec(
		"protocol", "udp",
		"dst", "1.1.1.1",
		"info", "UDP request",
	)))
}

func TestNilNodeMatches(t *testing.T) {

	assert.True(t, Evaluate(nil, rec()))
}

func TestFilter(t *testing.T) {

	records := []nt.Record{
		rec("protocol", "TCP", "info", "SYN"),
		rec("protocol", "UDP", "info", "query"),
		rec("protocol", "TCP", "info", "ACK"),
	}

	node, err := query.ParseString("proto == tcp")
	require.NoError(t, err)

	ev := New(alias.Default)
	got := ev.Filter(node, records)
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[0])
	assert.Equal(t, records[2], got[1])

	assert.Len(t, ev.Filter(nil, records), 3)
}

func TestCustomAliases(t *testing.T) {

	tbl := alias.MustNew(alias.Group{Canonical: "port", Aliases: []string{"port", "srcport"}})
	ev := New(tbl)

	node := nt.Comparison{Field: "port", Op: nt.Eq, Value: "53"}
	assert.True(t, ev.Evaluate(node, rec("srcport", 53)))
}

func TestReferentialTransparency(t *testing.T) {

	rapid.Check(t, func(t *rapid.T) {
		info := rapid.StringMatching(`[a-z ]{0,12}`).Draw(t, "info")
		proto := rapid.SampledFrom([]string{"TCP", "UDP", "DNS"}).Draw(t, "proto")
		expr := rapid.SampledFrom([]string{
			"a", "!a b", "proto == udp", "a || proto contains c", "(a b) || !(c)",
		}).Draw(t, "expr")

		node, err := query.ParseString(expr)
		if err != nil {
			t.Fatalf("parse %q: %v", expr, err)
		}
		r := rec("info", info, "protocol", proto)

		if Evaluate(node, r) != Evaluate(node, r) {
			t.Fatalf("%q on %v is not stable", expr, r)
		}
		if Evaluate(nt.Not{Operand: node}, r) == Evaluate(node, r) {
			t.Fatalf("negation of %q did not invert", expr)
		}
	})
}
