package suggest

import "dfilter/query"

// Selection is the editor selection; collapsed when Start equals End.
type Selection struct {
	Start int
	End   int
}

// Caret returns a collapsed selection at pos.
func Caret(pos int) Selection {
	return Selection{Start: pos, End: pos}
}

// Apply inserts cand into text, replacing the selection when one is made,
// otherwise the active segment at the caret.
// The literal is padded with spaces so it does not run into its neighbours,
// and the returned caret sits right after the literal.
func Apply(cand Candidate, text string, sel Selection) (newText string, caret int) {

	start := clamp(min(sel.Start, sel.End), len(text))
	end := clamp(max(sel.Start, sel.End), len(text))
	if start == end {
		seg := ActiveSegment(text, end)
		start = seg.Start
	}

	before, after := text[:start], text[end:]

	lead := ""
	if before != "" && !query.IsDelimiter(before[len(before)-1]) {
		lead = " "
	}
	trail := " "
	if after != "" && query.IsDelimiter(after[0]) {
		trail = ""
	}

	newText = before + lead + cand.Literal + trail + after
	caret = len(before) + len(lead) + len(cand.Literal)
	return
}
