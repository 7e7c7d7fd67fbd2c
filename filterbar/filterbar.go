// Package filterbar is the display filter input: editing, inline error
// highlighting and the suggestion list.
package filterbar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"dfilter/query"
	"dfilter/style"
	"dfilter/suggest"
)

const prompt = "filter › "

// Bar is a single line filter editor with suggestions.
// The selection runs from anchor to caret; it is collapsed when they are equal.
type Bar struct {
	text   string
	caret  int
	anchor int

	analysis query.Analysis
	engine   suggest.Engine

	candidates []suggest.Candidate
	pick       int
	open       bool

	recent []string
	width  int
}

// New creates a Bar holding text, with the caret at its end.
func New(engine suggest.Engine, text string) Bar {
	bar := Bar{
		engine: engine,
		text:   text,
		caret:  len(text),
		anchor: len(text),
	}
	bar.analysis = query.Analyze(text)
	return bar
}

func (bar Bar) Text() string {
	return bar.text
}

func (bar Bar) Caret() int {
	return bar.caret
}

func (bar Bar) Analysis() query.Analysis {
	return bar.analysis
}

// Open reports whether the suggestion list is showing.
func (bar Bar) Open() bool {
	return bar.open && len(bar.candidates) > 0
}

// Candidates returns the current suggestions.
func (bar Bar) Candidates() []suggest.Candidate {
	return bar.candidates
}

// Picked returns the highlighted suggestion index.
func (bar Bar) Picked() int {
	return bar.pick
}

func (bar Bar) Init() tea.Cmd {
	return nil
}

func (bar Bar) Update(msg tea.Msg) (Bar, tea.Cmd) {
	switch msg := msg.(type) {

	case SizeMsg:
		bar.width = msg.Width

	case RecentMsg:
		bar.recent = msg.Entries
		bar = bar.suggest()

	case tea.KeyPressMsg:
		return bar.handleKey(msg.String(), msg.Text)
	}

	return bar, nil
}

// handleKey applies one key press; text is the printable input, if any.
func (bar Bar) handleKey(key, text string) (Bar, tea.Cmd) {

	switch key {
	case "up":
		if bar.Open() {
			bar.pick = (bar.pick - 1 + len(bar.candidates)) % len(bar.candidates)
		}
		return bar, nil

	case "down":
		if bar.Open() {
			bar.pick = (bar.pick + 1) % len(bar.candidates)
		}
		return bar, nil

	case "tab":
		if bar.Open() {
			return bar.apply()
		}
		bar.open = true
		return bar.suggest(), nil

	case "ctrl+space":
		bar.open = true
		return bar.suggest(), nil

	case "enter":
		if bar.Open() {
			return bar.apply()
		}
		if bar.analysis.Valid() && !bar.analysis.Blank() {
			committed := bar.text
			return bar, func() tea.Msg { return CommitMsg{Text: committed} }
		}
		return bar, nil

	case "esc":
		bar.open = false
		return bar, nil

	case "left":
		bar.caret = bar.prevRune(bar.caret)
		bar.anchor = bar.caret
	case "right":
		bar.caret = bar.nextRune(bar.caret)
		bar.anchor = bar.caret
	case "shift+left":
		bar.caret = bar.prevRune(bar.caret)
	case "shift+right":
		bar.caret = bar.nextRune(bar.caret)
	case "home", "ctrl+a":
		bar.caret, bar.anchor = 0, 0
	case "end", "ctrl+e":
		bar.caret, bar.anchor = len(bar.text), len(bar.text)

	case "backspace":
		if bar.selected() {
			return bar.replace("")
		}
		bar.anchor = bar.prevRune(bar.caret)
		return bar.replace("")

	case "delete":
		if bar.selected() {
			return bar.replace("")
		}
		bar.anchor = bar.nextRune(bar.caret)
		return bar.replace("")

	case "ctrl+u":
		bar.caret, bar.anchor = len(bar.text), 0
		return bar.replace("")

	case "space":
		return bar.replace(" ")

	default:
		if text != "" && utf8.ValidString(text) && !strings.ContainsAny(text, "\r\n\t") {
			return bar.replace(text)
		}
		return bar, nil
	}

	return bar.suggest(), nil
}

// Render returns the bar, error line included.
func (bar Bar) Render() string {

	barStyle := style.ValidBarStyle
	if bar.analysis.Err != nil {
		barStyle = style.InvalidBarStyle
	}
	if bar.width > 0 {
		barStyle = barStyle.Width(bar.width)
	}

	line := style.PromptStyle.Render(prompt) + bar.renderText()
	out := barStyle.Render(line)

	if se := bar.analysis.Err; se != nil {
		col := utf8.RuneCountInString(bar.text[:se.Range.Start]) + 1
		out += "\n" + style.ErrorTextStyle.Render(fmt.Sprintf("%s (col %d)", se.Message, col))
	}
	return out
}

// RenderPopup returns the suggestion list, empty when closed.
func (bar Bar) RenderPopup() string {

	if !bar.Open() {
		return ""
	}

	lines := make([]string, len(bar.candidates))
	for idx, cand := range bar.candidates {
		if idx == bar.pick {
			lines[idx] = style.PickStyle.Render(cand.Label)
			continue
		}
		lines[idx] = cand.Label
	}
	return style.PopupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// PopupColumn is the screen column the popup lines up with.
func (bar Bar) PopupColumn() int {
	seg := suggest.ActiveSegment(bar.text, bar.caret)
	return lipgloss.Width(prompt) + utf8.RuneCountInString(bar.text[:seg.Start])
}

// unexported

func (bar Bar) selected() bool {
	return bar.anchor != bar.caret
}

func (bar Bar) selection() suggest.Selection {
	return suggest.Selection{Start: bar.anchor, End: bar.caret}
}

// replace swaps the selection for insert and re-analyzes.
func (bar Bar) replace(insert string) (Bar, tea.Cmd) {

	start, end := min(bar.anchor, bar.caret), max(bar.anchor, bar.caret)
	bar.text = bar.text[:start] + insert + bar.text[end:]
	bar.caret = start + len(insert)
	bar.anchor = bar.caret
	bar.open = true

	return bar.changed()
}

// apply inserts the highlighted candidate.
func (bar Bar) apply() (Bar, tea.Cmd) {

	cand := bar.candidates[bar.pick]
	if cand.Kind == suggest.HistoryCandidate {
		bar.text = cand.Literal
		bar.caret = len(bar.text)
	} else {
		bar.text, bar.caret = suggest.Apply(cand, bar.text, bar.selection())
	}
	bar.anchor = bar.caret

	return bar.changed()
}

func (bar Bar) changed() (Bar, tea.Cmd) {

	bar.analysis = query.Analyze(bar.text)
	bar = bar.suggest()

	msg := ChangedMsg{Text: bar.text, Analysis: bar.analysis}
	return bar, func() tea.Msg { return msg }
}

// suggest recomputes candidates for the caret, offering remembered
// filters while the bar is blank.
func (bar Bar) suggest() Bar {

	if strings.TrimSpace(bar.text) == "" && len(bar.recent) > 0 {
		bar.candidates = make([]suggest.Candidate, 0, len(bar.recent))
		for _, entry := range bar.recent {
			bar.candidates = append(bar.candidates, suggest.Candidate{
				Label:   entry,
				Literal: entry,
				Kind:    suggest.HistoryCandidate,
			})
		}
	} else {
		bar.candidates = bar.engine.Suggest(bar.text, bar.caret, bar.analysis.Tokens)
	}

	if bar.pick >= len(bar.candidates) {
		bar.pick = 0
	}
	return bar
}

func (bar Bar) prevRune(pos int) int {
	if pos <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(bar.text[:pos])
	return pos - size
}

func (bar Bar) nextRune(pos int) int {
	if pos >= len(bar.text) {
		return len(bar.text)
	}
	_, size := utf8.DecodeRuneInString(bar.text[pos:])
	return pos + size
}

// renderText styles the caret, the selection and the error range.
func (bar Bar) renderText() string {

	var errRng *query.Range
	if se := bar.analysis.Err; se != nil {
		errRng = &se.Range
	}
	selStart, selEnd := min(bar.anchor, bar.caret), max(bar.anchor, bar.caret)

	var out strings.Builder
	for idx, rn := range bar.text {
		st := style.UnStyle
		switch {
		case idx == bar.caret:
			st = style.CaretStyle
		case idx >= selStart && idx < selEnd:
			st = style.PickStyle
		case errRng != nil && idx >= errRng.Start && idx < errRng.End:
			st = style.ErrorSpanStyle
		}
		out.WriteString(st.Render(string(rn)))
	}

	if bar.caret == len(bar.text) {
		out.WriteString(style.CaretStyle.Render(" "))
	}
	if errRng != nil && errRng.Start == errRng.End && errRng.Start == len(bar.text) {
		out.WriteString(style.ErrorSpanStyle.Render("⌷"))
	}
	return out.String()
}
