// Package packetpanel shows the records that pass the filter as a table.
package packetpanel

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2/table"

	nt "dfilter/entity"
	"dfilter/style"
)

const (
	headerHeight = 2 // Header row + separator line
)

// DefaultColumns are shown when none are configured.
var DefaultColumns = []nt.Column{
	{Field: nt.KeyTime, Width: 10},
	{Field: nt.KeySource, Width: 20},
	{Field: nt.KeyDestination, Width: 20},
	{Field: nt.KeyProtocol, Width: 8},
	{Field: nt.KeyLength, Width: 6},
	{Field: nt.KeyInfo, Width: 60},
}

// SizeMsg signals panel size computed by the layout.
type SizeMsg struct {
	Width  int
	Height int
}

// Panel handles the packet list display and navigation state
type Panel struct {
	Selected int // Absolute position of the selected record
	Offset   int // First record shown
	Focused  bool

	records []nt.Record
	columns []nt.Column
	width   int
	height  int

	table *table.Table
}

func New(columns []nt.Column) Panel {

	if len(columns) == 0 {
		columns = DefaultColumns
	}

	tbl := table.New()
	style.StyleTable(tbl)

	pnl := Panel{
		Focused: true,
		columns: columns,
		table:   tbl,
	}

	var headers []string
	for _, col := range pnl.columns {
		if col.Hidden {
			continue
		}
		headers = append(headers, fmt.Sprintf("%-*s", col.Width+1, col.Header()))
	}
	pnl.table.Headers(headers...)

	return pnl
}

// SetRecords replaces the records shown, keeping the selection in range.
func (pnl Panel) SetRecords(records []nt.Record) Panel {

	pnl.records = records
	if pnl.Selected >= len(records) {
		pnl.Selected = max(0, len(records)-1)
	}
	pnl.Offset = min(pnl.Offset, pnl.Selected)
	return pnl
}

// Len is the number of records shown.
func (pnl Panel) Len() int {
	return len(pnl.records)
}

// Selection returns the selected record.
func (pnl Panel) Selection() (rec nt.Record, ok bool) {
	if pnl.Selected < 0 || pnl.Selected >= len(pnl.records) {
		return
	}
	return pnl.records[pnl.Selected], true
}

func (pnl Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height
		pnl = pnl.follow()

	case tea.KeyPressMsg:

		if !pnl.Focused || len(pnl.records) == 0 {
			return pnl, nil
		}

		last := len(pnl.records) - 1
		switch msg.String() {
		case "up":
			pnl.Selected = max(pnl.Selected-1, 0)
		case "down":
			pnl.Selected = min(pnl.Selected+1, last)
		case "pgup":
			pnl.Selected = max(pnl.Selected-pnl.pageSize(), 0)
		case "pgdown":
			pnl.Selected = min(pnl.Selected+pnl.pageSize(), last)
		case "ctrl+home":
			pnl.Selected = 0
		case "ctrl+end":
			pnl.Selected = last
		}
		pnl = pnl.follow()
	}

	return pnl, nil
}

// Render renders the visible page of the table
func (pnl Panel) Render() string {

	selected := pnl.Selected - pnl.Offset
	pnl.table.StyleFunc(style.RowStyler(selected))

	pnl.table.ClearRows()
	end := min(pnl.Offset+pnl.pageSize(), len(pnl.records))
	for _, rec := range pnl.records[pnl.Offset:end] {
		var row []string
		for _, col := range pnl.columns {
			if col.Hidden {
				continue
			}
			val, _ := rec.Get(col.Field)
			row = append(row, truncate(val.String(), col.Width))
		}
		pnl.table.Row(row...)
	}

	return pnl.table.Render()
}

// unexported

// pageSize returns the number of rows that fit on screen
func (pnl Panel) pageSize() int {
	return max(pnl.height-headerHeight, 1)
}

// follow adjusts Offset to keep the selected row visible
func (pnl Panel) follow() Panel {

	pageSize := pnl.pageSize()
	if pnl.Selected < pnl.Offset {
		pnl.Offset = pnl.Selected
	} else if pnl.Selected >= pnl.Offset+pageSize {
		pnl.Offset = pnl.Selected - pageSize + 1
	}
	return pnl
}

func truncate(in string, width int) string {

	runes := []rune(in)
	if width < 1 || len(runes) <= width {
		return in
	}

	return string(runes[:width-1]) + style.MutedStyle.Render("…")
}
