package style

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	TableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Subtle warm grey border
	HlRowStyle       = lipgloss.NewStyle().Background(lipgloss.Color("235")) // Very subtle warm grey row
	MutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("246")) // Warm muted grey text
	UnStyle          = lipgloss.NewStyle()

	PromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	CaretStyle     = lipgloss.NewStyle().Reverse(true)
	ErrorSpanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Underline(true)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	ValidBarStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("65")) // Green rule under a valid filter
	InvalidBarStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("203"))

	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	PickStyle = lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true)
)

// RowStyler returns a StyleFunc that highlights the selected row
func RowStyler(selectedRow int) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row == selectedRow {
			return HlRowStyle
		}
		return UnStyle
	}
}

// StyleTable applies consistent table styling for borders and separators
func StyleTable(tbl *table.Table) {
	tbl.Border(lipgloss.Border{
		Top:         "─", // Horizontal parts of separator
		Middle:      "─", // Between columns in separator
		MiddleLeft:  "─", // Left edge of separator
		MiddleRight: "─", // Right edge of separator
	}).
		BorderTop(false).    // Disable top border
		BorderBottom(false). // Disable bottom border
		BorderLeft(false).   // Disable left border
		BorderRight(false).  // Disable right border
		BorderColumn(false). // Disable column separators
		BorderStyle(TableBorderStyle)
}
