package dfilter

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"dfilter/style"
)

// RenderFooter renders the selected position, match count and source name.
func RenderFooter(current, matched, total int, name string, width int) string {

	left := fmt.Sprintf("%d/%d", current, matched)
	if matched != total {
		left += fmt.Sprintf(" (%d of %d shown)", matched, total)
	}
	right := name

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.MutedStyle.Render(left + strings.Repeat(" ", padding) + right)
}
