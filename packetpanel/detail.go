package packetpanel

import (
	"fmt"
	"strings"

	nt "dfilter/entity"
	"dfilter/style"
)

// RenderDetail lists every field of rec, one per line, within height lines.
func RenderDetail(rec nt.Record, width, height int) string {

	fields := rec.Fields()

	nameWidth := 0
	for _, fld := range fields {
		nameWidth = max(nameWidth, len(fld.Name))
	}

	lines := make([]string, 0, len(fields))
	for _, fld := range fields {
		name := style.MutedStyle.Render(fmt.Sprintf("%-*s", nameWidth, fld.Name))
		lines = append(lines, name+"  "+truncate(fld.Value.String(), width-nameWidth-2))
	}

	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
