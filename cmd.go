package dfilter

import (
	tea "charm.land/bubbletea/v2"

	"dfilter/filterbar"
	"dfilter/message"
)

// loadRecords gets every record from the source
func (m Model) loadRecords() tea.Cmd {
	return func() tea.Msg {
		records, err := m.df.Records(m.ctx)
		if err != nil {
			return message.ErrorMsg{Err: err}
		}
		return message.RecordsMsg{Records: records}
	}
}

// loadRecent gets remembered filters for the bar
func (m Model) loadRecent() tea.Cmd {
	return func() tea.Msg {
		return filterbar.RecentMsg{Entries: m.df.Recent(m.ctx)}
	}
}

// remember adds a committed filter to history
func (m Model) remember(text string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.df.Remember(m.ctx, text)
		if err != nil {
			return message.ErrorMsg{Err: err}
		}
		return filterbar.RecentMsg{Entries: entries}
	}
}
