package message

import tea "charm.land/bubbletea/v2"

// ErrorCmd returns a command that reports err
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
