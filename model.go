package dfilter

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	nt "dfilter/entity"
	"dfilter/filterbar"
	"dfilter/message"
	"dfilter/packetpanel"
	"dfilter/query"
)

const (
	footerHeight = 1
)

// Model is the bubbletea model for the packet viewer.
// While the filter text is invalid the last valid filter stays applied.
type Model struct {
	df          *Dfilter
	ctx         context.Context
	logger      nt.Logger
	errorString string

	CurrentScreen Screen

	records []nt.Record
	matched []nt.Record
	node    nt.Node

	Bar   filterbar.Bar
	Panel packetpanel.Panel

	Width  int
	Height int
}

// NewModel creates a new bt model.
func NewModel(ctx context.Context, df *Dfilter, cfg *Config) Model {

	bar := filterbar.New(df.Engine(), cfg.Filter)

	model := Model{
		df:            df,
		ctx:           ctx,
		logger:        df.logger,
		CurrentScreen: TableScreen,
		Bar:           bar,
		Panel:         packetpanel.New(cfg.Columns),
	}
	if an := bar.Analysis(); an.Valid() {
		model.node = an.Node
	}
	return model
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadRecords(), m.loadRecent())
}

// Matched returns the records passing the applied filter.
func (m Model) Matched() []nt.Record {
	return m.matched
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	switch msg := msg.(type) {

	case message.RecordsMsg:
		m.records = msg.Records
		return m.refilter(), nil

	case message.ErrorMsg:
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.errorString = msg.Err.Error()
		return m, nil

	case filterbar.ChangedMsg:
		return m.analyzed(msg.Analysis), nil

	case filterbar.CommitMsg:
		m.logger.Info(m.ctx, "committed filter", "filter", msg.Text)
		return m, m.remember(msg.Text)

	case filterbar.RecentMsg:
		var cmd tea.Cmd
		m.Bar, cmd = m.Bar.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Bar, _ = m.Bar.Update(filterbar.SizeMsg{Width: msg.Width})
		return m.resize(), nil

	case tea.KeyPressMsg:
		m.errorString = ""
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() tea.View {
	if m.Width == 0 {
		return tea.NewView("Loading...")
	}

	barContent := m.Bar.Render()
	barHeight := lipgloss.Height(barContent)

	var screenContent string
	switch m.CurrentScreen {
	case DetailScreen:
		rec, _ := m.Panel.Selection()
		screenContent = packetpanel.RenderDetail(rec, m.Width, m.Height-barHeight-footerHeight)
	default:
		screenContent = m.Panel.Render()
	}

	footerContent := RenderFooter(m.Panel.Selected+1, len(m.matched), len(m.records), m.df.Name(), m.Width)
	if m.errorString != "" {
		footerContent = m.errorString
	}

	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(lipgloss.NewLayer("bar", barContent))
	canvas.Compose(lipgloss.NewLayer("screen", screenContent).Y(barHeight))
	canvas.Compose(lipgloss.NewLayer("footer", footerContent).Y(m.Height - footerHeight))
	if popup := m.Bar.RenderPopup(); popup != "" {
		canvas.Compose(lipgloss.NewLayer("popup", popup).X(m.Bar.PopupColumn()).Y(1))
	}

	view := tea.NewView(canvas)
	view.AltScreen = true
	return view
}

// unexported

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.Bar.Open() {
			break
		}
		if m.CurrentScreen != TableScreen {
			m.CurrentScreen = TableScreen
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+o":
		if m.CurrentScreen == TableScreen {
			m.CurrentScreen = DetailScreen
		} else {
			m.CurrentScreen = TableScreen
		}
		return m, nil

	case "up", "down":
		if !m.Bar.Open() {
			m.Panel, _ = m.Panel.Update(msg)
			return m, nil
		}

	case "pgup", "pgdown", "ctrl+home", "ctrl+end":
		m.Panel, _ = m.Panel.Update(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.Bar, cmd = m.Bar.Update(msg)
	return m, cmd
}

// analyzed applies a fresh analysis, keeping the last valid filter on error.
func (m Model) analyzed(an query.Analysis) Model {

	if !an.Valid() {
		return m
	}
	m.node = an.Node
	return m.refilter()
}

func (m Model) refilter() Model {

	m.matched = m.df.Filter(m.node, m.records)
	m.Panel = m.Panel.SetRecords(m.matched)
	return m
}

func (m Model) resize() Model {

	barHeight := lipgloss.Height(m.Bar.Render())
	m.Panel, _ = m.Panel.Update(packetpanel.SizeMsg{
		Width:  m.Width,
		Height: m.Height - barHeight - footerHeight,
	})
	return m
}
