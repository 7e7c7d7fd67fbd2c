package packetpanel

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "dfilter/entity"
)

func records(count int) []nt.Record {
	recs := make([]nt.Record, count)
	for i := range recs {
		recs[i] = nt.NewRecord(
			nt.Field{Name: nt.KeySource, Value: nt.Str(fmt.Sprintf("10.0.0.%d", i))},
			nt.Field{Name: nt.KeyInfo, Value: nt.Str(fmt.Sprintf("packet %d", i))},
		)
	}
	return recs
}

func press(pnl Panel, key tea.KeyPressMsg) Panel {
	pnl, _ = pnl.Update(key)
	return pnl
}

func TestNavigate(t *testing.T) {

	pnl := New(nil).SetRecords(records(10))
	pnl, _ = pnl.Update(SizeMsg{Width: 80, Height: 5})

	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	pnl = press(pnl, up)
	assert.Equal(t, 0, pnl.Selected)

	for range 4 {
		pnl = press(pnl, down)
	}
	assert.Equal(t, 4, pnl.Selected)
	assert.Equal(t, 2, pnl.Offset)

	pnl = press(pnl, tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, 7, pnl.Selected)

	pnl = press(pnl, tea.KeyPressMsg{Code: tea.KeyPgDown})
	pnl = press(pnl, tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, 9, pnl.Selected)
	assert.Equal(t, 7, pnl.Offset)

	rec, ok := pnl.Selection()
	require.True(t, ok)
	val, _ := rec.Get(nt.KeyInfo)
	assert.Equal(t, "packet 9", val.String())
}

func TestSetRecordsClamps(t *testing.T) {

	pnl := New(nil).SetRecords(records(10))
	pnl.Selected = 8
	pnl.Offset = 6

	pnl = pnl.SetRecords(records(3))
	assert.Equal(t, 2, pnl.Selected)
	assert.Equal(t, 2, pnl.Offset)

	pnl = pnl.SetRecords(nil)
	_, ok := pnl.Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, pnl.Len())
}

func TestRender(t *testing.T) {

	pnl := New([]nt.Column{
		{Field: "source", Title: "Src", Width: 12},
		{Field: "info", Width: 6},
	}).SetRecords(records(3))
	pnl, _ = pnl.Update(SizeMsg{Width: 40, Height: 10})

	out := pnl.Render()
	assert.Contains(t, out, "Src")
	assert.Contains(t, out, "10.0.0.2")
	assert.Contains(t, out, "packe")
	assert.NotContains(t, out, "packet 1")
}

func TestRenderDetail(t *testing.T) {

	out := RenderDetail(records(1)[0], 80, 0)
	assert.Contains(t, out, "10.0.0.0")
	assert.Contains(t, out, "packet 0")

	out = RenderDetail(records(1)[0], 80, 1)
	assert.NotContains(t, out, "packet 0")
}
