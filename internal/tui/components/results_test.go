package components

import (
	"testing"

	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/render"
	tuitest "github.com/Veraticus/dcb-calc/internal/tui/testing"
	"github.com/Veraticus/dcb-calc/internal/tui/themes"
	"github.com/stretchr/testify/assert"
)

func sampleResults() (render.Table, render.Totals) {
	entries := []model.ResultEntry{
		{Month: 1, Year: 2024, Demand: 1000, OpeningBalance: 500, ClosingBalance: 1500},
		{Month: 2, Year: 2024, Demand: 1000, OpeningBalance: 1500, OverdueAmount: 1500, ClosingBalance: 2500, Interest: 30, RunningInterest: 30},
		{Month: 3, Year: 2024, Demand: 1000, OpeningBalance: 2500, OverdueAmount: 2500, ClosingBalance: 3500, Interest: 50, RunningInterest: 80},
	}
	resp := model.UploadResponse{Results: entries, TotalClosingBalance: 3500, TotalInterest: 80}
	return render.Build(entries, model.ModePrivate), render.Summarize(resp)
}

func TestResultsModel_Empty(t *testing.T) {
	m := NewResultsModel(themes.Default)
	assert.True(t, m.Empty())
	assert.Empty(t, m.View())
	assert.Empty(t, m.Tooltip())

	next, cmd := m.Update(tuitest.KeyDown())
	assert.Nil(t, cmd)
	assert.Equal(t, 0, next.Cursor())
}

func TestResultsModel_View(t *testing.T) {
	m := NewResultsModel(themes.Default)
	m.Resize(220, 40)
	m.SetData(sampleResults())

	out := tuitest.StripANSI(m.View())
	assert.True(t, tuitest.ContainsInOrder(out,
		"Mode: Private",
		"Year", "Month", "Opening Balance",
		"January", "February", "March",
		render.NoInterestTooltip,
		"Total WC Closing Balance: Rs 3,500/-",
		"Total Interest Closing Balance: Rs 80/-",
	))
}

func TestResultsModel_CursorMovesTooltip(t *testing.T) {
	m := NewResultsModel(themes.Default)
	m.Resize(220, 40)
	m.SetData(sampleResults())

	assert.Equal(t, render.NoInterestTooltip, m.Tooltip())

	m, _ = m.Update(tuitest.KeyDown())
	assert.Equal(t, 1, m.Cursor())
	assert.Equal(t, "Interest = Overdue Amount (1500) x 2% = 30", m.Tooltip())

	m, _ = m.Update(tuitest.KeyDown())
	m, _ = m.Update(tuitest.KeyDown())
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last row")

	m, _ = m.Update(tuitest.KeyPress("g"))
	assert.Equal(t, 0, m.Cursor())

	m, _ = m.Update(tuitest.KeyPress("G"))
	assert.Equal(t, 2, m.Cursor())

	m, _ = m.Update(tuitest.KeyUp())
	assert.Equal(t, 1, m.Cursor())
	assert.Equal(t, "Interest = Overdue Amount (1500) x 2% = 30", m.Tooltip())
}

func TestResultsModel_Scrolls(t *testing.T) {
	entries := make([]model.ResultEntry, 0, 24)
	for i := 0; i < 24; i++ {
		entries = append(entries, model.ResultEntry{Month: i%12 + 1, Year: 2023 + i/12})
	}

	m := NewResultsModel(themes.Default)
	m.Resize(220, 14)
	m.SetData(render.Build(entries, model.ModeLocalBody), render.Totals{})

	m, _ = m.Update(tuitest.KeyPress("G"))
	assert.Equal(t, 23, m.Cursor())
	assert.Positive(t, m.offset)

	m.Clear()
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Cursor())
}
