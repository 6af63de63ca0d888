package render

import (
	"testing"

	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		want  string
		value float64
	}{
		{value: 0, want: "0"},
		{value: 500, want: "500"},
		{value: 1500, want: "1,500"},
		{value: 36000, want: "36,000"},
		{value: 12.5, want: "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.value))
		})
	}
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "Rs 1,500/-", FormatRupees(1500))
	assert.Equal(t, "Rs 0/-", FormatRupees(0))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "13", MonthName(13))
	assert.Equal(t, "0", MonthName(0))
}

func TestInterestTooltip(t *testing.T) {
	overdue := model.ResultEntry{OverdueAmount: 1200, Interest: 24}
	settled := model.ResultEntry{OverdueAmount: 0, Interest: 0}

	tests := []struct {
		name  string
		mode  model.Mode
		want  string
		entry model.ResultEntry
	}{
		{
			name:  "private overdue",
			entry: overdue,
			mode:  model.ModePrivate,
			want:  "Interest = Overdue Amount (1200) x 2% = 24",
		},
		{
			name:  "local body overdue",
			entry: model.ResultEntry{OverdueAmount: 1200, Interest: 6},
			mode:  model.ModeLocalBody,
			want:  "Interest = Overdue Amount (1200) x 0.5% = 6",
		},
		{name: "private nothing overdue", entry: settled, mode: model.ModePrivate, want: NoInterestTooltip},
		{name: "local body nothing overdue", entry: settled, mode: model.ModeLocalBody, want: NoInterestTooltip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterestTooltip(tt.entry, tt.mode))
		})
	}
}

func TestBuild_SingleMonthScenario(t *testing.T) {
	resp := model.UploadResponse{
		Results: []model.ResultEntry{{
			Month: 1, Year: 2024, Demand: 1000, OpeningBalance: 500,
			ClosingBalance: 1500, OverdueAmount: 0, Interest: 0,
		}},
		TotalClosingBalance: 1500,
		TotalInterest:       0,
	}

	table := Build(resp.Results, model.ModeLocalBody)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, Headers, table.Headers)

	row := table.Rows[0]
	assert.Equal(t, []string{"2024", "January", "500", "1,000", "0", "1,500", "0", "0"}, row.Texts())
	assert.Equal(t, NoInterestTooltip, row.Tooltip())

	totals := Summarize(resp)
	assert.Equal(t, "Rs 1,500/-", totals.ClosingBalance)
	assert.Equal(t, "Rs 0/-", totals.Interest)
}

func TestBuild_HighlightsFinalRow(t *testing.T) {
	entries := []model.ResultEntry{
		{Month: 11, Year: 2023, ClosingBalance: 100},
		{Month: 12, Year: 2023, ClosingBalance: 200, OverdueAmount: 100, Interest: 2, RunningInterest: 2},
	}

	table := Build(entries, model.ModePrivate)
	require.Len(t, table.Rows, 2)

	for col := range Headers {
		assert.False(t, table.Rows[0].Cells[col].Highlight, "first row column %d", col)
	}

	last := table.Rows[1]
	for col, cell := range last.Cells {
		want := col == ColClosingBalance || col == ColRunningInterest
		assert.Equal(t, want, cell.Highlight, "last row column %d", col)
	}
	assert.Equal(t, "Interest = Overdue Amount (100) x 2% = 2", last.Tooltip())
}

func TestBuild_InterestShownAsReceived(t *testing.T) {
	// A value that no fixed rate would produce: the renderer must not recompute it.
	entry := model.ResultEntry{Month: 3, Year: 2024, OverdueAmount: 1000, Interest: 37}

	table := Build([]model.ResultEntry{entry}, model.ModeLocalBody)
	assert.Equal(t, "37", table.Rows[0].Cells[ColInterest].Text)
	assert.Equal(t, "Interest = Overdue Amount (1000) x 0.5% = 37", table.Rows[0].Tooltip())
}

func TestBuild_Empty(t *testing.T) {
	table := Build(nil, model.ModeLocalBody)
	assert.True(t, table.Empty())
}
