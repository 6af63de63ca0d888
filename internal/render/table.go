package render

import (
	"strconv"

	"github.com/Veraticus/dcb-calc/internal/model"
)

// Column indexes of the result table.
const (
	ColYear = iota
	ColMonth
	ColOpeningBalance
	ColDemand
	ColOverdue
	ColClosingBalance
	ColInterest
	ColRunningInterest
)

// Headers are the result table column titles.
var Headers = []string{
	"Year",
	"Month",
	"Opening Balance (In Rs/-)",
	"Demand (In Rs/-)",
	"Overdue Amount (In Rs/-)",
	"Closing Balance (In Rs/-)",
	"Interest (In Rs/-)",
	"Running Interest (In Rs/-)",
}

// Cell is one formatted value.
type Cell struct {
	Text      string
	Tooltip   string
	Highlight bool
}

// Row is one formatted month.
type Row struct {
	Cells []Cell
}

// Tooltip returns the explanation attached to the row's interest cell.
func (r Row) Tooltip() string {
	return r.Cells[ColInterest].Tooltip
}

// Texts returns the cell texts in column order.
func (r Row) Texts() []string {
	texts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		texts[i] = c.Text
	}
	return texts
}

// Table is the display structure for a calculation.
type Table struct {
	Mode    model.Mode
	Headers []string
	Rows    []Row
}

// Empty reports whether there is anything to display.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Totals are the formatted aggregate figures.
type Totals struct {
	ClosingBalance string
	Interest       string
}

// Build formats entries in the order received. The final row's closing
// balance and running interest cells are highlighted.
func Build(entries []model.ResultEntry, mode model.Mode) Table {
	rows := make([]Row, 0, len(entries))

	for i, entry := range entries {
		last := i == len(entries)-1
		rows = append(rows, Row{Cells: []Cell{
			ColYear:           {Text: strconv.Itoa(entry.Year)},
			ColMonth:          {Text: MonthName(entry.Month)},
			ColOpeningBalance: {Text: FormatAmount(entry.OpeningBalance)},
			ColDemand:         {Text: FormatAmount(entry.Demand)},
			ColOverdue:        {Text: FormatAmount(entry.OverdueAmount)},
			ColClosingBalance: {Text: FormatAmount(entry.ClosingBalance), Highlight: last},
			ColInterest:       {Text: FormatAmount(entry.Interest), Tooltip: InterestTooltip(entry, mode)},
			ColRunningInterest: {
				Text:      FormatAmount(entry.RunningInterest),
				Highlight: last,
			},
		}})
	}

	return Table{
		Mode:    mode,
		Headers: Headers,
		Rows:    rows,
	}
}

// Summarize formats the response totals exactly as received.
func Summarize(resp model.UploadResponse) Totals {
	return Totals{
		ClosingBalance: FormatRupees(resp.TotalClosingBalance),
		Interest:       FormatRupees(resp.TotalInterest),
	}
}
