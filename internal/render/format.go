// Package render turns calculation results into display-ready text.
// It only describes values computed by the backend; it never calculates them.
package render

import (
	"strconv"

	"github.com/Veraticus/dcb-calc/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoInterestTooltip explains an interest cell with nothing overdue.
const NoInterestTooltip = "No interest (nothing overdue for this month)"

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount formats v with Indian digit grouping, e.g. 1,50,000.
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatRupees formats a total the way the ledger prints it: "Rs 1,500/-".
func FormatRupees(v float64) string {
	return "Rs " + FormatAmount(v) + "/-"
}

// MonthName maps 1-12 to a month name. Other values are shown as numbers.
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return strconv.Itoa(month)
	}
	return monthNames[month-1]
}

// InterestTooltip states the formula behind an interest cell.
func InterestTooltip(entry model.ResultEntry, mode model.Mode) string {
	if !entry.HasOverdue() {
		return NoInterestTooltip
	}
	return "Interest = Overdue Amount (" + raw(entry.OverdueAmount) + ") x " +
		mode.RateLabel() + " = " + raw(entry.Interest)
}

// raw prints a number without grouping, as the backend sent it.
func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
