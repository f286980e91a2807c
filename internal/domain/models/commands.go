package models

import (
	"fmt"
	"time"
)

// CommandType enumerates the chat commands understood by the interpreter.
type CommandType string

const (
	CommandReport       CommandType = "relatorio"
	CommandAnnualReport CommandType = "relatorio anual"
	CommandCompare      CommandType = "comparar"
	CommandBestDays     CommandType = "melhores dias"
	CommandHelp         CommandType = "ajuda"
	CommandUnknown      CommandType = "unknown"
	// CommandInvalid marks a recognized command whose arguments could not be
	// parsed; Hint carries the usage reply for that command.
	CommandInvalid CommandType = "invalid"
)

// Command is a fully parsed chat instruction. Which fields are meaningful
// depends on Type: Period for report/best-days, Period and Other for
// compare, Year for the annual report, Hint for invalid commands.
type Command struct {
	Type   CommandType
	Raw    string
	Period Period
	Other  Period
	Year   int
	Hint   string
}

// Period identifies one calendar month.
type Period struct {
	Month time.Month
	Year  int
}

// Range returns the half-open interval [first day of the month, first day
// of the next month). December rolls the year forward.
func (p Period) Range() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Previous returns the immediately preceding calendar month.
func (p Period) Previous() Period {
	start, _ := p.Range()
	prev := start.AddDate(0, -1, 0)
	return Period{Month: prev.Month(), Year: prev.Year()}
}

// String renders the period as mm/yyyy for reply text.
func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// YearRange returns the half-open interval covering a full calendar year.
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
