package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
	"github.com/ruanmelo/chopptrailer/pkg/dateparse"
)

func parse(text string) models.Command {
	return Parse(text, dateparse.PTBR{})
}

func TestParseReport(t *testing.T) {
	cmd := parse("relatorio julho 2025")
	assert.Equal(t, models.CommandReport, cmd.Type)
	assert.Equal(t, models.Period{Month: time.July, Year: 2025}, cmd.Period)
}

func TestParseReportNumericMonth(t *testing.T) {
	cmd := parse("relatorio 5 2025")
	assert.Equal(t, models.CommandReport, cmd.Type)
	assert.Equal(t, models.Period{Month: time.May, Year: 2025}, cmd.Period)
}

func TestParseReportFoldsAccents(t *testing.T) {
	cmd := parse("Relatório março 2024")
	assert.Equal(t, models.CommandReport, cmd.Type)
	assert.Equal(t, models.Period{Month: time.March, Year: 2024}, cmd.Period)
}

func TestParseReportBadDate(t *testing.T) {
	cmd := parse("relatorio qualquer coisa")
	assert.Equal(t, models.CommandInvalid, cmd.Type)
	assert.Equal(t, hintReport, cmd.Hint)

	cmd = parse("relatorio")
	assert.Equal(t, models.CommandInvalid, cmd.Type)
	assert.Equal(t, hintReport, cmd.Hint)
}

func TestParseAnnualReport(t *testing.T) {
	cmd := parse("relatorio anual 2025")
	assert.Equal(t, models.CommandAnnualReport, cmd.Type)
	assert.Equal(t, 2025, cmd.Year)
}

func TestParseAnnualReportBadYear(t *testing.T) {
	for _, text := range []string{"relatorio anual", "relatorio anual abc", "relatorio anual 99"} {
		cmd := parse(text)
		assert.Equal(t, models.CommandInvalid, cmd.Type, "input %q", text)
		assert.Equal(t, hintAnnual, cmd.Hint, "input %q", text)
	}
}

func TestParseCompare(t *testing.T) {
	cmd := parse("comparar 6 2025 7 2025")
	assert.Equal(t, models.CommandCompare, cmd.Type)
	assert.Equal(t, models.Period{Month: time.June, Year: 2025}, cmd.Period)
	assert.Equal(t, models.Period{Month: time.July, Year: 2025}, cmd.Other)
}

func TestParseCompareMalformed(t *testing.T) {
	for _, text := range []string{"comparar 6 2025 7", "comparar a b c d", "comparar 13 2025 7 2025"} {
		cmd := parse(text)
		assert.Equal(t, models.CommandInvalid, cmd.Type, "input %q", text)
		assert.Equal(t, hintCompare, cmd.Hint, "input %q", text)
	}
}

func TestParseBestDays(t *testing.T) {
	cmd := parse("melhores dias 7 2025")
	assert.Equal(t, models.CommandBestDays, cmd.Type)
	assert.Equal(t, models.Period{Month: time.July, Year: 2025}, cmd.Period)
}

func TestParseBestDaysMalformed(t *testing.T) {
	cmd := parse("melhores dias 2025")
	assert.Equal(t, models.CommandInvalid, cmd.Type)
	assert.Equal(t, hintBestDays, cmd.Hint)
}

func TestParseHelpAndUnknown(t *testing.T) {
	assert.Equal(t, models.CommandHelp, parse("ajuda").Type)
	assert.Equal(t, models.CommandHelp, parse("  AJUDA  ").Type)
	assert.Equal(t, models.CommandUnknown, parse("bom dia").Type)
	assert.Equal(t, models.CommandUnknown, parse("").Type)
	// "melhores" alone does not complete the two-word keyword.
	assert.Equal(t, models.CommandUnknown, parse("melhores 7 2025").Type)
}

func TestPeriodRangeDecemberRollover(t *testing.T) {
	start, end := (models.Period{Month: time.December, Year: 2025}).Range()
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodPreviousAcrossYear(t *testing.T) {
	prev := (models.Period{Month: time.January, Year: 2025}).Previous()
	assert.Equal(t, models.Period{Month: time.December, Year: 2024}, prev)
}
