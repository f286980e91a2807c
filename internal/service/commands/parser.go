package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
	"github.com/ruanmelo/chopptrailer/pkg/dateparse"
)

const (
	hintReport   = "Formato inválido. Use: relatorio <mês> <ano>. Ex: relatorio julho 2025"
	hintAnnual   = "Formato inválido. Use: relatorio anual <ano>. Ex: relatorio anual 2025"
	hintCompare  = "Formato inválido. Use: comparar <mês1> <ano1> <mês2> <ano2>. Ex: comparar 6 2025 7 2025"
	hintBestDays = "Formato inválido. Use: melhores dias <mês> <ano>. Ex: melhores dias 7 2025"
)

// Parse turns free-form chat text into a typed Command. Parsing never
// fails hard: malformed arguments yield CommandInvalid with the usage hint
// of the command that was recognized, and anything else CommandUnknown.
func Parse(text string, dates dateparse.Parser) models.Command {
	normalized := strings.TrimSpace(strings.ToLower(text))
	normalized = strings.ReplaceAll(normalized, "relatório", "relatorio")

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return models.Command{Type: models.CommandUnknown, Raw: text}
	}

	// Greedy two-token keyword match before falling back to one token.
	keyword := tokens[0]
	args := tokens[1:]
	if len(tokens) >= 2 {
		two := tokens[0] + " " + tokens[1]
		if two == string(models.CommandAnnualReport) || two == string(models.CommandBestDays) {
			keyword = two
			args = tokens[2:]
		}
	}

	cmd := models.Command{Raw: text}
	switch keyword {
	case string(models.CommandReport):
		date, ok := time.Time{}, false
		if len(args) > 0 && dates != nil {
			date, ok = dates.Parse(strings.Join(args, " "))
		}
		if !ok {
			return invalid(cmd, hintReport)
		}
		cmd.Type = models.CommandReport
		cmd.Period = models.Period{Month: date.Month(), Year: date.Year()}

	case string(models.CommandAnnualReport):
		if len(args) < 1 {
			return invalid(cmd, hintAnnual)
		}
		year, ok := parseYear(args[0])
		if !ok {
			return invalid(cmd, hintAnnual)
		}
		cmd.Type = models.CommandAnnualReport
		cmd.Year = year

	case string(models.CommandCompare):
		if len(args) < 4 {
			return invalid(cmd, hintCompare)
		}
		first, okFirst := parsePeriod(args[0], args[1])
		second, okSecond := parsePeriod(args[2], args[3])
		if !okFirst || !okSecond {
			return invalid(cmd, hintCompare)
		}
		cmd.Type = models.CommandCompare
		cmd.Period = first
		cmd.Other = second

	case string(models.CommandBestDays):
		if len(args) < 2 {
			return invalid(cmd, hintBestDays)
		}
		period, ok := parsePeriod(args[0], args[1])
		if !ok {
			return invalid(cmd, hintBestDays)
		}
		cmd.Type = models.CommandBestDays
		cmd.Period = period

	case string(models.CommandHelp):
		cmd.Type = models.CommandHelp

	default:
		cmd.Type = models.CommandUnknown
	}

	return cmd
}

func invalid(cmd models.Command, hint string) models.Command {
	cmd.Type = models.CommandInvalid
	cmd.Hint = hint
	return cmd
}

func parsePeriod(monthToken, yearToken string) (models.Period, bool) {
	month, err := strconv.Atoi(monthToken)
	if err != nil || month < 1 || month > 12 {
		return models.Period{}, false
	}
	year, ok := parseYear(yearToken)
	if !ok {
		return models.Period{}, false
	}
	return models.Period{Month: time.Month(month), Year: year}, true
}

func parseYear(token string) (int, bool) {
	year, err := strconv.Atoi(token)
	if err != nil || year < 1000 || year > 9999 {
		return 0, false
	}
	return year, true
}
