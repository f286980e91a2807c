package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
	"github.com/ruanmelo/chopptrailer/internal/service/reporting"
	"github.com/ruanmelo/chopptrailer/pkg/dateparse"
)

const helpReply = "Comandos disponíveis:\n" +
	"- relatorio <mês> <ano>\n" +
	"- relatorio anual <ano>\n" +
	"- comparar <mês1> <ano1> <mês2> <ano2>\n" +
	"- melhores dias <mês> <ano>\n" +
	"- ajuda"

const unknownReply = "Comando não reconhecido. Digite ajuda para ver os comandos."

// weekdayNames maps the English labels stored on sale rows to the pt-BR
// display names used in replies.
var weekdayNames = map[string]string{
	"Monday":    "Segunda-feira",
	"Tuesday":   "Terça-feira",
	"Wednesday": "Quarta-feira",
	"Thursday":  "Quinta-feira",
	"Friday":    "Sexta-feira",
	"Saturday":  "Sábado",
	"Sunday":    "Domingo",
}

// Store is the data source the interpreter reads from. FetchSales takes a
// half-open range; kind narrows to one sale kind when non-nil.
type Store interface {
	FetchSales(ctx context.Context, start, end time.Time, kind *models.SaleKind) ([]models.SaleRecord, error)
	FetchProducts(ctx context.Context) ([]models.ProductRecord, error)
}

// Interpreter executes chat commands against the store and renders reply
// text. It is stateless per message; concurrent use is safe.
type Interpreter struct {
	store  Store
	dates  dateparse.Parser
	logger *zap.Logger
}

// NewInterpreter wires an interpreter. A nil dates parser falls back to the
// pt-BR default.
func NewInterpreter(store Store, dates dateparse.Parser, logger *zap.Logger) *Interpreter {
	if dates == nil {
		dates = dateparse.PTBR{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{store: store, dates: dates, logger: logger}
}

// Interpret handles one raw chat message and always returns reply text,
// never an error: malformed input and fetch failures collapse into the
// appropriate fallback wording.
func (i *Interpreter) Interpret(ctx context.Context, text string) string {
	cmd := Parse(text, i.dates)

	i.logger.Debug("interpreting command",
		zap.String("type", string(cmd.Type)),
		zap.String("raw", cmd.Raw))

	switch cmd.Type {
	case models.CommandReport:
		return i.monthlyReport(ctx, cmd.Period)
	case models.CommandAnnualReport:
		return i.annualReport(ctx, cmd.Year)
	case models.CommandCompare:
		return i.compare(ctx, cmd.Period, cmd.Other)
	case models.CommandBestDays:
		return i.bestDays(ctx, cmd.Period)
	case models.CommandHelp:
		return helpReply
	case models.CommandInvalid:
		return cmd.Hint
	default:
		return unknownReply
	}
}

func (i *Interpreter) monthlyReport(ctx context.Context, period models.Period) string {
	start, end := period.Range()
	report := reporting.General(i.fetch(ctx, start, end))
	if report == nil {
		return fmt.Sprintf("Nenhum registro para %s.", period)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Relatório %s\n", period)
	writeGeneral(&b, report)
	b.WriteString("\n")
	b.WriteString(i.trendLine(ctx, period, report))
	return b.String()
}

func (i *Interpreter) annualReport(ctx context.Context, year int) string {
	start, end := models.YearRange(year)
	report := reporting.General(i.fetch(ctx, start, end))
	if report == nil {
		return fmt.Sprintf("Nenhum registro para %d.", year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Relatório anual %d\n", year)
	writeGeneral(&b, report)
	return b.String()
}

func (i *Interpreter) compare(ctx context.Context, first, second models.Period) string {
	startA, endA := first.Range()
	reportA := reporting.General(i.fetch(ctx, startA, endA))
	if reportA == nil {
		return fmt.Sprintf("Sem dados para %s.", first)
	}

	startB, endB := second.Range()
	reportB := reporting.General(i.fetch(ctx, startB, endB))
	if reportB == nil {
		return fmt.Sprintf("Sem dados para %s.", second)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comparação %s x %s\n", first, second)
	fmt.Fprintf(&b, "Receita líquida %s: R$ %.2f\n", first, reportA.NetRevenue)
	fmt.Fprintf(&b, "Receita líquida %s: R$ %.2f\n", second, reportB.NetRevenue)

	// The variation divides by the first period's net even for non-adjacent
	// periods; N/A when that base is not positive.
	if reportA.NetRevenue <= 0 {
		fmt.Fprintf(&b, "Variação: N/A (receita líquida de %s não foi positiva)", first)
	} else {
		variation := (reportB.NetRevenue/reportA.NetRevenue - 1) * 100
		fmt.Fprintf(&b, "Variação: %.2f%%", variation)
	}
	return b.String()
}

func (i *Interpreter) bestDays(ctx context.Context, period models.Period) string {
	start, end := period.Range()
	ranking := reporting.DayRanking(i.fetch(ctx, start, end))
	if len(ranking) == 0 {
		return fmt.Sprintf("Sem dados para %s.", period)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Melhores dias %s", period)
	for pos, entry := range ranking {
		name, ok := weekdayNames[entry.Weekday]
		if !ok {
			name = entry.Weekday
		}
		fmt.Fprintf(&b, "\n%d. %s: R$ %.2f", pos+1, name, entry.Revenue)
	}
	return b.String()
}

func (i *Interpreter) trendLine(ctx context.Context, period models.Period, current *models.GeneralReport) string {
	previous := period.Previous()
	start, end := previous.Range()
	report := reporting.General(i.fetch(ctx, start, end))
	if report == nil {
		return fmt.Sprintf("Tendência: sem dados de %s.", previous)
	}
	if report.NetRevenue <= 0 {
		return fmt.Sprintf("Tendência: receita líquida de %s não foi positiva.", previous)
	}

	trend := (current.NetRevenue/report.NetRevenue - 1) * 100
	return fmt.Sprintf("Tendência vs %s: %+.2f%%", previous, trend)
}

// fetch swallows store errors: the caller treats a failed fetch like an
// empty period and the error stays in the logs.
func (i *Interpreter) fetch(ctx context.Context, start, end time.Time) []models.SaleRecord {
	sales, err := i.store.FetchSales(ctx, start, end, nil)
	if err != nil {
		i.logger.Error("failed fetching sales",
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err))
		return nil
	}
	return sales
}

func writeGeneral(b *strings.Builder, report *models.GeneralReport) {
	fmt.Fprintf(b, "Receita bruta: R$ %.2f\n", report.GrossRevenue)
	fmt.Fprintf(b, "Receita líquida: R$ %.2f\n", report.NetRevenue)
	fmt.Fprintf(b, "Média por venda: R$ %.2f\n", report.AverageSale)
	fmt.Fprintf(b, "Gastos - Func.: R$ %.2f\n", report.LaborCost)
	fmt.Fprintf(b, "Copos: R$ %.2f\n", report.CupsCost)
	fmt.Fprintf(b, "Boleto: R$ %.2f\n", report.InvoiceCost)
	fmt.Fprintf(b, "Gasto total: R$ %.2f\n", report.TotalCost)
	fmt.Fprintf(b, "Dias registrados: %d", report.DaysRecorded)
}
