package asset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/summary"
)

const (
	assetsDisplay  = "💼 Tài sản"
	profitDisplay  = "💹 Lợi nhuận"
	priceDisplay   = "💱 Giá hiện tại"
	rateDisplay    = "💵 Tỷ giá USD/VND"
	migrateDisplay = "🔄 Di chuyển dữ liệu tài sản"
)

var printer = message.NewPrinter(language.English)

func vnd(amount int64) string {
	return printer.Sprintf("%d VND", amount)
}

func vndDecimal(d decimal.Decimal) string {
	return printer.Sprintf("%d VND", d.Round(0).IntPart())
}

// valueChange renders "present minus basis" as a signed comma-grouped
// amount, e.g. "+1,234" or "-500".
func valueChange(present decimal.Decimal, basis int64) string {
	diff := present.Sub(decimal.NewFromInt(basis))
	return changeSign(diff.Sign()) + printer.Sprintf("%d", diff.Abs().Round(0).IntPart())
}

// percentChange renders the relative gain as "+12.34%". A zero basis
// renders as "+0.00%".
func percentChange(present decimal.Decimal, basis int64) string {
	pct := decimal.Zero
	if basis != 0 {
		pct = present.Sub(decimal.NewFromInt(basis)).
			Div(decimal.NewFromInt(basis)).
			Mul(decimal.NewFromInt(100))
	}
	return fmt.Sprintf("%s%.2f%%", changeSign(pct.Sign()), pct.Abs().InexactFloat64())
}

func changeSign(sign int) string {
	if sign < 0 {
		return "-"
	}
	return "+"
}

func groupDisplay(cat category.Category) string {
	key := string(cat)
	return category.Icon(key) + " " + category.Name(key)
}

// renderAssets builds the combined holdings and profit report.
func renderAssets(basis BasisSummary, profit ProfitSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", assetsDisplay, vnd(basis.Total))
	fmt.Fprintf(&b, "%s: %s\n", groupDisplay(category.LongInvestment), vnd(basis.Long()))
	for i, instrument := range []Instrument{Gold, ETF, DCDS, VESAF} {
		fmt.Fprintf(&b, "   %s %s → %s\n", branch(i == 3), instrument.DisplayName(), vnd(basis.ByInstrument[instrument]))
	}
	fmt.Fprintf(&b, "%s: %s\n", groupDisplay(category.OpportunityInvestment), vnd(basis.Opportunity()))
	for i, instrument := range []Instrument{Bitcoin, Ethereum} {
		fmt.Fprintf(&b, "   %s %s → %s\n", branch(i == 1), instrument.DisplayName(), vnd(basis.ByInstrument[instrument]))
	}

	fmt.Fprintf(&b, "\n%s: %s (%s) (%s)\n", profitDisplay, vndDecimal(profit.Total),
		valueChange(profit.Total, basis.Total), percentChange(profit.Total, basis.Total))
	fmt.Fprintf(&b, "%s: %s (%s) (%s)\n", groupDisplay(category.LongInvestment), vndDecimal(profit.Long()),
		valueChange(profit.Long(), basis.Long()), percentChange(profit.Long(), basis.Long()))
	for i, instrument := range []Instrument{Gold, ETF, DCDS, VESAF} {
		writeProfitLine(&b, branch(i == 3), instrument, basis, profit)
	}
	fmt.Fprintf(&b, "%s: %s (%s) (%s)\n", groupDisplay(category.OpportunityInvestment), vndDecimal(profit.Opportunity()),
		valueChange(profit.Opportunity(), basis.Opportunity()), percentChange(profit.Opportunity(), basis.Opportunity()))
	for i, instrument := range []Instrument{Bitcoin, Ethereum} {
		writeProfitLine(&b, branch(i == 1), instrument, basis, profit)
	}

	if details := purchaseDetails(basis.Purchases); details != "" {
		b.WriteString("\n📝 Chi tiết:")
		b.WriteString(details)
	}
	return b.String()
}

func writeProfitLine(b *strings.Builder, prefix string, instrument Instrument, basis BasisSummary, profit ProfitSummary) {
	present := profit.ByInstrument[instrument]
	cost := basis.ByInstrument[instrument]
	fmt.Fprintf(b, "   %s %s → %s (%s) (%s)\n", prefix, instrument.DisplayName(), vndDecimal(present),
		valueChange(present, cost), percentChange(present, cost))
}

// renderProfit builds the profit-only report with per-instrument gains.
func renderProfit(basis BasisSummary, profit ProfitSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", profitDisplay, vndDecimal(profit.Total))
	b.WriteString("🏦 Đầu tư dài hạn: \n")
	for i, instrument := range []Instrument{Gold, ETF, DCDS, VESAF} {
		fmt.Fprintf(&b, "   %s %s → %s\n", branch(i == 3), instrument.DisplayName(), vndDecimal(profit.ByInstrument[instrument]))
	}
	b.WriteString("🌐 Đầu tư cơ hội: \n")
	for i, instrument := range []Instrument{Bitcoin, Ethereum} {
		fmt.Fprintf(&b, "   %s %s → %s\n", branch(i == 1), instrument.DisplayName(), vndDecimal(profit.ByInstrument[instrument]))
	}

	b.WriteString("\n📝 Chi tiết:\n")
	b.WriteString("🏦 Đầu tư dài hạn: \n")
	for i, instrument := range []Instrument{Gold, ETF, DCDS, VESAF} {
		writeGainLine(&b, branch(i == 3), instrument, basis, profit)
	}
	b.WriteString("🌐 Đầu tư cơ hội: \n")
	for i, instrument := range []Instrument{Bitcoin, Ethereum} {
		writeGainLine(&b, branch(i == 1), instrument, basis, profit)
	}
	return b.String()
}

func writeGainLine(b *strings.Builder, prefix string, instrument Instrument, basis BasisSummary, profit ProfitSummary) {
	gain := profit.ByInstrument[instrument].Sub(decimal.NewFromInt(basis.ByInstrument[instrument]))
	fmt.Fprintf(b, "   %s %s → %s\n", prefix, instrument.DisplayName(), vndDecimal(gain))
}

// renderPrices lists the current feed quotes.
func renderPrices(prices Prices) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", priceDisplay)
	fmt.Fprintf(&b, "%s: %s VND\n", rateDisplay, printer.Sprintf("%.2f", prices.Rate.InexactFloat64()))
	for _, instrument := range Instruments {
		fmt.Fprintf(&b, "%s: %s\n", instrument.DisplayName(), vndDecimal(prices.Price(instrument)))
	}
	return b.String()
}

func branch(last bool) string {
	if last {
		return "└─"
	}
	return "├─"
}

// purchaseDetails groups purchase rows per day with subtotals. Asset
// dates carry the full year, so sorting needs a date flip rather than
// the lexical order month tabs get away with.
func purchaseDetails(purchases []domain.AssetRecord) string {
	grouped := map[string][]domain.AssetRecord{}
	for _, r := range purchases {
		grouped[r.Date] = append(grouped[r.Date], r)
	}

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return dateSortKey(days[i]) < dateSortKey(days[j]) })

	var b strings.Builder
	for _, day := range days {
		rows := grouped[day]
		var dayTotal int64
		for _, r := range rows {
			dayTotal += r.Amount
		}
		fmt.Fprintf(&b, "\n📅 %s: %s\n", day, vnd(dayTotal))
		for i, r := range rows {
			line := summary.FormatExpense(domain.Record{Time: r.Time, Amount: r.Amount, Note: r.Note}, i+1)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// dateSortKey flips DD/MM/YYYY to YYYY/MM/DD for lexical ordering.
func dateSortKey(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
