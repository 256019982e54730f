package summary

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// printer renders amounts with comma thousands separators, matching
// the sheet's own number format.
var printer = message.NewPrinter(language.English)

// FormatVND renders an amount as "1,234,000 VND".
func FormatVND(amount int64) string {
	return printer.Sprintf("%d VND", amount)
}

func formatSigned(amount int64) string {
	return printer.Sprintf("%+d", amount)
}

// MonthDisplay renders "MM", "YYYY" as "tháng M/YYYY".
func MonthDisplay(month, year string) string {
	return fmt.Sprintf("tháng %s/%s", strings.TrimPrefix(month, "0"), year)
}

// PercentChange describes a period-over-period delta. When the
// previous period is zero the percentage is omitted entirely.
type PercentChange struct {
	Delta   int64
	Percent float64
	Valid   bool
}

// NewPercentChange guards against a zero previous period.
func NewPercentChange(current, previous int64) PercentChange {
	pc := PercentChange{Delta: current - previous}
	if previous > 0 {
		pc.Percent = float64(current-previous) / float64(previous) * 100
		pc.Valid = true
	}
	return pc
}

// Suffix renders " (📈 +12.5%)" or empty when the comparison is invalid.
func (pc PercentChange) Suffix() string {
	if !pc.Valid {
		return ""
	}
	symbol := "➡️"
	if pc.Percent > 0 {
		symbol = "📈"
	} else if pc.Percent < 0 {
		symbol = "📉"
	}
	return fmt.Sprintf(" (%s %+.1f%%)", symbol, pc.Percent)
}

// FormatExpense renders one record as a detail line. index is 1-based;
// zero suppresses the prefix.
func FormatExpense(r domain.Record, index int) string {
	timeStr := r.Time
	if timeStr == "" {
		timeStr = "—"
	}
	note := strings.ToLower(r.Note)
	icon := noteIcon(note)

	prefix := ""
	if index > 0 {
		prefix = fmt.Sprintf("%d. ", index)
	}
	return fmt.Sprintf("%s⏰ %s | 💰 %s | %s %s", prefix, timeStr, FormatVND(r.Amount), icon, note)
}

// noteIcon picks the detail-line icon by fuzzy-matching the
// accent-stripped note, so "Xăng xe" and "xang xe" render alike.
func noteIcon(note string) string {
	n := textnorm.NormalizeText(note)
	switch {
	case strings.Contains(n, "xang"):
		return "⛽"
	case containsAny(n, "an", "lunch", "com", "pho", "bun", "mien"):
		return "🍽️"
	case containsAny(n, "cafe", "coffee", "ca phe", "caphe"):
		return "☕"
	}
	return "📝"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// groupedDetails renders expenses grouped per day, each day with its
// subtotal and numbered lines. Keys sort lexically, which matches
// chronological order for zero-padded DD/MM within one month.
func groupedDetails(expenses []domain.Record) string {
	grouped := map[string][]domain.Record{}
	for _, r := range expenses {
		grouped[r.Date] = append(grouped[r.Date], r)
	}

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Strings(days)

	var b strings.Builder
	for _, day := range days {
		rows := grouped[day]
		var dayTotal int64
		for _, r := range rows {
			dayTotal += r.Amount
		}
		fmt.Fprintf(&b, "\n📅 %s: %s\n", day, FormatVND(dayTotal))
		for i, r := range rows {
			b.WriteString(FormatExpense(r, i+1))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// parseRowKey builds a sortable key from a raw sheet row's date and
// time columns, used when rewriting a month in order.
func parseRowKey(row []string) string {
	date, clock := "", ""
	if len(row) > 0 {
		date = textnorm.NormalizeDate(strings.TrimSpace(row[0]))
	}
	if len(row) > 1 {
		clock = textnorm.NormalizeTime(strings.TrimSpace(row[1]))
	}
	// DD/MM flips to MM/DD so lexical order is chronological.
	if parts := strings.Split(date, "/"); len(parts) == 2 {
		date = parts[1] + "/" + parts[0]
	}
	return date + " " + clock
}
