package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/config"
	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/sheetstore"
	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// DataSource serves cached sheet rows.
type DataSource interface {
	Rows(ctx context.Context, sheet string) ([][]string, error)
	TodayRows(ctx context.Context, sheet, today string) ([][]string, error)
	Invalidate(sheet string)
}

// CellStore is the slice of the store the service needs for metadata
// cells and the sort rewrite.
type CellStore interface {
	EnsureSheet(ctx context.Context, name string) error
	ReadCells(ctx context.Context, name string, cells []string) (map[string]string, error)
	UpdateCells(ctx context.Context, name string, values map[string]any) error
	ReplaceRows(ctx context.Context, name string, rows [][]any) error
}

// Service computes the report messages.
type Service struct {
	data    DataSource
	store   CellStore
	income  config.Income
	budgets map[string]float64
	now     func() time.Time
	log     zerolog.Logger
}

// New wires a summary service. now must already be in the user's timezone.
func New(data DataSource, store CellStore, income config.Income, budgets map[string]float64, now func() time.Time, log zerolog.Logger) *Service {
	return &Service{
		data:    data,
		store:   store,
		income:  income,
		budgets: budgets,
		now:     now,
		log:     log,
	}
}

// Today reports today's expenses from the short-TTL cache.
func (s *Service) Today(ctx context.Context) (string, error) {
	now := s.now()
	todayStr := now.Format("02/01")
	month := now.Format("01/2006")

	values, err := s.data.TodayRows(ctx, month, todayStr)
	if err != nil {
		return "", fmt.Errorf("today summary: %w", err)
	}

	var expenses []domain.Record
	var total int64
	for _, r := range sheetstore.RowsToRecords(values) {
		date := strings.TrimPrefix(strings.TrimSpace(r.Date), "'")
		if date != todayStr || r.Amount <= 0 {
			continue
		}
		expenses = append(expenses, r)
		total += r.Amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s hôm nay (%s):\n", category.Icon("summarized"), category.Name("summarized"), todayStr)
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("spend"), category.Name("spend"), FormatVND(total))
	fmt.Fprintf(&b, "%s %s: %d\n", category.Icon("transaction"), category.Name("transaction"), len(expenses))
	if len(expenses) > 0 {
		b.WriteString("\n📝 Chi tiết:\n")
		for i, r := range expenses {
			b.WriteString(FormatExpense(r, i+1))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Week reports the Monday-to-Sunday week at the given offset, merging
// every monthly tab the week touches before filtering.
func (s *Service) Week(ctx context.Context, offset int) (string, error) {
	today := civil.DateOf(s.now())
	window := domain.Window{Kind: domain.WindowWeek, Offset: offset}
	start, end := window.Range(today)

	expenses, err := s.windowRecords(ctx, window, today)
	if err != nil {
		return "", fmt.Errorf("week summary: %w", err)
	}

	var total int64
	grouped := map[civil.Date][]domain.Record{}
	var days []civil.Date
	for _, e := range expenses {
		total += e.record.Amount
		if _, seen := grouped[e.date]; !seen {
			days = append(days, e.date)
		}
		grouped[e.date] = append(grouped[e.date], e.record)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s tuần này (%02d/%02d - %02d/%02d):\n",
		category.Icon("summarized"), category.Name("summarized"),
		start.Day, int(start.Month), end.Day, int(end.Month))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("spend"), category.Name("spend"), FormatVND(total))
	fmt.Fprintf(&b, "%s %s: %d\n", category.Icon("transaction"), category.Name("transaction"), len(expenses))

	if len(days) > 0 {
		b.WriteString("\n📝 Chi tiết:")
		for _, day := range days {
			rows := grouped[day]
			var dayTotal int64
			for _, r := range rows {
				dayTotal += r.Amount
			}
			fmt.Fprintf(&b, "\n📅 %02d/%02d/%04d: %s\n", day.Day, int(day.Month), day.Year, FormatVND(dayTotal))
			for i, r := range rows {
				b.WriteString(FormatExpense(r, i+1))
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

type datedRecord struct {
	record domain.Record
	date   civil.Date
}

// windowRecords loads every partition the window touches and keeps the
// records falling inside it. Record years are inferred from the
// partition key, so a week spanning New Year resolves both sides.
func (s *Service) windowRecords(ctx context.Context, window domain.Window, today civil.Date) ([]datedRecord, error) {
	start, end := window.Range(today)

	var out []datedRecord
	for _, key := range window.Partitions(today) {
		values, err := s.data.Rows(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("sheet", key).Msg("skipping unreadable partition")
			continue
		}
		year, err := domain.PartitionYear(key)
		if err != nil {
			continue
		}
		for _, r := range sheetstore.RowsToRecords(values) {
			if r.Amount == 0 {
				continue
			}
			d, err := r.CivilDate(year)
			if err != nil {
				continue
			}
			if d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, datedRecord{record: r, date: d})
		}
	}
	return out, nil
}

// Month renders the full month report: totals, budget estimates per
// category, actual-vs-estimate deltas and per-category detail totals.
func (s *Service) Month(ctx context.Context, offset int) (string, error) {
	now := s.now().AddDate(0, offset, 0)
	month := now.Format("01/2006")

	values, err := s.data.Rows(ctx, month)
	if err != nil {
		return "", fmt.Errorf("month summary: %w", err)
	}
	totals := Summarize(sheetstore.RowsToRecords(values))

	income := s.monthIncome(ctx, month)
	budgets := s.categoryPercentages(ctx, month)

	estimate := func(cat category.Category) int64 {
		if income <= 0 {
			return 0
		}
		return int64(float64(income) * budgets[cat] / 100)
	}

	// The combined food-and-travel actual includes uncategorized rows,
	// since they are almost always small daily purchases.
	foodTravelActual := totals.FoodAndTravel + totals.ByCategory[category.Other]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s:\n", category.Icon("summarized"), category.Name("summarized"), MonthDisplay(now.Format("01"), now.Format("2006")))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("income"), category.Name("income"), FormatVND(income))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("spend"), category.Name("spend"), FormatVND(totals.Total))
	fmt.Fprintf(&b, "%s %s: %d\n\n", category.Icon("transaction"), category.Name("transaction"), totals.Count())

	fmt.Fprintf(&b, "%s %s:\n", category.Icon("estimate_budget"), category.Name("estimate_budget"))
	budgetOrder := []category.Category{
		category.Rent, category.FoodAndTravel, category.SupportParent,
		category.Dating, category.LongInvestment, category.OpportunityInvestment,
	}
	for _, cat := range budgetOrder {
		fmt.Fprintf(&b, "%s %s: %.0f%% = %s\n",
			category.Icon(string(cat)), category.Name(string(cat)), budgets[cat], FormatVND(estimate(cat)))
	}

	actual := map[category.Category]int64{
		category.Rent:                  totals.ByCategory[category.Rent],
		category.FoodAndTravel:         foodTravelActual,
		category.SupportParent:         totals.ByCategory[category.SupportParent],
		category.Dating:                totals.ByCategory[category.Dating],
		category.LongInvestment:        totals.ByCategory[category.LongInvestment],
		category.OpportunityInvestment: totals.ByCategory[category.OpportunityInvestment],
	}
	fmt.Fprintf(&b, "\n%s %s:\n", category.Icon("actual_spend"), category.Name("actual_spend"))
	for _, cat := range budgetOrder {
		fmt.Fprintf(&b, "%s %s: %s (%s)\n",
			category.Icon(string(cat)), category.Name(string(cat)), FormatVND(actual[cat]), formatSigned(estimate(cat)-actual[cat]))
	}

	fmt.Fprintf(&b, "\n%s %s:\n", category.Icon("detail"), category.Name("detail"))
	detailOrder := []category.Category{
		category.Rent, category.Food, category.Gas, category.SupportParent,
		category.Dating, category.Investment, category.Other,
	}
	for _, cat := range detailOrder {
		amount := totals.ByCategory[cat]
		if cat == category.Investment {
			amount = totals.Investment
		}
		fmt.Fprintf(&b, "%s %s: %s\n", category.Icon(string(cat)), category.Name(string(cat)), FormatVND(amount))
	}
	return b.String(), nil
}

// CategoryMonth reports one category's spending for a month, with
// day-grouped details and a previous-month comparison.
func (s *Service) CategoryMonth(ctx context.Context, cat category.Category, offset int) (string, error) {
	now := s.now().AddDate(0, offset, 0)
	month := now.Format("01/2006")
	prevMonth := now.AddDate(0, -1, 0).Format("01/2006")

	expenses, total, err := s.categoryTotal(ctx, month, cat)
	if err != nil {
		return "", fmt.Errorf("%s summary: %w", cat, err)
	}

	// Previous month may not exist yet; treat it as zero.
	_, prevTotal, err := s.categoryTotal(ctx, prevMonth, cat)
	if err != nil {
		s.log.Warn().Err(err).Str("sheet", prevMonth).Msg("previous month unavailable for comparison")
		prevTotal = 0
	}
	change := NewPercentChange(total, prevTotal)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s:\n", category.Icon(string(cat)), category.Name(string(cat)), MonthDisplay(now.Format("01"), now.Format("2006")))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("spend"), category.Name("spend"), FormatVND(total))
	fmt.Fprintf(&b, "%s %s: %d\n", category.Icon("transaction"), category.Name("transaction"), len(expenses))
	fmt.Fprintf(&b, "%s %s %s: %s VND%s\n",
		category.Icon("compare"), category.Name("compare"), prevMonth, formatSigned(change.Delta), change.Suffix())

	if details := groupedDetails(expenses); details != "" {
		fmt.Fprintf(&b, "\n📝 Chi tiết:%s", details)
	}
	return b.String(), nil
}

// categoryTotal filters a month's records down to one category. The
// Investment group matches both investment buckets.
func (s *Service) categoryTotal(ctx context.Context, month string, cat category.Category) ([]domain.Record, int64, error) {
	values, err := s.data.Rows(ctx, month)
	if err != nil {
		return nil, 0, err
	}

	var expenses []domain.Record
	var total int64
	for _, r := range sheetstore.RowsToRecords(values) {
		if r.Amount == 0 {
			continue
		}
		got := category.Classify(r.Note)
		match := got == cat
		if cat == category.Investment {
			match = got.InvestmentGroup()
		}
		if !match {
			continue
		}
		expenses = append(expenses, r)
		total += r.Amount
	}
	return expenses, total, nil
}

// Income reports salary plus freelance for the month, compared with
// the previous month.
func (s *Service) Income(ctx context.Context, offset int) (string, error) {
	now := s.now().AddDate(0, offset, 0)
	month := now.Format("01/2006")
	prevMonth := now.AddDate(0, -1, 0).Format("01/2006")

	salary, freelance := s.incomeCells(ctx, month, true)
	prevSalary, prevFreelance := s.incomeCells(ctx, prevMonth, false)

	total := salary + freelance
	prevTotal := prevSalary + prevFreelance
	change := NewPercentChange(total, prevTotal)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s:\n", category.Icon("income"), category.Name("income"), MonthDisplay(now.Format("01"), now.Format("2006")))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("salary"), category.Name("salary"), FormatVND(salary))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("freelance"), category.Name("freelance"), FormatVND(freelance))
	fmt.Fprintf(&b, "%s %s: %s\n", category.Icon("total"), category.Name("total"), FormatVND(total))
	fmt.Fprintf(&b, "%s %s %s: %s VND%s\n",
		category.Icon("compare"), category.Name("compare"), prevMonth, formatSigned(change.Delta), change.Suffix())
	return b.String(), nil
}

// SetSalary records the month's salary (typed in thousands) in its
// metadata cell.
func (s *Service) SetSalary(ctx context.Context, offset int, amount int64) (string, error) {
	return s.setIncomeCell(ctx, offset, amount, sheetstore.SalaryCell, "lương")
}

// SetFreelance records the month's freelance income in its metadata cell.
func (s *Service) SetFreelance(ctx context.Context, offset int, amount int64) (string, error) {
	return s.setIncomeCell(ctx, offset, amount, sheetstore.FreelanceCell, "freelance")
}

func (s *Service) setIncomeCell(ctx context.Context, offset int, amount int64, cellRef, label string) (string, error) {
	now := s.now().AddDate(0, offset, 0)
	month := now.Format("01/2006")

	scaled := amount * 1000
	if err := s.store.EnsureSheet(ctx, month); err != nil {
		return "", fmt.Errorf("record %s: %w", label, err)
	}
	if err := s.store.UpdateCells(ctx, month, map[string]any{cellRef: scaled}); err != nil {
		return "", fmt.Errorf("record %s: %w", label, err)
	}
	s.data.Invalidate(month)

	return fmt.Sprintf("✅ Đã ghi nhận thu nhập %s %s: %s",
		label, MonthDisplay(now.Format("01"), now.Format("2006")), FormatVND(scaled)), nil
}

// SyncConfig pushes the configured income and budget percentages into
// next month's metadata cells, creating the tab when needed.
func (s *Service) SyncConfig(ctx context.Context) (string, error) {
	next := s.now().AddDate(0, 1, 0)
	month := next.Format("01/2006")
	display := MonthDisplay(next.Format("01"), next.Format("2006"))

	if err := s.store.EnsureSheet(ctx, month); err != nil {
		return "", fmt.Errorf("sync config to %s: %w", month, err)
	}

	values := map[string]any{
		sheetstore.SalaryCell:    s.income.Salary,
		sheetstore.FreelanceCell: s.income.Freelance,
	}
	for cat, ref := range sheetstore.CategoryCells {
		values[ref] = fmt.Sprintf("%g%%", s.budgets[string(cat)])
	}
	if err := s.store.UpdateCells(ctx, month, values); err != nil {
		return "", fmt.Errorf("sync config to %s: %w", month, err)
	}
	s.data.Invalidate(month)

	return fmt.Sprintf("🔄 Đồng bộ cấu hình %s thành công!", display), nil
}

// SortMonth rewrites a month's rows ordered by date then time.
func (s *Service) SortMonth(ctx context.Context, offset int) (string, error) {
	now := s.now().AddDate(0, offset, 0)
	month := now.Format("01/2006")

	values, err := s.data.Rows(ctx, month)
	if err != nil {
		return "", fmt.Errorf("sort month: %w", err)
	}
	if len(values) <= 2 {
		return "Không có dữ liệu để sắp xếp.", nil
	}

	dataRows := values[1:]
	sort.SliceStable(dataRows, func(i, j int) bool {
		return parseRowKey(dataRows[i]) < parseRowKey(dataRows[j])
	})

	out := make([][]any, len(dataRows))
	for i, row := range dataRows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// Amounts back to plain integers so the rewrite stays RAW-safe.
		if len(row) > 2 && row[2] != "" {
			cells[2] = textnorm.SafeInt(row[2])
		}
		out[i] = cells
	}

	if err := s.store.ReplaceRows(ctx, month, out); err != nil {
		return "", fmt.Errorf("sort month: %w", err)
	}
	s.data.Invalidate(month)

	return fmt.Sprintf("%s thành công %d mục trong bảng %s.", category.Icon("sort"), len(out), month), nil
}

// monthIncome reads the income cells with config fallback.
func (s *Service) monthIncome(ctx context.Context, month string) int64 {
	salary, freelance := s.incomeCells(ctx, month, true)
	return salary + freelance
}

// incomeCells reads salary and freelance for a month. With fallback
// enabled, empty cells take the configured income instead of zero.
func (s *Service) incomeCells(ctx context.Context, month string, fallback bool) (int64, int64) {
	cells, err := s.store.ReadCells(ctx, month, []string{sheetstore.SalaryCell, sheetstore.FreelanceCell})
	if err != nil {
		s.log.Warn().Err(err).Str("sheet", month).Msg("income cells unreadable")
		if fallback {
			return s.income.Salary, s.income.Freelance
		}
		return 0, 0
	}

	salary := textnorm.SafeInt(cells[sheetstore.SalaryCell])
	freelance := textnorm.SafeInt(cells[sheetstore.FreelanceCell])
	if fallback {
		if strings.TrimSpace(cells[sheetstore.SalaryCell]) == "" {
			salary = s.income.Salary
		}
		if strings.TrimSpace(cells[sheetstore.FreelanceCell]) == "" {
			freelance = s.income.Freelance
		}
	}
	return salary, freelance
}

// categoryPercentages reads the budget percentage cells with config
// fallback per category.
func (s *Service) categoryPercentages(ctx context.Context, month string) map[category.Category]float64 {
	out := map[category.Category]float64{}
	for cat := range sheetstore.CategoryCells {
		out[cat] = s.budgets[string(cat)]
	}

	refs := make([]string, 0, len(sheetstore.CategoryCells))
	byRef := map[string]category.Category{}
	for cat, ref := range sheetstore.CategoryCells {
		refs = append(refs, ref)
		byRef[ref] = cat
	}

	cells, err := s.store.ReadCells(ctx, month, refs)
	if err != nil {
		s.log.Warn().Err(err).Str("sheet", month).Msg("budget cells unreadable, using config")
		return out
	}
	for ref, raw := range cells {
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
		if raw == "" {
			continue
		}
		if v := textnorm.SafeInt(raw); v > 0 {
			out[byRef[ref]] = float64(v)
		}
	}
	return out
}
