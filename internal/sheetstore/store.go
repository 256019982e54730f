// Package sheetstore is the monthly-partition tabular backend. Each
// month lives in its own "MM/YYYY" tab with columns Date, Time, VND,
// Note; the asset tab adds a Unit column. Month metadata (income,
// budget percentages) sits in fixed cells on row 2.
package sheetstore

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// Metadata cells on row 2 of every monthly tab.
const (
	SalaryCell       = "I2"
	FreelanceCell    = "J2"
	TotalExpenseCell = "G2"
)

// Ranges for row reads. Expense tabs use four columns, the asset tab five.
const (
	ExpenseRange = "A:D"
	AssetRange   = "A:E"
)

// CategoryCells maps budget categories to their percentage cells.
var CategoryCells = map[category.Category]string{
	category.FoodAndTravel:         "L2",
	category.Rent:                  "M2",
	category.LongInvestment:        "N2",
	category.OpportunityInvestment: "O2",
	category.SupportParent:         "P2",
	category.Dating:                "Q2",
}

// ExpenseHeader is the header row written to tabs created without a template.
var ExpenseHeader = []string{"Date", "Time", "VND", "Note"}

// Store is the operation set the engine needs from the spreadsheet.
// Row indexes are 1-based and include the header row, matching the
// spreadsheet UI.
type Store interface {
	// EnsureSheet creates the named tab from the template if it does
	// not exist yet, seeding its metadata cells.
	EnsureSheet(ctx context.Context, name string) error

	// ReadRows returns raw values for the given A1 range, header included.
	ReadRows(ctx context.Context, name, readRange string) ([][]string, error)

	// AppendRows appends data rows after the last non-empty row.
	AppendRows(ctx context.Context, name string, rows [][]any) error

	// DeleteRow removes one row by its 1-based index.
	DeleteRow(ctx context.Context, name string, row int) error

	// ReadCells fetches single metadata cells by A1 reference.
	ReadCells(ctx context.Context, name string, cells []string) (map[string]string, error)

	// UpdateCells writes metadata cells by A1 reference.
	UpdateCells(ctx context.Context, name string, values map[string]any) error

	// ReplaceRows clears the data region and rewrites it, keeping the header.
	ReplaceRows(ctx context.Context, name string, rows [][]any) error

	// SheetTitles lists all tab names in the spreadsheet.
	SheetTitles(ctx context.Context) ([]string, error)
}

// RowsToRecords converts raw sheet values into records, skipping the
// header and rows with neither a date nor an amount.
func RowsToRecords(values [][]string) []domain.Record {
	if len(values) < 2 {
		return nil
	}
	records := make([]domain.Record, 0, len(values)-1)
	for _, row := range values[1:] {
		r := domain.Record{
			Date:   strings.TrimSpace(cell(row, 0)),
			Time:   strings.TrimSpace(cell(row, 1)),
			Amount: textnorm.SafeInt(cell(row, 2)),
			Note:   strings.TrimSpace(cell(row, 3)),
		}
		if r.Date != "" || r.Amount != 0 {
			records = append(records, r)
		}
	}
	return records
}

// RowsToAssetRecords converts raw asset tab values, including the unit
// column. Unparseable units become zero.
func RowsToAssetRecords(values [][]string) []domain.AssetRecord {
	if len(values) < 2 {
		return nil
	}
	records := make([]domain.AssetRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		unit, err := decimal.NewFromString(strings.TrimSpace(cell(row, 4)))
		if err != nil {
			unit = decimal.Zero
		}
		r := domain.AssetRecord{
			Date:   strings.TrimSpace(cell(row, 0)),
			Time:   strings.TrimSpace(cell(row, 1)),
			Amount: textnorm.SafeInt(cell(row, 2)),
			Note:   strings.TrimSpace(cell(row, 3)),
			Unit:   unit,
		}
		if r.Date != "" || r.Amount != 0 || !r.Unit.IsZero() {
			records = append(records, r)
		}
	}
	return records
}

// RecordRow renders a record in column order for an append.
func RecordRow(r domain.Record) []any {
	return []any{r.Date, r.Time, r.Amount, r.Note}
}

// AssetRecordRow renders an asset record in column order.
func AssetRecordRow(r domain.AssetRecord) []any {
	return []any{r.Date, r.Time, r.Amount, r.Note, r.Unit.String()}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
