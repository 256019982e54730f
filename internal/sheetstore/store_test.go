package sheetstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
)

func TestRowsToRecords(t *testing.T) {
	values := [][]string{
		{"Date", "Time", "VND", "Note"},
		{"02/09", "08:30:00", "5,000", "cafe"},
		{"03/09", "12:00:00", "15000", "ăn trưa"},
		{"", "", "", ""},             // blank row dropped
		{"04/09"},                    // short row kept, defaults filled
		{"", "", "0", "ghost entry"}, // no date, zero amount: dropped
	}

	want := []domain.Record{
		{Date: "02/09", Time: "08:30:00", Amount: 5000, Note: "cafe"},
		{Date: "03/09", Time: "12:00:00", Amount: 15000, Note: "ăn trưa"},
		{Date: "04/09"},
	}

	if diff := cmp.Diff(want, RowsToRecords(values)); diff != "" {
		t.Errorf("RowsToRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsToRecords_HeaderOnly(t *testing.T) {
	if got := RowsToRecords([][]string{{"Date", "Time", "VND", "Note"}}); got != nil {
		t.Errorf("expected nil for header-only input, got %v", got)
	}
	if got := RowsToRecords(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestRowsToAssetRecords(t *testing.T) {
	values := [][]string{
		{"Date", "Time", "VND", "Note", "Unit"},
		{"02/09/2025", "08:30:00", "1200000", "mua etf", "38.5120"},
		{"03/09/2025", "09:00:00", "500000", "mua btc", "not-a-number"},
	}

	got := RowsToAssetRecords(values)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Unit.Equal(decimal.RequireFromString("38.5120")) {
		t.Errorf("Unit = %s, want 38.5120", got[0].Unit)
	}
	if !got[1].Unit.IsZero() {
		t.Errorf("unparseable unit = %s, want 0", got[1].Unit)
	}
}

func TestRecordRow(t *testing.T) {
	r := domain.Record{Date: "02/09", Time: "08:30:00", Amount: 5000, Note: "cafe"}
	row := RecordRow(r)
	want := []any{"02/09", "08:30:00", int64(5000), "cafe"}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Errorf("RecordRow mismatch (-want +got):\n%s", diff)
	}
}
