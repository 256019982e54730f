package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestWindowRange(t *testing.T) {
	// Thursday 04/09/2025.
	today := date(2025, 9, 4)

	tests := []struct {
		name       string
		window     Window
		start, end civil.Date
	}{
		{"current day", Window{WindowDay, 0}, date(2025, 9, 4), date(2025, 9, 4)},
		{"yesterday", Window{WindowDay, -1}, date(2025, 9, 3), date(2025, 9, 3)},
		{"current week", Window{WindowWeek, 0}, date(2025, 9, 1), date(2025, 9, 7)},
		{"last week", Window{WindowWeek, -1}, date(2025, 8, 25), date(2025, 8, 31)},
		{"next week", Window{WindowWeek, 1}, date(2025, 9, 8), date(2025, 9, 14)},
		{"current month", Window{WindowMonth, 0}, date(2025, 9, 1), date(2025, 9, 30)},
		{"last month", Window{WindowMonth, -1}, date(2025, 8, 1), date(2025, 8, 31)},
		{"next month", Window{WindowMonth, 1}, date(2025, 10, 1), date(2025, 10, 31)},
		{"nine months back crosses the year", Window{WindowMonth, -9}, date(2024, 12, 1), date(2024, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.window.Range(today)
			if start != tt.start || end != tt.end {
				t.Errorf("Range = %v .. %v, want %v .. %v", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestWindowPrevious(t *testing.T) {
	prev := Window{Kind: WindowMonth, Offset: 0}.Previous()
	if prev.Offset != -1 {
		t.Errorf("Previous offset = %d, want -1", prev.Offset)
	}

	today := date(2025, 9, 4)
	start, end := prev.Range(today)
	if start != date(2025, 8, 1) || end != date(2025, 8, 31) {
		t.Errorf("previous month = %v .. %v, want August 2025", start, end)
	}
}

func TestWindowPartitions(t *testing.T) {
	// Week Mon 29/12/2025 - Sun 04/01/2026 straddles the year boundary.
	today := date(2025, 12, 31)
	got := Window{Kind: WindowWeek, Offset: 0}.Partitions(today)
	want := []string{"12/2025", "01/2026"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Partitions = %v, want %v", got, want)
	}

	got = Window{Kind: WindowMonth, Offset: -1}.Partitions(today)
	if len(got) != 1 || got[0] != "11/2025" {
		t.Errorf("Partitions = %v, want [11/2025]", got)
	}
}
