package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
)

// fixedNow pins the clock to Thursday 04/09/2025 14:05:09.
func fixedNow() time.Time {
	return time.Date(2025, 9, 4, 14, 5, 9, 0, time.UTC)
}

func TestParseEntry(t *testing.T) {
	p := New(fixedNow)

	tests := []struct {
		name  string
		input string
		want  domain.Draft
	}{
		{
			name:  "case A amount with shortcut note",
			input: "5 c",
			want: domain.Draft{
				Date: "04/09", Time: "14:05:09", Amount: 5000,
				Note: "cafe", Month: "09/2025",
			},
		},
		{
			name:  "case A bare amount needs note",
			input: "15",
			want: domain.Draft{
				Date: "04/09", Time: "14:05:09", Amount: 15000,
				Note: "", Month: "09/2025", NeedsNote: true,
			},
		},
		{
			name:  "case A multi token note",
			input: "120 ăn tối với bạn",
			want: domain.Draft{
				Date: "04/09", Time: "14:05:09", Amount: 120000,
				Note: "ăn tối với bạn", Month: "09/2025",
			},
		},
		{
			name:  "case B date and amount",
			input: "2/9 5 c",
			want: domain.Draft{
				Date: "02/09", Time: "00:00:00", Amount: 5000,
				Note: "cafe", Month: "09/2025",
			},
		},
		{
			name:  "case B without note gets default",
			input: "02/09 5",
			want: domain.Draft{
				Date: "02/09", Time: "00:00:00", Amount: 5000,
				Note: DefaultNote, Month: "09/2025",
			},
		},
		{
			name:  "case C full form",
			input: "02/09 08h30s10 10 s",
			want: domain.Draft{
				Date: "02/09", Time: "08:30:10", Amount: 10000,
				Note: "ăn sáng", Month: "09/2025",
			},
		},
		{
			name:  "case C colon time",
			input: "02/09 08:30 15 t",
			want: domain.Draft{
				Date: "02/09", Time: "08:30:00", Amount: 15000,
				Note: "ăn trưa", Month: "09/2025",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseEntry(tt.input)
			if err != nil {
				t.Fatalf("ParseEntry(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseEntry(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseEntry_Rejects(t *testing.T) {
	p := New(fixedNow)

	inputs := []string{
		"",
		"ăn trưa 50",      // note before amount
		"02/09 cafe",      // date without amount
		"02/09 08:30 t 5", // time before amount but note in amount slot
		"abc",
	}
	for _, input := range inputs {
		if _, err := p.ParseEntry(input); !errors.Is(err, ErrFormat) {
			t.Errorf("ParseEntry(%q) error = %v, want ErrFormat", input, err)
		}
	}
}

func TestParseDelete(t *testing.T) {
	p := New(fixedNow)

	tests := []struct {
		name  string
		input string
		want  domain.DeleteRequest
	}{
		{
			name:  "time only targets today",
			input: "del 08h30",
			want:  domain.DeleteRequest{Date: "04/09", Time: "08:30:00", Month: "09/2025"},
		},
		{
			name:  "date and time",
			input: "del 14/10 00h11",
			want:  domain.DeleteRequest{Date: "14/10", Time: "00:11:00", Month: "10/2025"},
		},
		{
			name:  "with seconds",
			input: "del 14/10 10h30s45",
			want:  domain.DeleteRequest{Date: "14/10", Time: "10:30:45", Month: "10/2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseDelete(tt.input)
			if err != nil {
				t.Fatalf("ParseDelete(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDelete(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseDelete_Rejects(t *testing.T) {
	p := New(fixedNow)
	if _, err := p.ParseDelete("del"); !errors.Is(err, ErrFormat) {
		t.Errorf("ParseDelete(\"del\") error = %v, want ErrFormat", err)
	}
}

func TestExpandShortcuts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"c", "cafe"},
		{"t", "ăn trưa"},
		{"C", "cafe"},
		{"cafe sua", "cafe sua"},
		{"g về nhà", "grab về nhà"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandShortcuts(tt.input); got != tt.want {
			t.Errorf("ExpandShortcuts(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
