package textnorm

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"pads day and month", "4/9", "04/09"},
		{"pads day only", "4/10", "04/10"},
		{"already padded", "25/12", "25/12"},
		{"single token passes through", "tomorrow", "tomorrow"},
		{"too many parts passes through", "1/2/3", "1/2/3"},
		{"trims malformed input", "  4-9 ", "4-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hour shorthand", "10h", "10:00:00"},
		{"single digit hour", "1h", "01:00:00"},
		{"hour and minute", "10h30", "10:30:00"},
		{"single digit minute", "8h5", "08:05:00"},
		{"hour minute second", "10h30s45", "10:30:45"},
		{"colon without seconds", "10:05", "10:05:00"},
		{"full colon form unchanged", "10:05:30", "10:05:30"},
		{"uppercase and spaces", " 8H 30 ", "08:30:00"},
		{"bare h", "h", "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.input); got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips accents", "Cà phê sữa", "ca phe sua"},
		{"maps dj", "đi chợ", "di cho"},
		{"maps capital dj", "Đà Nẵng", "da nang"},
		{"collapses whitespace", "  ăn   sáng  ", "an sang"},
		{"nbsp treated as space", "tiền nhà", "tien nha"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasKeyword(t *testing.T) {
	tests := []struct {
		name     string
		note     string
		keywords []string
		want     bool
	}{
		{"single word exact token", "an trua voi ban", []string{"an"}, true},
		{"single word no partial match", "bantam", []string{"an"}, false},
		{"multi word substring", "mua ca phe sua da", []string{"ca phe"}, true},
		{"multi word not present", "tra sua", []string{"ca phe"}, false},
		{"case insensitive", "Grab ve nha", []string{"grab"}, true},
		{"no keywords", "anything", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasKeyword(tt.note, tt.keywords); got != tt.want {
				t.Errorf("HasKeyword(%q, %v) = %v, want %v", tt.note, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestSafeInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"plain digits", "5000", 5000},
		{"thousand separators", "1,200,000", 1200000},
		{"currency suffix", "35000 VND", 35000},
		{"currency symbol", "₫12.500", 12500},
		{"empty", "", 0},
		{"no digits", "n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeInt(tt.input); got != tt.want {
				t.Errorf("SafeInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
