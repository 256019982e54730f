package category

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		note string
		want Category
	}{
		{"food keyword", "ăn trưa", Food},
		{"transport keyword", "grab về nhà", Gas},
		{"rent multi word", "thuê nhà tháng 9", Rent},
		{"dating keyword", "xem phim", Dating},
		{"long investment", "mua etf", LongInvestment},
		{"opportunity investment", "mua sol", OpportunityInvestment},
		{"support parent", "gửi mẹ tiền chợ", SupportParent},
		{"no match falls to other", "mua sách", Other},
		{"empty note", "", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.note); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.note, got, tt.want)
			}
		})
	}
}

// A note matching several keyword sets must land in the earliest rule.
func TestClassify_FirstMatchWins(t *testing.T) {
	// "ăn" is a food keyword, "hẹn hò" a dating keyword.
	if got := Classify("ăn tối hẹn hò"); got != Food {
		t.Errorf("Classify = %q, want %q", got, Food)
	}
	// "xăng" (transport) precedes "date" (dating).
	if got := Classify("đổ xăng trước khi date"); got != Gas {
		t.Errorf("Classify = %q, want %q", got, Gas)
	}
}

func TestClassify_TokenBoundary(t *testing.T) {
	// "eth" must match as a whole token only.
	if got := Classify("method tham khảo"); got == LongInvestment {
		t.Error("partial token matched an investment keyword")
	}
	if got := Classify("mua eth"); got != LongInvestment {
		t.Errorf("Classify = %q, want %q", got, LongInvestment)
	}
}

func TestClassifyWith_CustomOrder(t *testing.T) {
	rules := []Rule{
		{Dating, []string{"ăn"}},
		{Food, []string{"ăn"}},
	}
	if got := ClassifyWith(rules, "ăn tối"); got != Dating {
		t.Errorf("ClassifyWith = %q, want %q", got, Dating)
	}
}

func TestEssential(t *testing.T) {
	for _, c := range []Category{Food, Gas, Rent, Other} {
		if !c.Essential() {
			t.Errorf("%q should be essential", c)
		}
	}
	for _, c := range []Category{Dating, LongInvestment, OpportunityInvestment, SupportParent} {
		if c.Essential() {
			t.Errorf("%q should not be essential", c)
		}
	}
}

func TestIconAndName_UnknownKey(t *testing.T) {
	if got := Icon("nonexistent"); got != "📝" {
		t.Errorf("Icon fallback = %q", got)
	}
	if got := Name("nonexistent"); got != "nonexistent" {
		t.Errorf("Name fallback = %q", got)
	}
}
