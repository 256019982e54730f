// Package category assigns expense notes to spending categories using
// an ordered keyword rule list. The first matching rule wins, so every
// note lands in exactly one category.
package category

import "github.com/ngthanhdat199/cashpilot/internal/textnorm"

// Category identifies a spending bucket. The string value doubles as
// the budget key in config and the metadata cell key on the sheet.
type Category string

const (
	Food                  Category = "food"
	Gas                   Category = "gas"
	Rent                  Category = "rent"
	Dating                Category = "dating"
	LongInvestment        Category = "long_investment"
	OpportunityInvestment Category = "opportunity_investment"
	SupportParent         Category = "support_parent"
	Other                 Category = "other"

	// FoodAndTravel is the budget group covering Food plus Gas. It is
	// never assigned by Classify; budgets track it as one bucket.
	FoodAndTravel Category = "food_and_travel"

	// Investment is the report group covering both investment buckets.
	Investment Category = "investment"
)

// Rule pairs a category with the keywords that select it.
type Rule struct {
	Category Category
	Keywords []string
}

// Keyword sets are matched against the raw lowercased note, accents
// included, since notes are stored with full diacritics.
var defaultRules = []Rule{
	{Food, []string{"ăn", "cơm", "hủ tiếu", "bánh cuốn", "uống", "nước"}},
	{Gas, []string{"grab", "giao hàng", "taxi", "bus", "gửi xe", "xăng"}},
	{Rent, []string{"thuê nhà"}},
	{Dating, []string{"hanuri", "matcha", "lẩu", "cá", "ốc", "bingsu", "kem", "phở", "hải sản", "mì cay", "gà rán", "dimsum", "cafe", "xem phim", "cơm gà", "pizza", "hẹn hò", "date"}},
	{LongInvestment, []string{"chứng khoán", "cổ phiếu", "etf", "bitcoin", "btc", "ethereum", "eth"}},
	{OpportunityInvestment, []string{"crypto", "altcoin", "sol", "avax", "link", "growth stock", "small-cap", "thematic etf", "cổ phiếu tăng trưởng"}},
	{SupportParent, []string{"gửi mẹ"}},
}

// Rules returns the ordered rule list. The slice is a copy; callers
// may reorder or extend it without affecting the default classifier.
func Rules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Classify assigns a note to the first matching rule's category, or
// Other when nothing matches.
func Classify(note string) Category {
	return ClassifyWith(defaultRules, note)
}

// ClassifyWith runs an explicit rule list over the note in order.
func ClassifyWith(rules []Rule, note string) Category {
	for _, rule := range rules {
		if textnorm.HasKeyword(note, rule.Keywords) {
			return rule.Category
		}
	}
	return Other
}

// Essential reports whether the category counts toward essential
// spending (food, travel, rent and uncategorized).
func (c Category) Essential() bool {
	switch c {
	case Food, Gas, Rent, Other:
		return true
	}
	return false
}

// InvestmentGroup reports whether the category is an investment bucket.
func (c Category) InvestmentGroup() bool {
	return c == LongInvestment || c == OpportunityInvestment
}
