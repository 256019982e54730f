// Package asset values investment purchases. Each buy row stores the
// unit quantity bought at that day's price; present value re-prices
// the accumulated units with current feeds.
package asset

import (
	"github.com/shopspring/decimal"

	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// Instrument identifies a tracked asset class.
type Instrument string

const (
	Gold     Instrument = "gold"
	ETF      Instrument = "etf"
	DCDS     Instrument = "dcds"
	VESAF    Instrument = "vesaf"
	Bitcoin  Instrument = "bitcoin"
	Ethereum Instrument = "ethereum"
)

// Instruments in report order. Gold through VESAF form the long-term
// group, Bitcoin and Ethereum the opportunity group.
var Instruments = []Instrument{Gold, ETF, DCDS, VESAF, Bitcoin, Ethereum}

// LongTerm reports whether the instrument belongs to the long-term group.
func (i Instrument) LongTerm() bool {
	switch i {
	case Gold, ETF, DCDS, VESAF:
		return true
	}
	return false
}

// DisplayName is the label used in asset reports.
func (i Instrument) DisplayName() string {
	switch i {
	case Gold:
		return "🏅 Vàng"
	case ETF:
		return "🧾 ETF"
	case DCDS:
		return "📊 DCDS"
	case VESAF:
		return "📈 VESAF"
	case Bitcoin:
		return "₿ Bitcoin"
	case Ethereum:
		return "✨ Ethereum"
	}
	return string(i)
}

// instrument keyword rules, evaluated in order.
var instrumentKeywords = []struct {
	instrument Instrument
	keywords   []string
}{
	{Gold, []string{"vàng"}},
	{ETF, []string{"etf"}},
	{DCDS, []string{"dcds"}},
	{VESAF, []string{"vesaf"}},
	{Bitcoin, []string{"btc"}},
	{Ethereum, []string{"eth"}},
}

// ClassifyInstrument matches a note to its instrument. The second
// return is false for notes that are not asset purchases.
func ClassifyInstrument(note string) (Instrument, bool) {
	for _, rule := range instrumentKeywords {
		if textnorm.HasKeyword(note, rule.keywords) {
			return rule.instrument, true
		}
	}
	return "", false
}

// Unit computes the quantity bought: amount divided by price, rounded
// to 4 decimal places. A zero or missing price yields zero units.
func Unit(amount int64, price decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(amount).Div(price).Round(4)
}

// PresentValue re-prices a unit quantity, rounded to 2 decimal places.
func PresentValue(unit, price decimal.Decimal) decimal.Decimal {
	return unit.Mul(price).Round(2)
}
