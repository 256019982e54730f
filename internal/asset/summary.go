package asset

import (
	"github.com/shopspring/decimal"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
)

// BasisSummary aggregates purchase cost per instrument. Other collects
// asset rows whose note matches no instrument keyword.
type BasisSummary struct {
	ByInstrument map[Instrument]int64
	Other        int64
	Total        int64
	Purchases    []domain.AssetRecord
}

// Long sums the long-term instruments' cost basis.
func (s BasisSummary) Long() int64 {
	return s.ByInstrument[Gold] + s.ByInstrument[ETF] + s.ByInstrument[DCDS] + s.ByInstrument[VESAF]
}

// Opportunity sums the opportunity instruments' cost basis.
func (s BasisSummary) Opportunity() int64 {
	return s.ByInstrument[Bitcoin] + s.ByInstrument[Ethereum]
}

// Summarize builds the cost-basis view of the asset rows. Zero-amount
// rows are skipped.
func Summarize(records []domain.AssetRecord) BasisSummary {
	s := BasisSummary{ByInstrument: make(map[Instrument]int64)}
	for _, r := range records {
		if r.Amount == 0 {
			continue
		}
		s.Purchases = append(s.Purchases, r)
		s.Total += r.Amount
		if instrument, ok := ClassifyInstrument(r.Note); ok {
			s.ByInstrument[instrument] += r.Amount
		} else {
			s.Other += r.Amount
		}
	}
	return s
}

// ProfitSummary re-prices held units per instrument. Rows without a
// stored unit are excluded since they cannot be re-priced.
type ProfitSummary struct {
	ByInstrument map[Instrument]decimal.Decimal
	Total        decimal.Decimal
}

// Long sums the long-term instruments' present value.
func (s ProfitSummary) Long() decimal.Decimal {
	return s.ByInstrument[Gold].Add(s.ByInstrument[ETF]).Add(s.ByInstrument[DCDS]).Add(s.ByInstrument[VESAF])
}

// Opportunity sums the opportunity instruments' present value.
func (s ProfitSummary) Opportunity() decimal.Decimal {
	return s.ByInstrument[Bitcoin].Add(s.ByInstrument[Ethereum])
}

// Revalue computes the present value of every priced holding.
func Revalue(records []domain.AssetRecord, prices Prices) ProfitSummary {
	s := ProfitSummary{ByInstrument: make(map[Instrument]decimal.Decimal)}
	for _, r := range records {
		if r.Unit.IsZero() {
			continue
		}
		instrument, ok := ClassifyInstrument(r.Note)
		if !ok {
			continue
		}
		value := PresentValue(r.Unit, prices.Price(instrument))
		s.ByInstrument[instrument] = s.ByInstrument[instrument].Add(value)
	}
	for _, i := range Instruments {
		s.Total = s.Total.Add(s.ByInstrument[i])
	}
	return s
}
