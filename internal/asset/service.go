package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/sheetstore"
)

// DataSource reads sheet rows, normally through the TTL cache.
type DataSource interface {
	Rows(ctx context.Context, sheet string) ([][]string, error)
	AssetRows(ctx context.Context, sheet string) ([][]string, error)
	Invalidate(sheet string)
}

// RowStore covers the direct writes the asset tab needs.
type RowStore interface {
	AppendRows(ctx context.Context, name string, rows [][]any) error
	ReplaceRows(ctx context.Context, name string, rows [][]any) error
	SheetTitles(ctx context.Context) ([]string, error)
}

// PriceSource fetches current instrument prices.
type PriceSource interface {
	Fetch(ctx context.Context) Prices
}

// Service answers asset queries and maintains the asset tab.
type Service struct {
	data   DataSource
	store  RowStore
	prices PriceSource
	sheet  string
	now    func() time.Time
	log    zerolog.Logger
}

// New builds an asset service over the given data source and store.
// now defaults to time.Now when nil.
func New(data DataSource, store RowStore, prices PriceSource, assetSheet string, now func() time.Time, log zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		data:   data,
		store:  store,
		prices: prices,
		sheet:  assetSheet,
		now:    now,
		log:    log,
	}
}

// PrepareRecord builds the asset row for an investment purchase: the
// date gains its year and the bought unit quantity is derived from the
// current price of the matched instrument. Entries whose note matches
// no instrument are not asset purchases and return false.
func (s *Service) PrepareRecord(d domain.Draft, prices Prices) (domain.AssetRecord, bool) {
	instrument, ok := ClassifyInstrument(d.Note)
	if !ok {
		return domain.AssetRecord{}, false
	}
	year, err := domain.PartitionYear(d.Month)
	if err != nil {
		year = s.now().Year()
	}
	return domain.AssetRecord{
		Date:   fmt.Sprintf("%s/%d", d.Date, year),
		Time:   d.Time,
		Amount: d.Amount,
		Note:   d.Note,
		Unit:   Unit(d.Amount, prices.Price(instrument)),
	}, true
}

// RecordPurchase mirrors an investment expense into the asset tab,
// priced at entry time. Entries that match no instrument are ignored.
func (s *Service) RecordPurchase(ctx context.Context, d domain.Draft) error {
	rec, ok := s.PrepareRecord(d, s.prices.Fetch(ctx))
	if !ok {
		return nil
	}
	if err := s.store.AppendRows(ctx, s.sheet, [][]any{sheetstore.AssetRecordRow(rec)}); err != nil {
		return fmt.Errorf("append asset purchase: %w", err)
	}
	s.data.Invalidate(s.sheet)
	s.log.Info().Str("date", rec.Date).Str("unit", rec.Unit.String()).Str("note", rec.Note).Msg("asset purchase recorded")
	return nil
}

// AssetsReport renders total holdings at cost next to their present
// value, with per-purchase details.
func (s *Service) AssetsReport(ctx context.Context) (string, error) {
	records, err := s.records(ctx)
	if err != nil {
		return "", err
	}
	basis := Summarize(records)
	profit := Revalue(records, s.prices.Fetch(ctx))
	return renderAssets(basis, profit), nil
}

// ProfitReport renders present values and per-instrument gains.
func (s *Service) ProfitReport(ctx context.Context) (string, error) {
	records, err := s.records(ctx)
	if err != nil {
		return "", err
	}
	basis := Summarize(records)
	profit := Revalue(records, s.prices.Fetch(ctx))
	return renderProfit(basis, profit), nil
}

// PriceReport renders the current feed quotes.
func (s *Service) PriceReport(ctx context.Context) string {
	return renderPrices(s.prices.Fetch(ctx))
}

// records sorts the asset tab, then reads it back as records.
func (s *Service) records(ctx context.Context) ([]domain.AssetRecord, error) {
	if err := s.SortByDate(ctx); err != nil {
		s.log.Error().Err(err).Str("sheet", s.sheet).Msg("sort asset rows")
	}
	values, err := s.data.AssetRows(ctx, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read asset rows: %w", err)
	}
	return sheetstore.RowsToAssetRecords(values), nil
}

// SortByDate rewrites the asset tab ordered by purchase date.
func (s *Service) SortByDate(ctx context.Context) error {
	values, err := s.data.AssetRows(ctx, s.sheet)
	if err != nil {
		return fmt.Errorf("read asset rows: %w", err)
	}
	records := sheetstore.RowsToAssetRecords(values)
	if len(records) == 0 {
		return nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		ki, kj := dateSortKey(records[i].Date), dateSortKey(records[j].Date)
		if ki != kj {
			return ki < kj
		}
		return records[i].Time < records[j].Time
	})

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, sheetstore.AssetRecordRow(r))
	}
	if err := s.store.ReplaceRows(ctx, s.sheet, rows); err != nil {
		return fmt.Errorf("rewrite asset rows: %w", err)
	}
	s.data.Invalidate(s.sheet)
	return nil
}

// Migrate collects investment purchases from every month tab of the
// current year into the asset tab, dates qualified with the year and
// ordered chronologically. Months whose tab does not exist or cannot
// be read are skipped.
func (s *Service) Migrate(ctx context.Context) (string, error) {
	year := s.now().Year()

	titles, err := s.store.SheetTitles(ctx)
	if err != nil {
		return "", fmt.Errorf("list sheets: %w", err)
	}
	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[t] = true
	}

	var collected []domain.AssetRecord
	for month := 1; month <= 12; month++ {
		partition := fmt.Sprintf("%02d/%d", month, year)
		if !existing[partition] {
			continue
		}
		values, err := s.data.Rows(ctx, partition)
		if err != nil {
			s.log.Error().Err(err).Str("sheet", partition).Msg("read month for asset migration")
			continue
		}
		collected = append(collected, investmentPurchases(sheetstore.RowsToRecords(values), year)...)
	}
	if len(collected) == 0 {
		return "", fmt.Errorf("no investment rows found for %d", year)
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return dateSortKey(collected[i].Date) < dateSortKey(collected[j].Date)
	})

	rows := make([][]any, 0, len(collected))
	for _, r := range collected {
		rows = append(rows, []any{r.Date, r.Time, r.Amount, r.Note})
	}
	if err := s.store.AppendRows(ctx, s.sheet, rows); err != nil {
		return "", fmt.Errorf("append migrated rows: %w", err)
	}
	s.data.Invalidate(s.sheet)

	return migrateDisplay + " thành công!", nil
}

// investmentPurchases keeps month rows whose note names an instrument,
// with the year appended to their DD/MM dates.
func investmentPurchases(records []domain.Record, year int) []domain.AssetRecord {
	var out []domain.AssetRecord
	for _, r := range records {
		if _, ok := ClassifyInstrument(r.Note); !ok {
			continue
		}
		date := strings.TrimSpace(r.Date)
		if date != "" && len(strings.Split(date, "/")) == 2 {
			date = fmt.Sprintf("%s/%d", date, year)
		}
		out = append(out, domain.AssetRecord{
			Date:   date,
			Time:   r.Time,
			Amount: r.Amount,
			Note:   r.Note,
		})
	}
	return out
}
