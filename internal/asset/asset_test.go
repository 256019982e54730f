package asset

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
)

func TestClassifyInstrument(t *testing.T) {
	tests := []struct {
		note    string
		want    Instrument
		matched bool
	}{
		{"mua vàng sjc", Gold, true},
		{"mua ETF", ETF, true},
		{"nạp dcds", DCDS, true},
		{"vesaf tháng 9", VESAF, true},
		{"mua btc", Bitcoin, true},
		{"eth dca", Ethereum, true},
		{"ethernet cable", "", false},
		{"ăn trưa", "", false},
	}
	for _, tt := range tests {
		got, ok := ClassifyInstrument(tt.note)
		if ok != tt.matched || got != tt.want {
			t.Errorf("ClassifyInstrument(%q) = (%q, %v), want (%q, %v)", tt.note, got, ok, tt.want, tt.matched)
		}
	}
}

func TestUnit(t *testing.T) {
	unit := Unit(1000000, decimal.NewFromInt(33000))
	if got, want := unit.String(), "30.303"; got != want {
		t.Errorf("Unit = %s, want %s", got, want)
	}
	if !Unit(1000000, decimal.Zero).IsZero() {
		t.Error("Unit with zero price should be zero")
	}
}

func TestPresentValue(t *testing.T) {
	got := PresentValue(decimal.RequireFromString("30.303"), decimal.NewFromInt(35000))
	if want := "1060605"; got.String() != want {
		t.Errorf("PresentValue = %s, want %s", got, want)
	}
}

func TestSummarize(t *testing.T) {
	records := []domain.AssetRecord{
		{Date: "01/09/2025", Amount: 1000000, Note: "mua vàng"},
		{Date: "02/09/2025", Amount: 2000000, Note: "btc"},
		{Date: "03/09/2025", Amount: 500000, Note: "quỹ không tên"},
		{Date: "04/09/2025", Amount: 0, Note: "etf"},
	}
	s := Summarize(records)
	if s.Total != 3500000 {
		t.Errorf("Total = %d, want 3500000", s.Total)
	}
	if s.ByInstrument[Gold] != 1000000 || s.ByInstrument[Bitcoin] != 2000000 {
		t.Errorf("per-instrument basis wrong: %v", s.ByInstrument)
	}
	if s.Other != 500000 {
		t.Errorf("Other = %d, want 500000", s.Other)
	}
	if len(s.Purchases) != 3 {
		t.Errorf("Purchases = %d rows, want 3 (zero amount skipped)", len(s.Purchases))
	}
	if s.Long() != 1000000 || s.Opportunity() != 2000000 {
		t.Errorf("group sums wrong: long=%d opp=%d", s.Long(), s.Opportunity())
	}
}

func TestRevalue(t *testing.T) {
	records := []domain.AssetRecord{
		{Note: "mua vàng", Unit: decimal.RequireFromString("2.5")},
		{Note: "btc", Unit: decimal.RequireFromString("0.01")},
		{Note: "etf chưa có giá", Unit: decimal.Zero},
	}
	prices := Prices{Values: map[Instrument]decimal.Decimal{
		Gold:    decimal.NewFromInt(1000000),
		Bitcoin: decimal.NewFromInt(2000000000),
	}}
	s := Revalue(records, prices)
	if got := s.ByInstrument[Gold].String(); got != "2500000" {
		t.Errorf("gold present value = %s, want 2500000", got)
	}
	if got := s.ByInstrument[Bitcoin].String(); got != "20000000" {
		t.Errorf("bitcoin present value = %s, want 20000000", got)
	}
	if !s.ByInstrument[ETF].IsZero() {
		t.Error("zero-unit row must not contribute")
	}
	if got := s.Total.String(); got != "22500000" {
		t.Errorf("total = %s, want 22500000", got)
	}
}

func TestFeedClientFetch(t *testing.T) {
	workerJSON := `{"vesaf":31250.5,"dcds":92000,"etf":21500,"gold":12500000,"updated_at":"2025-09-04T01:00:00Z"}`
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.object" {
			t.Errorf("Accept header = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q", got)
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(workerJSON))
		fmt.Fprintf(w, `{"content":%q}`, encoded)
	}))
	defer worker.Close()

	coinbase := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/prices/BTC-USD/spot":
			fmt.Fprint(w, `{"data":{"amount":"60000"}}`)
		case "/v2/prices/ETH-USD/spot":
			fmt.Fprint(w, `{"data":{"amount":"3000"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer coinbase.Close()

	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"tether":{"vnd":25000}}`)
	}))
	defer coingecko.Close()

	c := NewFeedClient(worker.URL, "test-token", zerolog.Nop())
	c.CoinbaseURL = coinbase.URL
	c.CoinGeckoURL = coingecko.URL

	prices := c.Fetch(context.Background())
	if got := prices.Price(Gold).String(); got != "12500000" {
		t.Errorf("gold price = %s, want 12500000", got)
	}
	if got := prices.Price(VESAF).String(); got != "31250.5" {
		t.Errorf("vesaf price = %s, want 31250.5", got)
	}
	if got := prices.Price(Bitcoin).String(); got != "1500000000" {
		t.Errorf("bitcoin price = %s, want 1500000000", got)
	}
	if got := prices.Price(Ethereum).String(); got != "75000000" {
		t.Errorf("ethereum price = %s, want 75000000", got)
	}
	if got := prices.Rate.String(); got != "25000" {
		t.Errorf("rate = %s, want 25000", got)
	}
	if prices.UpdatedAt != "2025-09-04T01:00:00Z" {
		t.Errorf("UpdatedAt = %q", prices.UpdatedAt)
	}
}

func TestFeedClientDegradesPerFeed(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	coinbase := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":{"amount":"100"}}`)
	}))
	defer coinbase.Close()

	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"tether":{"vnd":25000}}`)
	}))
	defer coingecko.Close()

	c := NewFeedClient(failing.URL, "token", zerolog.Nop())
	c.CoinbaseURL = coinbase.URL
	c.CoinGeckoURL = coingecko.URL

	prices := c.Fetch(context.Background())
	if !prices.Price(Gold).IsZero() {
		t.Error("failed worker feed should leave gold at zero")
	}
	if got := prices.Price(Bitcoin).String(); got != "2500000" {
		t.Errorf("bitcoin price = %s, want 2500000 despite worker failure", got)
	}
}

type staticPrices struct{ prices Prices }

func (s staticPrices) Fetch(context.Context) Prices { return s.prices }

type fakeData struct {
	rows    map[string][][]string
	errs    map[string]error
	invalid []string
}

func (f *fakeData) Rows(_ context.Context, sheet string) ([][]string, error) {
	if err := f.errs[sheet]; err != nil {
		return nil, err
	}
	return f.rows[sheet], nil
}

func (f *fakeData) AssetRows(ctx context.Context, sheet string) ([][]string, error) {
	return f.Rows(ctx, sheet)
}

func (f *fakeData) Invalidate(sheet string) { f.invalid = append(f.invalid, sheet) }

type fakeStore struct {
	titles   []string
	appended map[string][][]any
	replaced map[string][][]any
}

func (f *fakeStore) AppendRows(_ context.Context, name string, rows [][]any) error {
	if f.appended == nil {
		f.appended = map[string][][]any{}
	}
	f.appended[name] = append(f.appended[name], rows...)
	return nil
}

func (f *fakeStore) ReplaceRows(_ context.Context, name string, rows [][]any) error {
	if f.replaced == nil {
		f.replaced = map[string][][]any{}
	}
	f.replaced[name] = rows
	return nil
}

func (f *fakeStore) SheetTitles(context.Context) ([]string, error) { return f.titles, nil }

func fixedNow() time.Time {
	return time.Date(2025, time.September, 4, 14, 5, 9, 0, time.UTC)
}

func TestPrepareRecord(t *testing.T) {
	svc := New(&fakeData{}, &fakeStore{}, staticPrices{}, "Assets", fixedNow, zerolog.Nop())

	prices := Prices{Values: map[Instrument]decimal.Decimal{ETF: decimal.NewFromInt(25000)}}
	draft := domain.Draft{Date: "04/09", Time: "14:05:09", Amount: 1000000, Note: "mua etf", Month: "09/2025"}

	rec, ok := svc.PrepareRecord(draft, prices)
	if !ok {
		t.Fatal("PrepareRecord should match etf note")
	}
	if rec.Date != "04/09/2025" {
		t.Errorf("Date = %q, want 04/09/2025", rec.Date)
	}
	if got := rec.Unit.String(); got != "40" {
		t.Errorf("Unit = %s, want 40", got)
	}

	if _, ok := svc.PrepareRecord(domain.Draft{Note: "ăn trưa", Month: "09/2025"}, prices); ok {
		t.Error("non-instrument note must not produce an asset record")
	}
}

func TestMigrate(t *testing.T) {
	data := &fakeData{
		rows: map[string][][]string{
			"09/2025": {
				{"Date", "Time", "VND", "Note"},
				{"02/09", "10:00:00", "1,000,000", "mua etf"},
				{"01/09", "09:00:00", "50,000", "ăn sáng"},
			},
			"01/2025": {
				{"Date", "Time", "VND", "Note"},
				{"15/01", "08:00:00", "2,000,000", "mua vàng"},
			},
		},
	}
	store := &fakeStore{titles: []string{"01/2025", "09/2025", "Assets"}}
	svc := New(data, store, staticPrices{}, "Assets", fixedNow, zerolog.Nop())

	msg, err := svc.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !strings.Contains(msg, "thành công") {
		t.Errorf("message = %q", msg)
	}

	rows := store.appended["Assets"]
	if len(rows) != 2 {
		t.Fatalf("appended %d rows, want 2", len(rows))
	}
	if rows[0][0] != "15/01/2025" || rows[1][0] != "02/09/2025" {
		t.Errorf("rows out of order: %v", rows)
	}
	if len(data.invalid) == 0 || data.invalid[len(data.invalid)-1] != "Assets" {
		t.Error("asset sheet should be invalidated after migration")
	}
}

func TestSortByDate(t *testing.T) {
	data := &fakeData{
		rows: map[string][][]string{
			"Assets": {
				{"Date", "Time", "VND", "Note", "Unit"},
				{"02/10/2025", "10:00:00", "1,000,000", "btc", "0.01"},
				{"15/01/2025", "08:00:00", "2,000,000", "mua vàng", "1.5"},
			},
		},
	}
	store := &fakeStore{}
	svc := New(data, store, staticPrices{}, "Assets", fixedNow, zerolog.Nop())

	if err := svc.SortByDate(context.Background()); err != nil {
		t.Fatalf("SortByDate: %v", err)
	}
	rows := store.replaced["Assets"]
	if len(rows) != 2 {
		t.Fatalf("replaced %d rows, want 2", len(rows))
	}
	if rows[0][0] != "15/01/2025" {
		t.Errorf("first row = %v, want the January purchase", rows[0])
	}
}

func TestRenderAssets(t *testing.T) {
	basis := Summarize([]domain.AssetRecord{
		{Date: "01/09/2025", Time: "10:00:00", Amount: 1000000, Note: "mua vàng", Unit: decimal.NewFromInt(2)},
	})
	profit := Revalue(basis.Purchases, Prices{Values: map[Instrument]decimal.Decimal{
		Gold: decimal.NewFromInt(600000),
	}})

	out := renderAssets(basis, profit)
	for _, want := range []string{
		"💼 Tài sản: 1,000,000 VND",
		"├─ 🏅 Vàng → 1,000,000 VND",
		"💹 Lợi nhuận: 1,200,000 VND (+200,000) (+20.00%)",
		"📅 01/09/2025: 1,000,000 VND",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPrices(t *testing.T) {
	out := renderPrices(Prices{
		Values: map[Instrument]decimal.Decimal{Gold: decimal.NewFromInt(12500000)},
		Rate:   decimal.RequireFromString("25123.45"),
	})
	if !strings.Contains(out, "💵 Tỷ giá USD/VND: 25,123.45 VND") {
		t.Errorf("missing rate line:\n%s", out)
	}
	if !strings.Contains(out, "🏅 Vàng: 12,500,000 VND") {
		t.Errorf("missing gold line:\n%s", out)
	}
}
