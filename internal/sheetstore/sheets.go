package sheetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Seed holds the values written into a freshly created tab's metadata cells.
type Seed struct {
	Salary    int64
	Freelance int64
	Budgets   map[string]float64 // category key -> percent of income
}

// SheetsStore implements Store on the Google Sheets v4 API.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	templateName  string
	seed          Seed
	log           zerolog.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> sheet id
}

var _ Store = (*SheetsStore)(nil)

// serviceAccount is the subset of a Google credentials file we need.
type serviceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// NewSheetsStore authenticates with the service-account credentials
// file and returns a store bound to one spreadsheet. An empty scopes
// list falls back to full spreadsheet access.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID, templateName string, scopes []string, seed Seed, log zerolog.Logger) (*SheetsStore, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	if len(scopes) == 0 {
		scopes = []string{sheets.SpreadsheetsScope}
	}
	conf := &jwt.Config{
		Email:        sa.ClientEmail,
		PrivateKey:   []byte(sa.PrivateKey),
		PrivateKeyID: sa.PrivateKeyID,
		TokenURL:     sa.TokenURI,
		Scopes:       scopes,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		templateName:  templateName,
		seed:          seed,
		log:           log,
		sheetIDs:      map[string]int64{},
	}, nil
}

// EnsureSheet creates the tab from the template when missing. Without
// a template a bare tab with the expense header is created instead.
func (s *SheetsStore) EnsureSheet(ctx context.Context, name string) error {
	if _, err := s.sheetID(ctx, name); err == nil {
		return nil
	}

	templateID, err := s.sheetID(ctx, s.templateName)
	if err != nil {
		s.log.Warn().Str("template", s.templateName).Msg("template tab not found, creating bare tab")
		return s.createBareSheet(ctx, name)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DuplicateSheet: &sheets.DuplicateSheetRequest{
				SourceSheetId: templateID,
				NewSheetName:  name,
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("duplicate template for %q: %w", name, err)
	}
	s.forgetTitles()
	s.log.Info().Str("sheet", name).Msg("created monthly tab from template")

	if err := s.seedMetadata(ctx, name); err != nil {
		// The tab is usable without seeded cells; budgets fall back to config.
		s.log.Error().Err(err).Str("sheet", name).Msg("seeding metadata cells failed")
	}
	return nil
}

func (s *SheetsStore) createBareSheet(ctx context.Context, name string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", name, err)
	}
	s.forgetTitles()

	header := make([]any, len(ExpenseHeader))
	for i, h := range ExpenseHeader {
		header[i] = h
	}
	return s.AppendRows(ctx, name, [][]any{header})
}

// seedMetadata writes income and budget percentages into the new tab.
func (s *SheetsStore) seedMetadata(ctx context.Context, name string) error {
	values := map[string]any{
		SalaryCell:    s.seed.Salary,
		FreelanceCell: s.seed.Freelance,
	}
	for cat, cellRef := range CategoryCells {
		if pct, ok := s.seed.Budgets[string(cat)]; ok {
			values[cellRef] = fmt.Sprintf("%g%%", pct)
		}
	}
	return s.UpdateCells(ctx, name, values)
}

func (s *SheetsStore) ReadRows(ctx context.Context, name, readRange string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, name+"!"+readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", name, readRange, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (s *SheetsStore) AppendRows(ctx context.Context, name string, rows [][]any) error {
	vr := &sheets.ValueRange{Values: rows}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, name+"!A:D", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", name, err)
	}
	return nil
}

func (s *SheetsStore) DeleteRow(ctx context.Context, name string, row int) error {
	id, err := s.sheetID(ctx, name)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d from %q: %w", row, name, err)
	}
	return nil
}

func (s *SheetsStore) ReadCells(ctx context.Context, name string, cells []string) (map[string]string, error) {
	call := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID)
	for _, c := range cells {
		call = call.Ranges(name + "!" + c)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read cells from %q: %w", name, err)
	}
	out := make(map[string]string, len(cells))
	for i, vr := range resp.ValueRanges {
		if i >= len(cells) {
			break
		}
		if len(vr.Values) > 0 && len(vr.Values[0]) > 0 {
			out[cells[i]] = fmt.Sprint(vr.Values[0][0])
		} else {
			out[cells[i]] = ""
		}
	}
	return out, nil
}

func (s *SheetsStore) UpdateCells(ctx context.Context, name string, values map[string]any) error {
	data := make([]*sheets.ValueRange, 0, len(values))
	for cellRef, v := range values {
		data = append(data, &sheets.ValueRange{
			Range:  name + "!" + cellRef,
			Values: [][]any{{v}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update cells in %q: %w", name, err)
	}
	return nil
}

// ReplaceRows rewrites the data region below the header.
func (s *SheetsStore) ReplaceRows(ctx context.Context, name string, rows [][]any) error {
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, name+"!A2:D", &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: rows}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, name+"!A2", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rewrite %q: %w", name, err)
	}
	return nil
}

func (s *SheetsStore) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	s.mu.Lock()
	for _, sh := range resp.Sheets {
		titles = append(titles, sh.Properties.Title)
		s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
	}
	s.mu.Unlock()
	return titles, nil
}

// sheetID resolves a tab title to its numeric id, caching the mapping.
func (s *SheetsStore) sheetID(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	id, ok := s.sheetIDs[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	if _, err := s.SheetTitles(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	id, ok = s.sheetIDs[name]
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("sheet %q not found", name)
	}
	return id, nil
}

func (s *SheetsStore) forgetTitles() {
	s.mu.Lock()
	s.sheetIDs = map[string]int64{}
	s.mu.Unlock()
}
