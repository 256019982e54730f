// Package parser turns chat messages into expense drafts and delete
// requests. Three entry shapes are accepted, tried in order:
//
//	A: "5 c"              amount plus note, stamped with the current time
//	B: "02/09 5 c"        date plus amount, time defaults to 00:00:00
//	C: "02/09 8h30 15 t"  date, time and amount
//
// Amounts are typed in thousands of VND and scaled by 1000.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ngthanhdat199/cashpilot/internal/domain"
	"github.com/ngthanhdat199/cashpilot/internal/textnorm"
)

// AmountMultiplier scales typed amounts into VND. Not configurable.
const AmountMultiplier = 1000

// DefaultNote fills the note column when an entry has none.
const DefaultNote = "Không có ghi chú"

// ErrFormat is returned when a message matches none of the entry shapes.
var ErrFormat = errors.New("unrecognized entry format")

// shortcuts expand single-letter note tokens. Lookup is lowercase.
var shortcuts = map[string]string{
	"a": "ăn",
	"s": "ăn sáng",
	"t": "ăn trưa",
	"o": "ăn tối",
	"c": "cafe",
	"x": "xăng xe",
	"g": "grab",
	"b": "xe buýt",
	"n": "thuê nhà",
}

// Shortcuts returns a copy of the expansion table, for help rendering.
func Shortcuts() map[string]string {
	out := make(map[string]string, len(shortcuts))
	for k, v := range shortcuts {
		out[k] = v
	}
	return out
}

// ExpandShortcuts substitutes shortcut tokens in a note, token by token.
// Unknown tokens pass through unchanged.
func ExpandShortcuts(note string) string {
	tokens := strings.Fields(note)
	for i, tok := range tokens {
		if full, ok := shortcuts[strings.ToLower(tok)]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

// Parser resolves relative dates against an injected clock, so tests
// can pin "today".
type Parser struct {
	now func() time.Time
}

// New returns a Parser using the given clock. The clock should already
// be in the user's timezone.
func New(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// ParseEntry parses an expense message into a Draft. The returned
// draft carries the target "MM/YYYY" partition; the year is always the
// current one, so backdating across New Year needs the full-year form
// on the asset sheet instead.
func (p *Parser) ParseEntry(text string) (domain.Draft, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return domain.Draft{}, ErrFormat
	}

	now := p.now()

	switch {
	// Case A: bare amount, optional note
	case isDigits(parts[0]):
		amount, err := parseAmount(parts[0])
		if err != nil {
			return domain.Draft{}, err
		}
		note := ExpandShortcuts(strings.Join(parts[1:], " "))
		return domain.Draft{
			Date:      now.Format("02/01"),
			Time:      now.Format("15:04:05"),
			Amount:    amount * AmountMultiplier,
			Note:      note,
			Month:     now.Format("01/2006"),
			NeedsNote: note == "",
		}, nil

	// Case B: date then amount
	case strings.Contains(parts[0], "/") && len(parts) >= 2 && isDigits(parts[1]):
		date := textnorm.NormalizeDate(parts[0])
		amount, err := parseAmount(parts[1])
		if err != nil {
			return domain.Draft{}, err
		}
		note := DefaultNote
		if len(parts) > 2 {
			note = ExpandShortcuts(strings.Join(parts[2:], " "))
		}
		month, err := targetMonth(date, now)
		if err != nil {
			return domain.Draft{}, err
		}
		return domain.Draft{
			Date:   date,
			Time:   "00:00:00",
			Amount: amount * AmountMultiplier,
			Note:   note,
			Month:  month,
		}, nil

	// Case C: date, time, amount
	case strings.Contains(parts[0], "/") && len(parts) >= 3 && looksLikeTime(parts[1]) && isDigits(parts[2]):
		date := textnorm.NormalizeDate(parts[0])
		amount, err := parseAmount(parts[2])
		if err != nil {
			return domain.Draft{}, err
		}
		note := DefaultNote
		if len(parts) > 3 {
			note = ExpandShortcuts(strings.Join(parts[3:], " "))
		}
		month, err := targetMonth(date, now)
		if err != nil {
			return domain.Draft{}, err
		}
		return domain.Draft{
			Date:   date,
			Time:   textnorm.NormalizeTime(parts[1]),
			Amount: amount * AmountMultiplier,
			Note:   note,
			Month:  month,
		}, nil
	}

	return domain.Draft{}, ErrFormat
}

// ParseDelete parses "del <time>" or "del <date> <time>". A bare time
// targets today.
func (p *Parser) ParseDelete(text string) (domain.DeleteRequest, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	now := p.now()

	var date, entryTime string
	switch {
	case len(parts) == 2:
		date = now.Format("02/01")
		entryTime = textnorm.NormalizeTime(parts[1])
	case len(parts) >= 3:
		date = textnorm.NormalizeDate(parts[1])
		entryTime = textnorm.NormalizeTime(parts[2])
	default:
		return domain.DeleteRequest{}, ErrFormat
	}

	month := now.Format("01/2006")
	if strings.Contains(date, "/") {
		if dateParts := strings.Split(date, "/"); len(dateParts) == 2 && len(dateParts[1]) == 2 {
			month = fmt.Sprintf("%s/%d", dateParts[1], now.Year())
		}
	}

	return domain.DeleteRequest{Date: date, Time: entryTime, Month: month}, nil
}

// targetMonth derives the "MM/YYYY" partition from a normalized DD/MM
// date, using the current year.
func targetMonth(date string, now time.Time) (string, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: bad date %q", ErrFormat, date)
	}
	return fmt.Sprintf("%s/%d", parts[1], now.Year()), nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return amount, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func looksLikeTime(s string) bool {
	return strings.Contains(s, ":") || strings.Contains(strings.ToLower(s), "h")
}
