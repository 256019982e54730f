package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Record represents one expense row as stored in a monthly sheet tab.
// This is a domain struct, not a raw sheet row; the store maps it into
// the Date/Time/VND/Note columns.
type Record struct {
	Date   string // "DD/MM", zero-padded
	Time   string // "HH:MM:SS"
	Amount int64  // VND, already scaled
	Note   string // free text, never empty after normalization
}

// AssetRecord represents one purchase row in the asset tab. Asset rows
// keep the full year in the date because they span calendar years.
type AssetRecord struct {
	Date   string          // "DD/MM/YYYY"
	Time   string          // "HH:MM:SS"
	Amount int64           // cost basis in VND
	Note   string          // instrument note, e.g. "mua etf"
	Unit   decimal.Decimal // quantity bought, 4 decimal places
}

// Draft is a parsed expense entry that has not been written yet.
type Draft struct {
	Date      string // "DD/MM", zero-padded
	Time      string // "HH:MM:SS"
	Amount    int64  // VND, already scaled
	Note      string
	Month     string // target partition key, "MM/YYYY"
	NeedsNote bool   // bare amount without a note; caller should ask for one
}

// DeleteRequest identifies rows to remove by exact normalized date and time.
type DeleteRequest struct {
	Date  string // "DD/MM"
	Time  string // "HH:MM:SS"
	Month string // partition key, "MM/YYYY"
}

// CivilDate resolves the record's DD/MM date against the given year.
func (r Record) CivilDate(year int) (civil.Date, error) {
	return ResolveDate(r.Date, year)
}

// ResolveDate parses a zero-padded "DD/MM" date against the given year.
func ResolveDate(ddmm string, year int) (civil.Date, error) {
	parts := strings.Split(ddmm, "/")
	if len(parts) != 2 {
		return civil.Date{}, fmt.Errorf("resolve date %q: want DD/MM", ddmm)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return civil.Date{}, fmt.Errorf("resolve date %q: %w", ddmm, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return civil.Date{}, fmt.Errorf("resolve date %q: %w", ddmm, err)
	}
	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("resolve date %q: not a calendar date", ddmm)
	}
	return d, nil
}

// PartitionKey formats a civil date as the "MM/YYYY" tab name it belongs to.
func PartitionKey(d civil.Date) string {
	return fmt.Sprintf("%02d/%04d", int(d.Month), d.Year)
}

// PartitionYear extracts the year from a "MM/YYYY" partition key.
func PartitionYear(key string) (int, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("partition key %q: want MM/YYYY", key)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("partition key %q: %w", key, err)
	}
	return year, nil
}
