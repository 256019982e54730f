// Package cache keeps recently read sheet data in memory so repeated
// report commands do not hammer the spreadsheet API. Three TTL classes
// exist: general month data, today's data (shorter, it changes often)
// and the asset tab (longer, it rarely changes).
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngthanhdat199/cashpilot/internal/sheetstore"
)

// Default TTLs per data class.
const (
	DefaultTTL = 5 * time.Minute
	TodayTTL   = time.Minute
	AssetTTL   = 10 * time.Minute
)

type entry struct {
	data    [][]string
	fetched time.Time
}

// Cache wraps a Store with per-sheet TTL caching. All methods are safe
// for concurrent use.
type Cache struct {
	store sheetstore.Store
	log   zerolog.Logger
	now   func() time.Time

	generalTTL time.Duration
	todayTTL   time.Duration
	assetTTL   time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

// New returns a cache over the store with default TTLs.
func New(store sheetstore.Store, log zerolog.Logger) *Cache {
	return &Cache{
		store:      store,
		log:        log,
		now:        time.Now,
		generalTTL: DefaultTTL,
		todayTTL:   TodayTTL,
		assetTTL:   AssetTTL,
		entries:    map[string]entry{},
	}
}

// Rows returns the expense rows of a monthly tab, cached for the
// general TTL.
func (c *Cache) Rows(ctx context.Context, sheet string) ([][]string, error) {
	return c.get(ctx, "data|"+sheet, sheet, sheetstore.ExpenseRange, c.generalTTL)
}

// TodayRows returns the expense rows used for today's report. The key
// includes the date so a cache entry never leaks across midnight.
func (c *Cache) TodayRows(ctx context.Context, sheet, today string) ([][]string, error) {
	return c.get(ctx, "today|"+sheet+"|"+today, sheet, sheetstore.ExpenseRange, c.todayTTL)
}

// AssetRows returns the asset tab rows, including the unit column.
func (c *Cache) AssetRows(ctx context.Context, sheet string) ([][]string, error) {
	return c.get(ctx, "asset|"+sheet, sheet, sheetstore.AssetRange, c.assetTTL)
}

// Invalidate drops every cached entry for the sheet. Called after any
// write lands on it.
func (c *Cache) Invalidate(sheet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if keySheet(key) == sheet {
			delete(c.entries, key)
		}
	}
	c.log.Debug().Str("sheet", sheet).Msg("cache invalidated")
}

func (c *Cache) get(ctx context.Context, key, sheet, readRange string, ttl time.Duration) ([][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetched) < ttl {
		return e.data, nil
	}

	data, err := c.store.ReadRows(ctx, sheet, readRange)
	if err != nil {
		// Serve expired data over an error: a stale report beats none.
		if e, ok := c.entries[key]; ok {
			c.log.Warn().Err(err).Str("sheet", sheet).Msg("refresh failed, serving stale data")
			return e.data, nil
		}
		return nil, err
	}

	c.entries[key] = entry{data: data, fetched: c.now()}
	return data, nil
}

func keySheet(key string) string {
	parts := strings.Split(key, "|")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
