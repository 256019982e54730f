package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// WindowKind selects the aggregation period.
type WindowKind int

const (
	WindowDay WindowKind = iota
	WindowWeek
	WindowMonth
)

// Window is an aggregation period relative to today. Offset 0 is the
// current period, negative offsets reach into the past and positive
// ones into the future.
type Window struct {
	Kind   WindowKind
	Offset int
}

// Range resolves the window against the given day. Weeks run Monday
// through Sunday; months cover the whole calendar month.
func (w Window) Range(today civil.Date) (start, end civil.Date) {
	switch w.Kind {
	case WindowWeek:
		monday := today.AddDays(-mondayOffset(today)).AddDays(7 * w.Offset)
		return monday, monday.AddDays(6)
	case WindowMonth:
		first := time.Date(today.Year, today.Month, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, w.Offset, 0)
		return civil.DateOf(first), civil.DateOf(first.AddDate(0, 1, -1))
	default:
		d := today.AddDays(w.Offset)
		return d, d
	}
}

// Previous returns the window one period further back, for
// period-over-period comparisons.
func (w Window) Previous() Window {
	return Window{Kind: w.Kind, Offset: w.Offset - 1}
}

// Partitions lists the "MM/YYYY" keys the window touches, in
// chronological order. A week straddling a month boundary yields two.
func (w Window) Partitions(today civil.Date) []string {
	start, end := w.Range(today)
	var keys []string
	cur := time.Date(start.Year, start.Month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year, end.Month, 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		keys = append(keys, PartitionKey(civil.DateOf(cur)))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}

// mondayOffset is the number of days back from d to the Monday of its week.
func mondayOffset(d civil.Date) int {
	wd := d.In(time.UTC).Weekday()
	return (int(wd) + 6) % 7
}
