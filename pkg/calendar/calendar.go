// Package calendar indexes records by date and lays out month grids.
package calendar

import (
	"fmt"
	"time"

	"github.com/kittclouds/grudgebook/internal/store"
)

// Set is a set of YYYY-MM-DD date strings.
type Set map[string]struct{}

// Has reports whether date is in the set.
func (s Set) Has(date string) bool {
	_, ok := s[date]
	return ok
}

// DatesWithRecords returns every date that has at least one record, across all time.
func DatesWithRecords(records []store.Record) Set {
	dates := make(Set, len(records))
	for _, r := range records {
		dates[r.Date] = struct{}{}
	}
	return dates
}

// CountByDate returns how many records fall on each date.
func CountByDate(records []store.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date]++
	}
	return counts
}

// FilterByDate returns the records dated date, in store order.
func FilterByDate(records []store.Record, date string) []store.Record {
	out := make([]store.Record, 0)
	for _, r := range records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// Months
// =============================================================================

// Month is a calendar month of a specific year.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// first returns midnight UTC on the first day. UTC keeps the arithmetic free of DST gaps.
func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Prev returns the previous month, rolling back over January.
func (m Month) Prev() Month {
	return MonthOf(m.first().AddDate(0, -1, 0))
}

// Next returns the following month, rolling over December.
func (m Month) Next() Month {
	return MonthOf(m.first().AddDate(0, 1, 0))
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return m.first().AddDate(0, 1, -1).Day()
}

// String renders "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title renders the month header, e.g. "2024年1月".
func (m Month) Title() string {
	return fmt.Sprintf("%d年%d月", m.Year, int(m.Month))
}

// Date returns the YYYY-MM-DD key for day of the month.
func (m Month) Date(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), day)
}

// =============================================================================
// Grid
// =============================================================================

// Cell is one day in the month grid.
type Cell struct {
	Day        int    `json:"day"`
	Date       string `json:"date"`
	HasRecords bool   `json:"hasRecords"`
	Count      int    `json:"count,omitempty"`
	IsToday    bool   `json:"isToday,omitempty"`
	IsSelected bool   `json:"isSelected,omitempty"`
	Adjacent   bool   `json:"adjacent,omitempty"` // belongs to the previous or next month
}

// Options carries the per-render inputs of Grid.
type Options struct {
	Dates    Set
	Counts   map[string]int
	Today    time.Time
	Selected string
}

// Grid lays out m as whole Sunday-first weeks: trailing days of the previous
// month, every day of m, then leading days of the next month.
func Grid(m Month, opts Options) []Cell {
	first := m.first()
	lead := int(first.Weekday())
	days := m.DaysIn()
	trail := 6 - int(first.AddDate(0, 0, days-1).Weekday())

	today := ""
	if !opts.Today.IsZero() {
		today = store.DateString(opts.Today)
	}

	cells := make([]Cell, 0, lead+days+trail)

	prev := m.Prev()
	prevDays := prev.DaysIn()
	for i := lead; i > 0; i-- {
		cells = append(cells, adjacentCell(prev, prevDays-i+1, opts))
	}

	for d := 1; d <= days; d++ {
		date := m.Date(d)
		cells = append(cells, Cell{
			Day:        d,
			Date:       date,
			HasRecords: opts.Dates.Has(date),
			Count:      opts.Counts[date],
			IsToday:    date == today,
			IsSelected: opts.Selected != "" && date == opts.Selected,
		})
	}

	next := m.Next()
	for d := 1; d <= trail; d++ {
		cells = append(cells, adjacentCell(next, d, opts))
	}

	return cells
}

func adjacentCell(m Month, day int, opts Options) Cell {
	date := m.Date(day)
	return Cell{
		Day:        day,
		Date:       date,
		HasRecords: opts.Dates.Has(date),
		Count:      opts.Counts[date],
		Adjacent:   true,
	}
}

// Rows splits cells into weeks of seven.
func Rows(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, (len(cells)+6)/7)
	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[i:end])
	}
	return rows
}
