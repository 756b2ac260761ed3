// Package store provides slot-backed persistence for the grudge journal.
// Every operation is a full read-modify-write of a single serialized value.
package store

import (
	"strings"
	"time"
)

// Slot keys shared with the browser build, so existing localStorage data keeps loading.
const (
	RecordsKey = "revengeRecords"
	ThemeKey   = "revengeBookTheme"
)

// Layouts for the derived timestamp fields.
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

// Record is one journal entry.
// Time and Date are fixed at creation; edits only ever touch Text.
type Record struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Time   string   `json:"time"`
	Date   string   `json:"date"`
	Images []string `json:"images"` // data URIs, display order
}

// NewRecord builds a record stamped with now, in now's location.
func NewRecord(text string, images []string, now time.Time) Record {
	imgs := make([]string, len(images))
	copy(imgs, images)

	return Record{
		ID:     now.UnixMilli(),
		Text:   strings.TrimSpace(text),
		Time:   FormatTime(now),
		Date:   DateString(now),
		Images: imgs,
	}
}

// FormatTime renders t as YYYY-MM-DD HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// DateString renders t as YYYY-MM-DD, the calendar grouping key.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// HasText reports whether the record carries any text.
func (r Record) HasText() bool {
	return r.Text != ""
}

// IsEmpty reports whether the record has neither text nor images.
func (r Record) IsEmpty() bool {
	return r.Text == "" && len(r.Images) == 0
}

// Theme identifies one of the fixed colour themes.
type Theme string

const (
	ThemePink   Theme = "pink" // baseline
	ThemeYellow Theme = "yellow"
	ThemeGreen  Theme = "green"
	ThemeBlue   Theme = "blue"
)

// DefaultTheme is used when no preference has been stored.
const DefaultTheme = ThemePink

// Themes lists every valid theme in display order.
func Themes() []Theme {
	return []Theme{ThemePink, ThemeYellow, ThemeGreen, ThemeBlue}
}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	for _, known := range Themes() {
		if t == known {
			return true
		}
	}
	return false
}

// Slot is a named unit of durable string storage.
// Implementations must make each Set a single atomic write.
type Slot interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Exporter is implemented by slots that can dump and restore every key at once.
type Exporter interface {
	Export() ([]byte, error)
	Import(data []byte) error
}

// Storer defines the record operations the journal needs.
// RecordStore is the sole implementation.
type Storer interface {
	Load() ([]Record, error)
	Save(records []Record) error
	AppendFront(record Record) error
	PrependAll(records []Record) error
	Update(id int64, mutate func(*Record)) (bool, error)
	Remove(id int64) (bool, error)
}
