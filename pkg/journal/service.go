// Package journal exposes the operations the capture and browse screens call.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/calendar"
	"github.com/kittclouds/grudgebook/pkg/csvcodec"
	"github.com/kittclouds/grudgebook/pkg/search"
)

// DefaultRecentLimit is the size of the capture screen's recent feed.
const DefaultRecentLimit = 5

var (
	ErrEmptyRecord       = errors.New("record needs text or at least one image")
	ErrEmptyText         = errors.New("record text cannot be empty")
	ErrNothingToExport   = errors.New("no records to export")
	ErrNothingImported   = errors.New("no records could be imported")
	ErrBackupUnsupported = errors.New("storage does not support backup")
)

// Service implements the journal operations over a record store and a theme store.
type Service struct {
	records     store.Storer
	themes      *store.ThemeStore
	backup      store.Exporter
	now         func() time.Time
	log         zerolog.Logger
	recentLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecentLimit sets the default size of ListRecent.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithBackup enables Backup and Restore through e.
func WithBackup(e store.Exporter) Option {
	return func(s *Service) { s.backup = e }
}

// New creates a journal service.
func New(records store.Storer, themes *store.ThemeStore, opts ...Option) *Service {
	s := &Service{
		records:     records,
		themes:      themes,
		now:         time.Now,
		log:         zerolog.Nop(),
		recentLimit: DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecentLimit returns the configured recent feed size.
func (s *Service) RecentLimit() int {
	return s.recentLimit
}

// =============================================================================
// Records
// =============================================================================

// CreateRecord stores a new record stamped with the current time.
// It needs non-blank text or at least one image.
func (s *Service) CreateRecord(text string, images []string) (store.Record, error) {
	r := store.NewRecord(text, images, s.now())
	if r.IsEmpty() {
		return store.Record{}, ErrEmptyRecord
	}

	if err := s.records.AppendFront(r); err != nil {
		return store.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	s.log.Debug().Int64("id", r.ID).Int("images", len(r.Images)).Msg("record created")
	return r, nil
}

// ListRecent returns the newest n records; n <= 0 uses the configured limit.
func (s *Service) ListRecent(n int) ([]store.Record, error) {
	if n <= 0 {
		n = s.recentLimit
	}
	records, err := s.records.Load()
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// ListAll returns every record, newest first.
func (s *Service) ListAll() ([]store.Record, error) {
	return s.records.Load()
}

// ListByDate returns the records dated date, in store order.
func (s *Service) ListByDate(date string) ([]store.Record, error) {
	records, err := s.records.Load()
	if err != nil {
		return nil, err
	}
	return calendar.FilterByDate(records, date), nil
}

// UpdateText replaces the text of record id. Images and timestamps are untouched.
// Reports false when no record has that id.
func (s *Service) UpdateText(id int64, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ErrEmptyText
	}

	found, err := s.records.Update(id, func(r *store.Record) { r.Text = text })
	if err != nil {
		return false, fmt.Errorf("failed to update record %d: %w", id, err)
	}
	s.log.Debug().Int64("id", id).Bool("found", found).Msg("record text updated")
	return found, nil
}

// Delete removes record id. A missing id is a no-op reported as false.
func (s *Service) Delete(id int64) (bool, error) {
	found, err := s.records.Remove(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	s.log.Debug().Int64("id", id).Bool("found", found).Msg("record deleted")
	return found, nil
}

// =============================================================================
// Calendar
// =============================================================================

// DatesWithRecords returns every date carrying at least one record.
func (s *Service) DatesWithRecords() (calendar.Set, error) {
	records, err := s.records.Load()
	if err != nil {
		return nil, err
	}
	return calendar.DatesWithRecords(records), nil
}

// Calendar lays out month with record markers, today and the selected date.
func (s *Service) Calendar(month calendar.Month, selected string) ([]calendar.Cell, error) {
	records, err := s.records.Load()
	if err != nil {
		return nil, err
	}
	return calendar.Grid(month, calendar.Options{
		Dates:    calendar.DatesWithRecords(records),
		Counts:   calendar.CountByDate(records),
		Today:    s.now(),
		Selected: selected,
	}), nil
}

// Today returns the current time from the service clock.
func (s *Service) Today() time.Time {
	return s.now()
}

// =============================================================================
// CSV export/import
// =============================================================================

// Export is a CSV export ready to download.
type Export struct {
	Filename string
	Data     []byte
	Count    int
}

// ExportCSV encodes every record. Images are exported as counts only.
func (s *Service) ExportCSV() (Export, error) {
	records, err := s.records.Load()
	if err != nil {
		return Export{}, err
	}
	if len(records) == 0 {
		return Export{}, ErrNothingToExport
	}

	return Export{
		Filename: csvcodec.ExportFilename(s.now()),
		Data:     csvcodec.EncodeBytes(records),
		Count:    len(records),
	}, nil
}

// ImportResult summarises an import.
type ImportResult struct {
	Added   int
	Skipped int
}

// ImportCSV decodes data and prepends the decoded records, in file order, to the store.
// Malformed lines are skipped. When nothing decodes the store is left untouched and
// ErrNothingImported is returned.
func (s *Service) ImportCSV(data []byte) (ImportResult, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	res := csvcodec.Decode(text, s.now())

	for _, line := range res.Lines {
		if line.Err != nil {
			s.log.Warn().Int("line", line.Index).Err(line.Err).Msg("skipping csv line")
		}
	}

	result := ImportResult{Added: len(res.Records), Skipped: res.Skipped()}
	if len(res.Records) == 0 {
		return result, ErrNothingImported
	}

	if err := s.records.PrependAll(res.Records); err != nil {
		return ImportResult{Skipped: result.Skipped}, fmt.Errorf("failed to import records: %w", err)
	}

	s.log.Info().Int("added", result.Added).Int("skipped", result.Skipped).Msg("csv imported")
	return result, nil
}

// =============================================================================
// Search
// =============================================================================

// Search returns records whose text contains every query term.
func (s *Service) Search(query string) ([]search.Hit, error) {
	m, err := search.NewMatcher(query)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	records, err := s.records.Load()
	if err != nil {
		return nil, err
	}
	return m.Filter(records), nil
}

// =============================================================================
// Theme
// =============================================================================

// GetTheme returns the stored theme or the default.
func (s *Service) GetTheme() (store.Theme, error) {
	return s.themes.Get()
}

// SetTheme stores name; empty selects the default theme.
func (s *Service) SetTheme(name string) (store.Theme, error) {
	return s.themes.Set(store.Theme(strings.ToLower(strings.TrimSpace(name))))
}

// =============================================================================
// Backup
// =============================================================================

// Backup dumps every slot, images included.
func (s *Service) Backup() ([]byte, error) {
	if s.backup == nil {
		return nil, ErrBackupUnsupported
	}
	return s.backup.Export()
}

// Restore replaces every slot with a Backup payload.
func (s *Service) Restore(data []byte) error {
	if s.backup == nil {
		return ErrBackupUnsupported
	}
	if err := s.backup.Import(data); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}
