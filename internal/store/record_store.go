package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrCorruptStore is returned by Load when the records slot is not a JSON array of records.
var ErrCorruptStore = errors.New("records slot is corrupt")

// RecordStore reads and writes the ordered record collection, newest first.
// There is no cache: each call re-reads the slot, and writes replace it whole.
// Two processes sharing a slot race; the last write wins.
type RecordStore struct {
	slot     Slot
	key      string
	failSoft bool
	log      zerolog.Logger
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithFailSoft makes Load treat a corrupt slot as an empty collection instead of failing.
func WithFailSoft() Option {
	return func(s *RecordStore) { s.failSoft = true }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *RecordStore) { s.log = l }
}

// WithKey overrides the slot key (defaults to RecordsKey).
func WithKey(key string) Option {
	return func(s *RecordStore) { s.key = key }
}

// NewRecordStore creates a record store over slot.
func NewRecordStore(slot Slot, opts ...Option) *RecordStore {
	s := &RecordStore{
		slot: slot,
		key:  RecordsKey,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored collection. A missing or blank slot is an empty collection.
func (s *RecordStore) Load() ([]Record, error) {
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		if s.failSoft {
			s.log.Warn().Err(err).Str("key", s.key).Msg("records slot unreadable, starting empty")
			return []Record{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if records == nil {
		// literal "null"
		return []Record{}, nil
	}

	for i := range records {
		if records[i].Images == nil {
			records[i].Images = []string{}
		}
	}
	return records, nil
}

// Save overwrites the slot with records.
func (s *RecordStore) Save(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.slot.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.log.Debug().Int("count", len(records)).Int("bytes", len(data)).Msg("records saved")
	return nil
}

// AppendFront prepends record and saves.
func (s *RecordStore) AppendFront(record Record) error {
	return s.PrependAll([]Record{record})
}

// PrependAll places records, in their given order, before the existing collection
// and persists the merge in one write.
func (s *RecordStore) PrependAll(records []Record) error {
	existing, err := s.Load()
	if err != nil {
		return err
	}

	merged := make([]Record, 0, len(records)+len(existing))
	merged = append(merged, records...)
	merged = append(merged, existing...)
	return s.Save(merged)
}

// Update applies mutate to the record with id and saves.
// Reports false, without writing, when no record matches.
func (s *RecordStore) Update(id int64, mutate func(*Record)) (bool, error) {
	records, err := s.Load()
	if err != nil {
		return false, err
	}

	found := false
	for i := range records {
		if records[i].ID == id {
			mutate(&records[i])
			found = true
		}
	}
	if !found {
		return false, nil
	}
	return true, s.Save(records)
}

// Remove deletes the record with id and saves.
// Reports false, without writing, when no record matches.
func (s *RecordStore) Remove(id int64) (bool, error) {
	records, err := s.Load()
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, s.Save(kept)
}

var _ Storer = (*RecordStore)(nil)
