package store

import (
	"encoding/json"
	"fmt"
)

// SlotBackup gives any Slot the Export/Import format of SQLiteStore, limited
// to a fixed set of keys since a plain Slot cannot enumerate its contents.
type SlotBackup struct {
	slot Slot
	keys []string
}

// NewSlotBackup covers keys of slot; with no keys it covers the record and theme slots.
func NewSlotBackup(slot Slot, keys ...string) *SlotBackup {
	if len(keys) == 0 {
		keys = []string{RecordsKey, ThemeKey}
	}
	return &SlotBackup{slot: slot, keys: keys}
}

// Export serializes every covered slot that has been written.
func (b *SlotBackup) Export() ([]byte, error) {
	data := exportData{Slots: make(map[string]string, len(b.keys))}
	for _, k := range b.keys {
		v, ok, err := b.slot.Get(k)
		if err != nil {
			return nil, fmt.Errorf("export slot %s: %w", k, err)
		}
		if ok {
			data.Slots[k] = v
		}
	}
	return json.Marshal(data)
}

// Import replaces the covered slots with the payload. Covered keys missing
// from the payload are deleted; other keys in the payload are ignored.
func (b *SlotBackup) Import(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	var in exportData
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("import unmarshal: %w", err)
	}

	for _, k := range b.keys {
		v, ok := in.Slots[k]
		var err error
		if ok {
			err = b.slot.Set(k, v)
		} else {
			err = b.slot.Delete(k)
		}
		if err != nil {
			return fmt.Errorf("import slot %s: %w", k, err)
		}
	}
	return nil
}

var _ Exporter = (*SlotBackup)(nil)
