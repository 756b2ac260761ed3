package store

import (
	"errors"
	"fmt"
)

// ErrUnknownTheme is returned when setting a theme outside Themes().
var ErrUnknownTheme = errors.New("unknown theme")

// ThemeStore persists the theme preference in its own slot.
type ThemeStore struct {
	slot Slot
	key  string
}

// NewThemeStore creates a theme store over slot.
func NewThemeStore(slot Slot) *ThemeStore {
	return &ThemeStore{slot: slot, key: ThemeKey}
}

// Get returns the stored theme, or DefaultTheme when absent or unrecognised.
func (s *ThemeStore) Get() (Theme, error) {
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		return DefaultTheme, fmt.Errorf("load theme: %w", err)
	}
	t := Theme(raw)
	if !ok || !t.Valid() {
		return DefaultTheme, nil
	}
	return t, nil
}

// Set stores t. An empty theme stores the default.
func (s *ThemeStore) Set(t Theme) (Theme, error) {
	if t == "" {
		t = DefaultTheme
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, string(t))
	}
	if err := s.slot.Set(s.key, string(t)); err != nil {
		return "", fmt.Errorf("save theme: %w", err)
	}
	return t, nil
}
