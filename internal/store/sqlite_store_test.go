package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	// Initialize store (in-memory)
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(RecordsKey, `[{"id":1,"text":"a","time":"2024-01-01 10:00:00","date":"2024-01-01","images":["data:image/png;base64,AA=="]}]`))
	require.NoError(t, s.Set(ThemeKey, "green"))

	data, err := s.Export()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// Fresh store simulates a restore on another machine
	s2, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.Set("stale", "x"))

	require.NoError(t, s2.Import(data))

	theme, ok, err := s2.Get(ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "green", theme)

	records, err := NewRecordStore(s2).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"data:image/png;base64,AA=="}, records[0].Images)

	_, ok, err = s2.Get("stale")
	require.NoError(t, err)
	assert.False(t, ok, "import replaces every slot")
}

func TestImportEmptyIsNoop(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ThemeKey, "blue"))
	require.NoError(t, s.Import(nil))

	v, ok, err := s.Get(ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "blue", v)
}

func TestSlotCRUD(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileBackedStorePersists(t *testing.T) {
	path := t.TempDir() + "/journal.db"

	s, err := NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ThemeKey, "yellow"))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "yellow", v)
}
