package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/calendar"
	"github.com/kittclouds/grudgebook/pkg/csvcodec"
	"github.com/kittclouds/grudgebook/pkg/docstore"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *docstore.Store, *clock) {
	t.Helper()
	slot := docstore.New()
	c := &clock{t: time.Date(2024, time.January, 1, 10, 0, 0, 0, time.Local)}
	svc := New(store.NewRecordStore(slot), store.NewThemeStore(slot), WithClock(c.now))
	return svc, slot, c
}

func TestCreateRecordPrepends(t *testing.T) {
	svc, _, c := newTestService(t)

	first, err := svc.CreateRecord("first", nil)
	require.NoError(t, err)
	c.advance(time.Second)
	second, err := svc.CreateRecord("  second  ", []string{"data:image/png;base64,AA=="})
	require.NoError(t, err)

	assert.Equal(t, "second", second.Text)
	assert.Equal(t, c.t.UnixMilli(), second.ID)
	assert.Equal(t, "2024-01-01 10:00:01", second.Time)
	assert.Equal(t, "2024-01-01", second.Date)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0])
	assert.Equal(t, first, all[1])
}

func TestCreateRecordRequiresContent(t *testing.T) {
	svc, slot, _ := newTestService(t)

	_, err := svc.CreateRecord("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyRecord)
	assert.Zero(t, slot.Version(store.RecordsKey), "nothing written")

	r, err := svc.CreateRecord("", []string{"data:image/gif;base64,R0lG"})
	require.NoError(t, err)
	assert.False(t, r.HasText())
}

func TestListRecent(t *testing.T) {
	svc, _, c := newTestService(t)
	for i := 0; i < 7; i++ {
		_, err := svc.CreateRecord(strings.Repeat("x", i+1), nil)
		require.NoError(t, err)
		c.advance(time.Millisecond)
	}

	recent, err := svc.ListRecent(0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, "xxxxxxx", recent[0].Text)

	two, err := svc.ListRecent(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	all, err := svc.ListRecent(100)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestListByDate(t *testing.T) {
	svc, _, c := newTestService(t)
	_, _ = svc.CreateRecord("a", nil)
	c.advance(24 * time.Hour)
	_, _ = svc.CreateRecord("b", nil)
	c.advance(time.Hour)
	_, _ = svc.CreateRecord("c", nil)

	jan1, err := svc.ListByDate("2024-01-01")
	require.NoError(t, err)
	require.Len(t, jan1, 1)
	assert.Equal(t, "a", jan1[0].Text)

	jan2, err := svc.ListByDate("2024-01-02")
	require.NoError(t, err)
	require.Len(t, jan2, 2)
	assert.Equal(t, "c", jan2[0].Text)
	assert.Equal(t, "b", jan2[1].Text)

	none, err := svc.ListByDate("2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateText(t *testing.T) {
	svc, _, c := newTestService(t)
	target, _ := svc.CreateRecord("old", []string{"data:image/png;base64,AA=="})
	c.advance(time.Minute)
	other, _ := svc.CreateRecord("other", nil)

	found, err := svc.UpdateText(target.ID, "  updated ")
	require.NoError(t, err)
	assert.True(t, found)

	all, _ := svc.ListAll()
	want := target
	want.Text = "updated"
	assert.Equal(t, []store.Record{other, want}, all)

	_, err = svc.UpdateText(target.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	found, err = svc.UpdateText(12345, "x")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	svc, slot, _ := newTestService(t)
	r, _ := svc.CreateRecord("keep", nil)
	before := slot.Version(store.RecordsKey)

	found, err := svc.Delete(r.ID + 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, slot.Version(store.RecordsKey))

	all, _ := svc.ListAll()
	assert.Equal(t, []store.Record{r}, all)

	found, err = svc.Delete(r.ID)
	require.NoError(t, err)
	assert.True(t, found)
	all, _ = svc.ListAll()
	assert.Empty(t, all)
}

func TestCalendarAndDates(t *testing.T) {
	svc, _, c := newTestService(t)
	_, _ = svc.CreateRecord("a", nil)
	c.advance(24 * time.Hour)
	_, _ = svc.CreateRecord("b", nil)

	dates, err := svc.DatesWithRecords()
	require.NoError(t, err)
	assert.Equal(t, calendar.Set{"2024-01-01": {}, "2024-01-02": {}}, dates)

	cells, err := svc.Calendar(calendar.Month{Year: 2024, Month: time.January}, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", cells[1].Date)
	assert.True(t, cells[1].HasRecords)
	assert.True(t, cells[1].IsSelected)
	assert.True(t, cells[2].IsToday)
}

func TestExportCSV(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ExportCSV()
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, _ = svc.CreateRecord(`He said "hi"`, []string{"data:a"})
	exp, err := svc.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, 1, exp.Count)
	assert.True(t, strings.HasPrefix(exp.Filename, "记仇本_"))
	assert.Contains(t, string(exp.Data), `"He said ""hi""","1"`)
}

func TestImportCSVPrependsBlock(t *testing.T) {
	svc, _, c := newTestService(t)
	existing, _ := svc.CreateRecord("existing", nil)
	c.advance(time.Hour)

	data := csvcodec.Header + "\r\n" +
		`"1","2023-05-01 09:00:00","2023-05-01","first ""quoted""","2"` + "\r\n" +
		`broken line` + "\r\n" +
		`"2","2023-05-02 09:00:00","2023-05-02","second","0"` + "\r\n"

	res, err := svc.ImportCSV([]byte("\ufeff" + data))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Added: 2, Skipped: 1}, res)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, `first "quoted"`, all[0].Text)
	assert.Equal(t, "second", all[1].Text)
	assert.Equal(t, existing, all[2])
	assert.Equal(t, c.t.UnixMilli()+1, all[0].ID)
	assert.Equal(t, c.t.UnixMilli()+3, all[1].ID)
	assert.Equal(t, []string{}, all[0].Images)
}

func TestImportCSVUnbalancedQuoteKeepsLaterLines(t *testing.T) {
	svc, _, _ := newTestService(t)

	data := strings.Join([]string{
		csvcodec.Header,
		`"1","2023-05-01 09:00:00","2023-05-01","first","0"`,
		`"2","2023-05-02 09:00:00","2023-05-02","hand "edited","0"`,
		`"3","2023-05-03 09:00:00","2023-05-03","third","0"`,
		`"4","2023-05-04 09:00:00","2023-05-04","fourth","0"`,
	}, "\n")

	res, err := svc.ImportCSV([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Added: 3, Skipped: 1}, res)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Text)
	assert.Equal(t, "third", all[1].Text)
	assert.Equal(t, "fourth", all[2].Text)
}

func TestImportHeaderOnlyLeavesStore(t *testing.T) {
	svc, slot, _ := newTestService(t)
	r, _ := svc.CreateRecord("existing", nil)
	before := slot.Version(store.RecordsKey)

	res, err := svc.ImportCSV([]byte(csvcodec.Header + "\n"))
	assert.ErrorIs(t, err, ErrNothingImported)
	assert.Zero(t, res.Added)
	assert.Equal(t, before, slot.Version(store.RecordsKey))

	all, _ := svc.ListAll()
	assert.Equal(t, []store.Record{r}, all)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _, c := newTestService(t)
	_, _ = svc.CreateRecord("one", []string{"data:x"})
	c.advance(time.Second)
	_, _ = svc.CreateRecord("two\nlines, with comma", nil)

	exp, err := svc.ExportCSV()
	require.NoError(t, err)

	other, _, _ := newTestService(t)
	res, err := other.ImportCSV(exp.Data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)

	got, _ := other.ListAll()
	want, _ := svc.ListAll()
	for i := range want {
		assert.Equal(t, want[i].Text, got[i].Text)
		assert.Equal(t, want[i].Time, got[i].Time)
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Empty(t, got[i].Images)
	}
}

func TestSearch(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _ = svc.CreateRecord("the cat knocked my cup over", nil)
	_, _ = svc.CreateRecord("cup of tea", nil)

	hits, err := svc.Search("cat cup")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "the cat knocked my cup over", hits[0].Record.Text)
}

func TestTheme(t *testing.T) {
	svc, _, _ := newTestService(t)

	theme, err := svc.GetTheme()
	require.NoError(t, err)
	assert.Equal(t, store.ThemePink, theme)

	theme, err = svc.SetTheme(" Blue ")
	require.NoError(t, err)
	assert.Equal(t, store.ThemeBlue, theme)

	_, err = svc.SetTheme("rainbow")
	assert.ErrorIs(t, err, store.ErrUnknownTheme)
}

func TestBackupRestore(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Backup()
	assert.ErrorIs(t, err, ErrBackupUnsupported)

	slot, err := store.NewSQLiteStore()
	require.NoError(t, err)
	defer slot.Close()
	withBackup := New(store.NewRecordStore(slot), store.NewThemeStore(slot), WithBackup(slot))
	_, _ = withBackup.CreateRecord("pic", []string{"data:image/png;base64,AA=="})

	data, err := withBackup.Backup()
	require.NoError(t, err)

	_, err = withBackup.Delete(0)
	require.NoError(t, err)
	all, _ := withBackup.ListAll()
	require.Len(t, all, 1)
	_, err = withBackup.Delete(all[0].ID)
	require.NoError(t, err)

	require.NoError(t, withBackup.Restore(data))
	all, _ = withBackup.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, []string{"data:image/png;base64,AA=="}, all[0].Images)
}
