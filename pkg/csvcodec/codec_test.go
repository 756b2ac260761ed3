package csvcodec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/grudgebook/internal/store"
)

var fixedNow = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

func TestEncode(t *testing.T) {
	records := []store.Record{
		{ID: 1700000000000, Text: `He said "hi"`, Time: "2024-01-01 10:00:00", Date: "2024-01-01", Images: []string{"data:a", "data:b"}},
		{ID: 0, Text: "", Time: "2024-01-02 11:00:00", Date: "2024-01-02"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, records))

	want := Header + "\n" +
		`"1700000000000","2024-01-01 10:00:00","2024-01-01","He said ""hi""","2"` + "\n" +
		`"","2024-01-02 11:00:00","2024-01-02","","0"` + "\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, want, string(EncodeBytes(records)))
}

func TestEncodeEmptyIsHeaderOnly(t *testing.T) {
	assert.Equal(t, Header+"\n", string(EncodeBytes(nil)))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Fields
		wantErr bool
	}{
		{
			name: "plain",
			line: `"1","2024-01-01 10:00:00","2024-01-01","text","0"`,
			want: Fields{ID: "1", Time: "2024-01-01 10:00:00", Date: "2024-01-01", Text: "text", ImageCount: "0"},
		},
		{
			name: "doubled quotes and comma",
			line: `"1","t","d","a ""b"", c","3"`,
			want: Fields{ID: "1", Time: "t", Date: "d", Text: `a "b", c`, ImageCount: "3"},
		},
		{
			name: "crlf",
			line: "\"1\",\"t\",\"d\",\"x\",\"0\"\r",
			want: Fields{ID: "1", Time: "t", Date: "d", Text: "x", ImageCount: "0"},
		},
		{name: "four fields", line: `"1","t","d","x"`, wantErr: true},
		{name: "six fields", line: `"1","t","d","x","0","extra"`, wantErr: true},
		{name: "unquoted", line: `1,t,d,x,0`, wantErr: true},
		{name: "space after comma", line: `"1", "t","d","x","0"`, wantErr: true},
		{name: "unterminated", line: `"1","t","d","x,"0`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig := store.Record{
		ID:     1700000000000,
		Text:   `He said "hi"`,
		Time:   "2024-01-01 10:00:00",
		Date:   "2024-01-01",
		Images: []string{"data:image/png;base64,AA=="},
	}

	res := Decode(string(EncodeBytes([]store.Record{orig})), fixedNow)
	require.Len(t, res.Records, 1)

	got := res.Records[0]
	assert.Equal(t, orig.Text, got.Text)
	assert.Equal(t, orig.Time, got.Time)
	assert.Equal(t, orig.Date, got.Date)
	assert.Equal(t, []string{}, got.Images)
	assert.NotEqual(t, orig.ID, got.ID)
	assert.Equal(t, fixedNow.UnixMilli()+1, got.ID)
}

func TestRoundTripEmbeddedNewline(t *testing.T) {
	orig := []store.Record{
		{ID: 2, Text: "line one\nline two", Time: "2024-01-01 10:00:00", Date: "2024-01-01"},
		{ID: 1, Text: "after", Time: "2024-01-01 09:00:00", Date: "2024-01-01"},
	}

	res := Decode(string(EncodeBytes(orig)), fixedNow)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "line one\nline two", res.Records[0].Text)
	assert.Equal(t, "after", res.Records[1].Text)
	assert.Zero(t, res.Skipped())
}

func TestDecodeSkipsMalformedAndBlank(t *testing.T) {
	text := strings.Join([]string{
		Header,
		`"1","2024-01-01 10:00:00","2024-01-01","first","0"`,
		``,
		`garbage`,
		`   `,
		`"3","2024-01-03 10:00:00","2024-01-03","third","1"`,
	}, "\n")

	res := Decode(text, fixedNow)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "first", res.Records[0].Text)
	assert.Equal(t, "third", res.Records[1].Text)
	assert.Equal(t, fixedNow.UnixMilli()+1, res.Records[0].ID)
	assert.Equal(t, fixedNow.UnixMilli()+5, res.Records[1].ID)

	require.Len(t, res.Lines, 3)
	assert.Equal(t, 3, res.Lines[1].Index)
	assert.ErrorIs(t, res.Lines[1].Err, ErrMalformedLine)
	assert.Equal(t, 1, res.Skipped())
}

func TestDecodeUnbalancedQuoteDropsOnlyThatLine(t *testing.T) {
	text := strings.Join([]string{
		Header,
		`"1","2024-01-01 10:00:00","2024-01-01","first","0"`,
		`"2","2024-01-02 10:00:00","2024-01-02","bad "quote","0"`,
		`"3","2024-01-03 10:00:00","2024-01-03","third","0"`,
		`"4","2024-01-04 10:00:00","2024-01-04","fourth","0"`,
	}, "\n")

	res := Decode(text, fixedNow)

	require.Len(t, res.Records, 3)
	assert.Equal(t, "first", res.Records[0].Text)
	assert.Equal(t, "third", res.Records[1].Text)
	assert.Equal(t, "fourth", res.Records[2].Text)
	assert.Equal(t, fixedNow.UnixMilli()+3, res.Records[1].ID)

	require.Len(t, res.Lines, 4)
	assert.Equal(t, 2, res.Lines[1].Index)
	assert.ErrorIs(t, res.Lines[1].Err, ErrMalformedLine)
	assert.Equal(t, 1, res.Skipped())
}

func TestDecodeUnbalancedQuoteLastLine(t *testing.T) {
	text := strings.Join([]string{
		Header,
		`"1","2024-01-01 10:00:00","2024-01-01","first","0"`,
		`"2","2024-01-02 10:00:00","2024-01-02","oops`,
	}, "\n")

	res := Decode(text, fixedNow)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "first", res.Records[0].Text)
	assert.Equal(t, 1, res.Skipped())
}

func TestDecodeUnbalancedQuoteBeforeMultilineRecord(t *testing.T) {
	text := strings.Join([]string{
		Header,
		`"1","2024-01-01 10:00:00","2024-01-01","bad "quote","0"`,
		`"2","2024-01-02 10:00:00","2024-01-02","line one`,
		`line two","0"`,
		`"3","2024-01-03 10:00:00","2024-01-03","third","0"`,
	}, "\n")

	res := Decode(text, fixedNow)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "line one\nline two", res.Records[0].Text)
	assert.Equal(t, "third", res.Records[1].Text)
	assert.Equal(t, fixedNow.UnixMilli()+4, res.Records[1].ID)
	assert.Equal(t, 1, res.Skipped())
}

func TestEncodeBytesMatchesEncode(t *testing.T) {
	records := []store.Record{{ID: 1, Text: `say "hi"`, Time: "t", Date: "d", Images: []string{"x"}}}

	var sb strings.Builder
	require.NoError(t, Encode(&sb, records))

	out := EncodeBytes(records)
	assert.Equal(t, sb.String(), string(out))

	// the result must not alias a pooled buffer
	again := EncodeBytes(nil)
	assert.Equal(t, sb.String(), string(out))
	assert.Equal(t, Header+"\n", string(again))
}

func TestDecodeHeaderOnly(t *testing.T) {
	res := Decode(Header+"\n", fixedNow)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Lines)

	res = Decode("", fixedNow)
	assert.Empty(t, res.Records)
}

func TestDecodeCarriesFieldsVerbatim(t *testing.T) {
	res := Decode(Header+"\n"+`"abc","not a time","nope","x","many"`, fixedNow)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "not a time", res.Records[0].Time)
	assert.Equal(t, "nope", res.Records[0].Date)
}

func TestExportFilename(t *testing.T) {
	late := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "记仇本_2024-01-02.csv", ExportFilename(late))
	assert.Equal(t, "记仇本_2024-03-01.csv", ExportFilename(fixedNow))
}
