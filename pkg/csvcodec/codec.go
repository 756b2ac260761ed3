// Package csvcodec converts records to and from the journal's CSV export format.
//
// Every field is double-quoted and embedded quotes are doubled. Images are
// exported as a count only, so decoded records never carry image data.
package csvcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/pool"
)

// Header is the first line of every export.
const Header = `"ID","时间","日期","内容","图片数量"`

// fieldCount is the number of quoted fields per line.
const fieldCount = 5

// ErrMalformedLine is returned by ParseLine for a line outside the five-field grammar.
var ErrMalformedLine = errors.New("malformed csv line")

// Fields are the raw values of one data line, in column order.
type Fields struct {
	ID         string
	Time       string
	Date       string
	Text       string
	ImageCount string
}

// =============================================================================
// Encode
// =============================================================================

// Encode writes the header and one line per record to w.
func Encode(w io.Writer, records []store.Record) error {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	encodeTo(buf, records)
	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeBytes is Encode into a fresh byte slice.
func EncodeBytes(records []store.Record) []byte {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	encodeTo(buf, records)
	return bytes.Clone(buf.Bytes())
}

func encodeTo(buf *bytes.Buffer, records []store.Record) {
	buf.WriteString(Header)
	buf.WriteByte('\n')

	for _, r := range records {
		id := ""
		if r.ID != 0 {
			id = strconv.FormatInt(r.ID, 10)
		}
		writeField(buf, id)
		buf.WriteByte(',')
		writeField(buf, r.Time)
		buf.WriteByte(',')
		writeField(buf, r.Date)
		buf.WriteByte(',')
		writeField(buf, r.Text)
		buf.WriteByte(',')
		writeField(buf, strconv.Itoa(len(r.Images)))
		buf.WriteByte('\n')
	}
}

func writeField(w io.StringWriter, s string) {
	w.WriteString(`"`)
	w.WriteString(strings.ReplaceAll(s, `"`, `""`))
	w.WriteString(`"`)
}

// =============================================================================
// Decode
// =============================================================================

// ParseLine parses one data line: exactly five quoted fields separated by commas.
// A doubled quote inside a field decodes to a single quote. A trailing \r is ignored.
func ParseLine(line string) (Fields, error) {
	line = strings.TrimSuffix(line, "\r")

	var vals [fieldCount]string
	pos := 0
	for i := 0; i < fieldCount; i++ {
		if i > 0 {
			if pos >= len(line) || line[pos] != ',' {
				return Fields{}, fmt.Errorf("%w: expected ',' before field %d at byte %d", ErrMalformedLine, i+1, pos)
			}
			pos++
		}
		val, next, err := parseField(line, pos)
		if err != nil {
			return Fields{}, fmt.Errorf("%w: field %d: %v", ErrMalformedLine, i+1, err)
		}
		vals[i] = val
		pos = next
	}
	if pos != len(line) {
		return Fields{}, fmt.Errorf("%w: unexpected trailing data at byte %d", ErrMalformedLine, pos)
	}

	return Fields{
		ID:         vals[0],
		Time:       vals[1],
		Date:       vals[2],
		Text:       vals[3],
		ImageCount: vals[4],
	}, nil
}

// parseField reads a quoted field starting at pos and returns its value and the
// position just past the closing quote.
func parseField(line string, pos int) (string, int, error) {
	if pos >= len(line) || line[pos] != '"' {
		return "", pos, fmt.Errorf("expected opening quote at byte %d", pos)
	}
	pos++

	var sb strings.Builder
	for pos < len(line) {
		c := line[pos]
		if c != '"' {
			sb.WriteByte(c)
			pos++
			continue
		}
		if pos+1 < len(line) && line[pos+1] == '"' {
			sb.WriteByte('"')
			pos += 2
			continue
		}
		return sb.String(), pos + 1, nil
	}
	return "", pos, errors.New("unterminated quote")
}

// nextLine returns the logical line that starts at physical line i and the
// index just past it. Physical lines are joined while a quoted field is still
// open, but a join is kept only when the result parses; otherwise line i stands
// alone so an unbalanced quote cannot swallow the lines after it.
func nextLine(lines []string, i int) (string, int) {
	if strings.Count(lines[i], `"`)%2 == 0 {
		return lines[i], i + 1
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.Count(lines[j], `"`)%2 == 0 {
			continue
		}
		joined := strings.Join(lines[i:j+1], "\n")
		if _, err := ParseLine(joined); err == nil {
			return joined, j + 1
		}
		break
	}
	return lines[i], i + 1
}

// LineResult reports the outcome for one non-blank data line.
type LineResult struct {
	Index int   // physical line the record starts on; the header is 0
	Err   error // nil when the line decoded
}

// Result is the outcome of Decode.
type Result struct {
	Records []store.Record
	Lines   []LineResult
}

// Skipped returns the number of data lines that did not decode.
func (r Result) Skipped() int {
	n := 0
	for _, l := range r.Lines {
		if l.Err != nil {
			n++
		}
	}
	return n
}

// Decode parses an export. The header line and blank lines are ignored and
// malformed lines are skipped. Each decoded record gets a fresh id of
// now in milliseconds plus its line index, and no images. The id, time and
// date columns are carried through without validation.
func Decode(text string, now time.Time) Result {
	base := now.UnixMilli()
	lines := strings.Split(text, "\n")

	res := Result{Records: make([]store.Record, 0, len(lines))}
	for i := 1; i < len(lines); {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		line, next := nextLine(lines, i)
		f, err := ParseLine(line)
		res.Lines = append(res.Lines, LineResult{Index: i, Err: err})
		if err == nil {
			res.Records = append(res.Records, store.Record{
				ID:     base + int64(i),
				Text:   f.Text,
				Time:   f.Time,
				Date:   f.Date,
				Images: []string{},
			})
		}
		i = next
	}
	return res
}

// ExportFilename names an export taken at now, using the UTC date.
func ExportFilename(now time.Time) string {
	return "记仇本_" + now.UTC().Format(store.DateLayout) + ".csv"
}
