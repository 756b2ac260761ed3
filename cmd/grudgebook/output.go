package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/calendar"
	"github.com/kittclouds/grudgebook/pkg/response"
)

// writeRecords prints records as a table, JSON or YAML. Image payloads are
// reduced to counts; use backup for a full dump.
func writeRecords(w io.Writer, format string, records []store.Record) error {
	slim := response.FromRecords(records)

	switch format {
	case "json":
		b, err := json.MarshalIndent(slim, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
		return nil

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(slim); err != nil {
			return err
		}
		return enc.Close()

	case "table", "":
		if len(slim) == 0 {
			fmt.Fprintln(w, "暂无记录")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\t时间\t图片\t内容")
		for _, r := range slim {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.Time, r.ImageCount, oneLine(r.Text))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ⏎ ")
}

var weekdays = []string{"日", "一", "二", "三", "四", "五", "六"}

// writeCalendar prints a month grid. Days with records carry '*', today '!',
// the selected day is bracketed and days of adjacent months are parenthesised.
func writeCalendar(w io.Writer, title string, rows [][]calendar.Cell) {
	fmt.Fprintf(w, "%s\n", title)
	for _, d := range weekdays {
		fmt.Fprintf(w, "  %s  ", d)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for _, c := range row {
			fmt.Fprint(w, formatCell(c))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "* 有记录  ! 今天  [..] 选中  (..) 其他月份")
}

func formatCell(c calendar.Cell) string {
	open, closing := " ", " "
	switch {
	case c.IsSelected:
		open, closing = "[", "]"
	case c.Adjacent:
		open, closing = "(", ")"
	}

	mark := ""
	if c.HasRecords {
		mark += "*"
	}
	if c.IsToday {
		mark += "!"
	}
	return fmt.Sprintf("%s%2d%s%-2s", open, c.Day, closing, mark)
}
