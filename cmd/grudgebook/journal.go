package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/calendar"
	"github.com/kittclouds/grudgebook/pkg/journal"
	"github.com/kittclouds/grudgebook/pkg/response"
	"github.com/kittclouds/grudgebook/pkg/search"
	"github.com/kittclouds/grudgebook/pkg/view"
)

func newCalendarCmd() *cobra.Command {
	var month, selected string
	var withRecords bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with the days that have records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				s := view.NewBrowseState(a.svc.Today())
				if month != "" {
					m, err := calendar.ParseMonth(month)
					if err != nil {
						return err
					}
					s.Month = m
				}
				if selected != "" {
					s, _ = view.ReduceBrowse(s, view.SelectDate{Date: selected})
				}

				snap, err := view.BrowseView(a.svc, s)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				writeCalendar(out, snap.MonthTitle, snap.Rows)
				if !withRecords {
					return nil
				}
				fmt.Fprintf(out, "\n%s\n", snap.Title)
				return writeRecords(out, "table", snap.Records)
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM, default current month)")
	cmd.Flags().StringVarP(&selected, "select", "s", "", "Selected date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&withRecords, "records", "r", false, "Also list the records under the current filter")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Find records containing every term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				query := strings.Join(args, " ")
				hits, err := a.svc.Search(query)
				if err != nil {
					return err
				}
				if output == "json" {
					data, err := response.MarshalSlimSearch(search.Terms(query), hits, 0)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}

				records := make([]store.Record, 0, len(hits))
				for _, h := range hits {
					records = append(records, h.Record)
				}
				return writeRecords(cmd.OutOrStdout(), output, records)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

// =============================================================================
// CSV
// =============================================================================

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to CSV (images are exported as counts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				exp, err := a.svc.ExportCSV()
				if errors.Is(err, journal.ErrNothingToExport) {
					fmt.Fprintln(cmd.OutOrStdout(), view.NoticeNothingToExport)
					return nil
				}
				if err != nil {
					return err
				}

				if outPath == "-" {
					_, err := cmd.OutOrStdout().Write(exp.Data)
					return err
				}
				path := outPath
				if path == "" {
					path = exp.Filename
				}
				if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}

				log.Info().Str("file", path).Int("records", exp.Count).Msg("csv exported")
				fmt.Fprintln(cmd.OutOrStdout(), view.NoticeExported)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file, '-' for stdout (default 记仇本_<date>.csv)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import records from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				res, err := a.svc.ImportCSV(data)
				if errors.Is(err, journal.ErrNothingImported) {
					fmt.Fprintln(cmd.OutOrStdout(), view.NoticeNothingImported)
					return nil
				}
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), view.ImportFailedNotice(err))
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), view.ImportedNotice(res.Added))
				return nil
			})
		},
	}
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// =============================================================================
// Theme
// =============================================================================

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				theme, err := a.svc.GetTheme()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <pink|yellow|green|blue>",
		Short: "Change the theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				theme, err := a.svc.SetTheme(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range store.Themes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	})

	return cmd
}

// =============================================================================
// Backup
// =============================================================================

func newBackupCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump the whole journal, images included, as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				data, err := a.svc.Backup()
				if err != nil {
					return err
				}
				if outPath == "" || outPath == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(outPath, data, 0o600); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				log.Info().Str("file", outPath).Int("bytes", len(data)).Msg("backup written")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Replace the journal with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return fmt.Errorf("%s is not a JSON backup", args[0])
			}
			return withApp(func(a *app) error {
				if err := a.svc.Restore(data); err != nil {
					return err
				}
				records, err := a.svc.ListAll()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d records\n", len(records))
				return nil
			})
		},
	}
}
