package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/imageload"
	"github.com/kittclouds/grudgebook/pkg/view"
)

// ErrNotFound is returned when an edit or delete names an unknown id.
var ErrNotFound = errors.New("record not found")

func newAddCmd() *cobra.Command {
	var images []string

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Record a new grudge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				var s view.CaptureState
				var effects []view.Effect

				if len(images) > 0 {
					res := imageload.Load(cmd.Context(), imageload.Paths(images...))
					for _, skip := range res.Skipped {
						log.Warn().Str("file", skip.Name).Err(skip.Err).Msg("image skipped")
					}
					s, effects = view.ReduceCapture(s, view.ImagesAdded{Images: res.Images, Skipped: len(res.Skipped)})
					printNotices(cmd.OutOrStdout(), noticesOf(effects))
				}

				s, _ = view.ReduceCapture(s, view.TextChanged{Text: strings.Join(args, " ")})
				_, effects = view.ReduceCapture(s, view.Submit{})

				out, err := a.runner.Run(effects)
				if err != nil {
					return err
				}
				printNotices(cmd.OutOrStdout(), out.Notices)
				for _, r := range out.Created {
					fmt.Fprintf(cmd.OutOrStdout(), "id: %d\n", r.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&images, "image", "i", nil, "Image file to attach (repeatable)")
	return cmd
}

func noticesOf(effects []view.Effect) []string {
	var out []string
	for _, e := range effects {
		if n, ok := e.(view.Notice); ok {
			out = append(out, n.Text)
		}
	}
	return out
}

func newRecentCmd() *cobra.Command {
	var limit int
	var output string

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				records, err := a.svc.ListRecent(limit)
				if err != nil {
					return err
				}
				return writeRecords(cmd.OutOrStdout(), output, records)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of records (default from GRUDGEBOOK_RECENT_LIMIT)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func newListCmd() *cobra.Command {
	var date, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every record, or those of one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				var (
					records []store.Record
					err     error
				)
				if date != "" {
					records, err = a.svc.ListByDate(date)
				} else {
					records, err = a.svc.ListAll()
				}
				if err != nil {
					return err
				}
				return writeRecords(cmd.OutOrStdout(), output, records)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only records of this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q: %w", s, err)
	}
	return id, nil
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				s := view.NewBrowseState(a.svc.Today())
				_, effects := view.ReduceBrowse(s, view.EditSubmitted{ID: id, Text: strings.Join(args[1:], " ")})

				out, err := a.runner.Run(effects)
				if err != nil {
					return err
				}
				printNotices(cmd.OutOrStdout(), out.Notices)
				if len(out.Missing) > 0 {
					return fmt.Errorf("%w: %d", ErrNotFound, id)
				}
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				s := view.NewBrowseState(a.svc.Today())
				s, effects := view.ReduceBrowse(s, view.DeleteRequested{ID: id})
				out, err := a.runner.Run(effects)
				if err != nil {
					return err
				}

				confirmed := yes
				if out.Confirm != nil && !yes {
					confirmed = ask(cmd, out.Confirm.Prompt)
				}

				_, effects = view.ReduceBrowse(s, view.DeleteConfirmed{Confirmed: confirmed})
				out, err = a.runner.Run(effects)
				if err != nil {
					return err
				}
				printNotices(cmd.OutOrStdout(), out.Notices)
				if len(out.Missing) > 0 {
					return fmt.Errorf("%w: %d", ErrNotFound, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// ask prints prompt and reads a y/n answer from stdin. Anything but yes declines.
func ask(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
