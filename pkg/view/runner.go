package view

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/calendar"
	"github.com/kittclouds/grudgebook/pkg/journal"
)

// Outcome is what the host must show after Run.
type Outcome struct {
	Notices []string
	Created []store.Record
	// Missing lists ids that an update or delete did not find.
	Missing []int64
	// Confirm is set when the user has to answer a delete prompt.
	Confirm *ConfirmDelete
}

// Runner performs effects against the journal service.
type Runner struct {
	svc *journal.Service
	log zerolog.Logger
}

// NewRunner creates a runner for svc.
func NewRunner(svc *journal.Service, log zerolog.Logger) *Runner {
	return &Runner{svc: svc, log: log}
}

// Run performs effects in order. Validation failures become notices; storage
// failures stop the run and are returned.
func (r *Runner) Run(effects []Effect) (Outcome, error) {
	var out Outcome
	for _, eff := range effects {
		switch e := eff.(type) {
		case Notice:
			out.Notices = append(out.Notices, e.Text)

		case CreateRecord:
			rec, err := r.svc.CreateRecord(e.Text, e.Images)
			if errors.Is(err, journal.ErrEmptyRecord) {
				out.Notices = append(out.Notices, NoticeEmptySubmit)
				continue
			}
			if err != nil {
				return out, err
			}
			out.Created = append(out.Created, rec)
			out.Notices = append(out.Notices, NoticeRecorded)

		case UpdateText:
			found, err := r.svc.UpdateText(e.ID, e.Text)
			if errors.Is(err, journal.ErrEmptyText) {
				out.Notices = append(out.Notices, NoticeEmptyEdit)
				continue
			}
			if err != nil {
				return out, err
			}
			if !found {
				out.Missing = append(out.Missing, e.ID)
				continue
			}
			out.Notices = append(out.Notices, NoticeUpdated)

		case DeleteRecord:
			found, err := r.svc.Delete(e.ID)
			if err != nil {
				return out, err
			}
			if !found {
				out.Missing = append(out.Missing, e.ID)
				continue
			}
			out.Notices = append(out.Notices, NoticeDeleted)

		case ConfirmDelete:
			confirm := e
			out.Confirm = &confirm

		default:
			return out, fmt.Errorf("unknown effect %T", eff)
		}
	}

	r.log.Debug().
		Int("effects", len(effects)).
		Int("notices", len(out.Notices)).
		Int("missing", len(out.Missing)).
		Msg("effects applied")
	return out, nil
}

// =============================================================================
// Snapshots
// =============================================================================

// CaptureSnapshot is everything the capture screen renders.
type CaptureSnapshot struct {
	Text   string         `json:"text"`
	Images []string       `json:"images"`
	Recent []store.Record `json:"recent"`
	Empty  bool           `json:"empty"`
}

// CaptureView renders s with the recent feed.
func CaptureView(svc *journal.Service, s CaptureState) (CaptureSnapshot, error) {
	recent, err := svc.ListRecent(0)
	if err != nil {
		return CaptureSnapshot{}, err
	}
	return CaptureSnapshot{
		Text:   s.Text,
		Images: s.Images.Images(),
		Recent: recent,
		Empty:  len(recent) == 0,
	}, nil
}

// BrowseSnapshot is everything the browse screen renders.
type BrowseSnapshot struct {
	Title      string            `json:"title"`
	Filter     string            `json:"filter,omitempty"`
	Month      string            `json:"month"`
	MonthTitle string            `json:"monthTitle"`
	Rows       [][]calendar.Cell `json:"rows"`
	Records    []store.Record    `json:"records"`
	Empty      bool              `json:"empty"`
}

// BrowseView renders s: the month grid and the record list under the current filter.
func BrowseView(svc *journal.Service, s BrowseState) (BrowseSnapshot, error) {
	cells, err := svc.Calendar(s.Month, s.Selected)
	if err != nil {
		return BrowseSnapshot{}, err
	}

	var records []store.Record
	if s.Selected != "" {
		records, err = svc.ListByDate(s.Selected)
	} else {
		records, err = svc.ListAll()
	}
	if err != nil {
		return BrowseSnapshot{}, err
	}

	return BrowseSnapshot{
		Title:      s.Title(),
		Filter:     s.Selected,
		Month:      s.Month.String(),
		MonthTitle: s.Month.Title(),
		Rows:       calendar.Rows(cells),
		Records:    records,
		Empty:      len(records) == 0,
	}, nil
}
