package view

import (
	"strings"
	"time"

	"github.com/kittclouds/grudgebook/pkg/calendar"
)

// BrowseState is the session state of one browse screen.
type BrowseState struct {
	Month    calendar.Month
	Selected string // date filter; empty shows every record

	// PendingDelete is the record awaiting confirmation, 0 when none.
	PendingDelete int64
}

// NewBrowseState opens the browse screen on the month of today with no filter.
func NewBrowseState(today time.Time) BrowseState {
	return BrowseState{Month: calendar.MonthOf(today)}
}

// BrowseEvent is a user action on the browse screen.
type BrowseEvent interface {
	browseEvent()
}

type (
	// PrevMonth shows the previous month.
	PrevMonth struct{}
	// NextMonth shows the following month.
	NextMonth struct{}
	// SelectDate filters the list to one date. The displayed month is kept.
	SelectDate struct{ Date string }
	// ClearFilter shows every record again.
	ClearFilter struct{}
	// EditSubmitted saves edited text for record ID.
	EditSubmitted struct {
		ID   int64
		Text string
	}
	// DeleteRequested starts deleting record ID.
	DeleteRequested struct{ ID int64 }
	// DeleteConfirmed answers the pending confirmation.
	DeleteConfirmed struct{ Confirmed bool }
)

func (PrevMonth) browseEvent()       {}
func (NextMonth) browseEvent()       {}
func (SelectDate) browseEvent()      {}
func (ClearFilter) browseEvent()     {}
func (EditSubmitted) browseEvent()   {}
func (DeleteRequested) browseEvent() {}
func (DeleteConfirmed) browseEvent() {}

// ReduceBrowse applies ev to s.
func ReduceBrowse(s BrowseState, ev BrowseEvent) (BrowseState, []Effect) {
	switch ev := ev.(type) {
	case PrevMonth:
		s.Month = s.Month.Prev()
	case NextMonth:
		s.Month = s.Month.Next()
	case SelectDate:
		s.Selected = ev.Date
	case ClearFilter:
		s.Selected = ""

	case EditSubmitted:
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			return s, notice(NoticeEmptyEdit)
		}
		return s, []Effect{UpdateText{ID: ev.ID, Text: text}}

	case DeleteRequested:
		s.PendingDelete = ev.ID
		return s, []Effect{ConfirmDelete{ID: ev.ID, Prompt: PromptDelete}}

	case DeleteConfirmed:
		id := s.PendingDelete
		s.PendingDelete = 0
		if !ev.Confirmed || id == 0 {
			return s, nil
		}
		return s, []Effect{DeleteRecord{ID: id}}
	}
	return s, nil
}

// Title is the heading of the record list.
func (s BrowseState) Title() string {
	if s.Selected == "" {
		return "所有记录"
	}
	return s.Selected + " 的记录"
}
