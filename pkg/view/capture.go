package view

import (
	"strings"

	"github.com/kittclouds/grudgebook/pkg/imageload"
)

// CaptureState is the session state of one capture screen.
type CaptureState struct {
	Text   string
	Images imageload.Selection
}

// CaptureEvent is a user action on the capture screen.
type CaptureEvent interface {
	captureEvent()
}

// TextChanged replaces the draft text.
type TextChanged struct {
	Text string
}

// ImagesAdded appends images that finished loading. Skipped counts selected
// files that were not images.
type ImagesAdded struct {
	Images  []string
	Skipped int
}

// ImageRemoved drops the image at Index of the selection.
type ImageRemoved struct {
	Index int
}

// Submit asks to store the draft.
type Submit struct{}

func (TextChanged) captureEvent()  {}
func (ImagesAdded) captureEvent()  {}
func (ImageRemoved) captureEvent() {}
func (Submit) captureEvent()       {}

// ReduceCapture applies ev to s. The input state is never modified.
func ReduceCapture(s CaptureState, ev CaptureEvent) (CaptureState, []Effect) {
	next := CaptureState{Text: s.Text, Images: s.Images.Clone()}

	switch ev := ev.(type) {
	case TextChanged:
		next.Text = ev.Text
		return next, nil

	case ImagesAdded:
		next.Images.Add(ev.Images...)
		if ev.Skipped > 0 {
			return next, notice(NoticeNotImage)
		}
		return next, nil

	case ImageRemoved:
		next.Images.Remove(ev.Index)
		return next, nil

	case Submit:
		text := strings.TrimSpace(next.Text)
		if text == "" && next.Images.Len() == 0 {
			return next, notice(NoticeEmptySubmit)
		}
		create := CreateRecord{Text: text, Images: next.Images.Images()}
		return CaptureState{}, []Effect{create}
	}

	return next, nil
}
