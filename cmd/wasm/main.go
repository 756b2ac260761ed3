//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall/js"
	"time"

	"github.com/rs/zerolog"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/docstore"
	"github.com/kittclouds/grudgebook/pkg/imageload"
	"github.com/kittclouds/grudgebook/pkg/journal"
	"github.com/kittclouds/grudgebook/pkg/response"
	"github.com/kittclouds/grudgebook/pkg/search"
	"github.com/kittclouds/grudgebook/pkg/view"
)

// Version info
const Version = "1.0.0"

// Global state
var (
	logger zerolog.Logger
	svc    *journal.Service
	runner *view.Runner

	// mu guards the screen sessions; image reads finish on other goroutines.
	mu      sync.Mutex
	capture view.CaptureState
	browse  view.BrowseState
)

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}).With().Timestamp().Str("app", "GrudgeBook").Logger()

	var slot store.Slot
	if ls, ok := newLocalStorageSlot(); ok {
		slot = ls
	} else {
		logger.Warn().Msg("localStorage unavailable, records will not survive a reload")
		slot = docstore.New()
	}

	svc = journal.New(
		store.NewRecordStore(slot, store.WithLogger(logger)),
		store.NewThemeStore(slot),
		journal.WithLogger(logger),
		journal.WithBackup(store.NewSlotBackup(slot)),
	)
	runner = view.NewRunner(svc, logger)
	browse = view.NewBrowseState(svc.Today())

	js.Global().Set("GrudgeBook", js.ValueOf(map[string]interface{}{
		"version": js.FuncOf(getVersion),
		// Capture screen
		"captureView":        js.FuncOf(captureView),
		"captureSetText":     js.FuncOf(captureSetText),
		"captureAddImages":   js.FuncOf(captureAddImages),
		"captureRemoveImage": js.FuncOf(captureRemoveImage),
		"captureSubmit":      js.FuncOf(captureSubmit),
		// Browse screen
		"browseView":          js.FuncOf(browseView),
		"browsePrevMonth":     js.FuncOf(browsePrevMonth),
		"browseNextMonth":     js.FuncOf(browseNextMonth),
		"browseSelectDate":    js.FuncOf(browseSelectDate),
		"browseClearFilter":   js.FuncOf(browseClearFilter),
		"browseEdit":          js.FuncOf(browseEdit),
		"browseRequestDelete": js.FuncOf(browseRequestDelete),
		"browseConfirmDelete": js.FuncOf(browseConfirmDelete),
		// CSV, search, theme
		"exportCSV": js.FuncOf(exportCSV),
		"importCSV": js.FuncOf(importCSV),
		"search":    js.FuncOf(searchRecords),
		"getTheme":  js.FuncOf(getTheme),
		"setTheme":  js.FuncOf(setTheme),
		// Full backup, images included
		"backup":  js.FuncOf(backup),
		"restore": js.FuncOf(restore),
	}))

	logger.Info().Str("version", Version).Msg("WASM ready")

	// Keep the Go runtime alive
	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// =============================================================================
// Capture screen
// =============================================================================

// captureResult renders {notices, view} for the capture screen. Callers hold mu.
func captureResult(out view.Outcome) interface{} {
	snap, err := view.CaptureView(svc, capture)
	if err != nil {
		return response.Error(err.Error())
	}
	return outcomeResult(out, snap)
}

func outcomeResult(out view.Outcome, snap interface{}) string {
	notices := out.Notices
	if notices == nil {
		notices = []string{}
	}
	result := map[string]interface{}{
		"notices": notices,
		"view":    snap,
	}
	if out.Confirm != nil {
		result["confirm"] = map[string]interface{}{
			"id":     out.Confirm.ID,
			"prompt": out.Confirm.Prompt,
		}
	}
	return response.Data(result)
}

func captureDispatch(ev view.CaptureEvent) interface{} {
	mu.Lock()
	defer mu.Unlock()

	next, effects := view.ReduceCapture(capture, ev)
	capture = next
	out, err := runner.Run(effects)
	if err != nil {
		return response.Error(err.Error())
	}
	return captureResult(out)
}

// captureView: [] -> {notices, view}
func captureView(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	defer mu.Unlock()
	return captureResult(view.Outcome{})
}

// captureSetText: [text string]
func captureSetText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("captureSetText requires 1 arg: text")
	}
	return captureDispatch(view.TextChanged{Text: args[0].String()})
}

// captureAddImages: [files FileList|File[]] -> Promise<{notices, view}>
// Each file is read independently; non-images are skipped with a notice.
func captureAddImages(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("captureAddImages requires 1 arg: files")
	}
	files := filesOf(args[0])

	promise, resolve, _ := makePromise()
	go func() {
		res := imageload.Load(context.Background(), files)
		for _, skip := range res.Skipped {
			logger.Warn().Str("file", skip.Name).Err(skip.Err).Msg("image skipped")
		}
		resolve.Invoke(captureDispatch(view.ImagesAdded{Images: res.Images, Skipped: len(res.Skipped)}))
	}()
	return promise
}

// captureRemoveImage: [index int]
func captureRemoveImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("captureRemoveImage requires 1 arg: index")
	}
	return captureDispatch(view.ImageRemoved{Index: args[0].Int()})
}

// captureSubmit: [] -> {notices, view}
func captureSubmit(this js.Value, args []js.Value) interface{} {
	return captureDispatch(view.Submit{})
}

// =============================================================================
// Browse screen
// =============================================================================

func browseResult(out view.Outcome) interface{} {
	snap, err := view.BrowseView(svc, browse)
	if err != nil {
		return response.Error(err.Error())
	}
	return outcomeResult(out, snap)
}

func browseDispatch(ev view.BrowseEvent) interface{} {
	mu.Lock()
	defer mu.Unlock()

	next, effects := view.ReduceBrowse(browse, ev)
	browse = next
	out, err := runner.Run(effects)
	if err != nil {
		return response.Error(err.Error())
	}
	return browseResult(out)
}

// recordID reads a record id passed as a JS number.
func recordID(v js.Value) int64 {
	return int64(v.Float())
}

// browseView: [] -> {notices, view}
func browseView(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	defer mu.Unlock()
	return browseResult(view.Outcome{})
}

func browsePrevMonth(this js.Value, args []js.Value) interface{} {
	return browseDispatch(view.PrevMonth{})
}

func browseNextMonth(this js.Value, args []js.Value) interface{} {
	return browseDispatch(view.NextMonth{})
}

// browseSelectDate: [date string]
func browseSelectDate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("browseSelectDate requires 1 arg: date")
	}
	return browseDispatch(view.SelectDate{Date: args[0].String()})
}

func browseClearFilter(this js.Value, args []js.Value) interface{} {
	return browseDispatch(view.ClearFilter{})
}

// browseEdit: [id number, text string]
func browseEdit(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return response.Error("browseEdit requires 2 args: id, text")
	}
	return browseDispatch(view.EditSubmitted{ID: recordID(args[0]), Text: args[1].String()})
}

// browseRequestDelete: [id number] -> {confirm: {id, prompt}, ...}
// The page shows the prompt and answers with browseConfirmDelete.
func browseRequestDelete(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("browseRequestDelete requires 1 arg: id")
	}
	return browseDispatch(view.DeleteRequested{ID: recordID(args[0])})
}

// browseConfirmDelete: [confirmed bool]
func browseConfirmDelete(this js.Value, args []js.Value) interface{} {
	confirmed := len(args) > 0 && args[0].Truthy()
	return browseDispatch(view.DeleteConfirmed{Confirmed: confirmed})
}

// =============================================================================
// CSV, search, theme
// =============================================================================

// exportCSV: [] -> {notice, filename, data, count}
// The page turns data into a download named filename.
func exportCSV(this js.Value, args []js.Value) interface{} {
	exp, err := svc.ExportCSV()
	if errors.Is(err, journal.ErrNothingToExport) {
		return response.Notice(view.NoticeNothingToExport, nil)
	}
	if err != nil {
		return response.Error(err.Error())
	}
	return response.Notice(view.NoticeExported, map[string]interface{}{
		"filename": exp.Filename,
		"data":     string(exp.Data),
		"count":    exp.Count,
	})
}

// importCSV: [text string] -> {notice, added, skipped}
func importCSV(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("importCSV requires 1 arg: text")
	}

	res, err := svc.ImportCSV([]byte(args[0].String()))
	if errors.Is(err, journal.ErrNothingImported) {
		return response.Notice(view.NoticeNothingImported, map[string]interface{}{"added": 0, "skipped": res.Skipped})
	}
	if err != nil {
		return response.Notice(view.ImportFailedNotice(err), nil)
	}
	return response.Notice(view.ImportedNotice(res.Added), map[string]interface{}{
		"added":   res.Added,
		"skipped": res.Skipped,
	})
}

// search: [query string] -> {terms, hits, timing_us}
func searchRecords(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("search requires 1 arg: query")
	}
	query := args[0].String()

	start := time.Now()
	hits, err := svc.Search(query)
	if err != nil {
		return response.Error(err.Error())
	}
	data, err := response.MarshalSlimSearch(search.Terms(query), hits, time.Since(start).Microseconds())
	if err != nil {
		return response.Error(err.Error())
	}
	return string(data)
}

func getTheme(this js.Value, args []js.Value) interface{} {
	theme, err := svc.GetTheme()
	if err != nil {
		return response.Error(err.Error())
	}
	return string(theme)
}

// setTheme: [name string] -> applied theme
func setTheme(this js.Value, args []js.Value) interface{} {
	name := ""
	if len(args) > 0 {
		name = args[0].String()
	}
	theme, err := svc.SetTheme(name)
	if err != nil {
		return response.Error(err.Error())
	}
	return string(theme)
}

// =============================================================================
// Backup
// =============================================================================

// backup: [] -> Uint8Array of the JSON backup
func backup(this js.Value, args []js.Value) interface{} {
	data, err := svc.Backup()
	if err != nil {
		return response.Error("backup failed: " + err.Error())
	}

	jsArray := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(jsArray, data)

	logger.Info().Int("bytes", len(data)).Msg("backup exported")
	return jsArray
}

// restore: [data Uint8Array]
func restore(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return response.Error("restore requires 1 arg: data (Uint8Array)")
	}

	jsArray := args[0]
	length := jsArray.Get("length").Int()
	data := make([]byte, length)
	js.CopyBytesToGo(data, jsArray)

	if err := svc.Restore(data); err != nil {
		return response.Error(err.Error())
	}

	mu.Lock()
	browse = view.NewBrowseState(svc.Today())
	mu.Unlock()

	logger.Info().Int("bytes", length).Msg("backup restored")
	return response.Success(fmt.Sprintf("restored %d bytes", length))
}

// makePromise creates a JS Promise and returns it along with resolve/reject functions.
func makePromise() (promise js.Value, resolve js.Value, reject js.Value) {
	var resolveFn, rejectFn js.Value
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolveFn = args[0]
		rejectFn = args[1]
		return nil
	})
	defer handler.Release()

	promise = js.Global().Get("Promise").New(handler)
	return promise, resolveFn, rejectFn
}
