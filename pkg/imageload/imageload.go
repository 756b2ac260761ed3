// Package imageload turns selected files into image data URIs.
//
// Each file is read by its own goroutine and results are appended in
// completion order; Load returns once every read has finished.
package imageload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupportedType marks a file that is not an image.
var ErrUnsupportedType = errors.New("not an image file")

// File is one user-selected file.
type File interface {
	Name() string
	// ContentType is the declared MIME type; empty means unknown.
	ContentType() string
	ReadAll(ctx context.Context) ([]byte, error)
}

// Skip records a file that produced no image.
type Skip struct {
	Name string
	Err  error
}

// Result is the outcome of Load.
type Result struct {
	Images  []string // data URIs in completion order
	Skipped []Skip
}

// Load reads files concurrently. A file that is not an image, or cannot be
// read, is skipped without affecting the others.
func Load(ctx context.Context, files []File) Result {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		res Result
	)

	for _, f := range files {
		wg.Add(1)
		go func(f File) {
			defer wg.Done()
			uri, err := readDataURI(ctx, f)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Skipped = append(res.Skipped, Skip{Name: f.Name(), Err: err})
				return
			}
			res.Images = append(res.Images, uri)
		}(f)
	}

	wg.Wait()
	return res
}

func readDataURI(ctx context.Context, f File) (string, error) {
	declared := f.ContentType()
	if declared != "" && !isImage(declared) {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, f.Name(), declared)
	}

	data, err := f.ReadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}

	mimeType := declared
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
		if !isImage(mimeType) {
			return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, f.Name(), mimeType)
		}
	}

	return DataURI(mimeType, data), nil
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// =============================================================================
// Files on disk
// =============================================================================

// PathFile is a File backed by a path on disk. The type comes from the extension.
type PathFile string

// Name returns the base name.
func (p PathFile) Name() string { return filepath.Base(string(p)) }

// ContentType guesses from the extension, stripping any parameters.
func (p PathFile) ContentType() string {
	t := mime.TypeByExtension(filepath.Ext(string(p)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// ReadAll reads the whole file.
func (p PathFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(string(p))
}

// Paths wraps paths as Files.
func Paths(paths ...string) []File {
	files := make([]File, len(paths))
	for i, p := range paths {
		files[i] = PathFile(p)
	}
	return files
}
