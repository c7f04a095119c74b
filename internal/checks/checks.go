// Package checks verifies that a site project has every folder and file a
// build reads before anything is written to staging.
package checks

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/logging"
)

// ErrMissing is returned when at least one required entry is absent.
var ErrMissing = errors.New("required entries missing")

// Kind tells whether an entry is expected to be a folder or a regular file.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// Entry is the outcome of one existence check.
type Entry struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	OK   bool   `json:"ok"`
}

// Status renders the entry as "./path: OK" or "./path: ERR".
func (e Entry) Status() string {
	s := "ERR"
	if e.OK {
		s = "OK"
	}
	return DisplayPath(e.Path) + ": " + s
}

// Result holds folder and file checks, each in layout order.
type Result struct {
	Folders []Entry `json:"folders"`
	Files   []Entry `json:"files"`
}

// FoldersOK reports whether every folder exists.
func (r *Result) FoldersOK() bool { return allOK(r.Folders) }

// FilesOK reports whether every file exists.
func (r *Result) FilesOK() bool { return allOK(r.Files) }

// OK reports whether every entry exists.
func (r *Result) OK() bool { return r.FoldersOK() && r.FilesOK() }

// Missing returns the paths of failed entries, folders first.
func (r *Result) Missing() []string {
	var out []string
	for _, e := range append(append([]Entry{}, r.Folders...), r.Files...) {
		if !e.OK {
			out = append(out, e.Path)
		}
	}
	return out
}

// Err returns nil when every entry exists, otherwise ErrMissing listing the
// missing paths.
func (r *Result) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}

// Run checks the layout's folders then its files, logging one status line
// per entry. Files are checked even when folders fail so the report is
// complete.
func Run(layout config.Layout, logger *slog.Logger) *Result {
	logger = logging.OrDiscard(logger)
	r := &Result{
		Folders: checkAll(layout.Folders(), KindFolder, fileutil.DirExists),
		Files:   checkAll(layout.Files(), KindFile, fileutil.FileExists),
	}
	for _, e := range append(append([]Entry{}, r.Folders...), r.Files...) {
		if e.OK {
			logger.Info(e.Status())
		} else {
			logger.Error(e.Status())
		}
	}
	return r
}

// DisplayPath prefixes relative paths with "./" using forward slashes.
func DisplayPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return "./" + filepath.ToSlash(filepath.Clean(p))
}

func checkAll(paths []string, kind Kind, exists func(string) bool) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, Entry{Path: p, Kind: kind, OK: exists(p)})
	}
	return entries
}

func allOK(entries []Entry) bool {
	for _, e := range entries {
		if !e.OK {
			return false
		}
	}
	return true
}
