// Package scaffold creates and removes site projects on disk.
package scaffold

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/logfields"
	"github.com/alnah/go-md2site/internal/logging"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for scaffold operations.
var (
	ErrExists = errors.New("already exists")
	ErrCreate = errors.New("cannot create project")
	ErrRemove = errors.New("cannot remove project")
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// stagingGlob is the content glob of the starter tailwind config.
const stagingGlob = `"./staging/**/*.html"`

// InitOptions controls what Init writes besides the folder tree.
type InitOptions struct {
	// Highlight appends the code highlighting rules of HighlightStyle to
	// the starter stylesheet.
	Highlight      bool
	HighlightStyle string

	// ConfigPath, when set, receives Config serialized as YAML.
	ConfigPath string
	Config     *config.Config

	Logger *slog.Logger
}

// Init creates the base folder, every source folder and the starter files.
// It refuses to touch an existing base folder. Returns the created paths.
func Init(layout config.Layout, opts InitOptions) ([]string, error) {
	logger := logging.OrDiscard(opts.Logger)

	if fileutil.Exists(layout.Base) {
		return nil, fmt.Errorf("%w: %s", ErrExists, layout.Base)
	}
	if opts.ConfigPath != "" && fileutil.Exists(opts.ConfigPath) {
		return nil, fmt.Errorf("%w: %s", ErrExists, opts.ConfigPath)
	}

	starter, err := assets.Starter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	var created []string
	if err := os.Mkdir(layout.Base, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}
	created = append(created, layout.Base)

	for _, dir := range layout.Folders() {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return created, fmt.Errorf("%w: %v", ErrCreate, err)
		}
		created = append(created, dir)
	}

	for _, f := range starter {
		dest, content, err := starterTarget(layout, f, opts)
		if err != nil {
			return created, err
		}
		if err := fileutil.WriteFileAtomic(dest, content, filePerm); err != nil {
			return created, fmt.Errorf("%w: %v", ErrCreate, err)
		}
		created = append(created, dest)
		logger.Debug("created file", logfields.Path(dest))
	}

	if opts.ConfigPath != "" && opts.Config != nil {
		data, err := yamlutil.Marshal(opts.Config)
		if err != nil {
			return created, fmt.Errorf("%w: %v", ErrCreate, err)
		}
		if err := fileutil.WriteFileAtomic(opts.ConfigPath, data, filePerm); err != nil {
			return created, fmt.Errorf("%w: %v", ErrCreate, err)
		}
		created = append(created, opts.ConfigPath)
	}

	logger.Info("project created", logfields.Path(layout.Base), logfields.Count(len(created)))
	return created, nil
}

// starterTarget maps an embedded starter file to its place in the layout
// and adjusts its content to the configured layout.
func starterTarget(layout config.Layout, f assets.StarterFile, opts InitOptions) (string, []byte, error) {
	switch f.Dir {
	case assets.StarterTemplatesDir:
		return filepath.Join(layout.Folder(layout.Templates), f.Name), f.Content, nil
	case assets.StarterStyleDir:
		dest := filepath.Join(layout.Folder(layout.Style), f.Name)
		switch f.Name {
		case config.TailwindConfigFile:
			glob := `"` + contentGlob(layout.Staging) + `"`
			return dest, []byte(strings.Replace(string(f.Content), stagingGlob, glob, 1)), nil
		case config.StylesheetFile:
			if !opts.Highlight {
				return dest, f.Content, nil
			}
			css, err := pipeline.HighlightCSS(opts.HighlightStyle)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrCreate, err)
			}
			return dest, append(append(append([]byte{}, f.Content...), '\n'), css...), nil
		}
		return dest, f.Content, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown starter folder %q", ErrCreate, f.Dir)
	}
}

// contentGlob returns the tailwind content glob for pages built in staging.
func contentGlob(staging string) string {
	s := filepath.ToSlash(filepath.Clean(staging))
	if !filepath.IsAbs(staging) && !strings.HasPrefix(s, "../") {
		s = "./" + s
	}
	return s + "/**/*.html"
}

// CleanOptions controls what Clean removes.
type CleanOptions struct {
	// Staging also removes the staging folder.
	Staging bool
	Logger  *slog.Logger
}

// Clean removes the base folder and, optionally, the staging folder.
// Missing folders are not an error. Returns the removed paths.
func Clean(layout config.Layout, opts CleanOptions) ([]string, error) {
	logger := logging.OrDiscard(opts.Logger)

	targets := []string{layout.Base}
	if opts.Staging {
		targets = append(targets, layout.Staging)
	}

	var removed []string
	var errs []error
	for _, dir := range targets {
		if !fileutil.Exists(dir) {
			logger.Debug("nothing to remove", logfields.Path(dir))
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Error("remove failed", logfields.Path(dir), logfields.Error(err))
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrRemove, dir, err))
			continue
		}
		removed = append(removed, dir)
		logger.Info("removed", logfields.Path(dir))
	}
	return removed, errors.Join(errs...)
}
