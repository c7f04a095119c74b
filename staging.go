package md2site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
)

const (
	dirPerm  = 0o750
	pagePerm = 0o644
)

// resetStaging empties the staging folder and recreates its tree.
// The images folder survives unless fresh is set, so unchanged images are
// not resampled again.
func resetStaging(layout config.Layout, fresh bool) error {
	if fresh {
		if err := os.RemoveAll(layout.Staging); err != nil {
			return fmt.Errorf("%w: %v", ErrStagingSetup, err)
		}
	} else {
		entries, err := os.ReadDir(layout.Staging)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", ErrStagingSetup, err)
		}
		for _, e := range entries {
			if e.IsDir() && e.Name() == config.StagingImagesDir {
				continue
			}
			if err := os.RemoveAll(filepath.Join(layout.Staging, e.Name())); err != nil {
				return fmt.Errorf("%w: %v", ErrStagingSetup, err)
			}
		}
	}

	for _, dir := range []string{layout.Staging, layout.StagingImages(), layout.StagingArticles()} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("%w: %v", ErrStagingSetup, err)
		}
	}
	return nil
}

// page is one rendered HTML file waiting to be written.
type page struct {
	path    string
	content string
}

// writePages writes every page atomically.
func writePages(pages []page) error {
	for _, p := range pages {
		if err := fileutil.WriteFileAtomic(p.path, []byte(p.content), pagePerm); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWritePage, p.path, err)
		}
	}
	return nil
}
