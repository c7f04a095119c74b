package fingerprint

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/logfields"
	"github.com/alnah/go-md2site/internal/logging"
)

// PublicPrefix is prepended to fingerprinted image names in rendered pages.
const PublicPrefix = "../images/"

const imagePermissions = 0o644

// ImagesConfig configures an Images processor.
type ImagesConfig struct {
	URLPrefix  string    // Markdown destinations with this prefix are local, e.g. "../images/"
	SourceDir  string    // folder holding the original images
	StagingDir string    // folder receiving {digest}.jpg
	Resampler  Resampler // nil means ImagingResampler with default bounds
	Logger     *slog.Logger
}

// ImageStats counts how each referenced image was resolved.
type ImageStats struct {
	Processed int // resampled and written this build
	Cached    int // output already present
	Skipped   int // left unchanged: missing, unnamed or failed
}

// Images rewrites local image references to fingerprinted, resampled copies.
// It is safe for concurrent use; each output path is produced at most once.
type Images struct {
	cfg    ImagesConfig
	logger *slog.Logger
	group  singleflight.Group

	mu    sync.Mutex
	used  map[string]struct{}
	stats ImageStats
}

// NewImages creates an Images processor.
func NewImages(cfg ImagesConfig) *Images {
	if cfg.Resampler == nil {
		cfg.Resampler = ImagingResampler{MaxWidth: 1920, MaxHeight: 1080, Quality: 85}
	}
	return &Images{
		cfg:    cfg,
		logger: logging.OrDiscard(cfg.Logger),
		used:   make(map[string]struct{}),
	}
}

// RewriteImage returns the destination to write in HTML for a Markdown image
// destination. Non-local URLs pass through. Local images resolve to
// "../images/{digest}.jpg", resampling only when that file does not exist yet.
// Any failure is logged and leaves the URL unchanged.
func (p *Images) RewriteImage(rawURL string) string {
	if !strings.HasPrefix(rawURL, p.cfg.URLPrefix) {
		p.logger.Debug("not a local image", logfields.URL(rawURL))
		return rawURL
	}

	name, ok := imageFileName(strings.TrimPrefix(rawURL, p.cfg.URLPrefix))
	if !ok {
		p.logger.Warn("image reference has no file name", logfields.URL(rawURL))
		p.count(func(s *ImageStats) { s.Skipped++ })
		return rawURL
	}

	src := filepath.Join(p.cfg.SourceDir, name)
	if !fileutil.FileExists(src) {
		p.logger.Warn("missing image", logfields.URL(rawURL), logfields.Path(src))
		p.count(func(s *ImageStats) { s.Skipped++ })
		return rawURL
	}

	outName := ImageName(name)
	dst := filepath.Join(p.cfg.StagingDir, outName)

	_, err, _ := p.group.Do(dst, func() (any, error) {
		if fileutil.Exists(dst) {
			p.logger.Debug("image cached", logfields.Image(outName), logfields.File(name))
			p.count(func(s *ImageStats) { s.Cached++ })
			return nil, nil
		}
		err := fileutil.WriteAtomic(dst, imagePermissions, func(w io.Writer) error {
			return p.cfg.Resampler.Resample(src, w)
		})
		if err != nil {
			return nil, err
		}
		p.logger.Debug("image resampled", logfields.Image(outName), logfields.File(name))
		p.count(func(s *ImageStats) { s.Processed++ })
		return nil, nil
	})
	if err != nil {
		p.logger.Warn("could not process image", logfields.Path(src), logfields.Error(err))
		p.count(func(s *ImageStats) { s.Skipped++ })
		return rawURL
	}

	p.mu.Lock()
	p.used[outName] = struct{}{}
	p.mu.Unlock()
	return PublicPrefix + outName
}

// Used returns the fingerprinted names referenced so far, sorted.
func (p *Images) Used() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.used))
	for n := range p.used {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Stats returns a snapshot of the counters.
func (p *Images) Stats() ImageStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Images) count(f func(*ImageStats)) {
	p.mu.Lock()
	f(&p.stats)
	p.mu.Unlock()
}

// Prune removes fingerprinted images in dir that are not in keep.
// Files that do not look like fingerprinted images are left alone.
// Returns the removed names.
func Prune(dir string, keep []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !isImageName(name) {
			continue
		}
		if _, ok := kept[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// imageFileName extracts the file name from the part of a destination after
// the local prefix. Percent-escapes are decoded; query and fragment dropped.
func imageFileName(rest string) (string, bool) {
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}
	if rest == "" || strings.HasSuffix(rest, "/") {
		return "", false
	}
	name := path.Base(rest)
	if name == "." || name == ".." || name == "/" {
		return "", false
	}
	return name, true
}

func isImageName(name string) bool {
	digest, ok := strings.CutSuffix(name, ImageExt)
	if !ok || len(digest) != 64 {
		return false
	}
	for _, c := range digest {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
