package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/frontmatter"
	"github.com/alnah/go-md2site/internal/logfields"
	"github.com/alnah/go-md2site/internal/logging"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// Sentinel errors for collection.
var (
	ErrUnreadable = errors.New("articles unreadable")
	ErrRender     = errors.New("article rendering failed")
)

// BodyRenderer renders a Markdown body, rewriting image destinations.
type BodyRenderer interface {
	Render(ctx context.Context, body []byte, images pipeline.ImageRewriter) (string, error)
}

// Compile-time interface implementation check.
var _ BodyRenderer = (*pipeline.Renderer)(nil)

// Options configures a Collector.
type Options struct {
	Renderer   BodyRenderer
	Images     pipeline.ImageRewriter // nil leaves image URLs untouched
	Workers    int                    // bodies rendered concurrently, min 1
	SkipBroken bool                   // skip malformed articles instead of failing
	Generated  string
	Stylesheet string
	Logger     *slog.Logger
}

// Collection is the result of Collect.
type Collection struct {
	Articles []Article // newest first
	Skipped  []string  // malformed files left out when SkipBroken is set
}

// Collector builds articles from a folder of Markdown files.
type Collector struct {
	opts   Options
	logger *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(opts Options) *Collector {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Collector{opts: opts, logger: logging.OrDiscard(opts.Logger)}
}

type source struct {
	name string
	fm   frontmatter.FrontMatter
	body []byte
}

// Collect reads every regular, non-hidden file in dir.
//
// All headers are parsed before any body is rendered, so a malformed file
// fails the collection before images are written. Bodies are then rendered
// concurrently. Articles are ordered by raw date, newest first, using plain
// string comparison (ISO dates sort correctly); ties keep directory order.
func (c *Collector) Collect(ctx context.Context, dir string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	result := &Collection{}
	var sources []source
	for _, e := range entries {
		name := e.Name()
		if fileutil.IsHidden(name) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		raw, err := os.ReadFile(path) // #nosec G304 -- path is inside the articles folder
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, name, err)
		}
		fm, body, err := frontmatter.Extract(raw, name)
		if err != nil {
			if c.opts.SkipBroken {
				c.logger.Warn("skipping article", logfields.File(name), logfields.Error(err))
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return nil, err
		}
		c.logger.Debug("article found", logfields.File(name))
		sources = append(sources, source{name: name, fm: fm, body: body})
	}

	articles, err := c.render(ctx, sources)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})
	result.Articles = articles
	return result, nil
}

// render converts bodies with at most Workers in flight. Results are stored
// by index so output does not depend on scheduling.
func (c *Collector) render(ctx context.Context, sources []source) ([]Article, error) {
	articles := make([]Article, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, src := range sources {
		g.Go(func() error {
			html, err := c.opts.Renderer.Render(gctx, src.body, c.opts.Images)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRender, src.name, err)
			}
			articles[i] = newArticle(src.fm, html, src.name, c.opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return articles, nil
}
