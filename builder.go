package md2site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-md2site/internal/articles"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/checks"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/cssbuild"
	"github.com/alnah/go-md2site/internal/fingerprint"
	"github.com/alnah/go-md2site/internal/logfields"
	"github.com/alnah/go-md2site/internal/logging"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/templates"
)

// Compile-time interface implementation checks.
var (
	_ articles.BodyRenderer  = (*pipeline.Renderer)(nil)
	_ pipeline.ImageRewriter = (*fingerprint.Images)(nil)
	_ fingerprint.Resampler  = fingerprint.ImagingResampler{}
	_ cssbuild.CommandRunner = (*cssbuild.ExecRunner)(nil)
	_ assets.TemplateLoader  = (*assets.FilesystemLoader)(nil)
)

// Builder turns a site project into a staged static site.
// Create with NewBuilder, then call Build once per build.
type Builder struct {
	cfg    config.Config
	layout config.Layout

	logger    *slog.Logger
	now       func() time.Time
	runner    cssbuild.CommandRunner
	resampler fingerprint.Resampler
	loader    assets.TemplateLoader
	workers   int
}

// NewBuilder creates a Builder for cfg. The configuration is validated and
// copied; later changes to cfg do not affect the Builder.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:     *cfg,
		layout:  cfg.Layout(),
		logger:  logging.Discard(),
		now:     time.Now,
		runner:  &cssbuild.ExecRunner{},
		workers: cfg.Build.Workers,
	}
	b.cfg.CSS.Command = append([]string(nil), cfg.CSS.Command...)
	b.resampler = fingerprint.ImagingResampler{
		MaxWidth:  cfg.Images.MaxWidth,
		MaxHeight: cfg.Images.MaxHeight,
		Quality:   cfg.Images.Quality,
	}

	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Layout returns the layout the Builder reads and writes.
func (b *Builder) Layout() config.Layout {
	return b.layout
}

// Build runs the full pipeline. On failure the returned error matches one
// of the package sentinels, or is the context error when ctx is done.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (b *Builder) Build(ctx context.Context) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := b.now()
	report = &Report{BuildID: uuid.NewString()}
	log := b.logger.With(logfields.BuildID(report.BuildID))
	layout := b.layout

	// 1. Prechecks
	log.Info("checking project", logfields.Stage("precheck"), logfields.Path(layout.Base))
	if err := checks.Run(layout, log).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecheckFailed, err)
	}

	// 2. Staging
	if err := resetStaging(layout, b.cfg.Build.Fresh); err != nil {
		return nil, err
	}
	log.Debug("staging ready", logfields.Stage("staging"), logfields.Path(layout.Staging))

	// 3. Templates
	set, err := b.loadTemplates()
	if err != nil {
		return nil, convertError(err)
	}

	// 4. Stylesheet fingerprint, known before any page renders
	css, err := os.ReadFile(layout.Stylesheet())
	if err != nil {
		return nil, fmt.Errorf("%w: reading stylesheet: %v", ErrPrecheckFailed, err)
	}
	report.Stylesheet = fingerprint.StylesheetName(css)
	log.Debug("stylesheet fingerprinted", logfields.Stage("stylesheet"), logfields.File(report.Stylesheet))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Articles
	generated := start.UTC().Format(time.RFC3339)
	images := fingerprint.NewImages(fingerprint.ImagesConfig{
		URLPrefix:  layout.ImageURLPrefix(),
		SourceDir:  layout.SourceImages(),
		StagingDir: layout.StagingImages(),
		Resampler:  b.resampler,
		Logger:     log,
	})
	collector := articles.NewCollector(articles.Options{
		Renderer: pipeline.NewRenderer(pipeline.Options{
			Highlight:      b.cfg.Markdown.Highlight,
			HighlightStyle: b.cfg.Markdown.HighlightStyle,
		}),
		Images:     images,
		Workers:    ResolvePoolSize(b.workers),
		SkipBroken: b.cfg.Build.OnMalformed == config.MalformedSkip,
		Generated:  generated,
		Stylesheet: "../" + report.Stylesheet,
		Logger:     log,
	})
	collection, err := collector.Collect(ctx, layout.SourceArticles())
	if err != nil {
		return nil, convertError(err)
	}
	report.Articles = len(collection.Articles)
	report.Skipped = collection.Skipped

	// 6-7. Pages
	pages, err := b.renderPages(set, collection.Articles, generated, report.Stylesheet, log)
	if err != nil {
		return nil, convertError(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 8. Write
	if err := writePages(pages); err != nil {
		return nil, err
	}
	for _, p := range pages {
		report.Pages = append(report.Pages, p.path)
	}
	log.Info("pages written", logfields.Stage("write"), logfields.Count(len(pages)))

	// 9. Image cache
	pruned, err := fingerprint.Prune(layout.StagingImages(), images.Used())
	if err != nil {
		log.Warn("image pruning failed", logfields.Stage("images"), logfields.Error(err))
	}
	stats := images.Stats()
	report.ImagesProcessed = stats.Processed
	report.ImagesCached = stats.Cached
	report.ImagesSkipped = stats.Skipped
	report.ImagesPruned = len(pruned)

	// 10. Stylesheet
	if b.cfg.CSS.Skip {
		report.CSSSkipped = true
		log.Info("stylesheet build skipped", logfields.Stage("css"))
	} else {
		tool := &cssbuild.Builder{
			Runner:  b.runner,
			Command: b.cfg.CSS.Command,
			Minify:  b.cfg.CSS.Minify,
			Logger:  log,
		}
		out := filepath.Join(layout.Staging, report.Stylesheet)
		if err := tool.Build(ctx, layout.TailwindConfig(), layout.Stylesheet(), out); err != nil {
			return nil, convertError(err)
		}
	}

	report.Duration = b.now().Sub(start)
	log.Info("build complete",
		logfields.Count(report.Articles),
		logfields.Duration(report.Duration),
		slog.Int("images_processed", report.ImagesProcessed),
		slog.Int("images_cached", report.ImagesCached),
	)
	return report, nil
}

func (b *Builder) loadTemplates() (*templates.Set, error) {
	loader := b.loader
	if loader == nil {
		fs, err := assets.NewFilesystemLoader(b.layout.Folder(b.layout.Templates))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", templates.ErrLoad, err)
		}
		loader = fs
	}
	return templates.Load(loader)
}

// renderPages renders every article page with its card, then the listing
// and the home page. Pages are returned in write order.
func (b *Builder) renderPages(set *templates.Set, list []articles.Article, generated, stylesheet string, log *slog.Logger) ([]page, error) {
	layout := b.layout
	pages := make([]page, 0, len(list)+2)
	cards := make([]string, 0, len(list))
	seen := make(map[string]string, len(list))

	for _, a := range list {
		name := a.FileName()
		if prev, ok := seen[name]; ok {
			log.Warn("two articles share a page name, the later one wins",
				logfields.File(a.Source), slog.String("previous", prev), logfields.Path(name))
		}
		seen[name] = a.Source

		html, err := set.RenderArticle(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, a.Source)
		}
		card, err := set.RenderCard(a.Card())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, a.Source)
		}
		pages = append(pages, page{path: filepath.Join(layout.StagingArticles(), name), content: html})
		cards = append(cards, card)
	}

	listing, err := set.RenderList(cards, generated, "../"+stylesheet)
	if err != nil {
		return nil, err
	}
	home, err := set.RenderMain(generated, stylesheet)
	if err != nil {
		return nil, err
	}
	pages = append(pages,
		page{path: filepath.Join(layout.StagingArticles(), config.IndexFile), content: listing},
		page{path: filepath.Join(layout.Staging, config.IndexFile), content: home},
	)
	return pages, nil
}
