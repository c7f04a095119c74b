package md2site

import (
	"log/slog"
	"time"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/cssbuild"
	"github.com/alnah/go-md2site/internal/fingerprint"
)

// Report summarizes a successful build.
type Report struct {
	BuildID         string        `json:"build_id"`
	Articles        int           `json:"articles"`
	Skipped         []string      `json:"skipped,omitempty"`
	Pages           []string      `json:"pages"`
	Stylesheet      string        `json:"stylesheet"`
	ImagesProcessed int           `json:"images_processed"`
	ImagesCached    int           `json:"images_cached"`
	ImagesSkipped   int           `json:"images_skipped"`
	ImagesPruned    int           `json:"images_pruned"`
	CSSSkipped      bool          `json:"css_skipped"`
	Duration        time.Duration `json:"duration"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Nil keeps logging discarded.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the time source used for the generation stamp and the
// build duration.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("md2site: WithClock function must not be nil")
	}
	return func(b *Builder) {
		b.now = now
	}
}

// WithCommandRunner replaces the runner of the CSS tool.
func WithCommandRunner(r cssbuild.CommandRunner) Option {
	return func(b *Builder) {
		b.runner = r
	}
}

// WithResampler replaces the image resampler.
func WithResampler(r fingerprint.Resampler) Option {
	return func(b *Builder) {
		b.resampler = r
	}
}

// WithTemplateLoader replaces the loader reading templates from the
// templates folder.
func WithTemplateLoader(l assets.TemplateLoader) Option {
	return func(b *Builder) {
		b.loader = l
	}
}

// WithWorkers sets how many articles render concurrently.
// Zero or less means automatic sizing.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}
