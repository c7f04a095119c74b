package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrHTMLConversion indicates Markdown could not be rendered.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// ImageRewriter maps an image destination found in Markdown to the
// destination written to HTML.
type ImageRewriter interface {
	RewriteImage(url string) string
}

// ImageRewriterFunc adapts a function to ImageRewriter.
type ImageRewriterFunc func(url string) string

// RewriteImage calls f(url).
func (f ImageRewriterFunc) RewriteImage(url string) string { return f(url) }

// Options configures a Renderer.
type Options struct {
	Highlight      bool   // fenced code blocks get chroma CSS classes
	HighlightStyle string // chroma style name
}

// Renderer converts Markdown bodies to HTML fragments.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with table, strikethrough and task list support.
func NewRenderer(opts Options) *Renderer {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = DefaultHighlightStyle
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // site stylesheet owns the colors
			),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &Renderer{md: md}
}

// Render normalizes body, parses it, rewrites image destinations with images (if non-nil),
// and returns the HTML fragment with tables wrapped.
// Goldmark has no context support, so cancellation is honored with the
// goroutine + select pattern.
func (r *Renderer) Render(ctx context.Context, body []byte, images ImageRewriter) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	body = NormalizeSource(body)
	go func() {
		doc := r.md.Parser().Parse(text.NewReader(body))
		if images != nil {
			if err := RewriteImages(doc, images); err != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
				return
			}
		}

		var buf bytes.Buffer
		if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: WrapTables(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
