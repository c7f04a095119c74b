package md2site

import (
	"context"
	"errors"

	"github.com/alnah/go-md2site/internal/articles"
	"github.com/alnah/go-md2site/internal/cssbuild"
	"github.com/alnah/go-md2site/internal/frontmatter"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/templates"
)

// Sentinel errors for build operations.
var (
	ErrPrecheckFailed       = errors.New("precheck failed")
	ErrStagingSetup         = errors.New("staging setup failed")
	ErrTemplateLoad         = errors.New("template load failed")
	ErrMalformedFrontMatter = errors.New("malformed front matter")
	ErrArticlesUnreadable   = errors.New("articles unreadable")
	ErrRender               = errors.New("rendering failed")
	ErrExternalBuild        = errors.New("external CSS build failed")
	ErrWritePage            = errors.New("page write failed")
)

// convertError maps internal errors to public sentinels.
// Context errors and unknown errors are returned as is.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, frontmatter.ErrMalformed):
		return wrapError(ErrMalformedFrontMatter, err)
	case errors.Is(err, articles.ErrUnreadable):
		return wrapError(ErrArticlesUnreadable, err)
	case errors.Is(err, articles.ErrRender),
		errors.Is(err, templates.ErrRender),
		errors.Is(err, pipeline.ErrHTMLConversion):
		return wrapError(ErrRender, err)
	case errors.Is(err, templates.ErrLoad):
		return wrapError(ErrTemplateLoad, err)
	case errors.Is(err, cssbuild.ErrEmptyCommand),
		errors.Is(err, cssbuild.ErrStart),
		errors.Is(err, cssbuild.ErrFailed):
		return wrapError(ErrExternalBuild, err)
	default:
		return err
	}
}

// wrapError creates an error that reads like original and matches sentinel
// with errors.Is.
func wrapError(sentinel, original error) error {
	if errors.Is(original, sentinel) {
		return original
	}
	return &wrappedError{sentinel: sentinel, original: original}
}

type wrappedError struct {
	sentinel error
	original error
}

func (e *wrappedError) Error() string {
	return e.original.Error()
}

// Unwrap exposes the public sentinel and the original chain, so callers can
// match either.
func (e *wrappedError) Unwrap() []error {
	return []error{e.sentinel, e.original}
}
