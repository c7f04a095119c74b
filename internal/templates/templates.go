// Package templates binds article, listing and home page data into the
// site's four Handlebars templates.
package templates

import (
	"errors"
	"fmt"

	"github.com/aymerick/raymond"

	"github.com/alnah/go-md2site/internal/articles"
	"github.com/alnah/go-md2site/internal/assets"
)

// Template names.
const (
	Article = "article"
	Main    = "main"
	List    = "list"
	Card    = "card"
)

// Names lists every template a Set registers.
var Names = []string{Article, Main, List, Card}

// Sentinel errors for template operations.
var (
	ErrLoad   = errors.New("template load failed")
	ErrRender = errors.New("template rendering failed")
)

// Set holds the four parsed page templates.
// Templates are read-only after Load and may be executed concurrently.
type Set struct {
	tpls map[string]*raymond.Template
}

// Load reads and parses every template from loader. A missing or malformed
// source fails with ErrLoad naming the template.
func Load(loader assets.TemplateLoader) (*Set, error) {
	s := &Set{tpls: make(map[string]*raymond.Template, len(Names))}
	for _, name := range Names {
		src, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
		}
		tpl, err := raymond.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, name, err)
		}
		s.tpls[name] = tpl
	}
	return s, nil
}

// RenderArticle renders a full article page.
func (s *Set) RenderArticle(a articles.Article) (string, error) {
	return s.exec(Article, map[string]any{
		"title":      a.Title,
		"tagline":    a.Tagline,
		"tags":       a.Tags,
		"date":       a.DisplayDate,
		"author":     a.Author,
		"lang":       a.Language,
		"article":    a.Body,
		"generated":  a.Generated,
		"stylesheet": a.Stylesheet,
	})
}

// RenderCard renders the listing fragment of one article.
func (s *Set) RenderCard(c articles.Card) (string, error) {
	return s.exec(Card, map[string]any{
		"article_link": c.Link,
		"title":        c.Title,
		"tagline":      c.Tagline,
		"tags":         c.Tags,
		"date":         c.Date,
	})
}

// RenderList renders the listing page from rendered card fragments.
// stylesheet is relative to the articles folder.
func (s *Set) RenderList(cards []string, generated, stylesheet string) (string, error) {
	if cards == nil {
		cards = []string{}
	}
	return s.exec(List, map[string]any{
		"article_cards": cards,
		"generated":     generated,
		"stylesheet":    stylesheet,
	})
}

// RenderMain renders the home page. stylesheet is relative to the site root.
func (s *Set) RenderMain(generated, stylesheet string) (string, error) {
	return s.exec(Main, map[string]any{
		"generated":  generated,
		"stylesheet": stylesheet,
	})
}

func (s *Set) exec(name string, data map[string]any) (string, error) {
	tpl, ok := s.tpls[name]
	if !ok {
		return "", fmt.Errorf("%w: %s: not loaded", ErrRender, name)
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	return out, nil
}
