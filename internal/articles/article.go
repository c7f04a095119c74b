// Package articles reads the articles folder and turns each Markdown file
// into a rendered, ordered Article.
package articles

import (
	"strings"

	"github.com/alnah/go-md2site/internal/frontmatter"
)

// TagSeparator joins tags for display.
const TagSeparator = ", "

// Article is one rendered article. It is not modified after collection.
type Article struct {
	Title       string
	Tagline     string
	Tags        string // joined with TagSeparator
	Date        string // raw front matter date, used for ordering and file names
	DisplayDate string
	Author      string
	Language    string
	Body        string // rendered HTML fragment
	Generated   string // build timestamp, RFC 3339 UTC
	Stylesheet  string // relative to the article page, e.g. ../main.{digest}.css
	Source      string // source file name
}

// Card is the listing-page summary of an article.
type Card struct {
	Link    string
	Title   string
	Tagline string
	Tags    string
	Date    string // display date
}

func newArticle(fm frontmatter.FrontMatter, body, source string, opts Options) Article {
	return Article{
		Title:       fm.Title,
		Tagline:     fm.Tagline,
		Tags:        strings.Join(fm.Tags, TagSeparator),
		Date:        fm.Date,
		DisplayDate: fm.DisplayDate(),
		Author:      fm.Author,
		Language:    fm.Language,
		Body:        body,
		Generated:   opts.Generated,
		Stylesheet:  opts.Stylesheet,
		Source:      source,
	}
}

// FileName returns "{date}-{lowercased title}.html".
// Path separators in the title become "-" so the page stays in its folder.
func (a Article) FileName() string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, strings.ToLower(a.Title))
	return a.Date + "-" + title + ".html"
}

// Card returns the article's listing summary, linking to FileName.
func (a Article) Card() Card {
	return Card{
		Link:    a.FileName(),
		Title:   a.Title,
		Tagline: a.Tagline,
		Tags:    a.Tags,
		Date:    a.DisplayDate,
	}
}
