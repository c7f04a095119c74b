package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/frontmatter"
)

// ErrEmptyTitle is returned by NewArticle when no title is given.
var ErrEmptyTitle = errors.New("article title cannot be empty")

// ArticleOptions describes a new article.
type ArticleOptions struct {
	Title    string
	Tagline  string
	Tags     []string
	Author   string
	Language string
	// Date is "today", "today:FORMAT" or a literal date. Empty means today.
	Date string
	Now  time.Time
}

// NewArticle writes a Markdown file with a complete header into the
// articles folder and returns its path. Existing files are never replaced.
func NewArticle(layout config.Layout, opts ArticleOptions) (string, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	date, err := dateutil.Resolve(opts.Date, now)
	if err != nil {
		return "", err
	}

	dir := layout.SourceArticles()
	if !fileutil.DirExists(dir) {
		return "", fmt.Errorf("%w: articles folder %s does not exist", ErrCreate, dir)
	}

	path := filepath.Join(dir, date+"-"+Slug(title)+".md")
	if fileutil.Exists(path) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	fm := frontmatter.FrontMatter{
		Title:    title,
		Tagline:  opts.Tagline,
		Tags:     tags,
		Date:     date,
		Author:   opts.Author,
		Language: lang,
	}
	body := []byte("\n# " + title + "\n")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) // #nosec G304 -- path built from the layout
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if _, err := f.Write(frontmatter.Render(fm, body)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreate, err)
	}
	return path, nil
}

// foldMarks removes combining marks after decomposition, turning "é" into "e".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug lowercases title, folds accents and joins its letters and digits
// with hyphens.
func Slug(title string) string {
	folded, _, err := transform.String(foldMarks, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "article"
	}
	return b.String()
}
