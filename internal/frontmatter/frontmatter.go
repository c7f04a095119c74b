// Package frontmatter splits an article file into its YAML header and
// Markdown body, and checks the header carries every required field.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	matter "github.com/adrg/frontmatter"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Delimiter opens and closes the header block.
const Delimiter = "---"

// ErrMalformed is returned for a missing block, unparseable YAML,
// a missing required field, or edited without edited_date.
var ErrMalformed = errors.New("malformed front matter")

// yamlFormat accepts only "---" delimited YAML, decoded with goccy/go-yaml.
var yamlFormat = matter.NewFormat(Delimiter, Delimiter, yamlutil.Unmarshal)

// FrontMatter is the metadata of one article.
type FrontMatter struct {
	Title      string
	Tagline    string
	Tags       []string
	Date       string // ISO YYYY-MM-DD, not validated
	Author     string
	Language   string
	Edited     bool
	EditedDate string // set when Edited
}

// DisplayDate returns the date shown to readers:
// the raw date, or "{date} (Edited {edited_date})" for edited articles.
func (f FrontMatter) DisplayDate() string {
	if f.Edited {
		return fmt.Sprintf("%s (Edited %s)", f.Date, f.EditedDate)
	}
	return f.Date
}

// header mirrors the YAML keys. Pointers distinguish absent keys from
// empty values.
type header struct {
	Title      *string   `yaml:"title"`
	Tagline    *string   `yaml:"tagline"`
	Tags       *[]string `yaml:"tags"`
	Date       *string   `yaml:"date"`
	Author     *string   `yaml:"author"`
	Lang       *string   `yaml:"lang"`
	Language   *string   `yaml:"language"`
	Edited     *bool     `yaml:"edited"`
	EditedDate *string   `yaml:"edited_date"`
}

// Extract parses the header at the start of source and returns it along
// with the remaining Markdown body. name identifies the file in errors.
func Extract(source []byte, name string) (FrontMatter, []byte, error) {
	var h header
	body, err := matter.MustParse(bytes.NewReader(source), &h, yamlFormat)
	if err != nil {
		if errors.Is(err, matter.ErrNotFound) {
			return FrontMatter{}, nil, fmt.Errorf("%w: %s: no %q block at start of file", ErrMalformed, name, Delimiter)
		}
		return FrontMatter{}, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	fm, err := h.build()
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	return fm, body, nil
}

func (h header) build() (FrontMatter, error) {
	var missing []string
	str := func(key string, v *string) string {
		if v == nil {
			missing = append(missing, key)
			return ""
		}
		return *v
	}

	lang := h.Lang
	if lang == nil {
		lang = h.Language
	}

	fm := FrontMatter{
		Title:    str("title", h.Title),
		Tagline:  str("tagline", h.Tagline),
		Date:     str("date", h.Date),
		Author:   str("author", h.Author),
		Language: str("lang", lang),
	}
	if h.Tags == nil {
		missing = append(missing, "tags")
	} else {
		fm.Tags = *h.Tags
	}
	if h.Edited == nil {
		missing = append(missing, "edited")
	} else {
		fm.Edited = *h.Edited
	}
	if len(missing) > 0 {
		return FrontMatter{}, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	if h.EditedDate != nil {
		fm.EditedDate = *h.EditedDate
	}
	if fm.Edited && strings.TrimSpace(fm.EditedDate) == "" {
		return FrontMatter{}, errors.New("edited is true but edited_date is missing")
	}
	return fm, nil
}

// Render writes fm as a header block followed by body. Every string is
// double-quoted so dates and numbers stay strings when read back.
func Render(fm FrontMatter, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString(Delimiter + "\n")
	fmt.Fprintf(&b, "title: %s\n", strconv.Quote(fm.Title))
	fmt.Fprintf(&b, "tagline: %s\n", strconv.Quote(fm.Tagline))
	tags := make([]string, len(fm.Tags))
	for i, t := range fm.Tags {
		tags[i] = strconv.Quote(t)
	}
	fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "date: %s\n", strconv.Quote(fm.Date))
	fmt.Fprintf(&b, "author: %s\n", strconv.Quote(fm.Author))
	fmt.Fprintf(&b, "lang: %s\n", strconv.Quote(fm.Language))
	fmt.Fprintf(&b, "edited: %t\n", fm.Edited)
	if fm.Edited {
		fmt.Fprintf(&b, "edited_date: %s\n", strconv.Quote(fm.EditedDate))
	}
	b.WriteString(Delimiter + "\n")
	b.Write(body)
	return b.Bytes()
}
