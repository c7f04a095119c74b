package pipeline

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightCSS returns the CSS rules matching the classes emitted for
// highlighted code blocks in the given chroma style.
// Unknown style names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	var sb strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&sb, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing %s highlight CSS: %w", style, err)
	}
	return sb.String(), nil
}
