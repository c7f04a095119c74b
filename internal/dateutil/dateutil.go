// Package dateutil resolves the date written into the header of a new article.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat sorts correctly as a plain string, which the article
// listing relies on.
const DefaultDateFormat = "YYYY-MM-DD"

// Today is the keyword resolved to the current date.
const Today = "today"

// tokens maps format tokens to Go layout components, longest first so
// matching is greedy.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts accepted after "today:".
var Presets = map[string]string{
	"iso":     "YYYY-MM-DD",
	"compact": "YYYYMMDD",
	"month":   "YYYY-MM",
	"long":    "MMMM D, YYYY",
}

// Layout converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D) to a Go
// time layout. Text in brackets is copied literally, as is any character
// that is not a token.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := 1
		lit := rest[:1]
		for _, tk := range tokens {
			if strings.HasPrefix(rest, tk.token) {
				n, lit = len(tk.token), tk.layout
				break
			}
		}
		b.WriteString(lit)
		rest = rest[n:]
	}
	return b.String(), nil
}

// Resolve returns the date for a new article header.
//   - "" or "today": t in DefaultDateFormat
//   - "today:FORMAT" or "today:preset": t in that format
//   - anything else: returned unchanged
func Resolve(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	switch {
	case value == "" || lower == Today:
		return format(DefaultDateFormat, t)
	case strings.HasPrefix(lower, Today+":"):
		f := value[len(Today)+1:]
		if f == "" {
			return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, Today+":")
		}
		if preset, ok := Presets[strings.ToLower(f)]; ok {
			f = preset
		}
		return format(f, t)
	case strings.HasPrefix(lower, Today):
		return "", fmt.Errorf("%w: %q, use %q or %q", ErrInvalidDateFormat, value, Today, Today+":FORMAT")
	default:
		return value, nil
	}
}

func format(f string, t time.Time) (string, error) {
	layout, err := Layout(f)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
