package pipeline

import (
	"bytes"
	"regexp"
)

// utf8BOM is written by some Windows editors at the start of a file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeSource strips a leading byte order mark and converts line endings
// to \n, so positions reported by the parser match what editors show.
// The input is not modified.
func NormalizeSource(body []byte) []byte {
	body = bytes.TrimPrefix(body, utf8BOM)
	if bytes.IndexByte(body, '\r') < 0 {
		return body
	}
	return crlfOrCR.ReplaceAll(body, []byte("\n"))
}
