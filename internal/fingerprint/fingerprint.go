// Package fingerprint derives content-addressed file names for the site's
// stylesheet and images, and maintains the resampled image cache in the
// staging tree.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Name parts of fingerprinted outputs.
const (
	StylesheetPrefix = "main."
	StylesheetExt    = ".css"
	ImageExt         = ".jpg"
)

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// StylesheetName returns "main.{digest}.css" for the stylesheet source bytes.
func StylesheetName(content []byte) string {
	return StylesheetPrefix + Digest(content) + StylesheetExt
}

// ImageName returns "{digest}.jpg" keyed on the image's source file name.
// The image bytes are not hashed: renaming an image invalidates its cache
// entry, editing it in place does not.
func ImageName(fileName string) string {
	return Digest([]byte(fileName)) + ImageExt
}
