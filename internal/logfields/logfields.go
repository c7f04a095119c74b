// Package logfields holds the attribute keys shared by every build log line.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyImage      = "image"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func File(name string) slog.Attr  { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr      { return slog.String(KeyURL, u) }
func Image(name string) slog.Attr { return slog.String(KeyImage, name) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }

// Duration reports d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d)/float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
