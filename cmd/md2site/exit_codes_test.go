package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/scaffold"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// External tool (exit 4)
		{"css tool", md2site.ErrExternalBuild, ExitExternal},
		{"wrapped css tool", fmt.Errorf("build: %w", md2site.ErrExternalBuild), ExitExternal},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"precheck", md2site.ErrPrecheckFailed, ExitIO},
		{"staging setup", md2site.ErrStagingSetup, ExitIO},
		{"articles unreadable", md2site.ErrArticlesUnreadable, ExitIO},
		{"page write", md2site.ErrWritePage, ExitIO},
		{"project exists", scaffold.ErrExists, ExitIO},
		{"project create", scaffold.ErrCreate, ExitIO},
		{"project remove", scaffold.ErrRemove, ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"empty title", scaffold.ErrEmptyTitle, ExitUsage},
		{"malformed header", md2site.ErrMalformedFrontMatter, ExitUsage},
		{"template load", md2site.ErrTemplateLoad, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"render", md2site.ErrRender, ExitGeneral},
		{"cancelled", context.Canceled, ExitGeneral},
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodes_Values - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodes_Values(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitExternal}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", c)
		}
	}
	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("0, 1 and 2 must keep their conventional meaning")
	}
}
