package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/scaffold"
)

// Exit codes for the md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful command
	ExitGeneral  = 1 // General/unexpected error, including rendering failures
	ExitUsage    = 2 // Invalid flags, config, or article header
	ExitIO       = 3 // Missing project entries, unreadable or unwritable folders
	ExitExternal = 4 // CSS tool failed to start or exited non-zero
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool (exit 4)
	if errors.Is(err, md2site.ErrExternalBuild) {
		return ExitExternal
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, scaffold.ErrEmptyTitle) ||
		errors.Is(err, md2site.ErrMalformedFrontMatter) ||
		errors.Is(err, md2site.ErrTemplateLoad) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2site.ErrPrecheckFailed) ||
		errors.Is(err, md2site.ErrStagingSetup) ||
		errors.Is(err, md2site.ErrArticlesUnreadable) ||
		errors.Is(err, md2site.ErrWritePage) ||
		errors.Is(err, scaffold.ErrExists) ||
		errors.Is(err, scaffold.ErrCreate) ||
		errors.Is(err, scaffold.ErrRemove) {
		return ExitIO
	}

	return ExitGeneral
}
