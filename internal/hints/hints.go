// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForCSSTool returns hints for a CSS command that failed to start or exited
// non-zero. program is the first element of css.command.
func ForCSSTool(program string) string {
	var hints []string

	if program == "npx" {
		hints = append(hints, "install Node.js so npx is on PATH")
		if inCI() || IsInContainer() {
			hints = append(hints, "or set MD2SITE_CSS_COMMAND to a standalone tailwindcss binary")
		}
	} else {
		hints = append(hints, "check that "+program+" is installed and on PATH")
	}
	hints = append(hints, "use --skip-css to build pages only")

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config dir.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath(p), "go-md2site/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForPrecheck returns a hint for a project missing folders or files.
func ForPrecheck() string {
	return format("run 'md2site init' to create a starter project, or 'md2site check' for details")
}

// ForMalformed returns a hint for an article with a bad front matter block.
func ForMalformed() string {
	return format("required keys: title, tagline, tags, date, author, lang, edited; " +
		"set build.onMalformed: skip to build the other articles")
}

// ForTemplate returns a hint for templates that fail to load or render.
func ForTemplate() string {
	return format("check {{...}} syntax; use {{{article}}} for the raw article body")
}

// ForStagingDirectory returns hints for staging folder creation errors.
func ForStagingDirectory() string {
	return format("check the staging folder's parent exists and is writable")
}

// filepath normalizes separators for matching.
func filepath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
