package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/checks"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/logging"
)

// Check statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// checkResult holds all diagnostic information.
type checkResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Project  projectInfo `json:"project"`
	CSSTool  cssToolInfo `json:"css_tool"`
	Env      envInfo     `json:"environment"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`

	checks *checks.Result
}

// projectInfo holds the folder and file checks of the project.
type projectInfo struct {
	Base    string         `json:"base"`
	Staging string         `json:"staging"`
	Folders []checks.Entry `json:"folders"`
	Files   []checks.Entry `json:"files"`
}

// cssToolInfo holds CSS tool detection results.
type cssToolInfo struct {
	Command []string `json:"command"`
	Skipped bool     `json:"skipped"`
	Found   bool     `json:"found"`
	Path    string   `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runCheck verifies the project without writing anything.
// Missing entries fail with ErrPrecheckFailed; a missing CSS tool only warns.
func runCheck(args []string, env *Environment) error {
	f, pos, err := parseCheckFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: check takes no arguments, got %q", ErrUsage, pos[0])
	}

	cfg, _, err := resolveConfig(f.common, env)
	if err != nil {
		return err
	}
	applyDirFlags(cfg, f.base, "")
	if err := cfg.Validate(); err != nil {
		return err
	}

	result := runChecks(cfg, env)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if !f.common.quiet {
		printCheckResult(env.Stdout, result)
	}

	if err := result.checks.Err(); err != nil {
		return fmt.Errorf("%w: %w", md2site.ErrPrecheckFailed, err)
	}
	return nil
}

// runChecks performs all diagnostic checks.
func runChecks(cfg *config.Config, env *Environment) *checkResult {
	layout := cfg.Layout()
	res := checks.Run(layout, logging.Discard())

	result := &checkResult{
		Project: projectInfo{
			Base:    layout.Base,
			Staging: layout.Staging,
			Folders: res.Folders,
			Files:   res.Files,
		},
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		checks: res,
	}

	for _, p := range res.Missing() {
		result.Errors = append(result.Errors, "missing "+checks.DisplayPath(p))
	}
	checkCSSTool(result, cfg, env)
	checkEnvironment(result, env)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkCSSTool looks the first word of css.command up on PATH.
func checkCSSTool(result *checkResult, cfg *config.Config, env *Environment) {
	result.CSSTool.Command = cfg.CSS.Command
	if cfg.CSS.Skip {
		result.CSSTool.Skipped = true
		return
	}
	if len(cfg.CSS.Command) == 0 {
		return
	}

	program := cfg.CSS.Command[0]
	path, err := env.LookPath(program)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("CSS tool %q not found on PATH. Builds need it unless --skip-css is set", program))
		return
	}
	result.CSSTool.Found = true
	result.CSSTool.Path = path
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *checkResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !result.CSSTool.Skipped &&
		len(result.CSSTool.Command) > 0 && result.CSSTool.Command[0] == "npx" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected with npx as CSS tool. Consider MD2SITE_CSS_COMMAND with a standalone binary")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(env *Environment) (bool, string) {
	if env.Getenv("MD2SITE_CONTAINER") == "1" {
		return true, "MD2SITE_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := env.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printCheckResult outputs human-readable diagnostic results.
func printCheckResult(w io.Writer, r *checkResult) {
	fmt.Fprintln(w, "md2site check")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Project %s\n", checks.DisplayPath(r.Project.Base))
	for _, e := range append(append([]checks.Entry{}, r.Project.Folders...), r.Project.Files...) {
		tag := "[OK]"
		if !e.OK {
			tag = "[ERROR]"
		}
		fmt.Fprintf(w, "  %s %s\n", tag, checks.DisplayPath(e.Path))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CSS tool")
	switch {
	case r.CSSTool.Skipped:
		fmt.Fprintln(w, "  [OK] Skipped (css.skip)")
	case r.CSSTool.Found:
		fmt.Fprintf(w, "  [OK] %s (%s)\n", strings.Join(r.CSSTool.Command, " "), r.CSSTool.Path)
	default:
		fmt.Fprintf(w, "  [WARN] %s not on PATH\n", strings.Join(r.CSSTool.Command, " "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
