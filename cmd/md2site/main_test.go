package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	md2site "github.com/alnah/go-md2site"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Isolated environment
// ---------------------------------------------------------------------------

// testCLI runs commands against a temp project with a fake process
// environment. The config file pins both folders inside the temp dir and
// skips the CSS tool.
type testCLI struct {
	root    string
	config  string
	vars    map[string]string
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	lookErr error
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	root := t.TempDir()
	c := &testCLI{
		root:    root,
		config:  filepath.Join(root, "md2site.yaml"),
		vars:    map[string]string{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		lookErr: exec.ErrNotFound,
	}
	yaml := fmt.Sprintf("site:\n  baseDir: %q\n  stagingDir: %q\ncss:\n  skip: true\n",
		filepath.Join(root, "site"), filepath.Join(root, "staging"))
	if err := os.WriteFile(c.config, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return c
}

func (c *testCLI) env() *Environment {
	return &Environment{
		Now:    func() time.Time { return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC) },
		Stdout: c.stdout,
		Stderr: c.stderr,
		Getenv: func(k string) string { return c.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(c.vars))
			for k, v := range c.vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
		LookPath: func(name string) (string, error) {
			if c.lookErr != nil {
				return "", c.lookErr
			}
			return "/usr/bin/" + name, nil
		},
	}
}

// run executes one command with --config appended and returns its exit code.
func (c *testCLI) run(args ...string) int {
	c.stdout.Reset()
	c.stderr.Reset()
	full := append([]string{"md2site"}, args...)
	if len(args) > 0 {
		full = append(full, "--config", c.config)
	}
	return runMain(context.Background(), full, c.env())
}

func (c *testCLI) path(parts ...string) string {
	return filepath.Join(append([]string{c.root}, parts...)...)
}

// ---------------------------------------------------------------------------
// TestRunMain_Workflow - init, new, build, check
// ---------------------------------------------------------------------------

func TestRunMain_Workflow(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)

	if code := c.run("init"); code != ExitSuccess {
		t.Fatalf("init exit = %d, stderr:\n%s", code, c.stderr)
	}
	if !strings.Contains(c.stdout.String(), "Next steps") {
		t.Errorf("init output = %q", c.stdout)
	}

	if code := c.run("new", "Hello", "World", "--date", "2024-01-01", "--author", "Ada", "--tags", "go,web"); code != ExitSuccess {
		t.Fatalf("new exit = %d, stderr:\n%s", code, c.stderr)
	}
	article := c.path("site", "notes", "2024-01-01-hello-world.md")
	if !strings.Contains(c.stdout.String(), article) {
		t.Errorf("new output = %q, want path %s", c.stdout, article)
	}

	if code := c.run("build"); code != ExitSuccess {
		t.Fatalf("build exit = %d, stderr:\n%s", code, c.stderr)
	}
	if !strings.Contains(c.stdout.String(), "Built 1 article into") {
		t.Errorf("build output = %q", c.stdout)
	}
	page := c.path("staging", "articles", "2024-01-01-hello world.html")
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("article page missing: %v", err)
	}
	if !strings.Contains(string(data), "<title>Hello World</title>") {
		t.Error("article page should carry the title")
	}

	if code := c.run("check"); code != ExitSuccess {
		t.Fatalf("check exit = %d, stderr:\n%s", code, c.stderr)
	}
	if !strings.Contains(c.stdout.String(), "Status: Ready to build") {
		t.Errorf("check output = %q", c.stdout)
	}

	if code := c.run("clean", "--all"); code != ExitSuccess {
		t.Fatalf("clean exit = %d, stderr:\n%s", code, c.stderr)
	}
	for _, dir := range []string{c.path("site"), c.path("staging")} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", dir)
		}
	}
}

func TestRunMain_BuildJSON(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	if code := c.run("init"); code != ExitSuccess {
		t.Fatalf("init exit = %d: %s", code, c.stderr)
	}
	if code := c.run("build", "--json", "--quiet"); code != ExitSuccess {
		t.Fatalf("build exit = %d: %s", code, c.stderr)
	}

	var report md2site.Report
	if err := json.Unmarshal(c.stdout.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, c.stdout)
	}
	if report.Articles != 0 || !report.CSSSkipped || report.BuildID == "" {
		t.Errorf("report = %+v", report)
	}
}

func TestRunMain_EnvOverridesConfig(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.vars["MD2SITE_BASE_DIR"] = c.path("other")
	if code := c.run("init", "--quiet"); code != ExitSuccess {
		t.Fatalf("init exit = %d: %s", code, c.stderr)
	}
	if _, err := os.Stat(c.path("other", "templates", "main.hbs")); err != nil {
		t.Error("init should use MD2SITE_BASE_DIR")
	}

	// Flags win over the environment.
	if code := c.run("init", "--quiet", "--base", c.path("flag")); code != ExitSuccess {
		t.Fatalf("init exit = %d: %s", code, c.stderr)
	}
	if _, err := os.Stat(c.path("flag", "templates", "main.hbs")); err != nil {
		t.Error("init should prefer --base over MD2SITE_BASE_DIR")
	}
}

func TestRunMain_UnknownEnvWarns(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.vars["MD2SITE_WORKER"] = "4"
	c.run("check")
	if !strings.Contains(c.stderr.String(), "unknown environment variable MD2SITE_WORKER") {
		t.Errorf("stderr = %q, want typo warning", c.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Errors - Exit codes and hints
// ---------------------------------------------------------------------------

func TestRunMain_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(t *testing.T, c *testCLI)
		args      []string
		want      int
		errSubstr string
	}{
		{
			name:      "unknown command",
			args:      []string{"serve"},
			want:      ExitUsage,
			errSubstr: "unknown command: serve",
		},
		{
			name:      "unknown flag",
			args:      []string{"build", "--nope"},
			want:      ExitUsage,
			errSubstr: "invalid usage",
		},
		{
			name:      "build args",
			args:      []string{"build", "extra"},
			want:      ExitUsage,
			errSubstr: "no arguments",
		},
		{
			name:      "build without project",
			args:      []string{"build"},
			want:      ExitIO,
			errSubstr: "md2site init",
		},
		{
			name:      "check without project",
			args:      []string{"check"},
			want:      ExitIO,
			errSubstr: "precheck failed",
		},
		{
			name:      "init twice",
			setup:     func(t *testing.T, c *testCLI) { mustRun(t, c, "init") },
			args:      []string{"init"},
			want:      ExitIO,
			errSubstr: "already exists",
		},
		{
			name:      "new without title",
			args:      []string{"new"},
			want:      ExitUsage,
			errSubstr: "needs a title",
		},
		{
			name:      "new with bad date format",
			setup:     func(t *testing.T, c *testCLI) { mustRun(t, c, "init") },
			args:      []string{"new", "Title", "--date", "today:[open"},
			want:      ExitUsage,
			errSubstr: "invalid date format",
		},
		{
			name:      "new without project",
			args:      []string{"new", "Title"},
			want:      ExitIO,
			errSubstr: "articles folder",
		},
		{
			name: "malformed article",
			setup: func(t *testing.T, c *testCLI) {
				mustRun(t, c, "init")
				if err := os.WriteFile(c.path("site", "notes", "bad.md"), []byte("# no header\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			args:      []string{"build"},
			want:      ExitUsage,
			errSubstr: "required keys",
		},
		{
			name: "invalid config value",
			setup: func(t *testing.T, c *testCLI) {
				c.vars["MD2SITE_ON_MALFORMED"] = "ignore"
			},
			args:      []string{"build"},
			want:      ExitUsage,
			errSubstr: "build.onMalformed",
		},
		{
			name: "missing env file",
			args: []string{"build", "--env-file", "does-not-exist.env"},
			want: ExitIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCLI(t)
			if tt.setup != nil {
				tt.setup(t, c)
			}
			got := c.run(tt.args...)
			if got != tt.want {
				t.Errorf("exit = %d, want %d\nstderr:\n%s", got, tt.want, c.stderr)
			}
			if tt.errSubstr != "" && !strings.Contains(c.stderr.String(), tt.errSubstr) {
				t.Errorf("stderr = %q, want substring %q", c.stderr, tt.errSubstr)
			}
		})
	}
}

func TestRunMain_ConfigNotFound(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	code := runMain(context.Background(), []string{"md2site", "check", "--config", "no-such-config-name"}, c.env())
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(c.stderr.String(), "hint: use --config") {
		t.Errorf("stderr = %q, want config hint", c.stderr)
	}
}

func mustRun(t *testing.T, c *testCLI, args ...string) {
	t.Helper()
	if code := c.run(args...); code != ExitSuccess {
		t.Fatalf("%v exit = %d: %s", args, code, c.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Meta - usage, help and version
// ---------------------------------------------------------------------------

func TestRunMain_Meta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		want      int
		stdoutHas string
		stderrHas string
	}{
		{"no command", []string{"md2site"}, ExitUsage, "", "Usage: md2site <command>"},
		{"version", []string{"md2site", "version"}, ExitSuccess, "md2site " + Version, ""},
		{"help", []string{"md2site", "help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"md2site", "help", "build"}, ExitSuccess, "--skip-css", ""},
		{"help new", []string{"md2site", "help", "new"}, ExitSuccess, "today:FORMAT", ""},
		{"help unknown", []string{"md2site", "help", "serve"}, ExitUsage, "", "unknown command"},
		{"build --help", []string{"md2site", "build", "--help"}, ExitSuccess, "", "Usage: md2site build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCLI(t)
			got := runMain(context.Background(), tt.args, c.env())
			if got != tt.want {
				t.Errorf("exit = %d, want %d", got, tt.want)
			}
			if tt.stdoutHas != "" && !strings.Contains(c.stdout.String(), tt.stdoutHas) {
				t.Errorf("stdout = %q, want %q", c.stdout, tt.stdoutHas)
			}
			if tt.stderrHas != "" && !strings.Contains(c.stderr.String(), tt.stderrHas) {
				t.Errorf("stderr = %q, want %q", c.stderr, tt.stderrHas)
			}
		})
	}
}
