package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGetCommands - Registry mirrors the parsers
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := make(map[string]commandDef)
	for _, c := range getCommands() {
		byName[c.Name] = c
	}

	for _, name := range []string{"build", "init", "new", "check", "clean", "version", "completion", "help"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("command %q missing from registry", name)
		}
	}

	build := byName["build"]
	flags := make(map[string]flagDef)
	for _, f := range build.Flags {
		flags[f.Long] = f
	}
	if f := flags["config"]; f.Short != "c" || f.Type != flagFile {
		t.Errorf("config flag = %+v, want -c with file completion", f)
	}
	if f := flags["staging"]; f.Type != flagDir {
		t.Errorf("staging flag = %+v, want directory completion", f)
	}
	if _, ok := flags["skip-css"]; !ok {
		t.Error("build should expose --skip-css")
	}

	if len(byName["help"].Args) != 7 {
		t.Errorf("help args = %v, want every other command", byName["help"].Args)
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script output per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"complete -F _md2site md2site", "--skip-css", "compgen -d"}},
		{ShellZsh, []string{"bashcompinit", "complete -F _md2site md2site"}},
		{ShellFish, []string{"__fish_use_subcommand -a build", "-l config -s c -r -F", "__fish_complete_directories"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "powershell")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	if err := runCompletion(nil, c.env()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.stdout.String(), "Usage: md2site completion") {
		t.Errorf("no args should print usage, got %q", c.stdout)
	}

	if code := reportError(c.env(), runCompletion([]string{"tcsh"}, c.env())); code != ExitUsage {
		t.Errorf("unsupported shell exit = %d, want %d", code, ExitUsage)
	}
}

func TestFishQuote(t *testing.T) {
	t.Parallel()

	if got := fishQuote(`it's a\b`); got != `'it\'s a\\b'` {
		t.Errorf("fishQuote() = %s", got)
	}
}
