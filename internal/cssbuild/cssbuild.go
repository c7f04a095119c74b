// Package cssbuild runs the external stylesheet tool (tailwindcss by default)
// that compiles the site stylesheet into its fingerprinted staging file.
package cssbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/logfields"
	"github.com/alnah/go-md2site/internal/logging"
	"github.com/alnah/go-md2site/internal/process"
)

// Sentinel errors for stylesheet builds.
var (
	ErrEmptyCommand = errors.New("css command cannot be empty")
	ErrStart        = errors.New("css command could not start")
	ErrFailed       = errors.New("css command failed")
)

// maxStderr bounds how much tool output is kept in error messages.
const maxStderr = 4096

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in its
// own process group, which is killed when ctx is cancelled.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Run starts the command and waits for it, or kills its process group when
// ctx is done. A start failure wraps ErrStart.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- command comes from user config
	cmd.Dir = r.Dir
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrStart, name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return stdout.String(), stderr.String(), err
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		<-done
		return stdout.String(), stderr.String(), ctx.Err()
	}
}

// Builder compiles a stylesheet with an external command.
type Builder struct {
	Runner  CommandRunner
	Command []string // program and leading arguments, e.g. [npx -y tailwindcss]
	Minify  bool
	Logger  *slog.Logger
}

// Args returns the full argument list passed after the program name.
func (b *Builder) Args(configPath, input, output string) []string {
	args := append([]string{}, b.Command[1:]...)
	args = append(args, "-c", configPath, "-i", input, "-o", output)
	if b.Minify {
		args = append(args, "--minify")
	}
	return args
}

// Build runs {command...} -c configPath -i input -o output [--minify].
// A non-zero exit wraps ErrFailed with the tail of the tool's stderr.
func (b *Builder) Build(ctx context.Context, configPath, input, output string) error {
	if len(b.Command) == 0 || strings.TrimSpace(b.Command[0]) == "" {
		return ErrEmptyCommand
	}
	logger := logging.OrDiscard(b.Logger)
	runner := b.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	start := time.Now()
	args := b.Args(configPath, input, output)
	logger.Debug("running css command", slog.String("command", b.Command[0]), slog.Any("args", args))

	_, stderr, err := runner.Run(ctx, b.Command[0], args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, ErrStart) {
			return err
		}
		return fmt.Errorf("%w: %s: %v%s", ErrFailed, b.Command[0], err, formatStderr(stderr))
	}

	logger.Info("stylesheet built", logfields.Path(output), logfields.Duration(time.Since(start)))
	return nil
}

func formatStderr(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if len(stderr) > maxStderr {
		stderr = "..." + stderr[len(stderr)-maxStderr:]
	}
	return "\n" + stderr
}
