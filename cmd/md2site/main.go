package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "init":
		err = runInit(rest, env)
	case "clean":
		err = runClean(rest, env)
	case "check":
		err = runCheck(rest, env)
	case "new":
		err = runNew(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
	case "help", "-h", "--help":
		err = runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		printUsage(env.Stderr)
	}
	return reportError(env, err)
}

// reportError prints err with its hint and maps it to an exit code.
// --help is not an error.
func reportError(env *Environment, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// usageError marks a flag parsing failure. --help passes through.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
