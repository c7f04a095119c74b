package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the site into the staging folder")
	fmt.Fprintln(w, "  init       Create a starter project")
	fmt.Fprintln(w, "  new        Create an article with a complete header")
	fmt.Fprintln(w, "  check      Verify the project and the CSS tool")
	fmt.Fprintln(w, "  clean      Remove the project (and staging with --all)")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2site help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every project command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default md2site.yaml if present)")
	fmt.Fprintln(w, "      --env-file <path>     Read MD2SITE_* variables from a file (default .env)")
	fmt.Fprintln(w, "  -b, --base <dir>          Source folder")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every article, the listing and the home page into the staging")
	fmt.Fprintln(w, "folder, resample referenced images and build the fingerprinted stylesheet.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build:")
	fmt.Fprintln(w, "  -s, --staging <dir>       Output folder")
	fmt.Fprintln(w, "  -w, --workers <n>         Articles rendered in parallel (0 = auto)")
	fmt.Fprintln(w, "      --fresh               Drop cached images before building")
	fmt.Fprintln(w, "      --skip-malformed      Leave out articles with a bad header")
	fmt.Fprintln(w, "      --skip-css            Do not run the CSS tool")
	fmt.Fprintln(w, "      --no-minify           Do not minify the stylesheet")
	fmt.Fprintln(w, "      --json                Print the build report as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2SITE_CONFIG, MD2SITE_BASE_DIR, MD2SITE_STAGING_DIR, MD2SITE_WORKERS,")
	fmt.Fprintln(w, "  MD2SITE_ON_MALFORMED, MD2SITE_CSS_COMMAND, MD2SITE_SKIP_CSS,")
	fmt.Fprintln(w, "  MD2SITE_LOG_LEVEL, MD2SITE_LOG_FORMAT")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site init [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create the source folder with starter templates, style and empty")
	fmt.Fprintln(w, "image and article folders. An existing source folder is left alone.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init:")
	fmt.Fprintln(w, "  -s, --staging <dir>       Output folder scanned by the CSS tool")
	fmt.Fprintln(w, "      --highlight           Add code highlighting rules to style.css")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for --highlight (default github)")
	fmt.Fprintln(w, "      --write-config <path> Also write the resolved config as YAML")
}

// printCleanUsage prints usage for the clean command.
func printCleanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site clean [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove the source folder. This deletes your articles.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clean:")
	fmt.Fprintln(w, "  -s, --staging <dir>       Output folder")
	fmt.Fprintln(w, "  -a, --all                 Also remove the staging folder")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site check [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verify every folder and file a build reads, and look the CSS tool up")
	fmt.Fprintln(w, "on PATH. Nothing is written.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// printNewUsage prints usage for the new command.
func printNewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site new <title> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create {date}-{slug}.md in the articles folder with every header key set.")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Article:")
	fmt.Fprintln(w, "      --tagline <s>         One-line summary")
	fmt.Fprintln(w, "      --tags <a,b>          Comma-separated tags")
	fmt.Fprintln(w, "      --author <s>          Author (default $MD2SITE_AUTHOR)")
	fmt.Fprintln(w, "      --lang <s>            Language code (default $MD2SITE_LANG or en)")
	fmt.Fprintln(w, "  -d, --date <s>            Date: \"today\", \"today:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, compact, month, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "clean":
		printCleanUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "new":
		printNewUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2site version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2site help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
