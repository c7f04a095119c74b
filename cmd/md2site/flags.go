package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands that read a config.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common        commonFlags
	base          string
	staging       string
	workers       int
	fresh         bool
	skipCSS       bool
	noMinify      bool
	skipMalformed bool
	json          bool
}

// initFlags holds flags for the init command.
type initFlags struct {
	common         commonFlags
	base           string
	staging        string
	highlight      bool
	highlightStyle string
	writeConfig    string
}

// cleanFlags holds flags for the clean command.
type cleanFlags struct {
	common  commonFlags
	base    string
	staging string
	all     bool
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common commonFlags
	base   string
	json   bool
}

// newFlags holds flags for the new command.
type newFlags struct {
	common  commonFlags
	base    string
	tagline string
	tags    []string
	author  string
	lang    string
	date    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", "", "read MD2SITE_* variables from this file (default .env)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addDirFlags adds the base and staging folder overrides.
func addDirFlags(fs *flag.FlagSet, base, staging *string) {
	fs.StringVarP(base, "base", "b", "", "source folder (site.baseDir)")
	if staging != nil {
		fs.StringVarP(staging, "staging", "s", "", "output folder (site.stagingDir)")
	}
}

// newFlagSet returns a FlagSet that reports to w and prints usage on -h.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// registerBuildFlags adds build command flags to fs.
func registerBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	addCommonFlags(fs, &f.common)
	addDirFlags(fs, &f.base, &f.staging)
	fs.IntVarP(&f.workers, "workers", "w", 0, "articles rendered in parallel (0 = auto)")
	fs.BoolVar(&f.fresh, "fresh", false, "drop cached images before building")
	fs.BoolVar(&f.skipCSS, "skip-css", false, "do not run the CSS tool")
	fs.BoolVar(&f.noMinify, "no-minify", false, "do not minify the stylesheet")
	fs.BoolVar(&f.skipMalformed, "skip-malformed", false, "leave out articles with a bad header")
	fs.BoolVar(&f.json, "json", false, "print the build report as JSON")
}

// registerInitFlags adds init command flags to fs.
func registerInitFlags(fs *flag.FlagSet, f *initFlags) {
	addCommonFlags(fs, &f.common)
	addDirFlags(fs, &f.base, &f.staging)
	fs.BoolVar(&f.highlight, "highlight", false, "add code highlighting rules to style.css")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for --highlight (default github)")
	fs.StringVar(&f.writeConfig, "write-config", "", "also write the resolved config to this file")
}

// registerCleanFlags adds clean command flags to fs.
func registerCleanFlags(fs *flag.FlagSet, f *cleanFlags) {
	addCommonFlags(fs, &f.common)
	addDirFlags(fs, &f.base, &f.staging)
	fs.BoolVarP(&f.all, "all", "a", false, "also remove the staging folder")
}

// registerCheckFlags adds check command flags to fs.
func registerCheckFlags(fs *flag.FlagSet, f *checkFlags) {
	addCommonFlags(fs, &f.common)
	addDirFlags(fs, &f.base, nil)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
}

// registerNewFlags adds new command flags to fs.
func registerNewFlags(fs *flag.FlagSet, f *newFlags) {
	addCommonFlags(fs, &f.common)
	addDirFlags(fs, &f.base, nil)
	fs.StringVar(&f.tagline, "tagline", "", "one-line summary")
	fs.StringSliceVar(&f.tags, "tags", nil, "comma-separated tags")
	fs.StringVar(&f.author, "author", "", "author name (default $MD2SITE_AUTHOR)")
	fs.StringVar(&f.lang, "lang", "", "language code (default $MD2SITE_LANG or en)")
	fs.StringVarP(&f.date, "date", "d", "", "\"today\", \"today:FORMAT\" or a literal date")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, w io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", w, printBuildUsage)
	registerBuildFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init command flags.
func parseInitFlags(args []string, w io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := newFlagSet("init", w, printInitUsage)
	registerInitFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCleanFlags parses clean command flags.
func parseCleanFlags(args []string, w io.Writer) (*cleanFlags, []string, error) {
	f := &cleanFlags{}
	fs := newFlagSet("clean", w, printCleanUsage)
	registerCleanFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags.
func parseCheckFlags(args []string, w io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := newFlagSet("check", w, printCheckUsage)
	registerCheckFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseNewFlags parses new command flags. The title is positional.
func parseNewFlags(args []string, w io.Writer) (*newFlags, []string, error) {
	f := &newFlags{}
	fs := newFlagSet("new", w, printNewUsage)
	registerNewFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
