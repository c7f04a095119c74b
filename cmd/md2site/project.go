package main

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2site/internal/checks"
	"github.com/alnah/go-md2site/internal/scaffold"
)

// runInit creates a starter project.
func runInit(args []string, env *Environment) error {
	f, pos, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: init takes no arguments, got %q", ErrUsage, pos[0])
	}

	cfg, _, err := resolveConfig(f.common, env)
	if err != nil {
		return err
	}
	applyDirFlags(cfg, f.base, f.staging)
	if f.highlight {
		cfg.Markdown.Highlight = true
	}
	if f.highlightStyle != "" {
		cfg.Markdown.HighlightStyle = f.highlightStyle
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	layout := cfg.Layout()
	created, err := scaffold.Init(layout, scaffold.InitOptions{
		Highlight:      cfg.Markdown.Highlight,
		HighlightStyle: cfg.Markdown.HighlightStyle,
		ConfigPath:     f.writeConfig,
		Config:         cfg,
		Logger:         newLogger(cfg, f.common, env.Stderr),
	})
	if err != nil {
		return err
	}

	if f.common.quiet {
		return nil
	}
	fmt.Fprintf(env.Stdout, "Created %s (%d entries)\n", checks.DisplayPath(layout.Base), len(created))
	if f.common.verbose {
		for _, p := range created {
			fmt.Fprintf(env.Stdout, "  %s\n", checks.DisplayPath(p))
		}
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Next steps:")
	fmt.Fprintln(env.Stdout, "  md2site new \"My first article\"")
	fmt.Fprintln(env.Stdout, "  md2site build")
	return nil
}

// runClean removes the project and, with --all, the staging folder.
func runClean(args []string, env *Environment) error {
	f, pos, err := parseCleanFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: clean takes no arguments, got %q", ErrUsage, pos[0])
	}

	cfg, _, err := resolveConfig(f.common, env)
	if err != nil {
		return err
	}
	applyDirFlags(cfg, f.base, f.staging)
	if err := cfg.Validate(); err != nil {
		return err
	}

	removed, err := scaffold.Clean(cfg.Layout(), scaffold.CleanOptions{
		Staging: f.all,
		Logger:  newLogger(cfg, f.common, env.Stderr),
	})
	if !f.common.quiet {
		for _, p := range removed {
			fmt.Fprintf(env.Stdout, "Removed %s\n", checks.DisplayPath(p))
		}
		if len(removed) == 0 && err == nil {
			fmt.Fprintln(env.Stdout, "Nothing to remove")
		}
	}
	return err
}

// runNew writes a new article with a complete header.
func runNew(args []string, env *Environment) error {
	f, pos, err := parseNewFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	title := strings.TrimSpace(strings.Join(pos, " "))
	if title == "" {
		return fmt.Errorf("%w: new needs a title, e.g. md2site new \"Hello World\"", ErrUsage)
	}

	cfg, ec, err := resolveConfig(f.common, env)
	if err != nil {
		return err
	}
	applyDirFlags(cfg, f.base, "")
	if err := cfg.Validate(); err != nil {
		return err
	}

	author := f.author
	if author == "" {
		author = ec.Author
	}
	lang := f.lang
	if lang == "" {
		lang = ec.Language
	}

	path, err := scaffold.NewArticle(cfg.Layout(), scaffold.ArticleOptions{
		Title:    title,
		Tagline:  f.tagline,
		Tags:     f.tags,
		Author:   author,
		Language: lang,
		Date:     f.date,
		Now:      env.Now(),
	})
	if err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", checks.DisplayPath(path))
	}
	return nil
}
