package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/checks"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
)

// runBuild builds the site into the staging folder.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, pos, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: build takes no arguments, got %q", ErrUsage, pos[0])
	}

	cfg, _, err := resolveConfig(f.common, env)
	if err != nil {
		return err
	}
	applyBuildFlags(f, cfg)

	logger := newLogger(cfg, f.common, env.Stderr)
	builder, err := md2site.NewBuilder(cfg,
		md2site.WithLogger(logger),
		md2site.WithClock(env.Now),
	)
	if err != nil {
		return err
	}

	report, err := builder.Build(ctx)
	if err != nil {
		if errors.Is(err, md2site.ErrExternalBuild) && len(cfg.CSS.Command) > 0 {
			return withHint(err, hints.ForCSSTool(cfg.CSS.Command[0]))
		}
		return err
	}

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if !f.common.quiet {
		printReport(env.Stdout, report, builder.Layout())
	}
	return nil
}

// applyBuildFlags applies command-line overrides to cfg.
func applyBuildFlags(f *buildFlags, cfg *config.Config) {
	applyDirFlags(cfg, f.base, f.staging)
	if f.workers > 0 {
		cfg.Build.Workers = f.workers
	}
	if f.fresh {
		cfg.Build.Fresh = true
	}
	if f.skipCSS {
		cfg.CSS.Skip = true
	}
	if f.noMinify {
		cfg.CSS.Minify = false
	}
	if f.skipMalformed {
		cfg.Build.OnMalformed = config.MalformedSkip
	}
}

// printReport prints a human-readable build summary.
func printReport(w io.Writer, r *md2site.Report, layout config.Layout) {
	noun := "articles"
	if r.Articles == 1 {
		noun = "article"
	}
	fmt.Fprintf(w, "Built %d %s into %s in %s\n",
		r.Articles, noun, checks.DisplayPath(layout.Staging), r.Duration.Round(time.Millisecond))

	if r.CSSSkipped {
		fmt.Fprintf(w, "  stylesheet: %s (not built)\n", r.Stylesheet)
	} else {
		fmt.Fprintf(w, "  stylesheet: %s\n", r.Stylesheet)
	}
	fmt.Fprintf(w, "  images:     %d resampled, %d cached, %d skipped, %d pruned\n",
		r.ImagesProcessed, r.ImagesCached, r.ImagesSkipped, r.ImagesPruned)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "  skipped:    %s\n", strings.Join(r.Skipped, ", "))
	}
}
