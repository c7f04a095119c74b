package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/logging"
)

// resolveConfig loads the config named by --config, MD2SITE_CONFIG or the
// default name, then applies environment overrides. Without an explicit
// name a missing file falls back to DefaultConfig.
func resolveConfig(f commonFlags, env *Environment) (*config.Config, *envConfig, error) {
	src, err := newEnvSource(env, f.envFile)
	if err != nil {
		return nil, nil, err
	}
	if !f.quiet {
		warnUnknownEnvVars(env.Stderr, src)
	}
	ec := loadEnvConfig(src)

	name := f.config
	if name == "" {
		name = ec.ConfigPath
	}

	var cfg *config.Config
	if name == "" {
		cfg, err = config.LoadConfig(config.DefaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
	} else {
		cfg, err = config.LoadConfig(name)
		if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, `/\`) {
			err = withHint(err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
	}
	if err != nil {
		return nil, nil, err
	}

	applyEnvConfig(ec, cfg)
	return cfg, ec, nil
}

// applyDirFlags overrides the base and staging folders when given.
func applyDirFlags(cfg *config.Config, base, staging string) {
	if base != "" {
		cfg.Site.BaseDir = base
	}
	if staging != "" {
		cfg.Site.StagingDir = staging
	}
}

// newLogger builds the stderr logger from log.level and log.format.
// --verbose forces debug and --quiet keeps only errors.
func newLogger(cfg *config.Config, f commonFlags, w io.Writer) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return logging.New(w, cfg.Log.Format, level)
}

// hintError carries an actionable hint alongside err.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// withHint attaches hint to err. Empty hints leave err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// hintFor returns the hint attached to err, or a generic one for its kind.
func hintFor(err error) string {
	var h *hintError
	if errors.As(err, &h) {
		return h.hint
	}
	switch {
	case errors.Is(err, md2site.ErrPrecheckFailed):
		return hints.ForPrecheck()
	case errors.Is(err, md2site.ErrMalformedFrontMatter):
		return hints.ForMalformed()
	case errors.Is(err, md2site.ErrTemplateLoad), errors.Is(err, md2site.ErrRender):
		return hints.ForTemplate()
	case errors.Is(err, md2site.ErrStagingSetup):
		return hints.ForStagingDirectory()
	}
	return ""
}
