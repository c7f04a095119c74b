package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2site/internal/config"
)

// envPrefix marks the variables md2site reads.
const envPrefix = "MD2SITE_"

// defaultEnvFile is read when present and no --env-file is given.
const defaultEnvFile = ".env"

// envConfig holds configuration from environment variables.
// Lets CI override a config file without editing it.
type envConfig struct {
	ConfigPath  string   // MD2SITE_CONFIG: config file name or path
	BaseDir     string   // MD2SITE_BASE_DIR: site.baseDir
	StagingDir  string   // MD2SITE_STAGING_DIR: site.stagingDir
	Workers     int      // MD2SITE_WORKERS: build.workers
	OnMalformed string   // MD2SITE_ON_MALFORMED: abort or skip
	CSSCommand  []string // MD2SITE_CSS_COMMAND: css.command, split on spaces
	SkipCSS     bool     // MD2SITE_SKIP_CSS: css.skip
	LogLevel    string   // MD2SITE_LOG_LEVEL: log.level
	LogFormat   string   // MD2SITE_LOG_FORMAT: log.format
	Author      string   // MD2SITE_AUTHOR: default author for 'new'
	Language    string   // MD2SITE_LANG: default language for 'new'
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":       true,
	"MD2SITE_BASE_DIR":     true,
	"MD2SITE_STAGING_DIR":  true,
	"MD2SITE_WORKERS":      true,
	"MD2SITE_ON_MALFORMED": true,
	"MD2SITE_CSS_COMMAND":  true,
	"MD2SITE_SKIP_CSS":     true,
	"MD2SITE_LOG_LEVEL":    true,
	"MD2SITE_LOG_FORMAT":   true,
	"MD2SITE_AUTHOR":       true,
	"MD2SITE_LANG":         true,
	"MD2SITE_CONTAINER":    true,
}

// envSource looks variables up in the process environment first and then
// in values read from a .env file.
type envSource struct {
	getenv  func(string) string
	environ func() []string
	dotenv  map[string]string
}

// newEnvSource reads the .env file at path. An empty path tries
// defaultEnvFile and ignores its absence; an explicit path must exist.
func newEnvSource(env *Environment, path string) (*envSource, error) {
	src := &envSource{getenv: env.Getenv, environ: env.Environ}

	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return src, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	src.dotenv = values
	return src, nil
}

// Get returns the value of key. The process environment wins over the file.
func (s *envSource) Get(key string) string {
	if v := s.getenv(key); v != "" {
		return v
	}
	return s.dotenv[key]
}

// names returns every MD2SITE_* variable name from both sources, sorted.
func (s *envSource) names() []string {
	seen := make(map[string]bool)
	for _, kv := range s.environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range s.dotenv {
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadEnvConfig reads every recognized MD2SITE_* value.
// Unparseable numbers and booleans are ignored.
func loadEnvConfig(src *envSource) *envConfig {
	cfg := &envConfig{
		ConfigPath:  src.Get("MD2SITE_CONFIG"),
		BaseDir:     src.Get("MD2SITE_BASE_DIR"),
		StagingDir:  src.Get("MD2SITE_STAGING_DIR"),
		OnMalformed: src.Get("MD2SITE_ON_MALFORMED"),
		CSSCommand:  strings.Fields(src.Get("MD2SITE_CSS_COMMAND")),
		LogLevel:    src.Get("MD2SITE_LOG_LEVEL"),
		LogFormat:   src.Get("MD2SITE_LOG_FORMAT"),
		Author:      src.Get("MD2SITE_AUTHOR"),
		Language:    src.Get("MD2SITE_LANG"),
	}

	if workers := src.Get("MD2SITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if skip := src.Get("MD2SITE_SKIP_CSS"); skip != "" {
		if b, err := strconv.ParseBool(skip); err == nil {
			cfg.SkipCSS = b
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MD2SITE_*
// variable, e.g. MD2SITE_WORKER instead of MD2SITE_WORKERS.
func warnUnknownEnvVars(w io.Writer, src *envSource) {
	for _, name := range src.names() {
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.BaseDir != "" {
		cfg.Site.BaseDir = env.BaseDir
	}
	if env.StagingDir != "" {
		cfg.Site.StagingDir = env.StagingDir
	}
	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
	if env.OnMalformed != "" {
		cfg.Build.OnMalformed = env.OnMalformed
	}
	if len(env.CSSCommand) > 0 {
		cfg.CSS.Command = env.CSSCommand
	}
	if env.SkipCSS {
		cfg.CSS.Skip = true
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
