package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Malformed-article policies for build.onMalformed.
const (
	MalformedAbort = "abort"
	MalformedSkip  = "skip"
)

// Log formats for log.format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Image limits.
const (
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1080
	DefaultQuality   = 85
	MaxImageSide     = 16384
)

// DefaultConfigName is searched in the working directory and the user config
// directory when no --config flag is given.
const DefaultConfigName = "md2site"

// Config holds all configuration for a site build.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Build    BuildConfig    `yaml:"build"`
	Images   ImagesConfig   `yaml:"images"`
	Markdown MarkdownConfig `yaml:"markdown"`
	CSS      CSSConfig      `yaml:"css"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig defines where sources live and where output is staged.
// Folder names are relative to BaseDir.
type SiteConfig struct {
	BaseDir      string `yaml:"baseDir"`
	StagingDir   string `yaml:"stagingDir"`
	TemplatesDir string `yaml:"templatesDir"`
	StyleDir     string `yaml:"styleDir"`
	ImagesDir    string `yaml:"imagesDir"`
	ArticlesDir  string `yaml:"articlesDir"`
}

// BuildConfig defines build behavior.
type BuildConfig struct {
	Workers     int    `yaml:"workers"`     // 0 = auto
	Fresh       bool   `yaml:"fresh"`       // drop the image cache before building
	OnMalformed string `yaml:"onMalformed"` // "abort" or "skip"
}

// ImagesConfig defines image resampling options.
type ImagesConfig struct {
	MaxWidth  int `yaml:"maxWidth"`
	MaxHeight int `yaml:"maxHeight"`
	Quality   int `yaml:"quality"` // JPEG quality, 1-100
}

// MarkdownConfig defines rendering options.
type MarkdownConfig struct {
	Highlight      bool   `yaml:"highlight"`
	HighlightStyle string `yaml:"highlightStyle"`
}

// CSSConfig defines the external stylesheet build.
type CSSConfig struct {
	Command []string `yaml:"command"`
	Minify  bool     `yaml:"minify"`
	Skip    bool     `yaml:"skip"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the layout and options used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseDir:      "site",
			StagingDir:   "staging",
			TemplatesDir: "templates",
			StyleDir:     "style",
			ImagesDir:    "images",
			ArticlesDir:  "notes",
		},
		Build: BuildConfig{OnMalformed: MalformedAbort},
		Images: ImagesConfig{
			MaxWidth:  DefaultMaxWidth,
			MaxHeight: DefaultMaxHeight,
			Quality:   DefaultQuality,
		},
		Markdown: MarkdownConfig{HighlightStyle: "github"},
		CSS: CSSConfig{
			Command: []string{"npx", "-y", "tailwindcss"},
			Minify:  true,
		},
		Log: LogConfig{Level: "info", Format: LogFormatText},
	}
}

// Validate checks values that would otherwise fail deep inside a build.
func (c *Config) Validate() error {
	dirs := []struct {
		field, value string
	}{
		{"site.baseDir", c.Site.BaseDir},
		{"site.stagingDir", c.Site.StagingDir},
		{"site.templatesDir", c.Site.TemplatesDir},
		{"site.styleDir", c.Site.StyleDir},
		{"site.imagesDir", c.Site.ImagesDir},
		{"site.articlesDir", c.Site.ArticlesDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.value) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, d.field)
		}
	}
	for _, d := range dirs[2:] {
		if filepath.IsAbs(d.value) || strings.Contains(d.value, "..") {
			return fmt.Errorf("%w: %s must be a folder name inside site.baseDir, got %q", ErrInvalidConfig, d.field, d.value)
		}
	}
	if filepath.Clean(c.Site.BaseDir) == filepath.Clean(c.Site.StagingDir) {
		return fmt.Errorf("%w: site.stagingDir must differ from site.baseDir", ErrInvalidConfig)
	}
	// Staging is wiped on every build, so it must not hold the sources.
	if within(c.Site.StagingDir, c.Site.BaseDir) {
		return fmt.Errorf("%w: site.baseDir %q is inside site.stagingDir %q", ErrInvalidConfig, c.Site.BaseDir, c.Site.StagingDir)
	}

	if c.Build.Workers < 0 {
		return fmt.Errorf("%w: build.workers must be >= 0, got %d", ErrInvalidConfig, c.Build.Workers)
	}
	switch c.Build.OnMalformed {
	case MalformedAbort, MalformedSkip:
	default:
		return fmt.Errorf("%w: build.onMalformed must be %q or %q, got %q",
			ErrInvalidConfig, MalformedAbort, MalformedSkip, c.Build.OnMalformed)
	}

	if c.Images.MaxWidth < 1 || c.Images.MaxWidth > MaxImageSide {
		return fmt.Errorf("%w: images.maxWidth must be 1-%d, got %d", ErrInvalidConfig, MaxImageSide, c.Images.MaxWidth)
	}
	if c.Images.MaxHeight < 1 || c.Images.MaxHeight > MaxImageSide {
		return fmt.Errorf("%w: images.maxHeight must be 1-%d, got %d", ErrInvalidConfig, MaxImageSide, c.Images.MaxHeight)
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("%w: images.quality must be 1-100, got %d", ErrInvalidConfig, c.Images.Quality)
	}

	if !c.CSS.Skip && len(c.CSS.Command) == 0 {
		return fmt.Errorf("%w: css.command is empty (set css.skip to disable the stylesheet build)", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log.format must be %q or %q, got %q", ErrInvalidConfig, LogFormatText, LogFormatJSON, c.Log.Format)
	}
	return nil
}

// Layout returns the resolved paths for this configuration.
func (c *Config) Layout() Layout {
	return Layout{
		Base:      c.Site.BaseDir,
		Staging:   c.Site.StagingDir,
		Templates: c.Site.TemplatesDir,
		Style:     c.Site.StyleDir,
		Images:    c.Site.ImagesDir,
		Articles:  c.Site.ArticlesDir,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched as {name}.yaml or {name}.yml in the current
// directory, then in the user config directory.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// within reports whether target is dir or lies below it.
func within(dir, target string) bool {
	absDir, err1 := filepath.Abs(dir)
	absTarget, err2 := filepath.Abs(target)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists where a config name is looked up, in order: .yaml then
// .yml in the current directory, then in {UserConfigDir}/go-md2site/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userDir, "go-md2site", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
