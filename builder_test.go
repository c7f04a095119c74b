package md2site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fingerprint"
	"github.com/alnah/go-md2site/internal/frontmatter"
	"github.com/alnah/go-md2site/internal/logging"
	"github.com/alnah/go-md2site/internal/scaffold"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fakeResampler writes a fixed payload and counts calls.
type fakeResampler struct {
	calls atomic.Int32
}

func (f *fakeResampler) Resample(src string, w io.Writer) error {
	f.calls.Add(1)
	_, err := w.Write([]byte("jpeg:" + filepath.Base(src)))
	return err
}

// cssRunner stands in for the CSS tool: it records the call and writes the
// output file named after -o.
type cssRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *cssRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()
	if r.err != nil {
		return "", "boom", r.err
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], []byte("/* built */"), 0o644); err != nil {
				return "", "", err
			}
		}
	}
	return "", "", nil
}

func (r *cssRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type project struct {
	cfg       *config.Config
	layout    config.Layout
	resampler *fakeResampler
	runner    *cssRunner
	logs      *bytes.Buffer
}

// newProject scaffolds a starter site in a temp dir with one source image.
func newProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Site.BaseDir = filepath.Join(root, "site")
	cfg.Site.StagingDir = filepath.Join(root, "staging")
	cfg.Build.Workers = 2

	p := &project{
		cfg:       cfg,
		layout:    cfg.Layout(),
		resampler: &fakeResampler{},
		runner:    &cssRunner{},
		logs:      &bytes.Buffer{},
	}
	if _, err := scaffold.Init(p.layout, scaffold.InitOptions{}); err != nil {
		t.Fatal(err)
	}
	p.writeImage(t, "photo.png")
	return p
}

func (p *project) writeImage(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(p.layout.SourceImages(), name), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (p *project) writeArticle(t *testing.T, file, title, date, body string) {
	t.Helper()
	src := fmt.Sprintf(`---
title: %q
tagline: "A first post"
tags: [go, web]
date: %q
author: "Ada"
lang: "en"
edited: false
---
%s
`, title, date, body)
	if err := os.WriteFile(filepath.Join(p.layout.SourceArticles(), file), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (p *project) builder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	fixed := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	base := []Option{
		WithResampler(p.resampler),
		WithCommandRunner(p.runner),
		WithClock(func() time.Time { return fixed }),
		WithLogger(logging.New(p.logs, logging.FormatText, slog.LevelDebug)),
	}
	b, err := NewBuilder(p.cfg, append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// stagedFiles returns every regular file below dir, relative to it.
func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

// ---------------------------------------------------------------------------
// TestBuild - End-to-end
// ---------------------------------------------------------------------------

func TestBuild_HelloWorld(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "hello.md", "Hello World", "2024-01-01",
		"Some *text*.\n\n![A photo](../images/photo.png)\n\n| a | b |\n|---|---|\n| 1 | 2 |")

	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v\nlogs:\n%s", err, p.logs)
	}

	// Article page
	page := readFile(t, filepath.Join(p.layout.StagingArticles(), "2024-01-01-hello world.html"))
	imageName := fingerprint.ImageName("photo.png")
	for _, want := range []string{
		"<em>text</em>",
		`src="../images/` + imageName + `"`,
		`<div class="table-container">`,
		`href="../` + report.Stylesheet + `"`,
		"<title>Hello World</title>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("article page missing %q", want)
		}
	}

	// Listing page
	listing := readFile(t, filepath.Join(p.layout.StagingArticles(), config.IndexFile))
	if got := strings.Count(listing, `href="2024-01-01-hello world.html"`); got != 1 {
		t.Errorf("listing has %d links to the article, want 1", got)
	}

	// Home page
	home := readFile(t, filepath.Join(p.layout.Staging, config.IndexFile))
	if !strings.Contains(home, `href="`+report.Stylesheet+`"`) {
		t.Errorf("home page should link %s without ../", report.Stylesheet)
	}
	if !strings.Contains(home, "2024-03-01T12:00:00Z") {
		t.Error("home page should carry the generation stamp")
	}

	// Images: exactly one fingerprinted file
	images := listDir(t, p.layout.StagingImages())
	if len(images) != 1 || images[0] != imageName {
		t.Errorf("images = %v, want [%s]", images, imageName)
	}

	// Stylesheet
	css := readFile(t, p.layout.Stylesheet())
	if report.Stylesheet != fingerprint.StylesheetName([]byte(css)) {
		t.Errorf("Stylesheet = %q, want fingerprint of style.css", report.Stylesheet)
	}
	if _, err := os.Stat(filepath.Join(p.layout.Staging, report.Stylesheet)); err != nil {
		t.Errorf("compiled stylesheet missing: %v", err)
	}

	// Report
	if report.Articles != 1 || report.ImagesProcessed != 1 || report.ImagesCached != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(report.BuildID) != 36 {
		t.Errorf("BuildID = %q, want a UUID", report.BuildID)
	}
	if len(report.Pages) != 3 {
		t.Errorf("Pages = %v, want 3 pages", report.Pages)
	}
	if !strings.Contains(p.logs.String(), "build_id="+report.BuildID) {
		t.Error("logs should carry the build ID")
	}
}

func TestBuild_CSSCommand(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.cfg.CSS.Command = []string{"tailwindcss"}
	p.writeArticle(t, "a.md", "A", "2024-01-01", "body")

	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.runner.count() != 1 {
		t.Fatalf("runner called %d times, want 1", p.runner.count())
	}
	got := strings.Join(p.runner.calls[0], " ")
	want := strings.Join([]string{
		"tailwindcss",
		"-c", p.layout.TailwindConfig(),
		"-i", p.layout.Stylesheet(),
		"-o", filepath.Join(p.layout.Staging, report.Stylesheet),
		"--minify",
	}, " ")
	if got != want {
		t.Errorf("css command = %q, want %q", got, want)
	}
}

func TestBuild_ListingNewestFirst(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "old.md", "Old", "2023-05-01", "old")
	p.writeArticle(t, "new.md", "New", "2024-05-01", "new")
	p.writeArticle(t, "mid.md", "Mid", "2023-12-01", "mid")

	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	listing := readFile(t, filepath.Join(p.layout.StagingArticles(), config.IndexFile))
	iNew := strings.Index(listing, "2024-05-01-new.html")
	iMid := strings.Index(listing, "2023-12-01-mid.html")
	iOld := strings.Index(listing, "2023-05-01-old.html")
	if iNew < 0 || iMid < 0 || iOld < 0 || !(iNew < iMid && iMid < iOld) {
		t.Errorf("cards out of order: new=%d mid=%d old=%d", iNew, iMid, iOld)
	}
}

func TestBuild_EmptyProject(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Articles != 0 {
		t.Errorf("Articles = %d, want 0", report.Articles)
	}
	if _, err := os.Stat(filepath.Join(p.layout.StagingArticles(), config.IndexFile)); err != nil {
		t.Error("empty listing page should still be written")
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Images - Cache behavior
// ---------------------------------------------------------------------------

func TestBuild_SecondBuildReusesImages(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "a.md", "A", "2024-01-01", "![x](../images/photo.png)")

	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.resampler.calls.Load() != 1 {
		t.Errorf("resampler called %d times, want 1", p.resampler.calls.Load())
	}
	if report.ImagesCached != 1 || report.ImagesProcessed != 0 {
		t.Errorf("second build report = %+v, want 1 cached", report)
	}
}

func TestBuild_FreshDropsCache(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "a.md", "A", "2024-01-01", "![x](../images/photo.png)")

	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	p.cfg.Build.Fresh = true
	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.resampler.calls.Load() != 2 {
		t.Errorf("resampler called %d times, want 2", p.resampler.calls.Load())
	}
}

func TestBuild_PrunesUnreferencedImages(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeImage(t, "other.png")
	p.writeArticle(t, "a.md", "A", "2024-01-01", "![x](../images/photo.png) ![y](../images/other.png)")
	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.writeArticle(t, "a.md", "A", "2024-01-01", "![x](../images/photo.png)")
	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.ImagesPruned != 1 {
		t.Errorf("ImagesPruned = %d, want 1", report.ImagesPruned)
	}
	images := listDir(t, p.layout.StagingImages())
	if len(images) != 1 || images[0] != fingerprint.ImageName("photo.png") {
		t.Errorf("images = %v, want only photo", images)
	}
}

func TestBuild_ResetsStaleOutput(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "a.md", "A", "2024-01-01", "body")
	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(p.layout.StagingArticles(), "2020-01-01-gone.html")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.builder(t).Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale page should be removed by the staging reset")
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Errors - Failure policy
// ---------------------------------------------------------------------------

func TestBuild_MalformedAbortsWithoutOutput(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "good.md", "Good", "2024-01-01", "![x](../images/photo.png)")
	bad := "---\ntagline: \"no title\"\ntags: []\ndate: \"2024-01-02\"\nauthor: \"A\"\nlang: \"en\"\nedited: false\n---\nbody\n"
	if err := os.WriteFile(filepath.Join(p.layout.SourceArticles(), "bad.md"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := p.builder(t).Build(context.Background())
	if !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("error = %v, want ErrMalformedFrontMatter", err)
	}
	if !errors.Is(err, frontmatter.ErrMalformed) {
		t.Error("error should keep the internal cause in its chain")
	}
	if !strings.Contains(err.Error(), "bad.md") || !strings.Contains(err.Error(), "title") {
		t.Errorf("error should name the file and the field, got: %v", err)
	}
	if files := stagedFiles(t, p.layout.Staging); len(files) != 0 {
		t.Errorf("staged files = %v, want none", files)
	}
	if p.runner.count() != 0 {
		t.Error("css tool should not run after an aborted build")
	}
}

func TestBuild_SkipMalformed(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.cfg.Build.OnMalformed = config.MalformedSkip
	p.writeArticle(t, "good.md", "Good", "2024-01-01", "body")
	if err := os.WriteFile(filepath.Join(p.layout.SourceArticles(), "bad.md"), []byte("no header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Articles != 1 || len(report.Skipped) != 1 || report.Skipped[0] != "bad.md" {
		t.Errorf("report = %+v, want 1 article and bad.md skipped", report)
	}
}

func TestBuild_PrecheckFailed(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	if err := os.Remove(p.layout.TemplatePath(config.TemplateList)); err != nil {
		t.Fatal(err)
	}

	_, err := p.builder(t).Build(context.Background())
	if !errors.Is(err, ErrPrecheckFailed) {
		t.Fatalf("error = %v, want ErrPrecheckFailed", err)
	}
	if _, statErr := os.Stat(p.layout.Staging); !os.IsNotExist(statErr) {
		t.Error("staging should not be created when prechecks fail")
	}
	if !strings.Contains(p.logs.String(), "list.hbs: ERR") {
		t.Errorf("logs should report list.hbs: ERR:\n%s", p.logs)
	}
}

func TestBuild_TemplateSyntaxError(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	if err := os.WriteFile(p.layout.TemplatePath(config.TemplateCard), []byte("{{#if title}}open"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := p.builder(t).Build(context.Background())
	if !errors.Is(err, ErrTemplateLoad) {
		t.Errorf("error = %v, want ErrTemplateLoad", err)
	}
}

func TestBuild_CSSFailure(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.runner.err = errors.New("exit status 1")
	p.writeArticle(t, "a.md", "A", "2024-01-01", "body")

	_, err := p.builder(t).Build(context.Background())
	if !errors.Is(err, ErrExternalBuild) {
		t.Errorf("error = %v, want ErrExternalBuild", err)
	}
}

func TestBuild_CSSSkip(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.cfg.CSS.Skip = true
	p.runner.err = errors.New("must not run")
	p.writeArticle(t, "a.md", "A", "2024-01-01", "body")

	report, err := p.builder(t).Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.CSSSkipped || p.runner.count() != 0 {
		t.Errorf("CSSSkipped = %v, runner calls = %d", report.CSSSkipped, p.runner.count())
	}
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.writeArticle(t, "a.md", "A", "2024-01-01", "body")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.builder(t).Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Images.Quality = 0
	if _, err := NewBuilder(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestWithClock_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithClock(nil) should panic")
		}
	}()
	WithClock(nil)
}
