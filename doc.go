// Package md2site builds a static blog from a folder of Markdown articles.
//
// # Quick Start
//
// Load a configuration, create a builder, and build:
//
//	cfg, err := config.LoadConfig("md2site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := md2site.NewBuilder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := b.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Articles, "articles")
//
// # Build Pipeline
//
// A build follows these stages:
//
//  1. Prechecks: every source folder and file of the layout exists
//  2. Staging reset, keeping the resampled image cache
//  3. Template loading (article, main, list, card; Handlebars)
//  4. Stylesheet fingerprinting (main.{sha256}.css)
//  5. Article collection: front matter, Markdown via Goldmark, images
//     resampled to {sha256(file name)}.jpg
//  6. Page rendering: one page per article, the listing and the home page
//  7. Unreferenced image pruning
//  8. Stylesheet compilation with the external CSS tool (tailwindcss)
//
// # Output
//
// The staging folder receives:
//
//	index.html
//	main.{digest}.css
//	articles/index.html
//	articles/{date}-{lowercased title}.html
//	images/{digest}.jpg
//
// # Errors
//
// Build errors match one of the sentinels in errors.go with errors.Is.
// Cancellation of the context is returned as the context error.
package md2site
