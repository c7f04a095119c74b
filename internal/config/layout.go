package config

import "path/filepath"

// Template names. Each is stored as {name}.hbs in the templates folder.
const (
	TemplateArticle = "article"
	TemplateMain    = "main"
	TemplateList    = "list"
	TemplateCard    = "card"
)

// TemplateExt is the file extension of template sources.
const TemplateExt = ".hbs"

// Style sources inside the style folder.
const (
	TailwindConfigFile = "tailwind.config.js"
	StylesheetFile     = "style.css"
)

// Staging folder names. Pages address them relatively (../images/...).
const (
	StagingImagesDir   = "images"
	StagingArticlesDir = "articles"
)

// IndexFile is the name of the home and listing pages.
const IndexFile = "index.html"

// Layout is the resolved directory layout of a site project.
// Base holds the sources, Staging receives the build output.
type Layout struct {
	Base      string
	Staging   string
	Templates string
	Style     string
	Images    string
	Articles  string
}

// Folder returns the source path of a folder inside Base.
func (l Layout) Folder(name string) string {
	return filepath.Join(l.Base, name)
}

// StagingFolder returns the output path of a folder inside Staging.
func (l Layout) StagingFolder(name string) string {
	return filepath.Join(l.Staging, name)
}

// TemplatePath returns the source path of a named template.
func (l Layout) TemplatePath(name string) string {
	return filepath.Join(l.Base, l.Templates, name+TemplateExt)
}

// TailwindConfig returns the path of the CSS tool config file.
func (l Layout) TailwindConfig() string {
	return filepath.Join(l.Base, l.Style, TailwindConfigFile)
}

// Stylesheet returns the path of the source stylesheet.
func (l Layout) Stylesheet() string {
	return filepath.Join(l.Base, l.Style, StylesheetFile)
}

// SourceImages returns the folder holding original images.
func (l Layout) SourceImages() string { return l.Folder(l.Images) }

// SourceArticles returns the folder holding Markdown articles.
func (l Layout) SourceArticles() string { return l.Folder(l.Articles) }

// StagingImages returns the folder receiving fingerprinted images.
func (l Layout) StagingImages() string { return l.StagingFolder(StagingImagesDir) }

// StagingArticles returns the folder receiving article pages.
func (l Layout) StagingArticles() string { return l.StagingFolder(StagingArticlesDir) }

// ImageURLPrefix is the prefix Markdown image references must carry to be
// treated as local images, e.g. "../images/".
func (l Layout) ImageURLPrefix() string { return "../" + l.Images + "/" }

// Folders lists the required source folders, in check order.
func (l Layout) Folders() []string {
	return []string{
		l.Folder(l.Templates),
		l.Folder(l.Style),
		l.Folder(l.Images),
		l.Folder(l.Articles),
	}
}

// Files lists the required source files, in check order.
func (l Layout) Files() []string {
	return []string{
		l.TemplatePath(TemplateMain),
		l.TemplatePath(TemplateArticle),
		l.TemplatePath(TemplateCard),
		l.TemplatePath(TemplateList),
		l.TailwindConfig(),
		l.Stylesheet(),
	}
}
