// Package assets loads page templates and the starter files of a new site.
//
// Two loaders implement TemplateLoader:
//
//	FilesystemLoader - reads {dir}/{name}.hbs from the site's templates folder
//	EmbeddedLoader   - reads the starter templates compiled into the binary
//
// Starter returns every embedded starter file (templates, stylesheet and
// CSS tool config) so a new project can be scaffolded from them.
//
// # Security
//
// Template names are validated and FilesystemLoader resolves symlinks to
// verify every path stays within its directory.
package assets
