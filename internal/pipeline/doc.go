// Package pipeline turns an article's Markdown body into an HTML fragment.
//
// Rendering happens in one pass over the goldmark syntax tree:
//   - normalize line endings
//   - parse with the table, strikethrough and task list extensions
//   - rewrite every image destination through an ImageRewriter
//   - render the mutated tree to HTML
//   - wrap each table in a scrollable container
//
// Raw HTML in the source is omitted from the output.
package pipeline
