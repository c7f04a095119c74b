package assets

// TemplateLoader loads a Handlebars template source by name.
type TemplateLoader interface {
	// LoadTemplate loads a template by name (without the .hbs extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// TemplateExt is the extension of template sources.
const TemplateExt = ".hbs"
