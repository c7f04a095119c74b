package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed starter
var starter embed.FS

const starterRoot = "starter"

// Starter folders, matching the default site layout.
const (
	StarterTemplatesDir = "templates"
	StarterStyleDir     = "style"
)

// StarterFile is one file of the embedded starter site.
type StarterFile struct {
	Dir     string // StarterTemplatesDir or StarterStyleDir
	Name    string
	Content []byte
}

// EmbeddedLoader loads the starter templates compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads a starter template by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := starter.ReadFile(path.Join(starterRoot, StarterTemplatesDir, name+TemplateExt))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// Starter returns every starter file, sorted by folder then name.
func Starter() ([]StarterFile, error) {
	var files []StarterFile
	for _, dir := range []string{StarterStyleDir, StarterTemplatesDir} {
		entries, err := fs.ReadDir(starter, path.Join(starterRoot, dir))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			content, err := starter.ReadFile(path.Join(starterRoot, dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
			}
			files = append(files, StarterFile{Dir: dir, Name: e.Name(), Content: content})
		}
	}
	return files, nil
}

// Compile-time interface check.
var _ TemplateLoader = (*EmbeddedLoader)(nil)
