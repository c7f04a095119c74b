package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a template name is safe for use as a file name.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots or NUL bytes.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
