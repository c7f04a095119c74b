package pipeline

import (
	"github.com/yuin/goldmark/ast"
)

// RewriteImages walks the tree depth-first and replaces the destination of
// every image node with the rewriter's result. Nodes are mutated in place.
func RewriteImages(doc ast.Node, images ImageRewriter) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			img.Destination = []byte(images.RewriteImage(string(img.Destination)))
		}
		return ast.WalkContinue, nil
	})
}
