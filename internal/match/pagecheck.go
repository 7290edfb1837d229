//go:build cgo

package match

import (
	"context"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// isStubPage reports whether a page file is a placeholder rather than a
// real implementation. With cgo available the page is parsed as TSX and
// judged by how much JSX it actually renders; files tree-sitter cannot
// parse fall back to the line heuristic.
func isStubPage(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return true
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return stubHeuristic(content)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return stubHeuristic(content)
	}

	elements := 0
	comingSoon := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "jsx_element", "jsx_self_closing_element":
			elements++
		case "jsx_text", "string_fragment":
			if strings.Contains(strings.ToLower(n.Content(content)), "coming soon") {
				comingSoon = true
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if comingSoon && elements <= 6 {
		return true
	}
	return elements < 3
}
