//go:build !cgo

package match

import "os"

// isStubPage reports whether a page file is a placeholder rather than a
// real implementation. Without cgo there is no TSX parser, so the line
// heuristic decides alone.
func isStubPage(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	return stubHeuristic(content)
}
