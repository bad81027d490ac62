//go:build !cgo

package routes

import "github.com/temirov/autoreadme/internal/types"

// parseExpressRoutes reports false when cgo is unavailable so every source is
// matched with the Express pattern instead of the tree-sitter grammar.
func parseExpressRoutes(string, []byte) ([]types.Route, bool) {
	return nil, false
}
