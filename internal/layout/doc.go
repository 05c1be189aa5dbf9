// Package layout knows how the blueprint tree is arranged on disk:
//
//	<root>/<letter>/<Name (Year)>/<number>/blueprint.json
//
// It locates documents, maps series and numbers to folders and back, checks
// the directory invariants, and normalizes document formatting.
package layout
