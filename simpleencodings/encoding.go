// Package simpleencodings provides the fixed code-to-glyph-name tables used by
// Type 1 fonts, such as Adobe's StandardEncoding.
package simpleencodings

// Encoding maps a byte code in [0, 255] to a PostScript glyph name.
// Unassigned codes hold the empty string.
type Encoding struct {
	Names [256]string
}

// Lookup returns the glyph name bound to code, and whether one is bound
// (the empty name and ".notdef" both count as "not bound" for encoding
// purposes).
func (e *Encoding) Lookup(code byte) (string, bool) {
	name := e.Names[code]
	if name == "" || name == ".notdef" {
		return "", false
	}
	return name, true
}
