package type1

import "fmt"

// Parse reads a Type 1 font program, in either the PFB (segmented,
// 0x80-marker) or PFA (plain ASCII) container format, and returns its
// parsed header, hinting parameters, and decrypted glyph programs.
//
// Parse does not interpret any CharString; call Outline or OutlineByName
// for that once the Table is built.
func Parse(data []byte) (*Table, error) {
	ascii, enc, err := Open(data)
	if err != nil {
		return nil, err
	}

	p := &parser{}
	if err := p.parseASCII(ascii); err != nil {
		return nil, fmt.Errorf("parsing font header: %w", err)
	}

	plain := decryptEexec(enc)
	if plain == nil {
		return nil, ErrDecryptFailed
	}
	if err := p.parsePrivate(plain); err != nil {
		return nil, fmt.Errorf("parsing private dictionary: %w", err)
	}

	return &p.table, nil
}

// CodeToName resolves an 8-bit character code to its glyph name via the
// font's /Encoding: its custom array, or Adobe StandardEncoding when the font
// declares that encoding.
func (t *Table) CodeToName(code byte) (string, bool) {
	return t.codeToName(code)
}

// OutlineByName interprets the named glyph's CharString, replaying its
// drawing calls into sink. It returns the glyph's advance width and
// whether the CharString actually carried one.
func (t *Table) OutlineByName(name string, sink OutlineSink) (width float32, hasWidth bool, err error) {
	cs, ok := t.charstrings[name]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownGlyph, name)
	}

	ctx := &charstringContext{
		table:     t,
		sink:      sink,
		glyphName: name,
	}
	if err := runCharstring(ctx, cs, 0); err != nil {
		return 0, false, err
	}
	if !ctx.hasEndChar {
		return 0, false, ErrMissingEndChar
	}
	if !ctx.bbox.set {
		return 0, false, ErrZeroBBox
	}
	if !ctx.bbox.fitsInt16() {
		return 0, false, ErrBBoxOverflow
	}
	if ctx.haveWidth {
		return float32(ctx.width), true, nil
	}
	return 0, false, nil
}

// Outline resolves code to a glyph name via CodeToName, then behaves like
// OutlineByName.
func (t *Table) Outline(code byte, sink OutlineSink) (width float32, hasWidth bool, err error) {
	name, ok := t.CodeToName(code)
	if !ok {
		return 0, false, fmt.Errorf("%w: code %d", ErrUnknownGlyph, code)
	}
	return t.OutlineByName(name, sink)
}
