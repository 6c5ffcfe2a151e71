package type1

import (
	"fmt"

	tk "github.com/benoitkugler/pstokenizer"
)

// parsePrivate walks the decrypted eexec segment: the /Private dictionary
// (hinting parameters, /Subrs, /lenIV) followed by the /CharStrings
// dictionary. It assumes p.table was already populated by parseASCII.
func (p *parser) parsePrivate(data []byte) error {
	p.lexer = newLexer(data)
	p.table.Private.LenIV = 4

	for {
		token := p.lexer.peekToken()
		if token.Kind == tk.EOF {
			return ErrMissingPrivate
		}
		if token.Kind == tk.Name && string(token.Value) == "Private" {
			break
		}
		if _, err := p.lexer.nextToken(); err != nil {
			return err
		}
	}

	if err := p.readWithName(tk.Name, "Private"); err != nil {
		return err
	}
	lengthT, err := p.read(tk.Integer)
	if err != nil {
		return err
	}
	length, _ := lengthT.Int()
	if err := p.readWithName(tk.Other, "dict"); err != nil {
		return err
	}
	if _, err := p.readMaybe(tk.Other, "dup"); err != nil {
		return err
	}
	if err := p.readWithName(tk.Other, "begin"); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		token := p.lexer.peekToken()
		if token.Kind == tk.EOF || token.Kind != tk.Name {
			break
		}
		keyT, err := p.read(tk.Name)
		if err != nil {
			return err
		}
		key := string(keyT.Value)
		switch key {
		case "Subrs":
			err = p.readSubrs()
		case "GlobalSubrs":
			err = p.readGlobalSubrs()
		case "OtherSubrs":
			err = p.readOtherSubrs()
		case "lenIV":
			value, derr := p.readDictValue()
			if derr != nil {
				return derr
			}
			if len(value) > 0 {
				n, _ := value[0].Int()
				p.table.Private.LenIV = n
			}
		case "ND", "|-", "NP", "RD", "-|":
			// procedure re-definitions for the RD/ND/NP/put shorthands;
			// harmless to skip since this parser recognizes the
			// conventional names directly.
			if _, err := p.read(tk.StartProc); err == nil {
				err = p.readProc()
			}
			if err == nil {
				_, err = p.readMaybe(tk.Other, "bind")
			}
			if err == nil {
				err = p.readDef()
			}
		default:
			err = p.readPrivateValue(key)
		}
		if err != nil {
			return err
		}
	}

	// Some fonts close /Private with "end noaccess put", others with
	// "2 index ... put"; skip anything until /CharStrings is found.
	for {
		token := p.lexer.peekToken()
		if token.Kind == tk.EOF {
			return fmt.Errorf("%w: reached end of data before /CharStrings", ErrMissingPrivate)
		}
		if token.Kind == tk.Name && string(token.Value) == "CharStrings" {
			break
		}
		if _, err := p.lexer.nextToken(); err != nil {
			return err
		}
	}

	if err := p.readWithName(tk.Name, "CharStrings"); err != nil {
		return err
	}
	return p.readCharStrings()
}

func (p *parser) readPrivateValue(key string) error {
	value, err := p.readDictValue()
	if err != nil {
		return err
	}
	switch key {
	case "BlueValues":
		p.table.Private.BlueValues, err = arrayToNumbers(value)
	case "OtherBlues":
		p.table.Private.OtherBlues, err = arrayToNumbers(value)
	case "FamilyBlues":
		p.table.Private.FamilyBlues, err = arrayToNumbers(value)
	case "FamilyOtherBlues":
		p.table.Private.FamilyOtherBlues, err = arrayToNumbers(value)
	case "StdHW":
		p.table.Private.StdHW, err = arrayToNumbers(value)
	case "StdVW":
		p.table.Private.StdVW, err = arrayToNumbers(value)
	case "StemSnapH":
		p.table.Private.StemSnapH, err = arrayToNumbers(value)
	case "StemSnapV":
		p.table.Private.StemSnapV, err = arrayToNumbers(value)
	case "BlueScale":
		if len(value) > 0 {
			f, _ := value[0].Float()
			p.table.Private.BlueScale = float64(f)
		}
	case "BlueShift":
		if len(value) > 0 {
			n, _ := value[0].Int()
			p.table.Private.BlueShift = n
		}
	case "BlueFuzz":
		if len(value) > 0 {
			n, _ := value[0].Int()
			p.table.Private.BlueFuzz = n
		}
	case "ForceBold":
		if len(value) > 0 {
			p.table.Private.ForceBold = value[0].IsOther("true")
		}
	case "LanguageGroup":
		if len(value) > 0 {
			n, _ := value[0].Int()
			p.table.Private.LanguageGroup = n
		}
	}
	return err
}

// readSubrs reads the /Subrs array: "dup <index> <len> RD <bytes> NP" per
// entry, indices may arrive out of order.
func (p *parser) readSubrs() error {
	subrs, err := p.readSubrArray()
	if err != nil {
		return err
	}
	p.table.subrs = subrs
	return p.readDef()
}

// readGlobalSubrs reads a /GlobalSubrs array, same grammar as /Subrs. Pure
// Type 1 fonts never declare this key; it only appears in Type 2-adjacent
// inputs.
func (p *parser) readGlobalSubrs() error {
	gsubrs, err := p.readSubrArray()
	if err != nil {
		return err
	}
	p.table.gsubrs = gsubrs
	return p.readDef()
}

// readSubrArray reads "<n> array (dup <index> <len> RD <bytes> NP)*",
// shared by /Subrs and /GlobalSubrs.
func (p *parser) readSubrArray() ([][]byte, error) {
	lengthT, err := p.read(tk.Integer)
	if err != nil {
		return nil, err
	}
	length, _ := lengthT.Int()
	if _, err := p.readMaybe(tk.Other, "array"); err != nil {
		return nil, err
	}

	subrs := make([][]byte, length)
	for i := 0; i < length; i++ {
		if !p.lexer.peekToken().IsOther("dup") {
			break
		}
		if err := p.readWithName(tk.Other, "dup"); err != nil {
			return nil, err
		}
		indexT, err := p.read(tk.Integer)
		if err != nil {
			return nil, err
		}
		index, _ := indexT.Int()
		if _, err := p.read(tk.Integer); err != nil { // byte count, redundant with CharString.Value
			return nil, err
		}
		csT, err := p.read(tk.CharString)
		if err != nil {
			return nil, err
		}
		if index >= 0 && index < len(subrs) {
			subrs[index] = decryptCharstring(csT.Value, p.table.Private.LenIV)
		}
		if err := p.readPut(); err != nil {
			return nil, err
		}
	}
	return subrs, nil
}

// readOtherSubrs skips the embedded PostScript OtherSubrs procedures,
// which only matter to a full PostScript interpreter, never to outline
// extraction.
func (p *parser) readOtherSubrs() error {
	if p.lexer.peekToken().Kind == tk.StartArray {
		if _, err := p.readValueTokens(); err != nil {
			return err
		}
		return p.readDef()
	}

	lengthT, err := p.read(tk.Integer)
	if err != nil {
		return err
	}
	length, _ := lengthT.Int()
	if _, err := p.readMaybe(tk.Other, "array"); err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		if !p.lexer.peekToken().IsOther("dup") {
			break
		}
		if err := p.readWithName(tk.Other, "dup"); err != nil {
			return err
		}
		if _, err := p.read(tk.Integer); err != nil {
			return err
		}
		if _, err := p.readValueTokens(); err != nil {
			return err
		}
		if err := p.readPut(); err != nil {
			return err
		}
	}
	return p.readDef()
}

// readCharStrings reads the /CharStrings dictionary: "<dup>? begin" then
// one "/name <len> RD <bytes> ND" per glyph, "end" to close.
func (p *parser) readCharStrings() error {
	lengthT, err := p.read(tk.Integer)
	if err != nil {
		return err
	}
	length, _ := lengthT.Int()
	if err := p.readWithName(tk.Other, "dict"); err != nil {
		return err
	}
	if _, err := p.readMaybe(tk.Other, "dup"); err != nil {
		return err
	}
	if err := p.readWithName(tk.Other, "begin"); err != nil {
		return err
	}

	charstrings := make(map[string][]byte, length)
	var order []string
	for i := 0; i < length; i++ {
		token := p.lexer.peekToken()
		if token.Kind == tk.EOF {
			break
		}
		if token.IsOther("end") {
			break
		}

		nameT, err := p.read(tk.Name)
		if err != nil {
			return err
		}
		if _, err := p.read(tk.Integer); err != nil {
			return err
		}
		csT, err := p.read(tk.CharString)
		if err != nil {
			return err
		}
		name := string(nameT.Value)
		charstrings[name] = decryptCharstring(csT.Value, p.table.Private.LenIV)
		order = append(order, name)
		if err := p.readDef(); err != nil {
			return err
		}
	}

	// Fonts disagree on whether /CharStrings is closed by one "end" or
	// two; consume whichever are left immediately adjacent.
	for p.lexer.peekToken().IsOther("end") {
		if _, err := p.lexer.nextToken(); err != nil {
			return err
		}
	}

	p.table.charstrings = charstrings
	p.table.charstringSeq = order
	return nil
}

// readPut consumes a trailing "put", "noaccess put", "NP" or "|", used by
// Subrs and OtherSubrs entries instead of readDef's "def".
func (p *parser) readPut() error {
	if _, err := p.readMaybe(tk.Other, "noaccess"); err != nil {
		return err
	}
	token, err := p.read(tk.Other)
	if err != nil {
		return err
	}
	switch string(token.Value) {
	case "put", "NP", "|":
		return nil
	}
	return fmt.Errorf("found %q but expected put", token.Value)
}
