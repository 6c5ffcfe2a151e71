package type1

import (
	"fmt"

	tk "github.com/benoitkugler/pstokenizer"

	"github.com/type1go/type1font/simpleencodings"
)

type parser struct {
	lexer lexer
	table Table
}

// parseASCII walks the cleartext dictionary preceding "currentfile eexec",
// filling in p.table's header fields and its /Encoding.
func (p *parser) parseASCII(data []byte) error {
	if len(data) < 2 || data[0] != '%' || data[1] != '!' {
		return ErrBadMagic
	}
	p.lexer = newLexer(data)

	// synthetic wrapper seen in some subsetted fonts:
	// "FontDirectory /Foo known {...} {...} ifelse"
	if p.lexer.peekToken().IsOther("FontDirectory") {
		if err := p.readWithName(tk.Other, "FontDirectory"); err != nil {
			return err
		}
		if _, err := p.read(tk.Name); err != nil {
			return err
		}
		if err := p.readWithName(tk.Other, "known"); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if _, err := p.read(tk.StartProc); err != nil {
				return err
			}
			if err := p.readProc(); err != nil {
				return err
			}
		}
		if err := p.readWithName(tk.Other, "ifelse"); err != nil {
			return err
		}
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
		if token.Kind == tk.EOF {
			break
		}
		if token.IsOther("currentdict") || token.IsOther("end") {
			break
		}

		keyT, err := p.read(tk.Name)
		if err != nil {
			return err
		}
		switch key := string(keyT.Value); key {
		case "FontInfo", "Fontinfo":
			dict, err := p.readSimpleDict()
			if err == nil {
				p.readFontInfo(dict)
			}
			err = nil
		case "Metrics":
			_, err = p.readSimpleDict()
		case "Encoding":
			err = p.readEncoding()
		default:
			err = p.readSimpleValue(key)
		}
		if err != nil {
			return err
		}
	}

	if _, err := p.readMaybe(tk.Other, "currentdict"); err != nil {
		return err
	}
	// Do not require trailing "end currentfile eexec": some fonts differ
	// in exactly how the dict is closed before eexec, and the eexec
	// segment is located independently by Open.
	return nil
}

func (p *parser) readSimpleValue(key string) error {
	value, err := p.readDictValue()
	if err != nil {
		return err
	}
	if len(value) == 0 {
		return nil
	}
	switch key {
	case "FontName":
		p.table.FontName = string(value[0].Value)
	case "PaintType":
		n, _ := value[0].Int()
		p.table.PaintType = n
	case "FontType":
		n, _ := value[0].Int()
		p.table.FontType = n
	case "UniqueID":
		n, _ := value[0].Int()
		p.table.UniqueID = n
	case "StrokeWidth":
		f, _ := value[0].Float()
		p.table.StrokeWidth = float64(f)
	case "FontMatrix":
		p.table.FontMatrix, err = arrayToNumbers(value)
	case "FontBBox":
		p.table.FontBBox, err = arrayToNumbers(value)
	}
	return err
}

// readFontInfo extracts the fields used from an already-collected
// /FontInfo sub-dictionary.
func (p *parser) readFontInfo(dict map[string][]tk.Token) {
	get := func(key string) ([]tk.Token, bool) {
		v, ok := dict[key]
		return v, ok && len(v) > 0
	}
	if v, ok := get("version"); ok {
		p.table.FontInfo.Version = string(v[0].Value)
	}
	if v, ok := get("Notice"); ok {
		p.table.FontInfo.Notice = string(v[0].Value)
	}
	if v, ok := get("FullName"); ok {
		p.table.FontInfo.FullName = string(v[0].Value)
	}
	if v, ok := get("FamilyName"); ok {
		p.table.FontInfo.FamilyName = string(v[0].Value)
	}
	if v, ok := get("Weight"); ok {
		p.table.FontInfo.Weight = string(v[0].Value)
	}
	if v, ok := get("ItalicAngle"); ok {
		f, _ := v[0].Float()
		p.table.FontInfo.ItalicAngle = float64(f)
	}
	if v, ok := get("isFixedPitch"); ok {
		p.table.FontInfo.IsFixedPitch = v[0].IsOther("true")
	}
	if v, ok := get("UnderlinePosition"); ok {
		f, _ := v[0].Float()
		p.table.FontInfo.UnderlinePosition = float64(f)
	}
	if v, ok := get("UnderlineThickness"); ok {
		f, _ := v[0].Float()
		p.table.FontInfo.UnderlineThickness = float64(f)
	}
}

func (p *parser) readEncoding() error {
	if p.lexer.peekToken().Kind == tk.Other {
		nameT, err := p.lexer.nextToken()
		if err != nil {
			return err
		}
		if string(nameT.Value) != "StandardEncoding" {
			return fmt.Errorf("unknown base encoding %q", nameT.Value)
		}
		p.table.usesStandard = true
		if _, err := p.readMaybe(tk.Other, "readonly"); err != nil {
			return err
		}
		return p.readWithName(tk.Other, "def")
	}

	if _, err := p.read(tk.Integer); err != nil {
		return err
	}
	if _, err := p.readMaybe(tk.Other, "array"); err != nil {
		return err
	}

	// "0 1 255 {1 index exch /.notdef put} for" style initializer; some
	// fonts omit dup entries entirely (PDFBOX-2134), so skip anything that
	// isn't the start of a dup/readonly/def we recognize.
	for {
		n := p.lexer.peekToken()
		if n.IsOther("dup") || n.IsOther("readonly") || n.IsOther("def") || n.Kind == tk.EOF {
			break
		}
		if _, err := p.lexer.nextToken(); err != nil {
			return err
		}
	}

	for p.lexer.peekToken().IsOther("dup") {
		if err := p.readWithName(tk.Other, "dup"); err != nil {
			return err
		}
		codeT, err := p.read(tk.Integer)
		if err != nil {
			return err
		}
		code, _ := codeT.Int()
		nameT, err := p.read(tk.Name)
		if err != nil {
			return err
		}
		if err := p.readWithName(tk.Other, "put"); err != nil {
			return err
		}
		if code >= 0 && code < 256 {
			p.table.encoding[code] = string(nameT.Value)
		}
	}
	if _, err := p.readMaybe(tk.Other, "readonly"); err != nil {
		return err
	}
	if _, err := p.readMaybe(tk.Other, "noaccess"); err != nil {
		return err
	}
	return p.readWithName(tk.Other, "def")
}

// standardEncodingLookup exposes Adobe StandardEncoding to the CharString
// interpreter, which needs it to resolve seac base/accent codes
// independently of whatever /Encoding the font itself declares.
func standardEncodingLookup(code byte) (string, bool) {
	return simpleencodings.StandardEncoding.Lookup(code)
}

// codeToName resolves a code through the font's custom /Encoding entries,
// or through StandardEncoding when the font declared
// "/Encoding StandardEncoding def". A slot left unassigned by a custom
// encoding does not fall back to StandardEncoding.
func (t *Table) codeToName(code byte) (string, bool) {
	if name := t.encoding[code]; name != "" {
		return name, true
	}
	if t.usesStandard {
		return simpleencodings.StandardEncoding.Lookup(code)
	}
	return "", false
}

// arrayToNumbers converts a bracketed array's tokens (excluding the
// enclosing StartArray/EndArray) into float64s.
func arrayToNumbers(value []tk.Token) ([]float64, error) {
	if len(value) < 2 {
		return nil, nil
	}
	var out []float64
	for _, t := range value[1 : len(value)-1] {
		if !t.IsNumber() {
			return nil, fmt.Errorf("expected a number in array, found %q", t.Value)
		}
		f, _ := t.Float()
		out = append(out, float64(f))
	}
	return out, nil
}

// readSimpleDict reads a dictionary whose values are simple (no nested
// dictionaries), returning the raw token slice for each key so the caller
// can interpret it.
func (p *parser) readSimpleDict() (map[string][]tk.Token, error) {
	dict := map[string][]tk.Token{}

	lengthT, err := p.read(tk.Integer)
	if err != nil {
		return nil, err
	}
	length, _ := lengthT.Int()
	if err := p.readWithName(tk.Other, "dict"); err != nil {
		return nil, err
	}
	if _, err := p.readMaybe(tk.Other, "dup"); err != nil {
		return nil, err
	}
	if err := p.readWithName(tk.Other, "begin"); err != nil {
		return nil, err
	}

	for i := 0; i < length; i++ {
		if p.lexer.peekToken().Kind == tk.EOF {
			break
		}
		if p.lexer.peekToken().IsOther("end") {
			break
		}

		keyT, err := p.read(tk.Name)
		if err != nil {
			return nil, err
		}
		value, err := p.readDictValueTokens()
		if err != nil {
			return nil, err
		}
		dict[string(keyT.Value)] = value
	}

	if err := p.readWithName(tk.Other, "end"); err != nil {
		return nil, err
	}
	if _, err := p.readMaybe(tk.Other, "readonly"); err != nil {
		return nil, err
	}
	return dict, p.readWithName(tk.Other, "def")
}

// readDictValue reads a value and its trailing def terminator, returning
// the value's tokens.
func (p *parser) readDictValue() ([]tk.Token, error) {
	value, err := p.readValueTokens()
	if err != nil {
		return nil, err
	}
	return value, p.readDef()
}

// readDictValueTokens is readDictValue's variant for readSimpleDict, which
// never recurses into nested dicts and always terminates with readDef.
func (p *parser) readDictValueTokens() ([]tk.Token, error) {
	return p.readDictValue()
}

// readValueTokens reads a single value (number, string, name, literal,
// array or procedure) and returns every token it spans, including
// start/end delimiters for arrays.
func (p *parser) readValueTokens() ([]tk.Token, error) {
	token, err := p.lexer.nextToken()
	if err != nil {
		return nil, err
	}
	tokens := []tk.Token{token}
	if p.lexer.peekToken().Kind == tk.EOF {
		return tokens, nil
	}

	switch token.Kind {
	case tk.StartArray:
		open := 1
		for {
			if p.lexer.peekToken().Kind == tk.EOF {
				return tokens, nil
			}
			if p.lexer.peekToken().Kind == tk.StartArray {
				open++
			}
			t, err := p.lexer.nextToken()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
			if t.Kind == tk.EndArray {
				open--
				if open == 0 {
					break
				}
			}
		}
	case tk.StartProc:
		if err := p.readProc(); err != nil {
			return nil, err
		}
	case tk.StartDic:
		if _, err := p.read(tk.EndDic); err != nil {
			return nil, err
		}
		return tokens, nil
	}
	if err := p.readPostScriptWrapper(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// readPostScriptWrapper skips the "systemdict /internaldict known {...}
// {...} ifelse" idiom some generators wrap values in; it is not part of
// the Type 1 format proper.
func (p *parser) readPostScriptWrapper() error {
	if !p.lexer.peekToken().IsOther("systemdict") {
		return nil
	}
	if err := p.readWithName(tk.Other, "systemdict"); err != nil {
		return err
	}
	if err := p.readWithName(tk.Name, "internaldict"); err != nil {
		return err
	}
	if err := p.readWithName(tk.Other, "known"); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := p.read(tk.StartProc); err != nil {
			return err
		}
		if err := p.readProc(); err != nil {
			return err
		}
	}
	if err := p.readWithName(tk.Other, "ifelse"); err != nil {
		return err
	}
	return nil
}

func (p *parser) readProc() error {
	open := 1
	for {
		if p.lexer.peekToken().Kind == tk.StartProc {
			open++
		}
		token, err := p.lexer.nextToken()
		if err != nil {
			return err
		}
		if token.Kind == tk.EndProc {
			open--
			if open == 0 {
				break
			}
		}
	}
	_, err := p.readMaybe(tk.Other, "executeonly")
	return err
}

// readDef consumes the trailing "readonly? noaccess? (def|ND|put|...)"
// sequence following a value.
func (p *parser) readDef() error {
	if _, err := p.readMaybe(tk.Other, "readonly"); err != nil {
		return err
	}
	if _, err := p.readMaybe(tk.Other, "noaccess"); err != nil {
		return err
	}
	token, err := p.read(tk.Other)
	if err != nil {
		return err
	}
	switch string(token.Value) {
	case "ND", "|-", "def", "put":
		return nil
	case "noaccess":
		token, err = p.read(tk.Other)
		if err != nil {
			return err
		}
		if string(token.Value) == "def" {
			return nil
		}
	}
	return fmt.Errorf("found %q but expected def", token.Value)
}

func (p *parser) read(kind tk.Kind) (tk.Token, error) {
	token, err := p.lexer.nextToken()
	if err != nil {
		return tk.Token{}, err
	}
	if token.Kind != kind {
		return tk.Token{}, fmt.Errorf("found token %s (%q) but expected %s", token.Kind, token.Value, kind)
	}
	return token, nil
}

func (p *parser) readWithName(kind tk.Kind, name string) error {
	token, err := p.read(kind)
	if err != nil {
		return err
	}
	if string(token.Value) != name {
		return fmt.Errorf("found %q but expected %q", token.Value, name)
	}
	return nil
}

func (p *parser) readMaybe(kind tk.Kind, name string) (tk.Token, error) {
	token := p.lexer.peekToken()
	if token.Kind == kind && string(token.Value) == name {
		return p.lexer.nextToken()
	}
	return tk.Token{}, nil
}
