package type1

import (
	"bytes"
	"testing"
)

// pushNum encodes v using the shortest CharString number encoding that can
// represent it (single-byte for the common small range, the 16-bit short
// form otherwise).
func pushNum(v int) []byte {
	if v >= -107 && v <= 107 {
		return []byte{byte(v + 139)}
	}
	u := uint16(int16(v))
	return []byte{shortIntOp, byte(u >> 8), byte(u)}
}

// buildGlyphA returns the plaintext CharString for a simple 100x100 square
// glyph with advance width 500, using only the Type 2-style operators this
// interpreter implements.
func buildGlyphA() []byte {
	var cs []byte
	cs = append(cs, pushNum(500)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, opRMoveTo)
	cs = append(cs, pushNum(100)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, opRLineTo)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, pushNum(100)...)
	cs = append(cs, opRLineTo)
	cs = append(cs, pushNum(-100)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, opRLineTo)
	cs = append(cs, opEndChar)
	return cs
}

// buildTestFont assembles a minimal, syntactically valid PFA Type 1 font
// with a single glyph ("A", mapped through StandardEncoding) so Parse and
// Outline can be exercised end to end without a real font file on disk.
func buildTestFont(t *testing.T) []byte {
	t.Helper()

	csPlain := buildGlyphA()
	csCipher := encryptForTest(csPlain, charstringKey, 4)

	var priv bytes.Buffer
	priv.WriteString("dup /Private 2 dict dup begin\n")
	priv.WriteString("/lenIV 4 def\n")
	priv.WriteString("/Subrs 0 array def\n")
	priv.WriteString("end\n")
	priv.WriteString("noaccess put\n")
	priv.WriteString("dup /CharStrings 1 dict dup begin\n")
	priv.WriteString("/A 20 RD ")
	priv.Write(csCipher)
	priv.WriteString(" ND\n")
	priv.WriteString("end\n")
	priv.WriteString("end\n")

	privCipher := encryptForTest(priv.Bytes(), eexecKey, 4)

	var font bytes.Buffer
	font.WriteString("%!FontType1-1.0: Test\n")
	font.WriteString("3 dict begin\n")
	font.WriteString("/FontName /Test def\n")
	font.WriteString("/Encoding StandardEncoding def\n")
	font.WriteString("/FontMatrix [0.001 0 0 0.001 0 0] readonly def\n")
	font.WriteString("currentdict end\n")
	font.WriteString("currentfile eexec\n")
	font.Write(privCipher)

	return font.Bytes()
}

type recordingSink struct {
	calls []string
}

func (s *recordingSink) MoveTo(x, y float32) {
	s.calls = append(s.calls, "move")
}
func (s *recordingSink) LineTo(x, y float32) {
	s.calls = append(s.calls, "line")
}
func (s *recordingSink) CurveTo(x1, y1, x2, y2, x3, y3 float32) {
	s.calls = append(s.calls, "curve")
}
func (s *recordingSink) ClosePath() {
	s.calls = append(s.calls, "close")
}

func TestParseAndOutline(t *testing.T) {
	data := buildTestFont(t)

	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.FontName != "Test" {
		t.Fatalf("FontName: got %q", table.FontName)
	}
	if len(table.FontMatrix) != 6 {
		t.Fatalf("FontMatrix: got %v", table.FontMatrix)
	}
	if name, ok := table.CodeToName('A'); !ok || name != "A" {
		t.Fatalf("CodeToName('A'): got %q, %v", name, ok)
	}

	var sink recordingSink
	width, hasWidth, err := table.Outline('A', &sink)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if !hasWidth || width != 500 {
		t.Fatalf("width: got %v, hasWidth=%v", width, hasWidth)
	}
	wantCalls := []string{"move", "line", "line", "line", "close"}
	if len(sink.calls) != len(wantCalls) {
		t.Fatalf("calls: got %v want %v", sink.calls, wantCalls)
	}
	for i, c := range wantCalls {
		if sink.calls[i] != c {
			t.Fatalf("call %d: got %s want %s", i, sink.calls[i], c)
		}
	}
}

func TestOutlineUnknownGlyph(t *testing.T) {
	data := buildTestFont(t)
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var sink recordingSink
	if _, _, err := table.Outline('B', &sink); err == nil {
		t.Fatal("expected error for a code whose glyph is not in the font")
	}
}
