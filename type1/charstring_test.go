package type1

import (
	"math"
	"testing"
)

type countingSink struct {
	moves, lines, curves, closes int
}

func (s *countingSink) MoveTo(x, y float32)                    { s.moves++ }
func (s *countingSink) LineTo(x, y float32)                    { s.lines++ }
func (s *countingSink) CurveTo(x1, y1, x2, y2, x3, y3 float32) { s.curves++ }
func (s *countingSink) ClosePath()                             { s.closes++ }

func runGlyph(t *testing.T, table *Table, cs []byte) (*charstringContext, error) {
	t.Helper()
	ctx := &charstringContext{table: table, sink: &countingSink{}}
	err := runCharstring(ctx, cs, 0)
	return ctx, err
}

func TestRunCharstringHintMaskSkipsBytes(t *testing.T) {
	var cs []byte
	cs = append(cs, pushNum(0)...)
	cs = append(cs, pushNum(10)...)
	cs = append(cs, opVStemHM)
	cs = append(cs, opHintMask)
	cs = append(cs, 0xFF) // mask byte for the single stem above, skipped
	cs = append(cs, pushNum(5)...)
	cs = append(cs, pushNum(5)...)
	cs = append(cs, opRMoveTo)
	cs = append(cs, opEndChar)

	ctx, err := runGlyph(t, &Table{}, cs)
	if err != nil {
		t.Fatalf("runCharstring: %v", err)
	}
	if !ctx.hasEndChar {
		t.Fatal("expected hasEndChar")
	}
}

func TestRunCharstringReservedOperator(t *testing.T) {
	cs := []byte{2} // reserved opcode
	if _, err := runGlyph(t, &Table{}, cs); err != ErrInvalidOperator {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
}

func TestRunCharstringStackOverflow(t *testing.T) {
	var cs []byte
	for i := 0; i < maxArgStack+1; i++ {
		cs = append(cs, pushNum(1)...)
	}
	cs = append(cs, opEndChar)
	if _, err := runGlyph(t, &Table{}, cs); err != ErrStackOverflow {
		t.Fatalf("expected ErrStackOverflow, got %v", err)
	}
}

func TestRunCharstringNoLocalSubroutines(t *testing.T) {
	cs := append(pushNum(0), opCallSubr)
	if _, err := runGlyph(t, &Table{}, cs); err != ErrNoLocalSubroutines {
		t.Fatalf("expected ErrNoLocalSubroutines, got %v", err)
	}
}

func TestRunCharstringNoGlobalSubroutines(t *testing.T) {
	cs := append(pushNum(0), opCallGSubr)
	if _, err := runGlyph(t, &Table{}, cs); err != ErrNoGlobalSubroutines {
		t.Fatalf("expected ErrNoGlobalSubroutines, got %v", err)
	}
}

func TestRunCharstringNestingLimit(t *testing.T) {
	// A single local subr that calls itself; bias(count=1) is 0, so the
	// popped index 0 always resolves back to this same subr.
	recurse := append(pushNum(0), opCallSubr)
	table := &Table{subrs: [][]byte{recurse}}
	if _, err := runGlyph(t, table, recurse); err != ErrNestingLimitReached {
		t.Fatalf("expected ErrNestingLimitReached, got %v", err)
	}
}

func TestRunCharstringGlobalSubrCall(t *testing.T) {
	gsubr := append(append(pushNum(3), pushNum(4)...), opRLineTo, opReturn)
	var cs []byte
	cs = append(cs, pushNum(0)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, opRMoveTo)
	cs = append(cs, pushNum(0)...) // bias(count=1) == 0, index 0
	cs = append(cs, opCallGSubr)
	cs = append(cs, opEndChar)

	table := &Table{gsubrs: [][]byte{gsubr}}
	ctx, err := runGlyph(t, table, cs)
	if err != nil {
		t.Fatalf("runCharstring: %v", err)
	}
	if ctx.x != 3 || ctx.y != 4 {
		t.Fatalf("unexpected end point after callgsubr: %v,%v", ctx.x, ctx.y)
	}
}

func TestRunCharstringFlex(t *testing.T) {
	var cs []byte
	cs = append(cs, pushNum(0)...)
	cs = append(cs, pushNum(0)...)
	cs = append(cs, opRMoveTo)
	args := []int{10, 0, 5, 5, 0, 10, 0, 10, -5, 5, -10, 0, 50}
	for _, a := range args {
		cs = append(cs, pushNum(a)...)
	}
	cs = append(cs, opEscape, escFlex)
	cs = append(cs, opEndChar)

	ctx, err := runGlyph(t, &Table{}, cs)
	if err != nil {
		t.Fatalf("runCharstring: %v", err)
	}
	if ctx.x != 0 || ctx.y != 30 {
		t.Fatalf("unexpected end point: %v,%v", ctx.x, ctx.y)
	}
}

func TestRunCharstringSeac(t *testing.T) {
	// "A" (StandardEncoding code 65) is the base, "quoteright" (code 39)
	// is the accent; both are simple one-point glyphs so the composition's
	// only observable effect is the accent's move landing at (adx, ady).
	baseCS := append(append(pushNum(0), pushNum(0)...), opRMoveTo, opEndChar)
	accentCS := append(append(pushNum(0), pushNum(0)...), opRMoveTo, opEndChar)

	table := &Table{charstrings: map[string][]byte{
		"A":          baseCS,
		"quoteright": accentCS,
	}}

	var cs []byte
	cs = append(cs, pushNum(20)...) // adx
	cs = append(cs, pushNum(30)...) // ady
	cs = append(cs, pushNum(65)...) // bchar: "A"
	cs = append(cs, pushNum(39)...) // achar: "quoteright"
	cs = append(cs, opEndChar)

	ctx := &charstringContext{table: table, sink: &countingSink{}}
	if err := runCharstring(ctx, cs, 0); err != nil {
		t.Fatalf("runCharstring: %v", err)
	}
	if ctx.x != 20 || ctx.y != 30 {
		t.Fatalf("unexpected end point after seac: %v,%v", ctx.x, ctx.y)
	}
	if !ctx.hasSeac {
		t.Fatal("expected hasSeac")
	}
}

func TestCurveToAbsRejectsNonFiniteCoordinate(t *testing.T) {
	ctx := &charstringContext{sink: &countingSink{}}
	err := ctx.curveToAbs(1, 2, 3, 4, math.Inf(1), 6)
	if err != ErrInvalidCoordinate {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestBoundsFitsInt16(t *testing.T) {
	var b bounds
	b.enlarge(-40000, 0)
	if b.fitsInt16() {
		t.Fatal("expected bounds outside int16 range to fail fitsInt16")
	}
}
