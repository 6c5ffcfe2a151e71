package type1

import (
	"math"
)

const (
	maxArgStack  = 48
	maxCallDepth = 10
	fixed16Op    = 255
	shortIntOp   = 28
)

// Type 1 / Type 2 CharString operators (one-byte; 12 escapes into a second
// byte, handled separately).
const (
	opHStem      = 1
	opVStem      = 3
	opVMoveTo    = 4
	opRLineTo    = 5
	opHLineTo    = 6
	opVLineTo    = 7
	opRRCurveTo  = 8
	opCallSubr   = 10
	opReturn     = 11
	opEscape     = 12
	opEndChar    = 14
	opHStemHM    = 18
	opHintMask   = 19
	opCntrMask   = 20
	opRMoveTo    = 21
	opHMoveTo    = 22
	opVStemHM    = 23
	opRCurveLine = 24
	opRLineCurve = 25
	opVVCurveTo  = 26
	opHHCurveTo  = 27
	opCallGSubr  = 29
	opVHCurveTo  = 30
	opHVCurveTo  = 31
)

// escaped (12 x) operators.
const (
	escDotSection = 0
	escFlex       = 35
	escFlex1      = 37
	escHFlex      = 34
	escHFlex1     = 36
)

func isReservedOperator(op byte) bool {
	switch op {
	case 0, 2, 9, 13, 15, 16, 17:
		return true
	}
	return false
}

// argStack is the interpreter's operand stack, capped at maxArgStack per
// the format's own limit.
type argStack struct {
	vals [maxArgStack]float64
	len  int
}

func (s *argStack) push(v float64) error {
	if s.len >= maxArgStack {
		return ErrStackOverflow
	}
	s.vals[s.len] = v
	s.len++
	return nil
}

func (s *argStack) clear() { s.len = 0 }

func (s *argStack) at(i int) float64 { return s.vals[i] }

// bounds tracks the running glyph bounding box in design units.
type bounds struct {
	set                    bool
	minX, minY, maxX, maxY float64
}

func (b *bounds) enlarge(x, y float64) {
	if !b.set {
		b.minX, b.minY, b.maxX, b.maxY = x, y, x, y
		b.set = true
		return
	}
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
	if y < b.minY {
		b.minY = y
	}
	if y > b.maxY {
		b.maxY = y
	}
}

// fitsInt16 reports whether the box fits the 16-bit design-unit range a
// Type 1 FontBBox is meant to represent; a box outside it signals
// CharString arithmetic that ran away rather than a legitimately large
// glyph.
func (b *bounds) fitsInt16() bool {
	const lo, hi = -32768, 32767
	return b.minX >= lo && b.maxX <= hi && b.minY >= lo && b.maxY <= hi
}

// charstringContext carries the state shared across one glyph's recursive
// interpretation: the argument stack and current point are shared across
// callsubr/callgsubr/seac, unlike a fresh-stack-per-call scheme.
type charstringContext struct {
	table      *Table
	sink       OutlineSink
	stack      argStack
	bbox       bounds
	x, y       float64
	haveMove   bool
	width      float64
	haveWidth  bool
	stemCount  int
	hasEndChar bool
	hasSeac    bool
	glyphName  string
}

// runCharstring executes data (already decrypted) against ctx, recursing
// for callsubr/callgsubr/seac. depth counts nested callsubr, callgsubr and
// seac invocations.
func runCharstring(ctx *charstringContext, data []byte, depth int) error {
	i := 0
	for i < len(data) {
		b := data[i]
		i++

		switch {
		case b >= 32 && b <= 246:
			if err := ctx.stack.push(float64(int(b) - 139)); err != nil {
				return err
			}
			continue
		case b >= 247 && b <= 250:
			if i >= len(data) {
				return ErrReadOutOfBounds
			}
			b1 := data[i]
			i++
			if err := ctx.stack.push(float64((int(b)-247)*256 + int(b1) + 108)); err != nil {
				return err
			}
			continue
		case b >= 251 && b <= 254:
			if i >= len(data) {
				return ErrReadOutOfBounds
			}
			b1 := data[i]
			i++
			if err := ctx.stack.push(float64(-(int(b)-251)*256 - int(b1) - 108)); err != nil {
				return err
			}
			continue
		case b == shortIntOp:
			if i+2 > len(data) {
				return ErrReadOutOfBounds
			}
			v := int16(uint16(data[i])<<8 | uint16(data[i+1]))
			i += 2
			if err := ctx.stack.push(float64(v)); err != nil {
				return err
			}
			continue
		case b == fixed16Op:
			if i+4 > len(data) {
				return ErrReadOutOfBounds
			}
			v := int32(uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3]))
			i += 4
			if err := ctx.stack.push(float64(v) / 65536); err != nil {
				return err
			}
			continue
		}

		if isReservedOperator(b) {
			return ErrInvalidOperator
		}

		switch b {
		case opHStem, opVStem, opHStemHM, opVStemHM:
			n := ctx.stack.len
			if n%2 == 1 && !ctx.haveWidth {
				ctx.width = ctx.stack.at(0)
				ctx.haveWidth = true
				n--
			}
			ctx.stemCount += n / 2
			ctx.stack.clear()

		case opVMoveTo:
			idx := 0
			if ctx.stack.len == 2 {
				if !ctx.haveWidth {
					ctx.width = ctx.stack.at(0)
					ctx.haveWidth = true
				}
				idx = 1
			}
			if idx >= ctx.stack.len {
				return ErrInvalidArgumentsStackLength
			}
			if err := ctx.moveTo(0, ctx.stack.at(idx)); err != nil {
				return err
			}
			ctx.stack.clear()

		case opHMoveTo:
			idx := 0
			if ctx.stack.len == 2 {
				if !ctx.haveWidth {
					ctx.width = ctx.stack.at(0)
					ctx.haveWidth = true
				}
				idx = 1
			}
			if idx >= ctx.stack.len {
				return ErrInvalidArgumentsStackLength
			}
			if err := ctx.moveTo(ctx.stack.at(idx), 0); err != nil {
				return err
			}
			ctx.stack.clear()

		case opRMoveTo:
			idx := 0
			if ctx.stack.len == 3 {
				if !ctx.haveWidth {
					ctx.width = ctx.stack.at(0)
					ctx.haveWidth = true
				}
				idx = 1
			}
			if idx+1 >= ctx.stack.len {
				return ErrInvalidArgumentsStackLength
			}
			if err := ctx.moveTo(ctx.stack.at(idx), ctx.stack.at(idx+1)); err != nil {
				return err
			}
			ctx.stack.clear()

		case opRLineTo:
			if ctx.stack.len < 2 {
				return ErrInvalidArgumentsStackLength
			}
			for j := 0; j+1 < ctx.stack.len; j += 2 {
				if err := ctx.lineTo(ctx.stack.at(j), ctx.stack.at(j+1)); err != nil {
					return err
				}
			}
			ctx.stack.clear()

		case opHLineTo:
			if err := ctx.altLineTo(true); err != nil {
				return err
			}

		case opVLineTo:
			if err := ctx.altLineTo(false); err != nil {
				return err
			}

		case opRRCurveTo:
			if ctx.stack.len < 6 || ctx.stack.len%6 != 0 {
				return ErrInvalidArgumentsStackLength
			}
			for j := 0; j+5 < ctx.stack.len; j += 6 {
				if err := ctx.curveTo(
					ctx.stack.at(j), ctx.stack.at(j+1),
					ctx.stack.at(j+2), ctx.stack.at(j+3),
					ctx.stack.at(j+4), ctx.stack.at(j+5)); err != nil {
					return err
				}
			}
			ctx.stack.clear()

		case opRCurveLine:
			if ctx.stack.len < 8 || (ctx.stack.len-2)%6 != 0 {
				return ErrInvalidArgumentsStackLength
			}
			j := 0
			for ; j+5 < ctx.stack.len-2; j += 6 {
				if err := ctx.curveTo(
					ctx.stack.at(j), ctx.stack.at(j+1),
					ctx.stack.at(j+2), ctx.stack.at(j+3),
					ctx.stack.at(j+4), ctx.stack.at(j+5)); err != nil {
					return err
				}
			}
			if err := ctx.lineTo(ctx.stack.at(j), ctx.stack.at(j+1)); err != nil {
				return err
			}
			ctx.stack.clear()

		case opRLineCurve:
			if ctx.stack.len < 8 || (ctx.stack.len-6)%2 != 0 {
				return ErrInvalidArgumentsStackLength
			}
			j := 0
			for ; j+1 < ctx.stack.len-6; j += 2 {
				if err := ctx.lineTo(ctx.stack.at(j), ctx.stack.at(j+1)); err != nil {
					return err
				}
			}
			if err := ctx.curveTo(
				ctx.stack.at(j), ctx.stack.at(j+1),
				ctx.stack.at(j+2), ctx.stack.at(j+3),
				ctx.stack.at(j+4), ctx.stack.at(j+5)); err != nil {
				return err
			}
			ctx.stack.clear()

		case opVVCurveTo:
			j := 0
			dx1 := 0.0
			if ctx.stack.len%4 == 1 {
				dx1 = ctx.stack.at(0)
				j = 1
			}
			if ctx.stack.len-j < 4 || (ctx.stack.len-j)%4 != 0 {
				return ErrInvalidArgumentsStackLength
			}
			for ; j+3 < ctx.stack.len; j += 4 {
				x1 := ctx.x + dx1
				y1 := ctx.y + ctx.stack.at(j)
				x2 := x1 + ctx.stack.at(j+1)
				y2 := y1 + ctx.stack.at(j+2)
				x3 := x2
				y3 := y2 + ctx.stack.at(j+3)
				if err := ctx.curveToAbs(x1, y1, x2, y2, x3, y3); err != nil {
					return err
				}
				dx1 = 0
			}
			ctx.stack.clear()

		case opHHCurveTo:
			j := 0
			dy1 := 0.0
			if ctx.stack.len%4 == 1 {
				dy1 = ctx.stack.at(0)
				j = 1
			}
			if ctx.stack.len-j < 4 || (ctx.stack.len-j)%4 != 0 {
				return ErrInvalidArgumentsStackLength
			}
			for ; j+3 < ctx.stack.len; j += 4 {
				x1 := ctx.x + ctx.stack.at(j)
				y1 := ctx.y + dy1
				x2 := x1 + ctx.stack.at(j+1)
				y2 := y1 + ctx.stack.at(j+2)
				x3 := x2 + ctx.stack.at(j+3)
				y3 := y2
				if err := ctx.curveToAbs(x1, y1, x2, y2, x3, y3); err != nil {
					return err
				}
				dy1 = 0
			}
			ctx.stack.clear()

		case opVHCurveTo:
			if err := ctx.altCurveTo(false); err != nil {
				return err
			}

		case opHVCurveTo:
			if err := ctx.altCurveTo(true); err != nil {
				return err
			}

		case opCallSubr:
			if ctx.stack.len < 1 {
				return ErrInvalidArgumentsStackLength
			}
			if depth >= maxCallDepth {
				return ErrNestingLimitReached
			}
			if len(ctx.table.subrs) == 0 {
				return ErrNoLocalSubroutines
			}
			ctx.stack.len--
			idx := subrIndex(ctx.stack.at(ctx.stack.len), len(ctx.table.subrs))
			if idx < 0 || idx >= len(ctx.table.subrs) {
				return ErrInvalidSubroutineIndex
			}
			if err := runCharstring(ctx, ctx.table.subrs[idx], depth+1); err != nil {
				return err
			}
			if ctx.hasEndChar && !ctx.hasSeac {
				if i != len(data) {
					return ErrDataAfterEndChar
				}
				return nil
			}

		case opCallGSubr:
			// Global subrs are a Type 2 feature; pure Type 1 fonts never
			// populate them, so table.gsubrs is empty and this fails with
			// ErrNoGlobalSubroutines unless the input is Type 2-adjacent
			// and declared a /GlobalSubrs array.
			if ctx.stack.len < 1 {
				return ErrInvalidArgumentsStackLength
			}
			if depth >= maxCallDepth {
				return ErrNestingLimitReached
			}
			if len(ctx.table.gsubrs) == 0 {
				return ErrNoGlobalSubroutines
			}
			ctx.stack.len--
			idx := subrIndex(ctx.stack.at(ctx.stack.len), len(ctx.table.gsubrs))
			if idx < 0 || idx >= len(ctx.table.gsubrs) {
				return ErrInvalidSubroutineIndex
			}
			if err := runCharstring(ctx, ctx.table.gsubrs[idx], depth+1); err != nil {
				return err
			}
			if ctx.hasEndChar && !ctx.hasSeac {
				if i != len(data) {
					return ErrDataAfterEndChar
				}
				return nil
			}

		case opReturn:
			return nil

		case opHintMask, opCntrMask:
			n := ctx.stack.len
			if n%2 == 1 && !ctx.haveWidth {
				ctx.width = ctx.stack.at(0)
				ctx.haveWidth = true
				n--
			}
			ctx.stemCount += n / 2
			ctx.stack.clear()
			skip := (ctx.stemCount + 7) / 8
			if i+skip > len(data) {
				return ErrReadOutOfBounds
			}
			i += skip

		case opEndChar:
			n := ctx.stack.len
			if n == 4 || (!ctx.haveWidth && n == 5) {
				if err := ctx.runSeac(depth); err != nil {
					return err
				}
			} else if n == 1 && !ctx.haveWidth {
				ctx.width = ctx.stack.at(0)
				ctx.haveWidth = true
			}
			if ctx.haveMove {
				ctx.sink.ClosePath()
				ctx.haveMove = false
			}
			if i != len(data) {
				return ErrDataAfterEndChar
			}
			ctx.hasEndChar = true
			return nil

		case opEscape:
			if i >= len(data) {
				return ErrReadOutOfBounds
			}
			b2 := data[i]
			i++
			if err := ctx.runEscaped(b2); err != nil {
				return err
			}

		default:
			return ErrInvalidOperator
		}
	}
	return nil
}

func subrIndex(popped float64, count int) int {
	bias := 0
	switch {
	case count < 1240:
		bias = 0
	case count < 33900:
		bias = 107
	default:
		bias = 32768
	}
	return int(popped) + bias
}

// finite reports whether every given coordinate is safe to hand to an
// OutlineSink; NaN/Inf CharString arithmetic (overflowed fixed-point math,
// a malformed font) must never reach a caller's sink.
func finite(coords ...float64) bool {
	for _, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (ctx *charstringContext) moveTo(dx, dy float64) error {
	x, y := ctx.x+dx, ctx.y+dy
	if !finite(x, y) {
		return ErrInvalidCoordinate
	}
	if ctx.haveMove {
		ctx.sink.ClosePath()
	}
	ctx.x, ctx.y = x, y
	ctx.sink.MoveTo(float32(ctx.x), float32(ctx.y))
	ctx.bbox.enlarge(ctx.x, ctx.y)
	ctx.haveMove = true
	return nil
}

func (ctx *charstringContext) lineTo(dx, dy float64) error {
	x, y := ctx.x+dx, ctx.y+dy
	if !finite(x, y) {
		return ErrInvalidCoordinate
	}
	ctx.x, ctx.y = x, y
	ctx.sink.LineTo(float32(ctx.x), float32(ctx.y))
	ctx.bbox.enlarge(ctx.x, ctx.y)
	return nil
}

func (ctx *charstringContext) curveTo(dx1, dy1, dx2, dy2, dx3, dy3 float64) error {
	x1 := ctx.x + dx1
	y1 := ctx.y + dy1
	x2 := x1 + dx2
	y2 := y1 + dy2
	x3 := x2 + dx3
	y3 := y2 + dy3
	return ctx.curveToAbs(x1, y1, x2, y2, x3, y3)
}

func (ctx *charstringContext) curveToAbs(x1, y1, x2, y2, x3, y3 float64) error {
	if !finite(x1, y1, x2, y2, x3, y3) {
		return ErrInvalidCoordinate
	}
	ctx.sink.CurveTo(float32(x1), float32(y1), float32(x2), float32(y2), float32(x3), float32(y3))
	ctx.bbox.enlarge(x1, y1)
	ctx.bbox.enlarge(x2, y2)
	ctx.bbox.enlarge(x3, y3)
	ctx.x, ctx.y = x3, y3
	return nil
}

// altLineTo implements hlineto/vlineto: arguments alternate starting
// direction, and the whole stack is consumed.
func (ctx *charstringContext) altLineTo(startHorizontal bool) error {
	if ctx.stack.len < 1 {
		return ErrInvalidArgumentsStackLength
	}
	horizontal := startHorizontal
	for j := 0; j < ctx.stack.len; j++ {
		var err error
		if horizontal {
			err = ctx.lineTo(ctx.stack.at(j), 0)
		} else {
			err = ctx.lineTo(0, ctx.stack.at(j))
		}
		if err != nil {
			return err
		}
		horizontal = !horizontal
	}
	ctx.stack.clear()
	return nil
}

// altCurveTo implements vhcurveto/hvcurveto: curve direction alternates
// every four arguments, with an optional trailing fifth argument on the
// final curve.
func (ctx *charstringContext) altCurveTo(startHorizontal bool) error {
	n := ctx.stack.len
	if n < 4 {
		return ErrInvalidArgumentsStackLength
	}
	horizontal := startHorizontal
	j := 0
	for n-j >= 4 {
		last := n-j == 5
		var err error
		if horizontal {
			x1 := ctx.x + ctx.stack.at(j)
			y1 := ctx.y
			x2 := x1 + ctx.stack.at(j+1)
			y2 := y1 + ctx.stack.at(j+2)
			y3 := y2 + ctx.stack.at(j+3)
			x3 := x2
			if last {
				x3 = x2 + ctx.stack.at(j+4)
			}
			err = ctx.curveToAbs(x1, y1, x2, y2, x3, y3)
		} else {
			x1 := ctx.x
			y1 := ctx.y + ctx.stack.at(j)
			x2 := x1 + ctx.stack.at(j+1)
			y2 := y1 + ctx.stack.at(j+2)
			x3 := x2 + ctx.stack.at(j+3)
			y3 := y2
			if last {
				y3 = y2 + ctx.stack.at(j+4)
			}
			err = ctx.curveToAbs(x1, y1, x2, y2, x3, y3)
		}
		if err != nil {
			return err
		}
		horizontal = !horizontal
		j += 4
		if last {
			j++
		}
	}
	ctx.stack.clear()
	return nil
}

func (ctx *charstringContext) runEscaped(op byte) error {
	switch op {
	case escDotSection:
		ctx.stack.clear()
		return nil
	case escHFlex:
		return ctx.runHFlex()
	case escFlex:
		return ctx.runFlex()
	case escHFlex1:
		return ctx.runHFlex1()
	case escFlex1:
		return ctx.runFlex1()
	default:
		return ErrUnsupportedOperator
	}
}

// runFlex/hFlex/hFlex1/flex1 reconstruct the two-curve flex hint as a
// plain pair of curveto calls; the flex height argument (used only by a
// rasterizer's hint engine) is discarded.
func (ctx *charstringContext) runFlex() error {
	if ctx.stack.len != 13 {
		return ErrInvalidArgumentsStackLength
	}
	s := &ctx.stack
	if err := ctx.curveTo(s.at(0), s.at(1), s.at(2), s.at(3), s.at(4), s.at(5)); err != nil {
		return err
	}
	if err := ctx.curveTo(s.at(6), s.at(7), s.at(8), s.at(9), s.at(10), s.at(11)); err != nil {
		return err
	}
	ctx.stack.clear()
	return nil
}

func (ctx *charstringContext) runHFlex() error {
	if ctx.stack.len != 7 {
		return ErrInvalidArgumentsStackLength
	}
	s := &ctx.stack
	y0 := ctx.y
	if err := ctx.curveTo(s.at(0), 0, s.at(1), s.at(2), s.at(3), 0); err != nil {
		return err
	}
	if err := ctx.curveTo(s.at(4), 0, s.at(5), y0-ctx.y, s.at(6), 0); err != nil {
		return err
	}
	ctx.stack.clear()
	return nil
}

func (ctx *charstringContext) runHFlex1() error {
	if ctx.stack.len != 9 {
		return ErrInvalidArgumentsStackLength
	}
	s := &ctx.stack
	y0 := ctx.y
	if err := ctx.curveTo(s.at(0), s.at(1), s.at(2), s.at(3), s.at(4), 0); err != nil {
		return err
	}
	if err := ctx.curveTo(s.at(5), 0, s.at(6), s.at(7), s.at(8), y0-ctx.y-s.at(7)); err != nil {
		return err
	}
	ctx.stack.clear()
	return nil
}

func (ctx *charstringContext) runFlex1() error {
	if ctx.stack.len != 11 {
		return ErrInvalidArgumentsStackLength
	}
	s := &ctx.stack
	x0, y0 := ctx.x, ctx.y
	dx := s.at(0) + s.at(2) + s.at(4) + s.at(6) + s.at(8)
	dy := s.at(1) + s.at(3) + s.at(5) + s.at(7) + s.at(9)
	if err := ctx.curveTo(s.at(0), s.at(1), s.at(2), s.at(3), s.at(4), s.at(5)); err != nil {
		return err
	}
	var err error
	if math.Abs(dx) > math.Abs(dy) {
		err = ctx.curveTo(s.at(6), s.at(7), s.at(8), s.at(9), s.at(10), y0-ctx.y-s.at(7)-s.at(9))
	} else {
		err = ctx.curveTo(s.at(6), s.at(7), s.at(8), s.at(9), x0-ctx.x-s.at(6)-s.at(8), s.at(10))
	}
	if err != nil {
		return err
	}
	ctx.stack.clear()
	return nil
}

// runSeac composes an accented glyph from a base and accent standard-encoded
// glyph, per the Adobe seac convention.
func (ctx *charstringContext) runSeac(depth int) error {
	s := &ctx.stack
	n := s.len
	// Args arrive as [width?, adx, ady, bchar, achar]; width is present
	// only when the glyph never set it via an earlier stem/move operator.
	acharCode := s.at(n - 1)
	bcharCode := s.at(n - 2)
	ady := s.at(n - 3)
	adx := s.at(n - 4)
	if n == 5 && !ctx.haveWidth {
		ctx.width = s.at(0)
		ctx.haveWidth = true
	}
	s.clear()
	ctx.hasSeac = true

	if depth >= maxCallDepth {
		return ErrNestingLimitReached
	}

	baseName, ok := standardEncodingName(bcharCode)
	if !ok {
		return ErrInvalidSeacCode
	}
	accentName, ok := standardEncodingName(acharCode)
	if !ok {
		return ErrInvalidSeacCode
	}
	baseCS, ok := ctx.table.charstrings[baseName]
	if !ok {
		return ErrInvalidSeacCode
	}
	accentCS, ok := ctx.table.charstrings[accentName]
	if !ok {
		return ErrInvalidSeacCode
	}

	if err := runCharstring(ctx, baseCS, depth+1); err != nil {
		return err
	}
	ctx.x, ctx.y = adx, ady
	return runCharstring(ctx, accentCS, depth+1)
}

func standardEncodingName(code float64) (string, bool) {
	c := int(code)
	if c < 0 || c > 255 {
		return "", false
	}
	return standardEncodingLookup(byte(c))
}
