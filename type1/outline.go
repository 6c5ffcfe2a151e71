package type1

// OutlineSink receives the drawing calls produced by interpreting a
// CharString. Coordinates are in the font's own design units (typically
// 1000 units/em), not yet scaled by FontMatrix.
type OutlineSink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	CurveTo(x1, y1, x2, y2, x3, y3 float32)
	ClosePath()
}
