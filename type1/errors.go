package type1

import "errors"

// Sentinel errors returned by Parse and Outline. Use errors.Is to test for a
// specific kind; Parse and Outline may also wrap these with additional
// context via fmt.Errorf("%w: ...", ...).
var (
	// ErrBadMagic is returned when the input does not start with "%!". Open
	// also returns it for a PFB record with a bad marker or record type, and
	// for a PFA input with no "currentfile eexec".
	ErrBadMagic = errors.New("type1: missing %! header")

	// ErrReadOutOfBounds is returned when a fixed-size construct (a PFB
	// record, a CharString number operand, escape byte or hint mask) is
	// truncated.
	ErrReadOutOfBounds = errors.New("type1: unexpected end of data")

	// ErrDecryptFailed is returned when the eexec segment is empty or, after
	// any ASCII-hex collapsing, shorter than its 4 leading random bytes.
	// Non-hex bytes in an ASCII-hex segment are skipped, and a segment that
	// decrypts to garbage is not detected here; it surfaces as a later
	// parse error.
	ErrDecryptFailed = errors.New("type1: eexec decryption failed")

	// ErrMissingPrivate is returned when no /Private dictionary is found in
	// the decrypted eexec segment, or when the segment ends before
	// /CharStrings.
	ErrMissingPrivate = errors.New("type1: missing /Private dictionary")

	// ErrInvalidOperator is returned for a reserved CharString opcode.
	ErrInvalidOperator = errors.New("type1: invalid charstring operator")

	// ErrUnsupportedOperator is returned for a well-formed but unimplemented
	// escaped (12 x) operator.
	ErrUnsupportedOperator = errors.New("type1: unsupported charstring operator")

	// ErrInvalidArgumentsStackLength is returned when an operator's
	// preconditions on the argument stack are violated.
	ErrInvalidArgumentsStackLength = errors.New("type1: invalid arguments stack length")

	// ErrStackOverflow is returned when the argument stack would exceed its
	// capacity.
	ErrStackOverflow = errors.New("type1: arguments stack overflow")

	// ErrNestingLimitReached is returned when callsubr/callgsubr/seac
	// recursion exceeds the depth limit.
	ErrNestingLimitReached = errors.New("type1: subroutine nesting limit reached")

	// ErrInvalidSubroutineIndex is returned when a bias-adjusted subroutine
	// index falls outside the subroutine table.
	ErrInvalidSubroutineIndex = errors.New("type1: invalid subroutine index")

	// ErrNoLocalSubroutines is returned by callsubr when the font declares
	// no /Subrs at all.
	ErrNoLocalSubroutines = errors.New("type1: callsubr with no local subroutines")

	// ErrNoGlobalSubroutines is returned by callgsubr when the font declares
	// no /GlobalSubrs at all.
	ErrNoGlobalSubroutines = errors.New("type1: callgsubr with no global subroutines")

	// ErrInvalidSeacCode is returned when a seac base or accent code does
	// not resolve to a known glyph.
	ErrInvalidSeacCode = errors.New("type1: invalid seac accent/base code")

	// ErrMissingEndChar is returned when a CharString's outermost
	// invocation runs out of bytes without reaching endchar.
	ErrMissingEndChar = errors.New("type1: charstring has no endchar")

	// ErrDataAfterEndChar is returned when bytes remain in the outermost
	// CharString after endchar.
	ErrDataAfterEndChar = errors.New("type1: data found after endchar")

	// ErrZeroBBox is returned when a glyph's outline never emitted a point.
	ErrZeroBBox = errors.New("type1: charstring produced an empty outline")

	// ErrBBoxOverflow is returned when the accumulated bounding box exceeds
	// what is representable in font design units.
	ErrBBoxOverflow = errors.New("type1: bounding box overflow")

	// ErrInvalidCoordinate is returned when a NaN or infinite coordinate
	// would be emitted to the outline sink.
	ErrInvalidCoordinate = errors.New("type1: non-finite coordinate")

	// ErrUnknownGlyph is returned by OutlineByName/Outline for a glyph name
	// or code not present in the font.
	ErrUnknownGlyph = errors.New("type1: unknown glyph")
)
