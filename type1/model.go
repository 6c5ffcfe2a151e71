package type1

// FontInfo holds the descriptive, non-metric fields of the /FontInfo
// dictionary. Fields absent from the font are left at their zero value.
type FontInfo struct {
	Version            string
	Notice             string
	FullName           string
	FamilyName         string
	Weight             string
	ItalicAngle        float64
	IsFixedPitch       bool
	UnderlinePosition  float64
	UnderlineThickness float64
}

// PrivateDict holds the hinting parameters found in the /Private
// dictionary, used by rasterizers; Parse/Outline do not themselves apply
// them but expose them for callers that want to hint the outline.
type PrivateDict struct {
	BlueValues       []float64
	OtherBlues       []float64
	FamilyBlues      []float64
	FamilyOtherBlues []float64
	BlueScale        float64
	BlueShift        int
	BlueFuzz         int
	StdHW            []float64
	StdVW            []float64
	StemSnapH        []float64
	StemSnapV        []float64
	ForceBold        bool
	LanguageGroup    int

	// LenIV is the number of random bytes prefixed to each encrypted
	// CharString/Subr payload; defaults to 4 when the font omits it.
	LenIV int
}

// Table is a fully parsed Type 1 font: cleartext header fields plus the
// decrypted, but not yet interpreted, CharStrings and local Subrs.
type Table struct {
	FontName    string
	PaintType   int
	FontType    int
	UniqueID    int
	StrokeWidth float64
	FontMatrix  []float64
	FontBBox    []float64
	FontInfo    FontInfo
	Private     PrivateDict

	// encoding maps a code (0-255) to a glyph name; empty entries fall
	// back to simpleencodings.StandardEncoding only when usesStandard is set.
	encoding      [256]string
	usesStandard  bool
	charstrings   map[string][]byte
	charstringSeq []string // insertion order, for deterministic iteration
	subrs         [][]byte
	gsubrs        [][]byte // populated only for Type 2-adjacent inputs that declare /GlobalSubrs
}

// GlyphNames returns the font's CharStrings keys in their declaration
// order.
func (t *Table) GlyphNames() []string {
	out := make([]string, len(t.charstringSeq))
	copy(out, t.charstringSeq)
	return out
}
