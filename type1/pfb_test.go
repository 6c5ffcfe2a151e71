package type1

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildPFB(ascii, enc, trailer []byte) []byte {
	var buf bytes.Buffer
	record := func(marker byte, payload []byte) {
		buf.WriteByte(pfbStartMarker)
		buf.WriteByte(marker)
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
		buf.Write(size[:])
		buf.Write(payload)
	}
	record(pfbAsciiMarker, ascii)
	record(pfbBinaryMarker, enc)
	record(pfbAsciiMarker, trailer)
	buf.WriteByte(pfbStartMarker)
	buf.WriteByte(pfbEOFMarker)
	return buf.Bytes()
}

func TestOpenPFB(t *testing.T) {
	ascii := []byte("%!PS-AdobeFont-1.0: Test\ncurrentfile eexec\n")
	enc := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	trailer := bytes.Repeat([]byte("0"), 64)
	trailer = append(trailer, []byte(" cleartomark\n")...)

	data := buildPFB(ascii, enc, trailer)
	gotAscii, gotEnc, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotEnc, enc) {
		t.Fatalf("encrypted segment mismatch: got %v want %v", gotEnc, enc)
	}
	if !bytes.HasPrefix(gotAscii, ascii) {
		t.Fatalf("ascii segment missing header: %q", gotAscii)
	}
}

func TestOpenPFA(t *testing.T) {
	ascii := "%!PS-AdobeFont-1.0: Test\ncurrentfile eexec\n"
	enc := "\x01\x02\x03garbage"
	data := []byte(ascii + enc)
	gotAscii, gotEnc, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotAscii) != ascii {
		t.Fatalf("got ascii %q want %q", gotAscii, ascii)
	}
	if string(gotEnc) != enc {
		t.Fatalf("got enc %q want %q", gotEnc, enc)
	}
}

func TestOpenBadMagic(t *testing.T) {
	if _, _, err := Open([]byte("not a font")); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

// TestParsePFBContainer checks that a font built by buildTestFont (which
// produces a plain PFA byte stream) parses identically once repackaged as a
// segmented PFB container, confirming Parse's PFB path feeds parseASCII and
// parsePrivate the same bytes as the PFA path does.
func TestParsePFBContainer(t *testing.T) {
	pfa := buildTestFont(t)

	boundary := bytes.Index(pfa, []byte("currentfile eexec\n"))
	if boundary < 0 {
		t.Fatal("test font missing eexec boundary")
	}
	boundary += len("currentfile eexec\n")
	ascii, enc := pfa[:boundary], pfa[boundary:]

	data := buildPFB(ascii, enc, []byte("0000000000000000000000000000000000000000000000000000000000000000\ncleartomark\n"))

	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.FontName != "Test" {
		t.Fatalf("FontName: got %q", table.FontName)
	}

	var sink recordingSink
	width, hasWidth, err := table.Outline('A', &sink)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if !hasWidth || width != 500 {
		t.Fatalf("width: got %v, hasWidth=%v", width, hasWidth)
	}
}
