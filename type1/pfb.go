package type1

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	pfbStartMarker  = 0x80
	pfbAsciiMarker  = 0x01
	pfbBinaryMarker = 0x02
	pfbEOFMarker    = 0x03
)

// Open splits a Type 1 font file into its cleartext ASCII header and its
// eexec-encrypted segment, accepting both the segmented PFB container and
// plain PFA (pure ASCII, segments delimited by the literal "eexec" keyword).
func Open(data []byte) (ascii, enc []byte, err error) {
	if len(data) > 0 && data[0] == pfbStartMarker {
		return openPFB(data)
	}
	return openPFA(data)
}

func openPFB(data []byte) (ascii, enc []byte, err error) {
	r := bytes.NewReader(data)
	var segments [][]byte
	for {
		header := make([]byte, 6)
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, nil, ErrReadOutOfBounds
		}
		if header[0] != pfbStartMarker {
			return nil, nil, ErrBadMagic
		}
		marker := header[1]
		if marker == pfbEOFMarker {
			break
		}
		if marker != pfbAsciiMarker && marker != pfbBinaryMarker {
			return nil, nil, ErrBadMagic
		}
		size := int64(binary.LittleEndian.Uint32(header[2:]))
		if size < 0 {
			return nil, nil, ErrReadOutOfBounds
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, ErrReadOutOfBounds
		}
		segments = append(segments, payload)
		if r.Len() == 0 {
			break
		}
	}

	if len(segments) == 0 {
		return nil, nil, ErrBadMagic
	}
	ascii = segments[0]
	for _, s := range segments[1:] {
		// PFB may carry the binary segment in several consecutive records;
		// a trailing ASCII trailer (the final "cleartomark" block) is
		// appended back onto the ASCII header since it is never encrypted.
		if isBinary(s) {
			enc = append(enc, s...)
		} else {
			ascii = append(ascii, s...)
		}
	}
	return ascii, enc, nil
}

// openPFA handles the unsegmented, pure-ASCII font file layout: the cleartext
// header, "currentfile eexec", then the encrypted segment.
func openPFA(data []byte) (ascii, enc []byte, err error) {
	if !bytes.HasPrefix(data, []byte("%!")) {
		return nil, nil, ErrBadMagic
	}

	const marker = "currentfile eexec"
	idx := bytes.Index(data, []byte(marker))
	if idx == -1 {
		return nil, nil, ErrBadMagic
	}
	ascii = data[:idx+len(marker)]
	enc = data[idx+len(marker):]
	if len(enc) > 0 && isPSWhitespace(enc[0]) {
		enc = enc[1:]
	}
	return ascii, enc, nil
}

func isPSWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}
