// Package devicesql implements Pioneer's length-prefixed DeviceSQL string,
// the text encoding used throughout the PDB container (spec §4.1). It has
// no analogue in the teacher repo — tombatools only ever reads fixed-size
// byte arrays or length-prefixed binary blobs — so its shape is built from
// internal/bin primitives plus the standard library's unicode/utf16
// package, the same package the ID3v2 readers in the retrieval pack reach
// for when decoding UTF-16 text frames.
package devicesql

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/rberr"
)

// Kind identifies which of the three physical encodings a String was read
// from, or was requested to be written as.
type Kind uint8

const (
	// KindShortASCII is the single-byte-header, 7-bit-length ASCII form.
	KindShortASCII Kind = iota
	// KindLongASCII is the 0x40-tagged four-byte-header ASCII form. Only
	// ever produced by Decode; Encode only emits it when asked to preserve
	// a value that was read this way.
	KindLongASCII
	// KindLongUTF16 is the 0x90-tagged four-byte-header UTF-16LE form.
	KindLongUTF16
)

const (
	tagLongASCII = 0x40
	tagLongUTF16 = 0x90
)

// String is a decoded DeviceSQL text value. Kind records the physical form
// it was read as so that Encode reproduces the identical bytes; a value
// built with New has no original form and Encode chooses one per spec §4.1
// (short ASCII when it fits, long UTF-16LE otherwise).
type String struct {
	Text    string
	Kind    Kind
	fromNew bool
	// unknown is the single reserved byte present in both long forms,
	// preserved verbatim rather than reinterpreted.
	unknown byte
}

// New constructs a String with no fixed physical form; Encode will pick one
// based on content.
func New(text string) *String {
	return &String{Text: text, fromNew: true}
}

// Decode reads one DeviceSQL string starting at the reader's current
// position.
func Decode(r io.Reader, offset int64) (*String, error) {
	lead, err := bin.ReadU8(r)
	if err != nil {
		return nil, rberr.NewStructural(offset, "failed to read devicesql lead byte", err)
	}

	switch {
	case lead == tagLongASCII:
		return decodeLong(r, offset, KindLongASCII)
	case lead == tagLongUTF16:
		return decodeLong(r, offset, KindLongUTF16)
	case lead&1 == 1:
		return decodeShort(r, offset, lead)
	default:
		return nil, rberr.NewEncoding(offset, "short-form devicesql length byte must be odd")
	}
}

func decodeShort(r io.Reader, offset int64, lead byte) (*String, error) {
	length := int(lead>>1) - 1
	if length < 0 {
		return nil, rberr.NewEncoding(offset, "short-form devicesql length underflow")
	}
	if length == 0 {
		return &String{Text: "", Kind: KindShortASCII}, nil
	}
	payload, err := bin.ReadBytes(r, length)
	if err != nil {
		return nil, rberr.NewStructural(offset, "truncated short devicesql payload", err)
	}
	for _, b := range payload {
		if b > 0x7f {
			return nil, rberr.NewEncoding(offset, "non-ASCII byte in short-form devicesql string")
		}
	}
	return &String{Text: string(payload), Kind: KindShortASCII}, nil
}

func decodeLong(r io.Reader, offset int64, kind Kind) (*String, error) {
	totalLen, err := bin.ReadU16(r, binary.LittleEndian)
	if err != nil {
		return nil, rberr.NewStructural(offset, "failed to read long devicesql length", err)
	}
	unknown, err := bin.ReadU8(r)
	if err != nil {
		return nil, rberr.NewStructural(offset, "failed to read long devicesql unknown byte", err)
	}
	const headerLen = 4
	if int(totalLen) < headerLen {
		return nil, rberr.NewEncoding(offset, "long devicesql declared length shorter than header")
	}
	bodyLen := int(totalLen) - headerLen

	switch kind {
	case KindLongASCII:
		payload, err := bin.ReadBytes(r, bodyLen)
		if err != nil {
			return nil, rberr.NewStructural(offset, "truncated long ascii devicesql payload", err)
		}
		return &String{Text: string(payload), Kind: KindLongASCII, unknown: unknown}, nil

	case KindLongUTF16:
		if bodyLen%2 != 0 {
			return nil, rberr.NewEncoding(offset, "long utf16 devicesql body has odd length")
		}
		raw, err := bin.ReadBytes(r, bodyLen)
		if err != nil {
			return nil, rberr.NewStructural(offset, "truncated long utf16 devicesql payload", err)
		}
		units := make([]uint16, bodyLen/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
		}
		// Last unit is the mandatory null terminator; strip it from Text.
		if len(units) > 0 && units[len(units)-1] == 0 {
			units = units[:len(units)-1]
		}
		text := string(utf16.Decode(units))
		return &String{Text: text, Kind: KindLongUTF16, unknown: unknown}, nil
	}
	return nil, rberr.NewEncoding(offset, "unreachable devicesql kind")
}

// Encode writes the string and returns the number of bytes written.
func (s *String) Encode(w io.Writer) (int, error) {
	kind := s.Kind
	if s.fromNew {
		kind = chooseKind(s.Text)
	}

	switch kind {
	case KindShortASCII:
		return encodeShort(w, s.Text)
	case KindLongASCII:
		return encodeLongASCII(w, s.Text, s.unknown)
	case KindLongUTF16:
		return encodeLongUTF16(w, s.Text, s.unknown)
	}
	return 0, rberr.NewEncoding(0, "unknown devicesql kind requested for encode")
}

func chooseKind(text string) Kind {
	if isShortASCII(text) {
		return KindShortASCII
	}
	return KindLongUTF16
}

func isShortASCII(text string) bool {
	if len(text) > 126 {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return false
		}
	}
	return true
}

func encodeShort(w io.Writer, text string) (int, error) {
	length := len(text)
	if length > 126 {
		return 0, rberr.NewOverflow("devicesql short length", int64(length), 126)
	}
	lead := byte((length+1)*2) | 1
	var buf bytes.Buffer
	buf.WriteByte(lead)
	buf.WriteString(text)
	n, err := w.Write(buf.Bytes())
	return n, err
}

func encodeLongASCII(w io.Writer, text string, unknown byte) (int, error) {
	totalLen := 4 + len(text)
	if err := bin.CheckOffset("devicesql long ascii length", int64(totalLen), 16); err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	buf.WriteByte(tagLongASCII)
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(totalLen))
	buf.Write(lenBuf[:])
	buf.WriteByte(unknown)
	buf.WriteString(text)
	n, err := w.Write(buf.Bytes())
	return n, err
}

func encodeLongUTF16(w io.Writer, text string, unknown byte) (int, error) {
	units := utf16.Encode([]rune(text))
	units = append(units, 0) // mandatory null terminator
	totalLen := 4 + len(units)*2
	if err := bin.CheckOffset("devicesql long utf16 length", int64(totalLen), 16); err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	buf.WriteByte(tagLongUTF16)
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(totalLen))
	buf.Write(lenBuf[:])
	buf.WriteByte(unknown)
	for _, u := range units {
		var unitBuf [2]byte
		binary.LittleEndian.PutUint16(unitBuf[:], u)
		buf.Write(unitBuf[:])
	}
	n, err := w.Write(buf.Bytes())
	return n, err
}
