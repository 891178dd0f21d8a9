// Package bin provides the byte-level primitives every rbdb file family is
// built from: fixed-width integers of a declared endianness, fixed-size
// byte arrays, and exact padding.
//
// Generalized from pkg/common/utils.go's little-endian-only ReadUint16LE /
// ReadUint32LE helpers to support per-field endianness, since ANLZ mixes
// big-endian headers with little-endian waveform-color payloads within a
// single file (spec §6.1).
package bin

import (
	"encoding/binary"
	"io"

	"github.com/rbtoolkit/rbdb/internal/rberr"
)

// ReadU8 reads a single byte.
func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadU16 reads a uint16 in the given byte order.
func ReadU16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	var v uint16
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadU32 reads a uint32 in the given byte order.
func ReadU32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	var v uint32
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadFixed reads exactly len(dst) bytes into dst.
func ReadFixed(r io.Reader, dst []byte) error {
	_, err := io.ReadFull(r, dst)
	return err
}

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// WriteU16 writes a uint16 in the given byte order.
func WriteU16(w io.Writer, order binary.ByteOrder, v uint16) error {
	return binary.Write(w, order, v)
}

// WriteU32 writes a uint32 in the given byte order.
func WriteU32(w io.Writer, order binary.ByteOrder, v uint32) error {
	return binary.Write(w, order, v)
}

// ReadPad reads n bytes of padding into a slice that is preserved verbatim
// (spec §9: padding bytes must round-trip exactly, not be recomputed from a
// uniform alignment rule at write time).
func ReadPad(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	return ReadBytes(r, n)
}

// WritePad writes the padding bytes previously captured by ReadPad.
func WritePad(w io.Writer, pad []byte) error {
	if len(pad) == 0 {
		return nil
	}
	_, err := w.Write(pad)
	return err
}

// PadOrZero returns pad unchanged if it was captured from a decode, or n
// zero bytes if the value was never read from a file (a struct built by
// hand rather than decoded).
func PadOrZero(pad []byte, n int) []byte {
	if pad != nil {
		return pad
	}
	return make([]byte, n)
}

// AlignUp rounds n up to the next multiple of align.
func AlignUp(n, align int) int {
	if align <= 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// CheckOffset verifies that offset fits the width of a field (8, 16, 24 or
// 32 bits) before it is written, returning a descriptive error rather than
// silently truncating.
func CheckOffset(field string, offset int64, bits int) error {
	limit := int64(1) << uint(bits)
	if offset < 0 || offset >= limit {
		return rberr.NewOverflow(field, offset, limit-1)
	}
	return nil
}
