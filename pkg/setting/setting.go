package setting

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/rberr"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// File is a complete decoded setting file: header, payload, and the CRC-16
// trailer plus its fixed 2-byte tail (spec §3.1).
type File struct {
	Header  Header
	Payload Payload
	CRC     uint16
	Tail    [2]byte
}

// Processor reads and writes setting files, mirroring the teacher's
// GAMProcessor shape (pkg/gam.go) generalized from one fixed layout to
// four filename-dispatched variants plus a checksum trailer.
type Processor struct{}

// NewProcessor creates a setting-file processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Read parses a complete setting file from r.
//
// A CRC mismatch is returned as a non-fatal *rberr.ChecksumError alongside
// the fully parsed File (spec §4.2, §7): callers that need strict
// validation check for it explicitly rather than it aborting the parse.
func (p *Processor) Read(r io.Reader) (*File, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}

	payloadLen, err := bin.ReadU32(r, binary.LittleEndian)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadPayload, err)
	}

	payloadBytes, err := bin.ReadBytes(r, int(payloadLen))
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadPayload, err)
	}

	payload, err := decodePayload(header.FilenameString(), payloadBytes)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadPayload, err)
	}

	crc, err := bin.ReadU16(r, binary.LittleEndian)
	if err != nil {
		return nil, common.FormatError("failed to read crc", err)
	}

	var tail [2]byte
	if err := bin.ReadFixed(r, tail[:]); err != nil {
		return nil, common.FormatError("failed to read tail", err)
	}

	f := &File{Header: *header, Payload: payload, CRC: crc, Tail: tail}

	computed := computeCRC(payloadLen, payloadBytes)
	if computed != crc {
		return f, rberr.NewChecksum(crc, computed)
	}
	return f, nil
}

// Write serializes f, recomputing the length and CRC fields rather than
// trusting any cached values (spec §4.2 "Write").
func (p *Processor) Write(w io.Writer, f *File) error {
	if err := writeHeader(w, &f.Header); err != nil {
		return common.FormatError(common.ErrFailedToWriteHeader, err)
	}

	payloadBytes, err := f.Payload.Bytes()
	if err != nil {
		return common.FormatError(common.ErrFailedToWritePayload, err)
	}
	payloadLen, err := common.SafeIntToUint32(len(payloadBytes))
	if err != nil {
		return common.FormatError(common.ErrFailedToWritePayload, err)
	}

	if err := bin.WriteU32(w, binary.LittleEndian, payloadLen); err != nil {
		return common.FormatError(common.ErrFailedToWritePayload, err)
	}
	if _, err := w.Write(payloadBytes); err != nil {
		return common.FormatError(common.ErrFailedToWritePayload, err)
	}

	crc := computeCRC(payloadLen, payloadBytes)
	if err := bin.WriteU16(w, binary.LittleEndian, crc); err != nil {
		return common.FormatError("failed to write crc", err)
	}
	if _, err := w.Write(f.Tail[:]); err != nil {
		return common.FormatError("failed to write tail", err)
	}
	return nil
}

// computeCRC covers the payload-length field through the last payload byte
// (spec §3.1, §6.1).
func computeCRC(payloadLen uint32, payload []byte) uint16 {
	var buf bytes.Buffer
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], payloadLen)
	buf.Write(lenBuf[:])
	buf.Write(payload)
	return common.ChecksumIBM(buf.Bytes())
}

// ReadFile is a convenience wrapper around Processor.Read.
func ReadFile(r io.Reader) (*File, error) {
	return NewProcessor().Read(r)
}

// WriteFile is a convenience wrapper around Processor.Write.
func WriteFile(w io.Writer, f *File) error {
	return NewProcessor().Write(w, f)
}

// String implements fmt.Stringer for quick CLI dumping.
func (f *File) String() string {
	return fmt.Sprintf("setting file %q: payload=%T crc=%#04x", f.Header.FilenameString(), f.Payload, f.CRC)
}
