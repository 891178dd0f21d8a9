// Package anlz implements the codec for Rekordbox per-track analysis files
// (ANLZ0000.DAT/.EXT/.2EX): an outer PMAI container holding a sequence of
// tagged, variable-length sections (spec §3.2, §4.3).
//
// Grounded on the teacher's WFMFileDecoder/WFMFileEncoder split
// (pkg/decoders.go, pkg/encoders.go): Decode/DecodeHeader there becomes
// Decode/decodeHeader here, generalized from WFM's single fixed-shape body
// to a repeating sequence of magic-tagged sections, each dispatched the
// way pkg/decoders.go's DecodeHeader branches on a single fixed magic.
package anlz

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/rberr"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// Endianness note (spec §6.1): the outer container and every section
// header are big-endian; most section payload scalars are big-endian too,
// except the color waveform variants (PWV4/PWV5), which hold little-endian
// shorts. Each payload type picks its own byte order explicitly rather
// than relying on a single file-global order.
var order = binary.BigEndian

const outerMagic = "PMAI"

// Section magic constants (spec §3.2).
const (
	MagicBeatGrid             = "PQTZ"
	MagicCueList              = "PCOB"
	MagicExtendedCueList      = "PCO2"
	MagicFilePath             = "PPTH"
	MagicVBR                  = "PVBR"
	MagicWaveformPreview      = "PWAV"
	MagicTinyWaveformPreview  = "PWV2"
	MagicWaveformDetail       = "PWV3"
	MagicColorWaveformPreview = "PWV4"
	MagicColorWaveformDetail  = "PWV5"
	MagicSongStructure        = "PSSI"
	MagicUnknown6             = "PWV6"
	MagicUnknown7             = "PWV7"
)

// SectionPayload is implemented by every section's decoded content,
// including UnknownSection for forward-compatible or unrecognized section
// kinds (spec §4.5: unknown tags must round-trip, never be discarded).
type SectionPayload interface {
	Encode() ([]byte, error)
}

// Section is one tagged, length-framed chunk of the analysis file body.
type Section struct {
	Magic      string
	HeaderLen  uint32
	TotalLen   uint32
	HeaderRest []byte // bytes between the common 12-byte header and HeaderLen, preserved verbatim
	Payload    SectionPayload
}

// File is a fully decoded ANLZ/EXT/2EX file.
type File struct {
	HeaderLen uint32
	TotalLen  uint32
	Sections  []Section
}

// Decode reads a complete analysis file from r.
func Decode(r io.Reader) (*File, error) {
	magic, err := bin.ReadBytes(r, 4)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if string(magic) != outerMagic {
		return nil, rberr.NewStructural(0, common.ErrUnexpectedMagic, nil)
	}
	headerLen, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	totalLen, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if headerLen < 12 {
		return nil, rberr.NewStructural(4, "anlz header length shorter than fixed fields", nil)
	}
	if totalLen < headerLen {
		return nil, rberr.NewStructural(8, "anlz total length shorter than header length", nil)
	}

	// Skip whatever padding the outer header reserves beyond the three
	// fixed fields already read.
	if _, err := bin.ReadBytes(r, int(headerLen-12)); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}

	bodyLen := int64(totalLen - headerLen)
	body, err := bin.ReadBytes(r, int(bodyLen))
	if err != nil {
		return nil, common.FormatError("failed to read anlz body", err)
	}

	sections, err := decodeSections(body)
	if err != nil {
		return nil, err
	}

	return &File{HeaderLen: headerLen, TotalLen: totalLen, Sections: sections}, nil
}

func decodeSections(body []byte) ([]Section, error) {
	var sections []Section
	var consumed int64
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		offset := consumed
		sec, err := decodeSection(r, offset)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *sec)
		consumed += int64(sec.TotalLen)
	}
	if consumed != int64(len(body)) {
		return nil, rberr.NewStructural(0, common.ErrSectionCoverage, nil)
	}
	return sections, nil
}

func decodeSection(r *bytes.Reader, offset int64) (*Section, error) {
	magic, err := bin.ReadBytes(r, 4)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}
	headerLen, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}
	totalLen, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}
	if headerLen < 12 || totalLen < headerLen {
		return nil, rberr.NewStructural(offset, "invalid section length fields", nil)
	}

	headerRest, err := bin.ReadBytes(r, int(headerLen-12))
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}

	payloadLen := int(totalLen - headerLen)
	payloadBytes, err := bin.ReadBytes(r, payloadLen)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}

	kind := string(magic)
	payload, err := decodePayload(kind, payloadBytes)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadSection, err)
	}

	return &Section{
		Magic:      kind,
		HeaderLen:  headerLen,
		TotalLen:   totalLen,
		HeaderRest: headerRest,
		Payload:    payload,
	}, nil
}

func decodePayload(kind string, body []byte) (SectionPayload, error) {
	switch kind {
	case MagicBeatGrid:
		return decodeBeatGrid(body)
	case MagicCueList:
		return decodeCueList(body, false)
	case MagicExtendedCueList:
		return decodeCueList(body, true)
	case MagicFilePath:
		return decodeFilePath(body)
	case MagicVBR:
		return decodeVBR(body)
	case MagicWaveformPreview:
		return decodeWaveformPreview(body)
	case MagicTinyWaveformPreview:
		return decodeTinyWaveformPreview(body)
	case MagicWaveformDetail:
		return decodeWaveformDetail(body)
	case MagicColorWaveformPreview:
		return decodeColorWaveformPreview(body)
	case MagicColorWaveformDetail:
		return decodeColorWaveformDetail(body)
	case MagicSongStructure:
		return decodeSongStructure(body)
	default:
		return &UnknownSection{Raw: append([]byte(nil), body...)}, nil
	}
}

// Encode serializes f, recomputing every section's total length and the
// outer total length from the serialized payloads rather than trusting
// cached values from parse time (spec §4.3 "Write").
func (f *File) Encode(w io.Writer) error {
	var body bytes.Buffer
	for _, sec := range f.Sections {
		if err := encodeSection(&body, &sec); err != nil {
			return common.FormatError(common.ErrFailedToWriteSection, err)
		}
	}

	headerLen := f.HeaderLen
	if headerLen < 12 {
		headerLen = 12
	}
	bodyLen, err := common.SafeIntToUint32(body.Len())
	if err != nil {
		return common.FormatError(common.ErrFailedToWriteHeader, err)
	}
	totalLen := headerLen + bodyLen

	if _, err := w.Write([]byte(outerMagic)); err != nil {
		return common.FormatError(common.ErrFailedToWriteHeader, err)
	}
	if err := bin.WriteU32(w, order, headerLen); err != nil {
		return common.FormatError(common.ErrFailedToWriteHeader, err)
	}
	if err := bin.WriteU32(w, order, totalLen); err != nil {
		return common.FormatError(common.ErrFailedToWriteHeader, err)
	}
	if headerLen > 12 {
		if _, err := w.Write(make([]byte, headerLen-12)); err != nil {
			return common.FormatError(common.ErrFailedToWriteHeader, err)
		}
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return common.FormatError("failed to write anlz body", err)
	}
	return nil
}

func encodeSection(w io.Writer, sec *Section) error {
	payloadBytes, err := sec.Payload.Encode()
	if err != nil {
		return err
	}
	headerLen := sec.HeaderLen
	if headerLen < 12 {
		headerLen = uint32(12 + len(sec.HeaderRest))
	}
	payloadLen, err := common.SafeIntToUint32(len(payloadBytes))
	if err != nil {
		return err
	}
	totalLen := headerLen + payloadLen

	if _, err := w.Write([]byte(sec.Magic)); err != nil {
		return err
	}
	if err := bin.WriteU32(w, order, headerLen); err != nil {
		return err
	}
	if err := bin.WriteU32(w, order, totalLen); err != nil {
		return err
	}
	if _, err := w.Write(sec.HeaderRest); err != nil {
		return err
	}
	_, err = w.Write(payloadBytes)
	return err
}

// UnknownSection preserves the raw bytes of a section whose magic this
// codec does not recognize (spec §4.5, §4.3 "Unknown kinds are retained as
// opaque bytes").
type UnknownSection struct {
	Raw []byte
}

// Encode returns the preserved raw bytes unchanged.
func (u *UnknownSection) Encode() ([]byte, error) {
	out := make([]byte, len(u.Raw))
	copy(out, u.Raw)
	return out, nil
}
