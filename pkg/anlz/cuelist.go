package anlz

import (
	"bytes"
	"unicode/utf16"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// ListType distinguishes a PCOB/PCO2 section's memory-cue list from its
// hot-cue list (spec §4.4.2).
type ListType uint32

// Documented list types.
const (
	ListTypeMemory ListType = 0
	ListTypeHot    ListType = 1
)

// CueKind is the type byte recorded on an individual cue entry. The
// format is documented as sometimes disagreeing with its containing
// list's ListType; this codec preserves whatever kind byte it read
// rather than rejecting or silently correcting the mismatch (spec
// §4.4.2 "Edge cases").
type CueKind uint32

// Documented cue kinds.
const (
	CueKindPoint CueKind = 1
	CueKindLoop  CueKind = 2
)

// Cue is one memory or hot cue entry. Color and Comment are populated
// only when decoded from an extended (PCO2) list; Extended records
// whether they are meaningful. Reserved and ColorReserved are the
// undocumented bytes following Order and Color, kept verbatim rather
// than assumed to be zero (spec §9).
type Cue struct {
	HotCueIndex uint32
	Kind        CueKind
	Order       uint16
	Reserved    []byte
	Time        uint32
	LoopTime    uint32

	Extended      bool
	Color         uint8
	ColorReserved []byte
	Comment       string
}

// CueList is the decoded payload of a PCOB or PCO2 section.
type CueList struct {
	Type             ListType
	UnknownMemoryCnt uint32
	Cues             []Cue
	Extended         bool
}

const cueBaseSize = 4 + 4 + 2 + 2 + 4 + 4 // HotCueIndex, Kind, Order, pad, Time, LoopTime

func decodeCueList(body []byte, extended bool) (*CueList, error) {
	r := bytes.NewReader(body)
	listType, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read cue list type", err)
	}
	count, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read cue count", err)
	}
	unknownMemCnt, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read cue list header", err)
	}

	cues := make([]Cue, 0, count)
	for i := uint32(0); i < count; i++ {
		c, err := decodeCue(r, extended)
		if err != nil {
			return nil, common.FormatError("failed to read cue entry", err)
		}
		cues = append(cues, *c)
	}

	return &CueList{
		Type:             ListType(listType),
		UnknownMemoryCnt: unknownMemCnt,
		Cues:             cues,
		Extended:         extended,
	}, nil
}

func decodeCue(r *bytes.Reader, extended bool) (*Cue, error) {
	hotCueIndex, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, err
	}
	kind, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, err
	}
	ord, err := bin.ReadU16(r, order)
	if err != nil {
		return nil, err
	}
	reserved, err := bin.ReadPad(r, 2)
	if err != nil {
		return nil, err
	}
	ts, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, err
	}
	loopTs, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, err
	}

	c := &Cue{HotCueIndex: hotCueIndex, Kind: CueKind(kind), Order: ord, Reserved: reserved, Time: ts, LoopTime: loopTs}
	if !extended {
		return c, nil
	}
	c.Extended = true

	colorByte, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	c.Color = colorByte
	colorReserved, err := bin.ReadPad(r, 3)
	if err != nil {
		return nil, err
	}
	c.ColorReserved = colorReserved
	commentLen, err := bin.ReadU16(r, order)
	if err != nil {
		return nil, err
	}
	commentBytes, err := bin.ReadBytes(r, int(commentLen))
	if err != nil {
		return nil, err
	}
	c.Comment = decodeUTF16BE(commentBytes)
	return c, nil
}

// Encode serializes the cue list, recomputing its count from len(Cues).
func (l *CueList) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.WriteU32(&buf, order, uint32(l.Type)); err != nil {
		return nil, err
	}
	count, err := common.SafeIntToUint32(len(l.Cues))
	if err != nil {
		return nil, err
	}
	if err := bin.WriteU32(&buf, order, count); err != nil {
		return nil, err
	}
	if err := bin.WriteU32(&buf, order, l.UnknownMemoryCnt); err != nil {
		return nil, err
	}
	for _, c := range l.Cues {
		if err := encodeCue(&buf, &c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeCue(buf *bytes.Buffer, c *Cue) error {
	if err := bin.WriteU32(buf, order, c.HotCueIndex); err != nil {
		return err
	}
	if err := bin.WriteU32(buf, order, uint32(c.Kind)); err != nil {
		return err
	}
	if err := bin.WriteU16(buf, order, c.Order); err != nil {
		return err
	}
	if err := bin.WritePad(buf, bin.PadOrZero(c.Reserved, 2)); err != nil {
		return err
	}
	if err := bin.WriteU32(buf, order, c.Time); err != nil {
		return err
	}
	if err := bin.WriteU32(buf, order, c.LoopTime); err != nil {
		return err
	}
	if !c.Extended {
		return nil
	}
	if err := bin.WriteU8(buf, c.Color); err != nil {
		return err
	}
	if err := bin.WritePad(buf, bin.PadOrZero(c.ColorReserved, 3)); err != nil {
		return err
	}
	commentBytes := encodeUTF16BE(c.Comment)
	commentLen, err := common.SafeIntToUint16(len(commentBytes))
	if err != nil {
		return err
	}
	if err := bin.WriteU16(buf, order, commentLen); err != nil {
		return err
	}
	_, err = buf.Write(commentBytes)
	return err
}

func decodeUTF16BE(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units))
}

func encodeUTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		out[2*i] = byte(u >> 8)
		out[2*i+1] = byte(u)
	}
	return out
}
