// Package offsetrow implements the "fixed front, offsets into a trailing
// variable region" row shape shared by the PDB Album, Artist and Track row
// kinds: a run of fixed-width scalar fields followed by a sequence of
// DeviceSQL strings, each referenced from the fixed part by a 16-bit byte
// offset counted from the start of the row.
//
// Grounded on the teacher's WFMHeader DialoguePointerTable (pkg/types.go),
// which holds the same shape: fixed records up front, each pointing into a
// trailing variable-length blob rather than embedding its payload inline.
package offsetrow

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/rberr"
	"github.com/rbtoolkit/rbdb/pkg/common"
	"github.com/rbtoolkit/rbdb/pkg/devicesql"
)

// Tail accumulates the variable-length region appended after a row's
// fixed fields while encoding. Offsets handed back by Append are relative
// to the start of the row, not the start of the tail.
type Tail struct {
	base int
	buf  bytes.Buffer
}

// NewTail creates a tail whose first byte will land at byte offset base
// within the finished row (typically the size of the row's fixed part).
func NewTail(base int) *Tail {
	return &Tail{base: base}
}

// Append encodes s and returns the 16-bit offset a fixed-field should
// store to reference it, erroring if the resulting offset cannot fit in
// 16 bits (spec §5.4 "Write / Overflow").
func (t *Tail) Append(s *devicesql.String) (uint16, error) {
	offset := t.base + t.buf.Len()
	off16, err := common.SafeIntToUint16(offset)
	if err != nil {
		return 0, rberr.NewOverflow("string offset", int64(offset), 0xffff)
	}
	if _, err := s.Encode(&t.buf); err != nil {
		return 0, err
	}
	return off16, nil
}

// Bytes returns the accumulated variable-length region.
func (t *Tail) Bytes() []byte {
	return t.buf.Bytes()
}

// ReadStringAt decodes the DeviceSQL string stored at the given row-
// relative byte offset within row. An offset of 0 conventionally means
// "absent" for optional fields; callers check for that before calling.
func ReadStringAt(row []byte, offset uint16) (*devicesql.String, error) {
	if int(offset) >= len(row) {
		return nil, rberr.NewStructural(int64(offset), "string offset falls outside row bounds", nil)
	}
	return devicesql.Decode(bytes.NewReader(row[offset:]), int64(offset))
}
