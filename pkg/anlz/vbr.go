package anlz

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// VBR is the decoded PVBR section payload: a table the player uses to
// seek directly to a given playback position in a variable-bitrate MP3
// (spec §4.4.4). The exact meaning of each index entry is opaque to this
// codec; it is preserved verbatim.
type VBR struct {
	Unknown uint32
	Indices []uint16
}

func decodeVBR(body []byte) (*VBR, error) {
	r := bytes.NewReader(body)
	unknown, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read vbr header", err)
	}
	remaining := r.Len() / 2
	indices := make([]uint16, 0, remaining)
	for i := 0; i < remaining; i++ {
		v, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read vbr index", err)
		}
		indices = append(indices, v)
	}
	return &VBR{Unknown: unknown, Indices: indices}, nil
}

// Encode serializes the VBR table unchanged.
func (v *VBR) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.WriteU32(&buf, order, v.Unknown); err != nil {
		return nil, err
	}
	for _, idx := range v.Indices {
		if err := bin.WriteU16(&buf, order, idx); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
