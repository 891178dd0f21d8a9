package anlz

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// FilePath is the decoded PPTH section payload: the absolute path of the
// audio file this analysis belongs to (spec §4.4.3).
type FilePath struct {
	Path string
}

func decodeFilePath(body []byte) (*FilePath, error) {
	r := bytes.NewReader(body)
	length, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read path length", err)
	}
	raw, err := bin.ReadBytes(r, int(length))
	if err != nil {
		return nil, common.FormatError("failed to read path text", err)
	}
	return &FilePath{Path: decodeUTF16BE(raw)}, nil
}

// Encode serializes the path, recomputing its byte length from the
// current text.
func (p *FilePath) Encode() ([]byte, error) {
	text := encodeUTF16BE(p.Path)
	length, err := common.SafeIntToUint32(len(text))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := bin.WriteU32(&buf, order, length); err != nil {
		return nil, err
	}
	if _, err := buf.Write(text); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
