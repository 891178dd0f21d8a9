// Package setting implements the codec for Rekordbox device preference
// files: MYSETTING.DAT, MYSETTING2.DAT, DJMMYSETTING.DAT and
// DEVSETTING.DAT (spec §3.1, §4.2).
//
// Grounded on pkg/gam.go's Header/File/Processor split in the teacher
// repo: a fixed-size header read with binary.Read, a length-prefixed
// payload, and a trailer — generalized from GAM's single fixed layout to
// four magic(filename)-dispatched payload variants, and from no checksum
// to a CRC-16 trailer (spec §4.2, §6.1).
package setting

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/rberr"
)

const headerSize = 104

// Header is the fixed 104-byte brand/software/version/filename block common
// to every setting file variant.
type Header struct {
	Brand    [32]byte
	Software [32]byte
	Unknown1 [12]byte
	Filename [24]byte
	Unknown2 [4]byte
}

// FilenameString returns the NUL-trimmed filename field, the tag used to
// dispatch which payload variant follows (spec §3.1).
func (h *Header) FilenameString() string {
	return trimNUL(h.Filename[:])
}

func trimNUL(b []byte) string {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		return string(b)
	}
	return string(b[:n])
}

func readHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	if err := bin.ReadFixed(r, h.Brand[:]); err != nil {
		return nil, rberr.NewStructural(0, "failed to read setting brand", err)
	}
	if err := bin.ReadFixed(r, h.Software[:]); err != nil {
		return nil, rberr.NewStructural(0, "failed to read setting software", err)
	}
	if err := bin.ReadFixed(r, h.Unknown1[:]); err != nil {
		return nil, rberr.NewStructural(0, "failed to read setting header unknown1", err)
	}
	if err := bin.ReadFixed(r, h.Filename[:]); err != nil {
		return nil, rberr.NewStructural(0, "failed to read setting filename", err)
	}
	if err := bin.ReadFixed(r, h.Unknown2[:]); err != nil {
		return nil, rberr.NewStructural(0, "failed to read setting header unknown2", err)
	}
	return h, nil
}

func writeHeader(w io.Writer, h *Header) error {
	return binary.Write(w, binary.LittleEndian, h)
}
