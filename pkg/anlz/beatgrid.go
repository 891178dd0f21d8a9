package anlz

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// Beat is one entry of a PQTZ beat grid: its position within the bar
// (1-4), the tempo in effect at that beat (BPM * 100), and its timestamp
// in milliseconds from the start of the track (spec §4.4.1).
type Beat struct {
	BeatNumber uint16
	Tempo      uint16
	Timestamp  uint32
}

// BeatGrid is the decoded PQTZ section payload.
type BeatGrid struct {
	Beats []Beat
}

func decodeBeatGrid(body []byte) (*BeatGrid, error) {
	r := bytes.NewReader(body)
	count, err := bin.ReadU32(r, order)
	if err != nil {
		return nil, common.FormatError("failed to read beat count", err)
	}
	beats := make([]Beat, 0, count)
	for i := uint32(0); i < count; i++ {
		num, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read beat record", err)
		}
		tempo, err := bin.ReadU16(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read beat record", err)
		}
		ts, err := bin.ReadU32(r, order)
		if err != nil {
			return nil, common.FormatError("failed to read beat record", err)
		}
		beats = append(beats, Beat{BeatNumber: num, Tempo: tempo, Timestamp: ts})
	}
	return &BeatGrid{Beats: beats}, nil
}

// Encode serializes the beat grid, recomputing the count from len(Beats).
func (g *BeatGrid) Encode() ([]byte, error) {
	var buf bytes.Buffer
	count, err := common.SafeIntToUint32(len(g.Beats))
	if err != nil {
		return nil, err
	}
	if err := bin.WriteU32(&buf, order, count); err != nil {
		return nil, err
	}
	for _, b := range g.Beats {
		if err := bin.WriteU16(&buf, order, b.BeatNumber); err != nil {
			return nil, err
		}
		if err := bin.WriteU16(&buf, order, b.Tempo); err != nil {
			return nil, err
		}
		if err := bin.WriteU32(&buf, order, b.Timestamp); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
