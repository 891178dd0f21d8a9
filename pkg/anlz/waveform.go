package anlz

import (
	"encoding/binary"

	"github.com/rbtoolkit/rbdb/pkg/common"
)

// colorOrder is little-endian: the two color waveform variants (PWV4,
// PWV5) are the one place in the analysis file format where multi-byte
// payload scalars are not big-endian (spec §4.4.5, §6.1).
var colorOrder = binary.LittleEndian

// WaveformPreview is the decoded PWAV section: one column height byte per
// sample, at a fixed resolution independent of track length.
type WaveformPreview struct {
	Heights []uint8
}

func decodeWaveformPreview(body []byte) (*WaveformPreview, error) {
	return &WaveformPreview{Heights: append([]uint8(nil), body...)}, nil
}

// Encode returns the column heights unchanged.
func (w *WaveformPreview) Encode() ([]byte, error) {
	return append([]byte(nil), w.Heights...), nil
}

// TinyWaveformPreview is the decoded PWV2 section: two nibble-packed
// column heights per byte, used by devices with small displays.
type TinyWaveformPreview struct {
	Heights []uint8 // one value 0-15 per column, unpacked
}

func decodeTinyWaveformPreview(body []byte) (*TinyWaveformPreview, error) {
	heights := make([]uint8, 0, len(body)*2)
	for _, b := range body {
		heights = append(heights, b>>4, b&0x0f)
	}
	return &TinyWaveformPreview{Heights: heights}, nil
}

// Encode repacks two nibble heights per output byte.
func (w *TinyWaveformPreview) Encode() ([]byte, error) {
	if len(w.Heights)%2 != 0 {
		return nil, common.FormatError("tiny waveform", "odd column count cannot be nibble-packed")
	}
	out := make([]byte, len(w.Heights)/2)
	for i := range out {
		hi := w.Heights[2*i] & 0x0f
		lo := w.Heights[2*i+1] & 0x0f
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// WaveformColumn is one column of the full-resolution monochrome detail
// waveform: a height (0-31) and a whiteness/intensity value (0-7) packed
// into a single byte.
type WaveformColumn struct {
	Height    uint8
	Whiteness uint8
}

// WaveformDetail is the decoded PWV3 section.
type WaveformDetail struct {
	Columns []WaveformColumn
}

func decodeWaveformDetail(body []byte) (*WaveformDetail, error) {
	cols := make([]WaveformColumn, len(body))
	for i, b := range body {
		cols[i] = WaveformColumn{Height: b & 0x1f, Whiteness: (b >> 5) & 0x07}
	}
	return &WaveformDetail{Columns: cols}, nil
}

// Encode repacks each column back into one byte.
func (w *WaveformDetail) Encode() ([]byte, error) {
	out := make([]byte, len(w.Columns))
	for i, c := range w.Columns {
		out[i] = (c.Height & 0x1f) | ((c.Whiteness & 0x07) << 5)
	}
	return out, nil
}

// ColorWaveformPreview is the decoded PWV4 section: one packed RGB
// intensity value per column, stored as a little-endian uint16.
type ColorWaveformPreview struct {
	Columns []uint16
}

func decodeColorWaveformPreview(body []byte) (*ColorWaveformPreview, error) {
	cols, err := decodeU16Columns(body)
	if err != nil {
		return nil, err
	}
	return &ColorWaveformPreview{Columns: cols}, nil
}

// Encode serializes the packed color columns.
func (w *ColorWaveformPreview) Encode() ([]byte, error) {
	return encodeU16Columns(w.Columns), nil
}

// ColorWaveformDetail is the decoded PWV5 section: per-column red, green,
// blue and height, each a little-endian uint16 (spec §4.4.5).
type ColorWaveformDetail struct {
	Red, Green, Blue, Height []uint16
}

func decodeColorWaveformDetail(body []byte) (*ColorWaveformDetail, error) {
	if len(body)%8 != 0 {
		return nil, common.FormatError("color waveform detail", "body length not a multiple of 8")
	}
	n := len(body) / 8
	d := &ColorWaveformDetail{
		Red:    make([]uint16, n),
		Green:  make([]uint16, n),
		Blue:   make([]uint16, n),
		Height: make([]uint16, n),
	}
	for i := 0; i < n; i++ {
		off := i * 8
		d.Red[i] = colorOrder.Uint16(body[off:])
		d.Green[i] = colorOrder.Uint16(body[off+2:])
		d.Blue[i] = colorOrder.Uint16(body[off+4:])
		d.Height[i] = colorOrder.Uint16(body[off+6:])
	}
	return d, nil
}

// Encode interleaves the four channel arrays back into columns.
func (d *ColorWaveformDetail) Encode() ([]byte, error) {
	n := len(d.Red)
	if len(d.Green) != n || len(d.Blue) != n || len(d.Height) != n {
		return nil, common.FormatError("color waveform detail", "channel arrays have mismatched lengths")
	}
	out := make([]byte, n*8)
	for i := 0; i < n; i++ {
		off := i * 8
		colorOrder.PutUint16(out[off:], d.Red[i])
		colorOrder.PutUint16(out[off+2:], d.Green[i])
		colorOrder.PutUint16(out[off+4:], d.Blue[i])
		colorOrder.PutUint16(out[off+6:], d.Height[i])
	}
	return out, nil
}

func decodeU16Columns(body []byte) ([]uint16, error) {
	if len(body)%2 != 0 {
		return nil, common.FormatError("waveform columns", "body length not a multiple of 2")
	}
	cols := make([]uint16, len(body)/2)
	for i := range cols {
		cols[i] = colorOrder.Uint16(body[2*i:])
	}
	return cols, nil
}

func encodeU16Columns(cols []uint16) []byte {
	out := make([]byte, len(cols)*2)
	for i, v := range cols {
		colorOrder.PutUint16(out[2*i:], v)
	}
	return out
}
