package pdb

import (
	"bytes"
	"sort"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

// pageHeaderSize is the fixed byte size of PageHeader (spec §3.3 "Page").
const pageHeaderSize = 36

// rowGroupSize is the fixed byte size of one backward-growing row group
// (spec glossary "Row group"): 16 two-byte row offsets, a 16-bit presence
// bitmask, and 2 reserved trailing bytes preserved verbatim.
const rowGroupSize = 36
const rowsPerGroup = 16

// PageFlagInvalid marks a page that should be skipped for row parsing but
// still traversed for its next_page link (spec §4.4 "Invalid pages").
const PageFlagInvalid = 0x01

// PageHeader is the fixed-size header at the start of every page.
type PageHeader struct {
	PageIndex    uint32
	PageType     uint32
	NextPage     uint32
	Unknown1     uint32
	NumRowsSmall uint8
	Unknown2     uint8
	Unknown3     uint8
	Flags        uint8
	FreeSpace    uint16
	HeapUsed     uint16
	Unknown4     uint16
	NumRowsLarge uint16
	Unknown5     uint32
	Padding      [4]byte
}

func decodePageHeader(r *bytes.Reader) (*PageHeader, error) {
	h := &PageHeader{}
	var err error
	if h.PageIndex, err = bin.ReadU32(r, rowOrder); err != nil {
		return nil, err
	}
	if h.PageType, err = bin.ReadU32(r, rowOrder); err != nil {
		return nil, err
	}
	if h.NextPage, err = bin.ReadU32(r, rowOrder); err != nil {
		return nil, err
	}
	if h.Unknown1, err = bin.ReadU32(r, rowOrder); err != nil {
		return nil, err
	}
	if h.NumRowsSmall, err = bin.ReadU8(r); err != nil {
		return nil, err
	}
	if h.Unknown2, err = bin.ReadU8(r); err != nil {
		return nil, err
	}
	if h.Unknown3, err = bin.ReadU8(r); err != nil {
		return nil, err
	}
	if h.Flags, err = bin.ReadU8(r); err != nil {
		return nil, err
	}
	if h.FreeSpace, err = bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	if h.HeapUsed, err = bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	if h.Unknown4, err = bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	if h.NumRowsLarge, err = bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	if h.Unknown5, err = bin.ReadU32(r, rowOrder); err != nil {
		return nil, err
	}
	if err := bin.ReadFixed(r, h.Padding[:]); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *PageHeader) encode(buf *bytes.Buffer) {
	bin.WriteU32(buf, rowOrder, h.PageIndex)
	bin.WriteU32(buf, rowOrder, h.PageType)
	bin.WriteU32(buf, rowOrder, h.NextPage)
	bin.WriteU32(buf, rowOrder, h.Unknown1)
	bin.WriteU8(buf, h.NumRowsSmall)
	bin.WriteU8(buf, h.Unknown2)
	bin.WriteU8(buf, h.Unknown3)
	bin.WriteU8(buf, h.Flags)
	bin.WriteU16(buf, rowOrder, h.FreeSpace)
	bin.WriteU16(buf, rowOrder, h.HeapUsed)
	bin.WriteU16(buf, rowOrder, h.Unknown4)
	bin.WriteU16(buf, rowOrder, h.NumRowsLarge)
	bin.WriteU32(buf, rowOrder, h.Unknown5)
	buf.Write(h.Padding[:])
}

// effectiveRowCount applies the documented "max, with 16-bit preferred
// when non-zero" rule (spec §9 "Open questions").
func effectiveRowCount(small uint8, large uint16) int {
	if large == 0 {
		return int(small)
	}
	if int(large) >= int(small) {
		return int(large)
	}
	return int(small)
}

// RowSlot is one entry of a page's row index: a presence bit and the
// byte offset (from the start of the heap) of the row it names. Offset
// is preserved verbatim for absent slots even though no row is read from
// it (spec §4.4 "Row groups").
type RowSlot struct {
	Present bool
	Offset  uint16
	Row     Row

	// Pad holds the bytes observed between this row's content and the
	// next row in heap order, captured verbatim rather than recomputed
	// from a uniform alignment rule (spec §9 "Open questions"). Empty for
	// the row with the highest offset, whose trailing bytes belong to
	// Page.HeapTrailer instead.
	Pad []byte
}

// Page is a single decoded page of a table's chain.
type Page struct {
	Header PageHeader
	Valid  bool

	// Present only when Valid is true.
	Slots        []RowSlot
	GroupTrailer [][2]byte

	// HeapTrailer holds the unused heap bytes between the end of the
	// last row in heap order (or the start of the heap, if no row is
	// present) and the row-groups region, preserved verbatim.
	HeapTrailer []byte

	// Present only when Valid is false: the page's bytes, preserved so
	// that traversal can still read NextPage while round-tripping the
	// page body unchanged (spec §4.4 "Invalid pages").
	Raw []byte
}

// decodePage parses one page-sized slice. tablePageType is the page type
// declared by the owning table descriptor; a page whose own header
// disagrees, or whose flags mark it invalid, is decoded as an invalid
// page whose rows are not parsed.
func decodePage(pageBytes []byte, tablePageType PageType) (*Page, error) {
	r := bytes.NewReader(pageBytes)
	header, err := decodePageHeader(r)
	if err != nil {
		return nil, err
	}

	if header.Flags&PageFlagInvalid != 0 || PageType(header.PageType) != tablePageType {
		return &Page{Header: *header, Valid: false, Raw: append([]byte(nil), pageBytes...)}, nil
	}

	count := effectiveRowCount(header.NumRowsSmall, header.NumRowsLarge)
	groupCount := (count + rowsPerGroup - 1) / rowsPerGroup

	slots := make([]RowSlot, groupCount*rowsPerGroup)
	trailers := make([][2]byte, groupCount)

	groupsStart := len(pageBytes)
	for g := 0; g < groupCount; g++ {
		groupOffset := len(pageBytes) - (g+1)*rowGroupSize
		if groupOffset < pageHeaderSize {
			return nil, common.FormatError(common.ErrFailedToReadPage, "row group overlaps page header")
		}
		gr := bytes.NewReader(pageBytes[groupOffset : groupOffset+rowGroupSize])
		offsets := make([]uint16, rowsPerGroup)
		for s := 0; s < rowsPerGroup; s++ {
			offsets[s], err = bin.ReadU16(gr, rowOrder)
			if err != nil {
				return nil, err
			}
		}
		bitmask, err := bin.ReadU16(gr, rowOrder)
		if err != nil {
			return nil, err
		}
		var trailer [2]byte
		if err := bin.ReadFixed(gr, trailer[:]); err != nil {
			return nil, err
		}
		trailers[g] = trailer

		for s := 0; s < rowsPerGroup; s++ {
			slots[g*rowsPerGroup+s] = RowSlot{
				Present: bitmask&(1<<uint(s)) != 0,
				Offset:  offsets[s],
			}
		}
		if groupOffset < groupsStart {
			groupsStart = groupOffset
		}
	}

	heapStart := pageHeaderSize

	// Rows are decoded in heap-offset order so that the gap between one
	// row's content and the next can be captured verbatim instead of
	// assumed to be uniform alignment padding.
	var present []int
	for i := range slots {
		if slots[i].Present {
			present = append(present, i)
		}
	}
	sort.Slice(present, func(a, b int) bool {
		return slots[present[a]].Offset < slots[present[b]].Offset
	})

	var heapTrailer []byte
	if len(present) == 0 {
		var err error
		heapTrailer, err = bin.ReadPad(bytes.NewReader(pageBytes[heapStart:groupsStart]), groupsStart-heapStart)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadRow, err)
		}
	}

	for i, idx := range present {
		rowStart := heapStart + int(slots[idx].Offset)
		if rowStart > groupsStart {
			return nil, common.FormatError(common.ErrFailedToReadRow, "row offset falls outside the page heap")
		}
		rowEnd := groupsStart
		if i+1 < len(present) {
			rowEnd = heapStart + int(slots[present[i+1]].Offset)
		}
		row, err := decodeRow(tablePageType, pageBytes[rowStart:rowEnd])
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadRow, err)
		}
		slots[idx].Row = row

		content, err := row.Encode()
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadRow, err)
		}
		gapLen := rowEnd - rowStart - len(content)
		if gapLen < 0 {
			return nil, common.FormatError(common.ErrFailedToReadRow, "decoded row content exceeds its row boundary")
		}
		gap, err := bin.ReadPad(bytes.NewReader(pageBytes[rowStart+len(content):rowEnd]), gapLen)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadRow, err)
		}
		if i+1 < len(present) {
			slots[idx].Pad = gap
		} else {
			heapTrailer = gap
		}
	}

	return &Page{Header: *header, Valid: true, Slots: slots, GroupTrailer: trailers, HeapTrailer: heapTrailer}, nil
}

// encode serializes the page back to pageSize bytes, recomputing every
// present row's heap offset from its freshly serialized content. Absent
// slots keep their originally observed offset unchanged.
func (p *Page) encode(pageSize int) ([]byte, error) {
	if !p.Valid {
		out := make([]byte, len(p.Raw))
		copy(out, p.Raw)
		return out, nil
	}

	var heap bytes.Buffer
	newOffsets := make([]uint16, len(p.Slots))
	for i, slot := range p.Slots {
		if !slot.Present {
			newOffsets[i] = slot.Offset
			continue
		}
		content, err := slot.Row.Encode()
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToWriteRow, err)
		}
		offset := heap.Len()
		if err := bin.CheckOffset("row heap offset", int64(offset), 16); err != nil {
			return nil, err
		}
		newOffsets[i] = uint16(offset)
		heap.Write(content)
		padLen := bin.AlignUp(len(content), 4) - len(content)
		if slot.Pad == nil && p.HeapTrailer != nil {
			// Decoded page: no gap was captured after this row (it was
			// empty, or this row is last in heap order and HeapTrailer
			// carries the gap).
			padLen = 0
		}
		if err := bin.WritePad(&heap, bin.PadOrZero(slot.Pad, padLen)); err != nil {
			return nil, common.FormatError(common.ErrFailedToWritePage, err)
		}
	}

	var out bytes.Buffer
	p.Header.encode(&out)
	out.Write(heap.Bytes())

	groupCount := len(p.Slots) / rowsPerGroup
	heapEnd := out.Len()
	expectedGap := pageSize - heapEnd - groupCount*rowGroupSize
	if expectedGap < 0 {
		return nil, common.FormatError(common.ErrFailedToWritePage, "row heap overflows page size")
	}
	if err := bin.WritePad(&out, bin.PadOrZero(p.HeapTrailer, expectedGap)); err != nil {
		return nil, common.FormatError(common.ErrFailedToWritePage, err)
	}

	for g := 0; g < groupCount; g++ {
		var bitmask uint16
		for s := 0; s < rowsPerGroup; s++ {
			idx := g*rowsPerGroup + s
			bin.WriteU16(&out, rowOrder, newOffsets[idx])
			if p.Slots[idx].Present {
				bitmask |= 1 << uint(s)
			}
		}
		bin.WriteU16(&out, rowOrder, bitmask)
		out.Write(p.GroupTrailer[g][:])
	}

	if out.Len() != pageSize {
		return nil, common.FormatError(common.ErrFailedToWritePage, "encoded page length does not match declared page size")
	}
	return out.Bytes(), nil
}
