// Package pdb implements the codec for Rekordbox's paged library database,
// export.pdb: a fixed-size-page container whose tables are linked lists of
// pages, each page holding a forward-growing row heap and a backward-
// growing row index (spec §3.3, §4.4).
//
// Grounded on the teacher's psx/cdreader.go CDReader: SeekToSector's
// bounds-checked sector arithmetic and ReadPathTable's manual
// little-endian field extraction generalize here to page-index arithmetic
// and row-group/row field extraction, since both are "fixed-size blocks
// addressed by index, containing packed binary records" problems.
package pdb

import (
	"bytes"
	"io"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/rberr"
	"github.com/rbtoolkit/rbdb/pkg/common"
)

const headerZeroPrefixSize = 4

// tableDescriptorSize is the fixed byte size of one TableDescriptor.
const tableDescriptorSize = 16

// Header is the fixed-size file header, followed immediately by
// TableCount table descriptors (spec §3.3 "Header").
type Header struct {
	PageSize       uint32
	TableCount     uint32
	NextUnusedPage uint32
	Unknown1       uint32
	Sequence       uint32
	Unknown2       uint32
}

// TableDescriptor names a table's page type and the head/tail of its
// page chain (spec §3.3 "Table descriptor").
type TableDescriptor struct {
	PageType       PageType
	EmptyCandidate uint32
	FirstPage      uint32
	LastPage       uint32
}

// Table is a fully decoded table: its descriptor plus every page in its
// chain, in traversal order.
type Table struct {
	Descriptor TableDescriptor
	Pages      []*Page
}

// File is a fully decoded export.pdb (or export.ext.pdb) database.
type File struct {
	Header Header
	Tables []Table
}

// Decode reads a complete PDB file. Pages are addressed by index, so the
// whole of r is read into memory first and handed to DecodeBytes; r
// itself need not support random access.
func Decode(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	return DecodeBytes(raw)
}

// DecodeBytes decodes a complete PDB file already held in memory, which
// is how every caller in practice obtains it: page traversal requires
// random access, so streaming decode offers no benefit here.
func DecodeBytes(raw []byte) (*File, error) {
	br := bytes.NewReader(raw)
	if _, err := bin.ReadBytes(br, headerZeroPrefixSize); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}

	h := Header{}
	var err error
	if h.PageSize, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.TableCount, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.NextUnusedPage, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.Unknown1, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.Sequence, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.Unknown2, err = bin.ReadU32(br, rowOrder); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadHeader, err)
	}
	if h.PageSize == 0 {
		return nil, rberr.NewStructural(0, "pdb page size is zero", nil)
	}

	descriptors := make([]TableDescriptor, h.TableCount)
	for i := range descriptors {
		var pageType, emptyCandidate, first, last uint32
		if pageType, err = bin.ReadU32(br, rowOrder); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadHeader, err)
		}
		if emptyCandidate, err = bin.ReadU32(br, rowOrder); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadHeader, err)
		}
		if first, err = bin.ReadU32(br, rowOrder); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadHeader, err)
		}
		if last, err = bin.ReadU32(br, rowOrder); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadHeader, err)
		}
		descriptors[i] = TableDescriptor{
			PageType:       PageType(pageType),
			EmptyCandidate: emptyCandidate,
			FirstPage:      first,
			LastPage:       last,
		}
	}

	maxSteps := len(raw) / int(h.PageSize)
	tables := make([]Table, len(descriptors))
	for i, desc := range descriptors {
		pages, err := readPageChain(raw, int(h.PageSize), desc, maxSteps)
		if err != nil {
			return nil, err
		}
		tables[i] = Table{Descriptor: desc, Pages: pages}
	}

	return &File{Header: h, Tables: tables}, nil
}

// readPageChain walks a table's page chain starting at FirstPage until
// NextPage repeats LastPage, bounding the walk to maxSteps to guard
// against a cyclic chain (spec §4.6, §8 "Page-chain termination").
func readPageChain(raw []byte, pageSize int, desc TableDescriptor, maxSteps int) ([]*Page, error) {
	var pages []*Page
	current := desc.FirstPage
	for step := 0; ; step++ {
		if step > maxSteps {
			return nil, rberr.NewStructural(int64(current)*int64(pageSize), common.ErrPageChainCycle, nil)
		}
		start := int(current) * pageSize
		if start < 0 || start+pageSize > len(raw) {
			return nil, rberr.NewStructural(int64(start), common.ErrTruncatedInput, nil)
		}
		page, err := decodePage(raw[start:start+pageSize], desc.PageType)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		if current == desc.LastPage {
			break
		}
		current = page.Header.NextPage
	}
	return pages, nil
}

// Encode serializes f. Every length and offset is recomputed from the
// current tree rather than trusted from parse time.
func (f *File) Encode(w io.Writer) error {
	tableCount, err := common.SafeIntToUint32(len(f.Tables))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, headerZeroPrefixSize))
	bin.WriteU32(&buf, rowOrder, f.Header.PageSize)
	bin.WriteU32(&buf, rowOrder, tableCount)
	bin.WriteU32(&buf, rowOrder, f.Header.NextUnusedPage)
	bin.WriteU32(&buf, rowOrder, f.Header.Unknown1)
	bin.WriteU32(&buf, rowOrder, f.Header.Sequence)
	bin.WriteU32(&buf, rowOrder, f.Header.Unknown2)

	for _, t := range f.Tables {
		bin.WriteU32(&buf, rowOrder, uint32(t.Descriptor.PageType))
		bin.WriteU32(&buf, rowOrder, t.Descriptor.EmptyCandidate)
		bin.WriteU32(&buf, rowOrder, t.Descriptor.FirstPage)
		bin.WriteU32(&buf, rowOrder, t.Descriptor.LastPage)
	}

	pageSize := int(f.Header.PageSize)
	headerBytes := buf.Bytes()
	if len(headerBytes) > pageSize {
		return common.FormatError(common.ErrFailedToWriteHeader, "header and table descriptors exceed one page")
	}

	out := make([]byte, len(headerBytes))
	copy(out, headerBytes)
	out = append(out, make([]byte, pageSize-len(headerBytes))...)

	pageBytes := make(map[uint32][]byte)
	for _, t := range f.Tables {
		for _, p := range t.Pages {
			encoded, err := p.encode(pageSize)
			if err != nil {
				return err
			}
			pageBytes[p.Header.PageIndex] = encoded
		}
	}

	maxIndex := uint32(0)
	for idx := range pageBytes {
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	full := make([]byte, int(maxIndex+1)*pageSize)
	copy(full[:pageSize], out)
	for idx, encoded := range pageBytes {
		off := int(idx) * pageSize
		copy(full[off:off+pageSize], encoded)
	}

	_, err = w.Write(full)
	if err != nil {
		return common.FormatError("failed to write pdb body", err)
	}
	return nil
}
