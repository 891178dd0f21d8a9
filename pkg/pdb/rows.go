package pdb

import (
	"bytes"
	"encoding/binary"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/offsetrow"
	"github.com/rbtoolkit/rbdb/pkg/common"
	"github.com/rbtoolkit/rbdb/pkg/devicesql"
)

var rowOrder = binary.LittleEndian

// Row is implemented by every PDB row variant, including UnknownRow for
// page types this codec does not recognize (spec §4.5).
type Row interface {
	// Encode returns the row's content bytes (fixed fields plus any
	// variable-length tail), not including the padding that follows it in
	// the heap, which the page codec writes separately (the gap captured
	// on decode, or 4-byte alignment for a row built by hand).
	Encode() ([]byte, error)
}

// UnknownRow preserves the bytes of a row belonging to an unrecognized
// page type.
type UnknownRow struct {
	Raw []byte
}

// Encode returns the preserved bytes unchanged.
func (r *UnknownRow) Encode() ([]byte, error) {
	return append([]byte(nil), r.Raw...), nil
}

// ArtistSubtype distinguishes the Artist row's short and long name forms
// (spec §3.3 "Artist").
type ArtistSubtype uint8

// Documented artist subtypes.
const (
	ArtistSubtypeShort ArtistSubtype = 0x60
	ArtistSubtypeLong  ArtistSubtype = 0x64
)

// AlbumRow is the decoded Album row.
type AlbumRow struct {
	ID         uint32
	Unknown1   uint32
	ArtistID   uint32
	AlbumArtID uint32
	Unknown2   uint32
	Name       *devicesql.String
}

const albumFixedSize = 4*5 + 2 + 2 // five u32 fields, a u16 offset, two bytes of pad

func decodeAlbumRow(row []byte) (*AlbumRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	unk1, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	artistID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	albumArtID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	unk2, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil { // pad
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &AlbumRow{ID: id, Unknown1: unk1, ArtistID: artistID, AlbumArtID: albumArtID, Unknown2: unk2, Name: name}, nil
}

// Encode serializes the album row, recomputing the name offset.
func (a *AlbumRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(albumFixedSize)
	nameOffset, err := tail.Append(a.Name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, a.ID)
	bin.WriteU32(&buf, rowOrder, a.Unknown1)
	bin.WriteU32(&buf, rowOrder, a.ArtistID)
	bin.WriteU32(&buf, rowOrder, a.AlbumArtID)
	bin.WriteU32(&buf, rowOrder, a.Unknown2)
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// ArtistRow is the decoded Artist row. ExtendedName is nil for the short
// subtype.
type ArtistRow struct {
	ID           uint32
	Subtype      ArtistSubtype
	Name         *devicesql.String
	ExtendedName *devicesql.String
}

const artistFixedSize = 4 + 1 + 3 + 2 + 2

func decodeArtistRow(row []byte) (*ArtistRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	subtype, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadBytes(r, 3); err != nil { // pad
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	extOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	a := &ArtistRow{ID: id, Subtype: ArtistSubtype(subtype), Name: name}
	if ArtistSubtype(subtype) == ArtistSubtypeLong && extOffset != 0 {
		ext, err := offsetrow.ReadStringAt(row, extOffset)
		if err != nil {
			return nil, err
		}
		a.ExtendedName = ext
	}
	return a, nil
}

// Encode serializes the artist row, recomputing both offsets.
func (a *ArtistRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(artistFixedSize)
	nameOffset, err := tail.Append(a.Name)
	if err != nil {
		return nil, err
	}
	var extOffset uint16
	if a.ExtendedName != nil {
		extOffset, err = tail.Append(a.ExtendedName)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, a.ID)
	bin.WriteU8(&buf, uint8(a.Subtype))
	buf.Write(make([]byte, 3))
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, extOffset)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// ArtworkRow is the decoded Artwork row: an id and the absolute path of
// the cached artwork image file.
type ArtworkRow struct {
	ID   uint32
	Path *devicesql.String
}

const artworkFixedSize = 4 + 2 + 2

func decodeArtworkRow(row []byte) (*ArtworkRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	pathOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	path, err := offsetrow.ReadStringAt(row, pathOffset)
	if err != nil {
		return nil, err
	}
	return &ArtworkRow{ID: id, Path: path}, nil
}

// Encode serializes the artwork row.
func (a *ArtworkRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(artworkFixedSize)
	pathOffset, err := tail.Append(a.Path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, a.ID)
	bin.WriteU16(&buf, rowOrder, pathOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// ColorRow is the decoded Color row.
type ColorRow struct {
	Code     common.ColorIndex
	Unknown  [3]byte
	ID       uint32
	Name     *devicesql.String
}

const colorFixedSize = 1 + 3 + 4 + 2 + 2

func decodeColorRow(row []byte) (*ColorRow, error) {
	r := bytes.NewReader(row)
	code, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	var unk [3]byte
	if err := bin.ReadFixed(r, unk[:]); err != nil {
		return nil, err
	}
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &ColorRow{Code: common.ColorIndex(code), Unknown: unk, ID: id, Name: name}, nil
}

// Encode serializes the color row.
func (c *ColorRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(colorFixedSize)
	nameOffset, err := tail.Append(c.Name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	bin.WriteU8(&buf, uint8(c.Code))
	buf.Write(c.Unknown[:])
	bin.WriteU32(&buf, rowOrder, c.ID)
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// NamedRow is the shape shared by Genre, Label and History-Playlist rows:
// a numeric id plus a single DeviceSQL name.
type NamedRow struct {
	ID   uint32
	Name *devicesql.String
}

const namedRowFixedSize = 4 + 2 + 2

func decodeNamedRow(row []byte) (*NamedRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &NamedRow{ID: id, Name: name}, nil
}

// Encode serializes the named row.
func (n *NamedRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(namedRowFixedSize)
	nameOffset, err := tail.Append(n.Name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, n.ID)
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// KeyRow is the decoded musical-Key row: an id, its display name, and the
// ordering number rekordbox uses to sort the circle-of-fifths picker.
type KeyRow struct {
	ID              uint32
	OrderingNumber  uint32
	Name            *devicesql.String
}

const keyFixedSize = 4 + 4 + 2 + 2

func decodeKeyRow(row []byte) (*KeyRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	ordering, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &KeyRow{ID: id, OrderingNumber: ordering, Name: name}, nil
}

// Encode serializes the key row.
func (k *KeyRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(keyFixedSize)
	nameOffset, err := tail.Append(k.Name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, k.ID)
	bin.WriteU32(&buf, rowOrder, k.OrderingNumber)
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// HistoryEntryRow is the decoded History Entry row: all scalar, no
// variable-length tail.
type HistoryEntryRow struct {
	TrackID    uint32
	PlaylistID uint32
	EntryIndex uint32
}

const historyEntryRowSize = 12

func decodeHistoryEntryRow(row []byte) (*HistoryEntryRow, error) {
	r := bytes.NewReader(row)
	trackID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	playlistID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	entryIndex, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	return &HistoryEntryRow{TrackID: trackID, PlaylistID: playlistID, EntryIndex: entryIndex}, nil
}

// Encode serializes the history entry row.
func (h *HistoryEntryRow) Encode() ([]byte, error) {
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, h.TrackID)
	bin.WriteU32(&buf, rowOrder, h.PlaylistID)
	bin.WriteU32(&buf, rowOrder, h.EntryIndex)
	return buf.Bytes(), nil
}

// PlaylistTreeNodeRow is the decoded Playlist Tree Node row: a node in
// the playlist folder hierarchy.
type PlaylistTreeNodeRow struct {
	ParentID  uint32
	Unknown   uint32
	SortOrder uint32
	ID        uint32
	IsFolder  bool
	Name      *devicesql.String
}

const playlistTreeNodeFixedSize = 4 + 4 + 4 + 4 + 1 + 3 + 2 + 2

func decodePlaylistTreeNodeRow(row []byte) (*PlaylistTreeNodeRow, error) {
	r := bytes.NewReader(row)
	parentID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	unknown, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	sortOrder, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	flags, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadBytes(r, 3); err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &PlaylistTreeNodeRow{
		ParentID:  parentID,
		Unknown:   unknown,
		SortOrder: sortOrder,
		ID:        id,
		IsFolder:  flags&0x01 != 0,
		Name:      name,
	}, nil
}

// Encode serializes the playlist tree node row.
func (p *PlaylistTreeNodeRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(playlistTreeNodeFixedSize)
	nameOffset, err := tail.Append(p.Name)
	if err != nil {
		return nil, err
	}
	var flags uint8
	if p.IsFolder {
		flags |= 0x01
	}
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, p.ParentID)
	bin.WriteU32(&buf, rowOrder, p.Unknown)
	bin.WriteU32(&buf, rowOrder, p.SortOrder)
	bin.WriteU32(&buf, rowOrder, p.ID)
	bin.WriteU8(&buf, flags)
	buf.Write(make([]byte, 3))
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// PlaylistEntryRow is the decoded Playlist Entry row: all scalar.
type PlaylistEntryRow struct {
	EntryIndex uint32
	TrackID    uint32
	PlaylistID uint32
}

func decodePlaylistEntryRow(row []byte) (*PlaylistEntryRow, error) {
	r := bytes.NewReader(row)
	entryIndex, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	trackID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	playlistID, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	return &PlaylistEntryRow{EntryIndex: entryIndex, TrackID: trackID, PlaylistID: playlistID}, nil
}

// Encode serializes the playlist entry row.
func (p *PlaylistEntryRow) Encode() ([]byte, error) {
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, p.EntryIndex)
	bin.WriteU32(&buf, rowOrder, p.TrackID)
	bin.WriteU32(&buf, rowOrder, p.PlaylistID)
	return buf.Bytes(), nil
}

// ColumnsEntryRow is the decoded Columns row: a numeric column id and its
// DeviceSQL display name, used by rekordbox's customizable track list.
type ColumnsEntryRow struct {
	ID   uint32
	Name *devicesql.String
}

const columnsEntryFixedSize = 4 + 2 + 2

func decodeColumnsEntryRow(row []byte) (*ColumnsEntryRow, error) {
	r := bytes.NewReader(row)
	id, err := bin.ReadU32(r, rowOrder)
	if err != nil {
		return nil, err
	}
	nameOffset, err := bin.ReadU16(r, rowOrder)
	if err != nil {
		return nil, err
	}
	if _, err := bin.ReadU16(r, rowOrder); err != nil {
		return nil, err
	}
	name, err := offsetrow.ReadStringAt(row, nameOffset)
	if err != nil {
		return nil, err
	}
	return &ColumnsEntryRow{ID: id, Name: name}, nil
}

// Encode serializes the columns entry row.
func (c *ColumnsEntryRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(columnsEntryFixedSize)
	nameOffset, err := tail.Append(c.Name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	bin.WriteU32(&buf, rowOrder, c.ID)
	bin.WriteU16(&buf, rowOrder, nameOffset)
	bin.WriteU16(&buf, rowOrder, 0)
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}

// decodeRow dispatches by page type to the matching row decoder (spec
// §4.5). Page types this codec does not recognize decode to UnknownRow.
func decodeRow(pageType PageType, row []byte) (Row, error) {
	switch pageType {
	case PageTypeAlbums:
		return decodeAlbumRow(row)
	case PageTypeArtists:
		return decodeArtistRow(row)
	case PageTypeArtwork:
		return decodeArtworkRow(row)
	case PageTypeColors:
		return decodeColorRow(row)
	case PageTypeGenres, PageTypeLabels, PageTypeHistoryPlaylists:
		return decodeNamedRow(row)
	case PageTypeKeys:
		return decodeKeyRow(row)
	case PageTypeHistoryEntries:
		return decodeHistoryEntryRow(row)
	case PageTypePlaylistTree:
		return decodePlaylistTreeNodeRow(row)
	case PageTypePlaylistEntries:
		return decodePlaylistEntryRow(row)
	case PageTypeColumns:
		return decodeColumnsEntryRow(row)
	case PageTypeTracks:
		return decodeTrackRow(row)
	default:
		return &UnknownRow{Raw: append([]byte(nil), row...)}, nil
	}
}
