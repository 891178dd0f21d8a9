package pdb

import (
	"bytes"

	"github.com/rbtoolkit/rbdb/internal/bin"
	"github.com/rbtoolkit/rbdb/internal/offsetrow"
	"github.com/rbtoolkit/rbdb/pkg/common"
	"github.com/rbtoolkit/rbdb/pkg/devicesql"
)

// TrackRow is the decoded Track row: the largest row kind, combining a
// run of scalar fields with foreign keys into the other tables and a set
// of offset-referenced variable-length text fields (spec §3.3 "Track").
type TrackRow struct {
	ID         uint32
	BitRate    uint32
	SampleRate uint32
	SampleDepth uint32
	Duration   uint32 // seconds
	TrackNumber uint32
	DiscNumber  uint32
	PlayCount   uint32
	Year        uint32
	Tempo       uint32 // BPM * 100
	ArtistID    uint32
	AlbumID     uint32
	GenreID     uint32
	KeyID       uint32
	LabelID     uint32
	OriginalArtistID uint32
	RemixerID        uint32
	ComposerID       uint32
	ArrangerID       uint32
	ArtworkID        uint32
	FileSize         uint32

	Rating    uint8
	ColorID   common.ColorIndex
	TrackType uint8
	Unknown1  uint8

	Title               *devicesql.String
	Path                *devicesql.String
	Filename            *devicesql.String
	Comment             *devicesql.String
	AnalyzePath         *devicesql.String
	ReleaseDate         *devicesql.String
	ISRC                *devicesql.String
	Mix                 *devicesql.String
	MessageBody         *devicesql.String
	AutoloadHotcues     *devicesql.String
	OriginalArtistName  *devicesql.String
	RemixerName         *devicesql.String
	ComposerName        *devicesql.String
	DateAdded           *devicesql.String
}

// trackStringFields lists the fields that own one offset slot each, in
// the fixed order the offset array stores them.
func (t *TrackRow) trackStringFields() []**devicesql.String {
	return []**devicesql.String{
		&t.Title, &t.Path, &t.Filename, &t.Comment, &t.AnalyzePath,
		&t.ReleaseDate, &t.ISRC, &t.Mix, &t.MessageBody, &t.AutoloadHotcues,
		&t.OriginalArtistName, &t.RemixerName, &t.ComposerName, &t.DateAdded,
	}
}

const trackStringFieldCount = 14
const trackScalarSize = 21*4 + 4 // twenty-one u32 fields, four u8 fields
const trackFixedSize = trackScalarSize + trackStringFieldCount*2

func decodeTrackRow(row []byte) (*TrackRow, error) {
	r := bytes.NewReader(row)
	t := &TrackRow{}

	fields := []*uint32{
		&t.ID, &t.BitRate, &t.SampleRate, &t.SampleDepth, &t.Duration,
		&t.TrackNumber, &t.DiscNumber, &t.PlayCount, &t.Year, &t.Tempo,
		&t.ArtistID, &t.AlbumID, &t.GenreID, &t.KeyID, &t.LabelID,
		&t.OriginalArtistID, &t.RemixerID, &t.ComposerID, &t.ArrangerID,
		&t.ArtworkID, &t.FileSize,
	}
	for _, f := range fields {
		v, err := bin.ReadU32(r, rowOrder)
		if err != nil {
			return nil, err
		}
		*f = v
	}

	rating, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	colorID, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	trackType, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	unknown1, err := bin.ReadU8(r)
	if err != nil {
		return nil, err
	}
	t.Rating = rating
	t.ColorID = common.ColorIndex(colorID)
	t.TrackType = trackType
	t.Unknown1 = unknown1

	offsets := make([]uint16, trackStringFieldCount)
	for i := range offsets {
		v, err := bin.ReadU16(r, rowOrder)
		if err != nil {
			return nil, err
		}
		offsets[i] = v
	}

	stringFields := t.trackStringFields()
	for i, offset := range offsets {
		if offset == 0 {
			continue
		}
		s, err := offsetrow.ReadStringAt(row, offset)
		if err != nil {
			return nil, err
		}
		*stringFields[i] = s
	}

	return t, nil
}

// Encode serializes the track row, recomputing every string offset.
func (t *TrackRow) Encode() ([]byte, error) {
	tail := offsetrow.NewTail(trackFixedSize)
	offsets := make([]uint16, trackStringFieldCount)
	for i, fp := range t.trackStringFields() {
		if *fp == nil {
			continue
		}
		off, err := tail.Append(*fp)
		if err != nil {
			return nil, err
		}
		offsets[i] = off
	}

	var buf bytes.Buffer
	scalars := []uint32{
		t.ID, t.BitRate, t.SampleRate, t.SampleDepth, t.Duration,
		t.TrackNumber, t.DiscNumber, t.PlayCount, t.Year, t.Tempo,
		t.ArtistID, t.AlbumID, t.GenreID, t.KeyID, t.LabelID,
		t.OriginalArtistID, t.RemixerID, t.ComposerID, t.ArrangerID,
		t.ArtworkID, t.FileSize,
	}
	for _, v := range scalars {
		bin.WriteU32(&buf, rowOrder, v)
	}
	bin.WriteU8(&buf, t.Rating)
	bin.WriteU8(&buf, uint8(t.ColorID))
	bin.WriteU8(&buf, t.TrackType)
	bin.WriteU8(&buf, t.Unknown1)
	for _, off := range offsets {
		bin.WriteU16(&buf, rowOrder, off)
	}
	buf.Write(tail.Bytes())
	return buf.Bytes(), nil
}
