package anlz

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, f *File) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestBeatGridRoundTrip(t *testing.T) {
	f := &File{
		Sections: []Section{
			{Magic: MagicBeatGrid, Payload: &BeatGrid{Beats: []Beat{
				{BeatNumber: 1, Tempo: 12800, Timestamp: 0},
				{BeatNumber: 2, Tempo: 12800, Timestamp: 469},
			}}},
		},
	}
	encoded := roundTrip(t, f)

	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	reencoded := roundTrip(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch:\n got % x\nwant % x", reencoded, encoded)
	}

	grid, ok := decoded.Sections[0].Payload.(*BeatGrid)
	if !ok {
		t.Fatalf("decoded payload type = %T, want *BeatGrid", decoded.Sections[0].Payload)
	}
	if len(grid.Beats) != 2 || grid.Beats[1].Timestamp != 469 {
		t.Fatalf("unexpected beat grid contents: %+v", grid.Beats)
	}
}

func TestCueListExtendedRoundTrip(t *testing.T) {
	f := &File{
		Sections: []Section{
			{Magic: MagicExtendedCueList, Payload: &CueList{
				Type:     ListTypeHot,
				Extended: true,
				Cues: []Cue{
					{HotCueIndex: 0, Kind: CueKindPoint, Time: 1500, Extended: true, Color: 3, Comment: "drop"},
					{HotCueIndex: 1, Kind: CueKindLoop, Time: 4000, LoopTime: 8000, Extended: true, Comment: ""},
				},
			}},
		},
	}
	encoded := roundTrip(t, f)

	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	reencoded := roundTrip(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch")
	}

	list := decoded.Sections[0].Payload.(*CueList)
	if list.Cues[0].Comment != "drop" {
		t.Fatalf("comment = %q, want %q", list.Cues[0].Comment, "drop")
	}
}

func TestFilePathRoundTrip(t *testing.T) {
	f := &File{Sections: []Section{
		{Magic: MagicFilePath, Payload: &FilePath{Path: "/Volumes/DJ/Track.mp3"}},
	}}
	encoded := roundTrip(t, f)
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Sections[0].Payload.(*FilePath).Path != "/Volumes/DJ/Track.mp3" {
		t.Fatalf("unexpected path: %+v", decoded.Sections[0].Payload)
	}
}

func TestWaveformVariantsRoundTrip(t *testing.T) {
	f := &File{Sections: []Section{
		{Magic: MagicWaveformPreview, Payload: &WaveformPreview{Heights: []uint8{0, 10, 31, 5}}},
		{Magic: MagicTinyWaveformPreview, Payload: &TinyWaveformPreview{Heights: []uint8{0, 15, 7, 2}}},
		{Magic: MagicWaveformDetail, Payload: &WaveformDetail{Columns: []WaveformColumn{{Height: 31, Whiteness: 7}, {Height: 0, Whiteness: 0}}}},
		{Magic: MagicColorWaveformPreview, Payload: &ColorWaveformPreview{Columns: []uint16{1, 2, 3}}},
		{Magic: MagicColorWaveformDetail, Payload: &ColorWaveformDetail{
			Red: []uint16{1, 2}, Green: []uint16{3, 4}, Blue: []uint16{5, 6}, Height: []uint16{7, 8},
		}},
		{Magic: MagicUnknown6, Payload: &UnknownSection{Raw: []byte{0xde, 0xad, 0xbe, 0xef}}},
	}}
	encoded := roundTrip(t, f)
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	reencoded := roundTrip(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSongStructureRoundTripUnmasked(t *testing.T) {
	f := &File{Sections: []Section{
		{Magic: MagicSongStructure, Payload: &SongStructure{
			Mood: MoodHigh,
			Bank: BankCool,
			Entries: []PhraseEntry{
				{Index: 1, Kind: 1, Beat: 1, Fill: 0},
				{Index: 2, Kind: 2, Beat: 65, Fill: 1},
			},
		}},
	}}
	encoded := roundTrip(t, f)
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	ss := decoded.Sections[0].Payload.(*SongStructure)
	if ss.Masked {
		t.Fatalf("expected unmasked song structure to decode as unmasked")
	}
	if len(ss.Entries) != 2 || ss.Entries[1].Beat != 65 {
		t.Fatalf("unexpected entries: %+v", ss.Entries)
	}
	reencoded := roundTrip(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSongStructureRoundTripMasked(t *testing.T) {
	plain := &SongStructure{
		Mood:    MoodLow,
		Bank:    BankVivid,
		Masked:  true,
		Entries: []PhraseEntry{{Index: 1, Kind: 3, Beat: 1}},
	}
	f := &File{Sections: []Section{{Magic: MagicSongStructure, Payload: plain}}}
	encoded := roundTrip(t, f)

	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	ss := decoded.Sections[0].Payload.(*SongStructure)
	if !ss.Masked {
		t.Fatalf("expected masked song structure to decode as masked")
	}
	if ss.Mood != MoodLow || ss.Bank != BankVivid {
		t.Fatalf("unexpected mood/bank after unmasking: %+v", ss)
	}
}

func TestUnknownSectionPreservesMagicAndBytes(t *testing.T) {
	f := &File{Sections: []Section{
		{Magic: "PFOO", Payload: &UnknownSection{Raw: []byte{1, 2, 3, 4, 5}}},
	}}
	encoded := roundTrip(t, f)
	decoded, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Sections[0].Magic != "PFOO" {
		t.Fatalf("magic = %q, want PFOO", decoded.Sections[0].Magic)
	}
	raw := decoded.Sections[0].Payload.(*UnknownSection).Raw
	if !bytes.Equal(raw, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("raw bytes = % x", raw)
	}
}
