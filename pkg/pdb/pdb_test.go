package pdb

import (
	"bytes"
	"testing"

	"github.com/rbtoolkit/rbdb/pkg/devicesql"
)

const testPageSize = 256

func buildPage(pageIndex, nextPage uint32, pageType PageType, rows []Row) *Page {
	slots := make([]RowSlot, rowsPerGroup)
	for i, row := range rows {
		slots[i] = RowSlot{Present: true, Row: row}
	}
	return &Page{
		Header: PageHeader{
			PageIndex:    pageIndex,
			PageType:     uint32(pageType),
			NextPage:     nextPage,
			NumRowsSmall: uint8(len(rows)),
		},
		Valid:        true,
		Slots:        slots,
		GroupTrailer: [][2]byte{{0, 0}},
	}
}

func buildFile(tables []Table) *File {
	return &File{
		Header: Header{PageSize: testPageSize, TableCount: uint32(len(tables))},
		Tables: tables,
	}
}

func roundTripPDB(t *testing.T, f *File) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestGenreTableRoundTrip(t *testing.T) {
	page := buildPage(1, 1, PageTypeGenres, []Row{
		&NamedRow{ID: 1, Name: devicesql.New("House")},
		&NamedRow{ID: 2, Name: devicesql.New("Techno")},
	})
	table := Table{
		Descriptor: TableDescriptor{PageType: PageTypeGenres, FirstPage: 1, LastPage: 1},
		Pages:      []*Page{page},
	}
	f := buildFile([]Table{table})
	encoded := roundTripPDB(t, f)

	decoded, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	reencoded := roundTripPDB(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch:\n got % x\nwant % x", reencoded, encoded)
	}

	got := decoded.Tables[0].Pages[0].Slots[0].Row.(*NamedRow)
	if got.Name.Text != "House" {
		t.Fatalf("Name.Text = %q, want %q", got.Name.Text, "House")
	}
}

func TestArtistTableWithExtendedNameRoundTrip(t *testing.T) {
	page := buildPage(1, 1, PageTypeArtists, []Row{
		&ArtistRow{ID: 1, Subtype: ArtistSubtypeShort, Name: devicesql.New("DJ Short")},
		&ArtistRow{ID: 2, Subtype: ArtistSubtypeLong, Name: devicesql.New("DJ"), ExtendedName: devicesql.New("DJ Long Name Extended")},
	})
	table := Table{
		Descriptor: TableDescriptor{PageType: PageTypeArtists, FirstPage: 1, LastPage: 1},
		Pages:      []*Page{page},
	}
	f := buildFile([]Table{table})
	encoded := roundTripPDB(t, f)

	decoded, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	reencoded := roundTripPDB(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch")
	}

	long := decoded.Tables[0].Pages[0].Slots[1].Row.(*ArtistRow)
	if long.ExtendedName == nil || long.ExtendedName.Text != "DJ Long Name Extended" {
		t.Fatalf("unexpected extended name: %+v", long.ExtendedName)
	}
}

func TestTrackRowRoundTrip(t *testing.T) {
	track := &TrackRow{
		ID: 42, BitRate: 320, SampleRate: 44100, Duration: 215,
		ArtistID: 7, AlbumID: 9, GenreID: 3, KeyID: 5,
		Rating: 4,
		Title:    devicesql.New("Strobe"),
		Path:     devicesql.New("/Contents/Artist/Album/Strobe.mp3"),
		Filename: devicesql.New("Strobe.mp3"),
	}
	page := buildPage(1, 1, PageTypeTracks, []Row{track})
	tbl := Table{
		Descriptor: TableDescriptor{PageType: PageTypeTracks, FirstPage: 1, LastPage: 1},
		Pages:      []*Page{page},
	}
	f := buildFile([]Table{tbl})
	encoded := roundTripPDB(t, f)

	decoded, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	reencoded := roundTripPDB(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("round trip mismatch")
	}

	got := decoded.Tables[0].Pages[0].Slots[0].Row.(*TrackRow)
	if got.Title.Text != "Strobe" || got.Path.Text != "/Contents/Artist/Album/Strobe.mp3" {
		t.Fatalf("unexpected track fields: %+v", got)
	}
}

func TestInvalidPageIsSkippedButTraversalContinues(t *testing.T) {
	badHeader := PageHeader{PageIndex: 1, PageType: uint32(PageTypeGenres), NextPage: 2, Flags: PageFlagInvalid}
	var badBuf bytes.Buffer
	badHeader.encode(&badBuf)
	badRaw := badBuf.Bytes()
	badRaw = append(badRaw, make([]byte, testPageSize-len(badRaw))...)
	badPage := &Page{Header: badHeader, Valid: false, Raw: badRaw}

	goodPage := buildPage(2, 2, PageTypeGenres, []Row{&NamedRow{ID: 1, Name: devicesql.New("Ambient")}})

	table := Table{
		Descriptor: TableDescriptor{PageType: PageTypeGenres, FirstPage: 1, LastPage: 2},
		Pages:      []*Page{badPage, goodPage},
	}
	f := buildFile([]Table{table})
	encoded := roundTripPDB(t, f)

	decoded, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if decoded.Tables[0].Pages[0].Valid {
		t.Fatalf("expected first page to decode as invalid")
	}
	if !decoded.Tables[0].Pages[1].Valid {
		t.Fatalf("expected traversal to continue to the valid second page")
	}
	good := decoded.Tables[0].Pages[1].Slots[0].Row.(*NamedRow)
	if good.Name.Text != "Ambient" {
		t.Fatalf("Name.Text = %q", good.Name.Text)
	}
}

func TestAbsentSlotOffsetIsPreserved(t *testing.T) {
	page := buildPage(1, 1, PageTypeGenres, []Row{&NamedRow{ID: 1, Name: devicesql.New("Jazz")}})
	// Mark a later slot present=false but with a non-zero stale offset,
	// simulating a row that was deleted without zeroing its slot.
	page.Slots[5] = RowSlot{Present: false, Offset: 0xBEEF}
	page.Header.NumRowsSmall = 1

	table := Table{
		Descriptor: TableDescriptor{PageType: PageTypeGenres, FirstPage: 1, LastPage: 1},
		Pages:      []*Page{page},
	}
	f := buildFile([]Table{table})
	encoded := roundTripPDB(t, f)

	decoded, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if decoded.Tables[0].Pages[0].Slots[5].Offset != 0xBEEF {
		t.Fatalf("absent slot offset = %#x, want 0xbeef", decoded.Tables[0].Pages[0].Slots[5].Offset)
	}
}
