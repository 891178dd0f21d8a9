package pdb

// PageType is the 32-bit tag a table descriptor carries, determining
// which row variant every page in that table's chain holds (spec §3.3,
// §4.5). Unrecognized values are not an error at this layer: a table
// whose type this codec does not know simply has its rows preserved as
// UnknownRow rather than parsed.
type PageType uint32

// Documented page types.
const (
	PageTypeTracks           PageType = 0
	PageTypeGenres           PageType = 1
	PageTypeArtists          PageType = 2
	PageTypeAlbums           PageType = 3
	PageTypeLabels           PageType = 4
	PageTypeKeys             PageType = 5
	PageTypeColors           PageType = 6
	PageTypePlaylistTree     PageType = 7
	PageTypePlaylistEntries  PageType = 8
	PageTypeArtwork          PageType = 9
	PageTypeColumns          PageType = 10
	PageTypeHistoryPlaylists PageType = 11
	PageTypeHistoryEntries   PageType = 12
)

var pageTypeNames = map[PageType]string{
	PageTypeTracks:           "tracks",
	PageTypeGenres:           "genres",
	PageTypeArtists:          "artists",
	PageTypeAlbums:           "albums",
	PageTypeLabels:           "labels",
	PageTypeKeys:             "keys",
	PageTypeColors:           "colors",
	PageTypePlaylistTree:     "playlist_tree",
	PageTypePlaylistEntries:  "playlist_entries",
	PageTypeArtwork:          "artwork",
	PageTypeColumns:          "columns",
	PageTypeHistoryPlaylists: "history_playlists",
	PageTypeHistoryEntries:   "history_entries",
}

// String names the page type, or reports it as unknown without erroring.
func (t PageType) String() string {
	if name, ok := pageTypeNames[t]; ok {
		return name
	}
	return "unknown"
}
