package oversound

// Views are what the gateway returns after expansion. Each one embeds the
// upstream record so its fields stay at the top level of the JSON object.

type SongWithArtist struct {
	Song
	Artist Artist `json:"artist"`
}

type AlbumWithArtist struct {
	Album
	Artist Artist `json:"artist"`
}

type SongDetail struct {
	Song
	Artist            Artist            `json:"artist"`
	CollaboratorsData []Artist          `json:"collaborators_data"`
	GenresData        []Genre           `json:"genres_data"`
	OriginalAlbum     *AlbumWithArtist  `json:"original_album"`
	LinkedAlbumsData  []AlbumWithArtist `json:"linked_albums_data"`
	UserType          UserType          `json:"user_type"`
}

type AlbumDetail struct {
	Album
	Artist            Artist           `json:"artist"`
	GenresData        []Genre          `json:"genres_data"`
	SongsData         []SongWithArtist `json:"songs_data"`
	RelatedAlbums     []Album          `json:"related_albums"`
	TotalDuration     int              `json:"total_duration"`
	FormattedDuration string           `json:"formatted_duration"`
	UserType          UserType         `json:"user_type"`
}

type MerchDetail struct {
	Merch
	Artist       Artist   `json:"artist"`
	RelatedMerch []Merch  `json:"related_merch"`
	UserType     UserType `json:"user_type"`
}

// ArtistProfile replaces the owner_* id lists with the resolved records.
type ArtistProfile struct {
	Artist
	OwnerSongs   []Song  `json:"owner_songs"`
	OwnerAlbums  []Album `json:"owner_albums"`
	OwnerMerch   []Merch `json:"owner_merch"`
	IsOwnProfile bool    `json:"is_own_profile"`
}

// LabelDetail replaces the artist id list with the artists that resolved.
type LabelDetail struct {
	Label
	Artists      []Artist `json:"artists"`
	ArtistsCount int      `json:"artists_count"`
	IsOwner      bool     `json:"is_owner"`
	IsMember     bool     `json:"is_member"`
}

type Shop struct {
	Songs   []Song   `json:"songs"`
	Albums  []Album  `json:"albums"`
	Merch   []Merch  `json:"merch"`
	Genres  []Genre  `json:"genres"`
	Artists []Artist `json:"artists"`
}

type Profile struct {
	User           any   `json:"user"`
	IsOwnProfile   bool  `json:"is_own_profile"`
	PaymentMethods []any `json:"payment_methods"`
}
