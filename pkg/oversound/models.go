package oversound

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Artist struct {
	ID          int    `json:"artistId"`
	Name        string `json:"artisticName"`
	Image       string `json:"artisticImage,omitempty"`
	Biography   string `json:"artisticBiography,omitempty"`
	Email       string `json:"artisticEmail,omitempty"`
	UserID      int    `json:"userId,omitempty"`
	OwnerSongs  IDs    `json:"owner_songs"`
	OwnerAlbums IDs    `json:"owner_albums"`
	OwnerMerch  IDs    `json:"owner_merch"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// PlaceholderArtist stands in for an artist whose lookup failed.
func PlaceholderArtist(id int) Artist {
	return Artist{
		ID:          id,
		Name:        UnknownName,
		OwnerSongs:  IDs{},
		OwnerAlbums: IDs{},
		OwnerMerch:  IDs{},
		Placeholder: true,
	}
}

type Song struct {
	ID            int     `json:"songId"`
	Title         string  `json:"title"`
	ArtistID      int     `json:"artistId"`
	AlbumID       NullInt `json:"albumId"`
	AlbumOrder    NullInt `json:"albumOrder"`
	Duration      NullInt `json:"duration"`
	Price         Price   `json:"price"`
	Cover         string  `json:"cover,omitempty"`
	Description   string  `json:"description,omitempty"`
	ReleaseDate   string  `json:"releaseDate,omitempty"`
	Genres        IDs     `json:"genres"`
	Collaborators IDs     `json:"collaborators"`
	LinkedAlbums  IDs     `json:"linked_albums"`
}

type Album struct {
	ID          int    `json:"albumId"`
	Title       string `json:"title"`
	ArtistID    int    `json:"artistId"`
	Price       Price  `json:"price"`
	Cover       string `json:"cover,omitempty"`
	Description string `json:"description,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Genres      IDs    `json:"genres"`
	Songs       IDs    `json:"songs"`
}

type Merch struct {
	ID          int    `json:"merchId"`
	Title       string `json:"title"`
	ArtistID    int    `json:"artistId"`
	Price       Price  `json:"price"`
	Cover       string `json:"cover,omitempty"`
	Description string `json:"description,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

type Label struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	OwnerID        int    `json:"ownerId"`
	Description    string `json:"description,omitempty"`
	Country        string `json:"country,omitempty"`
	Logo           string `json:"logo,omitempty"`
	FoundationDate string `json:"foundationDate,omitempty"`
	Artists        IDs    `json:"artists"`
}

// Session is the payload the session service returns for an authenticated cookie.
type Session struct {
	UserID   int     `json:"userId"`
	Username string  `json:"username"`
	Email    string  `json:"email,omitempty"`
	Name     string  `json:"name,omitempty"`
	ArtistID NullInt `json:"artistId"`
	LabelID  NullInt `json:"labelId"`
}

// IsArtist reports whether the session belongs to a user linked to an artist.
func (s *Session) IsArtist() bool {
	return s != nil && s.ArtistID.Valid
}

// FilterCriteria is forwarded verbatim to the catalog filter endpoints.
// Empty optional fields are left out of the query.
type FilterCriteria struct {
	Order     string
	Direction string
	Genres    string
	Artists   string
}

const (
	DefaultOrder     = "date"
	DefaultDirection = "desc"
)

// Kind names an entity type as it appears in catalog paths (/song/{id}).
type Kind string

const (
	KindSong   Kind = "song"
	KindAlbum  Kind = "album"
	KindMerch  Kind = "merch"
	KindArtist Kind = "artist"
	KindLabel  Kind = "label"
	KindUser   Kind = "user"
)

// IDField is the JSON key the catalog uses for this kind's id.
func (k Kind) IDField() string {
	return string(k) + "Id"
}
