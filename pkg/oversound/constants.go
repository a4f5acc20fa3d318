package oversound

const (
	// AuthCookie carries the opaque session token issued by the session service.
	AuthCookie = "oversound_auth"

	UnknownName         = "unknown"
	MaxRelated          = 6
	UnorderedAlbumOrder = 999
)

// UserType is the derived classification of the caller.
type UserType int

const (
	UserTypeNone   UserType = 0
	UserTypeUser   UserType = 1
	UserTypeArtist UserType = 2
)

// Favorite content types accepted by the session service.
const (
	FavSongs   = "songs"
	FavAlbums  = "albums"
	FavArtists = "artists"
)

func ValidFavType(t string) bool {
	switch t {
	case FavSongs, FavAlbums, FavArtists:
		return true
	}
	return false
}
