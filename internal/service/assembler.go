package service

import (
	"cmp"
	"fmt"
	"slices"

	"oversound/pkg/oversound"
)

// TotalDuration sums the known durations of songs, in seconds.
func TotalDuration(songs []oversound.SongWithArtist) int {
	total := 0
	for _, s := range songs {
		if s.Duration.Valid && s.Duration.Int > 0 {
			total += s.Duration.Int
		}
	}
	return total
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// SortByAlbumOrder orders songs by albumOrder ascending. Songs without an
// order go last and keep their relative order.
func SortByAlbumOrder(songs []oversound.SongWithArtist) {
	slices.SortStableFunc(songs, func(a, b oversound.SongWithArtist) int {
		return cmp.Compare(a.AlbumOrder.Or(oversound.UnorderedAlbumOrder), b.AlbumOrder.Or(oversound.UnorderedAlbumOrder))
	})
}

// RelatedIDs is the artist's catalog minus the current item, capped.
func RelatedIDs(owned oversound.IDs, self int) oversound.IDs {
	return owned.Without(self, oversound.MaxRelated)
}

// CheckOwnership fails unless the session's artist owns the entity.
func CheckOwnership(sess *oversound.Session, ownerArtistID int) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if !sess.ArtistID.Valid || sess.ArtistID.Int != ownerArtistID {
		return ErrForbidden
	}
	return nil
}

// ClassifyUser derives the caller's user type from the session.
func ClassifyUser(sess *oversound.Session) oversound.UserType {
	switch {
	case sess == nil:
		return oversound.UserTypeNone
	case sess.IsArtist():
		return oversound.UserTypeArtist
	}
	return oversound.UserTypeUser
}

// AssembleAlbum orders the album's songs and fills the derived duration fields.
func AssembleAlbum(d *oversound.AlbumDetail, sess *oversound.Session) {
	SortByAlbumOrder(d.SongsData)
	d.TotalDuration = TotalDuration(d.SongsData)
	d.FormattedDuration = FormatDuration(d.TotalDuration)
	d.UserType = ClassifyUser(sess)
}
