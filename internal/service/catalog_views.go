package service

import (
	"context"

	"oversound/pkg/oversound"
)

// SongDetail resolves, expands and assembles the song page. Only a failure
// of the song itself is returned.
func (s *CatalogService) SongDetail(ctx context.Context, id int, sess *oversound.Session) (*oversound.SongDetail, error) {
	song, err := s.Song(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.ExpandSong(ctx, song)
	d.UserType = ClassifyUser(sess)
	return d, nil
}

func (s *CatalogService) AlbumDetail(ctx context.Context, id int, sess *oversound.Session) (*oversound.AlbumDetail, error) {
	album, err := s.Album(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.ExpandAlbum(ctx, album)
	AssembleAlbum(d, sess)
	return d, nil
}

func (s *CatalogService) MerchDetail(ctx context.Context, id int, sess *oversound.Session) (*oversound.MerchDetail, error) {
	merch, err := s.Merch(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.ExpandMerch(ctx, merch)
	d.UserType = ClassifyUser(sess)
	return d, nil
}

func (s *CatalogService) ArtistProfile(ctx context.Context, id int, sess *oversound.Session) (*oversound.ArtistProfile, error) {
	artist, err := s.Artist(ctx, id)
	if err != nil {
		return nil, err
	}
	p := s.ExpandArtist(ctx, artist)
	p.IsOwnProfile = sess.IsArtist() && sess.ArtistID.Int == id
	return p, nil
}

func (s *CatalogService) LabelDetail(ctx context.Context, id int, sess *oversound.Session) (*oversound.LabelDetail, error) {
	label, err := s.Label(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.ExpandLabel(ctx, label)
	if sess != nil {
		d.IsOwner = sess.UserID == label.OwnerID
		d.IsMember = sess.IsArtist() && label.Artists.Contains(sess.ArtistID.Int)
	}
	return d, nil
}
