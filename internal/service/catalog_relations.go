package service

import (
	"context"
	"log/slog"
	"sync"

	"oversound/internal/metrics"
	"oversound/pkg/oversound"

	"golang.org/x/sync/errgroup"
)

// expansion is the working set of one relation expansion. Artist lookups are
// shared inside it, so an artist referenced several times in one response is
// fetched once. It is discarded with the request.
type expansion struct {
	svc *CatalogService

	mu      sync.Mutex
	artists map[int]*artistLookup
}

type artistLookup struct {
	once   sync.Once
	artist oversound.Artist
}

func (s *CatalogService) newExpansion() *expansion {
	return &expansion{svc: s, artists: make(map[int]*artistLookup)}
}

// group returns a task group bounded by the fan-out limit. Tasks record their
// own fallbacks and always return nil, so Wait never reports an error.
func (x *expansion) group() *errgroup.Group {
	g := new(errgroup.Group)
	g.SetLimit(x.svc.fanoutLimit)
	return g
}

func fallback(relation string, id any, err error) {
	metrics.RecordFallback(relation)
	slog.Warn("Relation lookup failed, using fallback", "relation", relation, "id", id, "error", err)
}

// artist resolves an artist or returns a placeholder carrying the known id.
func (x *expansion) artist(ctx context.Context, id int, relation string) oversound.Artist {
	x.mu.Lock()
	l, ok := x.artists[id]
	if !ok {
		l = &artistLookup{}
		x.artists[id] = l
	}
	x.mu.Unlock()

	l.once.Do(func() {
		a, err := x.svc.Artist(ctx, id)
		if err != nil {
			fallback(relation, id, err)
			l.artist = oversound.PlaceholderArtist(id)
			return
		}
		l.artist = *a
	})
	return l.artist
}

// genres filters the global genre list down to ids. A failed fetch yields an
// empty list, never a partial one.
func (x *expansion) genres(ctx context.Context, ids oversound.IDs, relation string) []oversound.Genre {
	out := []oversound.Genre{}
	if len(ids) == 0 {
		return out
	}
	all, err := x.svc.Genres(ctx)
	if err != nil {
		fallback(relation, ids, err)
		return out
	}
	seen := make(map[int]bool, len(ids))
	for _, g := range all {
		if ids.Contains(g.ID) && !seen[g.ID] {
			seen[g.ID] = true
			out = append(out, g)
		}
	}
	return out
}

// albumWithArtist resolves an album and its artist, or nil when the album fails.
func (x *expansion) albumWithArtist(ctx context.Context, id int, relation string) *oversound.AlbumWithArtist {
	album, err := x.svc.Album(ctx, id)
	if err != nil {
		fallback(relation, id, err)
		return nil
	}
	return &oversound.AlbumWithArtist{
		Album:  *album,
		Artist: x.artist(ctx, album.ArtistID, relation+".artist"),
	}
}

// ExpandSong attaches artist, collaborators, genres, original album and
// linked albums to song. Every relation is independent.
func (s *CatalogService) ExpandSong(ctx context.Context, song *oversound.Song) *oversound.SongDetail {
	x := s.newExpansion()
	d := &oversound.SongDetail{
		Song:              *song,
		CollaboratorsData: make([]oversound.Artist, len(song.Collaborators)),
		GenresData:        []oversound.Genre{},
		LinkedAlbumsData:  []oversound.AlbumWithArtist{},
	}
	linked := make([]*oversound.AlbumWithArtist, len(song.LinkedAlbums))

	g := x.group()
	g.Go(func() error {
		d.Artist = x.artist(ctx, song.ArtistID, "song.artist")
		return nil
	})
	for i, id := range song.Collaborators {
		g.Go(func() error {
			d.CollaboratorsData[i] = x.artist(ctx, id, "song.collaborator")
			return nil
		})
	}
	g.Go(func() error {
		d.GenresData = x.genres(ctx, song.Genres, "song.genres")
		return nil
	})
	if song.AlbumID.Valid {
		g.Go(func() error {
			d.OriginalAlbum = x.albumWithArtist(ctx, song.AlbumID.Int, "song.original_album")
			return nil
		})
	}
	for i, id := range song.LinkedAlbums {
		g.Go(func() error {
			linked[i] = x.albumWithArtist(ctx, id, "song.linked_album")
			return nil
		})
	}
	_ = g.Wait()

	for _, a := range linked {
		if a != nil {
			d.LinkedAlbumsData = append(d.LinkedAlbumsData, *a)
		}
	}
	return d
}

// ExpandAlbum attaches artist, genres, songs (one batch call, each with its
// artist) and related albums. Songs are left in upstream order; AssembleAlbum
// orders them.
func (s *CatalogService) ExpandAlbum(ctx context.Context, album *oversound.Album) *oversound.AlbumDetail {
	x := s.newExpansion()
	d := &oversound.AlbumDetail{
		Album:         *album,
		GenresData:    []oversound.Genre{},
		SongsData:     []oversound.SongWithArtist{},
		RelatedAlbums: []oversound.Album{},
	}
	var songs []oversound.Song

	g := x.group()
	g.Go(func() error {
		d.Artist = x.artist(ctx, album.ArtistID, "album.artist")
		return nil
	})
	g.Go(func() error {
		d.GenresData = x.genres(ctx, album.Genres, "album.genres")
		return nil
	})
	g.Go(func() error {
		var err error
		if songs, err = s.SongList(ctx, album.Songs); err != nil {
			fallback("album.songs", album.ID, err)
			songs = nil
		}
		return nil
	})
	_ = g.Wait()

	d.SongsData = make([]oversound.SongWithArtist, len(songs))
	g = x.group()
	for i, song := range songs {
		g.Go(func() error {
			d.SongsData[i] = oversound.SongWithArtist{
				Song:   song,
				Artist: x.artist(ctx, song.ArtistID, "album.song.artist"),
			}
			return nil
		})
	}
	g.Go(func() error {
		related := RelatedIDs(d.Artist.OwnerAlbums, album.ID)
		albums, err := s.AlbumList(ctx, related)
		if err != nil {
			fallback("album.related_albums", album.ID, err)
			return nil
		}
		d.RelatedAlbums = albums
		return nil
	})
	_ = g.Wait()
	return d
}

// ExpandMerch attaches the artist and up to MaxRelated other items by that artist.
func (s *CatalogService) ExpandMerch(ctx context.Context, merch *oversound.Merch) *oversound.MerchDetail {
	x := s.newExpansion()
	d := &oversound.MerchDetail{
		Merch:        *merch,
		Artist:       x.artist(ctx, merch.ArtistID, "merch.artist"),
		RelatedMerch: []oversound.Merch{},
	}
	related, err := s.MerchList(ctx, RelatedIDs(d.Artist.OwnerMerch, merch.ID))
	if err != nil {
		fallback("merch.related_merch", merch.ID, err)
		return d
	}
	d.RelatedMerch = related
	return d
}

// ExpandArtist replaces the artist's owner_* id lists with resolved records.
func (s *CatalogService) ExpandArtist(ctx context.Context, artist *oversound.Artist) *oversound.ArtistProfile {
	x := s.newExpansion()
	p := &oversound.ArtistProfile{
		Artist:      *artist,
		OwnerSongs:  []oversound.Song{},
		OwnerAlbums: []oversound.Album{},
		OwnerMerch:  []oversound.Merch{},
	}

	g := x.group()
	g.Go(func() error {
		songs, err := s.SongList(ctx, artist.OwnerSongs)
		if err != nil {
			fallback("artist.owner_songs", artist.ID, err)
			return nil
		}
		p.OwnerSongs = songs
		return nil
	})
	g.Go(func() error {
		albums, err := s.AlbumList(ctx, artist.OwnerAlbums)
		if err != nil {
			fallback("artist.owner_albums", artist.ID, err)
			return nil
		}
		p.OwnerAlbums = albums
		return nil
	})
	g.Go(func() error {
		merch, err := s.MerchList(ctx, artist.OwnerMerch)
		if err != nil {
			fallback("artist.owner_merch", artist.ID, err)
			return nil
		}
		p.OwnerMerch = merch
		return nil
	})
	_ = g.Wait()
	return p
}

// ExpandLabel resolves the label's artists. Artists that fail are dropped.
func (s *CatalogService) ExpandLabel(ctx context.Context, label *oversound.Label) *oversound.LabelDetail {
	x := s.newExpansion()
	resolved := make([]*oversound.Artist, len(label.Artists))

	g := x.group()
	for i, id := range label.Artists {
		g.Go(func() error {
			a, err := s.Artist(ctx, id)
			if err != nil {
				fallback("label.artist", id, err)
				return nil
			}
			resolved[i] = a
			return nil
		})
	}
	_ = g.Wait()

	d := &oversound.LabelDetail{Label: *label, Artists: []oversound.Artist{}}
	for _, a := range resolved {
		if a != nil {
			d.Artists = append(d.Artists, *a)
		}
	}
	d.ArtistsCount = len(d.Artists)
	return d
}
