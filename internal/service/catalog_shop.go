package service

import (
	"context"
	"log"
	"net/url"

	"oversound/internal/metrics"
	"oversound/pkg/oversound"
)

// filterQuery renders the criteria for the filter endpoints. Empty optional
// fields are omitted.
func filterQuery(c oversound.FilterCriteria) url.Values {
	q := url.Values{}
	order, direction := c.Order, c.Direction
	if order == "" {
		order = oversound.DefaultOrder
	}
	if direction == "" {
		direction = oversound.DefaultDirection
	}
	q.Set("order", order)
	q.Set("direction", direction)
	if c.Genres != "" {
		q.Set("genres", c.Genres)
	}
	if c.Artists != "" {
		q.Set("artists", c.Artists)
	}
	return q
}

// Shop aggregates the shop page. Genres, artists, songs, albums and merch are
// fetched concurrently and each one that fails is returned empty. It never
// fails as a whole.
func (s *CatalogService) Shop(ctx context.Context, criteria oversound.FilterCriteria) *oversound.Shop {
	query := filterQuery(criteria)
	shop := &oversound.Shop{
		Songs:   []oversound.Song{},
		Albums:  []oversound.Album{},
		Merch:   []oversound.Merch{},
		Genres:  []oversound.Genre{},
		Artists: []oversound.Artist{},
	}

	g := s.newExpansion().group()

	// 1. Genres
	g.Go(func() error {
		genres, err := s.Genres(ctx)
		if err != nil {
			shopFallback("genres", err)
			return nil
		}
		shop.Genres = genres
		return nil
	})

	// 2. Artists (unfiltered)
	g.Go(func() error {
		ids, err := s.filterIDs(ctx, "artist", nil)
		if err != nil {
			shopFallback("artist_ids", err)
			return nil
		}
		artists, err := s.ArtistList(ctx, ids)
		if err != nil {
			shopFallback("artists", err)
			return nil
		}
		shop.Artists = artists
		return nil
	})

	// 3. Songs
	g.Go(func() error {
		ids, err := s.filterIDs(ctx, "song", query)
		if err != nil {
			shopFallback("song_ids", err)
			return nil
		}
		songs, err := s.SongList(ctx, ids)
		if err != nil {
			shopFallback("songs", err)
			return nil
		}
		shop.Songs = songs
		return nil
	})

	// 4. Albums
	g.Go(func() error {
		ids, err := s.filterIDs(ctx, "album", query)
		if err != nil {
			shopFallback("album_ids", err)
			return nil
		}
		albums, err := s.AlbumList(ctx, ids)
		if err != nil {
			shopFallback("albums", err)
			return nil
		}
		shop.Albums = albums
		return nil
	})

	// 5. Merch
	g.Go(func() error {
		ids, err := s.filterIDs(ctx, "merch", query)
		if err != nil {
			shopFallback("merch_ids", err)
			return nil
		}
		merch, err := s.MerchList(ctx, ids)
		if err != nil {
			shopFallback("merch", err)
			return nil
		}
		shop.Merch = merch
		return nil
	})

	_ = g.Wait()

	log.Printf("[Shop] songs=%d albums=%d merch=%d genres=%d artists=%d",
		len(shop.Songs), len(shop.Albums), len(shop.Merch), len(shop.Genres), len(shop.Artists))
	return shop
}

func shopFallback(branch string, err error) {
	metrics.RecordFallback("shop." + branch)
	log.Printf("[Shop] Error fetching %s: %v", branch, err)
}
